// Package vbuffer implements Hybrid Vector Algebra: a vector type that is
// either fully dense or sparse (sorted index/value pairs) under one caller-
// owned representation, plus the traversal and in-place/copy-producing pair
// engines built on top of it.
//
// Functions:
//   - Empty, Dense, FromParts construct a VBuffer.
//   - Clear, Densify, DensifyFirstK, MaybeSparsifyCopy, ApplyAtSlot are the
//     structural primitives.
//   - ForEachDefined, ApplyInPlace, ApplyIntoEitherDefined iterate a single
//     operand.
//   - ForEachBothDefined, ForEachEitherDefined read two operands together.
//   - ApplyWith, ApplyWithEitherDefined mutate one operand against another.
//   - ApplyWithCopy, ApplyWithEitherDefinedCopy do the same into a third
//     buffer, leaving both inputs untouched.
//   - ScaleInto, AddMultInto, CopyFromList, HasNaNs64/32, HasNonFinite64/32
//     are the named arithmetic kernels built on the above.
package vbuffer

import "errors"

var (
	ErrLengthMismatch     = errors.New("vbuffer: length mismatch")
	ErrNegativeLength     = errors.New("vbuffer: negative length")
	ErrSlotOutOfRange     = errors.New("vbuffer: slot out of range")
	ErrInvalidThreshold   = errors.New("vbuffer: sparsity threshold out of (0, 1)")
	ErrCountOutOfRange    = errors.New("vbuffer: count out of [0, length]")
	ErrShortBuffer        = errors.New("vbuffer: values or indices shorter than count")
	ErrIndicesDisorder    = errors.New("vbuffer: indices must be strictly increasing and within [0, length)")
	ErrDenseCountMismatch = errors.New("vbuffer: dense buffer (nil indices) must have count == length")
)

// PreconditionError reports a caller-supplied argument that violates an
// operation's precondition. The operation is a no-op with respect to any
// state it would otherwise have touched.
type PreconditionError struct {
	Op  string
	Err error
}

func (e *PreconditionError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *PreconditionError) Unwrap() error { return e.Err }

func precondition(op string, err error) error {
	return &PreconditionError{Op: op, Err: err}
}

// InvariantBreach reports an internal assertion failure: a state that the
// data model's own structural invariants guarantee cannot occur for any
// sequence of calls through this package's own API. Recovering from one is
// not supported; it always indicates a bug in this package or in a caller
// that built a VBuffer by hand instead of through a constructor.
type InvariantBreach struct {
	Op  string
	Msg string
}

func (e *InvariantBreach) Error() string { return e.Op + ": invariant breach: " + e.Msg }

func invariantBreach(op, msg string) {
	panic(&InvariantBreach{Op: op, Msg: msg})
}
