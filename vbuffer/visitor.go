package vbuffer

// Visitor is the single-element, value-producing visitor shape: given a
// slot and its current value, it returns the value to store there.
type Visitor[T any] func(index int, value T) T

// BoolVisitor is a single-element, read-only visitor with short-circuit:
// the enclosing traversal stops and returns false the first time visit
// returns false.
type BoolVisitor[T any] func(index int, value T) bool

// InPlaceVisitor mutates the value at a slot through a pointer. It must not
// retain the pointer past the call.
type InPlaceVisitor[T any] func(index int, value *T)

// MergeVisitor combines two operands' values at a shared slot and produces
// the combined value, in (slot, src-value, dst-value) order.
type MergeVisitor[T any] func(index int, src, dst T) T

// PairBoolVisitor is the read-only, short-circuiting two-operand visitor
// used by ForEachBothDefined and ForEachEitherDefined.
type PairBoolVisitor[T any] func(index int, a, b T) bool
