package vbuffer

// VBuffer is a logical vector of fixed length over element type T, held
// either dense (every slot explicit) or sparse (a strictly increasing set
// of indices paired with their values; every other slot is T's zero value).
//
// The backing arrays are caller-owned: operators reuse them across calls
// when they are already large enough and allocate fresh ones otherwise, but
// a VBuffer returned from an operator never aliases another live VBuffer's
// storage unless the operator explicitly documents it (none here do).
type VBuffer[T any] struct {
	length  int
	count   int
	values  []T
	indices []int // nil when dense
}

// Length is the vector's fixed logical size.
func (v VBuffer[T]) Length() int { return v.length }

// Count is the number of explicit slots: length for dense, len(Indices())
// for sparse.
func (v VBuffer[T]) Count() int { return v.count }

// IsDense reports whether every slot is explicit.
func (v VBuffer[T]) IsDense() bool { return v.indices == nil }

// Values exposes the backing value array, sized to exactly Count(). Callers
// must not retain it past the next mutating call on v.
func (v VBuffer[T]) Values() []T { return v.values[:v.count] }

// Indices exposes the backing index array, sized to exactly Count(). It is
// nil for a dense buffer.
func (v VBuffer[T]) Indices() []int {
	if v.indices == nil {
		return nil
	}
	return v.indices[:v.count]
}

// At returns the logical value at slot, which is T's zero value for any
// implicit slot of a sparse buffer.
func (v VBuffer[T]) At(slot int) T {
	if slot < 0 || slot >= v.length {
		invariantBreach("At", "slot out of range")
	}
	if v.IsDense() {
		return v.values[slot]
	}
	lo, hi := 0, v.count
	for lo < hi {
		mid := (lo + hi) / 2
		if v.indices[mid] < slot {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < v.count && v.indices[lo] == slot {
		return v.values[lo]
	}
	var zero T
	return zero
}

// Empty returns a sparse VBuffer of the given length with no defined slots.
func Empty[T any](length int) VBuffer[T] {
	if length < 0 {
		invariantBreach("Empty", "negative length")
	}
	return VBuffer[T]{length: length, indices: []int{}}
}

// Dense returns a dense, zero-valued VBuffer of the given length.
func Dense[T any](length int) VBuffer[T] {
	if length < 0 {
		invariantBreach("Dense", "negative length")
	}
	return VBuffer[T]{length: length, count: length, values: make([]T, length)}
}

// FromParts constructs a VBuffer directly from its physical parts. indices
// must be nil iff count == length (dense); otherwise it must hold count
// strictly increasing values in [0, length). values and, when present,
// indices may be longer than count — only the first count entries of each
// are read.
func FromParts[T any](length, count int, values []T, indices []int) (VBuffer[T], error) {
	switch {
	case length < 0:
		return VBuffer[T]{}, precondition("FromParts", ErrNegativeLength)
	case count < 0 || count > length:
		return VBuffer[T]{}, precondition("FromParts", ErrCountOutOfRange)
	case indices == nil && count != length:
		return VBuffer[T]{}, precondition("FromParts", ErrDenseCountMismatch)
	case len(values) < count:
		return VBuffer[T]{}, precondition("FromParts", ErrShortBuffer)
	}
	if indices != nil {
		if len(indices) < count {
			return VBuffer[T]{}, precondition("FromParts", ErrShortBuffer)
		}
		prev := -1
		for i := 0; i < count; i++ {
			idx := indices[i]
			if idx <= prev || idx >= length {
				return VBuffer[T]{}, precondition("FromParts", ErrIndicesDisorder)
			}
			prev = idx
		}
	}
	return VBuffer[T]{length: length, count: count, values: values, indices: indices}, nil
}
