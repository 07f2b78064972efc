package vbuffer

// ForEachDefined visits v's explicit entries in increasing slot order:
// every position for a dense buffer, or indices[0:count) for a sparse one.
// It returns false as soon as visit does, without visiting the rest.
func ForEachDefined[T any](v VBuffer[T], visit BoolVisitor[T]) bool {
	if v.IsDense() {
		for i := 0; i < v.length; i++ {
			if !visit(i, v.values[i]) {
				return false
			}
		}
		return true
	}
	for i := 0; i < v.count; i++ {
		if !visit(v.indices[i], v.values[i]) {
			return false
		}
	}
	return true
}

// ApplyInPlace visits the same positions as ForEachDefined but hands the
// visitor a mutable reference to the stored value. It never adds or
// removes a slot; only values at already-explicit positions change.
func ApplyInPlace[T any](v *VBuffer[T], manip InPlaceVisitor[T]) {
	if v.IsDense() {
		for i := 0; i < v.length; i++ {
			manip(i, &v.values[i])
		}
		return
	}
	for i := 0; i < v.count; i++ {
		manip(v.indices[i], &v.values[i])
	}
}

// ApplyIntoEitherDefined computes dst[i] = visit(i, src[i]) over src's
// explicit positions, overwriting dst so it ends up with exactly src's
// structural shape (same length, count, and index skeleton when sparse).
// dst's existing backing arrays are reused when large enough.
func ApplyIntoEitherDefined[T any](src VBuffer[T], dst *VBuffer[T], visit Visitor[T]) {
	if src.IsDense() {
		reserveDense(dst, src.length)
		for i := 0; i < src.length; i++ {
			dst.values[i] = visit(i, src.values[i])
		}
		dst.indices = nil
		dst.length = src.length
		dst.count = src.length
		return
	}
	reserveSparse(dst, src.count)
	values := dst.values[:src.count]
	indices := dst.indices[:src.count]
	for i := 0; i < src.count; i++ {
		idx := src.indices[i]
		values[i] = visit(idx, src.values[i])
		indices[i] = idx
	}
	dst.values = values
	dst.indices = indices
	dst.length = src.length
	dst.count = src.count
}
