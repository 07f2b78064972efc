package vbuffer

// ApplyWithCopy is ApplyWith's copy-producing twin: dst and src are both
// read-only, and the merged result is written into res (reusing res's
// backing arrays when large enough). A dst slot not covered by src is
// copied into res verbatim, without a visit call. Unlike ApplyWith, when
// both operands are sparse a slot explicit only in src is not visited and
// does not appear in res.
func ApplyWithCopy[T any](dst, src VBuffer[T], res *VBuffer[T], visit MergeVisitor[T]) error {
	return applyWithCopyEngine(dst, src, res, false, visit)
}

// ApplyWithEitherDefinedCopy is ApplyWithEitherDefined's copy-producing
// twin: res ends up with the union of dst's and src's explicit slots.
func ApplyWithEitherDefinedCopy[T any](dst, src VBuffer[T], res *VBuffer[T], visit MergeVisitor[T]) error {
	return applyWithCopyEngine(dst, src, res, true, visit)
}

// applyWithCopyEngine follows applyWithEngine's join semantics, except
// for the sparse/sparse inner join (see ApplyWithCopy), and never mutates
// dst: a two-pointer merge is run directly (dst is read-only here,
// so there is no backing array to grow in place the way the in-place
// engine densifies dst for its dense-src fast path; the dense cases below
// read dst through a cursor instead). res's size is computed before
// allocation so its backing arrays are sized exactly once.
func applyWithCopyEngine[T any](dst, src VBuffer[T], res *VBuffer[T], outer bool, visit MergeVisitor[T]) error {
	if dst.length != src.length {
		return precondition("ApplyWithCopy", ErrLengthMismatch)
	}
	length := dst.length
	var zero T

	switch {
	case src.IsDense():
		reserveDense(res, length)
		if dst.IsDense() {
			for i := 0; i < length; i++ {
				res.values[i] = visit(i, src.values[i], dst.values[i])
			}
		} else {
			di := 0
			for i := 0; i < length; i++ {
				dv := zero
				if di < dst.count && dst.indices[di] == i {
					dv = dst.values[di]
					di++
				}
				res.values[i] = visit(i, src.values[i], dv)
			}
		}
		res.indices = nil
		res.length = length
		res.count = length
		return nil

	case dst.IsDense():
		reserveDense(res, length)
		if outer {
			si := 0
			for i := 0; i < length; i++ {
				sv := zero
				if si < src.count && src.indices[si] == i {
					sv = src.values[si]
					si++
				}
				res.values[i] = visit(i, sv, dst.values[i])
			}
		} else {
			copy(res.values, dst.values[:length])
			for i := 0; i < src.count; i++ {
				idx := src.indices[i]
				res.values[idx] = visit(idx, src.values[i], dst.values[idx])
			}
		}
		res.indices = nil
		res.length = length
		res.count = length
		return nil
	}

	// Both operands are sparse.
	if outer {
		newCount, _, _ := mergeIndexStats(dst.indices[:dst.count], src.indices[:src.count])
		if newCount == length {
			reserveDense(res, length)
			di, si := 0, 0
			for i := 0; i < length; i++ {
				dv, sv := zero, zero
				if di < dst.count && dst.indices[di] == i {
					dv = dst.values[di]
					di++
				}
				if si < src.count && src.indices[si] == i {
					sv = src.values[si]
					si++
				}
				res.values[i] = visit(i, sv, dv)
			}
			res.indices = nil
			res.length = length
			res.count = length
			return nil
		}
		reserveSparse(res, newCount)
		values := res.values[:newCount]
		indices := res.indices[:newCount]
		di, si, w := 0, 0, 0
		for di < dst.count || si < src.count {
			switch {
			case si >= src.count || (di < dst.count && dst.indices[di] < src.indices[si]):
				idx := dst.indices[di]
				values[w] = visit(idx, zero, dst.values[di])
				indices[w] = idx
				w++
				di++
			case di >= dst.count || src.indices[si] < dst.indices[di]:
				idx := src.indices[si]
				values[w] = visit(idx, src.values[si], zero)
				indices[w] = idx
				w++
				si++
			default:
				idx := dst.indices[di]
				values[w] = visit(idx, src.values[si], dst.values[di])
				indices[w] = idx
				w++
				di++
				si++
			}
		}
		res.values = values[:w]
		res.indices = indices[:w]
		res.length = length
		res.count = w
		return nil
	}

	// Inner join: res always ends up with exactly dst's index skeleton,
	// since an unmatched dst slot is copied verbatim rather than dropped.
	reserveSparse(res, dst.count)
	values := res.values[:dst.count]
	indices := res.indices[:dst.count]
	di, si := 0, 0
	for di < dst.count {
		idx := dst.indices[di]
		for si < src.count && src.indices[si] < idx {
			si++
		}
		if si < src.count && src.indices[si] == idx {
			values[di] = visit(idx, src.values[si], dst.values[di])
			si++
		} else {
			values[di] = dst.values[di]
		}
		indices[di] = idx
		di++
	}
	res.values = values
	res.indices = indices
	res.length = length
	res.count = dst.count
	return nil
}
