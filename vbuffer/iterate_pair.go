package vbuffer

// ForEachBothDefined performs an inner join over a and b's explicit
// positions: visit is called once for every slot explicit in both operands,
// in increasing order. a and b must share a length.
func ForEachBothDefined[T any](a, b VBuffer[T], visit PairBoolVisitor[T]) (bool, error) {
	if a.length != b.length {
		return false, precondition("ForEachBothDefined", ErrLengthMismatch)
	}
	switch {
	case a.IsDense() && b.IsDense():
		for i := 0; i < a.length; i++ {
			if !visit(i, a.values[i], b.values[i]) {
				return false, nil
			}
		}
	case a.IsDense():
		for i := 0; i < b.count; i++ {
			idx := b.indices[i]
			if !visit(idx, a.values[idx], b.values[i]) {
				return false, nil
			}
		}
	case b.IsDense():
		for i := 0; i < a.count; i++ {
			idx := a.indices[i]
			if !visit(idx, a.values[i], b.values[idx]) {
				return false, nil
			}
		}
	default:
		ai, bi := 0, 0
		for ai < a.count && bi < b.count {
			switch {
			case a.indices[ai] < b.indices[bi]:
				ai++
			case a.indices[ai] > b.indices[bi]:
				bi++
			default:
				if !visit(a.indices[ai], a.values[ai], b.values[bi]) {
					return false, nil
				}
				ai++
				bi++
			}
		}
	}
	return true, nil
}

// ForEachEitherDefined performs an outer join over a and b's explicit
// positions, supplying T's zero for whichever side is implicit at a
// visited slot. a and b must share a length.
func ForEachEitherDefined[T any](a, b VBuffer[T], visit PairBoolVisitor[T]) (bool, error) {
	if a.length != b.length {
		return false, precondition("ForEachEitherDefined", ErrLengthMismatch)
	}
	var zero T
	switch {
	case a.IsDense() && b.IsDense():
		for i := 0; i < a.length; i++ {
			if !visit(i, a.values[i], b.values[i]) {
				return false, nil
			}
		}
	case a.IsDense():
		bi := 0
		for i := 0; i < a.length; i++ {
			bv := zero
			if bi < b.count && b.indices[bi] == i {
				bv = b.values[bi]
				bi++
			}
			if !visit(i, a.values[i], bv) {
				return false, nil
			}
		}
	case b.IsDense():
		ai := 0
		for i := 0; i < b.length; i++ {
			av := zero
			if ai < a.count && a.indices[ai] == i {
				av = a.values[ai]
				ai++
			}
			if !visit(i, av, b.values[i]) {
				return false, nil
			}
		}
	default:
		ai, bi := 0, 0
		for ai < a.count && bi < b.count {
			switch {
			case a.indices[ai] < b.indices[bi]:
				if !visit(a.indices[ai], a.values[ai], zero) {
					return false, nil
				}
				ai++
			case a.indices[ai] > b.indices[bi]:
				if !visit(b.indices[bi], zero, b.values[bi]) {
					return false, nil
				}
				bi++
			default:
				if !visit(a.indices[ai], a.values[ai], b.values[bi]) {
					return false, nil
				}
				ai++
				bi++
			}
		}
		for ; ai < a.count; ai++ {
			if !visit(a.indices[ai], a.values[ai], zero) {
				return false, nil
			}
		}
		for ; bi < b.count; bi++ {
			if !visit(b.indices[bi], zero, b.values[bi]) {
				return false, nil
			}
		}
	}
	return true, nil
}
