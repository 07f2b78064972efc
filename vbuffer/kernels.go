package vbuffer

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gorgonia.org/vecf32"
	"gorgonia.org/vecf64"
)

// Numeric constrains the element types that support the arithmetic named
// kernels below. Non-arithmetic element kinds (float16.Float16) still
// instantiate the structural layer — VBuffer, Densify, ApplyWith, and so
// on are all unconstrained any — but arithmetic on them goes through an
// explicit conversion in a visitor, the way ScaleIntoFloat16 does.
type Numeric interface{ ~float32 | ~float64 }

// ScaleInto computes dst = c * src, preserving src's sparse/dense shape:
// only explicit slots are touched, so scaling a sparse vector never
// materializes its implicit zeros.
func ScaleInto[T Numeric](dst *VBuffer[T], src VBuffer[T], c T) {
	ApplyIntoEitherDefined(src, dst, func(_ int, v T) T { return c * v })
}

// ScaleIntoF32 specializes ScaleInto for float32, routing the dense-dense
// fast path through gorgonia.org/vecf32's vectorized Scale.
func ScaleIntoF32(dst *VBuffer[float32], src VBuffer[float32], c float32) {
	if !src.IsDense() {
		ScaleInto(dst, src, c)
		return
	}
	reserveDense(dst, src.length)
	copy(dst.values, src.values[:src.length])
	vecf32.Scale(dst.values, c)
	dst.indices = nil
	dst.length = src.length
	dst.count = src.length
}

// ScaleIntoF64 is ScaleIntoF32's double-precision counterpart, built on
// gorgonia.org/vecf64.
func ScaleIntoF64(dst *VBuffer[float64], src VBuffer[float64], c float64) {
	if !src.IsDense() {
		ScaleInto(dst, src, c)
		return
	}
	reserveDense(dst, src.length)
	copy(dst.values, src.values[:src.length])
	vecf64.Scale(dst.values, c)
	dst.indices = nil
	dst.length = src.length
	dst.count = src.length
}

// AddMultInto computes dst = a + c*b over the union of a's and b's
// explicit slots (an outer join): a slot explicit in only one operand is
// treated as if the other held zero there.
func AddMultInto[T Numeric](dst *VBuffer[T], a VBuffer[T], c T, b VBuffer[T]) error {
	return ApplyWithEitherDefinedCopy(a, b, dst, func(_ int, bv, av T) T { return av + c*bv })
}

// CopyFromList performs a truncating copy from a sequential container into
// dst, producing a dense VBuffer of the given length: positions beyond
// len(source) are zero, and any of source past length is ignored.
func CopyFromList[T any](source []T, dst *VBuffer[T], length int) error {
	if length < 0 {
		return precondition("CopyFromList", ErrNegativeLength)
	}
	reserveDense(dst, length)
	n := len(source)
	if n > length {
		n = length
	}
	copy(dst.values[:n], source[:n])
	var zero T
	for i := n; i < length; i++ {
		dst.values[i] = zero
	}
	dst.indices = nil
	dst.length = length
	dst.count = length
	return nil
}

// HasNaNs64 reports whether any explicit slot of v holds NaN.
func HasNaNs64(v VBuffer[float64]) bool {
	return floats.HasNaN(v.Values())
}

// HasNaNs32 reports whether any explicit slot of v holds NaN.
func HasNaNs32(v VBuffer[float32]) bool {
	for _, x := range v.Values() {
		if x != x {
			return true
		}
	}
	return false
}

// HasNonFinite64 reports whether any explicit slot of v holds NaN or an
// infinity.
func HasNonFinite64(v VBuffer[float64]) bool {
	for _, x := range v.Values() {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return true
		}
	}
	return false
}

// HasNonFinite32 reports whether any explicit slot of v holds NaN or an
// infinity.
func HasNonFinite32(v VBuffer[float32]) bool {
	for _, x := range v.Values() {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return true
		}
	}
	return false
}
