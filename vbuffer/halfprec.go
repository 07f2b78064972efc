package vbuffer

import (
	"github.com/d4l3k/go-bfloat16"
	"github.com/x448/float16"
)

// DensifyFloat16 is Densify specialized to the float16.Float16 element
// type — the same structural engine Densify already provides, named here
// to give the two narrower floating-point kinds this package instantiates
// an explicit entry point next to the arithmetic kernels.
func DensifyFloat16(dst *VBuffer[float16.Float16]) { Densify(dst) }

// ScaleIntoFloat16 computes dst = c * src for half-precision vectors. There
// is no vectorized half-precision Scale in the wired dependencies, so each
// explicit slot is converted to float32, scaled, and converted back; this
// still preserves src's sparse/dense shape via ApplyIntoEitherDefined.
func ScaleIntoFloat16(dst *VBuffer[float16.Float16], src VBuffer[float16.Float16], c float32) {
	ApplyIntoEitherDefined(src, dst, func(_ int, v float16.Float16) float16.Float16 {
		return float16.Fromfloat32(c * v.Float32())
	})
}

// EncodeBFloat16 packs a float32 VBuffer's logical contents into the
// bfloat16 wire encoding via github.com/d4l3k/go-bfloat16. Unlike
// float16.Float16, go-bfloat16 exposes no scalar type to instantiate
// VBuffer over; it operates on whole slices, so it is wired in at the
// buffer-to-bytes boundary instead of as an element type. src is read-only:
// a sparse src is expanded into a freshly allocated slice rather than
// densified in place, since src's backing arrays may have spare capacity
// shared with other live views and must not be mutated here.
func EncodeBFloat16(src VBuffer[float32]) []byte {
	if src.IsDense() {
		return bfloat16.Encode(src.Values())
	}
	values := make([]float32, src.length)
	for i, idx := range src.Indices() {
		values[idx] = src.Values()[i]
	}
	return bfloat16.Encode(values)
}

// DecodeBFloat16 is EncodeBFloat16's inverse, producing a dense float32
// VBuffer from a bfloat16-encoded byte slice.
func DecodeBFloat16(buf []byte, dst *VBuffer[float32]) {
	values := bfloat16.Decode(buf)
	reserveDense(dst, len(values))
	copy(dst.values, values)
	dst.indices = nil
	dst.length = len(values)
	dst.count = len(values)
}
