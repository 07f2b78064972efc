package vbuffer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func dense(vals ...float64) VBuffer[float64] {
	v := Dense[float64](len(vals))
	copy(v.values, vals)
	return v
}

func sparse(length int, idx []int, vals []float64) VBuffer[float64] {
	v, err := FromParts(length, len(idx), vals, idx)
	if err != nil {
		panic(err)
	}
	return v
}

// toDense materializes any VBuffer (sparse or dense) into a plain slice for
// assertions that should hold regardless of physical encoding.
func toDense[T any](v VBuffer[T]) []T {
	out := make([]T, v.length)
	ForEachDefined(v, func(i int, val T) bool { out[i] = val; return true })
	return out
}

func checkInvariants[T any](t *testing.T, label string, v VBuffer[T]) {
	t.Helper()
	if v.count < 0 || v.count > v.length {
		t.Fatalf("%s: count %d out of [0, %d]", label, v.count, v.length)
	}
	if v.IsDense() {
		if v.count != v.length {
			t.Fatalf("%s: dense buffer has count %d != length %d", label, v.count, v.length)
		}
		if len(v.values) < v.count {
			t.Fatalf("%s: dense values shorter than count", label)
		}
		return
	}
	if len(v.values) < v.count || len(v.indices) < v.count {
		t.Fatalf("%s: sparse backing arrays shorter than count", label)
	}
	prev := -1
	for i := 0; i < v.count; i++ {
		if v.indices[i] <= prev || v.indices[i] >= v.length {
			t.Fatalf("%s: indices not strictly increasing within range at %d", label, i)
		}
		prev = v.indices[i]
	}
}

func TestEmptyDense(t *testing.T) {
	e := Empty[float64](5)
	checkInvariants(t, "Empty", e)
	if e.IsDense() {
		t.Fatal("Empty should be sparse")
	}
	if e.Count() != 0 {
		t.Fatalf("Empty count = %d, want 0", e.Count())
	}

	d := Dense[float64](5)
	checkInvariants(t, "Dense", d)
	if !d.IsDense() {
		t.Fatal("Dense should report dense")
	}
	if d.Count() != 5 {
		t.Fatalf("Dense count = %d, want 5", d.Count())
	}
	for _, v := range d.Values() {
		if v != 0 {
			t.Fatalf("Dense slot = %v, want 0", v)
		}
	}
}

func TestFromPartsRejectsBadIndices(t *testing.T) {
	cases := []struct {
		name    string
		length  int
		count   int
		values  []float64
		indices []int
	}{
		{"negative length", -1, 0, nil, nil},
		{"count exceeds length", 3, 4, []float64{1, 2, 3, 4}, []int{0, 1, 2, 3}},
		{"dense with mismatched count", 3, 2, []float64{1, 2}, nil},
		{"non-increasing indices", 5, 2, []float64{1, 2}, []int{2, 2}},
		{"index out of range", 5, 1, []float64{1}, []int{5}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := FromParts(c.length, c.count, c.values, c.indices)
			if err == nil {
				t.Fatal("expected an error")
			}
			var pe *PreconditionError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *PreconditionError, got %T", err)
			}
		})
	}
}

func TestDensifyEquivalence(t *testing.T) {
	v := sparse(6, []int{1, 4}, []float64{2, 5})
	want := toDense(v)
	Densify(&v)
	checkInvariants(t, "Densify", v)
	if !v.IsDense() {
		t.Fatal("expected dense after Densify")
	}
	if diff := cmp.Diff(want, v.Values(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("Densify changed logical contents (-want +got):\n%s", diff)
	}
}

func TestDensifyIdempotent(t *testing.T) {
	v := sparse(6, []int{1, 4}, []float64{2, 5})
	Densify(&v)
	first := append([]float64(nil), v.Values()...)
	Densify(&v)
	if diff := cmp.Diff(first, v.Values()); diff != "" {
		t.Fatalf("second Densify changed contents (-want +got):\n%s", diff)
	}
}

func TestClearIdempotentAndPreservesShape(t *testing.T) {
	v := sparse(6, []int{1, 4}, []float64{2, 5})
	Clear(&v)
	checkInvariants(t, "Clear", v)
	if v.Count() != 2 {
		t.Fatalf("Clear changed count to %d, want 2 (skeleton preserved)", v.Count())
	}
	for _, x := range v.Values() {
		if x != 0 {
			t.Fatalf("Clear left non-zero value %v", x)
		}
	}
	Clear(&v)
	for _, x := range v.Values() {
		if x != 0 {
			t.Fatalf("second Clear left non-zero value %v", x)
		}
	}
}

func TestApplyAtSlotSpliceAndDensify(t *testing.T) {
	v := Empty[float64](3)
	if err := ApplyAtSlot(&v, 1, func(x *float64) { *x = 7 }, nil); err != nil {
		t.Fatal(err)
	}
	checkInvariants(t, "ApplyAtSlot", v)
	if v.Count() != 1 || v.At(1) != 7 {
		t.Fatalf("expected single explicit slot 1=7, got count=%d at1=%v", v.Count(), v.At(1))
	}
	// Writing zero into an implicit slot must not splice a new entry.
	if err := ApplyAtSlot(&v, 0, func(x *float64) {}, nil); err != nil {
		t.Fatal(err)
	}
	if v.Count() != 1 {
		t.Fatalf("writing zero spliced a spurious entry, count=%d", v.Count())
	}
	// Filling every slot must densify.
	if err := ApplyAtSlot(&v, 0, func(x *float64) { *x = 1 }, nil); err != nil {
		t.Fatal(err)
	}
	if err := ApplyAtSlot(&v, 2, func(x *float64) { *x = 3 }, nil); err != nil {
		t.Fatal(err)
	}
	checkInvariants(t, "ApplyAtSlot full", v)
	if !v.IsDense() {
		t.Fatal("expected buffer to densify once every slot is explicit")
	}
	if diff := cmp.Diff([]float64{1, 7, 3}, v.Values()); diff != "" {
		t.Fatalf("unexpected contents (-want +got):\n%s", diff)
	}
}

func TestApplyAtSlotRejectsOutOfRange(t *testing.T) {
	v := Empty[float64](3)
	err := ApplyAtSlot(&v, 3, func(x *float64) {}, nil)
	if !errors.Is(err, ErrSlotOutOfRange) {
		t.Fatalf("expected ErrSlotOutOfRange, got %v", err)
	}
}

func TestMaybeSparsifyCopyRoundTrip(t *testing.T) {
	src := Dense[float64](25)
	src.values[2] = 4
	src.values[20] = -1
	var sparseCopy VBuffer[float64]
	isZero := func(v float64) bool { return v == 0 }
	if err := MaybeSparsifyCopy(src, &sparseCopy, isZero, 0.5); err != nil {
		t.Fatal(err)
	}
	checkInvariants(t, "MaybeSparsifyCopy", sparseCopy)
	if sparseCopy.IsDense() {
		t.Fatal("expected a sparse result for a mostly-zero source")
	}
	if diff := cmp.Diff(toDense(src), toDense(sparseCopy)); diff != "" {
		t.Fatalf("sparsify changed logical contents (-want +got):\n%s", diff)
	}

	var back VBuffer[float64]
	copyInto(sparseCopy, &back)
	Densify(&back)
	checkInvariants(t, "round trip", back)
	if diff := cmp.Diff(toDense(src), back.Values()); diff != "" {
		t.Fatalf("round trip changed logical contents (-want +got):\n%s", diff)
	}
}

func TestMaybeSparsifyCopyFallsBackWhenNotProfitable(t *testing.T) {
	src := Dense[float64](20)
	for i := range src.values {
		src.values[i] = float64(i + 1) // entirely non-zero
	}
	var dst VBuffer[float64]
	if err := MaybeSparsifyCopy(src, &dst, func(v float64) bool { return v == 0 }, 0.1); err != nil {
		t.Fatal(err)
	}
	if !dst.IsDense() {
		t.Fatal("expected a dense fallback when almost every slot is non-zero")
	}
}

func TestMaybeSparsifyCopyRejectsBadThreshold(t *testing.T) {
	src := Dense[float64](25)
	var dst VBuffer[float64]
	if err := MaybeSparsifyCopy(src, &dst, func(v float64) bool { return v == 0 }, 1.5); !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("expected ErrInvalidThreshold, got %v", err)
	}
}

func TestDensifyFirstK(t *testing.T) {
	// v = {L:6, idx=[2,4], v=[7,9]}; densify_first_k(v,3) must explicitly
	// represent slots [0,3) while leaving the existing slot 4 untouched —
	// the minimal result consistent with the operation's stated contract.
	v := sparse(6, []int{2, 4}, []float64{7, 9})
	DensifyFirstK(&v, 3)
	checkInvariants(t, "DensifyFirstK", v)
	if diff := cmp.Diff([]int{0, 1, 2, 4}, v.Indices()); diff != "" {
		t.Fatalf("unexpected index skeleton (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 0, 7, 9}, v.Values()); diff != "" {
		t.Fatalf("unexpected values (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 0, 7, 0, 9, 0}, toDense(v)); diff != "" {
		t.Fatalf("logical contents changed (-want +got):\n%s", diff)
	}
}

func TestDensifyFirstKFastPaths(t *testing.T) {
	// Already-dense input is untouched.
	d := dense(1, 2, 3)
	DensifyFirstK(&d, 2)
	if !d.IsDense() {
		t.Fatal("dense input should remain dense")
	}
	if diff := cmp.Diff([]float64{1, 2, 3}, d.Values()); diff != "" {
		t.Fatalf("dense input changed: %v", diff)
	}

	// k == 0 is a no-op.
	s := sparse(5, []int{1}, []float64{9})
	DensifyFirstK(&s, 0)
	if diff := cmp.Diff([]int{1}, s.Indices()); diff != "" {
		t.Fatalf("k=0 changed skeleton: %v", diff)
	}

	// k == length delegates to a full Densify.
	s2 := sparse(3, []int{1}, []float64{9})
	DensifyFirstK(&s2, 3)
	if !s2.IsDense() {
		t.Fatal("expected full densify when k == length")
	}

	// Already-empty buffer installs an identity permutation.
	e := Empty[float64](4)
	DensifyFirstK(&e, 2)
	checkInvariants(t, "DensifyFirstK empty", e)
	if diff := cmp.Diff([]int{0, 1}, e.Indices()); diff != "" {
		t.Fatalf("unexpected skeleton from empty source: %v", diff)
	}

	// Already-contiguous prefix is a fast-path no-op.
	c := sparse(5, []int{0, 1, 3}, []float64{1, 2, 3})
	before := append([]float64(nil), c.Values()...)
	DensifyFirstK(&c, 2)
	if diff := cmp.Diff(before, c.Values()); diff != "" {
		t.Fatalf("contiguous-prefix fast path mutated values: %v", diff)
	}
}
