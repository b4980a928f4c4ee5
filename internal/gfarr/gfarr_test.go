package gfarr

import (
	"testing"

	"github.com/kcning/minranksolve/internal/gf16"
)

func TestZeroClearsEverything(t *testing.T) {
	a := New(4)
	for i := range a {
		a.SetAt(i, 9)
	}
	a.Zero()
	for i := 0; i < a.Len(); i++ {
		if a.At(i) != 0 {
			t.Fatalf("At(%d)=%d after Zero, want 0", i, a.At(i))
		}
	}
}

func TestFmaScalarMatchesGroundTruth(t *testing.T) {
	a := Arr{1, 2, 3, 4}
	b := Arr{5, 6, 7, 8}
	want := make(Arr, len(a))
	for i := range want {
		want[i] = gf16.Add(a[i], gf16.Mul(b[i], 3))
	}
	a.FmaScalar(b, 3)
	for i := range a {
		if a[i] != want[i] {
			t.Fatalf("FmaScalar[%d]=%d, want %d", i, a[i], want[i])
		}
	}
}

func TestFmaScalarZeroScalarIsNoop(t *testing.T) {
	a := Arr{1, 2, 3}
	b := Arr{9, 9, 9}
	a.FmaScalar(b, 0)
	want := Arr{1, 2, 3}
	for i := range a {
		if a[i] != want[i] {
			t.Fatalf("FmaScalar with c=0 mutated a[%d]=%d, want %d", i, a[i], want[i])
		}
	}
}

func TestFmaScalarMaskOnlyUpdatesMaskedPositions(t *testing.T) {
	a := Arr{1, 1, 1, 1}
	b := Arr{2, 2, 2, 2}
	mask := []bool{true, false, true, false}
	a.FmaScalarMask(b, 5, mask)

	want := Arr{gf16.Add(1, gf16.Mul(2, 5)), 1, gf16.Add(1, gf16.Mul(2, 5)), 1}
	for i := range a {
		if a[i] != want[i] {
			t.Fatalf("FmaScalarMask[%d]=%d, want %d", i, a[i], want[i])
		}
	}
}

func TestCountZeroAndCountNonzero(t *testing.T) {
	a := Arr{0, 1, 0, 2, 0, 3}
	if got := a.CountZero(); got != 3 {
		t.Fatalf("CountZero=%d, want 3", got)
	}
	if got := a.CountNonzero(); got != 3 {
		t.Fatalf("CountNonzero=%d, want 3", got)
	}
	if a.CountZero()+a.CountNonzero() != a.Len() {
		t.Fatalf("CountZero+CountNonzero != Len")
	}
}

func TestCountZeroAllZero(t *testing.T) {
	a := New(5)
	if got := a.CountZero(); got != 5 {
		t.Fatalf("CountZero=%d, want 5", got)
	}
	if got := a.CountNonzero(); got != 0 {
		t.Fatalf("CountNonzero=%d, want 0", got)
	}
}
