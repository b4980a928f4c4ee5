package bitmap

import (
	"math/rand"
	"testing"
)

func TestAtSetAt(t *testing.T) {
	m := New(130)
	for i := 0; i < 130; i++ {
		m.SetAt(i, 1)
		if m.At(i) != 1 {
			t.Fatalf("i=%d: expected set", i)
		}
		m.SetAt(i, 0)
		if m.At(i) != 0 {
			t.Fatalf("i=%d: expected clear", i)
		}
	}
}

func TestPopCountUpto(t *testing.T) {
	m := New(200)
	for i := 0; i < 200; i += 3 {
		m.SetAt(i, 1)
	}
	want := 0
	for i := 0; i < 100; i++ {
		if m.At(i) == 1 {
			want++
		}
	}
	if got := m.PopCountUpto(100); got != want {
		t.Fatalf("PopCountUpto(100)=%d want %d", got, want)
	}
}

func TestAndIsZeroAndCtz(t *testing.T) {
	a := New(128)
	b := New(128)
	if !AndIsZero(a, b) {
		t.Fatalf("both empty should intersect to zero")
	}
	a.SetAt(50, 1)
	b.SetAt(50, 1)
	if AndIsZero(a, b) {
		t.Fatalf("shared bit 50 should not be zero intersection")
	}
	if AndCtz(a, b) != 50 {
		t.Fatalf("AndCtz should find bit 50")
	}
}

func TestNegMasksTailBits(t *testing.T) {
	m := New(70) // 2 limbs, only 6 bits valid in the second limb
	dst := New(70)
	Neg(dst, m)
	for i := 70; i < 128; i++ {
		_ = i // bits 70..127 are padding and not addressable; the PopCount check below verifies Neg left them clear
	}
	if dst.PopCount() != 70 {
		t.Fatalf("Neg of zero map of length 70 should set exactly 70 bits, got %d", dst.PopCount())
	}
}

func TestRandDeterministic(t *testing.T) {
	r1 := rand.New(rand.NewSource(42))
	r2 := rand.New(rand.NewSource(42))
	m1 := New(100)
	m2 := New(100)
	m1.Rand(r1)
	m2.Rand(r2)
	for i := 0; i < 100; i++ {
		if m1.At(i) != m2.At(i) {
			t.Fatalf("same seed should produce same bits")
		}
	}
}

func TestSetBitPositions(t *testing.T) {
	m := New(64)
	m.SetAt(0, 1)
	m.SetAt(5, 1)
	m.SetAt(63, 1)
	got := m.SetBitPositions(nil)
	want := []int{0, 5, 63}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}
