package bitlane

import (
	"math/rand"
	"testing"
)

func randLane(r *rand.Rand, width int) BitLane {
	l := New(width)
	for i := range l.limbs {
		l.limbs[i] = r.Uint64()
	}
	return l
}

func TestAtSetAt(t *testing.T) {
	for _, width := range []int{64, 128, 256, 512} {
		l := New(width)
		for i := 0; i < width; i++ {
			l.SetAt(i, 1)
			if l.At(i) != 1 {
				t.Fatalf("width=%d: At(%d) after SetAt(1) != 1", width, i)
			}
			l.SetAt(i, 0)
			if l.At(i) != 0 {
				t.Fatalf("width=%d: At(%d) after SetAt(0) != 0", width, i)
			}
		}
	}
}

func TestMix(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, width := range []int{128, 256, 512} {
		a := randLane(r, width)
		b := randLane(r, width)
		m := randLane(r, width)
		dst := New(width)
		Mix(dst, a, b, m)
		for i := 0; i < width; i++ {
			want := (a.At(i) & m.At(i)) | (b.At(i) &^ m.At(i))
			if dst.At(i) != want {
				t.Fatalf("width=%d bit %d: mix mismatch", width, i)
			}
		}
	}
}

func TestSetBitPositionsRoundtrip(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	l := randLane(r, 256)
	positions := l.SetBitPositions(nil)
	check := New(256)
	for _, p := range positions {
		check.SetAt(p, 1)
	}
	for i := 0; i < 256; i++ {
		if l.At(i) != check.At(i) {
			t.Fatalf("bit %d mismatch after roundtrip", i)
		}
	}
}

func TestPopCountCtz(t *testing.T) {
	l := New(128)
	if l.Ctz() != 128 || l.PopCount() != 0 || !l.IsZero() {
		t.Fatalf("zero lane invariants broken")
	}
	l.SetAt(70, 1)
	if l.Ctz() != 70 || l.PopCount() != 1 || l.IsZero() {
		t.Fatalf("single-bit lane invariants broken")
	}
	l.SetAt(10, 1)
	if l.Ctz() != 10 || l.PopCount() != 2 {
		t.Fatalf("two-bit lane invariants broken")
	}
}

func TestExtendFromLSB(t *testing.T) {
	if ExtendFromLSB(1) != ^uint64(0) {
		t.Fatalf("extend(1) should be all ones")
	}
	if ExtendFromLSB(0) != 0 {
		t.Fatalf("extend(0) should be all zeros")
	}
	if ExtendFromLSB(2) != 0 {
		t.Fatalf("extend should only look at lsb")
	}
}
