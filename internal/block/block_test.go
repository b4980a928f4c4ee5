package block

import (
	"math/rand"
	"testing"

	"github.com/kcning/minranksolve/internal/bitlane"
	"github.com/kcning/minranksolve/internal/gf16"
)

func TestAtSetAt(t *testing.T) {
	for _, width := range []int{64, 128, 256, 512} {
		g := New(width)
		for i := 0; i < width; i++ {
			v := gf16.Elem(i % 16)
			g.SetAt(i, v)
			if g.At(i) != v {
				t.Fatalf("width=%d i=%d: At after SetAt mismatch: got %d want %d", width, i, g.At(i), v)
			}
		}
	}
}

func TestNonzeroZeroPositionsPartition(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for _, width := range []int{64, 128, 256} {
		g := New(width)
		g.Rand(r)
		nz := g.NonzeroPositions(nil)
		z := g.ZeroPositions(nil)
		if len(nz)+len(z) != width {
			t.Fatalf("width=%d: nz(%d)+z(%d) != width", width, len(nz), len(z))
		}
		seen := make([]bool, width)
		for _, i := range nz {
			seen[i] = true
		}
		for _, i := range z {
			if seen[i] {
				t.Fatalf("width=%d: position %d in both nz and z", width, i)
			}
			seen[i] = true
		}
	}
}

func TestMulScalarMatchesElementwise(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for _, width := range []int{64, 128} {
		src := New(width)
		src.Rand(r)
		for c := gf16.Elem(0); c < 16; c++ {
			dst := New(width)
			MulScalar(dst, src, c)
			for i := 0; i < width; i++ {
				want := gf16.Mul(src.At(i), c)
				if dst.At(i) != want {
					t.Fatalf("width=%d c=%d i=%d: mismatch got %d want %d", width, c, i, dst.At(i), want)
				}
			}
		}
	}
}

func TestFmaddScalarTwiceIsIdentity(t *testing.T) {
	// characteristic-2 property: fmadd(b,c) applied twice must leave the
	// accumulator unchanged.
	r := rand.New(rand.NewSource(5))
	width := 128
	a := New(width)
	a.Rand(r)
	b := New(width)
	b.Rand(r)
	orig := New(width)
	orig.Copy(a)

	for c := gf16.Elem(1); c < 16; c++ {
		work := New(width)
		work.Copy(a)
		work.FmaddScalar(b, c)
		work.FmaddScalar(b, c)
		for i := 0; i < width; i++ {
			if work.At(i) != orig.At(i) {
				t.Fatalf("c=%d i=%d: double fmadd not identity", c, i)
			}
		}
	}
}

func TestFmaddScalarBS(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	width := 64
	a := New(width)
	a.Rand(r)
	b := New(width)
	b.Rand(r)
	g2 := New(width)
	g2.Rand(r)

	for i := 0; i < width; i++ {
		want := New(width)
		want.Copy(a)
		want.FmaddScalar(b, g2.At(i))

		got := New(width)
		got.Copy(a)
		got.FmaddScalarBS(b, g2, i)

		for j := 0; j < width; j++ {
			if got.At(j) != want.At(j) {
				t.Fatalf("i=%d j=%d: fmadd_scalar_bs mismatch", i, j)
			}
		}
	}
}

func TestFmaddScalarMaskOnlyUpdatesMaskedPositions(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	width := 64
	a := New(width)
	a.Rand(r)
	b := New(width)
	b.Rand(r)
	orig := New(width)
	orig.Copy(a)

	mask := make([]bool, width)
	for i := range mask {
		mask[i] = r.Intn(2) == 1
	}
	m := newMaskLane(width, mask)

	a.FmaddScalarMask(b, 5, m)
	for i := 0; i < width; i++ {
		if mask[i] {
			want := gf16.Add(orig.At(i), gf16.Mul(b.At(i), 5))
			if a.At(i) != want {
				t.Fatalf("masked position %d not updated correctly", i)
			}
		} else if a.At(i) != orig.At(i) {
			t.Fatalf("unmasked position %d changed", i)
		}
	}
}

func TestMixSelectsByMask(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	width := 64
	a := New(width)
	a.Rand(r)
	b := New(width)
	b.Rand(r)
	mask := make([]bool, width)
	for i := range mask {
		mask[i] = i%2 == 0
	}
	m := newMaskLane(width, mask)
	orig := New(width)
	orig.Copy(a)
	a.Mix(b, m)
	for i := 0; i < width; i++ {
		if mask[i] {
			if a.At(i) != orig.At(i) {
				t.Fatalf("position %d should be kept from a", i)
			}
		} else if a.At(i) != b.At(i) {
			t.Fatalf("position %d should come from b", i)
		}
	}
}

func newMaskLane(width int, mask []bool) bitlane.BitLane {
	lane := bitlane.New(width)
	for i, v := range mask {
		if v {
			lane.SetAt(i, 1)
		}
	}
	return lane
}
