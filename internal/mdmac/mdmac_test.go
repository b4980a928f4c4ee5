package mdmac

import (
	"testing"

	"github.com/kcning/minranksolve/internal/ks"
)

func TestPairIndexIsUniquePerUnorderedPair(t *testing.T) {
	vnum := 5
	seen := map[int]bool{}
	for i := 1; i <= vnum; i++ {
		for j := i; j <= vnum; j++ {
			idx := pairIndex(vnum, i, j)
			if seen[idx] {
				t.Fatalf("pairIndex(%d,%d,%d) collided with a previous pair", vnum, i, j)
			}
			seen[idx] = true
			if swapped := pairIndex(vnum, j, i); swapped != idx {
				t.Fatalf("pairIndex not symmetric: (%d,%d)=%d (%d,%d)=%d", i, j, idx, j, i, swapped)
			}
		}
	}
	if len(seen) != triangularCount(vnum) {
		t.Fatalf("got %d distinct pair indices, want %d", len(seen), triangularCount(vnum))
	}
}

func TestBuildProducesExpectedShape(t *testing.T) {
	vnum := 4
	ksMat := ks.Rand(2, 1, 3, 6, 99) // c=3 rows, vnum derived separately here
	mac := Build(ksMat, vnum)

	wantNCol := vnum + 1 + triangularCount(vnum)
	if mac.NCol() != wantNCol {
		t.Fatalf("NCol()=%d, want %d", mac.NCol(), wantNCol)
	}
	wantNRow := ksMat.NRow() * (vnum + 1)
	if mac.NRow() != wantNRow {
		t.Fatalf("NRow()=%d, want %d", mac.NRow(), wantNRow)
	}
	for c := 0; c <= vnum; c++ {
		if !mac.IsLinear(c) {
			t.Fatalf("column %d should be linear", c)
		}
	}
	if mac.IsLinear(vnum + 1) {
		t.Fatalf("column %d should be nonlinear", vnum+1)
	}
}

func TestBuildKeepsRowIndicesMonotonicPerColumn(t *testing.T) {
	vnum := 3
	ksMat := ks.Rand(2, 1, 2, 4, 5)
	mac := Build(ksMat, vnum)
	for c := 0; c < mac.NCol(); c++ {
		last := -1
		for _, e := range mac.Column(c) {
			if e.Row <= last {
				t.Fatalf("column %d: row index %d not strictly increasing after %d", c, e.Row, last)
			}
			last = e.Row
		}
	}
}
