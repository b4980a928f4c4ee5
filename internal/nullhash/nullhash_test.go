package nullhash

import (
	"testing"

	"github.com/kcning/minranksolve/internal/gf16"
)

func vec(vals ...int) []gf16.Elem {
	out := make([]gf16.Elem, len(vals))
	for i, v := range vals {
		out[i] = gf16.Elem(v)
	}
	return out
}

func TestInsertFirstTimeSucceeds(t *testing.T) {
	tbl := New(4)
	if got := tbl.Insert(vec(1, 2, 3)); got != Success {
		t.Fatalf("got %v, want Success", got)
	}
	if tbl.Size() != 1 {
		t.Fatalf("size=%d, want 1", tbl.Size())
	}
}

func TestInsertDuplicateRejected(t *testing.T) {
	tbl := New(4)
	v := vec(5, 5, 5, 0)
	if got := tbl.Insert(v); got != Success {
		t.Fatalf("first insert: got %v, want Success", got)
	}
	if got := tbl.Insert(v); got != Duplicate {
		t.Fatalf("second insert: got %v, want Duplicate", got)
	}
	if tbl.Size() != 1 {
		t.Fatalf("size=%d, want 1 after duplicate rejected", tbl.Size())
	}
}

func TestDistinctVectorsBothSucceed(t *testing.T) {
	tbl := New(4)
	if got := tbl.Insert(vec(1, 0, 0)); got != Success {
		t.Fatalf("got %v", got)
	}
	if got := tbl.Insert(vec(0, 1, 0)); got != Success {
		t.Fatalf("got %v", got)
	}
	if tbl.Size() != 2 {
		t.Fatalf("size=%d, want 2", tbl.Size())
	}
}

func TestContainsWithoutInserting(t *testing.T) {
	tbl := New(4)
	v := vec(9, 9)
	if tbl.Contains(v) {
		t.Fatalf("should not contain before insert")
	}
	tbl.Insert(v)
	if !tbl.Contains(v) {
		t.Fatalf("should contain after insert")
	}
	if tbl.Size() != 1 {
		t.Fatalf("Contains must not mutate size")
	}
}

func TestBucketFullWhenTableSaturated(t *testing.T) {
	tbl := New(0) // capacity clamps to 16
	for i := 0; i < tbl.Capacity(); i++ {
		if got := tbl.Insert(vec(i%16, (i/16)%16, i)); got == BucketFull {
			t.Fatalf("unexpected BucketFull at insert %d/%d", i, tbl.Capacity())
		}
	}
	// Table is now fully saturated with distinct vectors; one more
	// distinct vector must report BucketFull since every slot is used
	// and none match.
	got := tbl.Insert(vec(100, 100, 100))
	if got != BucketFull {
		t.Fatalf("got %v, want BucketFull once table is saturated", got)
	}
}

func TestDifferentLengthVectorsHashDifferently(t *testing.T) {
	tbl := New(4)
	// [1,0] vs [1] must not collide just because nibble-packing would
	// otherwise make them byte-identical.
	if got := tbl.Insert(vec(1, 0)); got != Success {
		t.Fatalf("got %v", got)
	}
	if got := tbl.Insert(vec(1)); got != Success {
		t.Fatalf("expected distinct length vector to succeed, got %v", got)
	}
}
