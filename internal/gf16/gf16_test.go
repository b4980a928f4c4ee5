package gf16

import "testing"

func TestAddSelfInverse(t *testing.T) {
	for a := Elem(0); a < 16; a++ {
		if Add(a, a) != 0 {
			t.Fatalf("a+a != 0 for a=%d", a)
		}
	}
}

func TestAddAssociative(t *testing.T) {
	for a := Elem(0); a < 16; a++ {
		for b := Elem(0); b < 16; b++ {
			for c := Elem(0); c < 16; c++ {
				if Add(Add(a, b), c) != Add(a, Add(b, c)) {
					t.Fatalf("associativity fails for %d,%d,%d", a, b, c)
				}
			}
		}
	}
}

func TestMulIdentity(t *testing.T) {
	for a := Elem(0); a < 16; a++ {
		if Mul(a, 1) != a {
			t.Fatalf("a*1 != a for a=%d", a)
		}
	}
}

func TestMulCommutative(t *testing.T) {
	for a := Elem(0); a < 16; a++ {
		for b := Elem(0); b < 16; b++ {
			if Mul(a, b) != Mul(b, a) {
				t.Fatalf("mul not commutative for %d,%d", a, b)
			}
		}
	}
}

func TestMulInverse(t *testing.T) {
	for a := Elem(1); a < 16; a++ {
		inv := Inv(a)
		if Mul(a, inv) != 1 {
			t.Fatalf("a*a^-1 != 1 for a=%d (inv=%d)", a, inv)
		}
	}
}

// TestMulTableMatchesGroundTruth cross-checks every one of the 256 pairs in
// the precomputed table against the bitplane formula: a full ground-truth
// lookup table of (a,b) -> a*b for all 256 pairs.
func TestMulTableMatchesGroundTruth(t *testing.T) {
	for a := Elem(0); a < 16; a++ {
		for b := Elem(0); b < 16; b++ {
			if MulTable[a][b] != Mul(a, b) {
				t.Fatalf("table mismatch at (%d,%d)", a, b)
			}
		}
	}
}

func TestMulZero(t *testing.T) {
	for a := Elem(0); a < 16; a++ {
		if Mul(a, 0) != 0 {
			t.Fatalf("a*0 != 0 for a=%d", a)
		}
	}
}
