package matrix

import (
	"math/rand"

	"github.com/kcning/minranksolve/internal/bitlane"
	"github.com/kcning/minranksolve/internal/block"
	"github.com/kcning/minranksolve/internal/gf16"
)

// RCBlock64 is a 64x64 GF(16) matrix with an explicit row permutation, so
// that Gauss-Jordan row swaps are O(1): swapping rows only exchanges two
// entries of perm, never the underlying storage. This mirrors
// original_source/src/mrs/rc64m_generic.c's ridxs array, a design choice
// worth preserving verbatim.
type RCBlock64 struct {
	storage [64]*block.Block // physical rows, each width 64
	perm    [64]int          // perm[logical row] = physical storage index
}

// NewRCBlock64 allocates a zeroed 64x64 matrix with the identity
// permutation.
func NewRCBlock64() *RCBlock64 {
	m := &RCBlock64{}
	for i := 0; i < 64; i++ {
		m.storage[i] = block.New(64)
		m.perm[i] = i
	}
	return m
}

// logicalRow returns the physical row currently occupying logical position
// i.
func (m *RCBlock64) logicalRow(i int) *block.Block {
	return m.storage[m.perm[i]]
}

// Zero clears every element but leaves the permutation untouched, matching
// rc64m_generic_zero.
func (m *RCBlock64) Zero() {
	for _, r := range m.storage {
		r.Zero()
	}
}

// Identity resets to the 64x64 identity matrix and the identity
// permutation, matching rc64m_generic_identity.
func (m *RCBlock64) Identity() {
	for i := 0; i < 64; i++ {
		m.storage[i].Zero()
		m.storage[i].SetAt(i, 1)
		m.perm[i] = i
	}
}

// Rand fills the matrix with pseudo-random elements and resets the
// permutation to identity.
func (m *RCBlock64) Rand(r *rand.Rand) {
	for i := 0; i < 64; i++ {
		m.storage[i].Rand(r)
		m.perm[i] = i
	}
}

// Copy overwrites m with src's contents, including its permutation.
func (m *RCBlock64) Copy(src *RCBlock64) {
	for i := 0; i < 64; i++ {
		m.storage[i].Copy(src.storage[i])
	}
	m.perm = src.perm
}

// At returns the logical element (i,j).
func (m *RCBlock64) At(i, j int) gf16.Elem { return m.logicalRow(i).At(j) }

// SetAt sets the logical element (i,j).
func (m *RCBlock64) SetAt(i, j int, v gf16.Elem) { m.logicalRow(i).SetAt(j, v) }

func (m *RCBlock64) swapRows(i, j int) {
	m.perm[i], m.perm[j] = m.perm[j], m.perm[i]
}

// Gj performs Gauss-Jordan elimination on m, tracking independent columns
// in di and applying the identical row operations to inv, per spec
// section 4.1. The contract is total: it never fails, it only reports
// which of the 64 columns turned out to be independent.
//
// Grounded on rc64m_generic_gj (original_source/src/mrs/rc64m_generic.c):
// for each pivot column i, find the first row at or below i (in the
// current permuted order) with a nonzero entry; normalize that row,
// eliminate the column from every other row (above and below), apply the
// identical scalar operations to inv, then swap permutation entries for
// the pivot row and row i.
func (m *RCBlock64) Gj(inv *RCBlock64) (di uint64) {
	di = ^uint64(0)
	for i := 0; i < 64; i++ {
		pvtRow := -1
		for r := i; r < 64; r++ {
			if m.logicalRow(r).At(i) != 0 {
				pvtRow = r
				break
			}
		}
		if pvtRow == -1 {
			di &^= 1 << uint(i)
			continue
		}

		pivot := m.logicalRow(pvtRow)
		pivotInv := inv.logicalRow(pvtRow)
		invScalar := gf16.Inv(pivot.At(i))
		pivot.MulScalarI(invScalar)
		pivotInv.MulScalarI(invScalar)

		for j := 0; j < 64; j++ {
			if j == pvtRow {
				continue
			}
			row := m.logicalRow(j)
			mulScalar := row.At(i)
			if mulScalar == 0 {
				continue
			}
			row.FmaddScalar(pivot, mulScalar)
			inv.logicalRow(j).FmaddScalar(pivotInv, mulScalar)
		}

		m.swapRows(pvtRow, i)
		inv.swapRows(pvtRow, i)
	}
	return di
}

// MulNaive computes p = m * n via the schoolbook row-by-row accumulation
// of rc64m_generic_mul_naive.
func MulNaive(p, m, n *RCBlock64) {
	p.Zero()
	for i := 0; i < 64; i++ {
		// p's permutation is left as identity: this produces a fresh
		// matrix, not an in-place update, matching the reference's
		// "zero then accumulate" semantics.
		p.perm[i] = i
		mRow := m.logicalRow(i)
		dst := p.storage[i]
		for k := 0; k < 64; k++ {
			v := mRow.At(k)
			if v == 0 {
				continue
			}
			dst.FmaddScalar(n.logicalRow(k), v)
		}
	}
}

// MixI replaces, for every row, the columns whose bit is 0 in mask with
// the corresponding columns of b; columns whose bit is 1 are kept from a.
func (m *RCBlock64) MixI(b *RCBlock64, mask bitlane.BitLane) {
	for i := 0; i < 64; i++ {
		m.logicalRow(i).Mix(b.logicalRow(i), mask)
	}
}

// ZeroCol clears column i across every logical row.
func (m *RCBlock64) ZeroCol(i int) {
	for r := 0; r < 64; r++ {
		m.logicalRow(r).ZeroAt(i)
	}
}

// ZeroRow clears logical row i entirely.
func (m *RCBlock64) ZeroRow(i int) {
	m.logicalRow(i).Zero()
}

// ZeroCols clears every column whose bit is set in mask, across every row.
func (m *RCBlock64) ZeroCols(mask bitlane.BitLane) {
	keep := bitlane.New(64)
	bitlane.Neg(keep, mask)
	for r := 0; r < 64; r++ {
		m.logicalRow(r).ZeroSubset(keep)
	}
}

// IsSymmetric reports whether m[i][j] == m[j][i] for all i,j, reading
// through the current permutation.
func (m *RCBlock64) IsSymmetric() bool {
	for i := 0; i < 64; i++ {
		for j := i + 1; j < 64; j++ {
			if m.At(i, j) != m.At(j, i) {
				return false
			}
		}
	}
	return true
}
