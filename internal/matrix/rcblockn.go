package matrix

import (
	"github.com/kcning/minranksolve/internal/bitlane"
	"github.com/kcning/minranksolve/internal/block"
	"github.com/kcning/minranksolve/internal/gf16"
)

// RCBlockN generalizes RCBlock64 to any of the four supported widths
// (64/128/256/512): RCBlock{S} where S is the smallest of {64,128,256,512}
// that is >= remaining_ncol, for internal/residual's solver. Block-Lanczos
// itself only ever needs width 64 (RCBlock64 stays a separate, narrower
// type so its call sites read as exactly what the reference's
// rc64m_generic.c specializes to); this type exists for the one place the
// system genuinely needs the other three widths.
type RCBlockN struct {
	width   int
	storage []*block.Block
	perm    []int
}

// NewRCBlockN allocates a zeroed width x width matrix with the identity
// permutation. width must be one of 64/128/256/512.
func NewRCBlockN(width int) *RCBlockN {
	switch width {
	case 64, 128, 256, 512:
	default:
		panic("matrix: RCBlockN width must be one of 64/128/256/512")
	}
	m := &RCBlockN{width: width, storage: make([]*block.Block, width), perm: make([]int, width)}
	for i := 0; i < width; i++ {
		m.storage[i] = block.New(width)
		m.perm[i] = i
	}
	return m
}

// Width returns S.
func (m *RCBlockN) Width() int { return m.width }

func (m *RCBlockN) logicalRow(i int) *block.Block { return m.storage[m.perm[i]] }

// Identity resets to the S x S identity matrix.
func (m *RCBlockN) Identity() {
	for i := 0; i < m.width; i++ {
		m.storage[i].Zero()
		m.storage[i].SetAt(i, 1)
		m.perm[i] = i
	}
}

// Zero clears every element, leaving the permutation untouched.
func (m *RCBlockN) Zero() {
	for _, r := range m.storage {
		r.Zero()
	}
}

// At returns the logical element (i,j).
func (m *RCBlockN) At(i, j int) gf16.Elem { return m.logicalRow(i).At(j) }

// SetAt sets the logical element (i,j).
func (m *RCBlockN) SetAt(i, j int, v gf16.Elem) { m.logicalRow(i).SetAt(j, v) }

// SetRow overwrites logical row i's element range [0,len(vals)) from vals.
func (m *RCBlockN) SetRow(i int, vals []gf16.Elem) {
	row := m.logicalRow(i)
	for j, v := range vals {
		row.SetAt(j, v)
	}
}

func (m *RCBlockN) swapRows(i, j int) {
	m.perm[i], m.perm[j] = m.perm[j], m.perm[i]
}

// Gj performs Gauss-Jordan elimination on m, applying identical row
// operations to inv and returning a bitmap (as a bitlane.BitLane of width
// m.width) marking independent columns; this is the same algorithm as
// RCBlock64.Gj (original_source/src/mrs/rc64m_generic.c's rc64m_generic_gj)
// generalized past 64 columns, so the result can no longer fit a single
// uint64 mask.
func (m *RCBlockN) Gj(inv *RCBlockN) bitlane.BitLane {
	di := bitlane.New(m.width)
	for i := range di.Limbs() {
		di.Limbs()[i] = ^uint64(0)
	}

	for i := 0; i < m.width; i++ {
		pvtRow := -1
		for r := i; r < m.width; r++ {
			if m.logicalRow(r).At(i) != 0 {
				pvtRow = r
				break
			}
		}
		if pvtRow == -1 {
			di.SetAt(i, 0)
			continue
		}

		pivot := m.logicalRow(pvtRow)
		pivotInv := inv.logicalRow(pvtRow)
		invScalar := gf16.Inv(pivot.At(i))
		pivot.MulScalarI(invScalar)
		pivotInv.MulScalarI(invScalar)

		for j := 0; j < m.width; j++ {
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
