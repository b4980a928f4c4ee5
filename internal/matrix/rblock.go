// Package matrix implements RBlock{N} and RCBlock64, the dense row-major
// GF(16) matrices built on top of internal/block's
// bit-sliced rows, generalizing original_source/src/mrs/r64m_generic.c and
// rc64m_generic.c.
package matrix

import (
	"github.com/kcning/minranksolve/internal/bitlane"
	"github.com/kcning/minranksolve/internal/block"
	"github.com/kcning/minranksolve/internal/gf16"
)

// RBlock is a dense row-major matrix of rnum rows, each a bit-sliced
// GrpBlock{width} row of width N over GF(16). Block-Lanczos uses width=64
// throughout, but the type is
// generalized over width the same way internal/block generalizes
// GrpBlock{N}, since the residual solver (internal/residual) needs the
// same structure at width 128/256/512.
type RBlock struct {
	width int
	rows  []*block.Block
}

// NewRBlock allocates an all-zero matrix of rnum rows, each of width N.
func NewRBlock(rnum, width int) *RBlock {
	rows := make([]*block.Block, rnum)
	for i := range rows {
		rows[i] = block.New(width)
	}
	return &RBlock{width: width, rows: rows}
}

// Rnum returns the number of rows.
func (a *RBlock) Rnum() int { return len(a.rows) }

// Width returns N, the row width.
func (a *RBlock) Width() int { return a.width }

// Row returns the i-th row as a *block.Block, for direct bitplane access.
func (a *RBlock) Row(i int) *block.Block { return a.rows[i] }

// At returns element (i,j).
func (a *RBlock) At(i, j int) gf16.Elem { return a.rows[i].At(j) }

// SetAt sets element (i,j).
func (a *RBlock) SetAt(i, j int, v gf16.Elem) { a.rows[i].SetAt(j, v) }

// Zero clears every element.
func (a *RBlock) Zero() {
	for _, r := range a.rows {
		r.Zero()
	}
}

// RowCopyFrom overwrites row i with src's contents (src must have the same
// width).
func (a *RBlock) RowCopyFrom(i int, src *block.Block) {
	a.rows[i].Copy(src)
}

// CopyFrom overwrites a with b's contents; both must have identical shape.
func (a *RBlock) CopyFrom(b *RBlock) {
	if a.Rnum() != b.Rnum() || a.width != b.width {
		panic("matrix: shape mismatch in RBlock.CopyFrom")
	}
	for i := range a.rows {
		a.rows[i].Copy(b.rows[i])
	}
}

// Gramian computes out = a^T * a, the 64x64 symmetric matrix formed by
// summing the outer product of every row with itself. a's width must be
// 64 and out must be a *RCBlock64.
func (a *RBlock) Gramian(out *RCBlock64) {
	if a.width != 64 {
		panic("matrix: Gramian requires width 64")
	}
	out.Zero()
	for _, row := range a.rows {
		for i := 0; i < 64; i++ {
			out.logicalRow(i).FmaddScalar(row, row.At(i))
		}
	}
}

// Fma computes a += b*c, where b is an RBlock of the same shape as a and c
// is a 64x64 RCBlock64: row r of the product is sum_k b[r][k] * c.row(k).
func (a *RBlock) Fma(b *RBlock, c *RCBlock64) {
	a.fmaInto(b, c, false)
}

// Fms is identical to Fma in characteristic 2 (subtraction is addition).
func (a *RBlock) Fms(b *RBlock, c *RCBlock64) {
	a.fmaInto(b, c, false)
}

func (a *RBlock) fmaInto(b *RBlock, c *RCBlock64, _ bool) {
	if b.width != 64 {
		panic("matrix: Fma requires b width 64")
	}
	for r := 0; r < a.Rnum(); r++ {
		brow := b.rows[r]
		for k := 0; k < 64; k++ {
			s := brow.At(k)
			if s == 0 {
				continue
			}
			a.rows[r].FmaddScalar(c.logicalRow(k), s)
		}
	}
}

// FmaDiag computes a += b*(C*diag(d)): column k of c is scaled by d[k]
// before contracting against b. DiagFma and FmsDiag are other names for
// this same computation.
func (a *RBlock) FmaDiag(b *RBlock, c *RCBlock64, d [64]gf16.Elem) {
	if b.width != 64 {
		panic("matrix: FmaDiag requires b width 64")
	}
	prod := block.New(64)
	for r := 0; r < a.Rnum(); r++ {
		brow := b.rows[r]
		prod.Zero()
		for k := 0; k < 64; k++ {
			if s := brow.At(k); s != 0 {
				prod.FmaddScalar(c.logicalRow(k), s)
			}
		}
		for j := 0; j < 64; j++ {
			prod.SetAt(j, gf16.Mul(prod.At(j), d[j]))
		}
		a.rows[r].Add(prod)
	}
}

// DiagFma is the symmetric convenience name for FmaDiag (see its doc).
func (a *RBlock) DiagFma(b *RBlock, c *RCBlock64, d [64]gf16.Elem) {
	a.FmaDiag(b, c, d)
}

// FmsDiag is identical to FmaDiag in characteristic 2.
func (a *RBlock) FmsDiag(b *RBlock, c *RCBlock64, d [64]gf16.Elem) {
	a.FmaDiag(b, c, d)
}

// ZeroCol clears column i across every row.
func (a *RBlock) ZeroCol(i int) {
	for _, r := range a.rows {
		r.ZeroAt(i)
	}
}

// ZeroCols clears every column whose bit is set in mask, across every row.
func (a *RBlock) ZeroCols(mask bitlane.BitLane) {
	keep := bitlane.New(a.width)
	bitlane.Neg(keep, mask)
	for _, r := range a.rows {
		r.ZeroSubset(keep)
	}
}

// columnNonzeroMask returns, as a bit lane over [0,width), which columns
// have a nonzero entry in at least one row.
func (a *RBlock) columnNonzeroMask() bitlane.BitLane {
	acc := bitlane.New(a.width)
	for _, r := range a.rows {
		bitlane.Or(acc, acc, r.NonzeroMask())
	}
	return acc
}

// ZeroColPositions returns the indices of columns that are zero in every
// row.
func (a *RBlock) ZeroColPositions() []int {
	nz := a.columnNonzeroMask()
	z := bitlane.New(a.width)
	bitlane.Neg(z, nz)
	return z.SetBitPositions(nil)
}

// NonzeroColPositions returns the indices of columns with at least one
// nonzero entry.
func (a *RBlock) NonzeroColPositions() []int {
	return a.columnNonzeroMask().SetBitPositions(nil)
}

// ZeroRowCount returns the number of rows that are entirely zero.
func (a *RBlock) ZeroRowCount() int {
	n := 0
	for _, r := range a.rows {
		if r.NonzeroMask().IsZero() {
			n++
		}
	}
	return n
}

// MixI replaces, for every row, each column whose mask bit is 0 with the
// corresponding column of b; columns whose mask bit is 1 are kept from a.
// Mirrors rc64m_generic_mixi generalized across all rows of an RBlock.
func (a *RBlock) MixI(b *RBlock, mask bitlane.BitLane) {
	if a.Rnum() != b.Rnum() || a.width != b.width {
		panic("matrix: shape mismatch in RBlock.MixI")
	}
	for i := range a.rows {
		a.rows[i].Mix(b.rows[i], mask)
	}
}
