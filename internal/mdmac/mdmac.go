// Package mdmac assembles the multi-degree Macaulay matrix, treated as
// external plumbing rather than a core linear-algebra subsystem: "the
// assembly of the multi-degree Macaulay matrix from the KS matrix...
// these are plumbing". It amplifies a KS linearization's rows by one
// degree of variable multiplication, producing the column-partitioned
// (linear / nonlinear) internal/macaulay.Matrix that internal/cmsm
// condenses.
//
// original_source's mdmac.c/mdmac.h were filtered out of retrieval (see
// original_source/_INDEX.md), so this is a from-scratch, intentionally
// simplified expansion sized to exercise the CMSM/Block-Lanczos/
// NullPipeline core end to end: it amplifies every KS row by each
// variable multiplier once (a single multi-degree step), rather than the
// reference's general d1,d2,...-degree combinatorial expansion.
package mdmac

import (
	"github.com/kcning/minranksolve/internal/ks"
	"github.com/kcning/minranksolve/internal/macaulay"
)

// triangularCount returns the number of unordered pairs (i,j), 1<=i<=j<=n,
// i.e. the number of degree-2 monomials over n variables.
func triangularCount(n int) int { return n * (n + 1) / 2 }

// pairIndex returns the column index of the degree-2 monomial x_i * x_j
// (1-indexed variables, i<=j), offset past the vnum+1 linear/constant
// columns.
func pairIndex(vnum, i, j int) int {
	if i > j {
		i, j = j, i
	}
	// triangular offset for row i (number of pairs (i', j') with i' < i)
	offset := (i-1)*(vnum+1) - (i-1)*i/2
	return vnum + 1 + offset + (j - i)
}

// Build amplifies ksMat (c rows over vnum+1 columns: constant + vnum
// variables) into a multi-degree Macaulay matrix with vnum linear
// columns (plus the constant column) and triangularCount(vnum) degree-2
// nonlinear columns.
//
// For each KS row r and each variable multiplier m in [0,vnum] (m=0
// meaning "the row unmultiplied"), one Macaulay row is produced:
//   - m=0: columns [0,vnum] copy ks row r verbatim.
//   - m>0: for every nonzero variable entry (col, val) of ks row r, the
//     degree-2 monomial column pairIndex(m,col) receives val, and the
//     constant*x_m cross term is folded back into linear column m.
func Build(ksMat *ks.Matrix, vnum int) *macaulay.Matrix {
	ncol := vnum + 1 + triangularCount(vnum)
	nrow := ksMat.NRow() * (vnum + 1)
	mac := macaulay.New(nrow, ncol, vnum+1)

	type cellList = []macaulay.Entry
	cols := make([]cellList, ncol)

	row := 0
	for r := 0; r < ksMat.NRow(); r++ {
		for m := 0; m <= vnum; m++ {
			if m == 0 {
				for col := 0; col <= vnum; col++ {
					if v := ksMat.At(r, col); v != 0 {
						cols[col] = append(cols[col], macaulay.Entry{Row: row, Val: v})
					}
				}
			} else {
				if c0 := ksMat.At(r, 0); c0 != 0 {
					cols[m] = append(cols[m], macaulay.Entry{Row: row, Val: c0})
				}
				for col := 1; col <= vnum; col++ {
					v := ksMat.At(r, col)
					if v == 0 {
						continue
					}
					pIdx := pairIndex(vnum, m, col)
					cols[pIdx] = append(cols[pIdx], macaulay.Entry{Row: row, Val: v})
				}
			}
			row++
		}
	}

	for c := 0; c < ncol; c++ {
		mac.SetColumn(c, cols[c])
	}
	return mac
}

// VarIdxToColIdx maps variable index i in [0,vnum) (as used by
// ks.TotalVarNum/ks.KernelVarIdxToXY) to its column index in the
// assembled Macaulay matrix (mdmac_vidx_to_midx in the reference).
func VarIdxToColIdx(i int) int { return i + 1 }
