// Package macaulay provides the thin Matrix contract treated as external
// plumbing rather than a core linear-algebra subsystem ("the assembly of
// the multi-degree Macaulay matrix from the KS matrix" is plumbing). This
// package is intentionally minimal: it exists only so internal/cmsm,
// internal/lanczos and internal/controller have something concrete to run
// end to end against.
//
// Grounded on the shape implied by original_source/src/main.c's usage of
// mdmac_nznum, mdmac_col_iter_begin/next/idx/end and ks_total_var_num,
// ks_kernel_var_idx_to_2d.
package macaulay

import "github.com/kcning/minranksolve/internal/gf16"

// Entry is a single nonzero (row, value) pair within a column.
type Entry struct {
	Row int
	Val gf16.Elem
}

// Matrix is the multi-degree Macaulay matrix built from the KS encoding:
// one row per (base KS equation x monomial of the requested multi-degree),
// one column per monomial appearing in the expanded system. Columns are
// partitioned into "linear" (the KS system's own linear variables, plus
// the constant column) and "nonlinear" (every monomial of degree >= 2),
// matching internal/cmsm's linear/nonlinear column filter.
type Matrix struct {
	nrow int
	// cols[c] holds column c's nonzero entries, sorted by Row ascending,
	// matching the monotonic-row-index invariant CMSMGeneric requires
	// from its source.
	cols      [][]Entry
	isLinear  []bool
	totalVars int
}

// New builds an empty nrow x ncol Macaulay matrix shell; callers populate
// it with SetColumn before it is used to build a CMSMGeneric.
func New(nrow, ncol int, linearCols int) *Matrix {
	m := &Matrix{
		nrow:      nrow,
		cols:      make([][]Entry, ncol),
		isLinear:  make([]bool, ncol),
		totalVars: linearCols,
	}
	for c := 0; c < linearCols; c++ {
		m.isLinear[c] = true
	}
	return m
}

// NRow returns the number of rows in the full (unsampled) matrix.
func (m *Matrix) NRow() int { return m.nrow }

// NCol returns the number of columns in the full matrix.
func (m *Matrix) NCol() int { return len(m.cols) }

// SetColumn installs the (already row-sorted) nonzero entries for column
// c.
func (m *Matrix) SetColumn(c int, entries []Entry) {
	m.cols[c] = entries
}

// Column returns column c's nonzero entries.
func (m *Matrix) Column(c int) []Entry { return m.cols[c] }

// IsLinear reports whether column c is one of the system's linear
// variables (or the constant column).
func (m *Matrix) IsLinear(c int) bool { return m.isLinear[c] }

// NnzInColumn counts the nonzeros stored in column c over every row (no
// row sampling is applied); used by the --dry sizing report (internal/controller.DrySizeReport).
func (m *Matrix) NnzInColumn(c int) int { return len(m.cols[c]) }
