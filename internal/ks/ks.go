// Package ks implements the Kipnis-Shamir (KS) linearization spec
// section 6 and section 9 name but place out of the core's scope
// ("the KS construction itself... these are plumbing"): it assigns
// variable indices to the system's k linear variables (`lambda_0..
// lambda_{k-1}`) and its k*r kernel variables (`x(i,j)`), and produces
// the GF(16) left-multiplier matrix the multi-degree Macaulay assembly
// expands into rows.
//
// Grounded on original_source/src/main.c's ks_total_var_num /
// ks_kernel_var_idx_to_2d call sites and the ks_rand / minrank_ks
// entry points it dispatches between on --ks-rand; ks.c/ks.h themselves
// were filtered out of the retrieved original source (only the files
// listed in original_source/_INDEX.md survived retrieval), so the
// construction below is a from-scratch, intentionally simplified
// implementation sized to exercise internal/macaulay end to end rather
// than a port of unseen C.
package ks

import (
	"math/rand"

	"github.com/kcning/minranksolve/internal/gf16"
)

// TotalVarNum returns the number of free variables in the KS
// linearization: k linear variables plus k*r kernel variables. c (the
// left-multiplier row count) does not affect the variable count, only
// the number of equations sampled per original_source's ks_total_var_num
// signature, which is carried here for call-site fidelity even though
// this implementation's formula does not use it.
func TotalVarNum(k, r, c int) int {
	_ = c
	return k + k*r
}

// KernelVarIdxToXY maps a kernel-variable index i (k <= i < TotalVarNum)
// to its (row, col) position x(row,col) in the k x r kernel variable
// grid, mirroring ks_kernel_var_idx_to_2d.
func KernelVarIdxToXY(i, k, r int) (row, col int) {
	idx := i - k
	return idx / r, idx % r
}

// Matrix is the dense GF(16) left-multiplier built by the KS
// linearization: c rows (the parameter controlling how many independent
// linear combinations of the k MinRank equations are taken), and one
// column per variable plus the constant column.
type Matrix struct {
	nrow, ncol int
	rows       [][]gf16.Elem
}

// NRow and NCol report the matrix's logical dimensions.
func (m *Matrix) NRow() int { return m.nrow }
func (m *Matrix) NCol() int { return m.ncol }

// At returns element (i,j).
func (m *Matrix) At(i, j int) gf16.Elem { return m.rows[i][j] }

// SetAt sets element (i,j).
func (m *Matrix) SetAt(i, j int, v gf16.Elem) { m.rows[i][j] = v }

func newMatrix(nrow, ncol int) *Matrix {
	rows := make([][]gf16.Elem, nrow)
	for i := range rows {
		rows[i] = make([]gf16.Elem, ncol)
	}
	return &Matrix{nrow: nrow, ncol: ncol, rows: rows}
}

// Rand builds a pseudo-randomly sampled KS matrix of c rows over
// TotalVarNum(k,r,c)+1 columns (the "--ks-rand" path: "Ignore input and
// use a randomly sampled KS matrix").
func Rand(k, r, c, ncol int, seed int64) *Matrix {
	rng := rand.New(rand.NewSource(seed))
	vnum := TotalVarNum(k, r, c)
	m := newMatrix(c, vnum+1)
	for i := 0; i < c; i++ {
		for j := 0; j <= vnum; j++ {
			m.SetAt(i, j, gf16.Elem(rng.Intn(16)))
		}
	}
	return m
}

// FromMinRank builds the KS matrix for a concrete MinRank instance's
// coefficient matrices, sampling c independent linear combinations of the
// k base equations (the "minrank_ks" path). The coefficient matrices
// coeffs[0..k-1] are each nrow x ncolInstance dense GF(16) matrices (from
// internal/loader); c controls how many pseudo-random linear combinations
// of the resulting linearized system are kept as KS rows.
func FromMinRank(coeffs [][]gf16.Elem, k, r, c, ncolInstance int, seed int64) *Matrix {
	rng := rand.New(rand.NewSource(seed))
	vnum := TotalVarNum(k, r, c)
	m := newMatrix(c, vnum+1)

	// Each KS row is a pseudo-random GF(16) linear combination of the k
	// coefficient matrices' flattened entries, projected onto the
	// variable space; this realizes the same "c rows of a linearized
	// system" shape the reference builds via matrix substitution, without
	// reproducing its (unavailable) exact linear-algebra derivation.
	for i := 0; i < c; i++ {
		weights := make([]gf16.Elem, k)
		for w := range weights {
			weights[w] = gf16.Elem(rng.Intn(16))
		}
		for j := 0; j < vnum; j++ {
			var acc gf16.Elem
			for w, mat := range coeffs {
				idx := j % len(mat)
				acc = gf16.Add(acc, gf16.Mul(weights[w], mat[idx]))
			}
			m.SetAt(i, j+1, acc)
		}
		m.SetAt(i, 0, gf16.Elem(rng.Intn(16)))
	}
	return m
}
