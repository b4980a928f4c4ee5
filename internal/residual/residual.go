// Package residual implements the final dense solve: once enough null
// vectors have been extracted and written as rows of a residual matrix
// over the remaining (linear) variables, this package runs Gauss-Jordan
// over it and reports the solution, free variables, and any
// inconsistency.
//
// The container width S is one of 64/128/256/512, chosen once per
// invocation by picking the smallest supported width >= remaining_ncol;
// no dynamic dispatch happens inside the hot loop, only at construction,
// matching the reference's function-pointer vtable (g_sc_* in main.c)
// re-expressed as a one-time Go type selection instead of per-call
// indirection.
package residual

import (
	"errors"
	"fmt"

	"github.com/kcning/minranksolve/internal/gf16"
	"github.com/kcning/minranksolve/internal/matrix"
)

// ErrTooManyColumns is returned by NewSolver when remainingNCol exceeds
// the largest supported container width: a residual system with more
// than 512 columns is rejected at configuration time.
var ErrTooManyColumns = errors.New("residual: system has more than 512 columns, which is not supported")

var supportedWidths = [...]int{64, 128, 256, 512}

// SelectWidth returns the smallest supported width >= remainingNCol, or
// ErrTooManyColumns if none fits.
func SelectWidth(remainingNCol int) (int, error) {
	for _, w := range supportedWidths {
		if remainingNCol <= w {
			return w, nil
		}
	}
	return 0, fmt.Errorf("%w (got %d)", ErrTooManyColumns, remainingNCol)
}

// Solver accumulates residual equation rows over the remaining variables
// and resolves them by Gauss-Jordan. mat holds only the variable
// coefficients (column v of mat is variable v); sol is a sibling
// container of the same width holding each row's constant term in
// column 0 -- the coefficient matrix and the constant/solution vector
// are kept in two distinct RCBlockN values rather than one, so GJ's
// pivot search and elimination only ever touch real variable columns.
type Solver struct {
	width         int
	remainingNCol int
	mat           *matrix.RCBlockN
	sol           *matrix.RCBlockN
	rowsWritten   int
}

// NewSolver allocates a solver sized for remainingNCol variables
// (including the constant column). Returns ErrTooManyColumns if
// remainingNCol exceeds 512.
func NewSolver(remainingNCol int) (*Solver, error) {
	width, err := SelectWidth(remainingNCol)
	if err != nil {
		return nil, err
	}
	return &Solver{
		width:         width,
		remainingNCol: remainingNCol,
		mat:           matrix.NewRCBlockN(width),
		sol:           matrix.NewRCBlockN(width),
	}, nil
}

// Width returns the selected container width S.
func (s *Solver) Width() int { return s.width }

// WriteRow installs a fully-assembled residual equation (constant term at
// row[0], variable coefficients at row[1:]) at matrix row dstIdx: the
// constant term goes into sol's column 0, the variable coefficients into
// mat starting at column 0. Positions beyond remainingNCol-1 and up to
// Width() are left zero (padding rows/columns of a narrower system into
// the next supported container width).
func (s *Solver) WriteRow(dstIdx int, row []gf16.Elem) {
	s.sol.SetAt(dstIdx, 0, row[0])
	s.mat.SetRow(dstIdx, row[1:])
	if dstIdx+1 > s.rowsWritten {
		s.rowsWritten = dstIdx + 1
	}
}

// Result is the outcome of Solve: a resolved value per variable where the
// corresponding column was independent, a free-variable mask for columns
// that were not, and whether the system was inconsistent.
type Result struct {
	// Solution holds one entry per variable (indices 1..remainingNCol-1
	// of the original row layout, i.e. Solution[i] is variable i).
	Solution []gf16.Elem
	// Free marks, per variable, whether the column came out independent
	// (false) or free (true) after GJ.
	Free []bool
	// Inconsistent is set when the final GJ left the constant column
	// nonzero in a row whose variable columns are otherwise all zero --
	// the final GJ marks some unused equations as nonzero in the
	// constant column.
	Inconsistent bool
}

// Solve runs Gauss-Jordan over the accumulated residual matrix and
// extracts the solution for the remainingNCol-1 variables. sol is passed
// as Gj's companion matrix so every row operation GJ performs on the
// variable coefficients is mirrored onto sol's constant column, exactly
// as if column 0 had never left the augmented system -- without letting
// GJ ever pivot on it.
func (s *Solver) Solve() Result {
	di := s.mat.Gj(s.sol)

	nvars := s.remainingNCol - 1
	res := Result{
		Solution: make([]gf16.Elem, nvars),
		Free:     make([]bool, nvars),
	}

	for v := 0; v < nvars; v++ {
		if v >= s.width || di.At(v) == 0 {
			res.Free[v] = true
			continue
		}
		// After GJ, an independent column's pivot row has a 1 in that
		// column and sol's column 0 on the same row holds the solved
		// value, negated -- but GF(16) is characteristic 2, so negation
		// is the identity.
		res.Solution[v] = findPivotRowConstant(s.mat, s.sol, v, s.width)
	}

	res.Inconsistent = detectInconsistency(s.mat, s.sol, s.width, nvars)
	return res
}

// findPivotRowConstant locates the (post-GJ) pivot row of column col --
// the first row holding a 1 in that column -- and returns that row's
// constant term from sol's column 0.
func findPivotRowConstant(mat, sol *matrix.RCBlockN, col, width int) gf16.Elem {
	for r := 0; r < width; r++ {
		if mat.At(r, col) == 1 {
			return sol.At(r, 0)
		}
	}
	return 0
}

// detectInconsistency reports whether any row, after GJ, has a nonzero
// constant term in sol but every variable column of mat zero -- an
// unsatisfiable equation 0 = c for c != 0.
func detectInconsistency(mat, sol *matrix.RCBlockN, width, nvars int) bool {
	for r := 0; r < width; r++ {
		if sol.At(r, 0) == 0 {
			continue
		}
		allZero := true
		for v := 0; v < nvars && v < width; v++ {
			if mat.At(r, v) != 0 {
				allZero = false
				break
			}
		}
		if allZero {
			return true
		}
	}
	return false
}
