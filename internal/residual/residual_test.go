package residual

import (
	"testing"

	"github.com/kcning/minranksolve/internal/gf16"
)

func TestSelectWidthPicksSmallestFit(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{1, 64}, {64, 64}, {65, 128}, {128, 128}, {300, 512}, {512, 512},
	}
	for _, c := range cases {
		got, err := SelectWidth(c.n)
		if err != nil {
			t.Fatalf("SelectWidth(%d): unexpected error %v", c.n, err)
		}
		if got != c.want {
			t.Fatalf("SelectWidth(%d)=%d, want %d", c.n, got, c.want)
		}
	}
}

func TestSelectWidthRejectsOversizedSystem(t *testing.T) {
	_, err := SelectWidth(513)
	if err == nil {
		t.Fatalf("expected ErrTooManyColumns for 513 columns")
	}
}

func TestSolveFullyDeterminedSystem(t *testing.T) {
	// 2 variables, remainingNCol=3 (constant + 2 vars). Equations:
	//   x0 = 5   -> row: [5, 1, 0]
	//   x1 = 9   -> row: [9, 0, 1]
	s, err := NewSolver(3)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	s.WriteRow(0, []gf16.Elem{5, 1, 0})
	s.WriteRow(1, []gf16.Elem{9, 0, 1})

	res := s.Solve()
	if res.Inconsistent {
		t.Fatalf("expected consistent system")
	}
	if res.Free[0] || res.Free[1] {
		t.Fatalf("expected both variables bound, got free=%v", res.Free)
	}
	if res.Solution[0] != 5 || res.Solution[1] != 9 {
		t.Fatalf("solution=%v, want [5 9]", res.Solution)
	}
}

func TestSolveReportsFreeVariable(t *testing.T) {
	// 2 variables, only one equation given: x0 = 3.
	s, err := NewSolver(3)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	s.WriteRow(0, []gf16.Elem{3, 1, 0})

	res := s.Solve()
	if res.Inconsistent {
		t.Fatalf("expected consistent system")
	}
	if res.Free[0] {
		t.Fatalf("variable 0 should be bound")
	}
	if !res.Free[1] {
		t.Fatalf("variable 1 should be free")
	}
	if res.Solution[0] != 3 {
		t.Fatalf("solution[0]=%d, want 3", res.Solution[0])
	}
}

func TestSolveDetectsInconsistency(t *testing.T) {
	s, err := NewSolver(3)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	// 0 = 1 with no variable support: an equation with only the constant
	// column set.
	s.WriteRow(0, []gf16.Elem{1, 0, 0})

	res := s.Solve()
	if !res.Inconsistent {
		t.Fatalf("expected inconsistency to be detected")
	}
}
