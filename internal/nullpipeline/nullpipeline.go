// Package nullpipeline implements the verification, classification,
// extraction and deduplication pipeline: given a
// candidate block of 64 row-vectors from internal/lanczos, it checks each
// column against the keep-side CMSM, assembles the ones that verify (or
// are heuristically accepted) into dense residual-system rows, and
// deduplicates them with internal/nullhash before writing them to
// internal/residual.
package nullpipeline

import (
	"github.com/samber/lo"

	"github.com/kcning/minranksolve/internal/cmsm"
	"github.com/kcning/minranksolve/internal/gfarr"
	"github.com/kcning/minranksolve/internal/matrix"
	"github.com/kcning/minranksolve/internal/nullhash"
	"github.com/kcning/minranksolve/internal/residual"
)

// VarMap maps a residual-row variable index (0 = constant term,
// 1..remainingNCol-1 = the system's remaining linear variables) to the
// keep-side CMSM's condensed column index holding that variable's
// coefficient.
type VarMap []int

// Stats accumulates the outcome of repeated Process calls across the
// controller's Block-Lanczos loop, for the run summary's null-vector count.
type Stats struct {
	Accepted   int
	Duplicate  int
	BucketFull int
	// NonzeroCoeffs sums, across every accepted row, the count of nonzero
	// variable coefficients the extracted residual row actually carries
	// (gfarr.Arr.CountNonzero) -- unlike the condensed Macaulay matrix's
	// already-sparse column storage, where every stored value is by
	// definition nonzero, this row is dense and genuinely mixed, so the
	// count is a real diagnostic of how well-conditioned the accepted
	// equations are.
	NonzeroCoeffs int
}

// Total returns the number of candidate columns classified across every
// outcome (accepted, duplicate or bucket-full).
func (s Stats) Total() int {
	return lo.Sum([]int{s.Accepted, s.Duplicate, s.BucketFull})
}

// Pipeline ties the keep-side CMSM, the dedup table and the residual
// solver together across repeated Block-Lanczos candidate blocks.
type Pipeline struct {
	keepA         *cmsm.Generic
	vmap          VarMap
	remainingNCol int
	hmap          *nullhash.Table
	solver        *residual.Solver
	stats         Stats
}

// New builds a pipeline for the given keep-side CMSM, variable map and
// residual solver, with a dedup table sized for targetNV null vectors
// (10x headroom, see internal/nullhash.New).
func New(keepA *cmsm.Generic, vmap VarMap, solver *residual.Solver, targetNV int) *Pipeline {
	return &Pipeline{
		keepA:         keepA,
		vmap:          vmap,
		remainingNCol: len(vmap),
		hmap:          nullhash.New(targetNV),
		solver:        solver,
	}
}

// Stats returns the cumulative accept/duplicate/bucket-full counts.
func (p *Pipeline) Stats() Stats { return p.stats }

// Size reports how many distinct null vectors have been accepted so far.
func (p *Pipeline) Size() int { return p.hmap.Size() }

// Process verifies, classifies, extracts and dedupes every column of
// candidate against the keep-side CMSM, stopping early once the dedup
// table has no capacity left.
func (p *Pipeline) Process(candidate *matrix.RBlock) {
	prod := matrix.NewRBlock(p.keepA.CidxsSz(), 64)
	p.keepA.TrMulRMParallel(prod, candidate)

	validPositions := prod.NonzeroColPositions()

	for _, i := range validPositions {
		if p.hmap.Capacity()-p.hmap.Size() <= 0 {
			return
		}

		vec := gfarr.New(p.remainingNCol)
		for j, col := range p.vmap {
			vec.SetAt(j, prod.At(col, i))
		}

		switch p.hmap.Insert(vec) {
		case nullhash.Success:
			p.solver.WriteRow(p.hmap.Size()-1, vec)
			p.stats.Accepted++
			p.stats.NonzeroCoeffs += vec.CountNonzero()
		case nullhash.Duplicate:
			p.stats.Duplicate++
		case nullhash.BucketFull:
			p.stats.BucketFull++
		}
	}
}
