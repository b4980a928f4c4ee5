// Package controller wires the four core subsystems (internal/cmsm,
// internal/lanczos, internal/nullpipeline, internal/residual) together
// with the surrounding plumbing (internal/ks, internal/mdmac,
// internal/loader, internal/workerpool) into the end-to-end solve loop,
// grounded on original_source/src/main.c's
// top-level flow (options parse -> KS -> mdmac -> CMSM pair -> Block-
// Lanczos loop -> residual GJ -> solution print).
package controller

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/samber/lo"

	"github.com/kcning/minranksolve/internal/cmsm"
	"github.com/kcning/minranksolve/internal/config"
	"github.com/kcning/minranksolve/internal/gf16"
	"github.com/kcning/minranksolve/internal/ks"
	"github.com/kcning/minranksolve/internal/lanczos"
	"github.com/kcning/minranksolve/internal/loader"
	"github.com/kcning/minranksolve/internal/mdmac"
	"github.com/kcning/minranksolve/internal/nullpipeline"
	"github.com/kcning/minranksolve/internal/progress"
	"github.com/kcning/minranksolve/internal/residual"
	"github.com/kcning/minranksolve/internal/workerpool"
)

// LanczosMaxIter bounds the number of Block-Lanczos batches the
// controller runs before giving up, mirroring original_source/src/
// main.c's `#define LANCZOS_MAX_ITER (0x1ULL << 3)`.
const LanczosMaxIter = 8

// VarKind classifies a solved variable as one of the system's linear
// ("lambda") or kernel ("x(i,j)") variables, for solution printing.
type VarKind int

const (
	LinearVar VarKind = iota
	KernelVar
)

// VarResult is one line of the printed solution.
type VarResult struct {
	Kind     VarKind
	Index    int // for LinearVar; unused for KernelVar
	Row, Col int // for KernelVar; unused for LinearVar
	Value    gf16.Elem
	Free     bool
}

// Report is the full outcome of a Run, everything cmd/minranksolve needs
// to print.
type Report struct {
	K, R, C           int
	RemainingNCol     int
	TargetNVNum       int
	CidxsSz           int
	SampledRows       int
	MaxTnum           int
	AvgTnum           float64
	Batches           int
	NullVectorsFound  int
	NonzeroCoeffs     int
	UsedRandomKS      bool
	Solved            bool
	Inconsistent      bool
	Vars              []VarResult
	FreeVarCount      int
}

// DrySizeReport computes and returns the Macaulay/CMSM sizing
// information the `--dry` flag prints, without running
// Block-Lanczos.
func DrySizeReport(cfg *config.Config, inst *loader.Instance, seed int64) (*Report, error) {
	ksMat, k, r, c, err := buildKS(cfg, inst, seed)
	if err != nil {
		return nil, err
	}
	vnum := ks.TotalVarNum(k, r, c)
	remainingNCol := vnum + 1

	if _, err := residual.SelectWidth(remainingNCol); err != nil {
		return nil, err
	}
	mac := mdmac.Build(ksMat, vnum)

	// MaxTnum/AvgTnum count every row of each nonlinear column; the
	// --mac-rows row sample is not drawn here.
	cidxsSz, nnz, maxTnum := 0, 0, 0
	for col := 0; col < mac.NCol(); col++ {
		if !mac.IsLinear(col) {
			cidxsSz++
			n := mac.NnzInColumn(col)
			nnz += n
			if n > maxTnum {
				maxTnum = n
			}
		}
	}
	avgTnum := 0.0
	if cidxsSz > 0 {
		avgTnum = float64(nnz) / float64(cidxsSz)
	}

	return &Report{
		K: k, R: r, C: c,
		RemainingNCol: remainingNCol,
		TargetNVNum:   vnum + 1,
		CidxsSz:       cidxsSz,
		MaxTnum:       maxTnum,
		AvgTnum:       avgTnum,
		SampledRows:   sampledRowCount(cfg.MacRows, mac.NRow()),
		UsedRandomKS:  cfg.KSRand,
	}, nil
}

func sampledRowCount(macRows, nrow int) int {
	if macRows <= 0 || macRows > nrow {
		return nrow
	}
	return macRows
}

func buildKS(cfg *config.Config, inst *loader.Instance, seed int64) (*ks.Matrix, int, int, int, error) {
	if cfg.KSRand {
		if inst == nil {
			return nil, 0, 0, 0, fmt.Errorf("controller: --ks-rand requires instance dimensions (k, r, ncol) even without a coefficient file")
		}
		ksMat := ks.Rand(inst.K, inst.R, cfg.C, inst.NCol, seed)
		return ksMat, inst.K, inst.R, cfg.C, nil
	}
	if inst == nil {
		return nil, 0, 0, 0, fmt.Errorf("controller: an input instance is required unless --ks-rand is set")
	}
	ksMat := ks.FromMinRank(inst.M, inst.K, inst.R, cfg.C, inst.NCol, seed)
	return ksMat, inst.K, inst.R, cfg.C, nil
}

// Run drives the full solve loop end to end.
func Run(cfg *config.Config, inst *loader.Instance) (*Report, error) {
	seed := cfg.Seed
	if !cfg.HasSeed {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	ksMat, k, r, c, err := buildKS(cfg, inst, seed)
	if err != nil {
		return nil, err
	}
	vnum := ks.TotalVarNum(k, r, c)
	remainingNCol := vnum + 1
	targetNVNum := vnum + 1

	if _, err := residual.SelectWidth(remainingNCol); err != nil {
		return nil, err
	}
	mac := mdmac.Build(ksMat, vnum)

	pool := workerpool.New(cfg.Threads)
	defer pool.Close()

	macSeed := rng.Int63()
	elimA := cmsm.Build(mac, cmsm.BuildParams{Seed: macSeed, RowCount: cfg.MacRows, Filter: cmsm.IsNonlinear}, pool)
	keepA := cmsm.Build(mac, cmsm.BuildParams{Seed: macSeed, RowCount: cfg.MacRows, Filter: cmsm.IsLinear}, pool)

	solver, err := residual.NewSolver(remainingNCol)
	if err != nil {
		return nil, err
	}

	// vmap[j] maps variable index j (0 = constant) to its condensed column
	// index in the keep-side CMSM. Because
	// internal/mdmac places every linear column contiguously at the front
	// (indices 0..vnum) and cmsm.IsLinear keeps exactly that range in
	// order, the condensed index equals the original column index here.
	vmap := nullpipeline.VarMap(lo.Map(lo.Range(remainingNCol), func(j, _ int) int { return j }))

	pipeline := nullpipeline.New(keepA, vmap, solver, targetNVNum)

	expectedRank := elimA.Rnum()
	if elimA.CidxsSz() < expectedRank {
		expectedRank = elimA.CidxsSz()
	}
	subIter := (expectedRank + 63) / 64
	if subIter < 1 {
		subIter = 1
	}

	batches := 0
	for batches < LanczosMaxIter && pipeline.Size() < targetNVNum {
		batches++
		lz := lanczos.New(elimA, rng.Int63())
		lz.Run(subIter)
		pipeline.Process(lz.CandidateBlock())
		progress.Logf("%d-th batch: nullvectors so far %d/%d\n", batches, pipeline.Size(), targetNVNum)
	}

	report := &Report{
		K: k, R: r, C: c,
		RemainingNCol:    remainingNCol,
		TargetNVNum:      targetNVNum,
		CidxsSz:          elimA.CidxsSz(),
		SampledRows:      elimA.Rnum(),
		MaxTnum:          elimA.MaxTnum(),
		AvgTnum:          elimA.AvgTnum(),
		Batches:          batches,
		NullVectorsFound: pipeline.Size(),
		NonzeroCoeffs:    pipeline.Stats().NonzeroCoeffs,
		UsedRandomKS:     cfg.KSRand,
	}

	if pipeline.Size() < targetNVNum {
		return report, nil
	}

	res := solver.Solve()
	report.Solved = true
	report.Inconsistent = res.Inconsistent
	report.Vars = formatVars(res, k, r)
	report.FreeVarCount = lo.CountBy(report.Vars, func(v VarResult) bool { return v.Free })
	return report, nil
}

func formatVars(res residual.Result, k, r int) []VarResult {
	out := make([]VarResult, 0, len(res.Solution))
	for i := 0; i < k; i++ {
		out = append(out, VarResult{Kind: LinearVar, Index: i, Value: res.Solution[i], Free: res.Free[i]})
	}
	for i := k; i < len(res.Solution); i++ {
		row, col := ks.KernelVarIdxToXY(i, k, r)
		out = append(out, VarResult{Kind: KernelVar, Row: row, Col: col, Value: res.Solution[i], Free: res.Free[i]})
	}
	return out
}

// FormatSolution renders a Report's solved variables, matching
// original_source/src/main.c's solution-printing layout.
func FormatSolution(rep *Report) string {
	s := "[+] Solution:\n"
	if rep.Inconsistent {
		s += "[+] The system has no solution\n"
	}
	s += "\t\tlinear variables:\n"
	for _, v := range rep.Vars {
		if v.Kind != LinearVar {
			continue
		}
		if v.Free {
			s += fmt.Sprintf("\t\tlambda_%d = free variable\n", v.Index)
		} else {
			s += fmt.Sprintf("\t\tlambda_%d = %d\n", v.Index, v.Value)
		}
	}
	s += "\t\tkernel variables:\n"
	for _, v := range rep.Vars {
		if v.Kind != KernelVar {
			continue
		}
		if v.Free {
			s += fmt.Sprintf("\t\tx(%d, %d) = free variable\n", v.Row, v.Col)
		} else {
			s += fmt.Sprintf("\t\tx(%d, %d) = %d\n", v.Row, v.Col, v.Value)
		}
	}
	return s
}
