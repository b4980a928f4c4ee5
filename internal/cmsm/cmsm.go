// Package cmsm implements CMSMGeneric, the condensed column-major sparse
// Macaulay matrix: a row-sampled, column-filtered view over an
// internal/macaulay.Matrix, stored so every
// column's nonzeros sit contiguously, sorted by (sampled) row index. Each
// column owns its own row-index slice and gfarr.Arr of values; there is no
// single backing arena shared by all columns and no per-column offset
// table. The index/value split is adapted from the CSC layout in
// other_examples/c5d86d54_james-bowman-sparse__compressed.go.go, specialized to
// GF(16) values and to the controller's need for two CMSM instances (the
// eliminate-side and the keep-side) sharing one row sample bit-for-bit.
package cmsm

import (
	"math/rand"
	"sort"

	"github.com/kcning/minranksolve/internal/bitmap"
	"github.com/kcning/minranksolve/internal/gf16"
	"github.com/kcning/minranksolve/internal/gfarr"
	"github.com/kcning/minranksolve/internal/macaulay"
	"github.com/kcning/minranksolve/internal/matrix"
	"github.com/kcning/minranksolve/internal/workerpool"
)

// ColumnFilter selects which columns of the source Macaulay matrix this
// CMSM keeps.
type ColumnFilter func(mac *macaulay.Matrix, col int) bool

// IsLinear keeps a Macaulay matrix's linear-variable and constant columns
// -- the "keep" side CMSM.
func IsLinear(mac *macaulay.Matrix, col int) bool { return mac.IsLinear(col) }

// IsNonlinear keeps every non-linear monomial column -- the
// "eliminate" side CMSM.
func IsNonlinear(mac *macaulay.Matrix, col int) bool { return !mac.IsLinear(col) }

// column is one condensed column's packed, row-sorted nonzero entries,
// referencing both its position in this CMSM (implicit: its slice index)
// and its index in the source Macaulay matrix (Global). rows and vals
// are parallel arrays -- rows holding each nonzero's *sampled-row* index
// in [0,rnum), vals its GF(16) coefficient as a gfarr.Arr -- the CSC
// index/value split generalized from bytearray.c's flat byte buffer to a
// sparse column's value storage, one gfarr.Arr per column rather than
// one big ByteArray for the whole matrix.
type column struct {
	Global int
	rows   []int
	vals   gfarr.Arr
}

// columnSorter sorts a column's rows/vals arrays in lockstep by row
// index, since gfarr.Arr has no arithmetic ordering of its own to sort by.
type columnSorter struct {
	rows []int
	vals gfarr.Arr
}

func (s columnSorter) Len() int           { return len(s.rows) }
func (s columnSorter) Less(i, j int) bool { return s.rows[i] < s.rows[j] }
func (s columnSorter) Swap(i, j int) {
	s.rows[i], s.rows[j] = s.rows[j], s.rows[i]
	s.vals[i], s.vals[j] = s.vals[j], s.vals[i]
}

func sortColumn(rows []int, vals gfarr.Arr) {
	sort.Sort(columnSorter{rows: rows, vals: vals})
}

// Generic is the condensed, column-major sparse Macaulay matrix.
type Generic struct {
	rnum     int
	cols     []column
	pool     *workerpool.Pool
	rowOfGen []int // sampled-row index -> original Macaulay row index, for diagnostics
}

// BuildParams bundles the (row_sample_seed, row_count, column_filter)
// tuple a CMSM build needs. The controller constructs the
// eliminate-side and keep-side CMSM with identical Seed and RowCount so
// their row samples are bit-for-bit identical, which is what makes a
// keep-side verification meaningful against an eliminate-side null vector.
type BuildParams struct {
	Seed     int64
	RowCount int // 0 means "sample every row" (spec's --mac-rows 0)
	Filter   ColumnFilter
}

// Build samples rows of mac pseudo-randomly per params.Seed and
// params.RowCount, then condenses every column accepted by params.Filter
// into column-major, row-sorted sparse storage.
func Build(mac *macaulay.Matrix, params BuildParams, pool *workerpool.Pool) *Generic {
	rnum := params.RowCount
	if rnum <= 0 || rnum > mac.NRow() {
		rnum = mac.NRow()
	}

	sampled := sampleRows(mac.NRow(), rnum, params.Seed)

	// sampledMask marks which original rows survived sampling; an original
	// row's condensed index is its rank among set bits below it
	// (PopCountUpto), the same succinct-bitmap technique
	// internal/bitmap.BitMap exists for, replacing a hash map with a
	// popcount-rank lookup over the dense row mask.
	sampledMask := bitmap.New(mac.NRow())
	for _, orig := range sampled {
		sampledMask.SetAt(orig, 1)
	}

	g := &Generic{rnum: rnum, pool: pool, rowOfGen: sampled}
	for c := 0; c < mac.NCol(); c++ {
		if !params.Filter(mac, c) {
			continue
		}
		src := mac.Column(c)
		rows := make([]int, 0, len(src))
		vals := make(gfarr.Arr, 0, len(src))
		for _, e := range src {
			if sampledMask.At(e.Row) == 0 {
				continue
			}
			si := sampledMask.PopCountUpto(e.Row)
			rows = append(rows, si)
			vals = append(vals, e.Val)
		}
		// rows is already ascending by construction: src is row-sorted
		// (macaulay.Matrix's invariant) and PopCountUpto is monotonic in
		// e.Row, so no re-sort is needed here -- sortColumn below only
		// guards against a source column that violates that invariant.
		sortColumn(rows, vals)
		g.cols = append(g.cols, column{Global: c, rows: rows, vals: vals})
	}
	return g
}

// sampleRows draws `count` distinct row indices from [0,nrow) using seed,
// returned in ascending order. When count >= nrow every row is kept.
func sampleRows(nrow, count int, seed int64) []int {
	if count >= nrow {
		out := make([]int, nrow)
		for i := range out {
			out[i] = i
		}
		return out
	}
	r := rand.New(rand.NewSource(seed))
	perm := r.Perm(nrow)
	chosen := append([]int(nil), perm[:count]...)
	sort.Ints(chosen)
	return chosen
}

// Rnum returns the number of sampled rows shared by this CMSM.
func (g *Generic) Rnum() int { return g.rnum }

// CidxsSz returns the number of selected columns.
func (g *Generic) CidxsSz() int { return len(g.cols) }

// GlobalColumn returns the source Macaulay column index backing condensed
// column c.
func (g *Generic) GlobalColumn(c int) int { return g.cols[c].Global }

// MaxTnum and AvgTnum report the max/average nonzero count per column.
func (g *Generic) MaxTnum() int {
	max := 0
	for _, c := range g.cols {
		if c.vals.Len() > max {
			max = c.vals.Len()
		}
	}
	return max
}

func (g *Generic) AvgTnum() float64 {
	if len(g.cols) == 0 {
		return 0
	}
	total := 0
	for _, c := range g.cols {
		total += c.vals.Len()
	}
	return float64(total) / float64(len(g.cols))
}

// ColumnIterator walks condensed columns in Macaulay column order:
// Begin/End/Next/Idx. Since Generic already stores only the
// filtered columns in their original relative order, the iterator is a
// thin cursor over g.cols.
type ColumnIterator struct {
	g   *Generic
	pos int
}

// Begin returns an iterator positioned at the first condensed column.
func (g *Generic) Begin() *ColumnIterator { return &ColumnIterator{g: g, pos: 0} }

// End reports whether the iterator has run past the last column.
func (it *ColumnIterator) End() bool { return it.pos >= len(it.g.cols) }

// Next advances to the next condensed column.
func (it *ColumnIterator) Next() { it.pos++ }

// Idx returns the current column's index in the *original* Macaulay
// matrix (its "global" column index).
func (it *ColumnIterator) Idx() int { return it.g.cols[it.pos].Global }

// CondensedIdx returns the current column's index within this CMSM
// (0..CidxsSz()-1).
func (it *ColumnIterator) CondensedIdx() int { return it.pos }

// TrMulRM computes out = A^T * v, the sparse mat-vec Block-Lanczos and
// null-vector verification both need, sequentially on the calling
// goroutine.
func (g *Generic) TrMulRM(out, v *matrix.RBlock) {
	g.trMulRange(out, v, 0, len(g.cols))
}

// TrMulRMParallel is the parallel variant: the CidxsSz() columns of A are
// partitioned into contiguous ranges across the pool's workers, each
// worker writing only to its own disjoint output rows.
func (g *Generic) TrMulRMParallel(out, v *matrix.RBlock) {
	if g.pool == nil {
		g.TrMulRM(out, v)
		return
	}
	g.pool.ParallelForRange(len(g.cols), func(start, end int) {
		g.trMulRange(out, v, start, end)
	})
}

func (g *Generic) trMulRange(out, v *matrix.RBlock, start, end int) {
	for c := start; c < end; c++ {
		dst := out.Row(c)
		dst.Zero()
		col := g.cols[c]
		for i, r := range col.rows {
			dst.FmaddScalar(v.Row(r), col.vals.At(i))
		}
	}
}

// MulCM computes out = A * p (the forward sparse mat-vec, as opposed to
// TrMulRM's transpose): out has Rnum() rows, p has CidxsSz() rows. Because
// every condensed column scatters into potentially overlapping output
// rows, this runs sequentially on the calling goroutine -- only the
// transpose mat-vec (TrMulRM) and its verification mirror are parallel.
func (g *Generic) MulCM(out, p *matrix.RBlock) {
	out.Zero()
	for c, col := range g.cols {
		pr := p.Row(c)
		for i, r := range col.rows {
			out.Row(r).FmaddScalar(pr, col.vals.At(i))
		}
	}
}

// At returns element (condensed row, condensed col) by linear scan of the
// column's sparse rows/vals arrays; used only by tests and small
// diagnostics, never by the hot path.
func (g *Generic) At(row, col int) gf16.Elem {
	c := g.cols[col]
	for i, r := range c.rows {
		if r == row {
			return c.vals.At(i)
		}
		if r > row {
			break
		}
	}
	return 0
}
