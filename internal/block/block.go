// Package block implements GrpBlock{N}, the bit-sliced block of N packed
// GF(16) elements, for N in {64, 128, 256, 512}. It generalizes
// original_source/src/mrs/grp128_gf16.c (which only covers N=128) to a
// single width-parameterized Go type the way internal/bitlane generalizes
// uint128_t/uint256_t/uint512_t, and the way go-highway's hwy.Vec[T]
// avoids one hand-duplicated struct per lane width (hwy/types.go).
//
// A Block stores four bitlane.BitLane "planes" of width N, LSB to MSB: the
// i-th element's value is the 4-bit number formed by bit i of each plane.
// All block-level multiplications use the branch-free, bitplane/mask
// technique from grp128_gf16_mul_scalar_reg, generalized from GF(2^8) in
// other_examples/1f23f446_..._galoisAvx512_amd64.go.go's AVX-512 Galois
// routines down to GF(2^4): the scalar selects whole plane copies via a
// register broadcast of ExtendFromLSB, so there is no data-dependent
// branch in the inner loop.
package block

import (
	"math/rand"

	"github.com/kcning/minranksolve/internal/bitlane"
	"github.com/kcning/minranksolve/internal/gf16"
)

// Block is a bit-sliced array of N GF(16) elements, N one of 64/128/256/512.
type Block struct {
	width  int
	planes [4]bitlane.BitLane
}

// New allocates a zeroed Block of the given width.
func New(width int) *Block {
	b := &Block{width: width}
	for i := range b.planes {
		b.planes[i] = bitlane.New(width)
	}
	return b
}

// Width returns N, the number of packed GF(16) elements.
func (g *Block) Width() int { return g.width }

// Planes exposes the four bit planes directly, for internal/matrix's
// row-major assembly and for tests.
func (g *Block) Planes() *[4]bitlane.BitLane { return &g.planes }

// Zero clears every element to 0.
func (g *Block) Zero() {
	for i := range g.planes {
		for j := range g.planes[i].Limbs() {
			g.planes[i].Limbs()[j] = 0
		}
	}
}

// Rand fills the block with pseudo-random GF(16) elements drawn from r.
func (g *Block) Rand(r *rand.Rand) {
	for i := 0; i < g.width; i++ {
		g.SetAt(i, gf16.Elem(r.Intn(16)))
	}
}

// Copy overwrites g with src's contents. Both must share the same width.
func (g *Block) Copy(src *Block) {
	requireSameWidth(g, src)
	for i := range g.planes {
		copy(g.planes[i].Limbs(), src.planes[i].Limbs())
	}
}

func requireSameWidth(a, b *Block) {
	if a.width != b.width {
		panic("block: width mismatch")
	}
}

// At returns the element at position i.
func (g *Block) At(i int) gf16.Elem {
	v := g.planes[0].At(i) | (g.planes[1].At(i) << 1) | (g.planes[2].At(i) << 2) | (g.planes[3].At(i) << 3)
	return gf16.Elem(v)
}

// SetAt sets the element at position i to v.
func (g *Block) SetAt(i int, v gf16.Elem) {
	for p := 0; p < 4; p++ {
		g.planes[p].SetAt(i, uint64((v>>uint(p))&1))
	}
}

// AddAt XORs v into the element at position i (GF(16) addition).
func (g *Block) AddAt(i int, v gf16.Elem) {
	g.SetAt(i, gf16.Add(g.At(i), v))
}

// Add computes g += other, element-wise GF(16) addition (XOR per plane).
func (g *Block) Add(other *Block) {
	requireSameWidth(g, other)
	for p := 0; p < 4; p++ {
		bitlane.Xor(g.planes[p], g.planes[p], other.planes[p])
	}
}

// Sub is identical to Add in characteristic 2.
func (g *Block) Sub(other *Block) { g.Add(other) }

// ZeroAt clears the element at position i.
func (g *Block) ZeroAt(i int) {
	for p := 0; p < 4; p++ {
		g.planes[p].SetAt(i, 0)
	}
}

// ZeroSubset clears every element whose bit is 0 in mask, keeping those
// whose bit is 1.
func (g *Block) ZeroSubset(mask bitlane.BitLane) {
	for p := 0; p < 4; p++ {
		bitlane.And(g.planes[p], g.planes[p], mask)
	}
}

// Mix replaces, for each element position where mask bit is 0, this
// block's element with other's; positions where mask bit is 1 are kept
// from g. This matches bitlane.Mix(dst,a,b,m) = (a&m)|(b&~m) applied
// plane-wise with a=g, b=other.
func (g *Block) Mix(other *Block, mask bitlane.BitLane) {
	requireSameWidth(g, other)
	for p := 0; p < 4; p++ {
		bitlane.Mix(g.planes[p], g.planes[p], other.planes[p], mask)
	}
}

// uniformMask returns a full-width lane that is all-ones if bit is set, all
// zero otherwise -- the whole-block analogue of bitlane.ExtendFromLSB used
// when the multiplier is a single scalar shared by every element.
func uniformMask(width int, bit uint64) bitlane.BitLane {
	l := bitlane.New(width)
	if bit&1 != 0 {
		for i := range l.Limbs() {
			l.Limbs()[i] = ^uint64(0)
		}
	}
	return l
}

// mulScalarPlanes implements grp128_gf16_mul_scalar_reg generalized to any
// width: it multiplies the four input planes by a single GF(16) scalar
// encoded as four uniform bit masks and returns the four reduced output
// planes. The reduction is modulo x^4+x+1, the same polynomial gf16.Mul
// reduces by.
func mulScalarPlanes(width int, src *[4]bitlane.BitLane, m0, m1, m2, m3 bitlane.BitLane) [4]bitlane.BitLane {
	b0 := bitlane.New(width)
	b1 := bitlane.New(width)
	b2 := bitlane.New(width)
	b3 := bitlane.New(width)
	b4 := bitlane.New(width)
	b5 := bitlane.New(width)
	b6 := bitlane.New(width)

	tmp := bitlane.New(width)

	// LSB (m0)
	bitlane.And(b0, src[0], m0)
	bitlane.And(b1, src[1], m0)
	bitlane.And(b2, src[2], m0)
	bitlane.And(b3, src[3], m0)
	// 2nd LSB (m1)
	bitlane.And(tmp, src[0], m1)
	bitlane.Xor(b1, b1, tmp)
	bitlane.And(tmp, src[1], m1)
	bitlane.Xor(b2, b2, tmp)
	bitlane.And(tmp, src[2], m1)
	bitlane.Xor(b3, b3, tmp)
	bitlane.And(b4, src[3], m1)
	// 3rd LSB (m2)
	bitlane.And(tmp, src[0], m2)
	bitlane.Xor(b2, b2, tmp)
	bitlane.And(tmp, src[1], m2)
	bitlane.Xor(b3, b3, tmp)
	bitlane.And(tmp, src[2], m2)
	bitlane.Xor(b4, b4, tmp)
	bitlane.And(b5, src[3], m2)
	// 4th LSB (m3)
	bitlane.And(tmp, src[0], m3)
	bitlane.Xor(b3, b3, tmp)
	bitlane.And(tmp, src[1], m3)
	bitlane.Xor(b4, b4, tmp)
	bitlane.And(tmp, src[2], m3)
	bitlane.Xor(b5, b5, tmp)
	bitlane.And(b6, src[3], m3)

	// reduction modulo x^4+x+1
	bitlane.Xor(b3, b3, b6)
	bitlane.Xor(b2, b2, b6)
	bitlane.Xor(b2, b2, b5)
	bitlane.Xor(b1, b1, b5)
	bitlane.Xor(b1, b1, b4)
	bitlane.Xor(b0, b0, b4)

	return [4]bitlane.BitLane{b0, b1, b2, b3}
}

func masksForScalar(width int, c gf16.Elem) (m0, m1, m2, m3 bitlane.BitLane) {
	m0 = uniformMask(width, uint64(c)&1)
	m1 = uniformMask(width, uint64(c>>1)&1)
	m2 = uniformMask(width, uint64(c>>2)&1)
	m3 = uniformMask(width, uint64(c>>3)&1)
	return
}

// MulScalar sets dst = src * c for a shared scalar c.
func MulScalar(dst, src *Block, c gf16.Elem) {
	requireSameWidth(dst, src)
	m0, m1, m2, m3 := masksForScalar(src.width, c)
	out := mulScalarPlanes(src.width, &src.planes, m0, m1, m2, m3)
	dst.planes = out
}

// MulScalarI multiplies g in place by c.
func (g *Block) MulScalarI(c gf16.Elem) {
	m0, m1, m2, m3 := masksForScalar(g.width, c)
	g.planes = mulScalarPlanes(g.width, &g.planes, m0, m1, m2, m3)
}

// FmaddScalar computes g += b*c (fused multiply-add with a shared scalar).
func (g *Block) FmaddScalar(b *Block, c gf16.Elem) {
	requireSameWidth(g, b)
	m0, m1, m2, m3 := masksForScalar(b.width, c)
	prod := mulScalarPlanes(b.width, &b.planes, m0, m1, m2, m3)
	for p := 0; p < 4; p++ {
		bitlane.Xor(g.planes[p], g.planes[p], prod[p])
	}
}

// FmaddScalarBS computes g += b * g2.At(i): the scalar multiplier is read
// from a single element of another block rather than passed as a literal.
func (g *Block) FmaddScalarBS(b, g2 *Block, i int) {
	g.FmaddScalar(b, g2.At(i))
}

// FmaddScalarMask computes g += b*c, but only at element positions where
// mask's bit is set; other positions of g are left untouched.
func (g *Block) FmaddScalarMask(b *Block, c gf16.Elem, mask bitlane.BitLane) {
	requireSameWidth(g, b)
	m0, m1, m2, m3 := masksForScalar(b.width, c)
	prod := mulScalarPlanes(b.width, &b.planes, m0, m1, m2, m3)
	masked := bitlane.New(g.width)
	for p := 0; p < 4; p++ {
		bitlane.And(masked, prod[p], mask)
		bitlane.Xor(g.planes[p], g.planes[p], masked)
	}
}

// NonzeroPositions appends, in ascending order, the index of every element
// that is nonzero.
func (g *Block) NonzeroPositions(out []int) []int {
	nz := bitlane.New(g.width)
	bitlane.Or(nz, g.planes[0], g.planes[1])
	tmp := bitlane.New(g.width)
	bitlane.Or(tmp, g.planes[2], g.planes[3])
	bitlane.Or(nz, nz, tmp)
	return nz.SetBitPositions(out)
}

// ZeroPositions appends, in ascending order, the index of every element
// that is zero. NonzeroPositions and ZeroPositions partition [0,width).
func (g *Block) ZeroPositions(out []int) []int {
	nz := bitlane.New(g.width)
	bitlane.Or(nz, g.planes[0], g.planes[1])
	tmp := bitlane.New(g.width)
	bitlane.Or(tmp, g.planes[2], g.planes[3])
	bitlane.Or(nz, nz, tmp)
	z := bitlane.New(g.width)
	bitlane.Neg(z, nz)
	return z.SetBitPositions(out)
}

// NonzeroMask returns the bitmap of nonzero element positions.
func (g *Block) NonzeroMask() bitlane.BitLane {
	nz := bitlane.New(g.width)
	bitlane.Or(nz, g.planes[0], g.planes[1])
	tmp := bitlane.New(g.width)
	bitlane.Or(tmp, g.planes[2], g.planes[3])
	bitlane.Or(nz, nz, tmp)
	return nz
}
