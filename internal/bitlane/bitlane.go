// Package bitlane provides aligned bitwise primitives over fixed-width bit
// vectors, generalizing the reference implementation's uint128_t/uint256_t/
// uint512_t types (original_source/src/mrs/uint512_t.h,
// original_source/src/mrs/uint64a.h) into a single width-parameterized Go
// type, the way go-highway's hwy.Vec[T] wraps a variable-length slice
// instead of hand-duplicating one struct per width (hwy/types.go).
//
// The reference C types are allocated 64-byte aligned so that AVX-512 loads
// never cross a cache-line boundary. Go's allocator does not expose manual
// alignment control without unsafe pointer arithmetic on top of an
// oversized backing array; BitLane accepts that gap (recorded in
// DESIGN.md) since correctness does not depend on it -- only the
// unavailable hand-written SIMD backends would have. Every operation here
// is implemented over the portable []uint64 limb representation that all
// of the reference widths bottom out to.
package bitlane

import (
	"math/bits"

	"github.com/kcning/minranksolve/internal/simdlevel"
)

// BitLane is a bit vector of a fixed width (64, 128, 256 or 512 bits in
// this system), stored as ceil(width/64) 64-bit limbs, limb 0 holding
// bits [0,64). The limbs are an ordinary Go slice with no 64-byte
// alignment guarantee.
type BitLane struct {
	limbs []uint64
	nbits int
}

// New allocates a zeroed BitLane of the given bit width. width must be a
// positive multiple of 64.
func New(width int) BitLane {
	if width <= 0 || width%64 != 0 {
		panic("bitlane: width must be a positive multiple of 64")
	}
	return BitLane{limbs: make([]uint64, width/64), nbits: width}
}

// Len returns the bit width of the lane.
func (b BitLane) Len() int { return b.nbits }

// Limbs exposes the underlying 64-bit words, primarily for tests and for
// internal/block's bitplane routines which operate limb-by-limb.
func (b BitLane) Limbs() []uint64 { return b.limbs }

// Clone returns an independent copy.
func (b BitLane) Clone() BitLane {
	out := New(b.nbits)
	copy(out.limbs, b.limbs)
	return out
}

func sameWidth(a, b BitLane) {
	if a.nbits != b.nbits {
		panic("bitlane: width mismatch")
	}
}

// unrollBounds splits [0,n) into a main range walked simdlevel.Current()'s
// UnrollLimbs() at a time and a tail of the remaining limbs, the portable
// stand-in for the reference's compile-time AVX2/AVX-512 unroll selection
// (see the package doc and internal/simdlevel): the arithmetic per limb is
// identical regardless of stride, only the loop shape changes.
func unrollBounds(n int) (mainEnd, step int) {
	step = simdlevel.Current().UnrollLimbs()
	if step > n {
		step = 1
	}
	return n - n%step, step
}

// And computes dst = a & b element-wise over limbs.
func And(dst, a, b BitLane) {
	sameWidth(a, b)
	sameWidth(dst, a)
	mainEnd, step := unrollBounds(len(dst.limbs))
	for i := 0; i < mainEnd; i += step {
		for k := 0; k < step; k++ {
			dst.limbs[i+k] = a.limbs[i+k] & b.limbs[i+k]
		}
	}
	for i := mainEnd; i < len(dst.limbs); i++ {
		dst.limbs[i] = a.limbs[i] & b.limbs[i]
	}
}

// Or computes dst = a | b.
func Or(dst, a, b BitLane) {
	sameWidth(a, b)
	sameWidth(dst, a)
	mainEnd, step := unrollBounds(len(dst.limbs))
	for i := 0; i < mainEnd; i += step {
		for k := 0; k < step; k++ {
			dst.limbs[i+k] = a.limbs[i+k] | b.limbs[i+k]
		}
	}
	for i := mainEnd; i < len(dst.limbs); i++ {
		dst.limbs[i] = a.limbs[i] | b.limbs[i]
	}
}

// Xor computes dst = a ^ b.
func Xor(dst, a, b BitLane) {
	sameWidth(a, b)
	sameWidth(dst, a)
	mainEnd, step := unrollBounds(len(dst.limbs))
	for i := 0; i < mainEnd; i += step {
		for k := 0; k < step; k++ {
			dst.limbs[i+k] = a.limbs[i+k] ^ b.limbs[i+k]
		}
	}
	for i := mainEnd; i < len(dst.limbs); i++ {
		dst.limbs[i] = a.limbs[i] ^ b.limbs[i]
	}
}

// Andn computes dst = a &^ b (a AND NOT b).
func Andn(dst, a, b BitLane) {
	sameWidth(a, b)
	sameWidth(dst, a)
	mainEnd, step := unrollBounds(len(dst.limbs))
	for i := 0; i < mainEnd; i += step {
		for k := 0; k < step; k++ {
			dst.limbs[i+k] = a.limbs[i+k] &^ b.limbs[i+k]
		}
	}
	for i := mainEnd; i < len(dst.limbs); i++ {
		dst.limbs[i] = a.limbs[i] &^ b.limbs[i]
	}
}

// Neg computes dst = ^a, i.e. bitwise complement.
func Neg(dst, a BitLane) {
	sameWidth(dst, a)
	for i := range dst.limbs {
		dst.limbs[i] = ^a.limbs[i]
	}
}

// Mix computes dst = (a & m) | (b &^ m), the masked blend used throughout
// the block types for conditional column/element replacement.
func Mix(dst, a, b, m BitLane) {
	sameWidth(a, b)
	sameWidth(a, m)
	sameWidth(dst, a)
	for i := range dst.limbs {
		dst.limbs[i] = (a.limbs[i] & m.limbs[i]) | (b.limbs[i] &^ m.limbs[i])
	}
}

// PopCount returns the number of set bits.
func (b BitLane) PopCount() int {
	n := 0
	for _, limb := range b.limbs {
		n += bits.OnesCount64(limb)
	}
	return n
}

// Ctz returns the index of the least-significant set bit, or Len() if the
// lane is all zero.
func (b BitLane) Ctz() int {
	for i, limb := range b.limbs {
		if limb != 0 {
			return i*64 + bits.TrailingZeros64(limb)
		}
	}
	return b.nbits
}

// IsZero reports whether every bit is clear.
func (b BitLane) IsZero() bool {
	for _, limb := range b.limbs {
		if limb != 0 {
			return false
		}
	}
	return true
}

// At returns the bit at position i as 0 or 1.
func (b BitLane) At(i int) uint64 {
	return (b.limbs[i/64] >> uint(i%64)) & 1
}

// SetAt sets (v!=0) or clears (v==0) the bit at position i.
func (b BitLane) SetAt(i int, v uint64) {
	if v != 0 {
		b.limbs[i/64] |= 1 << uint(i%64)
	} else {
		b.limbs[i/64] &^= 1 << uint(i%64)
	}
}

// ToggleAt flips the bit at position i.
func (b BitLane) ToggleAt(i int) {
	b.limbs[i/64] ^= 1 << uint(i%64)
}

// SetBitPositions appends the index of every set bit to out, in ascending
// order, and returns the extended slice. This backs nonzero/zero position
// enumeration in internal/block and the column-mask walks in
// internal/lanczos.
func (b BitLane) SetBitPositions(out []int) []int {
	for limbIdx, limb := range b.limbs {
		for limb != 0 {
			bitIdx := bits.TrailingZeros64(limb)
			out = append(out, limbIdx*64+bitIdx)
			limb &= limb - 1
		}
	}
	return out
}

// Fill sets num consecutive bits starting at offset according to v (1 sets
// them, 0 clears them).
func (b BitLane) Fill(v uint64, num, offset int) {
	for i := offset; i < offset+num; i++ {
		b.SetAt(i, v)
	}
}

// ExtendFromLSB broadcasts the least-significant bit of x to all 64 bits,
// i.e. the uint64_extend_from_lsb helper used by the reference
// implementation's branch-free scalar-multiply routines
// (original_source/src/mrs/grp128_gf16.c) and by klauspost/reedsolomon's
// AVX512 Galois-field routines
// (other_examples/1f23f446_..._galoisAvx512_amd64.go.go) to turn a 0/1
// mask bit into an all-zero or all-one machine word usable as a mask
// operand with no data-dependent branch.
func ExtendFromLSB(x uint64) uint64 {
	return -(x & 1)
}
