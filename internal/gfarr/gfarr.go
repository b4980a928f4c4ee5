// Package gfarr implements Arr, a flat packed array of GF(16) bytes --
// the dense, one-element-per-byte sibling of internal/block's bit-sliced
// GrpBlock{N}, for storage that is more naturally indexed byte-by-byte
// than bitplane-packed: the condensed Macaulay matrix's per-column
// nonzero values (internal/cmsm) and the dense residual rows extracted
// by internal/nullpipeline.
//
// Grounded on original_source/src/mrs/bytearray.c's ByteArray
// (bytearray_create, bytearray_zero, bytearray_at/bytearray_set_at, and
// bytearray_cz counting zero bytes); the GF(16) scalar fused
// multiply-add and its masked variant have no bytearray.c equivalent,
// since a plain byte array has no arithmetic of its own -- they are the
// GF(16)-specific extension this solver's byte-array value storage
// needs on top of the C original's plain buffer.
package gfarr

import "github.com/kcning/minranksolve/internal/gf16"

// Arr is a flat array of GF(16) values, one per byte.
type Arr []gf16.Elem

// New allocates a zeroed array of n elements.
func New(n int) Arr { return make(Arr, n) }

// At returns element i.
func (a Arr) At(i int) gf16.Elem { return a[i] }

// SetAt sets element i to v.
func (a Arr) SetAt(i int, v gf16.Elem) { a[i] = v }

// Len returns the number of elements.
func (a Arr) Len() int { return len(a) }

// Zero clears every element, mirroring bytearray_zero.
func (a Arr) Zero() {
	for i := range a {
		a[i] = 0
	}
}

// FmaScalar computes a[i] += b[i]*c for every i.
func (a Arr) FmaScalar(b Arr, c gf16.Elem) {
	if c == 0 {
		return
	}
	for i := range a {
		a[i] = gf16.Add(a[i], gf16.Mul(b[i], c))
	}
}

// FmaScalarMask is the masked variant of FmaScalar: only positions where
// mask[i] is true are updated, the rest of a is left untouched.
func (a Arr) FmaScalarMask(b Arr, c gf16.Elem, mask []bool) {
	if c == 0 {
		return
	}
	for i := range a {
		if mask[i] {
			a[i] = gf16.Add(a[i], gf16.Mul(b[i], c))
		}
	}
}

// CountZero returns the number of zero-valued elements, the population
// count bytearray_cz provides over a plain byte buffer.
func (a Arr) CountZero() int {
	c := 0
	for _, v := range a {
		if v == 0 {
			c++
		}
	}
	return c
}

// CountNonzero is the complement of CountZero.
func (a Arr) CountNonzero() int { return len(a) - a.CountZero() }
