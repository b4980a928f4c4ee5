// Package nullhash implements a bounded, content-addressed null-vector
// hash table: a candidate null vector is admitted
// exactly once, duplicates are rejected, and the table itself never grows
// past a fixed capacity so memory use is bounded regardless of how many
// candidates Block-Lanczos proposes (original_source's nulspace_hash
// table, sized to 10x the target null vector count per main.c's
// `nulspace_ht_new(10 * target_nullnum)`).
//
// Content addressing uses BLAKE2s-16 (the truncated-output variant);
// golang.org/x/crypto/blake2s is the ecosystem's maintained
// implementation of the 32-byte-state hash, the sibling of the
// gtank/blake2 package's blake2b.
package nullhash

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2s"

	"github.com/kcning/minranksolve/internal/gf16"
)

// Status is the three-way outcome of an Insert call, mirroring the
// original's SUCCESS/DUPLICATE/BUCKET_FULL enum.
type Status int

const (
	Success Status = iota
	Duplicate
	BucketFull
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Duplicate:
		return "duplicate"
	case BucketFull:
		return "bucket_full"
	default:
		return "unknown"
	}
}

// digest is the truncated 16-byte BLAKE2s content hash of a candidate's
// packed GF(16) coefficients.
type digest [16]byte

// Table is a fixed-capacity, open-addressed set of null-vector digests.
// Capacity is fixed at construction so a pathological run cannot grow
// memory unboundedly chasing duplicates.
type Table struct {
	capacity int
	slots    []slot
	size     int
}

type slot struct {
	used bool
	d    digest
}

// New creates a table sized for the given target null-vector count, with
// 10x headroom, mirroring original_source's nulspace_ht_new(10 * target).
func New(targetNullVectors int) *Table {
	capacity := targetNullVectors * 10
	if capacity < 16 {
		capacity = 16
	}
	return &Table{capacity: capacity, slots: make([]slot, capacity)}
}

// Size returns the number of distinct vectors currently stored.
func (t *Table) Size() int { return t.size }

// Capacity returns the table's fixed slot count.
func (t *Table) Capacity() int { return t.capacity }

// hashElems computes the BLAKE2s-16 digest of a packed GF(16) coefficient
// vector. Coefficients are serialized two per byte (nibble-packed) before
// hashing, the same packing the binary instance loader (internal/loader)
// uses for dense matrices, so a duplicate's digest is independent of how
// the caller happened to represent it in memory.
func hashElems(coeffs []gf16.Elem) digest {
	packed := make([]byte, (len(coeffs)+1)/2)
	for i, c := range coeffs {
		if i%2 == 0 {
			packed[i/2] = byte(c)
		} else {
			packed[i/2] |= byte(c) << 4
		}
	}
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(coeffs)))

	full := blake2s.Sum256(append(packed, lenBuf[:]...))
	var d digest
	copy(d[:], full[:16])
	return d
}

// Insert admits coeffs into the table if it is not already present. The
// probe sequence is linear from the digest's first 8 bytes as a starting
// index, matching a simple open-addressed hash table's standard
// collision handling; BucketFull is returned once probing has visited
// every slot without finding an empty one or a match.
func (t *Table) Insert(coeffs []gf16.Elem) Status {
	d := hashElems(coeffs)
	start := int(binary.LittleEndian.Uint64(d[:8]) % uint64(t.capacity))

	for probe := 0; probe < t.capacity; probe++ {
		idx := (start + probe) % t.capacity
		s := &t.slots[idx]
		if !s.used {
			s.used = true
			s.d = d
			t.size++
			return Success
		}
		if s.d == d {
			return Duplicate
		}
	}
	return BucketFull
}

// Contains reports whether coeffs' digest is already present, without
// inserting it.
func (t *Table) Contains(coeffs []gf16.Elem) bool {
	d := hashElems(coeffs)
	start := int(binary.LittleEndian.Uint64(d[:8]) % uint64(t.capacity))
	for probe := 0; probe < t.capacity; probe++ {
		idx := (start + probe) % t.capacity
		s := &t.slots[idx]
		if !s.used {
			return false
		}
		if s.d == d {
			return true
		}
	}
	return false
}
