// Package loader implements the MinRank instance file format spec
// section 6 treats as "an opaque external contract for this core": it
// loads matrix dimensions (nrow x ncol), matrix count k, target rank r,
// and the k dense coefficient matrices M0..M_{k-1} over GF(16). The wire
// format itself is not specified by spec.md (original_source's loader.c/
// loader.h were filtered out of retrieval), so this package defines one:
// a small fixed binary header followed by nibble-packed dense matrices,
// in the same spirit as internal/nullhash's nibble packing.
package loader

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/kcning/minranksolve/internal/gf16"
)

// magic identifies the instance file format, read/written as the first
// four bytes of every file this package produces or accepts.
const magic uint32 = 0x4d52_4b31 // "MRK1" read as a big-endian word; stored little-endian, so the bytes on disk are "1KRM"

// Instance holds one MinRank problem: k matrices of shape nrow x ncol
// over GF(16), with target rank r.
type Instance struct {
	NRow, NCol int
	K, R       int
	// M[i] is coefficient matrix i, stored row-major, length NRow*NCol.
	M [][]gf16.Elem
}

// At returns element (row,col) of coefficient matrix i.
func (inst *Instance) At(i, row, col int) gf16.Elem {
	return inst.M[i][row*inst.NCol+col]
}

// LoadFile reads a MinRank instance from path.
func LoadFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(bufio.NewReader(f))
}

// Load reads a MinRank instance from r.
func Load(r io.Reader) (*Instance, error) {
	var header [5]uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("loader: reading header: %w", err)
	}
	if header[0] != magic {
		return nil, fmt.Errorf("loader: bad magic %#x, want %#x", header[0], magic)
	}
	nrow, ncol, k, rrank := int(header[1]), int(header[2]), int(header[3]), int(header[4])
	if nrow <= 0 || ncol <= 0 || k <= 0 || rrank <= 0 {
		return nil, fmt.Errorf("loader: invalid dimensions nrow=%d ncol=%d k=%d r=%d", nrow, ncol, k, rrank)
	}

	inst := &Instance{NRow: nrow, NCol: ncol, K: k, R: rrank, M: make([][]gf16.Elem, k)}
	packedLen := (nrow*ncol + 1) / 2
	packed := make([]byte, packedLen)
	for i := 0; i < k; i++ {
		if _, err := io.ReadFull(r, packed); err != nil {
			return nil, fmt.Errorf("loader: reading matrix %d: %w", i, err)
		}
		inst.M[i] = unpackNibbles(packed, nrow*ncol)
	}
	return inst, nil
}

// SaveFile writes inst to path, for tests and for round-tripping
// synthetic instances (e.g. --ks-rand's companion, or fixtures).
func SaveFile(path string, inst *Instance) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("loader: create %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := Save(w, inst); err != nil {
		return err
	}
	return w.Flush()
}

// Save writes inst to w.
func Save(w io.Writer, inst *Instance) error {
	header := [5]uint32{magic, uint32(inst.NRow), uint32(inst.NCol), uint32(inst.K), uint32(inst.R)}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("loader: writing header: %w", err)
	}
	for i, mat := range inst.M {
		if len(mat) != inst.NRow*inst.NCol {
			return fmt.Errorf("loader: matrix %d has %d entries, want %d", i, len(mat), inst.NRow*inst.NCol)
		}
		if _, err := w.Write(packNibbles(mat)); err != nil {
			return fmt.Errorf("loader: writing matrix %d: %w", i, err)
		}
	}
	return nil
}

func packNibbles(elems []gf16.Elem) []byte {
	out := make([]byte, (len(elems)+1)/2)
	for i, e := range elems {
		if i%2 == 0 {
			out[i/2] = byte(e)
		} else {
			out[i/2] |= byte(e) << 4
		}
	}
	return out
}

func unpackNibbles(packed []byte, n int) []gf16.Elem {
	out := make([]gf16.Elem, n)
	for i := 0; i < n; i++ {
		b := packed[i/2]
		if i%2 == 0 {
			out[i] = gf16.Elem(b & 0x0f)
		} else {
			out[i] = gf16.Elem(b >> 4)
		}
	}
	return out
}
