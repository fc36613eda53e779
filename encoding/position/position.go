// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package position

import (
	"fmt"
	"strings"
)

// Strand is the orientation of a window relative to the reference.
type Strand uint8

const (
	// Forward means the window was read off the reference as is.
	Forward Strand = 0
	// Reverse means the window is the reverse complement of the reference.
	Reverse Strand = 1
)

// String returns "+" or "-".
func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// Position is a location on the reference: a chromosome index, a 0-based
// offset and a strand.
type Position struct {
	Chrom  uint16
	Offset uint32
	Strand Strand
}

// Compare returns -1, 0, 1 if p < o, p == o, p > o, respectively. The order is
// (Chrom, Offset, Strand).
func (p Position) Compare(o Position) int {
	switch {
	case p.Chrom < o.Chrom:
		return -1
	case p.Chrom > o.Chrom:
		return 1
	case p.Offset < o.Offset:
		return -1
	case p.Offset > o.Offset:
		return 1
	case p.Strand < o.Strand:
		return -1
	case p.Strand > o.Strand:
		return 1
	}
	return 0
}

// Compact packs p into a CompactPosition. It fails with a *RangeError if the
// chromosome index or the offset does not fit the packed field widths.
func (p Position) Compact() (CompactPosition, error) {
	if p.Chrom > MaxCompactChrom {
		return 0, &RangeError{Field: "compact chrom", Value: uint64(p.Chrom), Max: MaxCompactChrom}
	}
	if p.Offset > MaxCompactOffset {
		return 0, &RangeError{Field: "compact offset", Value: uint64(p.Offset), Max: MaxCompactOffset}
	}
	if p.Strand > Reverse {
		return 0, &RangeError{Field: "strand", Value: uint64(p.Strand), Max: uint64(Reverse)}
	}
	return CompactPosition(uint64(p.Chrom)<<32 | uint64(p.Offset)<<1 | uint64(p.Strand)), nil
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d,%v)", p.Chrom, p.Offset, p.Strand)
}

// KeyedPosition is a Position tagged with the binning key of its window.
type KeyedPosition struct {
	Key string
	Position
}

// Compare returns -1, 0, 1 if k < o, k == o, k > o, respectively. The order is
// (Key, Chrom, Offset, Strand). Two KeyedPositions describe the same
// occurrence iff Compare returns 0.
func (k KeyedPosition) Compare(o KeyedPosition) int {
	if c := strings.Compare(k.Key, o.Key); c != 0 {
		return c
	}
	return k.Position.Compare(o.Position)
}

// Plain drops the key.
func (k KeyedPosition) Plain() Position { return k.Position }

func (k KeyedPosition) String() string {
	return fmt.Sprintf("(%s,%d,%d,%v)", k.Key, k.Chrom, k.Offset, k.Strand)
}

const (
	// MaxCompactChrom is the largest chromosome index a CompactPosition holds.
	MaxCompactChrom = 1<<8 - 1
	// MaxCompactOffset is the largest offset a CompactPosition holds.
	MaxCompactOffset = 1<<31 - 1
)

// CompactPosition is a Position packed into 40 bits.
type CompactPosition uint64

// Position expands c.
func (c CompactPosition) Position() Position {
	return Position{
		Chrom:  uint16(c >> 32 & MaxCompactChrom),
		Offset: uint32(c >> 1 & MaxCompactOffset),
		Strand: Strand(c & 1),
	}
}

// Compare returns -1, 0, 1 if c < o, c == o, c > o, respectively.
func (c CompactPosition) Compare(o CompactPosition) int {
	switch {
	case c < o:
		return -1
	case c > o:
		return 1
	}
	return 0
}

func (c CompactPosition) String() string { return c.Position().String() }
