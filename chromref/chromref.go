// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package chromref maps chromosome names to the 16-bit indices stored in
// position files.
//
// A table is saved as a TSV file with one line per chromosome:
//
//	#NAME	INDEX	LENGTH
//	chr1	0	248956422
//	chr2	1	242193529
//
// A samtools FASTA index (*.fai) can be loaded in place of a table; the
// chromosome index is then the line number, starting at 0.
package chromref

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/foldgenomics/encoding/fasta"
	"github.com/grailbio/foldgenomics/encoding/position"
)

// MaxChroms is the number of chromosomes a table can hold.
const MaxChroms = 1 << 16

// Table is an ordered list of chromosome names.
type Table struct {
	names   []string
	lengths []uint64
	index   map[string]uint16
}

type tableRow struct {
	Name   string `tsv:"#NAME"`
	Index  int64  `tsv:"INDEX"`
	Length int64  `tsv:"LENGTH"`
}

// New creates an empty table.
func New() *Table {
	return &Table{index: map[string]uint16{}}
}

// Add returns the index of name, appending it to the table if needed. A
// nonzero length replaces the recorded length.
func (t *Table) Add(name string, length uint64) (uint16, error) {
	if i, ok := t.index[name]; ok {
		if length != 0 {
			t.lengths[i] = length
		}
		return i, nil
	}
	if len(t.names) >= MaxChroms {
		return 0, &position.RangeError{Field: "chromosome count", Value: uint64(len(t.names) + 1), Max: MaxChroms}
	}
	i := uint16(len(t.names))
	t.index[name] = i
	t.names = append(t.names, name)
	t.lengths = append(t.lengths, length)
	return i, nil
}

// Index looks up the index of name.
func (t *Table) Index(name string) (uint16, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Name returns the name of the i'th chromosome.
func (t *Table) Name(i uint16) (string, error) {
	if int(i) >= len(t.names) {
		return "", errors.E(errors.NotExist, fmt.Sprintf("chromosome index %d not in table of %d", i, len(t.names)))
	}
	return t.names[i], nil
}

// Length returns the recorded length of the i'th chromosome, 0 if unknown.
func (t *Table) Length(i uint16) uint64 {
	if int(i) >= len(t.lengths) {
		return 0
	}
	return t.lengths[i]
}

// Len returns the number of chromosomes.
func (t *Table) Len() int { return len(t.names) }

// Names returns the chromosome names in index order.
func (t *Table) Names() []string { return t.names }

// Read parses a table in TSV form.
func Read(r io.Reader) (*Table, error) {
	t := New()
	in := tsv.NewReader(r)
	in.Comment = '#'
	for {
		var row tableRow
		if err := in.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if row.Index != int64(t.Len()) {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("chromosome %s: index %d, expected %d", row.Name, row.Index, t.Len()))
		}
		if _, ok := t.index[row.Name]; ok {
			return nil, errors.E(errors.Invalid, "duplicate chromosome", row.Name)
		}
		if _, err := t.Add(row.Name, uint64(row.Length)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ReadFai parses a samtools FASTA index. Sequences are numbered in the
// order they appear in the indexed FASTA file.
func ReadFai(r io.Reader) (*Table, error) {
	entries, err := fasta.ReadIndex(r)
	if err != nil {
		return nil, err
	}
	t := New()
	for _, ent := range entries {
		if _, err := t.Add(ent.Name, ent.Length); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Write writes t in TSV form.
func (t *Table) Write(w io.Writer) error {
	out := tsv.NewWriter(w)
	out.WriteString("#NAME\tINDEX\tLENGTH")
	if err := out.EndLine(); err != nil {
		return err
	}
	for i, name := range t.names {
		out.WriteString(name)
		out.WriteInt64(int64(i))
		out.WriteInt64(int64(t.lengths[i]))
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}

// Load reads a table from path. Paths ending in ".fai" are read as FASTA
// indexes.
func Load(ctx context.Context, path string) (t *Table, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, &position.FileOpenError{Path: path, Err: err}
	}
	defer file.CloseAndReport(ctx, in, &err)
	if strings.HasSuffix(path, ".fai") {
		t, err = ReadFai(in.Reader(ctx))
	} else {
		t, err = Read(in.Reader(ctx))
	}
	if err != nil {
		return nil, errors.E(err, "read chromosome table", path)
	}
	return t, nil
}

// LoadOrNew is Load, except that it returns an empty table if path does not
// exist.
func LoadOrNew(ctx context.Context, path string) (*Table, error) {
	if _, err := file.Stat(ctx, path); err != nil {
		if errors.Is(errors.NotExist, err) {
			return New(), nil
		}
		return nil, &position.FileOpenError{Path: path, Err: err}
	}
	return Load(ctx, path)
}

// Save writes t to path.
func (t *Table) Save(ctx context.Context, path string) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return &position.FileOpenError{Path: path, Err: err}
	}
	defer file.CloseAndReport(ctx, out, &err)
	return t.Write(out.Writer(ctx))
}
