// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package partition splits a position file into one Plain file per
// chromosome.
package partition

import (
	"context"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/foldgenomics/chromref"
	"github.com/grailbio/foldgenomics/encoding/position"
)

// Partitioner routes each record to OutputPrefix + chromosome name +
// OutputSuffix.
type Partitioner struct {
	ref            *chromref.Table
	prefix, suffix string
}

// Stats maps chromosome names to the number of records written for them.
type Stats map[string]int

// Names returns the chromosome names in Stats, sorted.
func (s Stats) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a Partitioner. ref names the chromosome indices found in the
// input.
func New(ref *chromref.Table, outputPrefix, outputSuffix string) *Partitioner {
	return &Partitioner{ref: ref, prefix: outputPrefix, suffix: outputSuffix}
}

// Partition reads inPath as a file of the given format and appends every
// record, as a Position, to the file of its chromosome. Output files are
// truncated when first opened. A chromosome index missing from the table
// fails the call.
func (p *Partitioner) Partition(ctx context.Context, inPath string, format position.Format) (stats Stats, err error) {
	r, err := position.NewReader(ctx, inPath, format)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	out := position.NewMultiWriter(ctx, position.MultiOpts{
		Prefix:  p.prefix,
		Suffix:  p.suffix,
		Format:  position.Plain,
		MaxOpen: position.DefaultMaxOpen,
	})
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	stats = Stats{}
	for r.Scan() {
		rec := r.Plain()
		name, err := p.ref.Name(rec.Chrom)
		if err != nil {
			return stats, errors.E(err, inPath, rec.String())
		}
		w, err := out.Get(name)
		if err != nil {
			return stats, err
		}
		if err := w.WritePlain(rec); err != nil {
			return stats, err
		}
		stats[name]++
	}
	for _, name := range out.Names() {
		log.Printf("%s: %d records", out.Path(name), out.Count(name))
	}
	return stats, nil
}
