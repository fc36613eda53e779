// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package sorter sorts position files by (chromosome, offset, strand).
//
// Sorting happens in memory: the whole input is loaded, so memory use is
// linear in the number of records.
package sorter

import (
	"context"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/foldgenomics/encoding/position"
)

// load reads every record of inPath as a Position.
func load(ctx context.Context, inPath string, inFormat position.Format) (recs []position.Position, err error) {
	r, err := position.NewReader(ctx, inPath, inFormat)
	if err != nil {
		return nil, err
	}
	recs = make([]position.Position, 0, r.Pending())
	for r.Scan() {
		recs = append(recs, r.Plain())
	}
	if err := r.Close(); err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Compare(recs[j]) < 0 })
	log.Debug.Printf("%s: sorted %d records", inPath, len(recs))
	return recs, nil
}

// Sort reads inPath, whose records may be of any format, and writes them
// sorted to outPath as Plain records.
func Sort(ctx context.Context, inPath string, inFormat position.Format, outPath string) (n int, err error) {
	recs, err := load(ctx, inPath, inFormat)
	if err != nil {
		return 0, err
	}
	w, err := position.NewWriter(ctx, outPath, position.Plain)
	if err != nil {
		return 0, err
	}
	for _, p := range recs {
		if err = w.WritePlain(p); err != nil {
			break
		}
	}
	if cerr := w.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return w.Count(), err
}

// SortCompact is Sort, except that the output holds Compact records. It
// fails with a *position.RangeError if a record does not fit the compact
// encoding; the output is then incomplete.
func SortCompact(ctx context.Context, inPath string, inFormat position.Format, outPath string) (n int, err error) {
	recs, err := load(ctx, inPath, inFormat)
	if err != nil {
		return 0, err
	}
	w, err := position.NewWriter(ctx, outPath, position.Compact)
	if err != nil {
		return 0, err
	}
	for _, p := range recs {
		var c position.CompactPosition
		if c, err = p.Compact(); err != nil {
			err = errors.E(err, "sort", inPath, p.String())
			break
		}
		if err = w.WriteCompact(c); err != nil {
			break
		}
	}
	if cerr := w.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return w.Count(), err
}
