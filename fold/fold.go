// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package fold removes redundant window positions. Folding counts how many
// times each distinct record occurs in a Keyed position file and keeps one
// record for every value that occurs at most Threshold times. Values that
// occur more often are dropped entirely.
//
// Two strategies are provided. MapStrategy counts in an ordered tree;
// SortStrategy loads the whole file into an array, sorts it, and counts runs.
// Both produce the same records in the same order.
package fold

import (
	"context"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/foldgenomics/encoding/position"
)

// Identity defines when two records are occurrences of the same value.
type Identity int

const (
	// ByRecord treats records as equal iff key, chromosome, offset and strand
	// all match.
	ByRecord Identity = iota
	// ByKey treats records as equal iff their keys match. The record with the
	// smallest position represents the group in the output. Use this with
	// keys as long as the window to find windows whose sequence is unique.
	ByKey
)

func (id Identity) String() string {
	if id == ByKey {
		return "key"
	}
	return "record"
}

// ParseIdentity parses "record" or "key".
func ParseIdentity(s string) (Identity, error) {
	switch s {
	case "record":
		return ByRecord, nil
	case "key":
		return ByKey, nil
	}
	return 0, errors.E(errors.Invalid, fmt.Sprintf("unknown fold identity %q, must be record or key", s))
}

func (id Identity) compare(a, b position.KeyedPosition) int {
	if id == ByKey {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		}
		return 0
	}
	return a.Compare(b)
}

// Opts configures a fold.
type Opts struct {
	// Threshold is the largest occurrence count a value may have to be kept.
	Threshold int
	Identity  Identity
}

// DefaultOpts are the default values of Opts.
var DefaultOpts = Opts{Threshold: 1, Identity: ByRecord}

// PipelineOpts are the Opts the foldgenomics command folds bins with: a
// window survives iff no other window in its bin shares its key.
var PipelineOpts = Opts{Threshold: 1, Identity: ByKey}

// Stats summarizes a fold.
type Stats struct {
	Read      int // records read
	Folded    int // records emitted
	Threshold int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d folded to %d with at most %d occurrence(s)", s.Read, s.Folded, s.Threshold)
}

// Strategy folds the records of r, calling emit for each kept record in
// ascending order.
type Strategy interface {
	Fold(r *position.Reader, opts Opts, emit func(position.KeyedPosition) error) (Stats, error)
}

// ParseStrategy returns the strategy named "map", "sort" or "hash".
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "map":
		return MapStrategy{}, nil
	case "sort":
		return SortStrategy{}, nil
	case "hash":
		return HashStrategy{}, nil
	}
	return nil, errors.E(errors.Invalid, fmt.Sprintf("unknown fold strategy %q, must be map, sort or hash", name))
}

func checkOpts(r *position.Reader, opts Opts) error {
	if r.Format() != position.Keyed {
		return &position.FormatMismatchError{Want: r.Format(), Got: position.Keyed}
	}
	if opts.Threshold < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("negative fold threshold %d", opts.Threshold))
	}
	return nil
}

// File folds the Keyed file inPath into outPath. The output holds Keyed
// records, or Plain records if shape is position.Plain. Errors from the
// strategy and the position package are returned as is, so typed errors such
// as *position.FormatMismatchError can be matched directly.
func File(ctx context.Context, s Strategy, inPath, outPath string, opts Opts, shape position.Format) (stats Stats, err error) {
	if shape != position.Keyed && shape != position.Plain {
		return stats, errors.E(errors.Invalid, fmt.Sprintf("fold output must be keyed or plain, not %v", shape))
	}
	r, err := position.NewReader(ctx, inPath, position.Keyed)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	w, err := position.NewWriter(ctx, outPath, shape)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	emit := w.WriteKeyed
	if shape == position.Plain {
		emit = func(k position.KeyedPosition) error { return w.WritePlain(k.Plain()) }
	}
	if stats, err = s.Fold(r, opts, emit); err != nil {
		return stats, err
	}
	log.Printf("%s: %d records read, %d after fold", inPath, stats.Read, stats.Folded)
	return stats, nil
}
