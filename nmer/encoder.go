// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package nmer slides a fixed-length window over every sequence of a FASTA
// file and bins the window positions by the window prefix.
//
// For each window the encoder emits a position.KeyedPosition whose key is the
// first PrefixLength bases of the window, and appends it to the file
// OutputPrefix + key + OutputSuffix. Binning keeps each file small enough to
// be folded in memory.
package nmer

import (
	"context"
	"fmt"
	"math"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/foldgenomics/chromref"
	"github.com/grailbio/foldgenomics/encoding/fasta"
	"github.com/grailbio/foldgenomics/encoding/position"
)

// Opts configures an Encoder.
type Opts struct {
	// OutputPrefix and OutputSuffix surround the key to form the bin file path.
	OutputPrefix string
	OutputSuffix string
	// PrefixLength is the number of leading window bases that form the key.
	PrefixLength int
	// ReadLength is the window length.
	ReadLength int
	// KeyFilter, if nonempty, restricts output to windows with this key.
	KeyFilter string
	// ReverseComplement also emits the reverse complement of every window,
	// with position.Reverse strand.
	ReverseComplement bool
	// ChromRefPath is the chromosome table. Existing entries are reused and
	// new sequence names are appended. Empty means sequences are numbered
	// from 0 in order of appearance and no table is saved.
	ChromRefPath string
}

// DefaultOpts are the default values of Opts.
var DefaultOpts = Opts{
	OutputSuffix: ".bin",
	PrefixLength: 6,
	ReadLength:   36,
}

// Stats summarizes one Transfer.
type Stats struct {
	Entries int // sequences read
	Windows int // windows examined
	Emitted int // records written
	Bins    int // bin files touched
	// Malformed is set if reading stopped at a malformed entry.
	Malformed bool
}

func (s Stats) String() string {
	return fmt.Sprintf("%d sequences, %d windows, %d records in %d bins (malformed=%v)",
		s.Entries, s.Windows, s.Emitted, s.Bins, s.Malformed)
}

// Encoder writes binned window positions.
type Encoder struct {
	opts Opts
}

// NewEncoder validates opts and creates an Encoder.
func NewEncoder(opts Opts) (*Encoder, error) {
	if opts.PrefixLength <= 0 || opts.PrefixLength > opts.ReadLength {
		return nil, errors.E(errors.Invalid,
			fmt.Sprintf("prefix length %d must be in [1, read length %d]", opts.PrefixLength, opts.ReadLength))
	}
	if opts.PrefixLength > position.MaxKeyLength {
		return nil, &position.RangeError{Field: "prefix length", Value: uint64(opts.PrefixLength), Max: position.MaxKeyLength}
	}
	if opts.KeyFilter != "" && len(opts.KeyFilter) != opts.PrefixLength {
		return nil, errors.E(errors.Invalid,
			fmt.Sprintf("key filter %q must be %d bases long", opts.KeyFilter, opts.PrefixLength))
	}
	return &Encoder{opts: opts}, nil
}

// TransferFromFasta encodes every window of the FASTA file at path. The
// chromosome table at opts.ChromRefPath, if any, is loaded first and saved
// afterwards.
//
// A malformed FASTA entry stops the transfer but is not an error: the bins
// written so far are kept and Stats.Malformed is set.
func (e *Encoder) TransferFromFasta(ctx context.Context, path string) (stats Stats, err error) {
	ref := chromref.New()
	if e.opts.ChromRefPath != "" {
		if ref, err = chromref.LoadOrNew(ctx, e.opts.ChromRefPath); err != nil {
			return stats, err
		}
	}
	in, err := fasta.Open(ctx, path)
	if err != nil {
		return stats, &position.FileOpenError{Path: path, Err: err}
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if stats, err = e.Transfer(ctx, in.Scanner, ref); err != nil {
		return stats, err
	}
	if e.opts.ChromRefPath != "" {
		err = ref.Save(ctx, e.opts.ChromRefPath)
	}
	return stats, err
}

// Transfer encodes every entry of sc. Sequence names are resolved to
// chromosome indices through ref.
func (e *Encoder) Transfer(ctx context.Context, sc *fasta.Scanner, ref *chromref.Table) (stats Stats, err error) {
	bins := position.NewMultiWriter(ctx, position.MultiOpts{
		Prefix:  e.opts.OutputPrefix,
		Suffix:  e.opts.OutputSuffix,
		Format:  position.Keyed,
		Append:  true,
		MaxOpen: position.DefaultMaxOpen,
	})
	defer func() {
		stats.Bins = len(bins.Names())
		if cerr := bins.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var rc []byte
	for {
		switch sc.Scan() {
		case fasta.EOF:
			return stats, nil
		case fasta.Malformed:
			log.Error.Printf("stopped reading sequences after %d entries: %v", stats.Entries, sc.Err())
			stats.Malformed = true
			return stats, nil
		}
		entry := sc.Entry()
		stats.Entries++
		if uint64(len(entry.Seq)) > math.MaxUint32 {
			return stats, &position.RangeError{Field: entry.Name + " length", Value: uint64(len(entry.Seq)), Max: math.MaxUint32}
		}
		chrom, err := ref.Add(entry.Name, uint64(len(entry.Seq)))
		if err != nil {
			return stats, err
		}
		log.Debug.Printf("%s: chrom %d, %d bases", entry.Name, chrom, len(entry.Seq))
		if e.opts.ReverseComplement {
			rc = reverseComplement(rc[:0], entry.Seq)
		}
		w := e.opts.ReadLength
		for off := 0; off+w <= len(entry.Seq); off++ {
			stats.Windows++
			p := position.Position{Chrom: chrom, Offset: uint32(off), Strand: position.Forward}
			if err := e.emit(bins, entry.Seq[off:off+w], p, &stats); err != nil {
				return stats, err
			}
			if e.opts.ReverseComplement {
				// The reverse complement of seq[off:off+w] is rc[n-off-w:n-off].
				n := len(rc)
				p.Strand = position.Reverse
				if err := e.emit(bins, string(rc[n-off-w:n-off]), p, &stats); err != nil {
					return stats, err
				}
			}
		}
	}
}

func (e *Encoder) emit(bins *position.MultiWriter, window string, p position.Position, stats *Stats) error {
	key := window[:e.opts.PrefixLength]
	if e.opts.KeyFilter != "" && key != e.opts.KeyFilter {
		return nil
	}
	bin, err := bins.Get(key)
	if err != nil {
		return err
	}
	if err := bin.WriteKeyed(position.KeyedPosition{Key: key, Position: p}); err != nil {
		return err
	}
	stats.Emitted++
	return nil
}
