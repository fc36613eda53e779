// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/foldgenomics/chromref"
	"github.com/grailbio/foldgenomics/encoding/fasta"
	"github.com/grailbio/foldgenomics/encoding/position"
	"github.com/grailbio/foldgenomics/fold"
	"github.com/grailbio/foldgenomics/nmer"
	"github.com/grailbio/foldgenomics/partition"
	"github.com/grailbio/foldgenomics/sorter"
)

func encode(opts nmer.Opts, fastaPath string) error {
	e, err := nmer.NewEncoder(opts)
	if err != nil {
		return err
	}
	stats, err := e.TransferFromFasta(vcontext.Background(), fastaPath)
	if err != nil {
		return err
	}
	log.Printf("%s: %v", fastaPath, stats)
	return nil
}

func indexFasta(fastaPath, faiPath string) (err error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, fastaPath)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, in, &err)
	out, err := file.Create(ctx, faiPath)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	if err = fasta.GenerateIndex(out.Writer(ctx), in.Reader(ctx)); err != nil {
		return errors.E(err, "index", fastaPath)
	}
	log.Printf("%s: wrote %s", fastaPath, faiPath)
	return nil
}

func foldFile(stdout io.Writer, strategyName, identity, output string, threshold int, inPath, outPath string) error {
	strategy, err := fold.ParseStrategy(strategyName)
	if err != nil {
		return err
	}
	opts := fold.Opts{Threshold: threshold}
	if opts.Identity, err = fold.ParseIdentity(identity); err != nil {
		return err
	}
	shape, err := position.ParseFormat(output)
	if err != nil {
		return err
	}
	stats, err := fold.File(vcontext.Background(), strategy, inPath, outPath, opts, shape)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, stats.String())
	return err
}

func printFile(stdout io.Writer, formatName, chromRefPath, inPath string) error {
	ctx := vcontext.Background()
	format, err := position.ParseFormat(formatName)
	if err != nil {
		return err
	}
	var chromName func(uint16) (string, error)
	if chromRefPath != "" {
		ref, err := chromref.Load(ctx, chromRefPath)
		if err != nil {
			return err
		}
		chromName = ref.Name
	}
	r, err := position.NewReader(ctx, inPath, format)
	if err != nil {
		return err
	}
	n, err := position.Print(stdout, r, chromName)
	if cerr := r.Close(); cerr != nil && err == nil {
		err = cerr
	}
	log.Printf("%s: %d entries read and printed", inPath, n)
	return err
}

func partitionFile(chromRefPath, outputPrefix, outputSuffix, inPath, formatName string) error {
	ctx := vcontext.Background()
	format, err := position.ParseFormat(formatName)
	if err != nil {
		return err
	}
	ref, err := chromref.Load(ctx, chromRefPath)
	if err != nil {
		return err
	}
	stats, err := partition.New(ref, outputPrefix, outputSuffix).Partition(ctx, inPath, format)
	if err != nil {
		return err
	}
	log.Printf("%s: partitioned into %d chromosomes", inPath, len(stats))
	return nil
}

func sortFile(inPath, formatName, outPath string, compact bool) error {
	format, err := position.ParseFormat(formatName)
	if err != nil {
		return err
	}
	sort := sorter.Sort
	if compact {
		sort = sorter.SortCompact
	}
	n, err := sort(vcontext.Background(), inPath, format, outPath)
	if err != nil {
		return err
	}
	log.Printf("%s: %d records sorted into %s", inPath, n, outPath)
	return nil
}
