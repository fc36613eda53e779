// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fasta

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
)

// File is a Scanner over a FASTA file. Paths ending in ".gz" are
// decompressed on the fly.
type File struct {
	*Scanner
	ctx context.Context
	in  file.File
	gz  *gzip.Reader
}

// Open opens a FASTA file for scanning. The path may be anything
// github.com/grailbio/base/file has an implementation registered for.
func Open(ctx context.Context, path string) (*File, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open FASTA", path)
	}
	f := &File{ctx: ctx, in: in}
	var r io.Reader = in.Reader(ctx)
	if strings.HasSuffix(path, ".gz") {
		if f.gz, err = gzip.NewReader(r); err != nil {
			in.Close(ctx) // nolint: errcheck
			return nil, errors.E(err, "open FASTA: gzip header", path)
		}
		r = f.gz
	}
	f.Scanner = NewScanner(r)
	return f, nil
}

// Close closes the underlying file.
func (f *File) Close() error {
	err := errors.Once{}
	if f.gz != nil {
		err.Set(f.gz.Close())
	}
	err.Set(f.in.Close(f.ctx))
	return err.Err()
}
