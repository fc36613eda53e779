// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package position

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

const readBufSize = 1 << 20

// Reader reads a position file sequentially. Typical use:
//
//	r, err := position.NewReader(ctx, path, position.Keyed)
//	...
//	for r.Scan() {
//	  kp := r.Keyed()
//	  ...
//	}
//	err = r.Close()
type Reader struct {
	ctx     context.Context
	path    string
	format  Format
	in      file.File
	r       *bufio.Reader
	buf     []byte
	pending int
	err     errors.Once

	keyed   KeyedPosition
	plain   Position
	compact CompactPosition
}

// NewReader opens path as a file of the given format. It fails with a
// *FileOpenError if the file is missing, unreadable, or its size is not a
// multiple of the record size, and with errors.Invalid if format is unknown.
func NewReader(ctx context.Context, path string, format Format) (*Reader, error) {
	if err := format.Valid(); err != nil {
		return nil, err
	}
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, &FileOpenError{Path: path, Err: err}
	}
	info, err := in.Stat(ctx)
	if err != nil {
		in.Close(ctx) // nolint: errcheck
		return nil, &FileOpenError{Path: path, Err: err}
	}
	recSize := int64(format.RecordSize())
	if info.Size()%recSize != 0 {
		in.Close(ctx) // nolint: errcheck
		return nil, &FileOpenError{Path: path,
			Err: fmt.Errorf("size %d is not a multiple of the %v record size %d (truncated?)", info.Size(), format, recSize)}
	}
	return &Reader{
		ctx:     ctx,
		path:    path,
		format:  format,
		in:      in,
		r:       bufio.NewReaderSize(in.Reader(ctx), readBufSize),
		buf:     make([]byte, recSize),
		pending: int(info.Size() / recSize),
	}, nil
}

// Format returns the format the file was opened with.
func (r *Reader) Format() Format { return r.format }

// Path returns the file path.
func (r *Reader) Path() string { return r.path }

// Pending returns the number of records that remain to be read.
func (r *Reader) Pending() int { return r.pending }

// Scan reads the next record. It returns false at the end of the file or on
// error. Err distinguishes the two.
func (r *Reader) Scan() bool {
	if r.pending == 0 || r.err.Err() != nil {
		return false
	}
	if _, err := io.ReadFull(r.r, r.buf); err != nil {
		r.err.Set(errors.E(err, fmt.Sprintf("read %s: %d records pending", r.path, r.pending)))
		return false
	}
	var err error
	switch r.format {
	case Keyed:
		r.keyed, err = DecodeKeyed(r.buf)
		r.plain = r.keyed.Position
	case Plain:
		r.plain, err = DecodePlain(r.buf)
	case Compact:
		r.compact, err = DecodeCompact(r.buf)
		r.plain = r.compact.Position()
	}
	if err != nil {
		r.err.Set(errors.E(err, fmt.Sprintf("decode %s", r.path)))
		return false
	}
	r.pending--
	return true
}

func (r *Reader) mismatch(got Format) {
	r.err.Set(&FormatMismatchError{Want: r.format, Got: got})
}

// Keyed returns the last record read. The file must be Keyed.
func (r *Reader) Keyed() KeyedPosition {
	if r.format != Keyed {
		r.mismatch(Keyed)
		return KeyedPosition{}
	}
	return r.keyed
}

// Plain returns the last record read as a Position. Keyed records lose their
// key; Compact records are expanded.
func (r *Reader) Plain() Position { return r.plain }

// Compact returns the last record read. The file must be Compact.
func (r *Reader) Compact() CompactPosition {
	if r.format != Compact {
		r.mismatch(Compact)
		return 0
	}
	return r.compact
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error { return r.err.Err() }

// Close closes the file and returns Err() or the close error.
func (r *Reader) Close() error {
	if err := r.in.Close(r.ctx); err != nil {
		r.err.Set(err)
	}
	return r.err.Err()
}
