// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package position

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

const writeBufSize = 1 << 16

// Writer writes records of a single format to a file.
type Writer struct {
	path   string
	format Format
	w      *bufio.Writer
	close  func() error
	buf    []byte
	n      int
	err    errors.Once
}

// NewWriter creates (or truncates) path.
func NewWriter(ctx context.Context, path string, format Format) (*Writer, error) {
	if err := format.Valid(); err != nil {
		return nil, err
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, &FileOpenError{Path: path, Err: err}
	}
	return newWriter(path, format, out.Writer(ctx), func() error { return out.Close(ctx) }), nil
}

// NewAppendWriter opens path for appending, creating it if needed. Appending
// is only supported on the local filesystem.
func NewAppendWriter(path string, format Format) (*Writer, error) {
	if err := format.Valid(); err != nil {
		return nil, err
	}
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, &FileOpenError{Path: path, Err: err}
	}
	return newWriter(path, format, out, out.Close), nil
}

func newWriter(path string, format Format, w io.Writer, close func() error) *Writer {
	return &Writer{
		path:   path,
		format: format,
		w:      bufio.NewWriterSize(w, writeBufSize),
		close:  close,
		buf:    make([]byte, 0, format.RecordSize()),
	}
}

// Path returns the file path.
func (w *Writer) Path() string { return w.path }

// Count returns the number of records written so far.
func (w *Writer) Count() int { return w.n }

func (w *Writer) check(f Format) error {
	if err := w.err.Err(); err != nil {
		return err
	}
	if w.format != f {
		return &FormatMismatchError{Want: w.format, Got: f}
	}
	return nil
}

func (w *Writer) flushRecord(buf []byte, err error) error {
	if err != nil {
		return err
	}
	w.buf = buf[:0]
	if _, err := w.w.Write(buf); err != nil {
		w.err.Set(errors.E(err, "write", w.path))
		return w.err.Err()
	}
	w.n++
	return nil
}

// WriteKeyed appends k. The file must be Keyed.
func (w *Writer) WriteKeyed(k KeyedPosition) error {
	if err := w.check(Keyed); err != nil {
		return err
	}
	return w.flushRecord(AppendKeyed(w.buf[:0], k))
}

// WritePlain appends p. The file must be Plain.
func (w *Writer) WritePlain(p Position) error {
	if err := w.check(Plain); err != nil {
		return err
	}
	return w.flushRecord(AppendPlain(w.buf[:0], p))
}

// WriteCompact appends c. The file must be Compact.
func (w *Writer) WriteCompact(c CompactPosition) error {
	if err := w.check(Compact); err != nil {
		return err
	}
	return w.flushRecord(AppendCompact(w.buf[:0], c))
}

// Close flushes buffered records and closes the file.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		w.err.Set(errors.E(err, "flush", w.path))
	}
	if err := w.close(); err != nil {
		w.err.Set(errors.E(err, "close", w.path))
	}
	return w.err.Err()
}
