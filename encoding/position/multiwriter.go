// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package position

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// MultiOpts configures a MultiWriter.
type MultiOpts struct {
	// Prefix and Suffix surround the name to form a file path.
	Prefix, Suffix string
	Format         Format
	// Append, if set, appends to existing files instead of truncating them.
	Append bool
	// MaxOpen, if positive, bounds the number of files open at once. Past
	// the bound the least recently opened file is closed, and reopened in
	// append mode when it is needed again.
	MaxOpen int
}

// DefaultMaxOpen is a MaxOpen that stays well under common file descriptor
// limits.
const DefaultMaxOpen = 512

// MultiWriter routes records to one file per name, at
// Prefix + name + Suffix. Files are opened on first use.
type MultiWriter struct {
	ctx     context.Context
	opts    MultiOpts
	writers map[string]*Writer
	open    []string // names in writers, oldest first
	counts  map[string]int
	names   []string
}

// NewMultiWriter creates a MultiWriter. No file is opened until Get.
func NewMultiWriter(ctx context.Context, opts MultiOpts) *MultiWriter {
	return &MultiWriter{
		ctx:     ctx,
		opts:    opts,
		writers: map[string]*Writer{},
		counts:  map[string]int{},
	}
}

// Path returns the file path used for name.
func (m *MultiWriter) Path(name string) string {
	return m.opts.Prefix + name + m.opts.Suffix
}

func (m *MultiWriter) closeWriter(name string) error {
	w := m.writers[name]
	delete(m.writers, name)
	m.counts[name] += w.Count()
	return w.Close()
}

// Get returns the writer for name, opening its file if needed.
func (m *MultiWriter) Get(name string) (*Writer, error) {
	if w, ok := m.writers[name]; ok {
		return w, nil
	}
	if m.opts.MaxOpen > 0 && len(m.open) >= m.opts.MaxOpen {
		oldest := m.open[0]
		m.open = m.open[1:]
		if err := m.closeWriter(oldest); err != nil {
			return nil, err
		}
	}
	var (
		path    = m.Path(name)
		_, seen = m.counts[name]
		w       *Writer
		err     error
	)
	if m.opts.Append || seen {
		w, err = NewAppendWriter(path, m.opts.Format)
	} else {
		w, err = NewWriter(m.ctx, path, m.opts.Format)
	}
	if err != nil {
		return nil, err
	}
	if !seen {
		log.Debug.Printf("%s: opened for %v records", path, m.opts.Format)
		m.names = append(m.names, name)
		m.counts[name] = 0
	}
	m.writers[name] = w
	m.open = append(m.open, name)
	return w, nil
}

// Names returns the names used so far, in order of first use.
func (m *MultiWriter) Names() []string { return m.names }

// Count returns the number of records written under name.
func (m *MultiWriter) Count(name string) int {
	n := m.counts[name]
	if w, ok := m.writers[name]; ok {
		n += w.Count()
	}
	return n
}

// Close closes every open file and returns the first error.
func (m *MultiWriter) Close() error {
	e := errors.Once{}
	for _, name := range m.open {
		e.Set(m.closeWriter(name))
	}
	m.open = nil
	return e.Err()
}
