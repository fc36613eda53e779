// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package position

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Format identifies the record kind stored in a position file.
type Format int

const (
	// Plain files hold Position records.
	Plain Format = iota
	// Keyed files hold KeyedPosition records.
	Keyed
	// Compact files hold CompactPosition records.
	Compact
)

const (
	plainSize   = 7
	keyedSize   = 9 + plainSize
	compactSize = 5
)

// Valid returns an errors.Invalid error unless f is Plain, Keyed or Compact.
func (f Format) Valid() error {
	switch f {
	case Plain, Keyed, Compact:
		return nil
	}
	return errors.E(errors.Invalid, fmt.Sprintf("unknown position format %d", int(f)))
}

// RecordSize returns the number of bytes per record in a file of format f. It
// panics if f is not valid.
func (f Format) RecordSize() int {
	switch f {
	case Plain:
		return plainSize
	case Keyed:
		return keyedSize
	case Compact:
		return compactSize
	}
	panic(f)
}

func (f Format) String() string {
	switch f {
	case Plain:
		return "plain"
	case Keyed:
		return "keyed"
	case Compact:
		return "compact"
	}
	return "unknown"
}

// ParseFormat parses "plain", "keyed", "compact", or their one-letter forms
// "p", "k", "c".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "plain", "p":
		return Plain, nil
	case "keyed", "k":
		return Keyed, nil
	case "compact", "c":
		return Compact, nil
	}
	return 0, errors.E(errors.Invalid, fmt.Sprintf("unknown position format %q", s))
}
