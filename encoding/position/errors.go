// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package position

import "fmt"

// RangeError is returned when a field value does not fit its fixed-width
// representation. Values are never truncated.
type RangeError struct {
	Field string
	Value uint64
	Max   uint64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %d out of range (max %d)", e.Field, e.Value, e.Max)
}

// FormatMismatchError is returned when records are accessed or written under
// a format other than the one the file was opened with.
type FormatMismatchError struct {
	Want, Got Format
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("format mismatch: file is %v, accessed as %v", e.Want, e.Got)
}

// FileOpenError is returned when an input is missing or unreadable, or an
// output cannot be created.
type FileOpenError struct {
	Path string
	Err  error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}
