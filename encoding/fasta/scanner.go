// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Status is the result of Scanner.Scan.
type Status int

const (
	// OK means an entry was read.
	OK Status = iota
	// EOF means the input is exhausted.
	EOF
	// Malformed means the input could not be parsed, or could not be read.
	// Scanner.Err reports why. The scanner stays in this state.
	Malformed
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case EOF:
		return "eof"
	}
	return "malformed"
}

// MalformedError reports a FASTA record that does not start with '>'.
type MalformedError struct {
	// Line is the 1-based line number of the offending line.
	Line int
	Text string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed FASTA at line %d: expected '>', got %q", e.Line, e.Text)
}

// Entry is one named sequence. Seq is normalized: bases are upper case and
// anything other than ACGT is 'N'.
type Entry struct {
	Name string
	Seq  string
}

// Scanner reads FASTA entries one at a time, without holding more than one
// sequence in memory. Typical use:
//
//	sc := fasta.NewScanner(r)
//	for sc.Scan() == fasta.OK {
//	  e := sc.Entry()
//	  ...
//	}
//	if err := sc.Err(); err != nil { ... }
type Scanner struct {
	r      *bufio.Reader
	line   int
	status Status
	err    error
	next   string // name from a header line consumed by the previous Scan.
	// nextErr is a bad header line consumed by the previous Scan. It is
	// reported by the following Scan.
	nextErr error
	entry   Entry
	seq     bytes.Buffer
}

// NewScanner creates a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReaderSize(r, 1<<20)}
}

// readLine returns the next line without its terminator, or io.EOF.
func (s *Scanner) readLine() ([]byte, error) {
	line, err := s.r.ReadBytes('\n')
	if err == io.EOF && len(line) > 0 {
		err = nil
	}
	if err != nil {
		return nil, err
	}
	s.line++
	return bytes.TrimRight(line, "\r\n"), nil
}

func (s *Scanner) fail(err error) Status {
	s.status, s.err = Malformed, err
	return s.status
}

// headerName extracts the sequence name from a '>' line: the characters up to
// the first whitespace.
func headerName(line []byte) string {
	fields := bytes.Fields(line[1:])
	if len(fields) == 0 {
		return ""
	}
	return string(fields[0])
}

// Scan reads the next entry. Once it returns EOF or Malformed, it keeps
// returning the same value.
func (s *Scanner) Scan() Status {
	if s.status != OK {
		return s.status
	}
	if s.nextErr != nil {
		return s.fail(s.nextErr)
	}
	name := s.next
	s.next = ""
	for name == "" {
		line, err := s.readLine()
		if err == io.EOF {
			s.status = EOF
			return s.status
		}
		if err != nil {
			return s.fail(err)
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if line[0] != '>' {
			return s.fail(&MalformedError{Line: s.line, Text: string(line)})
		}
		if name = headerName(line); name == "" {
			return s.fail(&MalformedError{Line: s.line, Text: string(line)})
		}
	}

	s.seq.Reset()
	for {
		line, err := s.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return s.fail(err)
		}
		if len(line) > 0 && line[0] == '>' {
			if s.next = headerName(line); s.next == "" {
				s.nextErr = &MalformedError{Line: s.line, Text: string(line)}
			}
			break
		}
		appendNormalized(&s.seq, line)
	}
	s.entry = Entry{Name: name, Seq: s.seq.String()}
	return OK
}

// Entry returns the entry read by the last successful Scan.
func (s *Scanner) Entry() Entry { return s.entry }

// Err returns the reason for a Malformed status, or nil.
func (s *Scanner) Err() error { return s.err }
