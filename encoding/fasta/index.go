// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
)

// Index files consist of one tab-separated line per sequence in the associated
// FASTA file.  The format is: "<sequence name>\t<length>\t<byte
// offset>\t<bases per line>\t<bytes per line>".
// For example: "chr3\t12345\t9000\t80\t81".
//
// See http://www.htslib.org/doc/faidx.html.
var indexRegExp = regexp.MustCompile(`^(\S+)\t(\d+)\t(\d+)\t(\d+)\t(\d+)$`)

// IndexEntry is one line of a FASTA index.
type IndexEntry struct {
	Name string
	// Length is the number of bases in the sequence.
	Length uint64
	// Offset is the byte offset of the first base in the FASTA file.
	Offset    uint64
	LineBases uint64
	LineWidth uint64
}

// ReadIndex parses a FASTA index (*.fai). Entries are returned in the order
// their sequences appear in the FASTA file.
func ReadIndex(r io.Reader) ([]IndexEntry, error) {
	var (
		entries []IndexEntry
		seen    = map[string]bool{}
		sc      = bufio.NewScanner(r)
		lineno  int
	)
	for sc.Scan() {
		lineno++
		if len(bytes.TrimSpace(sc.Bytes())) == 0 {
			continue
		}
		m := indexRegExp.FindStringSubmatch(sc.Text())
		if len(m) != 6 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("invalid index line %d: %q", lineno, sc.Text()))
		}
		if seen[m[1]] {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("index line %d: duplicate sequence %s", lineno, m[1]))
		}
		seen[m[1]] = true
		ent := IndexEntry{Name: m[1]}
		for i, field := range []*uint64{&ent.Length, &ent.Offset, &ent.LineBases, &ent.LineWidth} {
			v, err := strconv.ParseUint(m[i+2], 10, 64)
			if err != nil {
				return nil, errors.E(errors.Invalid, err, fmt.Sprintf("index line %d", lineno))
			}
			*field = v
		}
		entries = append(entries, ent)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.E(err, "read FASTA index")
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Offset < entries[j].Offset })
	return entries, nil
}

// GenerateIndex writes the index (*.fai) of the FASTA data in to out, in the
// format of "samtools faidx".
func GenerateIndex(out io.Writer, in io.Reader) (err error) {
	var (
		w        = tsv.NewWriter(out)
		r        = bufio.NewReader(in)
		cur      *IndexEntry
		cumBytes uint64
		lineno   int
	)
	flush := func() error {
		if cur == nil {
			return nil
		}
		w.WriteString(cur.Name)
		w.WriteInt64(int64(cur.Length))
		w.WriteInt64(int64(cur.Offset))
		w.WriteInt64(int64(cur.LineBases))
		w.WriteInt64(int64(cur.LineWidth))
		return w.EndLine()
	}
	for {
		fullLine, rerr := r.ReadBytes('\n')
		if rerr != nil && rerr != io.EOF {
			return errors.E(rerr, "generate FASTA index")
		}
		if len(fullLine) == 0 && rerr == io.EOF {
			break
		}
		lineno++
		cumBytes += uint64(len(fullLine))
		line := bytes.TrimRight(fullLine, "\r\n")
		switch {
		case len(line) == 0:
		case line[0] == '>':
			if err := flush(); err != nil {
				return err
			}
			name := headerName(line)
			if name == "" {
				return &MalformedError{Line: lineno, Text: string(line)}
			}
			cur = &IndexEntry{Name: name, Offset: cumBytes}
		case cur == nil:
			return &MalformedError{Line: lineno, Text: string(line)}
		default:
			if cur.LineWidth == 0 {
				cur.LineWidth = uint64(len(fullLine))
				cur.LineBases = uint64(len(line))
			}
			cur.Length += uint64(len(line))
		}
		if rerr == io.EOF {
			break
		}
	}
	if cur == nil {
		return errors.E(errors.Invalid, "empty FASTA file")
	}
	if err := flush(); err != nil {
		return err
	}
	return w.Flush()
}
