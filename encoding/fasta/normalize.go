// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fasta

import "bytes"

const skipByte = 0

// normalizeTable maps acgt to upper case, keeps ACGT, drops whitespace and
// turns everything else into 'N'.
var normalizeTable [256]byte

func init() {
	for i := range normalizeTable {
		normalizeTable[i] = 'N'
	}
	for _, ch := range []byte("ACGT") {
		normalizeTable[ch] = ch
		normalizeTable[ch+'a'-'A'] = ch
	}
	for _, ch := range []byte(" \t\r\v\f") {
		normalizeTable[ch] = skipByte
	}
}

func appendNormalized(buf *bytes.Buffer, line []byte) {
	buf.Grow(len(line))
	for _, ch := range line {
		if b := normalizeTable[ch]; b != skipByte {
			buf.WriteByte(b)
		}
	}
}

// Normalize returns seq upper-cased, with whitespace removed and every base
// other than ACGT replaced by 'N'.
func Normalize(seq string) string {
	var buf bytes.Buffer
	appendNormalized(&buf, []byte(seq))
	return buf.String()
}
