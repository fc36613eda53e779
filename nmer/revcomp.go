// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package nmer

var complementTable [256]byte

func init() {
	for i := range complementTable {
		complementTable[i] = 'N'
	}
	complementTable['A'] = 'T'
	complementTable['C'] = 'G'
	complementTable['G'] = 'C'
	complementTable['T'] = 'A'
}

// reverseComplement appends the reverse complement of seq to dst. seq must be
// normalized (ACGTN only).
func reverseComplement(dst []byte, seq string) []byte {
	for i := len(seq) - 1; i >= 0; i-- {
		dst = append(dst, complementTable[seq[i]])
	}
	return dst
}
