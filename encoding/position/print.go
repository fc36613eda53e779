// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package position

import (
	"io"

	"github.com/grailbio/base/tsv"
)

// Print writes every remaining record of r to w as a TSV line: "KEY CHROM
// OFFSET STRAND" for Keyed files, "CHROM OFFSET STRAND" otherwise. If
// chromName is non-nil it renders the chromosome column; otherwise the index
// is printed. Print returns the number of records written.
func Print(w io.Writer, r *Reader, chromName func(uint16) (string, error)) (n int, err error) {
	out := tsv.NewWriter(w)
	for r.Scan() {
		p := r.Plain()
		if r.Format() == Keyed {
			out.WriteString(r.Keyed().Key)
		}
		if chromName != nil {
			name, err := chromName(p.Chrom)
			if err != nil {
				return n, err
			}
			out.WriteString(name)
		} else {
			out.WriteUint32(uint32(p.Chrom))
		}
		out.WriteUint32(p.Offset)
		out.WriteString(p.Strand.String())
		if err = out.EndLine(); err != nil {
			return n, err
		}
		n++
	}
	if err = out.Flush(); err != nil {
		return n, err
	}
	return n, r.Err()
}
