// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fold

import (
	"sort"

	"github.com/grailbio/foldgenomics/encoding/position"
)

// SortStrategy reads every record into an array sized by
// position.Reader.Pending, sorts it, and counts runs of equal records. It is
// faster than MapStrategy when most values are distinct.
type SortStrategy struct{}

// Fold implements Strategy.
func (SortStrategy) Fold(r *position.Reader, opts Opts, emit func(position.KeyedPosition) error) (Stats, error) {
	stats := Stats{Threshold: opts.Threshold}
	if err := checkOpts(r, opts); err != nil {
		return stats, err
	}
	recs := make([]position.KeyedPosition, 0, r.Pending())
	for r.Scan() {
		recs = append(recs, r.Keyed())
	}
	if err := r.Err(); err != nil {
		return stats, err
	}
	stats.Read = len(recs)
	sort.Slice(recs, func(i, j int) bool { return recs[i].Compare(recs[j]) < 0 })

	// The first record of a run is the smallest, which is what the run emits.
	for start := 0; start < len(recs); {
		end := start + 1
		for end < len(recs) && opts.Identity.compare(recs[start], recs[end]) == 0 {
			end++
		}
		if end-start <= opts.Threshold {
			if err := emit(recs[start]); err != nil {
				return stats, err
			}
			stats.Folded++
		}
		start = end
	}
	return stats, nil
}
