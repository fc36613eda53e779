// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fold

import (
	"sort"

	farm "github.com/dgryski/go-farm"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/foldgenomics/encoding/position"
)

// HashStrategy counts occurrences in a hash table and sorts only the records
// that survive the threshold. It suits inputs with many repeated values, where
// the table stays small and the final sort is short.
type HashStrategy struct{}

type hashCounter struct {
	rec position.KeyedPosition
	n   int
}

func (id Identity) hash(k position.KeyedPosition) uint64 {
	if id == ByKey {
		return farm.Hash64(gunsafe.StringToBytes(k.Key))
	}
	seed := uint64(k.Chrom)<<33 | uint64(k.Offset)<<1 | uint64(k.Strand)
	return farm.Hash64WithSeed(gunsafe.StringToBytes(k.Key), seed)
}

// Fold implements Strategy.
func (HashStrategy) Fold(r *position.Reader, opts Opts, emit func(position.KeyedPosition) error) (Stats, error) {
	stats := Stats{Threshold: opts.Threshold}
	if err := checkOpts(r, opts); err != nil {
		return stats, err
	}
	table := map[uint64][]*hashCounter{}
scan:
	for r.Scan() {
		stats.Read++
		rec := r.Keyed()
		h := opts.Identity.hash(rec)
		bucket := table[h]
		for _, c := range bucket {
			if opts.Identity.compare(c.rec, rec) == 0 {
				c.n++
				if c.rec.Compare(rec) > 0 {
					c.rec = rec
				}
				continue scan
			}
		}
		table[h] = append(bucket, &hashCounter{rec: rec, n: 1})
	}
	if err := r.Err(); err != nil {
		return stats, err
	}

	var kept []position.KeyedPosition
	for _, bucket := range table {
		for _, c := range bucket {
			if c.n <= opts.Threshold {
				kept = append(kept, c.rec)
			}
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Compare(kept[j]) < 0 })
	for _, rec := range kept {
		if err := emit(rec); err != nil {
			return stats, err
		}
		stats.Folded++
	}
	return stats, nil
}
