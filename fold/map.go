// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fold

import (
	"github.com/biogo/store/llrb"
	"github.com/grailbio/foldgenomics/encoding/position"
)

// MapStrategy counts occurrences in an ordered tree keyed by the record. Its
// memory use is proportional to the number of distinct values.
type MapStrategy struct{}

type counter struct {
	id  Identity
	rec position.KeyedPosition
	n   int
}

// Compare implements llrb.Comparable.
func (c *counter) Compare(other llrb.Comparable) int {
	return c.id.compare(c.rec, other.(*counter).rec)
}

// Fold implements Strategy.
func (MapStrategy) Fold(r *position.Reader, opts Opts, emit func(position.KeyedPosition) error) (Stats, error) {
	stats := Stats{Threshold: opts.Threshold}
	if err := checkOpts(r, opts); err != nil {
		return stats, err
	}
	var (
		tree  llrb.Tree
		probe = &counter{id: opts.Identity}
	)
	for r.Scan() {
		stats.Read++
		probe.rec = r.Keyed()
		if c := tree.Get(probe); c != nil {
			c := c.(*counter)
			c.n++
			if c.rec.Compare(probe.rec) > 0 {
				c.rec = probe.rec
			}
			continue
		}
		tree.Insert(&counter{id: opts.Identity, rec: probe.rec, n: 1})
	}
	if err := r.Err(); err != nil {
		return stats, err
	}

	var err error
	tree.Do(func(c llrb.Comparable) (done bool) {
		c0 := c.(*counter)
		if c0.n > opts.Threshold {
			return false
		}
		if err = emit(c0.rec); err != nil {
			return true
		}
		stats.Folded++
		return false
	})
	return stats, err
}
