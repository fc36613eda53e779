// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package partition_test

import (
	"math/rand"
	"path/filepath"
	"sort"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/foldgenomics/chromref"
	"github.com/grailbio/foldgenomics/encoding/position"
	"github.com/grailbio/foldgenomics/partition"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func newRef(t *testing.T, names ...string) *chromref.Table {
	ref := chromref.New()
	for _, name := range names {
		_, err := ref.Add(name, 0)
		assert.NoError(t, err)
	}
	return ref
}

func sortPositions(recs []position.Position) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].Compare(recs[j]) < 0 })
}

func TestPartitionKeyed(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	in := filepath.Join(tmpDir, "in.bin")
	prefix := filepath.Join(tmpDir, "part.")

	rnd := rand.New(rand.NewSource(0))
	var want []position.Position
	w, err := position.NewWriter(ctx, in, position.Keyed)
	assert.NoError(t, err)
	for i := 0; i < 500; i++ {
		k := position.KeyedPosition{Key: "ACG", Position: position.Position{
			Chrom:  uint16(rnd.Intn(3)),
			Offset: uint32(rnd.Intn(100)),
			Strand: position.Strand(rnd.Intn(2)),
		}}
		assert.NoError(t, w.WriteKeyed(k))
		want = append(want, k.Plain())
	}
	assert.NoError(t, w.Close())

	ref := newRef(t, "chr1", "chr2", "chrX")
	stats, err := partition.New(ref, prefix, ".bin").Partition(ctx, in, position.Keyed)
	assert.NoError(t, err)
	expect.EQ(t, stats.Names(), []string{"chr1", "chr2", "chrX"})

	var got []position.Position
	for i, name := range ref.Names() {
		r, err := position.NewReader(ctx, prefix+name+".bin", position.Plain)
		assert.NoError(t, err)
		expect.EQ(t, r.Pending(), stats[name])
		for r.Scan() {
			expect.EQ(t, r.Plain().Chrom, uint16(i))
			got = append(got, r.Plain())
		}
		assert.NoError(t, r.Close())
	}
	sortPositions(got)
	sortPositions(want)
	expect.EQ(t, got, want)
}

func TestPartitionPreservesOrder(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	in := filepath.Join(tmpDir, "in.bin")
	prefix := filepath.Join(tmpDir, "part.")

	recs := []position.Position{{Chrom: 1, Offset: 9}, {Chrom: 0, Offset: 3}, {Chrom: 1, Offset: 2}}
	w, err := position.NewWriter(ctx, in, position.Plain)
	assert.NoError(t, err)
	for _, p := range recs {
		assert.NoError(t, w.WritePlain(p))
	}
	assert.NoError(t, w.Close())

	_, err = partition.New(newRef(t, "a", "b"), prefix, "").Partition(ctx, in, position.Plain)
	assert.NoError(t, err)
	r, err := position.NewReader(ctx, prefix+"b", position.Plain)
	assert.NoError(t, err)
	var got []position.Position
	for r.Scan() {
		got = append(got, r.Plain())
	}
	assert.NoError(t, r.Close())
	expect.EQ(t, got, []position.Position{{Chrom: 1, Offset: 9}, {Chrom: 1, Offset: 2}})

	// Chromosome 1 is unknown to a single-entry table.
	_, err = partition.New(newRef(t, "a"), prefix, "").Partition(ctx, in, position.Plain)
	expect.True(t, err != nil)
}
