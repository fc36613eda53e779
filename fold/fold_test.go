// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fold_test

import (
	"context"
	"math/rand"
	"path/filepath"
	"sort"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/foldgenomics/encoding/position"
	"github.com/grailbio/foldgenomics/fold"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

var strategies = map[string]fold.Strategy{
	"map":  fold.MapStrategy{},
	"sort": fold.SortStrategy{},
	"hash": fold.HashStrategy{},
}

func kp(key string, off uint32) position.KeyedPosition {
	return position.KeyedPosition{Key: key, Position: position.Position{Offset: off}}
}

func writeKeyed(ctx context.Context, t *testing.T, path string, recs []position.KeyedPosition) {
	w, err := position.NewWriter(ctx, path, position.Keyed)
	assert.NoError(t, err)
	for _, k := range recs {
		assert.NoError(t, w.WriteKeyed(k))
	}
	assert.NoError(t, w.Close())
}

func foldRecords(ctx context.Context, t *testing.T, s fold.Strategy, path string, opts fold.Opts) ([]position.KeyedPosition, fold.Stats) {
	r, err := position.NewReader(ctx, path, position.Keyed)
	assert.NoError(t, err)
	var got []position.KeyedPosition
	stats, err := s.Fold(r, opts, func(k position.KeyedPosition) error {
		got = append(got, k)
		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, r.Close())
	return got, stats
}

// The windows of ACGTACGTAC with window length 4 and key length 2.
var exampleRecs = []position.KeyedPosition{
	kp("AC", 0), kp("CG", 1), kp("GT", 2), kp("TA", 3), kp("AC", 4), kp("CG", 5), kp("GT", 6),
}

func TestFoldExample(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	path := filepath.Join(tmpDir, "in.bin")
	writeKeyed(ctx, t, path, exampleRecs)

	for name, s := range strategies {
		got, stats := foldRecords(ctx, t, s, path, fold.Opts{Threshold: 1, Identity: fold.ByKey})
		expect.EQ(t, got, []position.KeyedPosition{kp("TA", 3)}, name)
		expect.EQ(t, stats, fold.Stats{Read: 7, Folded: 1, Threshold: 1}, name)

		got, _ = foldRecords(ctx, t, s, path, fold.Opts{Threshold: 2, Identity: fold.ByKey})
		expect.EQ(t, got, []position.KeyedPosition{kp("AC", 0), kp("CG", 1), kp("GT", 2), kp("TA", 3)}, name)

		// Every record is distinct as a whole.
		got, stats = foldRecords(ctx, t, s, path, fold.Opts{Threshold: 1, Identity: fold.ByRecord})
		expect.EQ(t, stats.Folded, 7, name)
		expect.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Compare(got[j]) < 0 }), name)
	}
}

func TestFoldDuplicates(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	path := filepath.Join(tmpDir, "in.bin")
	writeKeyed(ctx, t, path, []position.KeyedPosition{
		kp("GG", 1), kp("AA", 9), kp("GG", 1), kp("AA", 2), kp("GG", 1), kp("AA", 9),
	})
	for name, s := range strategies {
		for thr, want := range map[int][]position.KeyedPosition{
			0: nil,
			1: {kp("AA", 2)},
			2: {kp("AA", 2), kp("AA", 9)},
			3: {kp("AA", 2), kp("AA", 9), kp("GG", 1)},
		} {
			got, stats := foldRecords(ctx, t, s, path, fold.Opts{Threshold: thr})
			expect.EQ(t, got, want, name, thr)
			expect.EQ(t, stats.Read, 6)
		}
	}
}

func randomRecords(r *rand.Rand, n int) []position.KeyedPosition {
	keys := []string{"AA", "AC", "NT", "TT"}
	recs := make([]position.KeyedPosition, n)
	for i := range recs {
		recs[i] = position.KeyedPosition{
			Key: keys[r.Intn(len(keys))],
			Position: position.Position{
				Chrom:  uint16(r.Intn(3)),
				Offset: uint32(r.Intn(20)),
				Strand: position.Strand(r.Intn(2)),
			},
		}
	}
	return recs
}

func TestStrategiesAgree(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	rnd := rand.New(rand.NewSource(0))
	for iter := 0; iter < 20; iter++ {
		path := filepath.Join(tmpDir, "in.bin")
		recs := randomRecords(rnd, rnd.Intn(500))
		writeKeyed(ctx, t, path, recs)

		for _, id := range []fold.Identity{fold.ByRecord, fold.ByKey} {
			for thr := 0; thr < 4; thr++ {
				opts := fold.Opts{Threshold: thr, Identity: id}
				m, mstats := foldRecords(ctx, t, fold.MapStrategy{}, path, opts)
				s, sstats := foldRecords(ctx, t, fold.SortStrategy{}, path, opts)
				expect.EQ(t, m, s, opts)
				expect.EQ(t, mstats, sstats, opts)
				h, hstats := foldRecords(ctx, t, fold.HashStrategy{}, path, opts)
				expect.EQ(t, m, h, opts)
				expect.EQ(t, mstats, hstats, opts)

				// Cross-check against a brute-force count.
				counts := map[position.KeyedPosition]int{}
				for _, rec := range recs {
					if id == fold.ByKey {
						rec = position.KeyedPosition{Key: rec.Key}
					}
					counts[rec]++
				}
				want := 0
				for _, n := range counts {
					if n <= thr {
						want++
					}
				}
				expect.EQ(t, len(m), want, opts)
			}
		}
	}
}

func TestFoldIdempotent(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	in := filepath.Join(tmpDir, "in.bin")
	once := filepath.Join(tmpDir, "once.bin")
	twice := filepath.Join(tmpDir, "twice.bin")
	writeKeyed(ctx, t, in, randomRecords(rand.New(rand.NewSource(1)), 300))

	for name, s := range strategies {
		stats, err := fold.File(ctx, s, in, once, fold.Opts{Threshold: 3}, position.Keyed)
		assert.NoError(t, err)
		for thr := 1; thr < 4; thr++ {
			stats2, err := fold.File(ctx, s, once, twice, fold.Opts{Threshold: thr}, position.Keyed)
			assert.NoError(t, err)
			expect.EQ(t, stats2.Read, stats.Folded, name)
			expect.EQ(t, stats2.Folded, stats.Folded, name)
		}
	}
}

func TestFoldTypedErrors(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	in := filepath.Join(tmpDir, "in.bin")
	out := filepath.Join(tmpDir, "out.bin")
	// Seven Keyed records are also a whole number of Plain records.
	writeKeyed(ctx, t, in, exampleRecs)
	assert.EQ(t, len(exampleRecs), 7)

	for name, s := range strategies {
		r, err := position.NewReader(ctx, in, position.Plain)
		assert.NoError(t, err)
		_, err = s.Fold(r, fold.DefaultOpts, func(position.KeyedPosition) error { return nil })
		mismatch, ok := err.(*position.FormatMismatchError)
		assert.True(t, ok, name)
		expect.EQ(t, *mismatch, position.FormatMismatchError{Want: position.Plain, Got: position.Keyed}, name)
		assert.NoError(t, r.Close())
	}

	_, err := fold.File(ctx, fold.MapStrategy{}, filepath.Join(tmpDir, "missing.bin"), out, fold.DefaultOpts, position.Keyed)
	_, ok := err.(*position.FileOpenError)
	expect.True(t, ok)

	_, err = fold.File(ctx, fold.HashStrategy{}, in, out, fold.Opts{Threshold: -1}, position.Keyed)
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestFoldFilePlain(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	in := filepath.Join(tmpDir, "in.bin")
	out := filepath.Join(tmpDir, "out.bin")
	writeKeyed(ctx, t, in, exampleRecs)

	stats, err := fold.File(ctx, fold.SortStrategy{}, in, out, fold.Opts{Threshold: 1, Identity: fold.ByKey}, position.Plain)
	assert.NoError(t, err)
	expect.EQ(t, stats.String(), "7 folded to 1 with at most 1 occurrence(s)")

	r, err := position.NewReader(ctx, out, position.Plain)
	assert.NoError(t, err)
	assert.True(t, r.Scan())
	expect.EQ(t, r.Plain(), position.Position{Offset: 3})
	expect.False(t, r.Scan())
	assert.NoError(t, r.Close())

	_, err = fold.File(ctx, fold.SortStrategy{}, in, out, fold.Opts{Threshold: 1}, position.Compact)
	expect.True(t, err != nil)
	_, err = fold.File(ctx, fold.MapStrategy{}, in, out, fold.Opts{Threshold: -1}, position.Keyed)
	expect.True(t, err != nil)
}

func TestFoldEmpty(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	path := filepath.Join(tmpDir, "in.bin")
	writeKeyed(ctx, t, path, nil)
	for name, s := range strategies {
		got, stats := foldRecords(ctx, t, s, path, fold.Opts{Threshold: 1})
		expect.EQ(t, len(got), 0, name)
		expect.EQ(t, stats.Read, 0, name)
	}
}

func TestParse(t *testing.T) {
	s, err := fold.ParseStrategy("sort")
	assert.NoError(t, err)
	expect.EQ(t, s, fold.Strategy(fold.SortStrategy{}))
	s, err = fold.ParseStrategy("hash")
	assert.NoError(t, err)
	expect.EQ(t, s, fold.Strategy(fold.HashStrategy{}))
	_, err = fold.ParseStrategy("heap")
	expect.True(t, err != nil)
	id, err := fold.ParseIdentity("key")
	assert.NoError(t, err)
	expect.EQ(t, id, fold.ByKey)
	for _, id := range []fold.Identity{fold.ByRecord, fold.ByKey} {
		got, err := fold.ParseIdentity(id.String())
		assert.NoError(t, err)
		expect.EQ(t, got, id)
	}
}
