// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fasta_test

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/foldgenomics/encoding/fasta"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

const fastaData = ">seq1\n" + "ACGTA\nCGtac\nGT\n" + "\n>seq2 A viral sequence\n" + "AcRT\n" + "AC GT\r\n" + ">empty\n"

func scanAll(sc *fasta.Scanner) (entries []fasta.Entry, status fasta.Status) {
	for status = sc.Scan(); status == fasta.OK; status = sc.Scan() {
		entries = append(entries, sc.Entry())
	}
	return
}

func TestScan(t *testing.T) {
	sc := fasta.NewScanner(strings.NewReader(fastaData))
	entries, status := scanAll(sc)
	expect.EQ(t, status, fasta.EOF)
	expect.NoError(t, sc.Err())
	expect.EQ(t, entries, []fasta.Entry{
		{Name: "seq1", Seq: "ACGTACGTACGT"},
		{Name: "seq2", Seq: "ACNTACGT"},
		{Name: "empty", Seq: ""},
	})
	// EOF is sticky.
	expect.EQ(t, sc.Scan(), fasta.EOF)
}

func TestScanMalformed(t *testing.T) {
	sc := fasta.NewScanner(strings.NewReader(">ok\nACGT\n"))
	_, status := scanAll(sc)
	expect.EQ(t, status, fasta.EOF)

	sc = fasta.NewScanner(strings.NewReader("ACGT\n>seq\nAC\n"))
	entries, status := scanAll(sc)
	expect.EQ(t, len(entries), 0)
	expect.EQ(t, status, fasta.Malformed)
	err, ok := sc.Err().(*fasta.MalformedError)
	assert.True(t, ok, "got %v", sc.Err())
	expect.EQ(t, err.Line, 1)
	expect.EQ(t, sc.Scan(), fasta.Malformed)

	sc = fasta.NewScanner(strings.NewReader(">a\nAC\n> \nGG\n"))
	entries, status = scanAll(sc)
	expect.EQ(t, entries, []fasta.Entry{{Name: "a", Seq: "AC"}})
	expect.EQ(t, status, fasta.Malformed)
}

func TestNormalize(t *testing.T) {
	expect.EQ(t, fasta.Normalize("acgtACGT"), "ACGTACGT")
	expect.EQ(t, fasta.Normalize("nRyK-.*"), "NNNNNNN")
	expect.EQ(t, fasta.Normalize(" a c\tg\r"), "ACG")
}

func TestOpenGzip(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(fastaData))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	gzPath := filepath.Join(tmpDir, "a.fa.gz")
	assert.NoError(t, ioutil.WriteFile(gzPath, buf.Bytes(), 0644))
	plainPath := filepath.Join(tmpDir, "a.fa")
	assert.NoError(t, ioutil.WriteFile(plainPath, []byte(fastaData), 0644))

	for _, path := range []string{gzPath, plainPath} {
		f, err := fasta.Open(ctx, path)
		assert.NoError(t, err)
		entries, status := scanAll(f.Scanner)
		expect.EQ(t, status, fasta.EOF)
		expect.EQ(t, len(entries), 3)
		expect.EQ(t, entries[1].Seq, "ACNTACGT")
		assert.NoError(t, f.Close())
	}

	_, err = fasta.Open(ctx, filepath.Join(tmpDir, "missing.fa"))
	expect.True(t, err != nil)
}

const indexedData = ">chr7\nACGTAC\nGAGGAC\nGCG\n>chr8 second\nACGT\n"

func TestGenerateIndex(t *testing.T) {
	var out bytes.Buffer
	assert.NoError(t, fasta.GenerateIndex(&out, strings.NewReader(indexedData)))
	expect.EQ(t, out.String(), "chr7\t15\t6\t6\t7\nchr8\t4\t37\t4\t5\n")

	entries, err := fasta.ReadIndex(&out)
	assert.NoError(t, err)
	expect.EQ(t, entries, []fasta.IndexEntry{
		{Name: "chr7", Length: 15, Offset: 6, LineBases: 6, LineWidth: 7},
		{Name: "chr8", Length: 4, Offset: 37, LineBases: 4, LineWidth: 5},
	})

	expect.NotNil(t, fasta.GenerateIndex(&out, strings.NewReader("")))
	expect.NotNil(t, fasta.GenerateIndex(&out, strings.NewReader("ACGT\n>chr1\nACGT\n")))
}

func TestReadIndex(t *testing.T) {
	entries, err := fasta.ReadIndex(strings.NewReader("chr2\t10\t100\t60\t61\n\nchr1\t90\t6\t60\t61\n"))
	assert.NoError(t, err)
	expect.EQ(t, len(entries), 2)
	expect.EQ(t, entries[0].Name, "chr1")
	expect.EQ(t, entries[1].Name, "chr2")

	_, err = fasta.ReadIndex(strings.NewReader("chr1\t90\t6\t60\n"))
	expect.NotNil(t, err)
	_, err = fasta.ReadIndex(strings.NewReader("chr1\t90\t6\t60\t61\nchr1\t90\t200\t60\t61\n"))
	expect.NotNil(t, err)
}
