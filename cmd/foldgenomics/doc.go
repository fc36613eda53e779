// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command foldgenomics partitions a reference genome into positions whose
// k-mer reads are unique and positions whose reads are redundant.
//
// A typical run bins every read of a genome by its first bases, folds each
// bin, then sorts and splits the survivors by chromosome:
//
//	foldgenomics encode -prefix-length=6 -read-length=36 -chrom-ref=chroms.tsv hg19.fa bins/
//	foldgenomics fold -strategy=sort -identity=key -threshold=1 bins/ACGTAC.bin folded/ACGTAC.bin
//	cat folded/*.bin > folded.bin
//	foldgenomics sort -format=keyed folded.bin sorted.bin
//	foldgenomics partition chroms.tsv uniq. sorted.bin
//
// Run "foldgenomics help <command>" for the flags of each command.
package main
