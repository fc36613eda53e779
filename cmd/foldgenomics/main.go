// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/foldgenomics/fold"
	"github.com/grailbio/foldgenomics/nmer"
	"v.io/x/lib/cmdline"
)

func newCmdEncode() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "encode",
		Short:    "Generate binary files of simulated reads binned by prefix",
		ArgsName: "fasta output_prefix",
	}
	opts := nmer.DefaultOpts
	cmd.Flags.StringVar(&opts.OutputSuffix, "suffix", opts.OutputSuffix, "Suffix of the bin file names")
	cmd.Flags.IntVar(&opts.PrefixLength, "prefix-length", opts.PrefixLength, "Number of leading read bases that form the bin key")
	cmd.Flags.IntVar(&opts.ReadLength, "read-length", opts.ReadLength, "Length of the simulated reads")
	cmd.Flags.StringVar(&opts.ChromRefPath, "chrom-ref", "", `Chromosome table. Sequence names are appended to it, so
encoding one FASTA file per chromosome into the same table keeps indices consistent.`)
	cmd.Flags.StringVar(&opts.KeyFilter, "filter", "", "Only write reads with this key")
	cmd.Flags.BoolVar(&opts.ReverseComplement, "reverse-complement", false, "Also write reverse-complemented reads")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("encode takes fasta and output_prefix, but got %v", argv)
		}
		opts.OutputPrefix = argv[1]
		return encode(opts, argv[0])
	})
	return cmd
}

func newCmdIndex() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "index",
		Short: "Generate the samtools index (*.fai) of a FASTA file",
		Long: `The index can be passed to partition and print as a chromosome table.
Chromosome indices are then the order of the sequences in the FASTA file.`,
		ArgsName: "fasta [fai]",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		switch len(argv) {
		case 1:
			return indexFasta(argv[0], argv[0]+".fai")
		case 2:
			return indexFasta(argv[0], argv[1])
		}
		return fmt.Errorf("index takes fasta and an optional fai path, but got %v", argv)
	})
	return cmd
}

func newCmdFold() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "fold",
		Short:    "Fold a keyed file by removing reads that occur more than threshold times",
		ArgsName: "binary_unfold binary_fold",
	}
	strategyFlag := cmd.Flags.String("strategy", "map", `Counting strategy: "map" (ordered tree), "sort" (sort the whole file) or "hash" (hash table)`)
	thresholdFlag := cmd.Flags.Int("threshold", fold.PipelineOpts.Threshold, "Keep reads that occur at most this many times")
	identityFlag := cmd.Flags.String("identity", fold.PipelineOpts.Identity.String(), `When two reads are the same: "record" (key and position match) or "key" (keys match)`)
	outputFlag := cmd.Flags.String("output", "keyed", `Output format, "keyed" or "plain"`)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("fold takes binary_unfold binary_fold, but got %v", argv)
		}
		return foldFile(env.Stdout, *strategyFlag, *identityFlag, *outputFlag, *thresholdFlag, argv[0], argv[1])
	})
	return cmd
}

func newCmdPrint() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "print",
		Short:    "Print the content of a binary position file",
		ArgsName: "binary",
	}
	formatFlag := cmd.Flags.String("format", "keyed", `Record format, "keyed", "plain" or "compact"`)
	chromRefFlag := cmd.Flags.String("chrom-ref", "", "If set, print chromosome names from this table instead of indices")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("print takes one pathname argument, but got %v", argv)
		}
		return printFile(env.Stdout, *formatFlag, *chromRefFlag, argv[0])
	})
	return cmd
}

func newCmdPartition() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "partition",
		Short:    "Partition reads by chromosome",
		ArgsName: "chr_ref output_prefix binary",
	}
	formatFlag := cmd.Flags.String("format", "keyed", `Input record format, "keyed", "plain" or "compact"`)
	suffixFlag := cmd.Flags.String("suffix", ".bin", "Suffix of the output file names")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("partition takes chr_ref output_prefix binary, but got %v", argv)
		}
		return partitionFile(argv[0], argv[1], *suffixFlag, argv[2], *formatFlag)
	})
	return cmd
}

func newCmdSort(name string, compact bool) *cmdline.Command {
	short := "Sort reads by position, output as plain positions"
	if compact {
		short = "Sort reads by position, output as compact positions"
	}
	cmd := &cmdline.Command{
		Name:     name,
		Short:    short,
		ArgsName: "binary sorted_output",
	}
	formatFlag := cmd.Flags.String("format", "plain", `Input record format, "keyed", "plain" or "compact"`)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("%s takes binary sorted_output, but got %v", name, argv)
		}
		return sortFile(argv[0], *formatFlag, argv[1], compact)
	})
	return cmd
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "foldgenomics",
			Short:    "Partition the reference genome into blocks of unique and non-unique positions on k-mer reads",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdEncode(),
				newCmdIndex(),
				newCmdFold(),
				newCmdPrint(),
				newCmdPartition(),
				newCmdSort("sort", false),
				newCmdSort("sortcompact", true),
			},
		})
}
