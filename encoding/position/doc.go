// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package position defines the on-disk records that describe where a k-mer
// window occurs in a reference genome, and the readers and writers for files
// made of them.
//
// Three record kinds exist:
//
//	Keyed   (16 bytes): keylen u8 | keycode u64 | Plain
//	Plain   (7 bytes):  chrom u16 | offset u32 | strand u8
//	Compact (5 bytes):  40-bit word chrom<<32 | offset<<1 | strand
//
// This is format version 1. All integers are big-endian and files have no
// header, so a file is a plain concatenation of fixed-width records of a
// single kind. The kind is never inferred from file content; every reader,
// writer and printer takes an explicit Format.
//
// The key of a Keyed record is the window prefix used to bin the record. It
// is stored as a base-5 number over the alphabet A=0, C=1, G=2, N=3, T=4,
// most significant digit first, so keys of up to MaxKeyLength bases fit in
// 64 bits.
//
// A Compact word holds an 8-bit chromosome index and a 31-bit offset. Its
// numeric order is the same as the (chrom, offset, strand) order of the
// corresponding Position.
package position
