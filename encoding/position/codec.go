// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package position

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// MaxKeyLength is the longest key a KeyedPosition can be encoded with.
// 5^27 < 2^63.
const MaxKeyLength = 27

const invalidKeyDigit = uint8(255)

var (
	keyDigits     = [...]byte{'A', 'C', 'G', 'N', 'T'}
	asciiToDigits [256]uint8
)

func init() {
	for i := range asciiToDigits {
		asciiToDigits[i] = invalidKeyDigit
	}
	for d, ch := range keyDigits {
		asciiToDigits[ch] = uint8(d)
	}
}

// maxKeyCode[n] is 5^n, i.e., one past the largest code of an n-base key.
var maxKeyCode [MaxKeyLength + 1]uint64

func init() {
	maxKeyCode[0] = 1
	for i := 1; i <= MaxKeyLength; i++ {
		maxKeyCode[i] = maxKeyCode[i-1] * uint64(len(keyDigits))
	}
}

func encodeKey(key string) (uint64, error) {
	if len(key) > MaxKeyLength {
		return 0, &RangeError{Field: "key length", Value: uint64(len(key)), Max: MaxKeyLength}
	}
	var code uint64
	for i := 0; i < len(key); i++ {
		d := asciiToDigits[key[i]]
		if d == invalidKeyDigit {
			return 0, errors.Errorf("key %q: invalid base %q at %d, must be one of ACGTN", key, key[i], i)
		}
		code = code*uint64(len(keyDigits)) + uint64(d)
	}
	return code, nil
}

func decodeKey(n int, code uint64) (string, error) {
	if n > MaxKeyLength {
		return "", &RangeError{Field: "key length", Value: uint64(n), Max: MaxKeyLength}
	}
	if code >= maxKeyCode[n] {
		return "", &RangeError{Field: "key code", Value: code, Max: maxKeyCode[n] - 1}
	}
	buf := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		buf[i] = keyDigits[code%uint64(len(keyDigits))]
		code /= uint64(len(keyDigits))
	}
	return string(buf), nil
}

// AppendPlain appends the encoding of p to buf.
func AppendPlain(buf []byte, p Position) ([]byte, error) {
	if p.Strand > Reverse {
		return buf, &RangeError{Field: "strand", Value: uint64(p.Strand), Max: uint64(Reverse)}
	}
	var b [plainSize]byte
	binary.BigEndian.PutUint16(b[0:2], p.Chrom)
	binary.BigEndian.PutUint32(b[2:6], p.Offset)
	b[6] = byte(p.Strand)
	return append(buf, b[:]...), nil
}

// DecodePlain decodes a Position from the first 7 bytes of b.
func DecodePlain(b []byte) (Position, error) {
	if len(b) < plainSize {
		return Position{}, errors.Errorf("plain position: need %d bytes, got %d", plainSize, len(b))
	}
	p := Position{
		Chrom:  binary.BigEndian.Uint16(b[0:2]),
		Offset: binary.BigEndian.Uint32(b[2:6]),
		Strand: Strand(b[6]),
	}
	if p.Strand > Reverse {
		return Position{}, &RangeError{Field: "strand", Value: uint64(p.Strand), Max: uint64(Reverse)}
	}
	return p, nil
}

// AppendKeyed appends the encoding of k to buf.
func AppendKeyed(buf []byte, k KeyedPosition) ([]byte, error) {
	code, err := encodeKey(k.Key)
	if err != nil {
		return buf, err
	}
	var b [9]byte
	b[0] = byte(len(k.Key))
	binary.BigEndian.PutUint64(b[1:9], code)
	n := len(buf)
	buf = append(buf, b[:]...)
	if buf, err = AppendPlain(buf, k.Position); err != nil {
		return buf[:n], err
	}
	return buf, nil
}

// DecodeKeyed decodes a KeyedPosition from the first 16 bytes of b.
func DecodeKeyed(b []byte) (KeyedPosition, error) {
	if len(b) < keyedSize {
		return KeyedPosition{}, errors.Errorf("keyed position: need %d bytes, got %d", keyedSize, len(b))
	}
	key, err := decodeKey(int(b[0]), binary.BigEndian.Uint64(b[1:9]))
	if err != nil {
		return KeyedPosition{}, err
	}
	p, err := DecodePlain(b[9:])
	if err != nil {
		return KeyedPosition{}, err
	}
	return KeyedPosition{Key: key, Position: p}, nil
}

// AppendCompact appends the encoding of c to buf.
func AppendCompact(buf []byte, c CompactPosition) ([]byte, error) {
	if c >= 1<<40 {
		return buf, &RangeError{Field: "compact word", Value: uint64(c), Max: 1<<40 - 1}
	}
	return append(buf, byte(c>>32), byte(c>>24), byte(c>>16), byte(c>>8), byte(c)), nil
}

// DecodeCompact decodes a CompactPosition from the first 5 bytes of b.
func DecodeCompact(b []byte) (CompactPosition, error) {
	if len(b) < compactSize {
		return 0, errors.Errorf("compact position: need %d bytes, got %d", compactSize, len(b))
	}
	return CompactPosition(uint64(b[0])<<32 | uint64(b[1])<<24 | uint64(b[2])<<16 | uint64(b[3])<<8 | uint64(b[4])), nil
}
