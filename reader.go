// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

import (
	"encoding/binary"
	"math"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
)

// ByteReader is a bounds-checked, little-endian cursor over a byte slice.
// Base lets offsets recorded in on-disk structures be absolute within the
// logical data stream even when the underlying slice starts past some
// container prelude: every method accepts an absolute offset and
// internally subtracts Base before indexing into Data.
type ByteReader struct {
	Data []byte
	Base int64
}

// NewByteReader wraps data, treating offset 0 of data as absolute offset
// base within the logical stream.
func NewByteReader(data []byte, base int64) *ByteReader {
	return &ByteReader{Data: data, Base: base}
}

// Len reports the absolute offset one past the end of the readable window.
func (r *ByteReader) Len() int64 {
	return r.Base + int64(len(r.Data))
}

func (r *ByteReader) local(offset int64, size int64) (int64, error) {
	local := offset - r.Base
	if local < 0 || size < 0 || local+size > int64(len(r.Data)) {
		return 0, &DecodeError{Offset: offset, Reason: "read exceeds slice bounds"}
	}
	return local, nil
}

// ReadBytes returns a zero-copy slice of length bytes at offset.
func (r *ByteReader) ReadBytes(offset int64, length int64) ([]byte, error) {
	local, err := r.local(offset, length)
	if err != nil {
		return nil, err
	}
	return r.Data[local : local+length], nil
}

// ReadU8 reads a uint8 at offset.
func (r *ByteReader) ReadU8(offset int64) (uint8, error) {
	local, err := r.local(offset, 1)
	if err != nil {
		return 0, err
	}
	return r.Data[local], nil
}

// ReadU16 reads a little-endian uint16 at offset.
func (r *ByteReader) ReadU16(offset int64) (uint16, error) {
	local, err := r.local(offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.Data[local:]), nil
}

// ReadU32 reads a little-endian uint32 at offset.
func (r *ByteReader) ReadU32(offset int64) (uint32, error) {
	local, err := r.local(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.Data[local:]), nil
}

// ReadU64 reads a little-endian uint64 at offset.
func (r *ByteReader) ReadU64(offset int64) (uint64, error) {
	local, err := r.local(offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(r.Data[local:]), nil
}

// ReadI16 reads a little-endian int16 at offset.
func (r *ByteReader) ReadI16(offset int64) (int16, error) {
	v, err := r.ReadU16(offset)
	return int16(v), err
}

// ReadI32 reads a little-endian int32 at offset.
func (r *ByteReader) ReadI32(offset int64) (int32, error) {
	v, err := r.ReadU32(offset)
	return int32(v), err
}

// ReadI64 reads a little-endian int64 at offset.
func (r *ByteReader) ReadI64(offset int64) (int64, error) {
	v, err := r.ReadU64(offset)
	return int64(v), err
}

// ReadF32 reads a little-endian IEEE-754 float32 at offset.
func (r *ByteReader) ReadF32(offset int64) (float32, error) {
	v, err := r.ReadU32(offset)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadF64 reads a little-endian IEEE-754 float64 at offset.
func (r *ByteReader) ReadF64(offset int64) (float64, error) {
	v, err := r.ReadU64(offset)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadPascalUTF16 reads an i32 length (in UTF-16 code units) followed by
// length*2 bytes of UTF-16LE text. A non-positive length yields the empty
// string and consumes only the 4-byte length prefix. Invalid surrogate
// pairs decode to U+FFFD rather than failing, matching the source format's
// tolerance for malformed strings written by older instrument software.
func (r *ByteReader) ReadPascalUTF16(offset int64) (string, int64, error) {
	n, err := r.ReadI32(offset)
	if err != nil {
		return "", 0, err
	}
	if n <= 0 {
		return "", 4, nil
	}
	byteLen := int64(n) * 2
	raw, err := r.ReadBytes(offset+4, byteLen)
	if err != nil {
		return "", 0, err
	}
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	if s, err := decoder.String(string(raw)); err == nil {
		return s, 4 + byteLen, nil
	}
	// Fall back to a manual decode that always succeeds: unicode/utf16
	// replaces unpaired surrogates with U+FFFD rather than failing, which
	// is the behavior the source format's tolerant string reader requires.
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return string(utf16.Decode(units)), 4 + byteLen, nil
}
