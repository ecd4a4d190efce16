// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

import (
	"encoding/binary"
	"testing"
)

func TestByteReaderBasics(t *testing.T) {
	data := make([]byte, 16)
	binary.LittleEndian.PutUint32(data[0:], 0xDEADBEEF)
	binary.LittleEndian.PutUint64(data[4:], 0x0102030405060708)

	r := NewByteReader(data, 100) // logical base 100

	v, err := r.ReadU32(100)
	if err != nil {
		t.Fatalf("ReadU32(100) failed: %v", err)
	}
	if v != 0xDEADBEEF {
		t.Errorf("ReadU32(100) = %#x, want 0xDEADBEEF", v)
	}

	u64, err := r.ReadU64(104)
	if err != nil {
		t.Fatalf("ReadU64(104) failed: %v", err)
	}
	if u64 != 0x0102030405060708 {
		t.Errorf("ReadU64(104) = %#x, want 0x0102030405060708", u64)
	}

	if _, err := r.ReadU32(99); err == nil {
		t.Error("ReadU32(99) succeeded, want bounds error (below Base)")
	}
	if _, err := r.ReadU64(110); err == nil {
		t.Error("ReadU64(110) succeeded, want bounds error (past end)")
	}
}

func TestReadPascalUTF16(t *testing.T) {
	// "Hi" as length-prefixed UTF-16LE: n=2, then 2 code units.
	data := make([]byte, 8)
	binary.LittleEndian.PutUint32(data[0:], 2)
	binary.LittleEndian.PutUint16(data[4:], 'H')
	binary.LittleEndian.PutUint16(data[6:], 'i')

	r := NewByteReader(data, 0)
	s, n, err := r.ReadPascalUTF16(0)
	if err != nil {
		t.Fatalf("ReadPascalUTF16 failed: %v", err)
	}
	if s != "Hi" {
		t.Errorf("ReadPascalUTF16 = %q, want %q", s, "Hi")
	}
	if n != 8 {
		t.Errorf("ReadPascalUTF16 consumed %d bytes, want 8", n)
	}
}

func TestReadPascalUTF16EmptyLength(t *testing.T) {
	data := make([]byte, 4) // n = 0
	r := NewByteReader(data, 0)
	s, n, err := r.ReadPascalUTF16(0)
	if err != nil {
		t.Fatalf("ReadPascalUTF16 failed: %v", err)
	}
	if s != "" || n != 4 {
		t.Errorf("ReadPascalUTF16 = (%q, %d), want (\"\", 4)", s, n)
	}
}

func TestReadPascalUTF16UnpairedSurrogate(t *testing.T) {
	// A lone high surrogate with no following low surrogate must decode
	// to U+FFFD rather than erroring out.
	data := make([]byte, 6)
	binary.LittleEndian.PutUint32(data[0:], 1)
	binary.LittleEndian.PutUint16(data[4:], 0xD800)

	r := NewByteReader(data, 0)
	s, _, err := r.ReadPascalUTF16(0)
	if err != nil {
		t.Fatalf("ReadPascalUTF16 failed: %v", err)
	}
	if s != "�" {
		t.Errorf("ReadPascalUTF16 = %q, want U+FFFD", s)
	}
}
