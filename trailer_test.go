// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildTrailerSchema writes a GenericDataHeader with two fields: a
// u32 "Charge State:" column and an ASCIIZ "Scan Description" column.
func buildTrailerSchema(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer

	writeField := func(typeCode, length uint32, label string) {
		binary.Write(&buf, binary.LittleEndian, typeCode)
		binary.Write(&buf, binary.LittleEndian, length)
		units := []uint16{}
		for _, r := range label {
			units = append(units, uint16(r))
		}
		binary.Write(&buf, binary.LittleEndian, int32(len(units)))
		for _, u := range units {
			binary.Write(&buf, binary.LittleEndian, u)
		}
	}

	binary.Write(&buf, binary.LittleEndian, uint32(2)) // field count
	writeField(TrailerTypeU32, 4, "Charge State:")
	writeField(TrailerTypeASCIIZ, 8, "Scan Description")

	return buf.Bytes()
}

func TestParseTrailerLayout(t *testing.T) {
	data := buildTrailerSchema(t)
	r := NewByteReader(data, 0)

	layout, _, err := parseTrailerLayout(r, 0)
	if err != nil {
		t.Fatalf("parseTrailerLayout failed: %v", err)
	}
	if len(layout.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(layout.Fields))
	}
	if layout.Fields[0].ByteOffset != 0 {
		t.Errorf("Fields[0].ByteOffset = %d, want 0", layout.Fields[0].ByteOffset)
	}
	if layout.Fields[1].ByteOffset != 4 {
		t.Errorf("Fields[1].ByteOffset = %d, want 4", layout.Fields[1].ByteOffset)
	}
	if layout.RecordSize != 12 {
		t.Errorf("RecordSize = %d, want 12", layout.RecordSize)
	}
	if idx, ok := layout.ByLabel["Charge State:"]; !ok || idx != 0 {
		t.Errorf("ByLabel[Charge State:] = (%d, %v), want (0, true)", idx, ok)
	}
}

func TestReadFieldByLabel(t *testing.T) {
	schema := buildTrailerSchema(t)
	layoutReader := NewByteReader(schema, 0)
	layout, schemaLen, err := parseTrailerLayout(layoutReader, 0)
	if err != nil {
		t.Fatalf("parseTrailerLayout failed: %v", err)
	}

	record := make([]byte, layout.RecordSize)
	binary.LittleEndian.PutUint32(record[0:], 3) // Charge State: = 3
	copy(record[4:], "scan1\x00\x00\x00")

	full := append(schema[:schemaLen:schemaLen], record...)
	r := NewByteReader(full, 0)

	v, ok, err := layout.ReadFieldByLabel(r, schemaLen, "Charge State:")
	if err != nil || !ok {
		t.Fatalf("ReadFieldByLabel(Charge State:) = (%v, %v, %v)", v, ok, err)
	}
	if v.Int != 3 {
		t.Errorf("Charge State: = %d, want 3", v.Int)
	}

	v, ok, err = layout.ReadFieldByLabel(r, schemaLen, "Scan Description")
	if err != nil || !ok {
		t.Fatalf("ReadFieldByLabel(Scan Description) = (%v, %v, %v)", v, ok, err)
	}
	if v.Str != "scan1" {
		t.Errorf("Scan Description = %q, want %q", v.Str, "scan1")
	}

	if _, ok, _ := layout.ReadFieldByLabel(r, schemaLen, "Nonexistent"); ok {
		t.Error("ReadFieldByLabel(Nonexistent) = true, want false")
	}
}

// buildMasterScanSchema writes a GenericDataHeader with a single i32
// "Master Scan Number:" column, the spelling most FTMS instruments emit.
func buildMasterScanSchema(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(1)) // field count
	binary.Write(&buf, binary.LittleEndian, uint32(TrailerTypeI32))
	binary.Write(&buf, binary.LittleEndian, uint32(4))
	label := "Master Scan Number:"
	binary.Write(&buf, binary.LittleEndian, int32(len(label)))
	for _, r := range label {
		binary.Write(&buf, binary.LittleEndian, uint16(r))
	}
	return buf.Bytes()
}

func TestMasterScanNumber(t *testing.T) {
	schema := buildMasterScanSchema(t)
	r := NewByteReader(schema, 0)
	layout, schemaLen, err := parseTrailerLayout(r, 0)
	if err != nil {
		t.Fatalf("parseTrailerLayout failed: %v", err)
	}

	ms1Record := make([]byte, layout.RecordSize)
	binary.LittleEndian.PutUint32(ms1Record, 0)
	ms2Record := make([]byte, layout.RecordSize)
	binary.LittleEndian.PutUint32(ms2Record, 7)

	full := append(append(schema[:schemaLen:schemaLen], ms1Record...), ms2Record...)
	full2 := NewByteReader(full, 0)

	if v, ok := layout.masterScanNumber(full2, schemaLen); !ok || v != 0 {
		t.Errorf("masterScanNumber(ms1) = (%d, %v), want (0, true)", v, ok)
	}
	if v, ok := layout.masterScanNumber(full2, schemaLen+layout.RecordSize); !ok || v != 7 {
		t.Errorf("masterScanNumber(ms2) = (%d, %v), want (7, true)", v, ok)
	}

	var empty TrailerLayout
	empty.ByLabel = map[string]int{}
	if _, ok := empty.masterScanNumber(full2, 0); ok {
		t.Error("masterScanNumber on a schema lacking the field = true, want false")
	}
}
