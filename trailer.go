// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

import "fmt"

// Trailer field type codes, as declared by the GenericDataHeader.
const (
	TrailerTypeBool    = 0x1
	TrailerTypeI8      = 0x2
	TrailerTypeI16     = 0x3
	TrailerTypeI32     = 0x4
	TrailerTypeF32     = 0x5
	TrailerTypeF64     = 0x6
	TrailerTypeU8      = 0x7
	TrailerTypeU16     = 0x8
	TrailerTypeU32     = 0x9
	TrailerTypeASCIIZ  = 0xC
	TrailerTypeUTF16   = 0xD
)

// TrailerField describes one column of the self-describing trailer-extra
// records: its label, declared type, and precomputed byte offset within
// one record.
type TrailerField struct {
	Label      string
	TypeCode   uint32
	ByteOffset int64
	ByteLength uint32
}

// TrailerLayout is the parsed descriptor header: the fixed per-scan
// record size, the ordered field list, and a label index for O(1)
// lookup. It is computed once at open and never mutated.
type TrailerLayout struct {
	RecordSize int64
	Fields     []TrailerField
	ByLabel    map[string]int
}

// parseTrailerLayout parses the GenericDataHeader at addr: a field count
// followed by that many {type_code, byte_length, label} descriptors.
// Field offsets are the running sum of declared lengths.
func parseTrailerLayout(r *ByteReader, addr int64) (TrailerLayout, int64, error) {
	var layout TrailerLayout
	pos := addr

	n, err := r.ReadU32(pos)
	if err != nil {
		return layout, 0, err
	}
	pos += 4

	layout.Fields = make([]TrailerField, n)
	layout.ByLabel = make(map[string]int, n)

	var offset int64
	for i := 0; i < int(n); i++ {
		typeCode, err := r.ReadU32(pos)
		if err != nil {
			return layout, 0, err
		}
		pos += 4
		length, err := r.ReadU32(pos)
		if err != nil {
			return layout, 0, err
		}
		pos += 4
		label, ln, err := r.ReadPascalUTF16(pos)
		if err != nil {
			return layout, 0, err
		}
		pos += ln

		layout.Fields[i] = TrailerField{
			Label:      label,
			TypeCode:   typeCode,
			ByteOffset: offset,
			ByteLength: length,
		}
		layout.ByLabel[label] = i
		offset += int64(length)
	}
	layout.RecordSize = offset

	return layout, pos - addr, nil
}

// TrailerValue is a tagged union big enough to hold any trailer field
// value without allocation for the numeric cases.
type TrailerValue struct {
	TypeCode uint32
	Bool     bool
	Int      int64
	Float    float64
	Str      string
}

// ReadField reads the declared type of field at recordBase within data.
func (l TrailerLayout) ReadField(r *ByteReader, recordBase int64, field TrailerField) (TrailerValue, error) {
	off := recordBase + field.ByteOffset
	var v TrailerValue
	v.TypeCode = field.TypeCode

	switch field.TypeCode {
	case TrailerTypeBool:
		b, err := r.ReadU8(off)
		if err != nil {
			return v, err
		}
		v.Bool = b != 0
	case TrailerTypeI8:
		b, err := r.ReadU8(off)
		if err != nil {
			return v, err
		}
		v.Int = int64(int8(b))
	case TrailerTypeI16:
		n, err := r.ReadI16(off)
		if err != nil {
			return v, err
		}
		v.Int = int64(n)
	case TrailerTypeI32:
		n, err := r.ReadI32(off)
		if err != nil {
			return v, err
		}
		v.Int = int64(n)
	case TrailerTypeF32:
		f, err := r.ReadF32(off)
		if err != nil {
			return v, err
		}
		v.Float = float64(f)
	case TrailerTypeF64:
		f, err := r.ReadF64(off)
		if err != nil {
			return v, err
		}
		v.Float = f
	case TrailerTypeU8:
		b, err := r.ReadU8(off)
		if err != nil {
			return v, err
		}
		v.Int = int64(b)
	case TrailerTypeU16:
		n, err := r.ReadU16(off)
		if err != nil {
			return v, err
		}
		v.Int = int64(n)
	case TrailerTypeU32:
		n, err := r.ReadU32(off)
		if err != nil {
			return v, err
		}
		v.Int = int64(n)
	case TrailerTypeASCIIZ:
		b, err := r.ReadBytes(off, int64(field.ByteLength))
		if err != nil {
			return v, err
		}
		v.Str = asciiZString(b)
	case TrailerTypeUTF16:
		b, err := r.ReadBytes(off, int64(field.ByteLength))
		if err != nil {
			return v, err
		}
		v.Str = decodeFixedUTF16(b)
	default:
		return v, fmt.Errorf("rawfile: unknown trailer field type code 0x%x", field.TypeCode)
	}
	return v, nil
}

// ReadFieldByLabel is a thin wrapper over ReadField using the label
// index.
func (l TrailerLayout) ReadFieldByLabel(r *ByteReader, recordBase int64, label string) (TrailerValue, bool, error) {
	idx, ok := l.ByLabel[label]
	if !ok {
		return TrailerValue{}, false, nil
	}
	v, err := l.ReadField(r, recordBase, l.Fields[idx])
	return v, true, err
}

func asciiZString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// masterScanNumberLabels lists the documented spellings instruments use
// for the dependent-scan precursor pointer, which varies by trailing
// colon/space across vendors.
var masterScanNumberLabels = []string{
	"Master Scan Number:",
	"Master Scan Number: ",
	"Master Scan Number",
	"Master Index:",
}

// masterScanNumber reads the MS1-filtering field for one scan's trailer
// record, trying each documented label spelling in turn. It returns
// (0, false) when no label in the schema matches; RawFile.isMS1 then
// falls back to the scan event's programmed MS level.
func (l TrailerLayout) masterScanNumber(r *ByteReader, recordBase int64) (int32, bool) {
	for _, label := range masterScanNumberLabels {
		if v, ok, err := l.ReadFieldByLabel(r, recordBase, label); ok && err == nil {
			return int32(v.Int), true
		}
	}
	return 0, false
}
