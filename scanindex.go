// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

// ScanIndexEntry is one per-scan record from the spectrum index, with
// every offset normalized to a 64-bit absolute position in the data
// stream regardless of the source version.
type ScanIndexEntry struct {
	Offset            int64
	TrailerExtraIndex int32
	PacketTypeWord    uint32
	SegmentIndex      int32
	EventIndex        int32

	RT                float64 // minutes
	TIC               float64
	BasePeakMz        float64
	BasePeakIntensity float64
	LowMz             float64
	HighMz            float64

	// DataSize and CycleNumber are zero for versions below 65, which do
	// not carry these fields.
	DataSize    uint32
	CycleNumber int32
}

// PacketType returns the low 16 bits of the packet-type word, which
// selects the decoder.
func (e ScanIndexEntry) PacketType() PacketType {
	return PacketType(e.PacketTypeWord & 0xFFFF)
}

// PacketQualifier returns the high 16 bits of the packet-type word.
func (e ScanIndexEntry) PacketQualifier() uint16 {
	return uint16(e.PacketTypeWord >> 16)
}

// scanIndexEntrySize returns the on-disk stride of one scan index entry
// for version.
func scanIndexEntrySize(version uint32) int64 {
	switch {
	case version >= 65:
		return 88
	case version == 64:
		return 80
	default:
		return 72
	}
}

// parseScanIndexEntry decodes one entry at base for version.
func parseScanIndexEntry(r *ByteReader, base int64, version uint32) (ScanIndexEntry, error) {
	var e ScanIndexEntry

	// Common prefix: a 4-byte offset-or-size word, then four i32/u32
	// bookkeeping fields, then six f64 statistics columns. Only the
	// width of the leading word, and what follows it, differs by
	// version bracket.
	leadWidth := int64(4)
	if version == 64 {
		leadWidth = 8
	}

	pos := base
	if version == 64 {
		v, err := r.ReadI64(pos)
		if err != nil {
			return e, err
		}
		e.Offset = v
	} else if version < 64 {
		v, err := r.ReadU32(pos)
		if err != nil {
			return e, err
		}
		e.Offset = int64(v)
	} else {
		v, err := r.ReadU32(pos)
		if err != nil {
			return e, err
		}
		e.DataSize = v
	}
	pos += leadWidth

	tei, err := r.ReadI32(pos)
	if err != nil {
		return e, err
	}
	e.TrailerExtraIndex = tei
	pos += 4

	pt, err := r.ReadU32(pos)
	if err != nil {
		return e, err
	}
	e.PacketTypeWord = pt
	pos += 4

	seg, err := r.ReadI32(pos)
	if err != nil {
		return e, err
	}
	e.SegmentIndex = seg
	pos += 4

	evt, err := r.ReadI32(pos)
	if err != nil {
		return e, err
	}
	e.EventIndex = evt
	pos += 4

	fields := []*float64{&e.RT, &e.TIC, &e.BasePeakMz, &e.BasePeakIntensity, &e.LowMz, &e.HighMz}
	for _, f := range fields {
		v, err := r.ReadF64(pos)
		if err != nil {
			return e, err
		}
		*f = v
		pos += 8
	}

	if version >= 65 {
		pos += 4 // alignment padding before the relocated data offset
		off, err := r.ReadI64(pos)
		if err != nil {
			return e, err
		}
		e.Offset = off
		pos += 8

		cyc, err := r.ReadI32(pos)
		if err != nil {
			return e, err
		}
		e.CycleNumber = cyc
	}

	return e, nil
}

// parseScanIndex reads n entries (last-first+1) starting at addr.
func parseScanIndex(r *ByteReader, addr int64, version uint32, n int) ([]ScanIndexEntry, error) {
	stride := scanIndexEntrySize(version)
	entries := make([]ScanIndexEntry, n)
	for i := 0; i < n; i++ {
		e, err := parseScanIndexEntry(r, addr+int64(i)*stride, version)
		if err != nil {
			return nil, err
		}
		entries[i] = e
	}
	return entries, nil
}
