// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

// numFileNameFields and fileNameFieldChars describe the run header's
// array of fixed-width instrument file-name fields.
const (
	numFileNameFields  = 13
	fileNameFieldChars = 260
)

// RunHeader carries the scan range, acquisition time range, global mass
// range, and the seven canonical stream offsets, normalized to 64-bit
// regardless of the source version.
type RunHeader struct {
	FirstScan int32
	LastScan  int32

	StartTime float64 // minutes
	EndTime   float64 // minutes

	LowMass  float64
	HighMass float64

	MaxIntensity           float64
	MaxIntegratedIntensity float64

	ToleranceUnit       int32
	FilterMassPrecision int32
	InstrumentType      int32 // v >= 66 only; zero otherwise

	// Canonical 64-bit stream offsets, promoted from 32-bit storage for
	// versions below 64.
	SpectrumOffset         int64
	PacketDataOffset       int64
	StatusLogOffset        int64
	ErrorLogOffset         int64
	SelfOffset             int64
	TrailerScanEventOffset int64
	TrailerExtraOffset     int64

	DeviceName     string
	Model          string
	SerialNumber   string
	SoftwareVersion string
	Tags           [4]string

	FileNames [numFileNameFields]string
}

// streamOffsetCount is the number of canonical stream-offset fields
// promoted from the legacy 32-bit block or read directly from the
// 64-bit block.
const streamOffsetCount = 7

// parseRunHeader parses the run header located at addr.
func parseRunHeader(r *ByteReader, addr int64, version uint32) (RunHeader, error) {
	var h RunHeader
	pos := addr

	// --- embedded sample-info block ---
	if _, err := r.ReadI32(pos); err != nil { // Revision
		return h, err
	}
	pos += 4
	if _, err := r.ReadI32(pos); err != nil { // DataSetID
		return h, err
	}
	pos += 4

	firstScan, err := r.ReadI32(pos)
	if err != nil {
		return h, err
	}
	h.FirstScan = firstScan
	pos += 4
	lastScan, err := r.ReadI32(pos)
	if err != nil {
		return h, err
	}
	h.LastScan = lastScan
	pos += 4

	pos += 4 // NumStatusLog
	pos += 4 // NumErrorLog

	legacyOffsets := make([]uint32, streamOffsetCount)
	for i := range legacyOffsets {
		v, err := r.ReadU32(pos)
		if err != nil {
			return h, err
		}
		legacyOffsets[i] = v
		pos += 4
	}

	if _, err := r.ReadI16(pos); err != nil { // MaxPacketSize
		return h, err
	}
	pos += 2

	floats := make([]float64, 6)
	for i := range floats {
		v, err := r.ReadF64(pos)
		if err != nil {
			return h, err
		}
		floats[i] = v
		pos += 8
	}
	h.MaxIntensity = floats[0]
	h.MaxIntegratedIntensity = floats[1]
	h.LowMass = floats[2]
	h.HighMass = floats[3]
	h.StartTime = floats[4]
	h.EndTime = floats[5]

	// --- instrument metadata strings, fixed-width file names ---
	if _, n, err := r.ReadPascalUTF16(pos); err != nil {
		return h, err
	} else {
		pos += n
	}

	for i := 0; i < numFileNameFields; i++ {
		b, err := r.ReadBytes(pos, fileNameFieldChars*2)
		if err != nil {
			return h, err
		}
		h.FileNames[i] = decodeFixedUTF16(b)
		pos += fileNameFieldChars * 2
	}

	// --- version-conditional additions ---
	tol, err := r.ReadI32(pos) // tolerance unit, v >= 49 (always true here)
	if err != nil {
		return h, err
	}
	h.ToleranceUnit = tol
	pos += 4
	prec, err := r.ReadI32(pos)
	if err != nil {
		return h, err
	}
	h.FilterMassPrecision = prec
	pos += 4

	if Uses64BitAddresses(version) {
		offsets64 := make([]int64, streamOffsetCount)
		for i := range offsets64 {
			v, err := r.ReadI64(pos)
			if err != nil {
				return h, err
			}
			offsets64[i] = v
			pos += 8
		}
		assignStreamOffsets(&h, offsets64)

		pos += 16 // controller block {type i32, index i32, offset i64}
		pos += 6 * 12 // six (i64 pos, i32 count) extra-stream pointers
	} else {
		offsets64 := make([]int64, streamOffsetCount)
		for i, v := range legacyOffsets {
			offsets64[i] = int64(v)
		}
		assignStreamOffsets(&h, offsets64)
	}

	if version >= 66 {
		it, err := r.ReadI32(pos)
		if err != nil {
			return h, err
		}
		h.InstrumentType = it
		pos += 4
	}

	strs := []*string{&h.DeviceName, &h.Model, &h.SerialNumber, &h.SoftwareVersion}
	for _, s := range strs {
		v, n, err := r.ReadPascalUTF16(pos)
		if err != nil {
			return h, err
		}
		*s = v
		pos += n
	}
	for i := range h.Tags {
		v, n, err := r.ReadPascalUTF16(pos)
		if err != nil {
			return h, err
		}
		h.Tags[i] = v
		pos += n
	}

	return h, nil
}

// assignStreamOffsets fills the seven canonical offset fields in the
// fixed order: spectrum index, packet data, status log, error log,
// run-header self-reference, trailer scan events, trailer extra.
func assignStreamOffsets(h *RunHeader, o []int64) {
	h.SpectrumOffset = o[0]
	h.PacketDataOffset = o[1]
	h.StatusLogOffset = o[2]
	h.ErrorLogOffset = o[3]
	h.SelfOffset = o[4]
	h.TrailerScanEventOffset = o[5]
	h.TrailerExtraOffset = o[6]
}
