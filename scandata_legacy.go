// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

// legacyHeaderSize is the fixed header size of the legacy packet family
// (packet types 0-5, 14-17).
const legacyHeaderSize = 40

type legacyHeader struct {
	ProfileSizeWords  uint32
	PeakListSizeWords uint32
	LayoutFlag        uint32
	DescriptorCount   uint32
	UnknownStreamSize uint32
	TripletStreamSize uint32
	LowMz             float32
	HighMz            float32
}

func readLegacyHeader(r *ByteReader, offset int64) (legacyHeader, error) {
	var h legacyHeader
	if _, err := r.ReadU32(offset); err != nil { // reserved
		return h, err
	}
	v, err := r.ReadU32(offset + 4)
	if err != nil {
		return h, err
	}
	h.ProfileSizeWords = v

	v, err = r.ReadU32(offset + 8)
	if err != nil {
		return h, err
	}
	h.PeakListSizeWords = v

	v, err = r.ReadU32(offset + 12)
	if err != nil {
		return h, err
	}
	h.LayoutFlag = v

	v, err = r.ReadU32(offset + 16)
	if err != nil {
		return h, err
	}
	h.DescriptorCount = v

	v, err = r.ReadU32(offset + 20)
	if err != nil {
		return h, err
	}
	h.UnknownStreamSize = v

	v, err = r.ReadU32(offset + 24)
	if err != nil {
		return h, err
	}
	h.TripletStreamSize = v

	if _, err := r.ReadU32(offset + 28); err != nil { // reserved
		return h, err
	}

	lo, err := r.ReadF32(offset + 32)
	if err != nil {
		return h, err
	}
	h.LowMz = lo

	hi, err := r.ReadF32(offset + 36)
	if err != nil {
		return h, err
	}
	h.HighMz = hi

	return h, nil
}

// peakDescriptor is a 4-byte per-peak annotation in the legacy family.
type peakDescriptor struct {
	PeakIndex uint16
	Flags     uint8
	Charge    uint8
}

// decodeLegacyPacket decodes a packet from the legacy 40-byte-header
// family at entry.Offset.
func decodeLegacyPacket(r *ByteReader, offset int64, calibrators []float64, opts DecodeOptions) (mz, intensity []float64, profMz, profIntensity []float64, charges []int16, err error) {
	h, err := readLegacyHeader(r, offset)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	pos := offset + legacyHeaderSize
	profileEnd := pos + int64(h.ProfileSizeWords)*4

	if opts.IncludeProfile && h.ProfileSizeWords > 0 {
		profMz, profIntensity, err = decodeLegacyProfile(r, pos, profileEnd, h.LayoutFlag, calibrators)
		if err != nil {
			return nil, nil, nil, nil, nil, err
		}
	}
	pos = profileEnd

	centroidEnd := pos + int64(h.PeakListSizeWords)*4
	mz, intensity, err = decodeLegacyCentroid(r, pos, centroidEnd)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	pos = centroidEnd

	descEnd := pos + int64(h.DescriptorCount)*4
	if opts.IncludeCharge && h.DescriptorCount > 0 {
		charges = make([]int16, len(mz))
		dp := pos
		for i := 0; i < int(h.DescriptorCount); i++ {
			idx, err := r.ReadU16(dp)
			if err != nil {
				return nil, nil, nil, nil, nil, err
			}
			if _, err := r.ReadU8(dp + 2); err != nil { // flags
				return nil, nil, nil, nil, nil, err
			}
			ch, err := r.ReadU8(dp + 3)
			if err != nil {
				return nil, nil, nil, nil, nil, err
			}
			if int(idx) < len(charges) {
				charges[idx] = int16(ch)
			}
			dp += 4
		}
	}

	return mz, intensity, profMz, profIntensity, charges, nil
}

func decodeLegacyProfile(r *ByteReader, start, end int64, layoutFlag uint32, calibrators []float64) ([]float64, []float64, error) {
	pos := start

	firstValue, err := r.ReadF64(pos)
	if err != nil {
		return nil, nil, err
	}
	step, err := r.ReadF64(pos + 8)
	if err != nil {
		return nil, nil, err
	}
	chunkCount, err := r.ReadU32(pos + 16)
	if err != nil {
		return nil, nil, err
	}
	totalBins, err := r.ReadU32(pos + 20)
	if err != nil {
		return nil, nil, err
	}
	pos += 24

	mz := make([]float64, 0, totalBins)
	intensity := make([]float64, 0, totalBins)

	for c := uint32(0); c < chunkCount && pos < end; c++ {
		firstBin, err := r.ReadU32(pos)
		if err != nil {
			return nil, nil, err
		}
		nbins, err := r.ReadU32(pos + 4)
		if err != nil {
			return nil, nil, err
		}
		pos += 8

		var fudge float32
		if layoutFlag != 0 {
			fudge, err = r.ReadF32(pos)
			if err != nil {
				return nil, nil, err
			}
			pos += 4
		}
		_ = fudge

		for i := uint32(0); i < nbins; i++ {
			signal, err := r.ReadF32(pos)
			if err != nil {
				return nil, nil, err
			}
			pos += 4

			abscissa := firstValue + float64(firstBin+i)*step
			mz = append(mz, FrequencyToMz(abscissa, calibrators))
			intensity = append(intensity, float64(signal))
		}
	}

	return mz, intensity, nil
}

func decodeLegacyCentroid(r *ByteReader, start, end int64) ([]float64, []float64, error) {
	if start >= end {
		return nil, nil, nil
	}
	count, err := r.ReadU32(start)
	if err != nil {
		return nil, nil, err
	}
	pos := start + 4

	mz := make([]float64, count)
	intensity := make([]float64, count)
	for i := uint32(0); i < count; i++ {
		m, err := r.ReadF32(pos)
		if err != nil {
			return nil, nil, err
		}
		in, err := r.ReadF32(pos + 4)
		if err != nil {
			return nil, nil, err
		}
		mz[i] = float64(m)
		intensity[i] = float64(in)
		pos += 8
	}
	return mz, intensity, nil
}
