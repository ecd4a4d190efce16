// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

// modernHeaderSize is the fixed header size of the modern FT/LT packet
// family (packet types 18-21).
const modernHeaderSize = 32

// Default-feature-word bits.
const (
	featureAccurateMassCentroids uint32 = 0x10000
	featureExtendedLabelRecord   uint32 = 0x20000
	featureLTProfile             uint32 = 0x00040
	featureSubSegmentProfile     uint32 = 0x00080
)

type modernHeader struct {
	Segments              uint32
	ProfileWords          uint32
	CentroidWords         uint32
	DefaultFeatureWord    uint32
	NondefaultFeatureWords uint32
	ExpansionWords        uint32
	NoiseInfoWords        uint32
	DebugInfoWords        uint32
}

func readModernHeader(r *ByteReader, offset int64) (modernHeader, error) {
	var h modernHeader
	vals := make([]uint32, 8)
	for i := range vals {
		v, err := r.ReadU32(offset + int64(i)*4)
		if err != nil {
			return h, err
		}
		vals[i] = v
	}
	h.Segments = vals[0]
	h.ProfileWords = vals[1]
	h.CentroidWords = vals[2]
	h.DefaultFeatureWord = vals[3]
	h.NondefaultFeatureWords = vals[4]
	h.ExpansionWords = vals[5]
	h.NoiseInfoWords = vals[6]
	h.DebugInfoWords = vals[7]
	return h, nil
}

// noiseSample is one entry of the optional noise/baseline table.
type noiseSample struct {
	Mass, Noise, Baseline float32
}

// decodeModernPacket decodes a packet from the modern FT/LT 32-byte-header
// family at offset. useCalibrator selects whether profile abscissas are
// frequency (FTMS, converted via calibrators) or already m/z (LT).
func decodeModernPacket(r *ByteReader, offset int64, calibrators []float64, useCalibrator bool, opts DecodeOptions) (mz, intensity []float64, profMz, profIntensity []float64, charges []int16, err error) {
	h, err := readModernHeader(r, offset)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	pos := offset + modernHeaderSize
	pos += int64(h.Segments) * 8 // segment mass ranges, not otherwise surfaced

	profileEnd := pos + int64(h.ProfileWords)*4
	if opts.IncludeProfile && h.ProfileWords > 0 {
		profMz, profIntensity, err = decodeModernProfile(r, pos, profileEnd, int(h.Segments), calibrators, useCalibrator)
		if err != nil {
			return nil, nil, nil, nil, nil, err
		}
	}
	pos = profileEnd

	centroidEnd := pos + int64(h.CentroidWords)*4
	accurateMass := h.DefaultFeatureWord&featureAccurateMassCentroids != 0
	mz, intensity, err = decodeModernCentroid(r, pos, centroidEnd, accurateMass)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	pos = centroidEnd

	nonDefaultEnd := pos + int64(h.NondefaultFeatureWords)*4
	if opts.IncludeCharge && h.NondefaultFeatureWords > 0 {
		charges = make([]int16, len(mz))
		fp := pos
		for i := 0; i < int(h.NondefaultFeatureWords); i++ {
			word, err := r.ReadU32(fp)
			if err != nil {
				return nil, nil, nil, nil, nil, err
			}
			peakIdx := word & 0x3FFFF        // bits 0..17
			charge := (word >> 19) & 0x1F   // bits 19..23
			if int(peakIdx) < len(charges) {
				charges[peakIdx] = int16(charge)
			}
			fp += 4
		}
	}
	pos = nonDefaultEnd

	pos += int64(h.ExpansionWords) * 4 // expansion stream, not surfaced
	pos += int64(h.NoiseInfoWords) * 4 // noise/baseline table, not surfaced
	pos += int64(h.DebugInfoWords) * 4 // debug stream, not surfaced

	return mz, intensity, profMz, profIntensity, charges, nil
}

func decodeModernCentroid(r *ByteReader, start, end int64, accurateMass bool) ([]float64, []float64, error) {
	byteLen := end - start
	if byteLen <= 0 {
		return nil, nil, nil
	}
	bytesPerPeak := int64(8)
	if accurateMass {
		bytesPerPeak = 12
	}
	if byteLen%bytesPerPeak != 0 {
		return nil, nil, &ScanDecodeError{Offset: start, Reason: "centroid byte length does not evenly divide by bytes-per-peak"}
	}
	count := byteLen / bytesPerPeak

	mz := make([]float64, count)
	intensity := make([]float64, count)
	pos := start
	for i := int64(0); i < count; i++ {
		var m float64
		if accurateMass {
			v, err := r.ReadF64(pos)
			if err != nil {
				return nil, nil, err
			}
			m = v
			pos += 8
		} else {
			v, err := r.ReadF32(pos)
			if err != nil {
				return nil, nil, err
			}
			m = float64(v)
			pos += 4
		}
		in, err := r.ReadF32(pos)
		if err != nil {
			return nil, nil, err
		}
		pos += 4
		mz[i] = m
		intensity[i] = float64(in)
	}
	return mz, intensity, nil
}

// profileSegmentSize is the fixed size of one ProfileSegment header.
const profileSegmentSize = 32

func decodeModernProfile(r *ByteReader, start, end int64, segments int, calibrators []float64, useCalibrator bool) ([]float64, []float64, error) {
	var mz, intensity []float64
	pos := start

	for s := 0; s < segments && pos+profileSegmentSize <= end; s++ {
		baseAbscissa, err := r.ReadF64(pos)
		if err != nil {
			return nil, nil, err
		}
		spacing, err := r.ReadF64(pos + 8)
		if err != nil {
			return nil, nil, err
		}
		subCount, err := r.ReadU32(pos + 16)
		if err != nil {
			return nil, nil, err
		}
		pos += profileSegmentSize // skip expanded_words + padding too

		for sub := uint32(0); sub < subCount && pos+8 <= end; sub++ {
			startIndex, err := r.ReadU32(pos)
			if err != nil {
				return nil, nil, err
			}
			wordCount, err := r.ReadU32(pos + 4)
			if err != nil {
				return nil, nil, err
			}
			pos += 8

			for i := uint32(0); i < wordCount && pos+4 <= end; i++ {
				raw, err := r.ReadU32(pos)
				if err != nil {
					return nil, nil, err
				}
				pos += 4

				abscissa := baseAbscissa + float64(startIndex+i)*spacing
				var m float64
				if useCalibrator {
					m = FrequencyToMz(abscissa, calibrators)
				} else {
					m = abscissa
				}
				mz = append(mz, m)
				intensity = append(intensity, float64(raw))
			}
		}
	}

	return mz, intensity, nil
}

// interpolateNoise returns the noise value at mass by linear
// interpolation between the nearest bracketing samples in samples
// (sorted ascending by mass), with flat extrapolation outside their
// range. It serves callers within this package that decode the noise
// table themselves; the default Scan decode path does not populate it.
func interpolateNoise(samples []noiseSample, mass float32) float32 {
	if len(samples) == 0 {
		return 0
	}
	if mass <= samples[0].Mass {
		return samples[0].Noise
	}
	last := len(samples) - 1
	if mass >= samples[last].Mass {
		return samples[last].Noise
	}
	for i := 0; i < last; i++ {
		a, b := samples[i], samples[i+1]
		if mass >= a.Mass && mass <= b.Mass {
			if b.Mass == a.Mass {
				return a.Noise
			}
			t := (mass - a.Mass) / (b.Mass - a.Mass)
			return a.Noise + t*(b.Noise-a.Noise)
		}
	}
	return samples[last].Noise
}
