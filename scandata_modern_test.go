// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

import (
	"encoding/binary"
	"math"
	"testing"
)

func putF32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}

func TestDecodeModernCentroidNonAccurateMass(t *testing.T) {
	data := make([]byte, 16)
	putF32(data, 0, 100.5)
	putF32(data, 4, 10.0)
	putF32(data, 8, 200.25)
	putF32(data, 12, 20.0)

	r := NewByteReader(data, 0)
	mz, intensity, err := decodeModernCentroid(r, 0, 16, false)
	if err != nil {
		t.Fatalf("decodeModernCentroid failed: %v", err)
	}
	if len(mz) != 2 || mz[0] != float64(float32(100.5)) || mz[1] != float64(float32(200.25)) {
		t.Errorf("mz = %v, want [100.5 200.25]", mz)
	}
	if intensity[0] != 10.0 || intensity[1] != 20.0 {
		t.Errorf("intensity = %v, want [10 20]", intensity)
	}
}

func TestDecodeModernCentroidAccurateMass(t *testing.T) {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint64(data[0:], math.Float64bits(500.123456))
	putF32(data, 8, 99.0)

	r := NewByteReader(data, 0)
	mz, intensity, err := decodeModernCentroid(r, 0, 12, true)
	if err != nil {
		t.Fatalf("decodeModernCentroid failed: %v", err)
	}
	if len(mz) != 1 || mz[0] != 500.123456 {
		t.Errorf("mz = %v, want [500.123456]", mz)
	}
	if intensity[0] != 99.0 {
		t.Errorf("intensity = %v, want [99]", intensity)
	}
}

func TestDecodeModernCentroidIndivisibleByteLength(t *testing.T) {
	data := make([]byte, 10) // not a multiple of 8 or 12
	r := NewByteReader(data, 0)
	if _, _, err := decodeModernCentroid(r, 0, 10, false); err == nil {
		t.Error("decodeModernCentroid with 10 bytes succeeded, want error")
	}
}

func TestDecodeModernProfileSingleSegment(t *testing.T) {
	var buf []byte
	seg := make([]byte, profileSegmentSize)
	binary.LittleEndian.PutUint64(seg[0:], math.Float64bits(1000.0)) // base abscissa
	binary.LittleEndian.PutUint64(seg[8:], math.Float64bits(2.0))    // spacing
	binary.LittleEndian.PutUint32(seg[16:], 1)                       // subsegment count
	buf = append(buf, seg...)

	sub := make([]byte, 8)
	binary.LittleEndian.PutUint32(sub[0:], 0) // start index
	binary.LittleEndian.PutUint32(sub[4:], 2) // word count
	buf = append(buf, sub...)

	words := make([]byte, 8)
	binary.LittleEndian.PutUint32(words[0:], 111)
	binary.LittleEndian.PutUint32(words[4:], 222)
	buf = append(buf, words...)

	r := NewByteReader(buf, 0)
	mz, intensity, err := decodeModernProfile(r, 0, int64(len(buf)), 1, nil, false)
	if err != nil {
		t.Fatalf("decodeModernProfile failed: %v", err)
	}
	if len(mz) != 2 || mz[0] != 1000.0 || mz[1] != 1002.0 {
		t.Errorf("mz = %v, want [1000 1002]", mz)
	}
	if intensity[0] != 111 || intensity[1] != 222 {
		t.Errorf("intensity = %v, want [111 222]", intensity)
	}
}

func TestInterpolateNoise(t *testing.T) {
	samples := []noiseSample{
		{Mass: 100, Noise: 10},
		{Mass: 200, Noise: 20},
		{Mass: 300, Noise: 40},
	}
	if got := interpolateNoise(samples, 50); got != 10 {
		t.Errorf("interpolateNoise(50) = %v, want 10 (flat extrapolation)", got)
	}
	if got := interpolateNoise(samples, 400); got != 40 {
		t.Errorf("interpolateNoise(400) = %v, want 40 (flat extrapolation)", got)
	}
	if got := interpolateNoise(samples, 150); got != 15 {
		t.Errorf("interpolateNoise(150) = %v, want 15 (midpoint)", got)
	}
}
