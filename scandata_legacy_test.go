// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

import (
	"encoding/binary"
	"testing"
)

func TestDecodeLegacyCentroid(t *testing.T) {
	data := make([]byte, 4+16)
	binary.LittleEndian.PutUint32(data[0:], 2)
	putF32(data, 4, 300.5)
	putF32(data, 8, 50.0)
	putF32(data, 12, 301.25)
	putF32(data, 16, 75.0)

	r := NewByteReader(data, 0)
	mz, intensity, err := decodeLegacyCentroid(r, 0, int64(len(data)))
	if err != nil {
		t.Fatalf("decodeLegacyCentroid failed: %v", err)
	}
	if len(mz) != 2 || mz[0] != float64(float32(300.5)) || mz[1] != float64(float32(301.25)) {
		t.Errorf("mz = %v, want [300.5 301.25]", mz)
	}
	if intensity[0] != 50.0 || intensity[1] != 75.0 {
		t.Errorf("intensity = %v, want [50 75]", intensity)
	}
}

func TestDecodeLegacyCentroidEmptyRange(t *testing.T) {
	r := NewByteReader(nil, 0)
	mz, intensity, err := decodeLegacyCentroid(r, 0, 0)
	if err != nil {
		t.Fatalf("decodeLegacyCentroid failed: %v", err)
	}
	if mz != nil || intensity != nil {
		t.Errorf("decodeLegacyCentroid(empty) = (%v, %v), want (nil, nil)", mz, intensity)
	}
}

func TestDecodeLegacyProfileWithFudgeField(t *testing.T) {
	var buf []byte

	header := make([]byte, 24)
	putF64(header, 0, 500.0) // firstValue
	putF64(header, 8, 1.0)   // step
	binary.LittleEndian.PutUint32(header[16:], 1) // chunkCount
	binary.LittleEndian.PutUint32(header[20:], 2) // totalBins
	buf = append(buf, header...)

	chunk := make([]byte, 8+4+8) // firstBin,nbins,fudge,2 signals
	binary.LittleEndian.PutUint32(chunk[0:], 0) // firstBin
	binary.LittleEndian.PutUint32(chunk[4:], 2) // nbins
	putF32(chunk, 8, 0)                         // fudge (layoutFlag != 0)
	putF32(chunk, 12, 10.0)
	putF32(chunk, 16, 20.0)
	buf = append(buf, chunk...)

	r := NewByteReader(buf, 0)
	mz, intensity, err := decodeLegacyProfile(r, 0, int64(len(buf)), 1, nil)
	if err != nil {
		t.Fatalf("decodeLegacyProfile failed: %v", err)
	}
	if len(mz) != 2 || mz[0] != 500.0 || mz[1] != 501.0 {
		t.Errorf("mz = %v, want [500 501]", mz)
	}
	if intensity[0] != 10.0 || intensity[1] != 20.0 {
		t.Errorf("intensity = %v, want [10 20]", intensity)
	}
}
