// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

// PrecursorInfo carries the fragmentation parameters for an MS >= 2 scan.
type PrecursorInfo struct {
	Mz                 float64
	IsolationWidth     float64
	CollisionEnergy    float64
	Activation         ActivationType
	MultipleActivation bool
}

// Scan is an ephemeral, on-demand decode of one acquisition cycle. It is
// never stored by RawFile; every field is copied out of the underlying
// byte view so no borrow escapes the call that produced it.
type Scan struct {
	ScanNumber int32
	RT         float64
	MSLevel    int32
	Polarity   Polarity

	TIC               float64
	BasePeakMz        float64
	BasePeakIntensity float64

	CentroidMz        []float64
	CentroidIntensity []float64
	CentroidCharge    []int16 // only populated when DecodeOptions.IncludeCharge

	ProfileMz        []float64 // only populated when DecodeOptions.IncludeProfile
	ProfileIntensity []float64

	Precursor    *PrecursorInfo
	FilterString string
}

// DecodeOptions controls which optional parts of a scan's packet are
// decoded. Profile decoding and per-peak charge/flags are opt-in because
// most callers only need centroid peaks.
type DecodeOptions struct {
	IncludeProfile bool
	IncludeCharge  bool
}
