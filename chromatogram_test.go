// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

import "testing"

func TestSumInWindow(t *testing.T) {
	mz := []float64{100, 200, 201, 300}
	intensity := []float64{1, 2, 3, 4}

	got := sumInWindow(mz, intensity, 199, 202)
	if got != 5 {
		t.Errorf("sumInWindow(199,202) = %v, want 5", got)
	}

	if got := sumInWindow(mz, intensity, 1000, 2000); got != 0 {
		t.Errorf("sumInWindow outside range = %v, want 0", got)
	}
}

func TestPpmWindow(t *testing.T) {
	lo, hi := ppmWindow(500.0, 10)
	wantDelta := 500.0 * 10 / 1e6
	if lo != 500.0-wantDelta || hi != 500.0+wantDelta {
		t.Errorf("ppmWindow(500,10) = (%v,%v), want (%v,%v)", lo, hi, 500.0-wantDelta, 500.0+wantDelta)
	}
}

func TestXICSkipsScansOutsideMassRange(t *testing.T) {
	data := buildSyntheticFile(t)
	rf, err := OpenBytes(data, nil)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	defer rf.Close()

	// 10.0 falls in neither entry's [low,high] mass range, so both scans
	// are skipped without a decode and contribute zero intensity.
	c, err := rf.XIC(10.0, 10)
	if err != nil {
		t.Fatalf("XIC failed: %v", err)
	}
	if len(c.RT) != 2 || len(c.Intensity) != 2 {
		t.Fatalf("XIC produced %d points, want 2", len(c.RT))
	}
	for i, v := range c.Intensity {
		if v != 0 {
			t.Errorf("Intensity[%d] = %v, want 0", i, v)
		}
	}
}

func TestXICBatchMS1MatchesXICMS1(t *testing.T) {
	data := buildSyntheticFile(t)
	rf, err := OpenBytes(data, nil)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	defer rf.Close()

	targets := []MzRange{{Target: 500.1, PpmTol: 50}}
	batch := rf.XICBatchMS1(targets)
	if batch.NSamples != 1 || batch.NTargets != 1 {
		t.Fatalf("XICBatchMS1 shape = (%d,%d), want (1,1)", batch.NSamples, batch.NTargets)
	}
	if batch.NTimepoints != 1 {
		t.Fatalf("XICBatchMS1 NTimepoints = %d, want 1 MS1 scan", batch.NTimepoints)
	}

	want, err := rf.XICMS1(500.1, 50)
	if err != nil {
		t.Fatalf("XICMS1 failed: %v", err)
	}
	got := batch.Sample(0, 0)
	if len(got.Intensity) != len(want.Intensity) {
		t.Fatalf("batch sample length = %d, want %d", len(got.Intensity), len(want.Intensity))
	}
	for i := range want.Intensity {
		if got.Intensity[i] != want.Intensity[i] {
			t.Errorf("batch.Intensity[%d] = %v, want %v", i, got.Intensity[i], want.Intensity[i])
		}
		if got.RT[i] != want.RT[i] {
			t.Errorf("batch.RT[%d] = %v, want %v", i, got.RT[i], want.RT[i])
		}
	}
}

func TestWindowSetSweepMatchesBinarySearch(t *testing.T) {
	mz := []float64{100, 150, 200, 250, 300, 350}
	intensity := []float64{1, 2, 3, 4, 5, 6}

	targets := make([]MzRange, 0, sweepTargetThreshold+5)
	for i := 0; i < sweepTargetThreshold+5; i++ {
		targets = append(targets, MzRange{Target: 100 + float64(i)*40, PpmTol: 2e5})
	}

	sweepSet := newWindowSet(targets)
	sweepSums := sweepSet.sums(mz, intensity)

	binSet := newWindowSet(targets[:sweepTargetThreshold])
	binSums := binSet.sums(mz, intensity)

	for i := range binSums {
		if sweepSums[i] != binSums[i] {
			t.Errorf("sweep sums[%d] = %v, want %v (binary-search result)", i, sweepSums[i], binSums[i])
		}
	}
}

func TestInterpolateOnGrid(t *testing.T) {
	c := Chromatogram{
		RT:        []float64{0, 1, 2},
		Intensity: []float64{0, 10, 20},
	}
	grid := []float64{-1, 0.5, 1.5, 5}
	got := InterpolateOnGrid(c, grid)
	want := []float64{0, 5, 15, 20}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("InterpolateOnGrid[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
