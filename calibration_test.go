// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

import "testing"

func TestFrequencyToMzUncalibrated(t *testing.T) {
	if got := FrequencyToMz(123.456, nil); got != 123.456 {
		t.Errorf("FrequencyToMz(nil) = %v, want passthrough 123.456", got)
	}
	if got := FrequencyToMz(1, []float64{1, 2, 3}); got != 1 {
		t.Errorf("FrequencyToMz with 3 params = %v, want passthrough identity", got)
	}
}

func TestFrequencyToMzLTQFT(t *testing.T) {
	params := []float64{1000.0, 5.0, 0, 0}
	freq := 10.0
	want := params[0] / (freq + params[1])
	if got := FrequencyToMz(freq, params); got != want {
		t.Errorf("FrequencyToMz(4 params) = %v, want %v", got, want)
	}
}

func TestFrequencyToMzPolynomial(t *testing.T) {
	params := []float64{1, 1, 1, 0, 0, 0, 0}
	freq := 2.0
	want := params[0] + params[1]/freq + params[2]/(freq*freq)
	if got := FrequencyToMz(freq, params); got != want {
		t.Errorf("FrequencyToMz(7 params) = %v, want %v", got, want)
	}
}
