// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

// FrequencyToMz converts a detector frequency into m/z using an event's
// calibrator coefficients. The calibrator count selects the formula:
//
//   - 0 params: the stored value already is m/z; frequency is returned
//     unchanged.
//   - 4 params: the LTQ-FT form m/z = A/(f+B), using params[0] and
//     params[1]; the remaining two params are unused by the mass
//     formula.
//   - 7 params: a polynomial over inverse powers of frequency,
//     m/z = sum(params[i] / f^i) for i in 0..6.
//
// Any other calibrator count is treated as uncalibrated (identity).
func FrequencyToMz(frequency float64, params []float64) float64 {
	switch len(params) {
	case 0:
		return frequency
	case 4:
		a, b := params[0], params[1]
		return a / (frequency + b)
	case 7:
		mz := 0.0
		inv := 1.0
		for i := 0; i < 7; i++ {
			mz += params[i] * inv
			inv /= frequency
		}
		return mz
	default:
		return frequency
	}
}
