// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

// decodeScanData dispatches entry's packet to the legacy or modern family
// decoder, chooses the frequency-to-mz calibration path for the owning
// scan event's analyzer, and returns the decoded arrays. It never returns
// a bare byte-reader error directly; any failure is wrapped into a
// *ScanDecodeError carrying the scan number so batch callers can keep
// going past one bad record.
func decodeScanData(r *ByteReader, entry ScanIndexEntry, scanNumber int32, event *ScanEvent, opts DecodeOptions) (mz, intensity, profMz, profIntensity []float64, charges []int16, err error) {
	pt := entry.PacketType()

	if IsUnimplementedPacketType(pt) {
		return nil, nil, nil, nil, nil, &ScanDecodeError{
			ScanNumber: scanNumber,
			Offset:     entry.Offset,
			Reason:     "packet type has no decompressor in this decoder",
		}
	}

	var calibrators []float64
	useCalibrator := false
	if event != nil {
		calibrators = event.Calibrators
		useCalibrator = event.Preamble.Analyzer == AnalyzerFTMS || event.Preamble.Analyzer == AnalyzerASTMS
	}

	switch {
	// The legacy family is 0-5 and 14-17; 8-13 are not legacy spectra and
	// fall through to the unrecognized case.
	case pt >= PacketLegacyMin && pt <= PacketLegacyMax && (pt <= 5 || pt >= 14):
		mz, intensity, profMz, profIntensity, charges, err = decodeLegacyPacket(r, entry.Offset, calibrators, opts)
	case pt >= PacketModernFTLTMin && pt <= PacketModernFTLTMax:
		mz, intensity, profMz, profIntensity, charges, err = decodeModernPacket(r, entry.Offset, calibrators, useCalibrator, opts)
	default:
		err = &ScanDecodeError{
			ScanNumber: scanNumber,
			Offset:     entry.Offset,
			Reason:     "unrecognized packet type",
		}
	}

	if err != nil {
		if sde, ok := err.(*ScanDecodeError); ok {
			sde.ScanNumber = scanNumber
			return nil, nil, nil, nil, nil, sde
		}
		return nil, nil, nil, nil, nil, &ScanDecodeError{
			ScanNumber: scanNumber,
			Offset:     entry.Offset,
			Reason:     err.Error(),
		}
	}

	if len(mz) != len(intensity) {
		return nil, nil, nil, nil, nil, &ScanDecodeError{
			ScanNumber: scanNumber,
			Offset:     entry.Offset,
			Reason:     "centroid mz and intensity arrays have different lengths",
		}
	}

	return mz, intensity, profMz, profIntensity, charges, nil
}
