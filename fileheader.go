// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

// FileHeader is the fixed prelude at the start of the main data stream:
// a magic word, a vendor signature, and the format version that governs
// every version-sensitive record that follows.
type FileHeader struct {
	Magic     uint16
	Signature string
	Version   uint32
}

// parseFileHeader reads and validates the file header. It is the only
// structural parse step that can reject the stream outright before any
// other component runs.
func parseFileHeader(r *ByteReader) (FileHeader, error) {
	var h FileHeader

	magic, err := r.ReadU16(0)
	if err != nil {
		return h, err
	}
	if magic != FileMagic {
		return h, ErrNotRawFile
	}
	h.Magic = magic

	sigBytes, err := r.ReadBytes(FinniganSignatureOffset, FinniganSignatureLength)
	if err != nil {
		return h, err
	}
	h.Signature = decodeFixedUTF16(sigBytes)

	version, err := r.ReadU32(VersionOffset)
	if err != nil {
		return h, err
	}
	if !IsSupportedVersion(version) {
		return h, &UnsupportedVersionError{Version: version}
	}
	h.Version = version

	return h, nil
}
