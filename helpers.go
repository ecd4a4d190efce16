// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

import (
	"encoding/binary"
	"unicode/utf16"
)

// decodeFixedUTF16 decodes a fixed-width UTF-16LE byte run, such as the
// run header's 260-code-unit file name fields, stopping at the first NUL
// code unit (or the end of the buffer, whichever comes first).
func decodeFixedUTF16(b []byte) string {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u := binary.LittleEndian.Uint16(b[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}
