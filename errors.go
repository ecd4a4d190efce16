// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

import (
	"errors"
	"fmt"
)

// Errors returned by Open/OpenBytes. Each aborts the open before a RawFile
// is produced.
var (
	// ErrNotRawFile is returned when the magic word at offset 0 does not
	// match the expected signature.
	ErrNotRawFile = errors.New("rawfile: not a raw file (magic mismatch)")

	// ErrStreamNotFound is returned when the container is missing a stream
	// the parser needs.
	ErrStreamNotFound = errors.New("rawfile: expected stream not found")

	// ErrCorruptedData names a violated structural invariant. No code path
	// in this package returns it: a centroid byte count that does not
	// evenly divide by the bytes-per-peak is reported per scan as a
	// *ScanDecodeError.
	ErrCorruptedData = errors.New("rawfile: corrupted data")
)

// UnsupportedVersionError is returned when the file header declares a
// version outside the supported range 57..=66.
type UnsupportedVersionError struct {
	Version uint32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("rawfile: unsupported version %d", e.Version)
}

// ScanOutOfRangeError is returned by Scan/ScansParallel when the requested
// scan number falls outside [FirstScan, LastScan].
type ScanOutOfRangeError struct {
	ScanNumber int32
	FirstScan  int32
	LastScan   int32
}

func (e *ScanOutOfRangeError) Error() string {
	return fmt.Sprintf("rawfile: scan %d out of range [%d, %d]",
		e.ScanNumber, e.FirstScan, e.LastScan)
}

// ScanDecodeError is returned for a single scan whose packet data could not
// be decoded. It never aborts a batch operation; the surrounding call
// collects these per scan and continues with the rest.
type ScanDecodeError struct {
	ScanNumber int32
	Offset     int64
	Reason     string
}

func (e *ScanDecodeError) Error() string {
	return fmt.Sprintf("rawfile: scan %d: decode failed at offset %d: %s",
		e.ScanNumber, e.Offset, e.Reason)
}

// DecodeError is returned by ByteReader for any read that would exceed the
// underlying slice. It carries the offset and reason for diagnostics.
type DecodeError struct {
	Offset int64
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("rawfile: decode error at offset %d: %s", e.Offset, e.Reason)
}
