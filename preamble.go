// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

// oldVirtualControllerInfoSize and virtualControllerInfoSize are the
// on-disk sizes of the pre/post-v64 virtual controller table entries.
const (
	oldVirtualControllerInfoSize = 12
	virtualControllerInfoSize    = 16
	virtualControllerCount       = 64

	// msControllerType identifies the virtual controller that owns the
	// run header, as opposed to auxiliary (UV, analog, ...) controllers.
	msControllerType = 0
)

// virtualController is the canonical (post-promotion) shape of one
// virtual-controller-table entry, regardless of source version.
type virtualController struct {
	Type   int32
	Index  int32
	Offset int64
}

// rawFileInfoPreamble is the acquisition preamble parsed right after the
// file header. Open uses only RunHeaderAddress; CreationTime and the
// other fields are parsed but not carried onto RawFile, and reading them
// keeps the cursor aligned for the records that follow.
type rawFileInfoPreamble struct {
	CreationTime      systemTime
	IsInAcquisition   bool
	Controllers       []virtualController
	RunHeaderAddress  int64
	ComputerName      string
}

// systemTime mirrors the Win32 SYSTEMTIME structure: eight consecutive
// uint16 fields in wYear, wMonth, wDayOfWeek, wDay, wHour, wMinute,
// wSecond, wMilliseconds order.
type systemTime struct {
	Year, Month, DayOfWeek, Day, Hour, Minute, Second, Milliseconds uint16
}

func parseSystemTime(r *ByteReader, offset int64) (systemTime, int64, error) {
	var st systemTime
	fields := []*uint16{&st.Year, &st.Month, &st.DayOfWeek, &st.Day,
		&st.Hour, &st.Minute, &st.Second, &st.Milliseconds}
	pos := offset
	for _, f := range fields {
		v, err := r.ReadU16(pos)
		if err != nil {
			return st, 0, err
		}
		*f = v
		pos += 2
	}
	return st, pos - offset, nil
}

// parseRawFileInfoPreamble parses the acquisition preamble that follows
// the file header and locates the run header address from the first
// type-0 (MS) virtual controller.
func parseRawFileInfoPreamble(r *ByteReader, offset int64, version uint32) (rawFileInfoPreamble, int64, error) {
	var p rawFileInfoPreamble
	pos := offset

	st, n, err := parseSystemTime(r, pos)
	if err != nil {
		return p, 0, err
	}
	p.CreationTime = st
	pos += n

	inAcq, err := r.ReadI32(pos)
	if err != nil {
		return p, 0, err
	}
	p.IsInAcquisition = inAcq != 0
	pos += 4

	// Legacy 32-bit virtual-data offset and controller count.
	if _, err := r.ReadU32(pos); err != nil {
		return p, 0, err
	}
	pos += 4
	count, err := r.ReadU32(pos)
	if err != nil {
		return p, 0, err
	}
	pos += 4

	oldControllers := make([]virtualController, virtualControllerCount)
	for i := 0; i < virtualControllerCount; i++ {
		typ, err := r.ReadI32(pos)
		if err != nil {
			return p, 0, err
		}
		idx, err := r.ReadI32(pos + 4)
		if err != nil {
			return p, 0, err
		}
		off, err := r.ReadU32(pos + 8)
		if err != nil {
			return p, 0, err
		}
		oldControllers[i] = virtualController{Type: typ, Index: idx, Offset: int64(off)}
		pos += oldVirtualControllerInfoSize
	}

	controllers := oldControllers
	if Uses64BitAddresses(version) {
		if _, err := r.ReadU64(pos); err != nil {
			return p, 0, err
		}
		pos += 8
		newControllers := make([]virtualController, virtualControllerCount)
		for i := 0; i < virtualControllerCount; i++ {
			typ, err := r.ReadI32(pos)
			if err != nil {
				return p, 0, err
			}
			idx, err := r.ReadI32(pos + 4)
			if err != nil {
				return p, 0, err
			}
			off, err := r.ReadI64(pos + 8)
			if err != nil {
				return p, 0, err
			}
			newControllers[i] = virtualController{Type: typ, Index: idx, Offset: off}
			pos += virtualControllerInfoSize
		}
		controllers = newControllers
	}
	p.Controllers = controllers

	if HasCycleAndDataSize(version) {
		// Blob appendix: (i64 blob_offset, u32 blob_size), not surfaced.
		pos += 12
	}

	// Count is read but not otherwise used: the controller tables are
	// always fixed-size (64 entries), with unused entries left zeroed.
	_ = count

	for i := 0; i < 5; i++ {
		_, n, err := r.ReadPascalUTF16(pos)
		if err != nil {
			return p, 0, err
		}
		pos += n
	}

	if version >= 7 {
		name, n, err := r.ReadPascalUTF16(pos)
		if err != nil {
			return p, 0, err
		}
		p.ComputerName = name
		pos += n
	}

	addr := int64(-1)
	for _, c := range controllers {
		if c.Type == msControllerType {
			addr = c.Offset
			break
		}
	}
	p.RunHeaderAddress = addr

	return p, pos - offset, nil
}
