// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

// scanEventPreambleSize is the fixed per-version byte count of a scan
// event's preamble block. Only the first 28 bytes are interpreted
// (seven i32 fields); the remainder is vendor-reserved and must still be
// consumed so later records stay aligned, per the source format's
// byte-aligned-but-not-fully-documented preamble layout.
var scanEventPreambleSize = map[uint32]int64{
	57: 28, 58: 30, 59: 30, 60: 32, 61: 32,
	62: 34, 63: 34, 64: 36, 65: 38, 66: 40,
}

// ScanEventPreamble is the interpreted subset of a scan event's
// pre-acquisition template.
type ScanEventPreamble struct {
	Polarity   Polarity
	ScanMode   int32
	MSLevel    int32 // -3..=10
	ScanType   int32
	Ionization int32
	Activation int32
	Analyzer   MassAnalyzer
}

// Reaction is one fragmentation step within a scan event.
type Reaction struct {
	PrecursorMz    float64
	IsolationWidth float64
	CollisionEnergy float64

	Valid              bool
	Activation         ActivationType
	MultipleActivation bool

	// v >= 65 only.
	FirstPrecursorMass float64
	LastPrecursorMass  float64
	RangeValid         bool

	// v >= 66 only.
	IsolationWidthOffset float64
}

// reactionSize returns the on-disk size of a Reaction record for version.
func reactionSize(version uint32) int64 {
	switch {
	case version >= 66:
		return 56
	case version == 65:
		return 48
	default:
		return 28
	}
}

func parseReaction(r *ByteReader, offset int64, version uint32) (Reaction, error) {
	var rc Reaction
	pos := offset

	mz, err := r.ReadF64(pos)
	if err != nil {
		return rc, err
	}
	rc.PrecursorMz = mz
	pos += 8

	iw, err := r.ReadF64(pos)
	if err != nil {
		return rc, err
	}
	rc.IsolationWidth = iw
	pos += 8

	ce, err := r.ReadF64(pos)
	if err != nil {
		return rc, err
	}
	rc.CollisionEnergy = ce
	pos += 8

	validity, err := r.ReadU32(pos)
	if err != nil {
		return rc, err
	}
	pos += 4

	rc.Valid = validity&0x1 != 0
	rc.Activation = ActivationType((validity >> 1) & 0xFF)
	rc.MultipleActivation = (validity>>12)&0x1 != 0

	if version >= 65 {
		fpm, err := r.ReadF64(pos)
		if err != nil {
			return rc, err
		}
		rc.FirstPrecursorMass = fpm
		pos += 8

		lpm, err := r.ReadF64(pos)
		if err != nil {
			return rc, err
		}
		rc.LastPrecursorMass = lpm
		pos += 8

		rv, err := r.ReadI32(pos)
		if err != nil {
			return rc, err
		}
		rc.RangeValid = rv != 0
		pos += 4
	}

	if version >= 66 {
		iwo, err := r.ReadF64(pos)
		if err != nil {
			return rc, err
		}
		rc.IsolationWidthOffset = iwo
	}

	return rc, nil
}

// MassRange is an inclusive [Low, High] m/z window.
type MassRange struct {
	Low, High float64
}

// ScanEvent is a pre-acquisition template referenced by segment and
// event index from each scan.
type ScanEvent struct {
	SegmentIndex int
	EventIndex   int

	Preamble ScanEventPreamble

	Reactions  []Reaction
	MassRanges []MassRange

	// Calibrators has length 0, 4 or 7; see FrequencyToMz.
	Calibrators []float64

	SourceFragmentEnergies  []float64
	SourceFragmentMassRanges []MassRange

	// Name is only present for v >= 65.
	Name string
}

func readF64Count(r *ByteReader, pos int64) ([]float64, int64, error) {
	n, err := r.ReadU32(pos)
	if err != nil {
		return nil, 0, err
	}
	pos += 4
	out := make([]float64, n)
	for i := range out {
		v, err := r.ReadF64(pos)
		if err != nil {
			return nil, 0, err
		}
		out[i] = v
		pos += 8
	}
	return out, 4 + int64(n)*8, nil
}

func readMassRanges(r *ByteReader, pos int64) ([]MassRange, int64, error) {
	n, err := r.ReadU32(pos)
	if err != nil {
		return nil, 0, err
	}
	pos += 4
	out := make([]MassRange, n)
	for i := range out {
		lo, err := r.ReadF64(pos)
		if err != nil {
			return nil, 0, err
		}
		hi, err := r.ReadF64(pos + 8)
		if err != nil {
			return nil, 0, err
		}
		out[i] = MassRange{Low: lo, High: hi}
		pos += 16
	}
	return out, 4 + int64(n)*16, nil
}

// parseScanEvent decodes one scan event at offset, returning the event
// and the number of bytes consumed.
func parseScanEvent(r *ByteReader, offset int64, version uint32, segIdx, evtIdx int) (ScanEvent, int64, error) {
	var ev ScanEvent
	ev.SegmentIndex = segIdx
	ev.EventIndex = evtIdx
	pos := offset

	preSize, ok := scanEventPreambleSize[version]
	if !ok {
		preSize = 28
	}
	preBase := pos

	pol, err := r.ReadI32(preBase)
	if err != nil {
		return ev, 0, err
	}
	scanMode, err := r.ReadI32(preBase + 4)
	if err != nil {
		return ev, 0, err
	}
	msLevel, err := r.ReadI32(preBase + 8)
	if err != nil {
		return ev, 0, err
	}
	scanType, err := r.ReadI32(preBase + 12)
	if err != nil {
		return ev, 0, err
	}
	ionization, err := r.ReadI32(preBase + 16)
	if err != nil {
		return ev, 0, err
	}
	activation, err := r.ReadI32(preBase + 20)
	if err != nil {
		return ev, 0, err
	}
	analyzer, err := r.ReadI32(preBase + 24)
	if err != nil {
		return ev, 0, err
	}
	ev.Preamble = ScanEventPreamble{
		Polarity:   Polarity(pol),
		ScanMode:   scanMode,
		MSLevel:    msLevel,
		ScanType:   scanType,
		Ionization: ionization,
		Activation: activation,
		Analyzer:   MassAnalyzer(analyzer),
	}
	pos += preSize

	nReactions, err := r.ReadU32(pos)
	if err != nil {
		return ev, 0, err
	}
	pos += 4
	rSize := reactionSize(version)
	reactions := make([]Reaction, nReactions)
	for i := range reactions {
		rc, err := parseReaction(r, pos, version)
		if err != nil {
			return ev, 0, err
		}
		reactions[i] = rc
		pos += rSize
	}
	ev.Reactions = reactions

	massRanges, n, err := readMassRanges(r, pos)
	if err != nil {
		return ev, 0, err
	}
	ev.MassRanges = massRanges
	pos += n

	calibrators, n, err := readF64Count(r, pos)
	if err != nil {
		return ev, 0, err
	}
	ev.Calibrators = calibrators
	pos += n

	sfEnergies, n, err := readF64Count(r, pos)
	if err != nil {
		return ev, 0, err
	}
	ev.SourceFragmentEnergies = sfEnergies
	pos += n

	sfRanges, n, err := readMassRanges(r, pos)
	if err != nil {
		return ev, 0, err
	}
	ev.SourceFragmentMassRanges = sfRanges
	pos += n

	if version >= 65 {
		name, n, err := r.ReadPascalUTF16(pos)
		if err != nil {
			return ev, 0, err
		}
		ev.Name = name
		pos += n
	}

	return ev, pos - offset, nil
}

// parseScanEvents reads the segment/event tree located at addr.
func parseScanEvents(r *ByteReader, addr int64, version uint32) ([]ScanEvent, error) {
	var events []ScanEvent
	pos := addr

	nSegments, err := r.ReadU32(pos)
	if err != nil {
		return nil, err
	}
	pos += 4

	for seg := 0; seg < int(nSegments); seg++ {
		nEvents, err := r.ReadU32(pos)
		if err != nil {
			return nil, err
		}
		pos += 4

		for evt := 0; evt < int(nEvents); evt++ {
			ev, n, err := parseScanEvent(r, pos, version, seg, evt)
			if err != nil {
				return nil, err
			}
			events = append(events, ev)
			pos += n
		}
	}

	return events, nil
}
