// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

import (
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"

	rlog "github.com/msraw/rawfile/log"
)

// preambleOffset is the fixed start of the acquisition preamble,
// immediately following the file header's version field.
const preambleOffset = VersionOffset + 4

// StreamSource abstracts the container a RawFile is read from. The
// default Open/OpenBytes constructors use a single flat byte view and
// never need this interface themselves; it exists for callers that
// decode from a multi-stream container format instead of a bare file.
type StreamSource interface {
	ListStreams() []string
	OpenStream(name string) ([]byte, error)
}

// Options configures how a RawFile is opened and decoded.
type Options struct {
	// Parallelism bounds the worker count used by ScansParallel. Zero or
	// a negative value selects four workers.
	Parallelism int

	// Decode controls which optional per-scan fields ScansParallel and
	// Scan populate.
	Decode DecodeOptions

	// Logger receives structural warnings (e.g. a scan that fails to
	// decode during a batch). Defaults to the package's error-level
	// stderr logger when nil.
	Logger *rlog.Helper
}

func (o *Options) logger() *rlog.Helper {
	if o == nil || o.Logger == nil {
		return rlog.Default()
	}
	return o.Logger
}

func (o *Options) parallelism() int {
	if o == nil || o.Parallelism <= 0 {
		return 4
	}
	return o.Parallelism
}

func (o *Options) decode() DecodeOptions {
	if o == nil {
		return DecodeOptions{}
	}
	return o.Decode
}

// RawFile is an opened, indexed view over one instrument data file. It
// holds no decoded scans; Scan and ScansParallel decode packets on
// demand from the underlying byte view.
type RawFile struct {
	Version   uint32
	Header    FileHeader
	RunHeader RunHeader

	ScanIndex     []ScanIndexEntry
	ScanEvents    []ScanEvent
	TrailerLayout TrailerLayout

	// TrailerDataOffset is the absolute byte offset of the first
	// trailer-extra record, immediately after the GenericDataHeader
	// TrailerLayout was parsed from. Record i for a scan at ScanIndex
	// position i starts at TrailerDataOffset + i*TrailerLayout.RecordSize.
	TrailerDataOffset int64

	reader *ByteReader
	opts   *Options
	log    *rlog.Helper

	mmapped mmap.MMap
	file    *os.File
}

// Open memory-maps path and parses its structural metadata: the file
// header, run header, scan index, scan event tree and trailer layout.
// The returned RawFile must be closed with Close to release the
// mapping.
func Open(path string, opts *Options) (*RawFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	rf, err := openBytesInto([]byte(data), opts)
	if err != nil {
		data.Unmap()
		f.Close()
		return nil, err
	}
	rf.mmapped = data
	rf.file = f
	return rf, nil
}

// OpenBytes parses data already resident in memory. The caller retains
// ownership of data; Close on the returned RawFile is a no-op beyond
// releasing internal references.
func OpenBytes(data []byte, opts *Options) (*RawFile, error) {
	return openBytesInto(data, opts)
}

func openBytesInto(data []byte, opts *Options) (*RawFile, error) {
	r := NewByteReader(data, 0)

	header, err := parseFileHeader(r)
	if err != nil {
		return nil, err
	}

	preamble, _, err := parseRawFileInfoPreamble(r, preambleOffset, header.Version)
	if err != nil {
		return nil, err
	}
	if preamble.RunHeaderAddress < 0 {
		return nil, ErrStreamNotFound
	}

	runHeader, err := parseRunHeader(r, preamble.RunHeaderAddress, header.Version)
	if err != nil {
		return nil, err
	}

	numScans := int(runHeader.LastScan - runHeader.FirstScan + 1)
	if numScans < 0 {
		numScans = 0
	}
	scanIndex, err := parseScanIndex(r, runHeader.SpectrumOffset, header.Version, numScans)
	if err != nil {
		return nil, err
	}

	scanEvents, err := parseScanEvents(r, runHeader.TrailerScanEventOffset, header.Version)
	if err != nil {
		return nil, err
	}

	trailerLayout, headerSize, err := parseTrailerLayout(r, runHeader.TrailerExtraOffset)
	if err != nil {
		return nil, err
	}

	rf := &RawFile{
		Version:           header.Version,
		Header:            header,
		RunHeader:         runHeader,
		ScanIndex:         scanIndex,
		ScanEvents:        scanEvents,
		TrailerLayout:     trailerLayout,
		TrailerDataOffset: runHeader.TrailerExtraOffset + headerSize,
		reader:            r,
		opts:              opts,
		log:               opts.logger(),
	}
	return rf, nil
}

// Close releases the memory mapping, if any, and the underlying file
// handle. It is safe to call on a RawFile returned by OpenBytes.
func (rf *RawFile) Close() error {
	if rf.mmapped != nil {
		if err := rf.mmapped.Unmap(); err != nil {
			return err
		}
		rf.mmapped = nil
	}
	if rf.file != nil {
		err := rf.file.Close()
		rf.file = nil
		return err
	}
	return nil
}

// indexOf converts a scan number to its position in ScanIndex, or -1 if
// out of the file's first/last scan range.
func (rf *RawFile) indexOf(scanNumber int32) int {
	if scanNumber < rf.RunHeader.FirstScan || scanNumber > rf.RunHeader.LastScan {
		return -1
	}
	return int(scanNumber - rf.RunHeader.FirstScan)
}

// eventFor locates the scan event referenced by entry, or nil if the
// segment/event index has no matching template.
func (rf *RawFile) eventFor(entry ScanIndexEntry) *ScanEvent {
	for i := range rf.ScanEvents {
		ev := &rf.ScanEvents[i]
		if ev.SegmentIndex == int(entry.SegmentIndex) && ev.EventIndex == int(entry.EventIndex) {
			return ev
		}
	}
	return nil
}

// Scan decodes one acquisition cycle by scan number.
func (rf *RawFile) Scan(scanNumber int32) (Scan, error) {
	idx := rf.indexOf(scanNumber)
	if idx < 0 {
		return Scan{}, &ScanOutOfRangeError{
			ScanNumber: scanNumber,
			FirstScan:  rf.RunHeader.FirstScan,
			LastScan:   rf.RunHeader.LastScan,
		}
	}
	return rf.decodeAt(idx)
}

func (rf *RawFile) decodeAt(idx int) (Scan, error) {
	entry := rf.ScanIndex[idx]
	scanNumber := rf.RunHeader.FirstScan + int32(idx)
	event := rf.eventFor(entry)
	opts := rf.opts.decode()

	mz, intensity, profMz, profIntensity, charges, err := decodeScanData(rf.reader, entry, scanNumber, event, opts)
	if err != nil {
		return Scan{}, err
	}

	s := Scan{
		ScanNumber:        scanNumber,
		RT:                entry.RT,
		TIC:               entry.TIC,
		BasePeakMz:        entry.BasePeakMz,
		BasePeakIntensity: entry.BasePeakIntensity,
		CentroidMz:        mz,
		CentroidIntensity: intensity,
		CentroidCharge:    charges,
		ProfileMz:         profMz,
		ProfileIntensity:  profIntensity,
		Polarity:          PolarityUnknown,
		MSLevel:           1,
	}

	if event != nil {
		s.Polarity = event.Preamble.Polarity
		s.MSLevel = event.Preamble.MSLevel
		s.FilterString = event.Name
		if s.MSLevel >= 2 && len(event.Reactions) > 0 {
			last := event.Reactions[len(event.Reactions)-1]
			s.Precursor = &PrecursorInfo{
				Mz:                 last.PrecursorMz,
				IsolationWidth:     last.IsolationWidth,
				CollisionEnergy:    last.CollisionEnergy,
				Activation:         last.Activation,
				MultipleActivation: last.MultipleActivation,
			}
		}
	}

	return s, nil
}

// trailerRecordBase returns the absolute byte offset of the trailer-extra
// record for the scan at ScanIndex position idx.
func (rf *RawFile) trailerRecordBase(idx int) int64 {
	return rf.TrailerDataOffset + int64(idx)*rf.TrailerLayout.RecordSize
}

// isMS1 reports whether the scan at ScanIndex position idx is a survey
// (non-dependent) scan. It reads the "Master Scan Number" trailer field
// without decoding any spectral data; a file whose schema lacks that
// field falls back to the scan's programmed MS level from its scan
// event, which is also available without decode. A scan reachable by
// neither signal is assumed to be MS1.
func (rf *RawFile) isMS1(idx int) bool {
	if master, ok := rf.TrailerLayout.masterScanNumber(rf.reader, rf.trailerRecordBase(idx)); ok {
		return master == 0
	}
	if event := rf.eventFor(rf.ScanIndex[idx]); event != nil {
		return event.Preamble.MSLevel == 1
	}
	return true
}

// decodeIndices decodes the scans at the given ScanIndex positions using a
// bounded worker pool. Results and per-scan errors are returned in the same
// order as indices; a failure for one scan never aborts the others.
func (rf *RawFile) decodeIndices(indices []int) ([]Scan, []error) {
	n := len(indices)
	scans := make([]Scan, n)
	errs := make([]error, n)
	if n == 0 {
		return scans, errs
	}

	workers := rf.opts.parallelism()
	if workers > n {
		workers = n
	}

	jobs := make(chan int, n)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				s, err := rf.decodeAt(indices[i])
				scans[i] = s
				errs[i] = err
				if err != nil {
					rf.log.Warnf("scan %d: %v", rf.RunHeader.FirstScan+int32(indices[i]), err)
				}
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return scans, errs
}

// ScansParallel decodes every scan in [first, last] using a bounded
// worker pool, returning results in scan-number order alongside any
// per-scan decode errors at the matching index. A decode failure for
// one scan never aborts the others.
func (rf *RawFile) ScansParallel(first, last int32) ([]Scan, []error) {
	if first > last {
		return nil, nil
	}
	firstIdx := rf.indexOf(first)
	lastIdx := rf.indexOf(last)
	if firstIdx < 0 || lastIdx < 0 {
		n := int(last - first + 1)
		errs := make([]error, n)
		for i := range errs {
			errs[i] = &ScanOutOfRangeError{
				ScanNumber: first + int32(i),
				FirstScan:  rf.RunHeader.FirstScan,
				LastScan:   rf.RunHeader.LastScan,
			}
		}
		return make([]Scan, n), errs
	}

	n := lastIdx - firstIdx + 1
	scans := make([]Scan, n)
	errs := make([]error, n)

	workers := rf.opts.parallelism()
	if workers > n {
		workers = n
	}

	jobs := make(chan int, n)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				s, err := rf.decodeAt(firstIdx + i)
				scans[i] = s
				errs[i] = err
				if err != nil {
					rf.log.Warnf("scan %d: %v", first+int32(i), err)
				}
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return scans, errs
}
