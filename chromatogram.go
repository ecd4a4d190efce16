// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package rawfile

import (
	"sort"
	"sync"
)

// Chromatogram is a pair of parallel time/intensity series, one point
// per scan that contributed to it.
type Chromatogram struct {
	RT        []float64
	Intensity []float64
}

// MzRange is an inclusive target window used by the XIC family.
type MzRange struct {
	Target float64
	PpmTol float64
}

// ppmWindow returns the [low, high] m/z bounds of target at the given
// ppm tolerance.
func ppmWindow(target, ppm float64) (float64, float64) {
	delta := target * ppm / 1e6
	return target - delta, target + delta
}

// TIC returns the total-ion-current chromatogram: the sum of every
// centroid peak's intensity per scan, taken directly from the scan
// index so it never needs to decode a single packet.
func (rf *RawFile) TIC() Chromatogram {
	c := Chromatogram{
		RT:        make([]float64, len(rf.ScanIndex)),
		Intensity: make([]float64, len(rf.ScanIndex)),
	}
	for i, e := range rf.ScanIndex {
		c.RT[i] = e.RT
		c.Intensity[i] = e.TIC
	}
	return c
}

// BPC returns the base-peak chromatogram: the most intense centroid
// peak's intensity per scan, also read directly from the scan index.
func (rf *RawFile) BPC() Chromatogram {
	c := Chromatogram{
		RT:        make([]float64, len(rf.ScanIndex)),
		Intensity: make([]float64, len(rf.ScanIndex)),
	}
	for i, e := range rf.ScanIndex {
		c.RT[i] = e.RT
		c.Intensity[i] = e.BasePeakIntensity
	}
	return c
}

// XIC sums the centroid intensity of peaks falling within the ppm window
// of targetMz, producing one point per scan regardless of MS level. A
// scan whose index-level mass range cannot contain the window is never
// decoded; its point is emitted as zero intensity directly from the
// index.
func (rf *RawFile) XIC(targetMz, ppm float64) (Chromatogram, error) {
	return rf.xicOverScans(targetMz, ppm, false)
}

// XICMS1 is XIC restricted to survey (MS1) scans, identified from the
// "Master Scan Number" trailer field rather than by decoding spectral
// data.
func (rf *RawFile) XICMS1(targetMz, ppm float64) (Chromatogram, error) {
	return rf.xicOverScans(targetMz, ppm, true)
}

func (rf *RawFile) xicOverScans(targetMz, ppm float64, ms1Only bool) (Chromatogram, error) {
	lo, hi := ppmWindow(targetMz, ppm)

	var c Chromatogram
	var candidates []int // ScanIndex positions that need a decode
	var candidateSlots []int // c.Intensity index each candidate fills

	for i, e := range rf.ScanIndex {
		if ms1Only && !rf.isMS1(i) {
			continue
		}
		c.RT = append(c.RT, e.RT)
		c.Intensity = append(c.Intensity, 0)
		if e.HighMz < lo || e.LowMz > hi {
			continue
		}
		candidates = append(candidates, i)
		candidateSlots = append(candidateSlots, len(c.Intensity)-1)
	}

	scans, errs := rf.decodeIndices(candidates)
	for pos, slot := range candidateSlots {
		if errs[pos] != nil {
			continue
		}
		c.Intensity[slot] = sumInWindow(scans[pos].CentroidMz, scans[pos].CentroidIntensity, lo, hi)
	}
	return c, nil
}

func sumInWindow(mz, intensity []float64, lo, hi float64) float64 {
	// mz is ascending within a scan's centroid list for every packet
	// family this decoder supports, so a binary search bounds the scan
	// before the linear sum.
	start := sort.SearchFloat64s(mz, lo)
	var sum float64
	for i := start; i < len(mz) && mz[i] <= hi; i++ {
		sum += intensity[i]
	}
	return sum
}

// sweepTargetThreshold is the target count above which XICBatchMS1 and
// BatchXIC switch from one binary search per target to a single sweep
// over both the sorted target list and each scan's sorted centroid list.
const sweepTargetThreshold = 64

// windowSet is a batch of ppm-tolerance m/z windows sorted by their low
// bound, with a mapping back to the caller's original target order.
type windowSet struct {
	lo, hi []float64
	order  []int
}

func newWindowSet(targets []MzRange) *windowSet {
	order := make([]int, len(targets))
	lo := make([]float64, len(targets))
	hi := make([]float64, len(targets))
	for i, t := range targets {
		lo[i], hi[i] = ppmWindow(t.Target, t.PpmTol)
		order[i] = i
	}
	ws := &windowSet{lo: lo, hi: hi, order: order}
	sort.Sort(ws)
	return ws
}

func (w *windowSet) Len() int      { return len(w.lo) }
func (w *windowSet) Swap(i, j int) {
	w.lo[i], w.lo[j] = w.lo[j], w.lo[i]
	w.hi[i], w.hi[j] = w.hi[j], w.hi[i]
	w.order[i], w.order[j] = w.order[j], w.order[i]
}
func (w *windowSet) Less(i, j int) bool { return w.lo[i] < w.lo[j] }

// overlapsAny reports whether any window in the set could contain a peak
// within [rangeLo, rangeHi], used to skip decoding a scan whose own mass
// range excludes every requested target.
func (w *windowSet) overlapsAny(rangeLo, rangeHi float64) bool {
	for i := range w.lo {
		if w.hi[i] >= rangeLo && w.lo[i] <= rangeHi {
			return true
		}
	}
	return false
}

// sums returns, in the caller's original target order, the intensity sum
// within each window over mz/intensity. Below sweepTargetThreshold it
// binary-searches each window independently; above it, it walks the
// sorted window list and the scan's sorted centroid list together so the
// combined cost is O(peaks + targets) rather than O(targets * log(peaks)).
func (w *windowSet) sums(mz, intensity []float64) []float64 {
	out := make([]float64, len(w.lo))
	if len(w.lo) > sweepTargetThreshold {
		peak := 0
		for t := range w.lo {
			for peak < len(mz) && mz[peak] < w.lo[t] {
				peak++
			}
			var sum float64
			for p := peak; p < len(mz) && mz[p] <= w.hi[t]; p++ {
				sum += intensity[p]
			}
			out[w.order[t]] = sum
		}
		return out
	}
	for t := range w.lo {
		out[w.order[t]] = sumInWindow(mz, intensity, w.lo[t], w.hi[t])
	}
	return out
}

// XICBatchMS1 extracts many MS1 ion chromatograms from this file in a
// single pass over its scans: each MS1 scan is decoded at most once and
// swept against every target window, rather than re-decoding the scan
// once per target the way repeated XICMS1 calls would. The result is a
// single-sample tensor (NSamples == 1) sharing its shape with BatchXIC's
// multi-file output.
func (rf *RawFile) XICBatchMS1(targets []MzRange) BatchXicResult {
	result := BatchXicResult{NSamples: 1, NTargets: len(targets), SampleNames: []string{""}}
	if len(targets) == 0 {
		return result
	}
	windows := newWindowSet(targets)

	var candidates []int
	for i, e := range rf.ScanIndex {
		if !rf.isMS1(i) {
			continue
		}
		result.RTGrid = append(result.RTGrid, e.RT)
		if !windows.overlapsAny(e.LowMz, e.HighMz) {
			continue
		}
		candidates = append(candidates, i)
	}
	result.NTimepoints = len(result.RTGrid)
	result.Data = make([]float64, result.NTargets*result.NTimepoints)

	scans, errs := rf.decodeIndices(candidates)
	// Map each decoded candidate back to its timepoint column. Both
	// result.RTGrid and candidates are built from the same ascending
	// ScanIndex walk, so a single merge pass suffices.
	col := 0
	ci := 0
	for i := range rf.ScanIndex {
		if !rf.isMS1(i) {
			continue
		}
		if ci < len(candidates) && candidates[ci] == i {
			if errs[ci] == nil {
				sums := windows.sums(scans[ci].CentroidMz, scans[ci].CentroidIntensity)
				for t, v := range sums {
					result.Data[t*result.NTimepoints+col] = v
				}
			}
			ci++
		}
		col++
	}
	return result
}

// BatchXicResult is the flattened tensor produced by XICBatchMS1 and
// BatchXIC: one row-major block per sample, each holding NTargets rows of
// NTimepoints intensities aligned to RTGrid. Data[s*NTargets*NTimepoints +
// t*NTimepoints + i] is sample s's intensity for target t at RTGrid[i].
type BatchXicResult struct {
	RTGrid      []float64
	Data        []float64
	SampleNames []string
	NSamples    int
	NTargets    int
	NTimepoints int
}

// Sample returns sample s's chromatogram for target t as a Chromatogram
// sharing RTGrid.
func (b BatchXicResult) Sample(s, t int) Chromatogram {
	start := (s*b.NTargets + t) * b.NTimepoints
	return Chromatogram{RT: b.RTGrid, Intensity: b.Data[start : start+b.NTimepoints]}
}

// BatchXIC opens every path in paths, extracts each file's MS1 ion
// chromatograms for targets, and interpolates them onto a shared
// retention-time grid. The grid spans the intersection of every
// successfully opened file's [start_time, end_time] (or exactly rtRange
// when it is non-nil) at the given resolution (minutes per point). A file that
// fails to open is dropped with a logged reason; the remaining files form
// the result in their original relative order.
func BatchXIC(paths []string, targets []MzRange, resolution float64, rtRange *[2]float64, opts *Options) (BatchXicResult, []error) {
	logger := opts.logger()
	type opened struct {
		path string
		rf   *RawFile
		err  error
	}
	files := make([]opened, len(paths))

	jobs := make(chan int, len(paths))
	var wg sync.WaitGroup
	workers := opts.parallelism()
	if workers > len(paths) {
		workers = len(paths)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rf, err := Open(paths[i], opts)
				if err != nil {
					logger.Warnf("%s: open failed: %v", paths[i], err)
				}
				files[i] = opened{path: paths[i], rf: rf, err: err}
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var kept []opened
	errs := make([]error, 0, len(paths))
	for _, f := range files {
		if f.err != nil {
			errs = append(errs, f.err)
			continue
		}
		kept = append(kept, f)
	}

	var lo, hi float64
	if rtRange != nil {
		lo, hi = rtRange[0], rtRange[1]
	} else if len(kept) > 0 {
		lo, hi = kept[0].rf.RunHeader.StartTime, kept[0].rf.RunHeader.EndTime
		for _, f := range kept[1:] {
			if f.rf.RunHeader.StartTime > lo {
				lo = f.rf.RunHeader.StartTime
			}
			if f.rf.RunHeader.EndTime < hi {
				hi = f.rf.RunHeader.EndTime
			}
		}
	}

	result := BatchXicResult{NSamples: len(kept), NTargets: len(targets)}
	if resolution <= 0 || hi <= lo || len(kept) == 0 || len(targets) == 0 {
		for _, f := range kept {
			result.SampleNames = append(result.SampleNames, f.path)
			f.rf.Close()
		}
		return result, errs
	}

	n := int((hi-lo)/resolution) + 1
	result.NTimepoints = n
	result.RTGrid = make([]float64, n)
	for i := range result.RTGrid {
		result.RTGrid[i] = lo + float64(i)*resolution
	}
	result.Data = make([]float64, len(kept)*len(targets)*n)
	result.SampleNames = make([]string, len(kept))

	for s, f := range kept {
		result.SampleNames[s] = f.path
		perFile := f.rf.XICBatchMS1(targets)
		for t := 0; t < len(targets); t++ {
			src := perFile.Sample(0, t)
			dst := InterpolateOnGrid(src, result.RTGrid)
			base := (s*len(targets) + t) * n
			copy(result.Data[base:base+n], dst)
		}
		f.rf.Close()
	}

	return result, errs
}

// InterpolateOnGrid resamples c onto grid's RT points by linear
// interpolation, with flat extrapolation outside c's own range. Batch
// callers use this to compare chromatograms decoded from files whose
// scans were not acquired at identical retention times.
func InterpolateOnGrid(c Chromatogram, grid []float64) []float64 {
	out := make([]float64, len(grid))
	if len(c.RT) == 0 {
		return out
	}
	for i, rt := range grid {
		out[i] = interpolateSeries(c.RT, c.Intensity, rt)
	}
	return out
}

func interpolateSeries(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	last := len(xs) - 1
	if x >= xs[last] {
		return ys[last]
	}
	i := sort.Search(len(xs), func(i int) bool { return xs[i] >= x })
	if i == 0 {
		return ys[0]
	}
	x0, x1 := xs[i-1], xs[i]
	if x1 == x0 {
		return ys[i-1]
	}
	t := (x - x0) / (x1 - x0)
	return ys[i-1] + t*(ys[i]-ys[i-1])
}
