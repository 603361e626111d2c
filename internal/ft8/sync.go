package ft8

import "math"

// SyncMap holds the Costas-triplet correlation power over a
// (frequency bin, time lag) grid. M[i-IMin][j-JMin] is the power at
// frequency bin i and lag j (in units of NSTEP-sample time steps).
type SyncMap struct {
	M        [][]float64
	IMin     int
	IMax     int
	JMin     int
	JMax     int
}

const (
	lagMin = -62
	lagMax = 62
)

// jstrt is spec.md's truncation (not rounding) of 0.5/tstep: trunc(12.5) = 12.
// Getting this wrong (rounding to 13) misaligns every candidate's timing.
var jstrt = int(math.Trunc(0.5 / TStep))

const (
	nssy = SamplesPerSym / NSTEP // 4 spectrogram columns per symbol
	nfos = NFFT1 / SamplesPerSym // 2 spectrogram bins per FT8 tone
)

// ComputeSync evaluates the two-Costas-array and three-Costas-array
// correlation power described in spec.md §4.2 over the given frequency
// search range.
func ComputeSync(spec *Spectrum, freqMinHz, freqMaxHz float64) *SyncMap {
	df := float64(SampleRate) / float64(NFFT1)
	iMin := int(freqMinHz/df + 0.5)
	iMax := int(freqMaxHz/df + 0.5)
	if iMin < 0 {
		iMin = 0
	}
	maxBin := len(spec.Bins) - 1 - nfos*6
	if iMax > maxBin {
		iMax = maxBin
	}
	if iMax < iMin {
		iMax = iMin
	}

	nrows := iMax - iMin + 1
	ncolsLag := lagMax - lagMin + 1
	m := make([][]float64, nrows)
	for i := range m {
		m[i] = make([]float64, ncolsLag)
	}

	for i := iMin; i <= iMax; i++ {
		row := m[i-iMin]
		for j := lagMin; j <= lagMax; j++ {
			row[j-lagMin] = syncPower(spec, i, j)
		}
	}

	return &SyncMap{M: m, IMin: iMin, IMax: iMax, JMin: lagMin, JMax: lagMax}
}

// syncPower computes max(sync_abc, sync_bc) for one (freq bin, lag) cell.
func syncPower(spec *Spectrum, i, j int) float64 {
	var tp, bp [3]float64

	for pi, p := range CostasPositions {
		var t, b float64
		for n := 0; n < 7; n++ {
			col := j + jstrt + nssy*n + nssy*p
			if col < 0 || col >= spec.NCols {
				continue
			}
			c := Costas[n]
			t += spec.At(i+nfos*c, col)
			for k := 0; k < 7; k++ {
				b += spec.At(i+nfos*k, col)
			}
		}
		tp[pi] = t
		bp[pi] = b
	}

	tAll := tp[0] + tp[1] + tp[2]
	bAll := bp[0] + bp[1] + bp[2]
	syncABC := ratio(tAll, bAll)

	tBC := tp[1] + tp[2]
	bBC := bp[1] + bp[2]
	syncBC := ratio(tBC, bBC)

	if syncABC > syncBC {
		return syncABC
	}
	return syncBC
}

// ratio implements T / ((B-T)/6), returning 0 for a zero denominator
// rather than NaN/Inf.
func ratio(t, b float64) float64 {
	denom := (b - t) / 6
	if denom == 0 {
		return 0
	}
	return t / denom
}

// At returns M[i][j], or 0 if out of range.
func (sm *SyncMap) At(i, j int) float64 {
	if i < sm.IMin || i > sm.IMax || j < sm.JMin || j > sm.JMax {
		return 0
	}
	return sm.M[i-sm.IMin][j-sm.JMin]
}
