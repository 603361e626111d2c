package ft8

import (
	"fmt"
	"math"
)

// RefinedCandidate is the output of FineSync: a sub-bin-accurate
// (frequency, time) plus the 200 Hz complex baseband it was derived
// from, ready for symbol extraction.
type RefinedCandidate struct {
	FreqHz          float64
	TimeOffset      float64 // seconds, absolute from slot start
	CoarseSyncPower float64
	Baseband        []complex128 // length BasebandLen, centered at 0 Hz
}

const (
	coarseTimeSearch = 10   // +/- samples @ 200Hz (+/-50ms)
	fineTimeSearch   = 4    // +/- samples @ 200Hz (+/-20ms) second pass
	freqSearchHz     = 2.5  // +/- Hz
	freqStepHz       = 0.5
)

// FineSync implements spec.md §4.4: coarse time search, per-trial
// frequency re-downsampling, and an optional second time refinement.
func FineSync(audio []float64, c Candidate) (*RefinedCandidate, error) {
	s0 := int(math.Round((c.TimeOffset + 0.5) * DownsampleRate))

	cd0, err := Downsample200Hz(audio, 0, c.FreqHz)
	if err != nil {
		return nil, err
	}

	bestDt, _ := searchTime(cd0, s0, coarseTimeSearch)

	bestScore := math.Inf(-1)
	bestFreq := c.FreqHz
	bestBaseband := cd0
	bestDtAtBestFreq := bestDt

	for step := -int(freqSearchHz / freqStepHz); step <= int(freqSearchHz/freqStepHz); step++ {
		deltaF := float64(step) * freqStepHz
		trialFreq := c.FreqHz + deltaF
		cd, err := Downsample200Hz(audio, 0, trialFreq)
		if err != nil {
			continue
		}
		score := costasScore(cd, s0+bestDt)
		if score > bestScore {
			bestScore = score
			bestFreq = trialFreq
			bestBaseband = cd
			bestDtAtBestFreq = bestDt
		}
	}

	if math.IsNaN(bestScore) || math.IsInf(bestScore, 0) {
		return nil, fmt.Errorf("ft8: fine sync score non-finite for candidate at %.2f Hz", c.FreqHz)
	}

	finalDt, _ := searchTime(bestBaseband, s0+bestDtAtBestFreq, fineTimeSearch)
	bestStartSample := s0 + bestDtAtBestFreq + finalDt

	return &RefinedCandidate{
		FreqHz:          bestFreq,
		TimeOffset:      float64(bestStartSample) / DownsampleRate,
		CoarseSyncPower: c.SyncPower,
		Baseband:        bestBaseband,
	}, nil
}

// searchTime finds the integer sample offset in [-radius, radius]
// around s0 that maximizes the Costas score.
func searchTime(baseband []complex128, s0, radius int) (int, float64) {
	best := 0
	bestScore := math.Inf(-1)
	for dt := -radius; dt <= radius; dt++ {
		score := costasScore(baseband, s0+dt)
		if score > bestScore {
			bestScore = score
			best = dt
		}
	}
	return best, bestScore
}

// costasScore sums, over all 21 Costas tone slots, the per-symbol
// 32-point FFT magnitude at the expected tone bin minus the average of
// the other seven bins.
func costasScore(baseband []complex128, startSample int) float64 {
	var score float64
	for _, p := range CostasPositions {
		for n := 0; n < 7; n++ {
			sym := p + n
			idx := startSample + sym*SamplesPerSymDown
			mags, ok := symbolFFTMagnitudes(baseband, idx)
			if !ok {
				continue
			}
			expected := Costas[n]
			var otherSum float64
			for t := 0; t < NumTones; t++ {
				if t != expected {
					otherSum += mags[t]
				}
			}
			score += mags[expected] - otherSum/float64(NumTones-1)
		}
	}
	return score
}

// symbolFFTMagnitudes returns the 8 tone-bin magnitudes of the
// SamplesPerSymDown-point FFT starting at idx, or false if the window
// falls outside baseband.
func symbolFFTMagnitudes(baseband []complex128, idx int) ([NumTones]float64, bool) {
	var mags [NumTones]float64
	if idx < 0 || idx+SamplesPerSymDown > len(baseband) {
		return mags, false
	}
	window := make([]complex128, SamplesPerSymDown)
	copy(window, baseband[idx:idx+SamplesPerSymDown])
	spec := Transform(window)
	for t := 0; t < NumTones; t++ {
		mags[t] = cmplxAbs(spec[t])
	}
	return mags, true
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
