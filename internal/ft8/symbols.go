package ft8

import "math"

const (
	costasGateMin = 6 // nsync must exceed this to accept the candidate
	llrScale      = 2.83
)

// ExtractedSymbols holds the per-symbol tone magnitudes and Costas
// gating result produced by ExtractSymbols.
type ExtractedSymbols struct {
	Mags  [NumSymbols][NumTones]float64
	NSync int
	Valid [NumSymbols]bool
}

// ExtractSymbols performs the 32-point per-symbol FFT over all 79
// symbol slots and counts how many of the 21 Costas tone positions
// match their expected tone (spec.md §4.6).
func ExtractSymbols(rc *RefinedCandidate) *ExtractedSymbols {
	es := &ExtractedSymbols{}
	startSample := int(math.Round(rc.TimeOffset * DownsampleRate))

	for k := 0; k < NumSymbols; k++ {
		idx := startSample + k*SamplesPerSymDown
		mags, ok := symbolFFTMagnitudes(rc.Baseband, idx)
		if !ok {
			continue
		}
		es.Valid[k] = true
		for t := 0; t < NumTones; t++ {
			es.Mags[k][t] = mags[t] / 1000.0
		}
	}

	for _, p := range CostasPositions {
		for n := 0; n < 7; n++ {
			k := p + n
			if !es.Valid[k] {
				continue
			}
			if argmaxTone(es.Mags[k]) == Costas[n] {
				es.NSync++
			}
		}
	}

	return es
}

func argmaxTone(mags [NumTones]float64) int {
	best := 0
	for t := 1; t < NumTones; t++ {
		if mags[t] > mags[best] {
			best = t
		}
	}
	return best
}

// LLRPair holds the two LLR metrics spec.md §4.6 derives in one pass.
type LLRPair struct {
	Diff  [NumCodedBits]float64
	Ratio [NumCodedBits]float64
}

// FormLLRs builds the difference and ratio LLR vectors from extracted
// symbol magnitudes, then standardizes and scales each independently.
func FormLLRs(es *ExtractedSymbols) LLRPair {
	var pair LLRPair
	dataSyms := DataSymbolIndices()

	bitIdx := 0
	for _, k := range dataSyms {
		mags := es.Mags[k]
		for b := 0; b < 3; b++ {
			max0, max1 := math.Inf(-1), math.Inf(-1)
			for tone := 0; tone < NumTones; tone++ {
				bits := ToneToBits(tone)
				if bits[b] == 1 {
					if mags[tone] > max1 {
						max1 = mags[tone]
					}
				} else {
					if mags[tone] > max0 {
						max0 = mags[tone]
					}
				}
			}
			diff := max1 - max0
			pair.Diff[bitIdx] = diff

			denom := math.Max(max1, max0)
			if denom == 0 {
				pair.Ratio[bitIdx] = 0
			} else {
				pair.Ratio[bitIdx] = diff / denom
			}
			bitIdx++
		}
	}

	standardizeScale(&pair.Diff)
	standardizeScale(&pair.Ratio)
	return pair
}

func standardizeScale(v *[NumCodedBits]float64) {
	var mean float64
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))

	var variance float64
	for _, x := range v {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(v))
	std := math.Sqrt(variance)
	if std == 0 {
		std = 1
	}

	for i, x := range v {
		v[i] = (x - mean) / std * llrScale
	}
}
