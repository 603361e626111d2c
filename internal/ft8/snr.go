package ft8

import "math"

// snrNoiseBandwidthHz is the reference noise bandwidth conventionally
// used to report FT8 SNR (spec.md §9): a measurement made over the
// narrow Costas tone bins is rescaled as though it had been made over
// this bandwidth, so reported numbers are comparable across decoders.
const snrNoiseBandwidthHz = 2500.0

// binBandwidthHz is the width of one 32-point, 200 Hz-rate FFT bin.
const binBandwidthHz = float64(DownsampleRate) / float64(SamplesPerSymDown)

// EstimateSNR computes an SNR-in-2500Hz figure from the 21 Costas tone
// slots: signal power is the mean squared magnitude at the expected
// tone bin, noise power is the mean squared magnitude of the other
// seven bins in the same slots, both measured on the bin, then
// rescaled to the reference bandwidth.
func EstimateSNR(es *ExtractedSymbols) float64 {
	var sigSum, noiseSum float64
	var sigN, noiseN int

	for _, p := range CostasPositions {
		for n := 0; n < 7; n++ {
			k := p + n
			if !es.Valid[k] {
				continue
			}
			expected := Costas[n]
			for t := 0; t < NumTones; t++ {
				m := es.Mags[k][t]
				if t == expected {
					sigSum += m * m
					sigN++
				} else {
					noiseSum += m * m
					noiseN++
				}
			}
		}
	}

	if sigN == 0 || noiseN == 0 {
		return math.Inf(-1)
	}

	sigPower := sigSum / float64(sigN)
	noisePerHz := (noiseSum / float64(noiseN)) / binBandwidthHz
	if noisePerHz <= 0 {
		return math.Inf(1)
	}

	snrLinear := sigPower / (noisePerHz * snrNoiseBandwidthHz)
	if snrLinear <= 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(snrLinear)
}
