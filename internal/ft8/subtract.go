package ft8

import "math"

const (
	gfskBT        = 2.0
	subtractNFilt = 4000
	refineRadius  = 90 // samples @ 12kHz
	refineStep    = 15
)

// ToneSequence rebuilds the 79 transmitted tones from a decoded 174-bit
// codeword: the three Costas blocks at symbol positions 0, 36 and 72,
// and the 58 data symbols Gray-mapped from 3-bit groups of the
// codeword, interleaved at the positions DataSymbolIndices returns.
func ToneSequence(codeword [NumCodedBits]int) [NumSymbols]int {
	var tones [NumSymbols]int
	for _, p := range CostasPositions {
		for n := 0; n < 7; n++ {
			tones[p+n] = Costas[n]
		}
	}

	dataSyms := DataSymbolIndices()
	for i, k := range dataSyms {
		var bits [3]int
		bits[0] = codeword[i*3]
		bits[1] = codeword[i*3+1]
		bits[2] = codeword[i*3+2]
		tones[k] = BitsToTone(bits)
	}
	return tones
}

// SynthesizeReference generates a unit-amplitude GFSK carrier at 12kHz
// for the given tone sequence and base frequency, smoothing tone
// transitions with a Gaussian-filtered frequency trajectory at
// BT=2.0 (spec.md §4.9).
func SynthesizeReference(tones [NumSymbols]int, freqHz float64) []complex128 {
	n := NumSymbols * SamplesPerSym
	freq := make([]float64, n)
	for i := range freq {
		sym := i / SamplesPerSym
		freq[i] = freqHz + float64(tones[sym])*BaudHz
	}
	smoothed := gaussianSmoothFreq(freq, tones, freqHz)

	out := make([]complex128, n)
	phase := 0.0
	for i := 0; i < n; i++ {
		out[i] = complex(math.Cos(phase), math.Sin(phase))
		phase += 2 * math.Pi * smoothed[i] / SampleRate
	}
	return out
}

// gaussianSmoothFreq applies a Gaussian pulse-shaping kernel (BT=2.0)
// across tone-symbol boundaries, so the synthesized reference mimics
// the transmitter's continuous-phase frequency transitions instead of
// jumping instantaneously between tones.
func gaussianSmoothFreq(freq []float64, tones [NumSymbols]int, freqHz float64) []float64 {
	sigma := float64(SamplesPerSym) / (2 * math.Pi * gfskBT)
	radius := int(3 * sigma)
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	var ksum float64
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = w
		ksum += w
	}
	for i := range kernel {
		kernel[i] /= ksum
	}

	out := make([]float64, len(freq))
	for i := range freq {
		var acc float64
		for k := -radius; k <= radius; k++ {
			j := i + k
			if j < 0 {
				j = 0
			} else if j >= len(freq) {
				j = len(freq) - 1
			}
			acc += freq[j] * kernel[k+radius]
		}
		out[i] = acc
	}
	return out
}

// EstimateAmplitude mixes audio down against the reference carrier
// starting at startSample and returns a single complex amplitude: the
// cosine-squared-weighted average of the product over the
// subtractNFilt samples centered in the reference. Samples outside
// that central window get zero weight, and the amplitude is not
// tracked over time across the transmission.
func EstimateAmplitude(audio []float64, ref []complex128, startSample int) complex128 {
	var acc complex128
	var wsum float64
	half := subtractNFilt / 2

	for i := 0; i < len(ref); i++ {
		idx := startSample + i
		if idx < 0 || idx >= len(audio) {
			continue
		}
		w := cosineSquaredWeight(i, len(ref), half)
		mix := complex(audio[idx], 0) * cmplxConj(ref[i])
		acc += complex(w, 0) * mix
		wsum += w
	}
	if wsum == 0 {
		return 0
	}
	return acc / complex(wsum, 0)
}

func cosineSquaredWeight(i, n, half int) float64 {
	if half <= 0 {
		return 1
	}
	center := n / 2
	d := i - center
	if d < -half || d > half {
		return 0
	}
	return math.Pow(math.Cos(math.Pi*float64(d)/(2*float64(half))), 2)
}

func cmplxConj(c complex128) complex128 {
	return complex(real(c), -imag(c))
}

// Subtract removes the reconstructed signal for one decode from
// working (in place), returning the refined start sample actually
// used after the optional time-refinement search.
func Subtract(working []float64, codeword [NumCodedBits]int, freqHz, timeOffsetSec float64) int {
	tones := ToneSequence(codeword)
	ref := SynthesizeReference(tones, freqHz)

	s0 := int(math.Round((timeOffsetSec + 0.5) * SampleRate))
	best := refineSubtractStart(working, ref, s0)

	cRef := EstimateAmplitude(working, ref, best)
	for i := 0; i < len(ref); i++ {
		idx := best + i
		if idx < 0 || idx >= len(working) {
			continue
		}
		contribution := cRef * ref[i]
		working[idx] -= 2 * real(contribution)
	}
	return best
}

// refineSubtractStart searches +/-refineRadius samples around s0 in
// refineStep increments for the start offset that minimizes residual
// energy after a trial subtraction.
func refineSubtractStart(working []float64, ref []complex128, s0 int) int {
	best := s0
	bestEnergy := math.Inf(1)
	for d := -refineRadius; d <= refineRadius; d += refineStep {
		trial := s0 + d
		c := EstimateAmplitude(working, ref, trial)
		var energy float64
		for i := 0; i < len(ref); i++ {
			idx := trial + i
			if idx < 0 || idx >= len(working) {
				continue
			}
			residual := working[idx] - 2*real(c*ref[i])
			energy += residual * residual
		}
		if energy < bestEnergy {
			bestEnergy = energy
			best = trial
		}
	}
	return best
}
