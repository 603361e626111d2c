package ft8

import "testing"

func TestToneSequencePlacesCostasArrays(t *testing.T) {
	msg := sampleMessage()
	cw := Encode(msg)
	tones := ToneSequence(cw)

	for _, p := range CostasPositions {
		for n := 0; n < 7; n++ {
			if tones[p+n] != Costas[n] {
				t.Fatalf("tone at symbol %d = %d, want Costas tone %d", p+n, tones[p+n], Costas[n])
			}
		}
	}
}

func TestToneSequenceDataSymbolsInRange(t *testing.T) {
	msg := sampleMessage()
	cw := Encode(msg)
	tones := ToneSequence(cw)

	for _, k := range DataSymbolIndices() {
		if tones[k] < 0 || tones[k] >= NumTones {
			t.Fatalf("data tone at symbol %d out of range: %d", k, tones[k])
		}
	}
}

func TestSubtractReducesResidualEnergyAtSignalLocation(t *testing.T) {
	msg := sampleMessage()
	cw := Encode(msg)
	tones := ToneSequence(cw)
	ref := SynthesizeReference(tones, 500.0)

	audio := make([]float64, SampleRate*15)
	s0 := 1000
	for i, c := range ref {
		if s0+i < len(audio) {
			audio[s0+i] += 2 * real(c)
		}
	}

	before := audio[s0 : s0+len(ref)]
	energyBefore := sumSquares(before)

	working := make([]float64, len(audio))
	copy(working, audio)
	Subtract(working, cw, 500.0, float64(s0)/SampleRate-0.5)

	after := working[s0 : s0+len(ref)]
	energyAfter := sumSquares(after)

	if energyAfter >= energyBefore {
		t.Fatalf("subtraction did not reduce residual energy: before=%v after=%v", energyBefore, energyAfter)
	}
}

func sumSquares(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x * x
	}
	return s
}
