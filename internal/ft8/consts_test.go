package ft8

import "testing"

func TestGrayCodeRoundTrip(t *testing.T) {
	for tone := 0; tone < NumTones; tone++ {
		bits := ToneToBits(tone)
		got := BitsToTone(bits)
		if got != tone {
			t.Errorf("BitsToTone(ToneToBits(%d)) = %d, want %d", tone, got, tone)
		}
	}
}

func TestGrayCodeAdjacentTonesDifferByOneBit(t *testing.T) {
	for tone := 0; tone < NumTones-1; tone++ {
		a := ToneToBits(tone)
		b := ToneToBits(tone + 1)
		diff := 0
		for i := 0; i < 3; i++ {
			if a[i] != b[i] {
				diff++
			}
		}
		if diff != 1 {
			t.Errorf("tones %d and %d differ in %d bits, want 1", tone, tone+1, diff)
		}
	}
}

func TestDataSymbolIndicesCount(t *testing.T) {
	idx := DataSymbolIndices()
	if len(idx) != NumDataSyms {
		t.Fatalf("got %d data symbol indices, want %d", len(idx), NumDataSyms)
	}
	for _, k := range idx {
		for _, p := range CostasPositions {
			if k >= p && k < p+7 {
				t.Errorf("data symbol index %d overlaps Costas block at %d", k, p)
			}
		}
	}
}
