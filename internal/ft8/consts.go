// Package ft8 decodes FT8 transmissions from a 15-second, 12 kHz mono
// audio slot into 77-bit messages with carrier frequency, time offset
// and SNR.
package ft8

// Protocol constants, fixed by the FT8 wire format.
const (
	SampleRate    = 12000  // fs, Hz
	SymbolPeriod  = 0.16   // T, seconds per symbol
	SamplesPerSym = 1920   // NSPS
	NumSymbols    = 79     // NN
	NumDataSyms   = 58     // 29 symbols/block * 2 blocks
	BaudHz        = 6.25   // tone spacing
	NumTones      = 8      // 8-FSK

	NFFT1 = 2 * SamplesPerSym // 3840, spectrogram FFT size
	NH1   = NFFT1 / 2         // 1920 usable bins
	NSTEP = SamplesPerSym / 4 // 480 samples, ~40ms hop
	TStep = float64(NSTEP) / float64(SampleRate)

	NumCodedBits   = 174 // message+CRC+parity
	NumMessageBits = 91  // 77 payload + 14 CRC
	NumPayloadBits = 77
	NumCRCBits     = 14
	NumParityBits  = 83

	DownsampleRate    = 200 // Hz, narrow-band baseband
	SamplesPerSymDown = 32  // DownsampleRate * SymbolPeriod = 200*0.16
	BasebandLen       = 16 * DownsampleRate // 3200 samples, 16s window @ 200Hz
)

// Costas 7-tone sync array and the three symbol offsets it is placed at.
var Costas = [7]int{3, 1, 4, 0, 6, 5, 2}

// CostasPositions are the starting symbol indices of the three Costas
// arrays within a 79-symbol transmission.
var CostasPositions = [3]int{0, 36, 72}

// DataSymbolIndices lists the 58 symbol slots (k in 0..78) that carry
// the three Gray-mapped coded bits of the 174-bit codeword.
func DataSymbolIndices() []int {
	idx := make([]int, 0, NumDataSyms)
	for k := 7; k <= 35; k++ {
		idx = append(idx, k)
	}
	for k := 43; k <= 71; k++ {
		idx = append(idx, k)
	}
	return idx
}

// grayEncode returns the reflected Gray code of a 3-bit value (0..7).
func grayEncode(v int) int {
	return v ^ (v >> 1)
}

// grayTable[tone] = the Gray-coded 3-bit value tone carries (bits
// packed MSB-first: b0,b1,b2); grayInverse[value] = the tone carrying
// that 3-bit value.
var grayTable [NumTones]int
var grayInverse [NumTones]int

func init() {
	for tone := 0; tone < NumTones; tone++ {
		v := grayEncode(tone)
		grayTable[tone] = v
		grayInverse[v] = tone
	}
}

// ToneToBits returns the 3 Gray-coded bits (MSB first) carried by tone,
// so adjacent tones differ in exactly one bit.
func ToneToBits(tone int) [3]int {
	v := grayTable[tone]
	return [3]int{(v >> 2) & 1, (v >> 1) & 1, v & 1}
}

// BitsToTone is the inverse of ToneToBits.
func BitsToTone(bits [3]int) int {
	v := (bits[0] << 2) | (bits[1] << 1) | bits[2]
	return grayInverse[v]
}
