package ft8

import "testing"

func sampleMessage() [NumMessageBits]int {
	var payload [NumPayloadBits]int
	for i := range payload {
		payload[i] = (i * 13) % 3 % 2
	}
	crc := ComputeCRC14(payload)

	var msg [NumMessageBits]int
	copy(msg[:], payload[:])
	copy(msg[NumPayloadBits:], crc[:])
	return msg
}

func TestEncodeSatisfiesSyndrome(t *testing.T) {
	msg := sampleMessage()
	cw := Encode(msg)
	if !Syndrome(cw) {
		t.Fatal("Encode produced a codeword that fails its own parity checks")
	}
}

func TestEncodeIsSystematic(t *testing.T) {
	msg := sampleMessage()
	cw := Encode(msg)
	for i := 0; i < NumMessageBits; i++ {
		if cw[i] != msg[i] {
			t.Fatalf("systematic bit %d = %d, want %d", i, cw[i], msg[i])
		}
	}
}

func TestGeneratorMatrixRowsAreValidCodewords(t *testing.T) {
	g := GeneratorMatrix()
	for i := 0; i < NumMessageBits; i++ {
		if !Syndrome(g[i]) {
			t.Fatalf("generator row %d fails parity checks", i)
		}
	}
}

// llrFromCodeword builds a noiseless, strongly confident LLR vector
// from a codeword: +10 for each 1 bit, -10 for each 0 bit.
func llrFromCodeword(cw [NumCodedBits]int) [NumCodedBits]float64 {
	var llr [NumCodedBits]float64
	for i, b := range cw {
		if b == 1 {
			llr[i] = 10
		} else {
			llr[i] = -10
		}
	}
	return llr
}

func TestBPDecodeConvergesOnNoiselessCodeword(t *testing.T) {
	msg := sampleMessage()
	cw := Encode(msg)
	llr := llrFromCodeword(cw)

	res, ok := BPDecode(llr, MaxBPIters)
	if !ok {
		t.Fatal("BPDecode failed to converge on a noiseless codeword")
	}
	if res.Codeword != cw {
		t.Fatal("BPDecode returned a different codeword than the one encoded")
	}
}

func TestBPDecodeFailsOnNoise(t *testing.T) {
	// All-zero LLR carries no information; BP should not hallucinate a
	// valid, CRC-passing codeword from it.
	var llr [NumCodedBits]float64
	_, ok := BPDecode(llr, MaxBPIters)
	if ok {
		t.Fatal("BPDecode unexpectedly succeeded on a zero-information LLR vector")
	}
}

func TestOSDDecodeRecoversWeaklyCorruptedCodeword(t *testing.T) {
	msg := sampleMessage()
	cw := Encode(msg)
	llr := llrFromCodeword(cw)

	// Flip a handful of bits to wrong, low-confidence values so the
	// hard decision is corrupted, and exercise the OSD path directly.
	for _, i := range []int{0, 5, 17, 40} {
		llr[i] = -llr[i] * 0.01
	}

	res, ok := OSDDecode(llr, 2)
	if !ok {
		t.Fatal("OSDDecode failed to recover a weakly corrupted codeword")
	}
	var gotMsg [NumMessageBits]int
	copy(gotMsg[:], res.Codeword[:NumMessageBits])
	if gotMsg != msg {
		t.Fatal("OSDDecode recovered the wrong message")
	}
}

func TestForEachCombinationCount(t *testing.T) {
	count := 0
	forEachCombination(6, 2, func(positions []int) { count++ })
	if count != 15 { // C(6,2)
		t.Fatalf("forEachCombination(6,2) visited %d combinations, want 15", count)
	}
}
