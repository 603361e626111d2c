package wav

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildWAV assembles a minimal mono 16-bit PCM WAV file in memory.
func buildWAV(sampleRate int, samples []int16) []byte {
	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, s)
	}

	var fmtChunk bytes.Buffer
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(1))           // PCM
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(1))           // mono
	binary.Write(&fmtChunk, binary.LittleEndian, uint32(sampleRate))  // sample rate
	byteRate := uint32(sampleRate * 2)
	binary.Write(&fmtChunk, binary.LittleEndian, byteRate)
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(2))  // block align
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(16)) // bits per sample

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	totalSize := uint32(4 + 8 + fmtChunk.Len() + 8 + data.Len())
	binary.Write(&buf, binary.LittleEndian, totalSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(fmtChunk.Len()))
	buf.Write(fmtChunk.Bytes())

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	return buf.Bytes()
}

func TestReadRoundTripsSamples(t *testing.T) {
	samples := []int16{0, 100, -100, 32767, -32768}
	raw := buildWAV(12000, samples)

	f, err := Read(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if f.SampleRate != 12000 {
		t.Fatalf("SampleRate = %d, want 12000", f.SampleRate)
	}
	if len(f.Samples) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(f.Samples), len(samples))
	}
	for i, s := range samples {
		if f.Samples[i] != float64(s) {
			t.Errorf("sample %d = %v, want %v", i, f.Samples[i], float64(s))
		}
	}
}

func TestReadRejectsNonRIFF(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a wav file at all, padding to 12 bytes")))
	if err == nil {
		t.Fatal("expected an error for a non-RIFF stream")
	}
}
