package ft8

import "testing"

func TestCRC14RoundTrip(t *testing.T) {
	var payload [NumPayloadBits]int
	for i := range payload {
		payload[i] = (i * 7) % 2
	}

	crc := ComputeCRC14(payload)

	var msg [NumMessageBits]int
	copy(msg[:], payload[:])
	copy(msg[NumPayloadBits:], crc[:])

	if !VerifyCRC14(msg) {
		t.Fatal("VerifyCRC14 rejected a message built from its own CRC")
	}
}

func TestCRC14DetectsSingleBitFlip(t *testing.T) {
	var payload [NumPayloadBits]int
	crc := ComputeCRC14(payload)

	var msg [NumMessageBits]int
	copy(msg[NumPayloadBits:], crc[:])
	msg[10] = 1 // flip one payload bit away from the all-zero message

	if VerifyCRC14(msg) {
		t.Fatal("VerifyCRC14 accepted a message with a flipped payload bit")
	}
}

func TestCRC14AllZeroMessage(t *testing.T) {
	var payload [NumPayloadBits]int
	crc := ComputeCRC14(payload)
	for _, b := range crc {
		if b != 0 {
			t.Fatal("CRC of an all-zero payload should be all zero for this polynomial's flush convention")
		}
	}
}
