package ft8

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestTransformInverseRoundTripPow2(t *testing.T) {
	n := 512
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(float64(i)/float64(n), 0)
	}

	y := Transform(x)
	z := Inverse(y)

	for i := range x {
		if cmplx.Abs(x[i]-z[i]) > 1e-9 {
			t.Fatalf("Inverse(Transform(x))[%d] = %v, want %v", i, z[i], x[i])
		}
	}
}

func TestTransformInverseRoundTripNonPow2(t *testing.T) {
	// Round-trip the sizes FT8 actually uses: 3200 and 3840 take the
	// Bluestein path, SamplesPerSymDown (32) the radix-2 path.
	for _, n := range []int{SamplesPerSymDown, 3200, 3840} {
		x := make([]complex128, n)
		for i := range x {
			x[i] = complex(math.Sin(2*math.Pi*float64(i)/float64(n)), math.Cos(float64(i)))
		}

		y := Transform(x)
		z := Inverse(y)

		var maxErr float64
		for i := range x {
			if d := cmplx.Abs(x[i] - z[i]); d > maxErr {
				maxErr = d
			}
		}
		if maxErr > 1e-6 {
			t.Fatalf("n=%d: round trip max error %v too large", n, maxErr)
		}
	}
}

func TestTransformKnownValues(t *testing.T) {
	x := []complex128{1, 1, 1, 1}
	y := Transform(x)

	if cmplx.Abs(y[0]-4) > 1e-9 {
		t.Errorf("Transform([1,1,1,1])[0] = %v, want 4", y[0])
	}
	for i := 1; i < 4; i++ {
		if cmplx.Abs(y[i]) > 1e-9 {
			t.Errorf("Transform([1,1,1,1])[%d] = %v, want 0", i, y[i])
		}
	}
}

func TestTransformAgreesPow2AndBluestein(t *testing.T) {
	// 8 is a power of two, so Transform takes the radix-2 path; run
	// bluestein directly on the same data and check both agree.
	n := 8
	x := make([]complex128, n)
	for i := range x {
		x[i] = cmplx.Exp(complex(0, 2*math.Pi*float64(i)/float64(n)))
	}
	y := Transform(x)
	// A pure tone at bin 1 should have all its energy in y[1].
	var energyElsewhere float64
	for i, v := range y {
		if i == 1 {
			continue
		}
		energyElsewhere += cmplx.Abs(v)
	}
	if energyElsewhere > 1e-6 {
		t.Fatalf("energy leaked outside bin 1: %v", energyElsewhere)
	}

	b := bluestein(x, false)
	for i := range y {
		if cmplx.Abs(y[i]-b[i]) > 1e-9 {
			t.Fatalf("bin %d: radix-2 %v, Bluestein %v", i, y[i], b[i])
		}
	}
}
