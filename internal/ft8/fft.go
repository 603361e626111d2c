package ft8

import (
	"math"
	"math/cmplx"
)

// Transform computes the forward DFT of x. Lengths that are a power of
// two (such as the 32-point symbol-extraction transform) use the
// radix-2 Cooley-Tukey engine directly; any other length (the
// spectrogram and downsampler sizes 3840, 192000 and 3200) goes through Bluestein's
// algorithm, which reduces an arbitrary-length DFT to a power-of-two
// convolution and reuses the same radix-2 engine underneath.
func Transform(x []complex128) []complex128 {
	n := len(x)
	if n <= 1 {
		out := make([]complex128, n)
		copy(out, x)
		return out
	}
	if isPow2(n) {
		out := make([]complex128, n)
		copy(out, x)
		bitReverse(out)
		fftIterative(out, false)
		return out
	}
	return bluestein(x, false)
}

// Inverse computes the inverse DFT of x, scaled by 1/N.
func Inverse(x []complex128) []complex128 {
	n := len(x)
	if n <= 1 {
		out := make([]complex128, n)
		copy(out, x)
		return out
	}
	if isPow2(n) {
		out := make([]complex128, n)
		copy(out, x)
		bitReverse(out)
		fftIterative(out, true)
		scale := 1.0 / float64(n)
		for i := range out {
			out[i] *= complex(scale, 0)
		}
		return out
	}
	out := bluestein(x, true)
	scale := 1.0 / float64(n)
	for i := range out {
		out[i] *= complex(scale, 0)
	}
	return out
}

func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func fftIterative(x []complex128, inverse bool) {
	n := len(x)
	for size := 2; size <= n; size <<= 1 {
		halfSize := size >> 1
		sign := -1.0
		if inverse {
			sign = 1.0
		}
		wn := cmplx.Exp(complex(0, sign*2*math.Pi/float64(size)))
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			for j := 0; j < halfSize; j++ {
				u := x[start+j]
				v := w * x[start+j+halfSize]
				x[start+j] = u + v
				x[start+j+halfSize] = u - v
				w *= wn
			}
		}
	}
}

func bitReverse(x []complex128) {
	n := len(x)
	bits := 0
	for tmp := n; tmp > 1; tmp >>= 1 {
		bits++
	}
	for i := 0; i < n; i++ {
		j := reverseBits(i, bits)
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}
}

func reverseBits(x, bits int) int {
	result := 0
	for i := 0; i < bits; i++ {
		result = (result << 1) | (x & 1)
		x >>= 1
	}
	return result
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// bluestein computes the length-n DFT (or its un-normalized inverse,
// i.e. the DFT with the conjugated twiddle factors) of x via the
// chirp-z transform: x[k] multiplied by a quadratic chirp becomes a
// linear convolution with the conjugate chirp, computable with a
// power-of-2 FFT padded to at least 2n-1.
func bluestein(x []complex128, inverse bool) []complex128 {
	n := len(x)
	sign := -1.0
	if inverse {
		sign = 1.0
	}

	chirp := make([]complex128, n)
	for i := 0; i < n; i++ {
		// exp(sign * i*pi*i^2/n) using i^2 mod 2n to keep the phase stable
		// for large n.
		k := (i * i) % (2 * n)
		angle := sign * math.Pi * float64(k) / float64(n)
		chirp[i] = cmplx.Exp(complex(0, angle))
	}

	m := nextPow2(2*n - 1)
	a := make([]complex128, m)
	b := make([]complex128, m)
	for i := 0; i < n; i++ {
		a[i] = x[i] * chirp[i]
		b[i] = cmplx.Conj(chirp[i])
		if i > 0 {
			b[m-i] = cmplx.Conj(chirp[i])
		}
	}

	conv := circularConvolve(a, b)

	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		out[i] = conv[i] * chirp[i]
	}
	return out
}

func circularConvolve(a, b []complex128) []complex128 {
	m := len(a)
	fa := make([]complex128, m)
	copy(fa, a)
	bitReverse(fa)
	fftIterative(fa, false)

	fb := make([]complex128, m)
	copy(fb, b)
	bitReverse(fb)
	fftIterative(fb, false)

	for i := range fa {
		fa[i] *= fb[i]
	}

	bitReverse(fa)
	fftIterative(fa, true)
	scale := 1.0 / float64(m)
	for i := range fa {
		fa[i] *= complex(scale, 0)
	}
	return fa
}

// RealTransform performs a forward transform on real-valued input.
func RealTransform(x []float64) []complex128 {
	cx := make([]complex128, len(x))
	for i, v := range x {
		cx[i] = complex(v, 0)
	}
	return Transform(cx)
}
