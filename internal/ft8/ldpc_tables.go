package ft8

import (
	"math/rand"
	"sort"
)

// parityCheckDegree is the number of message bits each parity check
// row connects to, before the two parity-chain variables described
// below. See DESIGN.md for why this graph is generated rather than
// transcribed from the public FT8 table.
const parityCheckDegree = 7

// messageSupport[c] lists the systematic-bit indices (0..90) that
// parity check c depends on.
var messageSupport [NumParityBits][]int

// checkVars[c] is messageSupport[c] plus the "staircase" parity-chain
// variables (index NumMessageBits+c, and NumMessageBits+c-1 for c>0),
// i.e. the full variable-node neighborhood of check c. Parity bit c is
// defined by: XOR(messageSupport[c] bits) XOR p[c-1] XOR p[c] == 0,
// which makes the code sparse and encodable in one forward sweep.
var checkVars [NumParityBits][]int

// varChecks[v] is the inverse incidence: which checks variable v
// participates in.
var varChecks [NumCodedBits][]int

// ldpcSeed fixes the pseudo-random graph generation so the same parity
// check structure is produced on every run — "fixed constants" in the
// sense spec.md §4.7 requires, just generated rather than transcribed.
const ldpcSeed = 8091977

func init() {
	buildLDPCGraph()
}

func buildLDPCGraph() {
	rng := rand.New(rand.NewSource(ldpcSeed))
	for c := 0; c < NumParityBits; c++ {
		messageSupport[c] = distinctSample(rng, NumMessageBits, parityCheckDegree)

		vars := make([]int, 0, parityCheckDegree+2)
		vars = append(vars, messageSupport[c]...)
		vars = append(vars, NumMessageBits+c)
		if c > 0 {
			vars = append(vars, NumMessageBits+c-1)
		}
		sort.Ints(vars)
		checkVars[c] = vars
	}

	for c, vars := range checkVars {
		for _, v := range vars {
			varChecks[v] = append(varChecks[v], c)
		}
	}
}

func distinctSample(rng *rand.Rand, n, k int) []int {
	perm := rng.Perm(n)
	out := append([]int{}, perm[:k]...)
	sort.Ints(out)
	return out
}

// Encode computes the 174-bit codeword for a 91-bit systematic message
// (77 payload bits followed by 14 CRC bits) using the staircase parity
// recursion: p[c] = p[c-1] XOR XOR(messageSupport[c] bits).
func Encode(msg [NumMessageBits]int) [NumCodedBits]int {
	var cw [NumCodedBits]int
	copy(cw[:], msg[:])

	prev := 0
	for c := 0; c < NumParityBits; c++ {
		sum := prev
		for _, v := range messageSupport[c] {
			sum ^= cw[v]
		}
		cw[NumMessageBits+c] = sum
		prev = sum
	}
	return cw
}

// Syndrome returns true if cw satisfies every parity check (H*cw=0).
func Syndrome(cw [NumCodedBits]int) bool {
	for c := 0; c < NumParityBits; c++ {
		sum := 0
		for _, v := range checkVars[c] {
			sum ^= cw[v]
		}
		if sum != 0 {
			return false
		}
	}
	return true
}

// GeneratorMatrix returns G (NumMessageBits x NumCodedBits over GF(2)):
// row i is Encode(e_i), the encoding of the i-th unit message vector,
// exactly as spec.md §4.7 describes building G for OSD.
func GeneratorMatrix() [NumMessageBits][NumCodedBits]int {
	var g [NumMessageBits][NumCodedBits]int
	for i := 0; i < NumMessageBits; i++ {
		var e [NumMessageBits]int
		e[i] = 1
		cw := Encode(e)
		g[i] = cw
	}
	return g
}
