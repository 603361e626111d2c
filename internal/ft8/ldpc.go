package ft8

import (
	"math"
	"sort"
)

const (
	MaxBPIters  = 30
	atanhClipAt = 0.999999
)

// BPResult is the outcome of belief propagation.
type BPResult struct {
	Codeword   [NumCodedBits]int
	Iterations int // number of iterations performed before success
	Snapshots  [3][NumCodedBits]float64
}

// BPDecode runs log-domain sum-product belief propagation for up to
// maxIters iterations, returning success only when the hard-decision
// codeword both satisfies every parity check and passes CRC14 (spec.md
// §4.7 step 2 — syndrome alone is not sufficient). Snapshots of the
// post-iteration z vector are saved at iterations 1, 2 and 3
// regardless of whether decoding eventually succeeds, for later OSD
// use.
func BPDecode(llr [NumCodedBits]float64, maxIters int) (BPResult, bool) {
	var res BPResult

	tov := make([][]float64, NumParityBits)
	for c := range tov {
		tov[c] = make([]float64, len(checkVars[c]))
	}

	for t := 1; t <= maxIters; t++ {
		var z [NumCodedBits]float64
		copy(z[:], llr[:])
		for c := 0; c < NumParityBits; c++ {
			for i, v := range checkVars[c] {
				z[v] += tov[c][i]
			}
		}

		if t <= 3 {
			res.Snapshots[t-1] = z
		}

		var hard [NumCodedBits]int
		for v := 0; v < NumCodedBits; v++ {
			if z[v] >= 0 {
				hard[v] = 1
			}
		}

		if Syndrome(hard) {
			var msg [NumMessageBits]int
			copy(msg[:], hard[:NumMessageBits])
			if VerifyCRC14(msg) {
				res.Codeword = hard
				res.Iterations = t
				return res, true
			}
		}

		mvc := make([][]float64, NumParityBits)
		for c := 0; c < NumParityBits; c++ {
			deg := len(checkVars[c])
			mvc[c] = make([]float64, deg)
			for i, v := range checkVars[c] {
				mvc[c][i] = z[v] - tov[c][i]
			}
		}

		for c := 0; c < NumParityBits; c++ {
			deg := len(checkVars[c])
			tanhs := make([]float64, deg)
			for i := 0; i < deg; i++ {
				tanhs[i] = math.Tanh(mvc[c][i] / 2)
			}
			for i := 0; i < deg; i++ {
				prod := 1.0
				for j := 0; j < deg; j++ {
					if j == i {
						continue
					}
					prod *= tanhs[j]
				}
				tov[c][i] = 2 * atanhClip(prod)
			}
		}
	}

	return res, false
}

func atanhClip(x float64) float64 {
	if x > atanhClipAt {
		x = atanhClipAt
	} else if x < -atanhClipAt {
		x = -atanhClipAt
	}
	return math.Atanh(x)
}

// OSDResult is a CRC-passing codeword found by ordered statistics
// decoding, along with its Euclidean distance score (lower is better).
type OSDResult struct {
	Codeword [NumCodedBits]int
	Distance float64
}

// cachedGenerator memoizes GeneratorMatrix() across OSD calls, since
// spec.md §4.7 step 1 says to compute it once and reuse it.
var cachedGenerator = GeneratorMatrix()

// OSDDecode implements spec.md §4.7's ordered statistics decoding:
// sort columns by reliability, Gaussian-eliminate to an approximate
// identity over the 91 most reliable positions (with up to 20 columns
// of lookahead), then enumerate order-k bit flips of the information
// block, re-encoding and CRC-checking each.
func OSDDecode(lambda [NumCodedBits]float64, order int) (OSDResult, bool) {
	perm := make([]int, NumCodedBits)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return math.Abs(lambda[perm[a]]) > math.Abs(lambda[perm[b]])
	})

	rows := make([][]int, NumMessageBits)
	for r := 0; r < NumMessageBits; r++ {
		rows[r] = make([]int, NumCodedBits)
		for j := 0; j < NumCodedBits; j++ {
			rows[r][j] = cachedGenerator[r][perm[j]]
		}
	}

	reduceToRREF(rows, perm)

	hard := make([]int, NumCodedBits)
	for j := 0; j < NumCodedBits; j++ {
		if lambda[perm[j]] >= 0 {
			hard[j] = 1
		}
	}
	info := hard[:NumMessageBits]

	best := OSDResult{}
	found := false
	tryInfo := func(bits []int) {
		cwPerm := encodeWithRows(bits, rows)
		var cwUnperm [NumCodedBits]int
		for j := 0; j < NumCodedBits; j++ {
			cwUnperm[perm[j]] = cwPerm[j]
		}
		var msg [NumMessageBits]int
		copy(msg[:], cwUnperm[:NumMessageBits])
		if !VerifyCRC14(msg) {
			return
		}
		dist := euclideanDistance(cwUnperm, lambda)
		if !found || dist < best.Distance {
			best = OSDResult{Codeword: cwUnperm, Distance: dist}
			found = true
		}
	}

	baseInfo := append([]int(nil), info...)
	tryInfo(baseInfo)

	for k := 1; k <= order; k++ {
		forEachCombination(NumMessageBits, k, func(positions []int) {
			flipped := append([]int(nil), baseInfo...)
			for _, p := range positions {
				flipped[p] ^= 1
			}
			tryInfo(flipped)
		})
	}

	return best, found
}

// reduceToRREF row-reduces the first NumMessageBits columns of rows to
// an approximate identity, swapping in a later column (up to 20 ahead)
// whenever no pivot is available in the current column. perm is kept
// in sync with every column swap.
func reduceToRREF(rows [][]int, perm []int) {
	nrows := len(rows)
	ncols := len(rows[0])
	row := 0
	for col := 0; col < nrows && row < nrows; col++ {
		pivot := -1
		for r := row; r < nrows; r++ {
			if rows[r][col] == 1 {
				pivot = r
				break
			}
		}
		if pivot == -1 {
			lookahead := col + 20
			if lookahead > ncols-1 {
				lookahead = ncols - 1
			}
			swapped := false
			for alt := col + 1; alt <= lookahead; alt++ {
				for r := row; r < nrows; r++ {
					if rows[r][alt] == 1 {
						swapColumns(rows, perm, col, alt)
						pivot = r
						swapped = true
						break
					}
				}
				if swapped {
					break
				}
			}
			if !swapped {
				continue
			}
		}

		rows[row], rows[pivot] = rows[pivot], rows[row]
		for r := 0; r < nrows; r++ {
			if r != row && rows[r][col] == 1 {
				for c := 0; c < ncols; c++ {
					rows[r][c] ^= rows[row][c]
				}
			}
		}
		row++
	}
}

func swapColumns(rows [][]int, perm []int, a, b int) {
	for r := range rows {
		rows[r][a], rows[r][b] = rows[r][b], rows[r][a]
	}
	perm[a], perm[b] = perm[b], perm[a]
}

func encodeWithRows(info []int, rows [][]int) [NumCodedBits]int {
	var cw [NumCodedBits]int
	for i, bit := range info {
		if bit == 0 {
			continue
		}
		for c := 0; c < NumCodedBits; c++ {
			cw[c] ^= rows[i][c]
		}
	}
	return cw
}

func euclideanDistance(cw [NumCodedBits]int, lambda [NumCodedBits]float64) float64 {
	var d float64
	for v := 0; v < NumCodedBits; v++ {
		sign := -1.0
		if cw[v] == 1 {
			sign = 1.0
		}
		hardSign := 1.0
		if lambda[v] < 0 {
			hardSign = -1.0
		}
		if sign != hardSign {
			d += math.Abs(lambda[v])
		}
	}
	return d
}

// forEachCombination calls fn with every size-k subset of [0,n) in
// lexicographic order, using the classical non-recursive
// next-combination routine (spec.md design notes: order-3 over 91
// positions is the largest practically needed, so this must not
// recurse).
func forEachCombination(n, k int, fn func(positions []int)) {
	if k <= 0 || k > n {
		return
	}
	comb := make([]int, k)
	for i := range comb {
		comb[i] = i
	}
	for {
		fn(comb)

		i := k - 1
		for i >= 0 && comb[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		comb[i]++
		for j := i + 1; j < k; j++ {
			comb[j] = comb[j-1] + 1
		}
	}
}
