package ft8

import "sort"

// Candidate is a single (frequency, time) sync-correlation peak
// surviving de-duplication and thresholding.
type Candidate struct {
	FreqHz     float64
	TimeOffset float64 // seconds, relative to slot start
	SyncPower  float64
	Baseline   float64
}

const (
	DefaultSyncThreshold = 0.5
	DefaultMaxCandidates = 1000
	dedupFreqHz          = 4.0
	dedupTimeSec         = 0.04
	narrowLagRadius      = 10
)

// SelectCandidates implements spec.md §4.3: narrow/wide peak picking
// per frequency bin, 40th-percentile normalization, de-duplication
// within 4 Hz / 0.04 s, and threshold filtering. Candidates are
// returned sorted by descending sync power.
func SelectCandidates(sm *SyncMap, syncThreshold float64, maxCandidates int) []Candidate {
	nbins := sm.IMax - sm.IMin + 1
	red := make([]float64, nbins)
	red2 := make([]float64, nbins)
	jpeak := make([]int, nbins)
	jpeak2 := make([]int, nbins)

	for bi := 0; bi < nbins; bi++ {
		i := sm.IMin + bi
		bestNarrow, bestWide := -1.0, -1.0
		jBestNarrow, jBestWide := sm.JMin, sm.JMin
		for j := sm.JMin; j <= sm.JMax; j++ {
			v := sm.At(i, j)
			if v > bestWide {
				bestWide = v
				jBestWide = j
			}
			if j >= -narrowLagRadius && j <= narrowLagRadius && v > bestNarrow {
				bestNarrow = v
				jBestNarrow = j
			}
		}
		red[bi] = bestNarrow
		red2[bi] = bestWide
		jpeak[bi] = jBestNarrow
		jpeak2[bi] = jBestWide
	}

	baseline := percentile40(red)
	baseline2 := percentile40(red2)
	if baseline <= 0 {
		baseline = 1
	}
	if baseline2 <= 0 {
		baseline2 = 1
	}
	for bi := range red {
		red[bi] /= baseline
		red2[bi] /= baseline2
	}

	order := make([]int, nbins)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return red[order[a]] > red[order[b]] })

	df := float64(SampleRate) / float64(NFFT1)
	var out []Candidate
	for _, bi := range order {
		if len(out) >= maxCandidates {
			break
		}
		i := sm.IMin + bi
		out = append(out, Candidate{
			FreqHz:     float64(i) * df,
			TimeOffset: (float64(jpeak[bi]) - 0.5) * TStep,
			SyncPower:  red[bi],
			Baseline:   baseline,
		})
		if jpeak2[bi] != jpeak[bi] {
			out = append(out, Candidate{
				FreqHz:     float64(i) * df,
				TimeOffset: (float64(jpeak2[bi]) - 0.5) * TStep,
				SyncPower:  red2[bi],
				Baseline:   baseline2,
			})
		}
	}

	out = dedup(out)

	survivors := out[:0]
	for _, c := range out {
		if c.SyncPower >= syncThreshold {
			survivors = append(survivors, c)
		}
	}

	sort.SliceStable(survivors, func(a, b int) bool { return survivors[a].SyncPower > survivors[b].SyncPower })
	return survivors
}

// percentile40 returns the value at the rounded 40th-percentile index
// of a copy of values, sorted ascending.
func percentile40(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	idx := int(0.4*float64(len(sorted)-1) + 0.5)
	return sorted[idx]
}

// dedup merges candidates within 4 Hz and 0.04 s, keeping the one with
// higher sync_power. Order-independent: a stronger later duplicate
// always replaces a weaker earlier one.
func dedup(cands []Candidate) []Candidate {
	var kept []Candidate
	for _, c := range cands {
		merged := false
		for i := range kept {
			if absf(kept[i].FreqHz-c.FreqHz) < dedupFreqHz && absf(kept[i].TimeOffset-c.TimeOffset) < dedupTimeSec {
				if c.SyncPower > kept[i].SyncPower {
					kept[i] = c
				}
				merged = true
				break
			}
		}
		if !merged {
			kept = append(kept, c)
		}
	}
	return kept
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
