package ft8

import "testing"

func flatSyncMap(nbins int, peakBin, peakLag int, peakValue float64) *SyncMap {
	m := make([][]float64, nbins)
	for i := range m {
		m[i] = make([]float64, lagMax-lagMin+1)
		for j := range m[i] {
			m[i][j] = 0.1
		}
	}
	m[peakBin][peakLag-lagMin] = peakValue
	return &SyncMap{M: m, IMin: 0, IMax: nbins - 1, JMin: lagMin, JMax: lagMax}
}

func TestSelectCandidatesFindsIsolatedPeak(t *testing.T) {
	sm := flatSyncMap(50, 20, 0, 50.0)
	cands := SelectCandidates(sm, DefaultSyncThreshold, DefaultMaxCandidates)

	if len(cands) == 0 {
		t.Fatal("expected at least one candidate for an isolated strong peak")
	}
	found := false
	df := float64(SampleRate) / float64(NFFT1)
	for _, c := range cands {
		if absf(c.FreqHz-20*df) < df/2 {
			found = true
		}
	}
	if !found {
		t.Fatal("strongest candidate frequency did not match the synthetic peak bin")
	}
}

func TestSelectCandidatesSortedDescending(t *testing.T) {
	sm := flatSyncMap(50, 20, 0, 50.0)
	sm.M[35][5-lagMin] = 30.0
	cands := SelectCandidates(sm, DefaultSyncThreshold, DefaultMaxCandidates)

	for i := 1; i < len(cands); i++ {
		if cands[i].SyncPower > cands[i-1].SyncPower {
			t.Fatalf("candidates not sorted by descending sync power at index %d", i)
		}
	}
}

func TestSelectCandidatesNoiseFloorMostlyFiltered(t *testing.T) {
	nbins := 50
	m := make([][]float64, nbins)
	for i := range m {
		m[i] = make([]float64, lagMax-lagMin+1)
		// A deterministic pseudo-noise value per bin: most sit near the
		// 40th-percentile baseline, a few sit well under half of it, so
		// thresholding at 0.5 should reject those few.
		v := 1.0 + 0.05*float64((i*37)%11)
		if i%10 == 0 {
			v = 0.1
		}
		for j := range m[i] {
			m[i][j] = v
		}
	}
	sm := &SyncMap{M: m, IMin: 0, IMax: nbins - 1, JMin: lagMin, JMax: lagMax}
	cands := SelectCandidates(sm, DefaultSyncThreshold, DefaultMaxCandidates)
	if len(cands) >= nbins {
		t.Fatalf("expected some bins filtered by sync threshold, got %d of %d bins as candidates", len(cands), nbins)
	}
}

func TestDedupMergesCloseCandidates(t *testing.T) {
	cands := []Candidate{
		{FreqHz: 1000, TimeOffset: 0.1, SyncPower: 1.0},
		{FreqHz: 1001, TimeOffset: 0.11, SyncPower: 2.0},
		{FreqHz: 2000, TimeOffset: 0.1, SyncPower: 1.5},
	}
	out := dedup(cands)
	if len(out) != 2 {
		t.Fatalf("dedup produced %d candidates, want 2", len(out))
	}
	for _, c := range out {
		if absf(c.FreqHz-1000) < 4 && c.SyncPower != 2.0 {
			t.Fatalf("dedup kept the weaker of two close candidates")
		}
	}
}
