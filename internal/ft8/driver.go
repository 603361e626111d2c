package ft8

import (
	"math"
	"runtime"
	"sort"
	"sync"
)

// decodeOne runs fine sync, symbol extraction and the four-pass LDPC
// attempt (difference LLR then ratio LLR, each through BP and,
// depending on cfg.DecodeDepth, OSD) for a single candidate.
func decodeOne(audio []float64, c Candidate, cfg Config) (DecodedMessage, [NumCodedBits]int, bool) {
	rc, err := FineSync(audio, c)
	if err != nil {
		return DecodedMessage{}, [NumCodedBits]int{}, false
	}

	es := ExtractSymbols(rc)
	if es.NSync <= costasGateMin {
		return DecodedMessage{}, [NumCodedBits]int{}, false
	}

	llrs := FormLLRs(es)

	for _, llr := range [2][NumCodedBits]float64{llrs.Diff, llrs.Ratio} {
		cw, ok, viaOSD, iters := tryDecode(llr, cfg)
		if !ok {
			continue
		}

		snr := EstimateSNR(es)
		if snr < cfg.MinSNRDB {
			continue
		}

		var payload [NumPayloadBits]int
		copy(payload[:], cw[:NumPayloadBits])

		msg := DecodedMessage{
			Payload: payload,
			FreqHz:  rc.FreqHz,
			TimeSec: rc.TimeOffset - 0.5,
			SNRdB:   snr,
			SyncPow: c.SyncPower,
			ViaOSD:  viaOSD,
			BPIters: iters,
		}
		return msg, cw, true
	}

	return DecodedMessage{}, [NumCodedBits]int{}, false
}

// tryDecode attempts BP decoding, falling back to OSD at the order
// implied by cfg.DecodeDepth (1: BP only, 2: OSD order 0, 3: OSD order
// 2), using the iteration-3 BP snapshot as the OSD channel LLR per
// spec.md §4.7.
func tryDecode(llr [NumCodedBits]float64, cfg Config) ([NumCodedBits]int, bool, bool, int) {
	res, ok := BPDecode(llr, cfg.LDPCMaxIters)
	if ok {
		return res.Codeword, true, false, res.Iterations
	}
	if cfg.DecodeDepth < 2 {
		return [NumCodedBits]int{}, false, false, 0
	}

	order := 0
	if cfg.DecodeDepth >= 3 {
		order = 2
	}

	snap := res.Snapshots[2]
	allZero := true
	for _, v := range snap {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		snap = llr
	}

	osdRes, ok2 := OSDDecode(snap, order)
	if !ok2 {
		return [NumCodedBits]int{}, false, false, 0
	}
	return osdRes.Codeword, true, true, 0
}

// decodeAttempt holds one candidate's decode outcome. decodeCandidates
// stores it at the candidate's index in the originating slice, so
// parallel results stay in candidate (descending sync power) order.
type decodeAttempt struct {
	msg DecodedMessage
	cw  [NumCodedBits]int
	ok  bool
}

// decodeCandidates runs decodeOne over every candidate. decodeOne only
// reads working (subtraction happens afterward, sequentially), so when
// cfg.Parallel is set the attempts run across a small bounded worker
// pool; otherwise they run in candidate order on the calling
// goroutine.
func decodeCandidates(working []float64, candidates []Candidate, cfg Config) []decodeAttempt {
	attempts := make([]decodeAttempt, len(candidates))

	if !cfg.Parallel || len(candidates) < 2 {
		for i, c := range candidates {
			msg, cw, ok := decodeOne(working, c, cfg)
			attempts[i] = decodeAttempt{msg: msg, cw: cw, ok: ok}
		}
		return attempts
	}

	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	jobs := make(chan int, len(candidates))
	for i := range candidates {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				msg, cw, ok := decodeOne(working, candidates[i], cfg)
				attempts[i] = decodeAttempt{msg: msg, cw: cw, ok: ok}
			}
		}()
	}
	wg.Wait()

	return attempts
}

// sameTransmission reports whether two decodes should be treated as
// duplicates: identical payload, or close enough in frequency and time
// to plausibly be the same signal re-detected (spec.md §4.10).
func sameTransmission(a, b DecodedMessage) bool {
	if a.Payload == b.Payload {
		return true
	}
	return math.Abs(a.FreqHz-b.FreqHz) < dedupFreqHz && math.Abs(a.TimeSec-b.TimeSec) < dedupTimeSec
}

// runPasses implements the multi-pass driver of spec.md §4.10:
// rebuild the spectrogram/sync map/candidate list from the current
// working audio each pass, attempt decodes for up to DecodeTopN
// candidates (descending sync power), subtract each success from
// working, and stop once a pass (at or after the second) yields no new
// decode.
func runPasses(audio []float64, cfg Config) []DecodedMessage {
	working := make([]float64, len(audio))
	copy(working, audio)

	var results []DecodedMessage

	for pass := 1; pass <= cfg.NPasses; pass++ {
		spec, err := BuildSpectrum(working)
		if err != nil {
			break
		}
		sm := ComputeSync(spec, cfg.FreqMinHz, cfg.FreqMaxHz)
		candidates := SelectCandidates(sm, cfg.SyncThreshold, cfg.MaxCandidates)

		topN := candidates
		if len(topN) > cfg.DecodeTopN {
			topN = topN[:cfg.DecodeTopN]
		}

		attempts := decodeCandidates(working, topN, cfg)

		newThisPass := 0
		for _, a := range attempts {
			if !a.ok {
				continue
			}
			msg, cw := a.msg, a.cw

			duplicate := false
			for _, existing := range results {
				if sameTransmission(existing, msg) {
					duplicate = true
					break
				}
			}
			if duplicate {
				continue
			}

			msg.Pass = pass
			results = append(results, msg)
			newThisPass++

			Subtract(working, cw, msg.FreqHz, msg.TimeSec)
		}

		if newThisPass == 0 && pass >= 2 {
			break
		}
	}

	orderResults(results)
	return results
}

// orderResults sorts in place by ascending pass, then descending sync
// power within a pass, per spec.md §4.10's deterministic ordering.
func orderResults(results []DecodedMessage) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Pass != results[j].Pass {
			return results[i].Pass < results[j].Pass
		}
		return results[i].SyncPow > results[j].SyncPow
	})
}
