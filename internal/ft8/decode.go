package ft8

// Config controls decode behavior. Zero value is not valid; use
// DefaultConfig and override individual fields (spec.md §6).
type Config struct {
	FreqMinHz     float64
	FreqMaxHz     float64
	SyncThreshold float64
	MaxCandidates int
	DecodeTopN    int
	LDPCMaxIters  int
	DecodeDepth   int // 1 = BP only, 2 = BP+OSD(0), 3 = BP+OSD(2)
	NPasses       int
	MinSNRDB      float64
	Parallel      bool
}

// DefaultConfig returns the defaults listed in spec.md §6.
func DefaultConfig() Config {
	return Config{
		FreqMinHz:     100,
		FreqMaxHz:     3000,
		SyncThreshold: DefaultSyncThreshold,
		MaxCandidates: DefaultMaxCandidates,
		DecodeTopN:    100,
		LDPCMaxIters:  MaxBPIters,
		DecodeDepth:   3,
		NPasses:       3,
		MinSNRDB:      -18,
		Parallel:      false,
	}
}

// DecodedMessage is one successfully decoded FT8 transmission.
type DecodedMessage struct {
	Payload  [NumPayloadBits]int
	FreqHz   float64
	TimeSec  float64
	SNRdB    float64
	Pass     int
	SyncPow  float64
	ViaOSD   bool
	BPIters  int
}

// Decode runs the full multi-pass FT8 receiver pipeline (spec.md §4)
// over one 15-second, 12kHz mono slot and returns every message
// decoded, deduplicated, ordered by pass then descending sync power.
func Decode(audio []float64, cfg Config) []DecodedMessage {
	return runPasses(audio, cfg)
}
