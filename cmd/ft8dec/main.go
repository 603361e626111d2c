// Command ft8dec decodes FT8 transmissions from 15-second WAV slots.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ft8dec/ft8dec/internal/ft8"
	"github.com/ft8dec/ft8dec/internal/server"
	"github.com/ft8dec/ft8dec/internal/wav"
)

func main() {
	freqMin := flag.Float64("freq-min", 100, "minimum search frequency, Hz")
	freqMax := flag.Float64("freq-max", 3000, "maximum search frequency, Hz")
	syncThreshold := flag.Float64("sync-threshold", ft8.DefaultSyncThreshold, "sync power threshold")
	maxCandidates := flag.Int("max-candidates", ft8.DefaultMaxCandidates, "maximum sync candidates per pass")
	decodeTopN := flag.Int("decode-top-n", 100, "candidates attempted per pass")
	decodeDepth := flag.Int("decode-depth", 3, "1=BP only, 2=BP+OSD(0), 3=BP+OSD(2)")
	nPasses := flag.Int("passes", 3, "number of subtraction passes")
	minSNR := flag.Float64("min-snr", -18, "minimum SNR (dB in 2500Hz) to report")
	parallel := flag.Bool("parallel", false, "decode candidates across a worker pool")
	serve := flag.Bool("serve", false, "start the decode dashboard and broadcast decodes to it")
	addr := flag.String("addr", "0.0.0.0:8080", "dashboard listen address")
	flag.Parse()

	if flag.NArg() == 0 && !*serve {
		log.Fatal("usage: ft8dec [flags] file.wav [file2.wav ...]")
	}

	cfg := ft8.DefaultConfig()
	cfg.FreqMinHz = *freqMin
	cfg.FreqMaxHz = *freqMax
	cfg.SyncThreshold = *syncThreshold
	cfg.MaxCandidates = *maxCandidates
	cfg.DecodeTopN = *decodeTopN
	cfg.DecodeDepth = *decodeDepth
	cfg.NPasses = *nPasses
	cfg.MinSNRDB = *minSNR
	cfg.Parallel = *parallel

	var hub *server.WSHub
	if *serve {
		hub = server.NewWSHub()
		handlers := server.NewHandlers(hub)
		srv := server.NewServer(*addr, handlers)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			fmt.Println("\nshutting down")
			os.Exit(0)
		}()

		go func() {
			if err := srv.Start(); err != nil {
				log.Fatalf("dashboard server error: %v", err)
			}
		}()
	}

	for _, path := range flag.Args() {
		if err := decodeFile(path, cfg, hub); err != nil {
			log.Printf("%s: %v", path, err)
		}
	}

	if *serve {
		select {}
	}
}

func decodeFile(path string, cfg ft8.Config, hub *server.WSHub) error {
	f, err := wav.ReadFile(path)
	if err != nil {
		return err
	}
	if f.SampleRate != ft8.SampleRate {
		return fmt.Errorf("unsupported sample rate %d (need %d)", f.SampleRate, ft8.SampleRate)
	}

	decodes := ft8.Decode(f.Samples, cfg)
	for _, d := range decodes {
		log.Printf("%s pass=%d freq=%.1fHz t=%.2fs snr=%.1fdB osd=%v payload=%v",
			path, d.Pass, d.FreqHz, d.TimeSec, d.SNRdB, d.ViaOSD, d.Payload)
		if hub != nil {
			hub.BroadcastDecode(d)
		}
	}
	return nil
}
