// Command ft8live captures live audio from a sound card and decodes
// FT8 transmissions slot by slot, optionally serving a dashboard.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ft8dec/ft8dec/internal/audio"
	"github.com/ft8dec/ft8dec/internal/ft8"
	"github.com/ft8dec/ft8dec/internal/server"
)

func main() {
	listDevices := flag.Bool("list-devices", false, "list capture devices and exit")
	decodeDepth := flag.Int("decode-depth", 3, "1=BP only, 2=BP+OSD(0), 3=BP+OSD(2)")
	nPasses := flag.Int("passes", 3, "number of subtraction passes")
	minSNR := flag.Float64("min-snr", -18, "minimum SNR (dB in 2500Hz) to report")
	serve := flag.Bool("serve", true, "start the decode dashboard")
	addr := flag.String("addr", "0.0.0.0:8080", "dashboard listen address")
	flag.Parse()

	if err := audio.Init(); err != nil {
		log.Fatalf("portaudio init: %v", err)
	}
	defer audio.Terminate()

	if *listDevices {
		if err := audio.PrintDevices(); err != nil {
			log.Fatalf("list devices: %v", err)
		}
		return
	}

	cfg := ft8.DefaultConfig()
	cfg.DecodeDepth = *decodeDepth
	cfg.NPasses = *nPasses
	cfg.MinSNRDB = *minSNR

	var hub *server.WSHub
	if *serve {
		hub = server.NewWSHub()
		handlers := server.NewHandlers(hub)
		srv := server.NewServer(*addr, handlers)
		go func() {
			if err := srv.Start(); err != nil {
				log.Fatalf("dashboard server error: %v", err)
			}
		}()
	}

	cap := audio.NewCapture()
	if err := cap.Open(); err != nil {
		log.Fatalf("open capture: %v", err)
	}
	defer cap.Close()
	if err := cap.Start(); err != nil {
		log.Fatalf("start capture: %v", err)
	}
	defer cap.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	stopped := false
	stop := func() bool { return stopped }
	go func() {
		<-sigCh
		fmt.Println("\nshutting down")
		stopped = true
	}()

	slots := make(chan audio.Slot, 2)
	go func() {
		if err := cap.Run(slots, stop); err != nil {
			log.Printf("capture error: %v", err)
		}
		close(slots)
	}()

	for slot := range slots {
		decodes := ft8.Decode(slot.Samples, cfg)
		log.Printf("slot %s: %d decodes", slot.StartUTC.Format("15:04:05"), len(decodes))
		for _, d := range decodes {
			log.Printf("  pass=%d freq=%.1fHz t=%.2fs snr=%.1fdB osd=%v payload=%v",
				d.Pass, d.FreqHz, d.TimeSec, d.SNRdB, d.ViaOSD, d.Payload)
			if hub != nil {
				hub.BroadcastDecode(d)
			}
		}
	}
}
