package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate   = 12000 // fs, FT8's fixed capture rate
	FramesPerBuf = 1024
	NumChannels  = 1
)

// SlotSamples is the length of one 15-second FT8 slot at SampleRate.
const SlotSamples = 15 * SampleRate

// Capture wraps a PortAudio mono input stream, read-only (ft8live has
// no transmit path).
type Capture struct {
	inputStream *portaudio.Stream
	inputBuf    []float32
	mu          sync.Mutex
}

// Init initializes PortAudio.
func Init() error {
	return portaudio.Initialize()
}

// Terminate cleans up PortAudio.
func Terminate() error {
	return portaudio.Terminate()
}

// NewCapture creates a new Capture instance.
func NewCapture() *Capture {
	return &Capture{
		inputBuf: make([]float32, FramesPerBuf),
	}
}

// Open opens the default mono input stream.
func (c *Capture) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stream, err := portaudio.OpenDefaultStream(
		NumChannels,
		0,
		float64(SampleRate),
		FramesPerBuf,
		c.inputBuf,
	)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	c.inputStream = stream
	return nil
}

// Start starts the input stream.
func (c *Capture) Start() error {
	if c.inputStream == nil {
		return fmt.Errorf("input stream not opened")
	}
	return c.inputStream.Start()
}

// Stop stops the input stream.
func (c *Capture) Stop() error {
	if c.inputStream == nil {
		return nil
	}
	return c.inputStream.Stop()
}

// Read reads one buffer of samples from the input stream.
func (c *Capture) Read() ([]float32, error) {
	if c.inputStream == nil {
		return nil, fmt.Errorf("input stream not opened")
	}
	if err := c.inputStream.Read(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	out := make([]float32, len(c.inputBuf))
	copy(out, c.inputBuf)
	return out, nil
}

// Close closes the input stream.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inputStream == nil {
		return nil
	}
	err := c.inputStream.Close()
	c.inputStream = nil
	return err
}

// Slot is one completed, UTC 15-second-aligned capture window.
type Slot struct {
	StartUTC time.Time
	Samples  []float64
}

// Run reads continuously until stop returns true, emitting one Slot
// per UTC 15-second boundary on slots. It first blocks until the next
// boundary so every emitted slot is aligned the way FT8 receivers
// expect.
func (c *Capture) Run(slots chan<- Slot, stop func() bool) error {
	if c.inputStream == nil {
		return fmt.Errorf("input stream not opened")
	}

	waitForNextBoundary()
	slotStart := currentSlotBoundary()
	acc := make([]float64, 0, SlotSamples+FramesPerBuf)

	for !stop() {
		buf, err := c.Read()
		if err != nil {
			return err
		}
		for _, s := range buf {
			acc = append(acc, float64(s))
		}

		if len(acc) >= SlotSamples {
			out := make([]float64, SlotSamples)
			copy(out, acc[:SlotSamples])
			slots <- Slot{StartUTC: slotStart, Samples: out}
			acc = append(acc[:0], acc[SlotSamples:]...)
			slotStart = slotStart.Add(15 * time.Second)
		}
	}
	return nil
}

func waitForNextBoundary() {
	wait := time.Until(currentSlotBoundary().Add(15 * time.Second))
	if wait > 0 {
		time.Sleep(wait)
	}
}

func currentSlotBoundary() time.Time {
	now := time.Now().UTC()
	secOfDay := now.Hour()*3600 + now.Minute()*60 + now.Second()
	slotSec := (secOfDay / 15) * 15
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(slotSec) * time.Second)
}
