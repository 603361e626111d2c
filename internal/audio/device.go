package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// DeviceInfo holds audio device information. Only capture-capable
// devices are of interest to ft8live, so output channel counts are
// not tracked.
type DeviceInfo struct {
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
	IsDefault         bool
}

// ListDevices returns all available capture-capable audio devices.
func ListDevices() ([]DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	defaultIn, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, fmt.Errorf("default input device: %w", err)
	}

	var result []DeviceInfo
	for _, d := range devices {
		if d.MaxInputChannels == 0 {
			continue
		}
		result = append(result, DeviceInfo{
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			IsDefault:         d.Name == defaultIn.Name,
		})
	}
	return result, nil
}

// PrintDevices prints all available capture devices.
func PrintDevices() error {
	devices, err := ListDevices()
	if err != nil {
		return err
	}
	fmt.Println("Input devices:")
	for i, d := range devices {
		defaultStr := ""
		if d.IsDefault {
			defaultStr = " [DEFAULT]"
		}
		fmt.Printf("  %d: %s (in:%d rate:%.0f)%s\n",
			i, d.Name, d.MaxInputChannels, d.DefaultSampleRate, defaultStr)
	}
	return nil
}
