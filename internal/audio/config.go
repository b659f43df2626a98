package audio

import (
	"github.com/gen2brain/malgo"
)

const (
	// DefaultSampleRate is 16kHz, the native rate for both Whisper and Deepgram linear16.
	DefaultSampleRate = 16_000
	// DefaultChannels is mono.
	DefaultChannels = 1
	// BytesPerSample is the size of one S16LE sample.
	BytesPerSample = 2
)

type DeviceConfig struct {
	Format           malgo.FormatType
	CaptureChannels  int
	PlaybackChannels int
	SampleRate       int
}

// DefaultDeviceConfig captures 16kHz mono S16LE.
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Format:          malgo.FormatS16,
		CaptureChannels: DefaultChannels,
		SampleRate:      DefaultSampleRate,
	}
}

// BytesPerSecond returns the PCM byte rate for the config.
func (c *DeviceConfig) BytesPerSecond() int {
	return c.SampleRate * c.CaptureChannels * BytesPerSample
}
