package speech

import (
	"time"

	"github.com/alkime/notes/internal/audio"
)

const (
	defaultNoSpeechTimeout  = 8 * time.Second
	defaultWindow           = 3 * time.Second
	defaultSilenceThreshold = 0.02
	defaultMeterCapacity    = 16_000
	defaultMeterWindow      = 1_600
)

type options struct {
	newDevice        func() audio.Device
	deviceConfig     *audio.DeviceConfig
	noSpeechTimeout  time.Duration
	window           time.Duration
	silenceThreshold float64
}

// Option configures the capture-backed recognizers.
type Option func(*options)

// WithDevice sets the factory used to acquire a fresh capture device for
// every recording.
func WithDevice(newDevice func() audio.Device) Option {
	return func(o *options) {
		o.newDevice = newDevice
	}
}

// WithDeviceConfig overrides the capture format.
func WithDeviceConfig(cfg *audio.DeviceConfig) Option {
	return func(o *options) {
		o.deviceConfig = cfg
	}
}

// WithNoSpeechTimeout sets how much audio may be captured before the first
// speech is heard. Non-positive durations disable the timeout.
func WithNoSpeechTimeout(d time.Duration) Option {
	return func(o *options) {
		o.noSpeechTimeout = d
	}
}

// WithWindow sets the length of the audio windows sent to batch backends.
func WithWindow(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.window = d
		}
	}
}

// WithSilenceThreshold sets the RMS level below which audio is silence.
func WithSilenceThreshold(level float64) Option {
	return func(o *options) {
		o.silenceThreshold = level
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		newDevice: func() audio.Device {
			return audio.NewDevice(nil)
		},
		deviceConfig:     audio.DefaultDeviceConfig(),
		noSpeechTimeout:  defaultNoSpeechTimeout,
		window:           defaultWindow,
		silenceThreshold: defaultSilenceThreshold,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// noSpeechBytes converts the no-speech timeout into an audio byte budget.
// Zero means unlimited.
func (o *options) noSpeechBytes() int {
	if o.noSpeechTimeout <= 0 {
		return 0
	}

	return int(o.noSpeechTimeout.Seconds() * float64(o.deviceConfig.BytesPerSecond()))
}

func (o *options) windowBytes() int {
	return int(o.window.Seconds() * float64(o.deviceConfig.BytesPerSecond()))
}
