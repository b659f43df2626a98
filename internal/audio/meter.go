package audio

import (
	"encoding/binary"
	"sync"
)

// Meter keeps the most recent captured samples for level displays. One
// goroutine feeds it PCM while the UI reads a window from another.
type Meter struct {
	mu      sync.RWMutex
	samples []int16
	head    int
	count   int
	window  int
}

// NewMeter keeps up to capacity samples and reports the last window of them.
func NewMeter(capacity, window int) *Meter {
	return &Meter{
		samples: make([]int16, capacity),
		window:  min(window, capacity),
	}
}

// Feed appends an S16LE packet, overwriting the oldest samples when full.
func (m *Meter) Feed(pcm DataPacket) {
	m.Write(BytesToInt16(pcm))
}

// Write appends samples, overwriting the oldest when full.
func (m *Meter) Write(samples []int16) {
	if len(samples) == 0 || len(m.samples) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range samples {
		m.samples[m.head] = s
		m.head = (m.head + 1) % len(m.samples)
		m.count = min(m.count+1, len(m.samples))
	}
}

// Last returns up to n of the most recent samples, oldest first.
func (m *Meter) Last(n int) []int16 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n = min(n, m.count)
	if n <= 0 {
		return nil
	}

	out := make([]int16, n)
	start := (m.head - n + len(m.samples)) % len(m.samples)

	for i := range out {
		out[i] = m.samples[(start+i)%len(m.samples)]
	}

	return out
}

// Read implements uictl.Levels[int16] over the configured window.
func (m *Meter) Read() []int16 {
	return m.Last(m.window)
}

// BytesToInt16 converts S16LE (signed 16-bit little-endian) bytes to int16 samples.
// A trailing odd byte is ignored.
func BytesToInt16(data []byte) []int16 {
	n := len(data) / BytesPerSample
	if n == 0 {
		return nil
	}

	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}

	return samples
}
