package audio

import (
	"context"
	"errors"
	"sync"
	"time"
)

const fakeChunkBytes = 3200 // 100ms @ 16kHz mono

// FakeDevice replays a fixed PCM buffer and then silence until stopped.
// It stands in for a microphone in tests and demo runs.
type FakeDevice struct {
	PCM      []byte
	Interval time.Duration

	mu        sync.Mutex
	dataC     chan<- DataPacket
	stopC     chan struct{}
	done      chan struct{}
	deallocs  int
	startErr  error
	allocated bool
}

// NewFakeDevice returns a device that plays pcm in 100ms packets.
func NewFakeDevice(pcm []byte) *FakeDevice {
	return &FakeDevice{PCM: pcm, Interval: 10 * time.Millisecond}
}

// FailStart makes the next Start return err.
func (f *FakeDevice) FailStart(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startErr = err
}

func (f *FakeDevice) EnumerateDevices(context.Context) ([]Info, error) {
	return []Info{{Name: "fake", IsDefault: true}}, nil
}

func (f *FakeDevice) CaptureInto(_ context.Context, dataC chan<- DataPacket) error {
	if dataC == nil {
		return errors.New("data channel is nil. unable to allocate device")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.dataC = dataC
	f.allocated = true

	return nil
}

func (f *FakeDevice) Start(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.startErr != nil {
		return f.startErr
	}

	if !f.allocated {
		return errNotAllocated
	}

	if f.stopC != nil {
		return nil
	}

	f.stopC = make(chan struct{})
	f.done = make(chan struct{})

	go f.play(f.dataC, f.stopC, f.done)

	return nil
}

func (f *FakeDevice) play(dataC chan<- DataPacket, stopC, done chan struct{}) {
	defer close(done)

	pos := 0
	silence := make(DataPacket, fakeChunkBytes)

	for {
		packet := silence
		if pos < len(f.PCM) {
			end := min(pos+fakeChunkBytes, len(f.PCM))
			packet = make(DataPacket, end-pos)
			copy(packet, f.PCM[pos:end])
			pos = end
		}

		select {
		case dataC <- packet:
		case <-stopC:
			return
		}

		select {
		case <-time.After(f.Interval):
		case <-stopC:
			return
		}
	}
}

func (f *FakeDevice) Stop(context.Context) error {
	f.mu.Lock()
	stopC, done := f.stopC, f.done
	f.stopC, f.done = nil, nil
	f.mu.Unlock()

	if stopC == nil {
		return nil
	}

	close(stopC)
	<-done

	return nil
}

func (f *FakeDevice) IsStarted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.stopC != nil
}

func (f *FakeDevice) Dealloc(ctx context.Context) {
	_ = f.Stop(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.allocated = false
	f.dataC = nil
	f.deallocs++
}

// Deallocs returns how many times Dealloc was called.
func (f *FakeDevice) Deallocs() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.deallocs
}

// Tone returns n samples of a loud square wave as S16LE PCM.
func Tone(n int) []byte {
	pcm := make([]byte, n*BytesPerSample)

	for i := 0; i < n; i++ {
		v := int16(12000)
		if (i/20)%2 == 1 {
			v = -12000
		}

		pcm[i*2] = byte(uint16(v))
		pcm[i*2+1] = byte(uint16(v) >> 8)
	}

	return pcm
}
