package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alkime/notes/internal/audio"
	"github.com/alkime/notes/pkg/channels"
)

const (
	engineBufferPackets = 512
	meterBufferPackets  = 16
	eventBuffer         = 16
)

// engine turns a stream of PCM packets into recognition events. run returns
// nil when pcm is closed or ctx is cancelled, and an error when the
// recognition failed or must end on its own (no speech, single-shot result).
type engine interface {
	run(ctx context.Context, pcm <-chan audio.DataPacket, emit func(Event)) error
}

// captureSession owns one capture device for the lifetime of a recording
// and fans its audio out to the engine and the level meter.
type captureSession struct {
	name   string
	dev    audio.Device
	eng    engine
	meter  *audio.Meter
	events chan Event

	mu        sync.Mutex
	started   bool
	live      bool
	cancel    context.CancelFunc
	stopBcast context.CancelFunc
	bcast     *channels.Broadcaster[audio.DataPacket]
	engineC   chan audio.DataPacket
	meterC    chan audio.DataPacket
	workers   sync.WaitGroup
	stopOnce  sync.Once
}

func newCaptureSession(name string, dev audio.Device, eng engine) *captureSession {
	return &captureSession{
		name:   name,
		dev:    dev,
		eng:    eng,
		meter:  audio.NewMeter(defaultMeterCapacity, defaultMeterWindow),
		events: make(chan Event, eventBuffer),
	}
}

func (s *captureSession) Events() <-chan Event {
	return s.events
}

// Read returns the most recent microphone samples for level display.
func (s *captureSession) Read() []int16 {
	return s.meter.Read()
}

func (s *captureSession) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	engineC := make(chan audio.DataPacket, engineBufferPackets)
	meterC := make(chan audio.DataPacket, meterBufferPackets)

	bcast := channels.NewBroadcaster[audio.DataPacket]()
	if err := bcast.Subscribe(engineC); err != nil {
		return fmt.Errorf("subscribe engine: %w", err)
	}
	if err := bcast.Subscribe(meterC); err != nil {
		return fmt.Errorf("subscribe meter: %w", err)
	}

	bctx, stopBcast := context.WithCancel(context.Background())
	input, err := bcast.Run(bctx)
	if err != nil {
		stopBcast()
		return fmt.Errorf("start broadcaster: %w", err)
	}

	if err := s.dev.CaptureInto(ctx, input); err != nil {
		stopBcast()
		return NewError(KindAudioCapture, err)
	}

	if err := s.dev.Start(ctx); err != nil {
		s.dev.Dealloc(ctx)
		stopBcast()
		return NewError(KindAudioCapture, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.live = true
	s.cancel = cancel
	s.stopBcast = stopBcast
	s.bcast = bcast
	s.engineC = engineC
	s.meterC = meterC

	s.workers.Go(func() {
		for packet := range meterC {
			s.meter.Feed(packet)
		}
	})

	s.workers.Go(func() {
		err := s.eng.run(runCtx, engineC, s.emitter(runCtx))
		if err != nil && !errors.Is(err, errSessionComplete) && runCtx.Err() == nil {
			s.emitter(runCtx)(Event{Err: AsError(err)})
		}

		// The engine is done on its own; release the device without
		// blocking on this worker.
		go func() { _ = s.Stop() }()
	})

	slog.Debug("recognition started", "backend", s.name)

	return nil
}

func (s *captureSession) emitter(ctx context.Context) func(Event) {
	return func(ev Event) {
		if err := channels.SendContext(ctx, s.events, ev); err != nil {
			slog.Debug("recognition event dropped", "backend", s.name, "error", err)
		}
	}
}

// Stop releases the device and closes Events. Calls after the first are
// no-ops.
func (s *captureSession) Stop() error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.started = true
		live := s.live
		s.mu.Unlock()

		if live {
			s.shutdown()
		}

		close(s.events)
		slog.Debug("recognition released", "backend", s.name)
	})

	return nil
}

// shutdown stops the producer before closing anything it writes to.
func (s *captureSession) shutdown() {
	ctx := context.Background()

	if err := s.dev.Stop(ctx); err != nil {
		slog.Warn("failed to stop capture device", "error", err)
	}

	s.stopBcast()
	s.bcast.Wait()

	close(s.engineC)
	close(s.meterC)

	s.cancel()
	s.workers.Wait()

	s.dev.Dealloc(ctx)

	for i, st := range s.bcast.Stats() {
		if st.Dropped > 0 {
			slog.Debug("dropped audio packets", "subscriber", i, "count", st.Dropped)
		}
	}
}
