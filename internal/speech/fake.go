package speech

import (
	"context"
	"sync"
	"time"
)

const fakeEventBuffer = 64

// Fake is a scripted recognizer. Every session replays Script, one event per
// Delay, and can be driven further with Emit. Sessions constructed with
// Continuous=false end after the script; a scripted error always ends the
// session.
type Fake struct {
	Unavailable bool
	Script      []Event
	Delay       time.Duration
	StartErr    error

	mu       sync.Mutex
	configs  []Config
	sessions []*FakeSession
}

// NewFake returns an available fake recognizer that replays script.
func NewFake(script ...Event) *Fake {
	return &Fake{Script: script, Delay: 50 * time.Millisecond}
}

func (f *Fake) Available() bool {
	return !f.Unavailable
}

func (f *Fake) New(cfg Config) (Recognition, error) {
	if f.Unavailable {
		return nil, ErrUnavailable
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &FakeSession{
		cfg:      cfg,
		script:   append([]Event(nil), f.Script...),
		delay:    f.Delay,
		startErr: f.StartErr,
		events:   make(chan Event, fakeEventBuffer),
		stopC:    make(chan struct{}),
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs = append(f.configs, cfg)
	f.sessions = append(f.sessions, s)

	return s, nil
}

// Configs returns the configs passed to New, in order.
func (f *Fake) Configs() []Config {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]Config(nil), f.configs...)
}

// Sessions returns every session constructed so far.
func (f *Fake) Sessions() []*FakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*FakeSession(nil), f.sessions...)
}

// Last returns the most recent session, or nil.
func (f *Fake) Last() *FakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.sessions) == 0 {
		return nil
	}

	return f.sessions[len(f.sessions)-1]
}

// FakeSession is a recognition session driven by a script or by Emit.
type FakeSession struct {
	cfg      Config
	script   []Event
	delay    time.Duration
	startErr error
	events   chan Event
	stopC    chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool
	stops   int
}

func (s *FakeSession) Start(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.startErr != nil {
		return s.startErr
	}

	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	go s.play()

	return nil
}

func (s *FakeSession) play() {
	for _, ev := range s.script {
		select {
		case <-time.After(s.delay):
		case <-s.stopC:
			return
		}

		if !s.Emit(ev) {
			return
		}
	}

	if !s.cfg.Continuous {
		s.end()
	}
}

// Emit delivers ev unless the session is stopped. An error event ends the
// session. It reports whether the event was delivered.
func (s *FakeSession) Emit(ev Event) bool {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return false
	}

	select {
	case s.events <- ev:
	default:
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	if ev.Err != nil {
		s.end()
	}

	return true
}

// Results emits a result event with one final group per transcript.
func (s *FakeSession) Results(transcripts ...string) bool {
	results := make([]Result, 0, len(transcripts))
	for _, t := range transcripts {
		results = append(results, finalResult(t))
	}

	return s.Emit(Event{Results: results})
}

// Fail emits an error event of the given kind.
func (s *FakeSession) Fail(kind ErrorKind) bool {
	return s.Emit(Event{Err: NewError(kind, nil)})
}

func (s *FakeSession) Stop() error {
	s.mu.Lock()
	s.stops++
	s.mu.Unlock()

	s.end()

	return nil
}

func (s *FakeSession) end() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	s.stopped = true
	close(s.stopC)
	close(s.events)
}

func (s *FakeSession) Events() <-chan Event {
	return s.events
}

// Config returns the configuration the session was built with.
func (s *FakeSession) Config() Config {
	return s.cfg
}

// Started reports whether Start succeeded.
func (s *FakeSession) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.started
}

// Stopped reports whether the session has been released.
func (s *FakeSession) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stopped
}

// Stops counts calls to Stop.
func (s *FakeSession) Stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stops
}
