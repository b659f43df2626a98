// Package speech defines the live speech-transcription capability used by
// the note composer and its backends.
//
// A Recognizer is the environment capability: it reports whether
// transcription is available and constructs one Recognition per recording.
// A Recognition owns its audio source from Start until Stop and delivers
// ordered result and error events on Events. The events channel is closed
// once the session has released its resources.
package speech

import (
	"context"
	"errors"
	"strings"

	"github.com/alkime/notes/pkg/collections"
)

var (
	// ErrUnavailable is returned by recognizers that cannot transcribe in
	// this environment.
	ErrUnavailable = errors.New("speech recognition is not available")
	// ErrAlreadyStarted is returned when Start is called twice on a session.
	ErrAlreadyStarted = errors.New("recognition already started")
)

// Recognizer constructs recognition sessions.
type Recognizer interface {
	Available() bool
	New(cfg Config) (Recognition, error)
}

// Recognition is a single transcription session. Stop is safe to call
// more than once and from any goroutine.
type Recognition interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

// Alternative is one ranked hypothesis for a span of speech.
type Alternative struct {
	Transcript string
	Confidence float64
}

// Result is one recognition result group. Alternatives are ranked best
// first; interim groups may still change, final groups will not.
type Result struct {
	Alternatives []Alternative
	IsFinal      bool
}

// Top returns the best alternative's transcript.
func (r Result) Top() string {
	if len(r.Alternatives) == 0 {
		return ""
	}

	return r.Alternatives[0].Transcript
}

// Event is either a cumulative result snapshot or an error.
type Event struct {
	Results []Result
	Err     *Error
}

// Transcript concatenates the top transcript of every result group in order.
func Transcript(results []Result) string {
	return strings.Join(collections.Apply(results, Result.Top), "")
}

// Unavailable is the recognizer used when no backend is configured.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) New(Config) (Recognition, error) { return nil, ErrUnavailable }
