package speech

import (
	"context"
	"errors"
)

// ErrorKind classifies recognition failures. The values match the error
// codes of the W3C Web Speech API.
type ErrorKind string

const (
	KindNoSpeech             ErrorKind = "no-speech"
	KindAborted              ErrorKind = "aborted"
	KindAudioCapture         ErrorKind = "audio-capture"
	KindNetwork              ErrorKind = "network"
	KindNotAllowed           ErrorKind = "not-allowed"
	KindServiceNotAllowed    ErrorKind = "service-not-allowed"
	KindLanguageNotSupported ErrorKind = "language-not-supported"
)

// Error is a classified recognition failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}

	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with a kind.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// AsError classifies err. Errors that are already classified keep their
// kind, cancellations become aborted and anything else is a network error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	var se *Error
	if errors.As(err, &se) {
		return se
	}

	if errors.Is(err, context.Canceled) {
		return NewError(KindAborted, err)
	}

	return NewError(KindNetwork, err)
}

// IsKind reports whether err is a recognition error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *Error

	return errors.As(err, &se) && se.Kind == kind
}
