package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alkime/notes/internal/audio"
)

// AudioTranscriber transcribes one encoded audio clip.
type AudioTranscriber interface {
	Transcribe(ctx context.Context, clip []byte, lang string) (string, error)
}

// Whisper recognizes speech by cutting microphone audio into windows and
// transcribing the voiced ones through a batch AudioTranscriber.
// It produces final results only.
type Whisper struct {
	transcriber AudioTranscriber
	opts        *options
}

// NewWhisper returns a recognizer backed by transcriber.
func NewWhisper(transcriber AudioTranscriber, opts ...Option) *Whisper {
	return &Whisper{
		transcriber: transcriber,
		opts:        newOptions(opts),
	}
}

func (w *Whisper) Available() bool {
	return w.transcriber != nil && w.opts.newDevice != nil
}

func (w *Whisper) New(cfg Config) (Recognition, error) {
	if !w.Available() {
		return nil, ErrUnavailable
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	eng := &whisperEngine{
		cfg:         cfg,
		lang:        cfg.BaseLanguage(),
		transcriber: w.transcriber,
		opts:        w.opts,
	}

	return newCaptureSession("whisper", w.opts.newDevice(), eng), nil
}

type whisperEngine struct {
	cfg         Config
	lang        string
	transcriber AudioTranscriber
	opts        *options
}

func (e *whisperEngine) run(ctx context.Context, pcm <-chan audio.DataPacket, emit func(Event)) error {
	var (
		window     []byte
		voiced     bool
		heard      bool
		silent     int
		results    []Result
		windowSize = e.opts.windowBytes()
		budget     = e.opts.noSpeechBytes()
	)

	flush := func() (bool, error) {
		defer func() {
			window = window[:0]
			voiced = false
		}()

		if !voiced {
			return false, nil
		}

		text, err := e.transcribe(ctx, window)
		if err != nil {
			return false, err
		}

		if text == "" {
			return false, nil
		}

		results = append(results, finalResult(spaced(results, text)))
		emit(Event{Results: cloneResults(results)})

		return !e.cfg.Continuous, nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case packet, ok := <-pcm:
			if !ok {
				// Stopped by the owner: transcribe what is left so the
				// tail of the recording is not lost.
				if _, err := flush(); err != nil && ctx.Err() == nil {
					slog.Warn("failed to transcribe final window", "error", err)
				}

				return nil
			}

			window = append(window, packet...)

			if !audio.IsSilent(packet, e.opts.silenceThreshold) {
				voiced = true
				heard = true
			}

			if !heard {
				silent += len(packet)
				if budget > 0 && silent >= budget {
					return NewError(KindNoSpeech, nil)
				}
			}

			if len(window) < windowSize {
				continue
			}

			done, err := flush()
			if err != nil {
				return err
			}

			if done {
				return errSessionComplete
			}
		}
	}
}

func (e *whisperEngine) transcribe(ctx context.Context, pcm []byte) (string, error) {
	var clip bytes.Buffer
	if err := audio.EncodeMP3(&clip, pcm, e.opts.deviceConfig.SampleRate); err != nil {
		return "", NewError(KindAudioCapture, fmt.Errorf("encode window: %w", err))
	}

	text, err := e.transcriber.Transcribe(ctx, clip.Bytes(), e.lang)
	if err != nil {
		return "", AsError(err)
	}

	return strings.TrimSpace(text), nil
}

// errSessionComplete ends a single-shot session without reporting an error.
var errSessionComplete = errors.New("recognition complete")

func finalResult(text string) Result {
	return Result{
		Alternatives: []Alternative{{Transcript: text, Confidence: 1}},
		IsFinal:      true,
	}
}

// spaced prefixes text with a separator when it follows earlier groups, so
// Transcript reads naturally.
func spaced(results []Result, text string) string {
	if len(results) == 0 {
		return text
	}

	return " " + text
}

func cloneResults(results []Result) []Result {
	out := make([]Result, len(results))
	copy(out, results)

	return out
}
