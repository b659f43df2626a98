package speech_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alkime/notes/internal/audio"
	"github.com/alkime/notes/internal/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTranscriber struct {
	text string
	err  error

	mu    sync.Mutex
	calls int
	langs []string
}

func (s *stubTranscriber) Transcribe(_ context.Context, clip []byte, lang string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(clip) == 0 {
		return "", errors.New("empty clip")
	}

	s.calls++
	s.langs = append(s.langs, lang)

	return s.text, s.err
}

func (s *stubTranscriber) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

func newWhisper(t *testing.T, tr speech.AudioTranscriber, dev *audio.FakeDevice, opts ...speech.Option) *speech.Whisper {
	t.Helper()

	opts = append([]speech.Option{
		speech.WithDevice(func() audio.Device { return dev }),
		speech.WithWindow(100 * time.Millisecond),
	}, opts...)

	return speech.NewWhisper(tr, opts...)
}

func TestWhisper(t *testing.T) {
	t.Run("transcribes voiced windows", func(t *testing.T) {
		tr := &stubTranscriber{text: " hello "}
		dev := audio.NewFakeDevice(audio.Tone(audio.DefaultSampleRate))
		w := newWhisper(t, tr, dev)
		require.True(t, w.Available())

		rec, err := w.New(speech.DefaultConfig())
		require.NoError(t, err)
		require.NoError(t, rec.Start(context.Background()))

		events := collect(t, rec.Events(), 2)
		require.Len(t, events, 2)
		assert.Equal(t, "hello", speech.Transcript(events[0].Results))
		assert.Equal(t, "hello hello", speech.Transcript(events[1].Results))
		assert.True(t, events[1].Results[1].IsFinal)

		levels, ok := rec.(interface{ Read() []int16 })
		require.True(t, ok)
		assert.Eventually(t, func() bool {
			return len(levels.Read()) > 0
		}, time.Second, 10*time.Millisecond)

		require.NoError(t, rec.Stop())
		waitClosed(t, rec.Events())
		assert.Equal(t, 1, dev.Deallocs())
		assert.False(t, dev.IsStarted())

		tr.mu.Lock()
		assert.Equal(t, "pt", tr.langs[0])
		tr.mu.Unlock()
	})

	t.Run("single shot releases device", func(t *testing.T) {
		tr := &stubTranscriber{text: "done"}
		dev := audio.NewFakeDevice(audio.Tone(audio.DefaultSampleRate))

		cfg := speech.DefaultConfig()
		cfg.Continuous = false

		rec, err := newWhisper(t, tr, dev).New(cfg)
		require.NoError(t, err)
		require.NoError(t, rec.Start(context.Background()))

		events := waitClosed(t, rec.Events())
		require.Len(t, events, 1)
		assert.Nil(t, events[0].Err)
		assert.Equal(t, "done", speech.Transcript(events[0].Results))
		assert.Equal(t, 1, dev.Deallocs())
	})

	t.Run("silence ends with no-speech", func(t *testing.T) {
		tr := &stubTranscriber{text: "never"}
		dev := audio.NewFakeDevice(nil)

		rec, err := newWhisper(t, tr, dev, speech.WithNoSpeechTimeout(300*time.Millisecond)).
			New(speech.DefaultConfig())
		require.NoError(t, err)
		require.NoError(t, rec.Start(context.Background()))

		events := waitClosed(t, rec.Events())
		require.Len(t, events, 1)
		require.NotNil(t, events[0].Err)
		assert.Equal(t, speech.KindNoSpeech, events[0].Err.Kind)
		assert.Zero(t, tr.Calls())
		assert.Equal(t, 1, dev.Deallocs())
	})

	t.Run("transcriber failure is a network error", func(t *testing.T) {
		tr := &stubTranscriber{err: errors.New("503")}
		dev := audio.NewFakeDevice(audio.Tone(audio.DefaultSampleRate))

		rec, err := newWhisper(t, tr, dev).New(speech.DefaultConfig())
		require.NoError(t, err)
		require.NoError(t, rec.Start(context.Background()))

		events := waitClosed(t, rec.Events())
		require.Len(t, events, 1)
		require.NotNil(t, events[0].Err)
		assert.Equal(t, speech.KindNetwork, events[0].Err.Kind)
	})

	t.Run("device failure is audio-capture", func(t *testing.T) {
		dev := audio.NewFakeDevice(nil)
		dev.FailStart(errors.New("device busy"))

		rec, err := newWhisper(t, &stubTranscriber{}, dev).New(speech.DefaultConfig())
		require.NoError(t, err)

		err = rec.Start(context.Background())
		require.Error(t, err)
		assert.True(t, speech.IsKind(err, speech.KindAudioCapture))
		assert.Equal(t, 1, dev.Deallocs())

		require.NoError(t, rec.Stop())
		assert.Empty(t, waitClosed(t, rec.Events()))
	})

	t.Run("start twice", func(t *testing.T) {
		dev := audio.NewFakeDevice(nil)

		rec, err := newWhisper(t, &stubTranscriber{}, dev, speech.WithNoSpeechTimeout(0)).
			New(speech.DefaultConfig())
		require.NoError(t, err)
		require.NoError(t, rec.Start(context.Background()))
		assert.ErrorIs(t, rec.Start(context.Background()), speech.ErrAlreadyStarted)
		require.NoError(t, rec.Stop())
	})

	t.Run("unavailable without transcriber", func(t *testing.T) {
		w := speech.NewWhisper(nil)

		assert.False(t, w.Available())
		_, err := w.New(speech.DefaultConfig())
		assert.ErrorIs(t, err, speech.ErrUnavailable)
	})
}
