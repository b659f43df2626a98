package newnote

import (
	"context"
	"log/slog"

	"github.com/alkime/notes/internal/speech"
	tea "github.com/charmbracelet/bubbletea"
)

// Recording lifecycle messages. Each carries the id of the session that
// produced it so that events from a released session can be dropped.
type (
	recordingStartedMsg struct {
		id  int
		err error
	}

	recordingEventMsg struct {
		id int
		ev speech.Event
	}

	recordingEndedMsg struct {
		id int
	}
)

// session is one recording. It is owned by the Model from construction
// until release.
type session struct {
	id     int
	rec    speech.Recognition
	ctx    context.Context
	cancel context.CancelFunc
}

func newSession(id int, rec speech.Recognition) *session {
	ctx, cancel := context.WithCancel(context.Background())

	return &session{id: id, rec: rec, ctx: ctx, cancel: cancel}
}

func (s *session) start() tea.Cmd {
	return func() tea.Msg {
		return recordingStartedMsg{id: s.id, err: s.rec.Start(s.ctx)}
	}
}

// listen waits for the next event. It is re-issued after every event
// until the events channel closes.
func (s *session) listen() tea.Cmd {
	events := s.rec.Events()

	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return recordingEndedMsg{id: s.id}
		}

		return recordingEventMsg{id: s.id, ev: ev}
	}
}

func (s *session) stop() {
	if err := s.rec.Stop(); err != nil {
		slog.Warn("failed to stop recording", "session", s.id, "error", err)
	}

	s.cancel()
	slog.Debug("recording released", "session", s.id)
}
