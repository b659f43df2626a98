package tui

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alkime/notes/internal/note"
	"github.com/alkime/notes/internal/speech"
	"github.com/alkime/notes/internal/store"
	"github.com/alkime/notes/internal/tui/components/newnote"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

var fixedNow = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

type outputChecker struct {
	intervl, timeout time.Duration
}

func defaultChecker() outputChecker {
	return outputChecker{
		intervl: 50 * time.Millisecond,
		timeout: 3 * time.Second,
	}
}

func (o outputChecker) checkString(t *testing.T, tm *teatest.TestModel, substr string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(buf []byte) bool {
		return bytes.Contains(buf, []byte(substr))
	}, teatest.WithCheckInterval(o.intervl), teatest.WithDuration(o.timeout))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func seeded(t *testing.T, contents ...string) *store.Memory {
	t.Helper()

	s := store.NewMemory()
	for i, c := range contents {
		n, err := note.New(c, fixedNow.Add(-time.Duration(len(contents)-i)*24*time.Hour))
		require.NoError(t, err)
		require.NoError(t, s.Add(context.Background(), n))
	}

	return s
}

func TestBoardSaveFlow(t *testing.T) {
	s := seeded(t, "first note", "second note")

	cancelled := false
	m := New(Config{
		Store:      s,
		Recognizer: speech.NewFake(),
		Now:        func() time.Time { return fixedNow },
		Cancel:     func() { cancelled = true },
	})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))
	checker := defaultChecker()

	checker.checkString(t, tm, "second note")
	checker.checkString(t, tm, "1 day ago")

	tm.Send(runes("n"))
	checker.checkString(t, tm, "use text only")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlE})
	for _, r := range "call mom" {
		tm.Send(runes(string(r)))
	}
	checker.checkString(t, tm, "call mom")

	tm.Send(runes("q"))
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlS})
	checker.checkString(t, tm, newnote.MsgSaved)

	require.Eventually(t, func() bool {
		notes, err := s.List(context.Background())
		return err == nil && len(notes) == 3
	}, 2*time.Second, 20*time.Millisecond)

	notes, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "call momq", notes[0].Content, "q types into the open dialog")
	assert.Equal(t, fixedNow, notes[0].CreatedAt)

	tm.Send(runes("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
	assert.True(t, cancelled)

	final, ok := tm.FinalModel(t).(*model)
	require.True(t, ok)
	require.Len(t, final.notes, 3)
	assert.Equal(t, "call momq", final.notes[0].Content)
}

func TestBoardDirect(t *testing.T) {
	newBoard := func(rec speech.Recognizer) *model {
		b, ok := New(Config{Recognizer: rec, Now: func() time.Time { return fixedNow }}).(*model)
		require.True(t, ok)

		return b
	}

	t.Run("empty board", func(t *testing.T) {
		b := newBoard(nil)
		_, _ = b.Update(notesLoadedMsg{})

		assert.Contains(t, b.View(), "No notes yet.")
		assert.Contains(t, b.View(), "Add note")
	})

	t.Run("load failure notifies", func(t *testing.T) {
		b := newBoard(nil)
		_, cmd := b.Update(notesLoadedMsg{err: assert.AnError})

		require.NotNil(t, cmd)
		_, _ = b.Update(cmd())
		assert.Contains(t, b.View(), "Could not load notes.")
	})

	t.Run("alert blocks keys until dismissed", func(t *testing.T) {
		b := newBoard(speech.Unavailable{})
		_, _ = b.Update(runes("n"))

		_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
		require.NotNil(t, cmd)
		_, _ = b.Update(cmd())

		require.True(t, b.notify.Blocking())
		assert.Contains(t, b.View(), newnote.MsgUnsupported)

		_, _ = b.Update(runes("x"))
		assert.Empty(t, b.composer.Content(), "keys do not reach the composer")

		_, _ = b.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.False(t, b.notify.Blocking())
		assert.True(t, b.composer.IsOpen())
		assert.True(t, b.composer.OnboardingVisible())
	})

	t.Run("force quit releases recording", func(t *testing.T) {
		fake := speech.NewFake()
		b := newBoard(fake)

		_, _ = b.Update(runes("n"))
		_, _ = b.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
		require.True(t, b.composer.Recording())

		_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
		assert.True(t, fake.Last().Stopped())
		assert.False(t, b.composer.Recording())
	})

	t.Run("resize reflows cards", func(t *testing.T) {
		b := newBoard(nil)
		_, _ = b.Update(notesLoadedMsg{notes: []note.Note{
			{Content: "a", CreatedAt: fixedNow},
			{Content: "b", CreatedAt: fixedNow},
		}})

		_, _ = b.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
		narrow := b.boardView()

		_, _ = b.Update(tea.WindowSizeMsg{Width: 120, Height: 20})
		wide := b.boardView()

		assert.Greater(t, lipgloss.Height(narrow), lipgloss.Height(wide))
	})
}
