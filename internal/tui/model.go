// Package tui is the notes board: a composer card followed by the saved
// notes, newest first.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alkime/notes/internal/note"
	"github.com/alkime/notes/internal/speech"
	"github.com/alkime/notes/internal/store"
	"github.com/alkime/notes/internal/tui/components/newnote"
	"github.com/alkime/notes/internal/tui/components/notecard"
	"github.com/alkime/notes/internal/tui/components/notify"
	"github.com/alkime/notes/internal/tui/style"
	"github.com/alkime/notes/pkg/collections"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	cardGap       = 1
)

// Config wires the board to its collaborators.
type Config struct {
	Store      store.Store
	Recognizer speech.Recognizer
	Speech     speech.Config
	// Now stamps new notes. Defaults to time.Now.
	Now func() time.Time
	// Cancel is called when the board quits.
	Cancel context.CancelFunc
}

type (
	notesLoadedMsg struct {
		notes []note.Note
		err   error
	}

	noteStoredMsg struct {
		id  string
		err error
	}
)

type model struct {
	config   Config
	keys     KeyMap
	composer newnote.Model
	notify   notify.Model
	notes    []note.Note
	pending  []note.Note
	width    int
	height   int
}

// New creates the board model.
func New(config Config) tea.Model {
	if config.Now == nil {
		config.Now = time.Now
	}

	if config.Store == nil {
		config.Store = store.NewMemory()
	}

	if config.Speech == (speech.Config{}) {
		config.Speech = speech.DefaultConfig()
	}

	m := &model{
		config: config,
		keys:   DefaultKeyMap(),
		notify: notify.New(notify.DefaultTTL),
		width:  defaultWidth,
		height: defaultHeight,
	}

	m.composer = newnote.New(m.onNoteCreated, config.Recognizer,
		newnote.WithConfig(config.Speech),
		newnote.WithWidth(min(defaultWidth, 72)),
	)

	return m
}

// onNoteCreated runs inside the composer's Update; persistence is issued
// as a command once the composer returns.
func (m *model) onNoteCreated(content string) {
	n, err := note.New(content, m.config.Now())
	if err != nil {
		slog.Warn("rejected note", "error", err)
		return
	}

	m.notes = append([]note.Note{n}, m.notes...)
	m.pending = append(m.pending, n)
}

func (m *model) Init() tea.Cmd {
	s := m.config.Store

	return func() tea.Msg {
		notes, err := s.List(context.Background())
		return notesLoadedMsg{notes: notes, err: err}
	}
}

func (m *model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.composer = m.composer.SetWidth(min(msg.Width, 72))

		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, m.quit()
		}

		if m.notify.Blocking() {
			var cmd tea.Cmd
			m.notify, cmd = m.notify.Update(msg)

			return m, cmd
		}

		if !m.composer.IsOpen() && key.Matches(msg, m.keys.Quit) {
			return m, m.quit()
		}

	case notesLoadedMsg:
		if msg.err != nil {
			slog.Error("failed to load notes", "error", msg.err)
			return m, notify.Error("Could not load notes.")
		}

		// Notes saved before the load finished stay on top and are not
		// listed twice.
		seen := make(map[uuid.UUID]bool, len(m.notes))
		for _, n := range m.notes {
			seen[n.ID] = true
		}
		for _, n := range msg.notes {
			if !seen[n.ID] {
				m.notes = append(m.notes, n)
			}
		}

		return m, nil

	case noteStoredMsg:
		if msg.err != nil {
			slog.Error("failed to store note", "id", msg.id, "error", msg.err)
			return m, notify.Error("Could not store note.")
		}

		slog.Info("note stored", "id", msg.id)

		return m, nil

	case notify.ShowMsg, notify.AlertMsg:
		var cmd tea.Cmd
		m.notify, cmd = m.notify.Update(msg)

		return m, cmd
	}

	cmds := make([]tea.Cmd, 0, 2)

	var cmd tea.Cmd
	m.notify, cmd = m.notify.Update(teaMsg)
	cmds = append(cmds, cmd)

	m.composer, cmd = m.composer.Update(teaMsg)
	cmds = append(cmds, cmd)

	for _, n := range m.pending {
		cmds = append(cmds, m.persist(n))
	}
	m.pending = nil

	return m, tea.Batch(cmds...)
}

func (m *model) persist(n note.Note) tea.Cmd {
	s := m.config.Store

	return func() tea.Msg {
		return noteStoredMsg{id: n.ID.String(), err: s.Add(context.Background(), n)}
	}
}

func (m *model) quit() tea.Cmd {
	m.composer.Release()

	if m.config.Cancel != nil {
		m.config.Cancel()
	}

	return tea.Quit
}

func (m *model) View() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("notes"))
	sb.WriteString(" ")
	sb.WriteString(style.Subtitle.Render(fmt.Sprintf("(%d)", len(m.notes))))
	sb.WriteString("\n\n")

	if m.notify.Blocking() {
		sb.WriteString(m.notify.View())
		return sb.String()
	}

	sb.WriteString(m.composer.View())
	sb.WriteString("\n")

	if !m.composer.IsOpen() {
		sb.WriteString(m.boardView())
		sb.WriteString("\n")
		sb.WriteString(style.KeyHelp(
			m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc,
			m.keys.ForceQuit.Help().Key, m.keys.ForceQuit.Help().Desc,
		))
	}

	if toasts := m.notify.View(); toasts != "" {
		sb.WriteString("\n")
		sb.WriteString(toasts)
	}

	return sb.String()
}

// boardView lays the note cards out in as many columns as fit.
func (m *model) boardView() string {
	if len(m.notes) == 0 {
		return style.Muted.Render("No notes yet.")
	}

	cols := max(1, (m.width+cardGap)/(notecard.DefaultWidth+cardGap))
	now := m.config.Now()
	gap := strings.Repeat(" ", cardGap)

	var rows []string

	for start := 0; start < len(m.notes); start += cols {
		end := min(start+cols, len(m.notes))

		cards := collections.Apply(m.notes[start:end], func(n note.Note) string {
			return notecard.FromNote(n, now).View()
		})

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, collections.Intersperse(cards, gap)...))
	}

	return strings.Join(rows, "\n")
}
