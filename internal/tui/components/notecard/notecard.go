// Package notecard renders a saved note as a card on the board.
package notecard

import (
	"strings"
	"time"

	"github.com/alkime/notes/internal/note"
	"github.com/alkime/notes/internal/tui/style"
	"github.com/charmbracelet/lipgloss"
)

const (
	DefaultWidth    = 36
	DefaultMaxLines = 4
)

// Model is a stateless note card.
type Model struct {
	Label    string
	Body     string
	Width    int
	MaxLines int
}

// New builds a card with a timestamp label and a body.
func New(label, body string) Model {
	return Model{
		Label:    label,
		Body:     body,
		Width:    DefaultWidth,
		MaxLines: DefaultMaxLines,
	}
}

// FromNote labels n relative to now.
func FromNote(n note.Note, now time.Time) Model {
	return New(note.RelativeLabel(n.CreatedAt, now), n.Content)
}

// View renders the card. The body is wrapped to the card width and cut
// after MaxLines lines with an ellipsis.
func (m Model) View() string {
	frame := style.Card
	inner := m.Width - frame.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}

	body := lipgloss.NewStyle().Width(inner).Render(m.Body)
	lines := strings.Split(body, "\n")

	if m.MaxLines > 0 && len(lines) > m.MaxLines {
		lines = lines[:m.MaxLines]
		last := strings.TrimRight(lines[m.MaxLines-1], " ")
		if lipgloss.Width(last) >= inner {
			last = string([]rune(last)[:len([]rune(last))-1])
		}
		lines[m.MaxLines-1] = last + "…"
	}

	for i, line := range lines {
		lines[i] = style.Subtitle.Render(strings.TrimRight(line, " "))
	}

	content := style.Label.Render(m.Label) + "\n" + strings.Join(lines, "\n")

	return frame.Width(inner + frame.GetHorizontalPadding()).Render(content)
}
