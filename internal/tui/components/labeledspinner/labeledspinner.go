// Package labeledspinner renders a spinner next to a short status label.
package labeledspinner

import (
	"strings"

	"github.com/alkime/notes/internal/tui/style"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model displays a spinner with a label and an optional hint below it.
type Model struct {
	Spinner spinner.Model
	Label   string
	Hint    string
}

// New creates a labeled spinner.
func New(s spinner.Spinner, label, hint string) Model {
	sp := spinner.New()
	sp.Spinner = s
	sp.Style = style.Progress

	return Model{
		Spinner: sp,
		Label:   label,
		Hint:    hint,
	}
}

// Tick starts the animation.
func (ls Model) Tick() tea.Cmd {
	return ls.Spinner.Tick
}

// Update advances the spinner on its own tick messages only.
func (ls Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	tickMsg, ok := teaMsg.(spinner.TickMsg)
	if !ok {
		return ls, nil
	}

	var cmd tea.Cmd
	ls.Spinner, cmd = ls.Spinner.Update(tickMsg)

	return ls, cmd
}

// View renders "<spinner> label" and the hint on the next line when set.
func (ls Model) View() string {
	var sb strings.Builder

	sb.WriteString(ls.Spinner.View())
	sb.WriteString(" ")
	sb.WriteString(style.Title.Render(ls.Label))

	if ls.Hint != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Subtitle.Render(ls.Hint))
	}

	return sb.String()
}
