// Package style defines lipgloss styles for the TUI.
package style

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent = lipgloss.Color("205")
	colorBorder = lipgloss.Color("62")
	colorDim    = lipgloss.Color("241")
)

// Names omit a "Style" suffix; they read as style.Title at call sites.
var (
	// Title is used for dialog and card titles.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccent)

	// Subtitle is used for secondary text and hints.
	Subtitle = lipgloss.NewStyle().
			Foreground(colorDim)

	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	// Card frames a note on the board.
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	// Trigger frames the closed "add note" card.
	Trigger = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1)

	// Dialog frames the modal note composer.
	Dialog = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorAccent).
		Padding(1, 2)

	// Toast frames a transient notification.
	Toast = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		Padding(0, 1)

	// Alert frames a blocking message.
	Alert = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(lipgloss.Color("214")).
		Padding(1, 2)

	// Help is used for keyboard shortcut hints.
	Help = lipgloss.NewStyle().
		Foreground(colorDim)

	// Key highlights keyboard keys inside help text.
	Key = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	// Progress colors the live waveform.
	Progress = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	// Label is used for note timestamps.
	Label = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))

	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))
)

// KeyHelp renders "[key] action" pairs separated by two spaces.
func KeyHelp(pairs ...string) string {
	var out string

	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			out += Help.Render("  ")
		}

		out += Help.Render("[") + Key.Render(pairs[i]) + Help.Render("] "+pairs[i+1])
	}

	return out
}
