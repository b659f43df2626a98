// Package dialog renders a modal frame. It has no focus logic of its own;
// the owner decides which keys reach it and what it contains.
package dialog

import (
	"strings"

	"github.com/alkime/notes/internal/tui/style"
)

// Model is an open/closed modal frame.
type Model struct {
	open  bool
	width int
}

// New creates a closed dialog of the given outer width.
func New(width int) Model {
	return Model{width: width}
}

func (m Model) Show() Model {
	m.open = true
	return m
}

func (m Model) Hide() Model {
	m.open = false
	return m
}

func (m Model) IsOpen() bool {
	return m.open
}

// SetWidth changes the outer width. Non-positive widths size to content.
func (m Model) SetWidth(width int) Model {
	m.width = width
	return m
}

// InnerWidth is the space available to the body.
func (m Model) InnerWidth() int {
	if m.width <= 0 {
		return 0
	}

	return max(1, m.width-style.Dialog.GetHorizontalFrameSize())
}

// View frames title and body sections. A closed dialog renders nothing.
func (m Model) View(title string, body ...string) string {
	if !m.open {
		return ""
	}

	sections := make([]string, 0, len(body)+1)
	sections = append(sections, style.Title.Render(title))

	for _, b := range body {
		if b != "" {
			sections = append(sections, b)
		}
	}

	frame := style.Dialog
	if w := m.InnerWidth(); w > 0 {
		frame = frame.Width(w + frame.GetHorizontalPadding())
	}

	return frame.Render(strings.Join(sections, "\n\n"))
}
