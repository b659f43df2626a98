// Package notify shows transient toasts and blocking alerts.
//
// Components request notifications by returning the commands of this
// package; the host owns a Model that collects and renders them.
package notify

import (
	"strings"
	"time"

	"github.com/alkime/notes/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	DefaultTTL = 3 * time.Second
	maxToasts  = 3
)

type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// ShowMsg asks the host to display a toast.
type ShowMsg struct {
	Level Level
	Text  string
}

// AlertMsg asks the host to display a blocking alert.
type AlertMsg struct {
	Text string
}

type expireMsg struct {
	id int
}

// Success returns a command showing a success toast.
func Success(text string) tea.Cmd {
	return func() tea.Msg { return ShowMsg{Level: LevelSuccess, Text: text} }
}

// Error returns a command showing an error toast.
func Error(text string) tea.Cmd {
	return func() tea.Msg { return ShowMsg{Level: LevelError, Text: text} }
}

// Alert returns a command showing a blocking alert.
func Alert(text string) tea.Cmd {
	return func() tea.Msg { return AlertMsg{Text: text} }
}

type toast struct {
	id    int
	level Level
	text  string
}

// Model holds the visible toasts and the current alert.
type Model struct {
	ttl     time.Duration
	toasts  []toast
	nextID  int
	alert   string
	dismiss key.Binding
}

// New creates an empty notification area. A non-positive ttl uses DefaultTTL.
func New(ttl time.Duration) Model {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return Model{
		ttl: ttl,
		dismiss: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter", "dismiss"),
		),
	}
}

// Blocking reports whether an alert is waiting to be dismissed. While it
// is, the host must route key presses here only.
func (m Model) Blocking() bool {
	return m.alert != ""
}

// AlertText returns the pending alert, if any.
func (m Model) AlertText() string {
	return m.alert
}

// Messages returns the visible toast texts, oldest first.
func (m Model) Messages() []string {
	out := make([]string, len(m.toasts))
	for i, t := range m.toasts {
		out[i] = t.text
	}

	return out
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ShowMsg:
		m.nextID++
		id := m.nextID

		m.toasts = append(m.toasts, toast{id: id, level: msg.Level, text: msg.Text})
		if len(m.toasts) > maxToasts {
			m.toasts = m.toasts[len(m.toasts)-maxToasts:]
		}

		return m, tea.Tick(m.ttl, func(time.Time) tea.Msg { return expireMsg{id: id} })

	case expireMsg:
		kept := make([]toast, 0, len(m.toasts))
		for _, t := range m.toasts {
			if t.id != msg.id {
				kept = append(kept, t)
			}
		}
		m.toasts = kept

	case AlertMsg:
		m.alert = msg.Text

	case tea.KeyMsg:
		if m.Blocking() && key.Matches(msg, m.dismiss) {
			m.alert = ""
		}
	}

	return m, nil
}

// View renders the alert when one is pending, otherwise the toast stack.
func (m Model) View() string {
	if m.Blocking() {
		body := style.Warning.Render(m.alert) + "\n\n" + style.KeyHelp("enter", "ok")
		return style.Alert.Render(body)
	}

	if len(m.toasts) == 0 {
		return ""
	}

	views := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		views = append(views, renderToast(t))
	}

	return lipgloss.JoinVertical(lipgloss.Right, views...)
}

func renderToast(t toast) string {
	frame := style.Toast
	text := strings.TrimSpace(t.text)

	switch t.level {
	case LevelError:
		return frame.BorderForeground(style.Error.GetForeground()).Render(style.Error.Render("✗ " + text))
	default:
		return frame.BorderForeground(style.Success.GetForeground()).Render(style.Success.Render("✓ " + text))
	}
}
