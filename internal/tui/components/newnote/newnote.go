// Package newnote implements the note composer: a trigger card that opens a
// dialog where a note is typed or dictated, then saved or discarded.
//
// The composer has a single mode. Content edits, recognition results and
// recognition errors move it between modes; every recording is a separate
// session that the composer releases on stop, on error, on save, when the
// dialog closes and when the host calls Release.
package newnote

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/alkime/notes/internal/speech"
	"github.com/alkime/notes/internal/tui/components/dialog"
	"github.com/alkime/notes/internal/tui/components/labeledspinner"
	"github.com/alkime/notes/internal/tui/components/notify"
	"github.com/alkime/notes/internal/tui/components/waveform"
	"github.com/alkime/notes/internal/tui/style"
	"github.com/alkime/notes/pkg/uictl"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// User-facing messages.
const (
	MsgUnsupported = "Your terminal does not support recording."
	MsgStartFailed = "Could not start recording."
	MsgNoSpeech    = "No speech was detected."
	MsgEmpty       = "Empty note."
	MsgSaved       = "Note saved!"
)

const (
	title        = "Add note"
	triggerHint  = "Record an audio note that will be converted to text automatically."
	defaultWidth = 64
	textHeight   = 6
)

// Mode is the composer's interaction state.
type Mode int

const (
	ModeOnboarding Mode = iota
	ModeEditing
	ModeRecordingStarting
	ModeRecordingActive
)

func (m Mode) String() string {
	switch m {
	case ModeOnboarding:
		return "onboarding"
	case ModeEditing:
		return "editing"
	case ModeRecordingStarting:
		return "recording-starting"
	case ModeRecordingActive:
		return "recording-active"
	default:
		return "unknown"
	}
}

// Option configures the composer.
type Option func(*Model)

// WithConfig sets the recognition config used for every recording.
func WithConfig(cfg speech.Config) Option {
	return func(m *Model) {
		m.cfg = cfg
	}
}

// WithWidth sets the dialog width.
func WithWidth(width int) Option {
	return func(m *Model) {
		m.width = width
	}
}

// WithKeyMap overrides the default bindings.
func WithKeyMap(keys KeyMap) Option {
	return func(m *Model) {
		m.keys = keys
	}
}

// Model is the note composer.
type Model struct {
	onNoteCreated func(string)
	recognizer    speech.Recognizer
	cfg           speech.Config
	keys          KeyMap
	width         int

	mode     Mode
	content  string
	dialog   dialog.Model
	textarea textarea.Model
	spinner  labeledspinner.Model
	wave     waveform.Model

	lastID int
	rec    *session
}

// New creates a closed composer. onNoteCreated is called once per
// successful save with the note content.
func New(onNoteCreated func(string), recognizer speech.Recognizer, opts ...Option) Model {
	if recognizer == nil {
		recognizer = speech.Unavailable{}
	}

	m := Model{
		onNoteCreated: onNoteCreated,
		recognizer:    recognizer,
		cfg:           speech.DefaultConfig(),
		keys:          DefaultKeyMap(),
		width:         defaultWidth,
		mode:          ModeOnboarding,
	}

	for _, opt := range opts {
		opt(&m)
	}

	ta := textarea.New()
	ta.Placeholder = "Write your note..."
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetHeight(textHeight)

	m.textarea = ta
	m.dialog = dialog.New(m.width)
	m.spinner = labeledspinner.New(spinner.Dot, "Starting microphone...", "")
	m.wave = waveform.New(nil, 1, 2)
	m = m.SetWidth(m.width)

	return m
}

// SetWidth resizes the dialog and its contents.
func (m Model) SetWidth(width int) Model {
	m.width = width
	m.dialog = m.dialog.SetWidth(width)

	inner := max(1, m.dialog.InnerWidth())
	m.textarea.SetWidth(inner)
	m.wave = m.wave.SetWidth(inner)

	return m
}

func (m Model) Mode() Mode { return m.mode }

func (m Model) Content() string { return m.content }

func (m Model) IsOpen() bool { return m.dialog.IsOpen() }

func (m Model) OnboardingVisible() bool { return m.mode == ModeOnboarding }

// Recording reports whether a recording is starting or running.
func (m Model) Recording() bool {
	return m.mode == ModeRecordingStarting || m.mode == ModeRecordingActive
}

// Loading reports whether a recording was requested and has not produced
// a result yet.
func (m Model) Loading() bool { return m.mode == ModeRecordingStarting }

func (m Model) TextAreaEnabled() bool { return !m.Recording() }

// SessionID returns the id of the active recording, or 0.
func (m Model) SessionID() int {
	if m.rec == nil {
		return 0
	}

	return m.rec.id
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case recordingStartedMsg:
		return m.handleStarted(msg)

	case recordingEventMsg:
		return m.handleEvent(msg)

	case recordingEndedMsg:
		if m.rec == nil || msg.id != m.rec.id {
			return m, nil
		}

		slog.Debug("recording ended by recognizer", "session", msg.id)
		cmd := m.release()
		m.settle()

		return m, tea.Batch(cmd, m.textarea.Focus())

	case spinner.TickMsg:
		if !m.Loading() {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case waveform.TickMsg:
		var cmd tea.Cmd
		m.wave, cmd = m.wave.Update(msg)

		return m, cmd
	}

	if m.IsOpen() && m.TextAreaEnabled() {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.IsOpen() {
		if key.Matches(msg, m.keys.Open) {
			return m.open()
		}

		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Close):
		cmd := m.release()
		m.settle()
		m.textarea.Blur()
		m.dialog = m.dialog.Hide()

		return m, cmd

	case key.Matches(msg, m.keys.Save):
		return m.save()

	case m.Recording():
		if key.Matches(msg, m.keys.StopRecording) {
			return m.stopRecording()
		}

		return m, nil

	case m.OnboardingVisible() && key.Matches(msg, m.keys.StartRecording):
		return m.startRecording()

	case m.OnboardingVisible() && key.Matches(msg, m.keys.StartEditing):
		m.mode = ModeEditing

		return m, m.textarea.Focus()
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)

	if value := m.textarea.Value(); value != m.content {
		m.content = value
		m.settle()
	}

	return m, cmd
}

func (m Model) open() (Model, tea.Cmd) {
	m.dialog = m.dialog.Show()
	if m.content == "" {
		m.mode = ModeOnboarding
	}

	return m, m.textarea.Focus()
}

func (m Model) startRecording() (Model, tea.Cmd) {
	if !m.recognizer.Available() {
		return m, notify.Alert(MsgUnsupported)
	}

	rec, err := m.recognizer.New(m.cfg)
	if err != nil {
		if errors.Is(err, speech.ErrUnavailable) {
			return m, notify.Alert(MsgUnsupported)
		}

		slog.Error("failed to create recognition", "error", err)

		return m, notify.Error(MsgStartFailed)
	}

	m.lastID++
	m.rec = newSession(m.lastID, rec)
	m.mode = ModeRecordingStarting
	m.textarea.Blur()

	slog.Debug("recording requested", "session", m.rec.id, "lang", m.cfg.Lang)

	return m, tea.Batch(m.spinner.Tick(), m.rec.start())
}

func (m Model) handleStarted(msg recordingStartedMsg) (Model, tea.Cmd) {
	if m.rec == nil || msg.id != m.rec.id {
		return m, nil
	}

	if msg.err != nil {
		return m.fail(speech.AsError(msg.err))
	}

	cmds := []tea.Cmd{m.rec.listen()}

	if levels, ok := m.rec.rec.(uictl.Levels[int16]); ok {
		var cmd tea.Cmd
		m.wave, cmd = m.wave.Start(levels)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleEvent(msg recordingEventMsg) (Model, tea.Cmd) {
	if m.rec == nil || msg.id != m.rec.id {
		slog.Debug("dropped event from released recording", "session", msg.id)
		return m, nil
	}

	if msg.ev.Err != nil {
		return m.fail(msg.ev.Err)
	}

	m.content = speech.Transcript(msg.ev.Results)
	m.textarea.SetValue(m.content)
	m.mode = ModeRecordingActive

	return m, m.rec.listen()
}

// fail rolls back a recording after a recognition error.
func (m Model) fail(err *speech.Error) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	if err.Kind == speech.KindNoSpeech {
		cmds = append(cmds, notify.Error(MsgNoSpeech))
	} else {
		slog.Warn("recording failed", "kind", err.Kind, "error", err)
	}

	cmds = append(cmds, m.release())
	m.settle()
	cmds = append(cmds, m.textarea.Focus())

	return m, tea.Batch(cmds...)
}

func (m Model) stopRecording() (Model, tea.Cmd) {
	cmd := m.release()
	m.mode = ModeEditing

	return m, tea.Batch(cmd, m.textarea.Focus())
}

func (m Model) save() (Model, tea.Cmd) {
	if m.content == "" {
		return m, notify.Error(MsgEmpty)
	}

	release := m.release()

	if m.onNoteCreated != nil {
		m.onNoteCreated(m.content)
	}

	m.content = ""
	m.textarea.Reset()
	m.textarea.Blur()
	m.mode = ModeOnboarding
	m.dialog = m.dialog.Hide()

	return m, tea.Batch(release, notify.Success(MsgSaved))
}

// settle leaves recording mode for the mode implied by the content.
func (m *Model) settle() {
	if m.content == "" {
		m.mode = ModeOnboarding
	} else {
		m.mode = ModeEditing
	}
}

// release detaches the active session and stops it in the background.
func (m *Model) release() tea.Cmd {
	m.wave = m.wave.Stop()

	s := m.rec
	if s == nil {
		return nil
	}
	m.rec = nil

	return func() tea.Msg {
		s.stop()
		return nil
	}
}

// Release stops the active recording synchronously. Hosts call it when the
// composer is torn down.
func (m *Model) Release() {
	m.wave = m.wave.Stop()

	if m.rec == nil {
		return
	}

	s := m.rec
	m.rec = nil
	s.stop()

	if m.Recording() {
		m.settle()
	}
}

func (m Model) View() string {
	if !m.IsOpen() {
		return style.Trigger.Width(max(1, m.width-2)).Render(
			style.Title.Render(title) + "\n" +
				style.Subtitle.Render(triggerHint) + "\n\n" +
				style.KeyHelp(m.keys.Open.Help().Key, m.keys.Open.Help().Desc),
		)
	}

	return m.dialog.View(title, m.bodyView(), m.statusView(), m.helpView())
}

func (m Model) bodyView() string {
	if m.OnboardingVisible() {
		return style.Subtitle.Render("Start by ") +
			style.Key.Render("recording a note") + style.Help.Render(" ("+m.keys.StartRecording.Help().Key+")") +
			style.Subtitle.Render(" or, if you prefer, ") +
			style.Key.Render("use text only") + style.Help.Render(" ("+m.keys.StartEditing.Help().Key+")") +
			style.Subtitle.Render(".")
	}

	return m.textarea.View()
}

func (m Model) statusView() string {
	switch m.mode {
	case ModeRecordingStarting:
		return m.spinner.View()
	case ModeRecordingActive:
		return strings.Join([]string{
			m.wave.View(),
			style.Error.Render("●") + " " + style.Title.Render("Recording..."),
		}, "\n")
	default:
		return ""
	}
}

func (m Model) helpView() string {
	if m.Recording() {
		return style.KeyHelp(
			m.keys.StopRecording.Help().Key, m.keys.StopRecording.Help().Desc,
			m.keys.Close.Help().Key, m.keys.Close.Help().Desc,
		)
	}

	return style.KeyHelp(
		m.keys.Save.Help().Key, m.keys.Save.Help().Desc,
		m.keys.Close.Help().Key, m.keys.Close.Help().Desc,
	)
}
