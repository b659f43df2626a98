// Package waveform draws live microphone levels as a bar graph.
package waveform

import (
	"math"
	"strings"
	"time"

	"github.com/alkime/notes/internal/tui/style"
	"github.com/alkime/notes/pkg/uictl"
	tea "github.com/charmbracelet/bubbletea"
)

// blocks holds the eighth-height fill levels; index 0 is empty.
var blocks = []rune(" ▁▂▃▄▅▆▇█")

const frameInterval = 50 * time.Millisecond

// TickMsg triggers a redraw. Ticks carry the id of the waveform that
// scheduled them so that a restarted waveform does not double its rate.
type TickMsg struct {
	id int
}

// Model renders samples read from a Levels source, oldest on the left.
type Model struct {
	levels uictl.Levels[int16]
	width  int
	height int
	id     int
	active bool
}

// New creates a waveform of width columns and height rows.
func New(levels uictl.Levels[int16], width, height int) Model {
	return Model{
		levels: levels,
		width:  max(1, width),
		height: max(1, height),
	}
}

// Start attaches a new level source and begins animating.
func (m Model) Start(levels uictl.Levels[int16]) (Model, tea.Cmd) {
	m.levels = levels
	m.id++
	m.active = true

	return m, m.tick()
}

// Stop detaches the source; pending ticks are ignored.
func (m Model) Stop() Model {
	m.levels = nil
	m.active = false
	m.id++

	return m
}

// SetWidth resizes the graph.
func (m Model) SetWidth(width int) Model {
	m.width = max(1, width)
	return m
}

// Init starts animating when a source was given to New.
func (m Model) Init() tea.Cmd {
	if m.levels == nil {
		return nil
	}

	return m.tick()
}

// Update reschedules its own ticks while active.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.id != m.id || m.levels == nil {
		return m, nil
	}

	return m, m.tick()
}

func (m Model) tick() tea.Cmd {
	id := m.id

	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return TickMsg{id: id}
	})
}

// View renders the graph, or a flat baseline when there is nothing to show.
func (m Model) View() string {
	var samples []int16
	if m.levels != nil {
		samples = m.levels.Read()
	}

	if len(samples) == 0 {
		return m.baseline()
	}

	fills := columnFills(samples, m.width, m.height*(len(blocks)-1))
	rows := make([]string, m.height)

	for row := range rows {
		// Row 0 is the top of the graph.
		floor := (m.height - 1 - row) * (len(blocks) - 1)

		line := make([]rune, m.width)
		for col, fill := range fills {
			line[col] = blocks[clamp(fill-floor, 0, len(blocks)-1)]
		}

		rows[row] = style.Progress.Render(string(line))
	}

	return strings.Join(rows, "\n")
}

func (m Model) baseline() string {
	rows := make([]string, m.height)

	for row := range rows {
		ch := " "
		if row == m.height-1 {
			ch = string(blocks[1])
		}

		rows[row] = style.Muted.Render(strings.Repeat(ch, m.width))
	}

	return strings.Join(rows, "\n")
}

// columnFills buckets samples into width columns and maps each bucket's
// peak to 0..top on a square-root scale so quiet speech stays visible.
func columnFills(samples []int16, width, top int) []int {
	fills := make([]int, width)
	bucket := max(1, len(samples)/width)

	for col := range fills {
		start := col * bucket
		if start >= len(samples) {
			break
		}

		peak := peakAmplitude(samples[start:min(start+bucket, len(samples))])
		fills[col] = min(top, int(math.Sqrt(peak)*float64(top)))
	}

	return fills
}

// peakAmplitude returns the largest magnitude normalized to 0..1.
func peakAmplitude(samples []int16) float64 {
	var peak float64

	for _, s := range samples {
		peak = max(peak, math.Abs(float64(s))/math.MaxInt16)
	}

	return min(peak, 1)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
