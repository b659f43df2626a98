package waveform_test

import (
	"strings"
	"testing"

	"github.com/alkime/notes/internal/tui/components/waveform"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type levels []int16

func (l levels) Read() []int16 { return l }

func TestWaveformView(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		samples levels
		width   int
		height  int
		want    string
	}{
		{"no samples shows baseline", nil, 5, 1, "▁▁▁▁▁"},
		{"silence is blank", levels{0, 0, 0, 0, 0}, 5, 1, "     "},
		{"full scale", levels{32767, 32767, 32767}, 3, 1, "███"},
		{"negative full scale", levels{-32768, -32768, -32768}, 3, 1, "███"},
		{"fewer samples than columns", levels{32767, 32767}, 4, 1, "██  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := waveform.New(tt.samples, tt.width, tt.height)
			assert.Equal(t, tt.want, m.View())
		})
	}
}

func TestWaveformNilSource(t *testing.T) {
	t.Parallel()

	m := waveform.New(nil, 4, 2)

	assert.Equal(t, "    \n▁▁▁▁", m.View())
	assert.Nil(t, m.Init())
}

func TestWaveformVaryingAmplitude(t *testing.T) {
	t.Parallel()

	m := waveform.New(levels{0, 8000, 32767, 8000, 0}, 5, 1)

	runes := []rune(m.View())
	require.Len(t, runes, 5)
	assert.Equal(t, ' ', runes[0])
	assert.Equal(t, '█', runes[2])
	assert.Equal(t, runes[1], runes[3])
	assert.NotEqual(t, runes[1], runes[2])
}

func TestWaveformMultiRow(t *testing.T) {
	t.Parallel()

	m := waveform.New(levels{32767, 0}, 2, 3)

	rows := strings.Split(m.View(), "\n")
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, "█ ", row)
	}

	m = waveform.New(levels{32767}, 5, 0)
	assert.NotContains(t, m.View(), "\n")
}

func TestWaveformTicks(t *testing.T) {
	t.Parallel()

	m := waveform.New(nil, 5, 1)

	m, cmd := m.Start(levels{32767})
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "█")

	tick := cmd()
	require.IsType(t, waveform.TickMsg{}, tick)

	_, next := m.Update(tick)
	assert.NotNil(t, next, "active waveform reschedules")

	restarted, _ := m.Start(levels{0})
	_, stale := restarted.Update(tick)
	assert.Nil(t, stale, "ticks from a previous start are dropped")

	stopped := m.Stop()
	_, none := stopped.Update(tick)
	assert.Nil(t, none)
	assert.Contains(t, stopped.View(), "▁")

	assert.Equal(t, "▁▁", stopped.SetWidth(2).View())
}
