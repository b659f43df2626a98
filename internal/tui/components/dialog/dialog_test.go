package dialog_test

import (
	"strings"
	"testing"

	"github.com/alkime/notes/internal/tui/components/dialog"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestDialog(t *testing.T) {
	d := dialog.New(40)

	t.Run("closed renders nothing", func(t *testing.T) {
		assert.False(t, d.IsOpen())
		assert.Empty(t, d.View("New note", "body"))
	})

	t.Run("open renders frame", func(t *testing.T) {
		d = d.Show()
		assert.True(t, d.IsOpen())

		v := d.View("New note", "first", "", "second")
		assert.Contains(t, v, "New note")
		assert.Contains(t, v, "first")
		assert.Contains(t, v, "second")
		assert.Contains(t, v, "╔")

		for _, line := range strings.Split(v, "\n") {
			assert.Equal(t, 40, lipgloss.Width(line))
		}
	})

	t.Run("hide", func(t *testing.T) {
		d = d.Hide()
		assert.False(t, d.IsOpen())
	})

	t.Run("inner width", func(t *testing.T) {
		assert.Equal(t, 34, dialog.New(40).InnerWidth())
		assert.Zero(t, dialog.New(0).InnerWidth())
		assert.Equal(t, 1, dialog.New(3).InnerWidth())
	})
}
