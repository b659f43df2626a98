package newnote

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the note composer.
type KeyMap struct {
	Open           key.Binding
	StartRecording key.Binding
	StartEditing   key.Binding
	StopRecording  key.Binding
	Save           key.Binding
	Close          key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter", "n"),
			key.WithHelp("n", "add note"),
		),
		StartRecording: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "record a note"),
		),
		StartEditing: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "use text only"),
		),
		StopRecording: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "stop recording"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save note"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// ShortHelp returns the bindings shown while the dialog is closed.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open}
}

// FullHelp returns every binding grouped by dialog state.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open},
		{k.StartRecording, k.StartEditing},
		{k.StopRecording, k.Save, k.Close},
	}
}
