package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the timer key bindings with built-in help text.
type KeyMap struct {
	Toggle     key.Binding
	Reset      key.Binding
	Skip       key.Binding
	Work       key.Binding
	ShortBreak key.Binding
	LongBreak  key.Binding
	Help       key.Binding
	Quit       key.Binding

	// Active only while the pause prompt is visible.
	Continue    key.Binding
	Remind      key.Binding
	ResetPrompt key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "start/pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Work: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "focus"),
		),
		ShortBreak: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "short break"),
		),
		LongBreak: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "long break"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Continue: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "continue"),
		),
		Remind: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "remind me in 2 minutes"),
		),
		ResetPrompt: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset session"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Toggle, keys.Reset, keys.Skip, keys.Help, keys.Quit}
}

// FullHelp implements help.KeyMap.
func (keys KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Toggle, keys.Reset, keys.Skip},
		{keys.Work, keys.ShortBreak, keys.LongBreak},
		{keys.Help, keys.Quit},
	}
}

func (keys KeyMap) promptHelp() []key.Binding {
	return []key.Binding{keys.Continue, keys.Remind, keys.ResetPrompt}
}
