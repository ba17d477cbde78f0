package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Backspace key.Binding
	Commit    key.Binding
	Reset     key.Binding
	Reload    key.Binding
	Confirm   key.Binding
	Quit      key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "shift+tab"),
		key.WithHelp("↑", "previous pass"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "tab", "enter"),
		key.WithHelp("↓/tab", "next pass"),
	),
	Backspace: key.NewBinding(
		key.WithKeys("backspace"),
	),
	Commit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "update prices"),
	),
	Reset: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "reset to defaults"),
	),
	Reload: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "discard edits"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Commit, k.Reset, k.Reload, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Commit, k.Reset, k.Reload},
		{k.Quit},
	}
}
