package timer

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	enter      key.Binding
	esc        key.Binding
	togglePlay key.Binding
	finish     key.Binding
	skip       key.Binding
	rename     key.Binding
	quit       key.Binding
}

var defaultKeymap = keymap{
	enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "start"),
	),
	esc: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	togglePlay: key.NewBinding(
		key.WithKeys(" ", "p"),
		key.WithHelp("space", "play/pause"),
	),
	finish: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "finish"),
	),
	skip: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "skip break"),
	),
	rename: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "change task"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// submit is shown in place of enter while the task input is focused.
var submit = key.NewBinding(
	key.WithKeys("enter"),
	key.WithHelp("enter", "set task"),
)
