package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Set     key.Binding
	Rest    key.Binding
	Next    key.Binding
	Skip    key.Binding
	Pause   key.Binding
	Finish  key.Binding
	Abandon key.Binding
	Yes     key.Binding
	No      key.Binding
	Retry   key.Binding
	Back    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "start workout"),
	),
	Set: key.NewBinding(
		key.WithKeys("s", " "),
		key.WithHelp("s", "start/complete set"),
	),
	Rest: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rest"),
	),
	Next: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "ready next set"),
	),
	Skip: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "skip exercise"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause/resume"),
	),
	Finish: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "finish now"),
	),
	Abandon: key.NewBinding(
		key.WithKeys("a", "esc"),
		key.WithHelp("a", "abandon"),
	),
	Yes: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "yes"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n", "no"),
	),
	Retry: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "retry save"),
	),
	Back: key.NewBinding(
		key.WithKeys("b", "esc"),
		key.WithHelp("b", "back to days"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func helpLine(bindings ...key.Binding) string {
	var s string
	for i, b := range bindings {
		if i > 0 {
			s += " • "
		}
		h := b.Help()
		s += h.Key + ": " + h.Desc
	}
	return s
}
