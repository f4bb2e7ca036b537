package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Back      key.Binding
	Open      key.Binding
	Reload    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Comments  key.Binding
	Prev      key.Binding
	Next      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit comment")),
		Comments:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comments")),
		Prev:      key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous article")),
		Next:      key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next article")),
	}
}

func helpLine(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += "    "
		}
		h := b.Help()
		out += h.Key + " → " + h.Desc
	}
	return out
}
