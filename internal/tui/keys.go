package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	esc     key.Binding
	tab     key.Binding
	backtab key.Binding
	lock    key.Binding
	copy    key.Binding
	saved   key.Binding
	mode    key.Binding
	retry   key.Binding
	skip    key.Binding
	refresh key.Binding
	remove  key.Binding
}

var keys = keyMap{
	up:      key.NewBinding(key.WithKeys("up", "k")),
	down:    key.NewBinding(key.WithKeys("down", "j")),
	enter:   key.NewBinding(key.WithKeys("enter")),
	esc:     key.NewBinding(key.WithKeys("esc")),
	tab:     key.NewBinding(key.WithKeys("tab")),
	backtab: key.NewBinding(key.WithKeys("shift+tab")),
	lock:    key.NewBinding(key.WithKeys("l")),
	copy:    key.NewBinding(key.WithKeys("c")),
	saved:   key.NewBinding(key.WithKeys("s", " ")),
	mode:    key.NewBinding(key.WithKeys("ctrl+t")),
	retry:   key.NewBinding(key.WithKeys("r")),
	skip:    key.NewBinding(key.WithKeys("f")),
	refresh: key.NewBinding(key.WithKeys("u")),
	remove:  key.NewBinding(key.WithKeys("d")),
}
