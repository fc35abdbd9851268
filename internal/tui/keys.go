package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	save key.Binding
	copy key.Binding
	quit key.Binding
	yes  key.Binding
	no   key.Binding
}

var keys = keyMap{
	save: key.NewBinding(key.WithKeys("ctrl+s")),
	copy: key.NewBinding(key.WithKeys("ctrl+y")),
	quit: key.NewBinding(key.WithKeys("esc", "ctrl+c")),
	yes:  key.NewBinding(key.WithKeys("y")),
	no:   key.NewBinding(key.WithKeys("n", "esc")),
}
