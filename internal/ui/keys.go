package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Execute   key.Binding
	Templates key.Binding
	NextPane  key.Binding
	Quit      key.Binding

	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding

	Select key.Binding
	Back   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Execute:   key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "execute")),
		Templates: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "templates")),
		NextPane:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "quit")),

		Up:       key.NewBinding(key.WithKeys("up", "k")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		Left:     key.NewBinding(key.WithKeys("left", "h")),
		Right:    key.NewBinding(key.WithKeys("right", "l")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		Home:     key.NewBinding(key.WithKeys("home", "g")),

		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "use")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// ShortHelp is shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Execute, k.Templates, k.NextPane, k.Quit}
}

func (k keyMap) pickerHelp() []key.Binding {
	return []key.Binding{k.Select, k.Back}
}
