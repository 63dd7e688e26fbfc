package session

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Submit  key.Binding
	Erase   key.Binding
	Clear   key.Binding
	Skip    key.Binding
	End     key.Binding
	Quit    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Submit")),
	Erase:   key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "Erase")),
	Clear:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("Ctrl+U", "Clear")),
	Skip:    key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("S", "Skip")),
	End:     key.NewBinding(key.WithKeys("e", "E"), key.WithHelp("E", "End session")),
	Quit:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Quit")),
	Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("Y", "Leave")),
	Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("N", "Keep playing")),
}
