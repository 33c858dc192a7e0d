package widget

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the widget key bindings.
type KeyMap struct {
	Left, Right key.Binding
	Home, End   key.Binding

	Backspace, Delete key.Binding

	// Enter picks the highlighted result, or tokenizes the typed text.
	Enter key.Binding

	// Next and Prev move through the results list.
	Next, Prev key.Binding

	// Dismiss hides the results list, then leaves the field.
	Dismiss key.Binding

	Paste key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:  key.NewBinding(key.WithKeys("left", "ctrl+b"), key.WithHelp("←", "left")),
		Right: key.NewBinding(key.WithKeys("right", "ctrl+f"), key.WithHelp("→", "right")),
		Home:  key.NewBinding(key.WithKeys("home", "ctrl+a"), key.WithHelp("home", "start")),
		End:   key.NewBinding(key.WithKeys("end", "ctrl+e"), key.WithHelp("end", "end")),

		Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "delete left")),
		Delete:    key.NewBinding(key.WithKeys("delete", "ctrl+d"), key.WithHelp("del", "delete right")),

		Enter: key.NewBinding(key.WithKeys("enter", "tab"), key.WithHelp("enter", "add")),
		Next:  key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next result")),
		Prev:  key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "prev result")),

		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Paste:   key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),
	}
}
