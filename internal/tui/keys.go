package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all book page key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	Escape     key.Binding
	SwitchBook key.Binding

	// Turning
	Next  key.Binding
	Prev  key.Binding
	First key.Binding
	Last  key.Binding

	// Actions
	Search     key.Binding
	Inspect    key.Binding
	Stats      key.Binding
	NextVolume key.Binding
	PrevVolume key.Binding
	Reload     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("escape", "esc"),
			key.WithHelp("esc", "clear/close"),
		),
		SwitchBook: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch book"),
		),

		Next: key.NewBinding(
			key.WithKeys("right", "l", "pgdown", " "),
			key.WithHelp("→/l", "next spread"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "pgup"),
			key.WithHelp("←/h", "previous spread"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "first spread"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "last spread"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Inspect: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "left page details"),
		),
		Stats: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "category stats"),
		),
		NextVolume: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next story"),
		),
		PrevVolume: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous story"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}
