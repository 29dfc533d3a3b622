package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Enter   key.Binding
	Back    key.Binding
	Tab     key.Binding
	BackTab key.Binding

	// Screens
	SearchScreen  key.Binding
	LikedScreen   key.Binding
	BadgesScreen  key.Binding
	MatchUpScreen key.Binding

	// Actions
	Quit    key.Binding
	Help    key.Binding
	Escape  key.Binding
	Edit    key.Binding
	Sort    key.Binding
	Spoiler key.Binding
	Write   key.Binding
	Refresh key.Binding
	Vote    key.Binding
	Toggle  key.Binding
	Clear   key.Binding
	Submit  key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "less"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "more"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		BackTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous"),
		),

		// Screens
		SearchScreen: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "search"),
		),
		LikedScreen: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "liked"),
		),
		BadgesScreen: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "badges"),
		),
		MatchUpScreen: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "match-ups"),
		),

		// Actions
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Edit: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "edit keyword"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "latest/popular"),
		),
		Spoiler: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "spoilers only"),
		),
		Write: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "write review"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Vote: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "vote"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear slot"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "submit"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
