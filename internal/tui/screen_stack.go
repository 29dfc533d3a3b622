package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// screen is one view in the navigation stack
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View(width, height int) string
	Title() string

	// Capturing reports whether the screen is taking text input, in which
	// case global keys (quit, back, screen switching) are not applied
	Capturing() bool

	// Help returns the bindings shown in the footer
	Help() []key.Binding
}

// ScreenStack manages the navigation stack. The bottom screen is the root
// selected with the number keys; detail screens are pushed on top of it.
type ScreenStack struct {
	screens []screen
}

// NewScreenStack creates a stack with a single root screen
func NewScreenStack(root screen) *ScreenStack {
	return &ScreenStack{screens: []screen{root}}
}

// Len returns the number of screens in the stack
func (ss *ScreenStack) Len() int {
	return len(ss.screens)
}

// Top returns the topmost (current) screen
func (ss *ScreenStack) Top() screen {
	if len(ss.screens) == 0 {
		return nil
	}
	return ss.screens[len(ss.screens)-1]
}

// Root returns the bottom screen
func (ss *ScreenStack) Root() screen {
	if len(ss.screens) == 0 {
		return nil
	}
	return ss.screens[0]
}

// Push adds a screen on top
func (ss *ScreenStack) Push(s screen) {
	ss.screens = append(ss.screens, s)
}

// Pop removes the top screen. The root is never popped.
func (ss *ScreenStack) Pop() screen {
	if len(ss.screens) <= 1 {
		return nil
	}
	popped := ss.screens[len(ss.screens)-1]
	ss.screens = ss.screens[:len(ss.screens)-1]
	return popped
}

// ReplaceTop swaps the top screen
func (ss *ScreenStack) ReplaceTop(s screen) {
	if len(ss.screens) == 0 {
		ss.screens = append(ss.screens, s)
		return
	}
	ss.screens[len(ss.screens)-1] = s
}

// Reset replaces the whole stack with a new root
func (ss *ScreenStack) Reset(root screen) {
	ss.screens = []screen{root}
}

// CanGoBack returns true if a pushed screen is showing
func (ss *ScreenStack) CanGoBack() bool {
	return len(ss.screens) > 1
}

// Each calls fn for every screen bottom-up and stores the returned screen
func (ss *ScreenStack) Each(fn func(s screen) screen) {
	for i, s := range ss.screens {
		ss.screens[i] = fn(s)
	}
}

// Breadcrumb returns the titles bottom-up
func (ss *ScreenStack) Breadcrumb() []string {
	titles := make([]string, len(ss.screens))
	for i, s := range ss.screens {
		titles[i] = s.Title()
	}
	return titles
}
