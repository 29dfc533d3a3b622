package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cookie/internal/tui/styles"
)

const promptWidth = 36

// InputModal is a single-line prompt shown over the current screen. Enter only
// submits once the check passes; a failing check keeps the prompt open and
// shows the error under the input.
type InputModal struct {
	visible bool
	title   string
	hint    string
	check   func(string) error
	err     error
	input   textinput.Model
}

// NewInputModal creates a prompt. check may be nil.
func NewInputModal(placeholder string, limit int, check func(string) error) InputModal {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = promptWidth - 6
	ti.Prompt = "› "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(styles.CookieBrown)
	ti.PlaceholderStyle = styles.DimStyle

	return InputModal{input: ti, check: check}
}

// Show opens the prompt with an empty value
func (m *InputModal) Show(title, hint string) {
	m.visible = true
	m.title = title
	m.hint = hint
	m.err = nil
	m.input.Reset()
	m.input.Focus()
}

func (m *InputModal) Hide() {
	m.visible = false
	m.err = nil
	m.input.Blur()
}

func (m InputModal) IsVisible() bool {
	return m.visible
}

// Value returns the trimmed input
func (m InputModal) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// Update returns the new prompt, a command and whether the value was accepted
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			if m.check != nil {
				if m.err = m.check(m.Value()); m.err != nil {
					return m, nil, false
				}
			}
			m.Hide()
			return m, nil, true
		case tea.KeyEsc:
			m.Hide()
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.err = nil
	return m, cmd, false
}

func (m InputModal) View() string {
	if !m.visible {
		return ""
	}

	line := lipgloss.NewStyle().Width(promptWidth).Background(styles.Cocoa)
	footer := line.Foreground(styles.DimGray).Render(m.hint)
	if m.err != nil {
		footer = line.Foreground(styles.Red).Render(m.err.Error())
	}

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		line.Foreground(styles.White).Bold(true).Render(m.title),
		line.Render(""),
		line.Render(m.input.View()),
		line.Render(""),
		footer,
	))
}
