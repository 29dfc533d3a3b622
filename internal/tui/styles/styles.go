package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Color palette
var (
	CookieBrown = lipgloss.Color("#C68642")
	Cream       = lipgloss.Color("#FDE68A")
	Cocoa       = lipgloss.Color("#1C1917")
	CocoaLight  = lipgloss.Color("#3F3A36")
	DimGray     = lipgloss.Color("#6B7280")
	LightGray   = lipgloss.Color("#9CA3AF")
	White       = lipgloss.Color("#F9FAFB")
	Green       = lipgloss.Color("#10B981")
	Red         = lipgloss.Color("#EF4444")
	Amber       = lipgloss.Color("#D67A00") // spoiler warnings
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(CookieBrown)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(CookieBrown)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	SpoilerStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Italic(true)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(Cocoa).
			Background(CookieBrown).
			Padding(0, 1)
)

// Tab styles
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(Cocoa).
			Background(CookieBrown).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Padding(0, 1)
)

// Rating markers
const (
	CookieFull  = "●"
	CookieEmpty = "○"
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(CocoaLight).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(CookieBrown).
			Padding(1, 2).
			Background(Cocoa)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(CookieBrown)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Badge styles
var (
	BadgeStyle = lipgloss.NewStyle().
			Foreground(Cocoa).
			Background(Cream).
			Padding(0, 1)

	DimBadgeStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(CocoaLight).
			Padding(0, 1)
)

// Status bar styles
var (
	StatusStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(Red).
				Padding(0, 1)

	StatusSuccessStyle = lipgloss.NewStyle().
				Foreground(Cocoa).
				Background(Green).
				Padding(0, 1)
)

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(CookieBrown)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(CookieBrown).
				Bold(true)
)

// Field label styles for forms
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Width(10)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(CookieBrown).
				Bold(true).
				Width(10)
)

// Helper functions

// Truncate truncates a string to the given display width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// Pad pads a string to the given display width
func Pad(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}

// RenderRating renders a 0-5 rating as cookie markers
func RenderRating(rating, max int) string {
	rating = min(max, rating)
	return AccentStyle.Render(strings.Repeat(CookieFull, rating)) +
		DimStyle.Render(strings.Repeat(CookieEmpty, max-rating))
}

// RenderTabs renders a tab bar with one active tab
func RenderTabs(labels []string, active int) string {
	tabs := make([]string, len(labels))
	for i, l := range labels {
		if i == active {
			tabs[i] = ActiveTabStyle.Render(l)
		} else {
			tabs[i] = InactiveTabStyle.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// RenderListRow renders a list row with uniform background when selected
func RenderListRow(text string, selected bool, width int) string {
	line := Pad(text, max(width-2, 0))
	if selected {
		return SelectedItemStyle.Render(line)
	}
	return NormalItemStyle.Render(line)
}
