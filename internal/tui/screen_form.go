package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cookie/internal/review"
	"github.com/mmcdole/cookie/internal/tui/styles"
)

// Review form fields, in tab order
const (
	fieldRating = iota
	fieldBody
	fieldSpoiler
	formFieldCount
)

// formScreen writes a review for the movie it was opened from
type formScreen struct {
	env        *env
	form       *review.Form
	body       textarea.Model
	focus      int
	submitting bool
}

func newFormScreen(e *env, form *review.Form) *formScreen {
	ta := textarea.New()
	ta.Placeholder = "What did you think?"
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(8)

	return &formScreen{env: e, form: form, body: ta}
}

func (s *formScreen) Init() tea.Cmd { return nil }

func (s *formScreen) Title() string { return "Write review" }

// Capturing is always on: the body takes any key
func (s *formScreen) Capturing() bool { return true }

func (s *formScreen) Help() []key.Binding {
	return []key.Binding{Keys.Tab, Keys.Submit, Keys.Escape}
}

func (s *formScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ReviewSubmittedMsg:
		if msg.MovieID != s.form.MovieID() {
			return s, nil
		}
		s.submitting = false
		if msg.Err != nil {
			// Keep what was typed so it can be sent again
			return s, ErrorCmd(msg.Err, "posting review")
		}
		s.form.Reset()
		s.body.Reset()
		return s, tea.Batch(StatusCmd("Review posted", false), PopCmd)

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *formScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, Keys.Escape):
		// Cancel discards the draft
		s.form.Reset()
		s.body.Reset()
		return PopCmd
	case key.Matches(msg, Keys.Submit):
		if s.submitting {
			return nil
		}
		s.form.Body = s.body.Value()
		s.submitting = true
		return SubmitReviewCmd(s.env.svc.Reviews, *s.form, s.env.opts.Timeout)
	case key.Matches(msg, Keys.Tab):
		return s.setFocus((s.focus + 1) % formFieldCount)
	case key.Matches(msg, Keys.BackTab):
		return s.setFocus((s.focus + formFieldCount - 1) % formFieldCount)
	}

	switch s.focus {
	case fieldRating:
		switch k := msg.String(); {
		case key.Matches(msg, Keys.Left):
			s.form.AdjustRating(-1)
		case key.Matches(msg, Keys.Right):
			s.form.AdjustRating(1)
		case len(k) == 1 && k[0] >= '1' && k[0] <= '0'+review.MaxRating:
			n, _ := strconv.Atoi(k)
			s.form.SetRating(n - 1)
		}
	case fieldSpoiler:
		if key.Matches(msg, Keys.Toggle) || key.Matches(msg, Keys.Enter) {
			s.form.ToggleSpoiler()
		}
	case fieldBody:
		var cmd tea.Cmd
		s.body, cmd = s.body.Update(msg)
		s.form.Body = s.body.Value()
		return cmd
	}
	return nil
}

func (s *formScreen) setFocus(field int) tea.Cmd {
	s.focus = field
	if field == fieldBody {
		return s.body.Focus()
	}
	s.body.Blur()
	return nil
}

func (s *formScreen) label(field int, text string) string {
	if s.focus == field {
		return styles.FocusedLabelStyle.Render(text)
	}
	return styles.LabelStyle.Render(text)
}

func (s *formScreen) View(width, height int) string {
	s.body.SetWidth(max(width-14, 20))

	rating := styles.RenderRating(s.form.Rating, review.MaxRating)
	if !s.form.Rated() {
		rating += styles.DimStyle.Render("  not rated")
	}

	check := "[ ]"
	if s.form.Spoiler {
		check = "[x]"
	}
	spoiler := check + " contains spoilers"
	if s.form.Spoiler {
		spoiler = styles.SpoilerStyle.Render(spoiler)
	}

	status := ""
	if s.submitting {
		status = styles.DimStyle.Render("Posting...")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Review · "+s.form.Title()),
		"",
		s.label(fieldRating, "Rating")+" "+rating,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, s.label(fieldBody, "Review")+" ", s.body.View()),
		"",
		s.label(fieldSpoiler, "Spoiler")+" "+spoiler,
		"",
		status,
		styles.DimStyle.Render(strings.Join([]string{
			"tab next field", "←/→ or 1-5 rate", "space toggle", "C-s post", "esc cancel",
		}, " · ")),
	)

	return styles.ActiveBorder.Width(max(width-2, 10)).Height(max(height-2, 1)).Render(content)
}
