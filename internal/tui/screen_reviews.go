package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/cookie/internal/domain"
	"github.com/mmcdole/cookie/internal/paging"
	"github.com/mmcdole/cookie/internal/review"
	"github.com/mmcdole/cookie/internal/service"
	"github.com/mmcdole/cookie/internal/tui/components"
	"github.com/mmcdole/cookie/internal/tui/styles"
)

const spoilerMask = "Spoiler hidden. Press p to browse spoiler reviews."

// reviewsScreen is the review feed of one movie
type reviewsScreen struct {
	env   *env
	title string // from the navigation context until the server sends one
	feed  *service.ReviewFeed
	list  *components.List
}

func newReviewsScreen(e *env, movieID int64, title string) *reviewsScreen {
	return &reviewsScreen{
		env:   e,
		title: title,
		feed:  e.svc.Reviews.NewFeed(movieID, domain.ReviewFilter{Sort: domain.SortLatest}),
		list:  components.NewList("Reviews", true),
	}
}

func (s *reviewsScreen) Init() tea.Cmd {
	s.refreshRows()
	return s.load()
}

func (s *reviewsScreen) Title() string {
	if t := s.movieTitle(); t != "" {
		return t
	}
	return "Reviews"
}

func (s *reviewsScreen) Capturing() bool { return s.list.IsFiltering() }

func (s *reviewsScreen) Help() []key.Binding {
	return []key.Binding{Keys.Sort, Keys.Spoiler, Keys.Write, Keys.Refresh, Keys.Back}
}

func (s *reviewsScreen) movieTitle() string {
	if h := s.feed.Header(); h.Title != "" {
		return h.Title
	}
	return s.title
}

func (s *reviewsScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		s.list.Tick()

	case PageLoadedMsg:
		if msg.Source != any(s.feed.Loader) {
			return s, nil
		}
		var cmd tea.Cmd
		switch msg.Apply() {
		case paging.OutcomeStale:
			cmd = s.load()
		case paging.OutcomeApplied:
			s.refreshRows()
			cmd = s.prefetch()
		case paging.OutcomeFailed:
			s.refreshRows()
		}
		s.list.SetLoading(s.feed.Loading())
		return s, cmd

	case ReviewSubmittedMsg:
		if msg.Err == nil && msg.MovieID == s.feed.MovieID() {
			s.feed.Reset()
			s.list.Clear()
			return s, s.load()
		}

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *reviewsScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.list.IsFilterTyping() {
		return s.list.Update(msg)
	}

	filter := s.feed.Selection()
	switch {
	case key.Matches(msg, Keys.Sort):
		if filter.Sort == domain.SortPopular {
			filter.Sort = domain.SortLatest
		} else {
			filter.Sort = domain.SortPopular
		}
		return s.selectFilter(filter)
	case key.Matches(msg, Keys.Spoiler):
		filter.SpoilerOnly = !filter.SpoilerOnly
		return s.selectFilter(filter)
	case key.Matches(msg, Keys.Write):
		return PushCmd(newFormScreen(s.env, review.NewForm(s.feed.MovieID(), s.movieTitle())))
	case key.Matches(msg, Keys.Refresh):
		s.feed.Reset()
		s.list.Clear()
		return s.load()
	}

	cmd := s.list.Update(msg)
	return tea.Batch(cmd, s.prefetch())
}

// selectFilter switches filter or sort. A page still in flight for the old
// filter comes back stale and triggers the first page of the new one.
func (s *reviewsScreen) selectFilter(filter domain.ReviewFilter) tea.Cmd {
	if !s.feed.Select(filter) {
		return nil
	}
	s.list.Clear()
	s.refreshRows()
	return s.load()
}

func (s *reviewsScreen) load() tea.Cmd {
	cmd := loadPageCmd(s.feed.Loader, s.env.opts.Timeout)
	s.list.SetLoading(s.feed.Loading())
	return cmd
}

func (s *reviewsScreen) prefetch() tea.Cmd {
	if !s.feed.HasMore() || !s.list.NearEnd(s.env.opts.PrefetchThreshold) {
		return nil
	}
	return s.load()
}

func (s *reviewsScreen) refreshRows() {
	filter := s.feed.Selection()

	parts := []string{"Reviews", s.movieTitle(), string(filter.Sort)}
	if filter.SpoilerOnly {
		parts = append(parts, "spoilers only")
	}
	s.list.SetTitle(strings.Join(parts, " · "))
	s.list.SetEmptyText("No reviews yet. Press w to write one.")

	reviews := s.feed.Items()
	rows := make([]components.Row, len(reviews))
	for i, r := range reviews {
		rows[i] = reviewRow(r, filter.SpoilerOnly)
	}
	s.list.SetRows(rows)
}

// reviewRow renders a feed entry. Spoiler content is masked unless the feed
// is already filtered to spoilers.
func reviewRow(r domain.Review, spoilerOnly bool) components.Row {
	n := max(0, min(r.RoundedScore(), review.MaxRating))
	score := strings.Repeat(styles.CookieFull, n) + strings.Repeat(styles.CookieEmpty, review.MaxRating-n)

	row := components.Row{
		Title:  fmt.Sprintf("%s  %s", r.User.DisplayName(), score),
		Detail: r.Preview(),
		Badge:  fmt.Sprintf("♥ %d  ✎ %d", r.Likes, r.Comments),
	}
	if r.Spoiler && !spoilerOnly {
		row.Detail = spoilerMask
		row.Warn = true
	}
	return row
}

func (s *reviewsScreen) View(width, height int) string {
	s.list.SetSize(width, height)
	return s.list.View()
}
