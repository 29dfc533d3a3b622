package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/cookie/internal/domain"
	"github.com/mmcdole/cookie/internal/paging"
	"github.com/mmcdole/cookie/internal/service"
	"github.com/mmcdole/cookie/internal/tui/components"
)

// likedScreen lists the movies the user liked
type likedScreen struct {
	env    *env
	loader *service.LikedLoader
	list   *components.List
}

func newLikedScreen(e *env) *likedScreen {
	list := components.NewList("Liked movies", true)
	list.SetEmptyText("No liked movies yet")
	return &likedScreen{
		env:    e,
		loader: e.svc.User.NewLikedLoader(),
		list:   list,
	}
}

func (s *likedScreen) Init() tea.Cmd { return s.load() }

func (s *likedScreen) Title() string { return "Liked" }

func (s *likedScreen) Capturing() bool { return s.list.IsFiltering() }

func (s *likedScreen) Help() []key.Binding {
	return []key.Binding{components.ListKeys.Filter, Keys.Refresh}
}

func (s *likedScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		s.list.Tick()

	case PageLoadedMsg:
		if msg.Source != any(s.loader) {
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
		s.list.SetLoading(s.loader.Loading())
		return s, cmd

	case tea.KeyMsg:
		if s.list.IsFilterTyping() {
			return s, s.list.Update(msg)
		}
		if key.Matches(msg, Keys.Refresh) {
			s.loader.Reset()
			s.list.Clear()
			return s, s.load()
		}
		cmd := s.list.Update(msg)
		return s, tea.Batch(cmd, s.prefetch())
	}
	return s, nil
}

func (s *likedScreen) load() tea.Cmd {
	cmd := loadPageCmd(s.loader, s.env.opts.Timeout)
	s.list.SetLoading(s.loader.Loading())
	return cmd
}

func (s *likedScreen) prefetch() tea.Cmd {
	if !s.loader.HasMore() || !s.list.NearEnd(s.env.opts.PrefetchThreshold) {
		return nil
	}
	return s.load()
}

func (s *likedScreen) refreshRows() {
	movies := s.loader.Items()
	rows := make([]components.Row, len(movies))
	for i, m := range movies {
		title := m.Title
		if len(m.ReleasedAt) >= 4 {
			title = fmt.Sprintf("%s (%s)", m.Title, m.ReleasedAt[:4])
		}
		details := []string{fmt.Sprintf("♥ %d", m.Likes), fmt.Sprintf("%d reviews", m.Reviews)}
		if m.Country != "" {
			details = append([]string{m.Country}, details...)
		}
		rows[i] = components.Row{Title: title, Detail: strings.Join(details, " · ")}
	}
	s.list.SetRows(rows)
}

func (s *likedScreen) View(width, height int) string {
	s.list.SetSize(width, height)
	return s.list.View()
}

// badgesScreen shows the point/badge history, newest first
type badgesScreen struct {
	env  *env
	list *components.List
}

func newBadgesScreen(e *env) *badgesScreen {
	list := components.NewList("Point & badge history", true)
	list.SetEmptyText("No points earned yet")
	return &badgesScreen{env: e, list: list}
}

func (s *badgesScreen) Init() tea.Cmd {
	s.list.SetLoading(true)
	return LoadBadgesCmd(s.env.svc.User, false, s.env.opts.Timeout)
}

func (s *badgesScreen) Title() string { return "Badges" }

func (s *badgesScreen) Capturing() bool { return s.list.IsFiltering() }

func (s *badgesScreen) Help() []key.Binding {
	return []key.Binding{components.ListKeys.Filter, Keys.Refresh}
}

func (s *badgesScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		s.list.Tick()

	case BadgesLoadedMsg:
		s.list.SetLoading(false)
		if msg.Err != nil {
			return s, ErrorCmd(msg.Err, "loading badge history")
		}
		s.setEvents(msg.Events)

	case tea.KeyMsg:
		if s.list.IsFilterTyping() {
			return s, s.list.Update(msg)
		}
		if key.Matches(msg, Keys.Refresh) {
			s.list.SetLoading(true)
			return s, LoadBadgesCmd(s.env.svc.User, true, s.env.opts.Timeout)
		}
		return s, s.list.Update(msg)
	}
	return s, nil
}

func (s *badgesScreen) setEvents(events []domain.BadgeEvent) {
	rows := make([]components.Row, len(events))
	for i, ev := range events {
		detail := ev.CreatedAt.Local().Format(time.DateTime)
		if ev.Badge != "" {
			detail = ev.Badge + " · " + detail
		}
		rows[i] = components.Row{
			Title:  ev.Action,
			Detail: detail,
			Badge:  fmt.Sprintf("%+d", ev.Points),
		}
	}
	s.list.SetRows(rows)
}

func (s *badgesScreen) View(width, height int) string {
	s.list.SetSize(width, height)
	return s.list.View()
}
