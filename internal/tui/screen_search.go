package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cookie/internal/domain"
	"github.com/mmcdole/cookie/internal/paging"
	"github.com/mmcdole/cookie/internal/service"
	"github.com/mmcdole/cookie/internal/tui/components"
	"github.com/mmcdole/cookie/internal/tui/styles"
)

// searchScreen is the keyword search with movie/actor/director tabs. An
// empty keyword shows the box office.
type searchScreen struct {
	env *env

	types   []domain.SearchType
	typeIdx int
	input   textinput.Model
	typing  bool
	seq     int // debounce generation

	loader    *service.SearchLoader
	boxOffice []domain.Movie
	list      *components.List
}

func newSearchScreen(e *env) *searchScreen {
	types := domain.SearchTypes()
	typeIdx := 0
	for i, t := range types {
		if t == e.opts.SearchType {
			typeIdx = i
		}
	}

	ti := textinput.New()
	ti.Placeholder = "search..."
	ti.Prompt = "› "
	ti.PromptStyle = styles.AccentStyle
	ti.CharLimit = 100
	ti.Focus()

	s := &searchScreen{
		env:     e,
		types:   types,
		typeIdx: typeIdx,
		input:   ti,
		typing:  true,
		list:    components.NewList("Box office", true),
	}
	s.loader = e.svc.Search.NewLoader(service.SearchQuery{Type: types[typeIdx]})
	return s
}

func (s *searchScreen) Init() tea.Cmd {
	s.list.SetLoading(true)
	return tea.Batch(textinput.Blink, LoadBoxOfficeCmd(s.env.svc.Search, s.env.opts.Timeout))
}

func (s *searchScreen) Title() string { return "Search" }

func (s *searchScreen) Capturing() bool {
	return s.typing || s.list.IsFiltering()
}

func (s *searchScreen) Help() []key.Binding {
	if s.typing {
		return []key.Binding{Keys.Tab, Keys.Enter, Keys.Escape}
	}
	return []key.Binding{Keys.Tab, Keys.Edit, Keys.Enter, components.ListKeys.Filter, Keys.Refresh}
}

func (s *searchScreen) query() service.SearchQuery {
	return service.SearchQuery{Type: s.types[s.typeIdx], Keyword: s.input.Value()}
}

func (s *searchScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		s.list.Tick()

	case BoxOfficeLoadedMsg:
		s.list.SetLoading(s.loader.Loading())
		if msg.Err != nil {
			return s, ErrorCmd(msg.Err, "loading box office")
		}
		s.boxOffice = msg.Movies
		s.refreshRows()

	case searchDebounceMsg:
		if msg.Seq != s.seq {
			return s, nil
		}
		return s, s.applyQuery()

	case PageLoadedMsg:
		if msg.Source != any(s.loader) {
			return s, nil
		}
		return s, s.handlePage(msg)

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *searchScreen) handlePage(msg PageLoadedMsg) tea.Cmd {
	var cmd tea.Cmd
	switch msg.Apply() {
	case paging.OutcomeStale:
		// The selection moved on while this page was in flight
		cmd = s.load()
	case paging.OutcomeApplied:
		s.refreshRows()
		cmd = s.prefetch()
	case paging.OutcomeFailed:
		s.refreshRows()
	}
	s.list.SetLoading(s.loader.Loading())
	return cmd
}

func (s *searchScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.typing {
		switch {
		case key.Matches(msg, Keys.Tab):
			return s.switchType(1)
		case key.Matches(msg, Keys.BackTab):
			return s.switchType(-1)
		case key.Matches(msg, Keys.Escape), key.Matches(msg, Keys.Enter), msg.String() == "down":
			s.typing = false
			s.input.Blur()
			// Flush a pending debounce
			s.seq++
			return s.applyQuery()
		}

		before := s.input.Value()
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		if s.input.Value() != before {
			s.seq++
			return tea.Batch(cmd, debounceCmd(s.seq, s.env.opts.Debounce))
		}
		return cmd
	}

	if s.list.IsFilterTyping() {
		return s.list.Update(msg)
	}

	switch {
	case key.Matches(msg, Keys.Tab):
		return s.switchType(1)
	case key.Matches(msg, Keys.BackTab):
		return s.switchType(-1)
	case key.Matches(msg, Keys.Edit):
		s.typing = true
		s.input.Focus()
		return textinput.Blink
	case key.Matches(msg, Keys.Enter):
		if m, ok := s.selected(); ok && m.ID > 0 {
			return PushCmd(newReviewsScreen(s.env, m.ID, m.Title))
		}
		return nil
	case key.Matches(msg, Keys.Refresh):
		if s.loader.Selection().Blank() {
			s.list.SetLoading(true)
			return LoadBoxOfficeCmd(s.env.svc.Search, s.env.opts.Timeout)
		}
		s.loader.Reset()
		s.list.Clear()
		return s.load()
	}

	cmd := s.list.Update(msg)
	return tea.Batch(cmd, s.prefetch())
}

func (s *searchScreen) switchType(delta int) tea.Cmd {
	n := len(s.types)
	s.typeIdx = (s.typeIdx + delta + n) % n
	s.seq++
	return s.applyQuery()
}

// applyQuery makes the typed keyword and tab the loader's selection and
// starts the first page when it changed
func (s *searchScreen) applyQuery() tea.Cmd {
	q := s.query()
	changed := s.loader.Select(q)
	if changed {
		s.list.Clear()
	}
	if q.Blank() {
		s.refreshRows()
		return nil
	}
	if changed || s.loader.Len() == 0 {
		return s.load()
	}
	return nil
}

func (s *searchScreen) load() tea.Cmd {
	if s.loader.Selection().Blank() {
		return nil
	}
	cmd := loadPageCmd(s.loader, s.env.opts.Timeout)
	s.list.SetLoading(s.loader.Loading())
	return cmd
}

func (s *searchScreen) prefetch() tea.Cmd {
	if s.loader.Selection().Blank() || !s.loader.HasMore() {
		return nil
	}
	if !s.list.NearEnd(s.env.opts.PrefetchThreshold) {
		return nil
	}
	return s.load()
}

func (s *searchScreen) movies() []domain.Movie {
	if s.loader.Selection().Blank() {
		return s.boxOffice
	}
	return s.loader.Items()
}

func (s *searchScreen) selected() (domain.Movie, bool) {
	idx := s.list.SelectedIndex()
	movies := s.movies()
	if idx < 0 || idx >= len(movies) {
		return domain.Movie{}, false
	}
	return movies[idx], true
}

func (s *searchScreen) refreshRows() {
	q := s.loader.Selection()
	if q.Blank() {
		s.list.SetTitle("Box office")
		s.list.SetEmptyText("No box office data")
	} else {
		s.list.SetTitle(fmt.Sprintf("%s results for %q", q.Type.Label(), strings.TrimSpace(q.Keyword)))
		s.list.SetEmptyText("No results")
	}

	movies := s.movies()
	rows := make([]components.Row, len(movies))
	for i, m := range movies {
		rows[i] = movieRow(m, q.Blank())
	}
	s.list.SetRows(rows)
}

func movieRow(m domain.Movie, ranked bool) components.Row {
	title := m.Title
	if y := m.Year(); y != "" {
		title = fmt.Sprintf("%s (%s)", m.Title, y)
	}
	if ranked && m.Rank > 0 {
		title = fmt.Sprintf("%d. %s", m.Rank, title)
	}

	var details []string
	for _, d := range []string{m.Director, m.ActorName, m.Genre, m.Country} {
		if d != "" {
			details = append(details, d)
		}
	}
	if m.Likes > 0 || m.Reviews > 0 {
		details = append(details, fmt.Sprintf("♥ %d · %d reviews", m.Likes, m.Reviews))
	}

	row := components.Row{Title: title, Detail: strings.Join(details, " · ")}
	if m.Score > 0 {
		row.Badge = fmt.Sprintf("%.1f", m.Score)
	}
	return row
}

func (s *searchScreen) View(width, height int) string {
	labels := make([]string, len(s.types))
	for i, t := range s.types {
		labels[i] = t.Label()
	}
	tabs := styles.RenderTabs(labels, s.typeIdx)

	s.input.Width = max(width-4, 10)
	s.list.SetFocused(!s.typing)
	s.list.SetSize(width, max(height-2, 3))

	return lipgloss.JoinVertical(lipgloss.Left, tabs, s.input.View(), s.list.View())
}
