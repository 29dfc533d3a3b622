package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cookie/internal/domain"
	"github.com/mmcdole/cookie/internal/service"
	"github.com/mmcdole/cookie/internal/tui/styles"
)

// Root screens, selected with the number keys
const (
	RootSearch = iota
	RootLiked
	RootBadges
	RootMatchUps
	rootCount
)

var rootLabels = [rootCount]string{"1 Search", "2 Liked", "3 Badges", "4 Match-ups"}

// Layout
const (
	// Header (tabs) and footer (status + key hints)
	ChromeHeight = 2
)

// Services are the collaborators the screens call into
type Services struct {
	Search   *service.SearchService
	Reviews  *service.ReviewService
	User     *service.UserService
	MatchUps *service.MatchUpService
}

// Options tune the TUI
type Options struct {
	// PrefetchThreshold loads the next page when the cursor is this many
	// rows from the end of what is loaded
	PrefetchThreshold int

	// Timeout bounds every network call started from the UI
	Timeout time.Duration

	// Debounce is the pause after typing before a search is sent
	Debounce time.Duration

	// Admin enables the match-up editor
	Admin bool

	SearchType domain.SearchType
	Clock      domain.Clock
}

func (o Options) withDefaults() Options {
	if o.PrefetchThreshold <= 0 {
		o.PrefetchThreshold = 3
	}
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.Debounce <= 0 {
		o.Debounce = 300 * time.Millisecond
	}
	if o.SearchType == "" {
		o.SearchType = domain.SearchMovie
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// env is shared by every screen
type env struct {
	svc  Services
	opts Options
}

// Model is the main Bubble Tea model for the application
type Model struct {
	env *env

	// Navigation
	Stack  *ScreenStack
	roots  [rootCount]screen
	active int

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// UI state
	StatusMsg   string
	StatusIsErr bool
	statusSeq   int
	ShowHelp    bool

	help help.Model
}

// NewModel creates the application model with the search screen showing
func NewModel(svc Services, opts Options) Model {
	e := &env{svc: svc, opts: opts.withDefaults()}

	m := Model{
		env:  e,
		help: help.New(),
	}
	m.roots[RootSearch] = newSearchScreen(e)
	m.Stack = NewScreenStack(m.roots[RootSearch])
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.Stack.Top().Init(),
		TickCmd(100*time.Millisecond),
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		m.Ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		cmd := m.broadcast(msg)
		return m, tea.Batch(cmd, TickCmd(100*time.Millisecond))

	case StatusMsg:
		return m, m.setStatus(msg.Text, msg.IsErr)

	case ErrMsg:
		return m, m.setStatus(describeError(msg), true)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil

	case PushScreenMsg:
		m.Stack.Push(msg.Screen)
		return m, msg.Screen.Init()

	case PopScreenMsg:
		m.Stack.Pop()
		return m, nil
	}

	return m, m.broadcast(msg)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key closes help
	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	top := m.Stack.Top()
	if !top.Capturing() {
		switch {
		case key.Matches(msg, Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, Keys.Help):
			m.ShowHelp = true
			return m, nil
		case key.Matches(msg, Keys.Back):
			if m.Stack.CanGoBack() {
				m.Stack.Pop()
				return m, nil
			}
		case key.Matches(msg, Keys.SearchScreen):
			return m, m.switchRoot(RootSearch)
		case key.Matches(msg, Keys.LikedScreen):
			return m, m.switchRoot(RootLiked)
		case key.Matches(msg, Keys.BadgesScreen):
			return m, m.switchRoot(RootBadges)
		case key.Matches(msg, Keys.MatchUpScreen):
			return m, m.switchRoot(RootMatchUps)
		}
	}

	updated, cmd := top.Update(msg)
	m.Stack.ReplaceTop(updated)
	if m.Stack.Len() == 1 {
		m.roots[m.active] = updated
	}
	return m, cmd
}

// switchRoot shows a root screen, creating it on first use. Pushed screens
// are dropped.
func (m *Model) switchRoot(idx int) tea.Cmd {
	var cmd tea.Cmd
	if m.roots[idx] == nil {
		switch idx {
		case RootSearch:
			m.roots[idx] = newSearchScreen(m.env)
		case RootLiked:
			m.roots[idx] = newLikedScreen(m.env)
		case RootBadges:
			m.roots[idx] = newBadgesScreen(m.env)
		case RootMatchUps:
			m.roots[idx] = newHistoryScreen(m.env)
		}
		cmd = m.roots[idx].Init()
	}
	m.active = idx
	m.Stack.Reset(m.roots[idx])
	return cmd
}

// broadcast delivers a non-key message to every live screen. Root screens
// that are not showing still own loaders with fetches in flight.
func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, r := range m.roots {
		if r == nil {
			continue
		}
		updated, cmd := r.Update(msg)
		m.roots[i] = updated
		cmds = append(cmds, cmd)
	}

	for i := 1; i < m.Stack.Len(); i++ {
		updated, cmd := m.Stack.screens[i].Update(msg)
		m.Stack.screens[i] = updated
		cmds = append(cmds, cmd)
	}
	m.Stack.screens[0] = m.roots[m.active]
	return tea.Batch(cmds...)
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr

	delay := 3 * time.Second
	if isErr {
		delay = 5 * time.Second
	}
	return ClearStatusCmd(m.statusSeq, delay)
}

// describeError turns an ErrMsg into a toast
func describeError(msg ErrMsg) string {
	switch {
	case errors.Is(msg.Err, domain.ErrAuthFailed):
		return "Session expired, run `cookie login`"
	case errors.Is(msg.Err, domain.ErrServerOffline):
		return "Server is unreachable"
	case errors.Is(msg.Err, domain.ErrNotConfigured):
		return "Not configured, run `cookie login`"
	}
	return msg.Error()
}

// View implements tea.Model
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.ShowHelp {
		return m.renderHelp()
	}

	bodyHeight := max(m.Height-ChromeHeight, 1)
	body := m.Stack.Top().View(m.Width, bodyHeight)
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m Model) renderHeader() string {
	tabs := styles.RenderTabs(rootLabels[:], m.active)
	crumbs := m.Stack.Breadcrumb()
	trail := ""
	if len(crumbs) > 1 {
		trail = styles.DimStyle.Render("  " + strings.Join(crumbs[1:], " › "))
	}
	return lipgloss.NewStyle().MaxWidth(max(m.Width, 1)).Render(tabs + trail)
}

func (m Model) renderFooter() string {
	var left string
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.StatusErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.StatusSuccessStyle.Render(m.StatusMsg)
		}
	}

	bindings := append([]key.Binding{}, m.Stack.Top().Help()...)
	if !m.Stack.Top().Capturing() {
		bindings = append(bindings, Keys.Help, Keys.Quit)
	}
	right := m.help.ShortHelpView(bindings)

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	groups := [][]key.Binding{
		{Keys.SearchScreen, Keys.LikedScreen, Keys.BadgesScreen, Keys.MatchUpScreen},
		{Keys.Up, Keys.Down, Keys.Enter, Keys.Back, Keys.Quit},
		m.Stack.Top().Help(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Cookie"),
		m.help.FullHelpView(groups),
		"",
		styles.DimStyle.Render("Press any key to return..."),
	)

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(content))
}
