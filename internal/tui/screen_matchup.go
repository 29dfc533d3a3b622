package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cookie/internal/domain"
	"github.com/mmcdole/cookie/internal/matchup"
	"github.com/mmcdole/cookie/internal/tui/components"
	"github.com/mmcdole/cookie/internal/tui/styles"
)

// historyScreen lists past and running match-ups
type historyScreen struct {
	env    *env
	items  []domain.MatchUpSummary
	list   *components.List
	prompt components.InputModal
}

func newHistoryScreen(e *env) *historyScreen {
	list := components.NewList("Match-ups", false)
	list.SetEmptyText("No match-ups yet")
	return &historyScreen{
		env:    e,
		list:   list,
		prompt: components.NewInputModal("movie id", 12, checkMovieID),
	}
}

func checkMovieID(v string) error {
	if id, err := strconv.ParseInt(v, 10, 64); err != nil || id <= 0 {
		return errors.New("movie id must be a positive number")
	}
	return nil
}

func (s *historyScreen) Init() tea.Cmd {
	s.list.SetLoading(true)
	return LoadHistoryCmd(s.env.svc.MatchUps, s.env.opts.Timeout)
}

func (s *historyScreen) Title() string { return "Match-ups" }

func (s *historyScreen) Capturing() bool {
	return s.prompt.IsVisible() || s.list.IsFiltering()
}

func (s *historyScreen) Help() []key.Binding {
	bindings := []key.Binding{Keys.Vote, Keys.Refresh}
	if s.env.opts.Admin {
		bindings = append([]key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit"))}, bindings...)
	}
	return bindings
}

func (s *historyScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		s.list.Tick()

	case HistoryLoadedMsg:
		s.list.SetLoading(false)
		if msg.Err != nil {
			return s, ErrorCmd(msg.Err, "loading match-ups")
		}
		s.items = msg.Items
		s.refreshRows()

	case MatchUpSavedMsg:
		if msg.Err == nil {
			// The save dropped the cached history
			s.list.SetLoading(true)
			return s, LoadHistoryCmd(s.env.svc.MatchUps, s.env.opts.Timeout)
		}

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *historyScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.prompt.IsVisible() {
		var (
			cmd       tea.Cmd
			submitted bool
		)
		s.prompt, cmd, submitted = s.prompt.Update(msg)
		if !submitted {
			return cmd
		}
		m, ok := s.selected()
		if !ok {
			return nil
		}
		movieID, _ := strconv.ParseInt(s.prompt.Value(), 10, 64)
		return PushCmd(newBallotScreen(s.env, m, movieID))
	}

	if s.list.IsFilterTyping() {
		return s.list.Update(msg)
	}

	switch {
	case key.Matches(msg, Keys.Enter):
		m, ok := s.selected()
		if !ok {
			return nil
		}
		if !s.env.opts.Admin {
			return StatusCmd("Editing match-ups needs an admin session", true)
		}
		return PushCmd(newEditorScreen(s.env, m.ID))
	case key.Matches(msg, Keys.Vote):
		m, ok := s.selected()
		if !ok {
			return nil
		}
		s.prompt.Show("Vote · "+m.Title, "enter the movie id · esc to cancel")
		return textinput.Blink
	case key.Matches(msg, Keys.Refresh):
		s.list.SetLoading(true)
		return LoadHistoryCmd(s.env.svc.MatchUps, s.env.opts.Timeout)
	}
	return s.list.Update(msg)
}

func (s *historyScreen) selected() (domain.MatchUpSummary, bool) {
	idx := s.list.SelectedIndex()
	if idx < 0 || idx >= len(s.items) {
		return domain.MatchUpSummary{}, false
	}
	return s.items[idx], true
}

func (s *historyScreen) refreshRows() {
	now := s.env.opts.Clock()
	rows := make([]components.Row, len(s.items))
	for i, m := range s.items {
		rows[i] = components.Row{Title: m.String(), Badge: matchup.DDay(m.EndAt, now)}
	}
	s.list.SetRows(rows)
}

func (s *historyScreen) View(width, height int) string {
	if s.prompt.IsVisible() {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.prompt.View())
	}
	s.list.SetSize(width, height)
	return s.list.View()
}

// Editor fields, in tab order
const (
	editTitle = iota
	editType
	editStart
	editEnd
	editSlot1
	editSlot2
	editFieldCount
)

// editorScreen is the admin edit form of one match-up
type editorScreen struct {
	env     *env
	editor  *matchup.Editor
	inputs  map[int]*textinput.Model
	focus   int
	loading bool
	saving  bool
}

func newEditorScreen(e *env, matchID int64) *editorScreen {
	newInput := func(placeholder string, limit int) *textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Prompt = ""
		return &ti
	}
	return &editorScreen{
		env:    e,
		editor: matchup.NewEditor(matchID),
		inputs: map[int]*textinput.Model{
			editTitle: newInput("match-up title", 100),
			editStart: newInput(matchup.EditLayout, len(matchup.EditLayout)),
			editEnd:   newInput(matchup.EditLayout, len(matchup.EditLayout)),
		},
	}
}

func (s *editorScreen) Init() tea.Cmd {
	s.loading = true
	s.setFocus(editTitle)
	return tea.Batch(textinput.Blink, LoadMatchUpCmd(s.env.svc.MatchUps, s.editor.MatchID(), s.env.opts.Timeout))
}

func (s *editorScreen) Title() string { return fmt.Sprintf("Edit match-up %d", s.editor.MatchID()) }

func (s *editorScreen) Capturing() bool { return true }

func (s *editorScreen) Help() []key.Binding {
	return []key.Binding{Keys.Tab, Keys.Toggle, Keys.Clear, Keys.Submit, Keys.Escape}
}

func (s *editorScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case MatchUpLoadedMsg:
		if msg.MatchID != s.editor.MatchID() {
			return s, nil
		}
		s.loading = false
		if msg.Err != nil {
			return s, ErrorCmd(msg.Err, "loading match-up")
		}
		s.editor.Load(msg.MatchUp)
		s.pushInputs()

	case MoviePickedMsg:
		slot := s.editor.Pick(msg.Movie)
		s.focus = editSlot1 + slot
		return s, StatusCmd(fmt.Sprintf("%s placed in slot %d", msg.Movie.Title, slot+1), false)

	case MatchUpSavedMsg:
		if msg.MatchID != s.editor.MatchID() {
			return s, nil
		}
		s.saving = false
		if msg.Err != nil {
			return s, ErrorCmd(msg.Err, "saving match-up")
		}
		s.editor.Clear()
		s.pushInputs()
		return s, tea.Batch(StatusCmd("Match-up saved", false), PopCmd)

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *editorScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, Keys.Escape):
		return PopCmd
	case key.Matches(msg, Keys.Submit):
		if s.saving || s.loading {
			return nil
		}
		s.pullInputs()
		if _, err := s.editor.Payload(); err != nil {
			return ErrorCmd(err, "checking dates")
		}
		s.saving = true
		return SaveMatchUpCmd(s.env.svc.MatchUps, *s.editor, s.env.opts.Timeout)
	case key.Matches(msg, Keys.Tab), msg.String() == "down":
		return s.setFocus((s.focus + 1) % editFieldCount)
	case key.Matches(msg, Keys.BackTab), msg.String() == "up":
		return s.setFocus((s.focus + editFieldCount - 1) % editFieldCount)
	}

	switch s.focus {
	case editType:
		if key.Matches(msg, Keys.Toggle) || key.Matches(msg, Keys.Enter) {
			s.editor.CycleType()
		}
	case editSlot1, editSlot2:
		switch {
		case key.Matches(msg, Keys.Enter), key.Matches(msg, Keys.Toggle):
			return PushCmd(newPickerScreen(s.env))
		case key.Matches(msg, Keys.Clear):
			s.editor.ClearSlot(s.focus - editSlot1)
		}
	default:
		in := s.inputs[s.focus]
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return cmd
	}
	return nil
}

func (s *editorScreen) setFocus(field int) tea.Cmd {
	s.focus = field
	var cmd tea.Cmd
	for f, in := range s.inputs {
		if f == field {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return cmd
}

// pushInputs copies editor state into the text inputs
func (s *editorScreen) pushInputs() {
	s.inputs[editTitle].SetValue(s.editor.Title)
	s.inputs[editStart].SetValue(s.editor.Start)
	s.inputs[editEnd].SetValue(s.editor.End)
}

// pullInputs copies the text inputs into the editor
func (s *editorScreen) pullInputs() {
	s.editor.Title = strings.TrimSpace(s.inputs[editTitle].Value())
	s.editor.Start = strings.TrimSpace(s.inputs[editStart].Value())
	s.editor.End = strings.TrimSpace(s.inputs[editEnd].Value())
}

func (s *editorScreen) label(field int, text string) string {
	if s.focus == field {
		return styles.FocusedLabelStyle.Render(text)
	}
	return styles.LabelStyle.Render(text)
}

func (s *editorScreen) slotLine(i int) string {
	mv := s.editor.Slot(i)
	if mv == nil {
		return styles.DimStyle.Render("(empty, enter to pick)")
	}
	return mv.Title
}

func (s *editorScreen) View(width, height int) string {
	if s.loading {
		return styles.DimStyle.Render("Loading match-up...")
	}

	kind := string(s.editor.Type)
	if kind == "" {
		kind = styles.DimStyle.Render("(unset, space to change)")
	}

	status := ""
	if s.saving {
		status = styles.DimStyle.Render("Saving...")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render(s.Title()),
		"",
		s.label(editTitle, "Title")+" "+s.inputs[editTitle].View(),
		s.label(editType, "Type")+" "+kind,
		s.label(editStart, "Start")+" "+s.inputs[editStart].View(),
		s.label(editEnd, "End")+" "+s.inputs[editEnd].View(),
		s.label(editSlot1, "Movie 1")+" "+s.slotLine(0),
		s.label(editSlot2, "Movie 2")+" "+s.slotLine(1),
		"",
		status,
	)
	return styles.ActiveBorder.Width(max(width-2, 10)).Height(max(height-2, 1)).Render(content)
}

// pickerScreen searches for a movie to place in a match-up slot
type pickerScreen struct {
	env       *env
	input     textinput.Model
	typing    bool
	lastQuery string
	movies    []domain.Movie
	list      *components.List
}

func newPickerScreen(e *env) *pickerScreen {
	ti := textinput.New()
	ti.Placeholder = "movie title"
	ti.Prompt = "› "
	ti.PromptStyle = styles.AccentStyle
	ti.Focus()

	list := components.NewList("Pick a movie", false)
	list.SetEmptyText("Type a title and press enter")
	return &pickerScreen{env: e, input: ti, typing: true, list: list}
}

func (s *pickerScreen) Init() tea.Cmd { return textinput.Blink }

func (s *pickerScreen) Title() string { return "Pick movie" }

func (s *pickerScreen) Capturing() bool { return true }

func (s *pickerScreen) Help() []key.Binding {
	return []key.Binding{Keys.Enter, Keys.Escape}
}

func (s *pickerScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case PickResultsMsg:
		if msg.Query != s.lastQuery {
			return s, nil
		}
		s.list.SetLoading(false)
		if msg.Err != nil {
			return s, ErrorCmd(msg.Err, "searching movies")
		}
		s.movies = msg.Movies
		rows := make([]components.Row, len(s.movies))
		for i, m := range s.movies {
			rows[i] = movieRow(m, false)
		}
		s.list.SetEmptyText("No matches")
		s.list.SetRows(rows)
		if len(rows) > 0 {
			s.typing = false
			s.input.Blur()
		}

	case TickMsg:
		s.list.Tick()

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *pickerScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.typing {
		switch {
		case key.Matches(msg, Keys.Escape):
			return PopCmd
		case key.Matches(msg, Keys.Enter):
			s.lastQuery = strings.TrimSpace(s.input.Value())
			if s.lastQuery == "" {
				return nil
			}
			s.list.SetLoading(true)
			return PickMoviesCmd(s.env.svc.Search, s.lastQuery, s.env.opts.Timeout)
		case msg.String() == "down" && len(s.movies) > 0:
			s.typing = false
			s.input.Blur()
			return nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, Keys.Escape), key.Matches(msg, Keys.Edit):
		s.typing = true
		return s.input.Focus()
	case key.Matches(msg, Keys.Enter):
		idx := s.list.SelectedIndex()
		if idx < 0 || idx >= len(s.movies) {
			return nil
		}
		picked := s.movies[idx]
		return tea.Batch(func() tea.Msg { return MoviePickedMsg{Movie: picked} }, PopCmd)
	}
	return s.list.Update(msg)
}

func (s *pickerScreen) View(width, height int) string {
	s.input.Width = max(width-4, 10)
	s.list.SetFocused(!s.typing)
	s.list.SetSize(width, max(height-1, 3))
	return lipgloss.JoinVertical(lipgloss.Left, s.input.View(), s.list.View())
}

// ballotScreen toggles vote reasons for one movie of a match-up
type ballotScreen struct {
	env    *env
	title  string
	ballot *matchup.Ballot
	cursor int
	saving bool
}

func newBallotScreen(e *env, m domain.MatchUpSummary, movieID int64) *ballotScreen {
	return &ballotScreen{env: e, title: m.Title, ballot: matchup.NewBallot(m.ID, movieID)}
}

func (s *ballotScreen) Init() tea.Cmd { return nil }

func (s *ballotScreen) Title() string { return "Vote" }

func (s *ballotScreen) Capturing() bool { return false }

func (s *ballotScreen) Help() []key.Binding {
	return []key.Binding{Keys.Toggle, Keys.Submit, Keys.Back}
}

func (s *ballotScreen) tagCount() int {
	return len(matchup.CharmTags) + len(matchup.EmotionTags)
}

func (s *ballotScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case VoteCastMsg:
		if msg.MatchID != s.ballot.MatchID || msg.MovieID != s.ballot.MovieID {
			return s, nil
		}
		s.saving = false
		switch {
		case errors.Is(msg.Err, domain.ErrRejected):
			return s, StatusCmd("Vote not accepted. You may have voted already.", true)
		case msg.Err != nil:
			return s, ErrorCmd(msg.Err, "casting vote")
		}
		return s, tea.Batch(StatusCmd("Vote cast", false), PopCmd)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Down):
			s.cursor = min(s.cursor+1, s.tagCount()-1)
		case key.Matches(msg, Keys.Up):
			s.cursor = max(s.cursor-1, 0)
		case key.Matches(msg, Keys.Toggle), key.Matches(msg, Keys.Enter):
			s.toggle()
		case key.Matches(msg, Keys.Submit):
			if s.saving {
				return s, nil
			}
			s.saving = true
			return s, CastVoteCmd(s.env.svc.MatchUps, s.ballot.MatchID, s.ballot.MovieID, s.ballot.Vote(), s.env.opts.Timeout)
		}
	}
	return s, nil
}

func (s *ballotScreen) toggle() {
	if s.cursor < len(matchup.CharmTags) {
		s.ballot.ToggleCharm(matchup.CharmTags[s.cursor].Key)
		return
	}
	s.ballot.ToggleEmotion(matchup.EmotionTags[s.cursor-len(matchup.CharmTags)].Key)
}

func (s *ballotScreen) View(width, height int) string {
	lines := []string{
		styles.TitleStyle.Render(fmt.Sprintf("%s · movie %d", s.title, s.ballot.MovieID)),
		"",
		styles.SubtitleStyle.Render("What stood out?"),
	}

	render := func(i int, t matchup.Tag, on bool) string {
		box := "[ ] "
		if on {
			box = "[x] "
		}
		return styles.RenderListRow(box+t.Label, i == s.cursor, 30)
	}

	for i, t := range matchup.CharmTags {
		lines = append(lines, render(i, t, s.ballot.CharmSelected(t.Key)))
	}
	lines = append(lines, "", styles.SubtitleStyle.Render("How did it feel?"))
	for i, t := range matchup.EmotionTags {
		lines = append(lines, render(len(matchup.CharmTags)+i, t, s.ballot.EmotionSelected(t.Key)))
	}
	if s.saving {
		lines = append(lines, "", styles.DimStyle.Render("Sending vote..."))
	}

	return styles.ActiveBorder.Width(max(width-2, 10)).Height(max(height-2, 1)).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...))
}
