package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cookie/internal/search"
	"github.com/mmcdole/cookie/internal/tui/styles"
)

// Spinner frames for loading animation
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Layout constants for lists
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// Row is one rendered entry of a List
type Row struct {
	Title  string
	Detail string // second line, dim
	Badge  string // right-aligned tag

	// Warn renders Detail in the spoiler style
	Warn bool
}

// List is a bordered, scrollable list of rows with a fuzzy filter.
// Rows are supplied by the owning screen; the list only tracks the cursor.
type List struct {
	rows []Row

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title     string
	emptyText string

	// Detailed lists render Detail on its own line
	detailed bool

	// Loading state
	loading      bool
	spinnerFrame int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into rows
}

// NewList creates an empty list with a title
func NewList(title string, detailed bool) *List {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &List{
		title:       title,
		emptyText:   "No items",
		detailed:    detailed,
		focused:     true,
		filterInput: ti,
	}
}

// Update handles navigation and filter keys
func (l *List) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	// Typing into the filter
	if l.filterActive && l.filterInput.Focused() {
		switch {
		case key.Matches(keyMsg, ListKeys.Escape):
			l.clearFilter()
			return nil
		case key.Matches(keyMsg, ListKeys.Accept):
			l.filterInput.Blur()
			return nil
		case keyMsg.String() == "backspace" && l.filterInput.Value() == "":
			l.clearFilter()
			return nil
		}

		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		l.applyFilter()
		return cmd
	}

	// Filter applied but blurred: navigation over the matches
	if l.filterActive {
		switch {
		case key.Matches(keyMsg, ListKeys.Escape):
			l.clearFilter()
			return nil
		case key.Matches(keyMsg, ListKeys.Filter):
			l.filterInput.Focus()
			return nil
		}
	} else if key.Matches(keyMsg, ListKeys.Filter) {
		l.ToggleFilter()
		return nil
	}

	count := l.ItemCount()
	if count == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, ListKeys.Down):
		if l.cursor < count-1 {
			l.cursor++
		}
	case key.Matches(keyMsg, ListKeys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(keyMsg, ListKeys.Home):
		l.cursor = 0
	case key.Matches(keyMsg, ListKeys.End):
		l.cursor = count - 1
	case key.Matches(keyMsg, ListKeys.HalfDown):
		l.cursor = min(l.cursor+max(l.maxVisible/2, 1), count-1)
	case key.Matches(keyMsg, ListKeys.HalfUp):
		l.cursor = max(l.cursor-max(l.maxVisible/2, 1), 0)
	}
	l.ensureVisible()
	return nil
}

// View renders the list inside its border
func (l *List) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(l.width-frameW, 0)).
		Height(max(l.height-frameH, 0)).
		Render(l.renderContent())
}

// SetSize sets the outer dimensions including the border
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

// SetFocused toggles the border highlight
func (l *List) SetFocused(focused bool) {
	l.focused = focused
}

func (l *List) Title() string {
	return l.title
}

func (l *List) SetTitle(title string) {
	l.title = title
}

// SetEmptyText sets the text shown when there are no rows
func (l *List) SetEmptyText(text string) {
	l.emptyText = text
}

// SetRows replaces the rows. The cursor and an active filter are kept so
// appended pages do not move the selection.
func (l *List) SetRows(rows []Row) {
	l.rows = rows
	if l.filterActive {
		l.refilter()
	}
	l.cursor = max(0, min(l.cursor, l.ItemCount()-1))
	l.ensureVisible()
}

// Rows returns the current rows
func (l *List) Rows() []Row {
	return l.rows
}

// Clear drops all rows and resets the cursor
func (l *List) Clear() {
	l.rows = nil
	l.cursor = 0
	l.offset = 0
	l.clearFilter()
}

func (l *List) SetLoading(loading bool) {
	l.loading = loading
}

func (l *List) IsLoading() bool {
	return l.loading
}

// Tick advances the spinner animation
func (l *List) Tick() {
	l.spinnerFrame++
}

// ItemCount returns the number of visible rows (after filtering)
func (l *List) ItemCount() int {
	if l.filteredIdx != nil {
		return len(l.filteredIdx)
	}
	return len(l.rows)
}

// Cursor returns the cursor position among visible rows
func (l *List) Cursor() int {
	return l.cursor
}

// SetCursor moves the cursor, clamped to the visible rows
func (l *List) SetCursor(idx int) {
	l.cursor = max(0, min(idx, l.ItemCount()-1))
	l.ensureVisible()
}

// SelectedIndex returns the index into the rows passed to SetRows of the row
// under the cursor, or -1 when the list is empty
func (l *List) SelectedIndex() int {
	if l.ItemCount() == 0 || l.cursor >= l.ItemCount() {
		return -1
	}
	return l.mapIndex(l.cursor)
}

// NearEnd reports whether the cursor is within threshold rows of the last
// loaded row. Filtered views never report near-end.
func (l *List) NearEnd(threshold int) bool {
	if l.filterActive || len(l.rows) == 0 {
		return false
	}
	return l.cursor >= len(l.rows)-1-threshold
}

// ToggleFilter activates the filter input
func (l *List) ToggleFilter() {
	l.filterActive = true
	l.filterInput.Focus()
	l.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (l *List) IsFiltering() bool {
	return l.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (l *List) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all rows
func (l *List) ClearFilter() {
	l.clearFilter()
}

// Internal methods

func (l *List) rowHeight() int {
	if l.detailed {
		return 2
	}
	return 1
}

func (l *List) recalcMaxVisible() {
	// Reserve space for: title line + scroll indicators
	interior := l.height - BorderHeight - ScrollIndicatorLines - 1
	if l.filterActive {
		interior--
	}
	l.maxVisible = max(interior/l.rowHeight(), 1)
}

func (l *List) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

func (l *List) clearFilter() {
	l.filterActive = false
	l.filterQuery = ""
	l.filteredIdx = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.recalcMaxVisible()
}

func (l *List) applyFilter() {
	l.refilter()
	l.cursor = 0
	l.offset = 0
}

func (l *List) refilter() {
	l.filterQuery = l.filterInput.Value()
	if strings.TrimSpace(l.filterQuery) == "" {
		l.filteredIdx = nil
		return
	}

	titles := make([]string, len(l.rows))
	for i, r := range l.rows {
		titles[i] = r.Title
	}
	matches := search.FilterTitles(l.filterQuery, titles)

	l.filteredIdx = make([]int, len(matches))
	for i, m := range matches {
		l.filteredIdx[i] = m.Index
	}
}

func (l *List) mapIndex(i int) int {
	if l.filteredIdx != nil && i < len(l.filteredIdx) {
		return l.filteredIdx[i]
	}
	return i
}

// Rendering

func (l *List) renderContent() string {
	itemWidth := max(l.width-BorderWidth, 10)

	titleLine := styles.AccentStyle.Render(styles.Truncate(l.title, itemWidth))

	count := l.ItemCount()
	if count == 0 {
		msg := styles.DimStyle.Render(l.emptyText)
		if l.loading {
			msg = styles.DimStyle.Render(l.spinner() + " Loading...")
		} else if l.filterActive && l.filterQuery != "" {
			msg = styles.DimStyle.Render("No matches")
		}
		content := titleLine + "\n" + " " + "\n" + msg + "\n" + " "
		if l.filterActive {
			content += "\n" + l.filterInput.View()
		}
		return content
	}

	end := min(l.offset+l.maxVisible, count)
	lines := make([]string, 0, (end-l.offset)*l.rowHeight())
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderRow(l.rows[l.mapIndex(i)], i == l.cursor, itemWidth)...)
	}

	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}

	footer := " "
	switch {
	case l.loading:
		footer = styles.DimStyle.Render(l.spinner() + " loading more...")
	case end < count:
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if l.filterActive {
		content += "\n" + l.filterInput.View()
	}
	return content
}

func (l *List) renderRow(r Row, selected bool, width int) []string {
	badge := ""
	if r.Badge != "" {
		badge = styles.BadgeStyle.Render(r.Badge)
	}
	titleWidth := max(width-2-lipgloss.Width(badge)-1, 5)

	title := styles.Pad(styles.Truncate(r.Title, titleWidth), titleWidth)
	first := styles.RenderListRow(title, selected, width-lipgloss.Width(badge))
	if badge != "" {
		first = lipgloss.JoinHorizontal(lipgloss.Top, first, badge)
	}

	if !l.detailed {
		return []string{first}
	}

	detailStyle := styles.DimStyle
	if r.Warn {
		detailStyle = styles.SpoilerStyle
	}
	detail := "  " + detailStyle.Render(styles.Truncate(r.Detail, max(width-4, 5)))
	return []string{first, detail}
}

func (l *List) spinner() string {
	return SpinnerFrames[l.spinnerFrame%len(SpinnerFrames)]
}
