package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/mmcdole/moviehub/internal/service"
	"github.com/mmcdole/moviehub/internal/tui/styles"
)

// Layout constants for list columns
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// ListColumn is a scrollable, filterable column of movies
type ListColumn struct {
	movies []domain.Movie

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	// Column title (shown in header)
	title string

	// Shown instead of rows when the column is empty
	emptyMessage string

	// Loading state
	loading      bool
	spinnerFrame int

	// Reports whether a movie is a favorite
	isFavorite func(id int64) bool

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filtered     []service.FilterResult // nil when no query
}

// NewListColumn creates an empty movie column
func NewListColumn(title string) *ListColumn {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.AccentStyle

	return &ListColumn{
		title:       title,
		filterInput: ti,
		focused:     true,
	}
}

// SetMovies replaces the rows, keeping the cursor when it is still in range
func (c *ListColumn) SetMovies(movies []domain.Movie) {
	c.movies = movies
	if c.filterActive {
		c.applyFilter()
	}
	if n := c.ItemCount(); c.cursor >= n {
		c.cursor = max(n-1, 0)
	}
	c.ensureVisible()
}

// Movies returns the unfiltered rows
func (c *ListColumn) Movies() []domain.Movie {
	return c.movies
}

func (c *ListColumn) SetTitle(title string) { c.title = title }

func (c *ListColumn) SetEmptyMessage(msg string) { c.emptyMessage = msg }

// SetFavoriteFunc sets how rows decide whether to show a filled star
func (c *ListColumn) SetFavoriteFunc(fn func(int64) bool) { c.isFavorite = fn }

func (c *ListColumn) SetFocused(focused bool) { c.focused = focused }

// SetLoading toggles the spinner in the header
func (c *ListColumn) SetLoading(loading bool) {
	c.loading = loading
}

// UpdateSpinnerFrame advances the loading animation
func (c *ListColumn) UpdateSpinnerFrame(frame int) {
	c.spinnerFrame = frame
}

// SetSize updates the component dimensions
func (c *ListColumn) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

// ItemCount returns the number of visible rows (after filtering)
func (c *ListColumn) ItemCount() int {
	if c.filtered != nil {
		return len(c.filtered)
	}
	return len(c.movies)
}

// SelectedMovie returns the movie under the cursor
func (c *ListColumn) SelectedMovie() *domain.Movie {
	idx := c.actualIndex(c.cursor)
	if idx < 0 {
		return nil
	}
	m := c.movies[idx]
	return &m
}

// Cursor returns the cursor position among visible rows
func (c *ListColumn) Cursor() int {
	return c.cursor
}

// Update handles navigation and filter typing
func (c *ListColumn) Update(msg tea.Msg) tea.Cmd {
	if !c.focused {
		return nil
	}

	// Filter input is focused (typing mode)
	if c.filterActive && c.filterInput.Focused() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "esc":
				c.clearFilter()
				return nil
			case "enter":
				// Accept filter, blur input to allow navigation
				c.filterInput.Blur()
				return nil
			case "backspace":
				if c.filterInput.Value() == "" {
					c.clearFilter()
					return nil
				}
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	count := c.ItemCount()
	if count == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, MovieListKeys.Down):
		if c.cursor < count-1 {
			c.cursor++
		}
	case key.Matches(keyMsg, MovieListKeys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(keyMsg, MovieListKeys.Top):
		c.cursor = 0
	case key.Matches(keyMsg, MovieListKeys.Bottom):
		c.cursor = count - 1
	case key.Matches(keyMsg, MovieListKeys.HalfDown):
		c.cursor = min(c.cursor+c.maxVisible/2, count-1)
	case key.Matches(keyMsg, MovieListKeys.HalfUp):
		c.cursor = max(c.cursor-c.maxVisible/2, 0)
	case key.Matches(keyMsg, MovieListKeys.PageDown):
		c.cursor = min(c.cursor+c.maxVisible, count-1)
	case key.Matches(keyMsg, MovieListKeys.PageUp):
		c.cursor = max(c.cursor-c.maxVisible, 0)
	}
	c.ensureVisible()
	return nil
}

// ToggleFilter activates the filter input
func (c *ListColumn) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (c *ListColumn) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (c *ListColumn) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (c *ListColumn) ClearFilter() {
	c.clearFilter()
}

// View renders the column
func (c *ListColumn) View() string {
	contentWidth := max(c.width-BorderWidth, 10)

	title := c.title
	if n := len(c.movies); n > 0 {
		title = fmt.Sprintf("%s · %d movies", title, n)
	}
	header := styles.AccentStyle.Render(styles.Truncate(title, contentWidth-2))
	if c.loading {
		frame := styles.SpinnerFrames[c.spinnerFrame%len(styles.SpinnerFrames)]
		header = styles.SpinnerStyle.Render(frame) + " " + header
	}

	lines := []string{header}
	if c.filterActive {
		lines = append(lines, c.filterInput.View())
	}

	count := c.ItemCount()
	switch {
	case count == 0 && c.filtered != nil:
		lines = append(lines, styles.DimStyle.Render("No matches"))
	case count == 0:
		lines = append(lines, "", lipgloss.NewStyle().Width(contentWidth).Render(styles.DimStyle.Render(c.emptyMessage)))
	default:
		up := " "
		if c.offset > 0 {
			up = styles.DimStyle.Render("↑ more")
		}
		lines = append(lines, up)

		end := min(c.offset+c.maxVisible, count)
		for i := c.offset; i < end; i++ {
			lines = append(lines, c.renderRow(i, contentWidth))
		}

		down := " "
		if end < count {
			down = styles.DimStyle.Render("↓ more")
		}
		lines = append(lines, down)
	}

	border := styles.InactiveBorder
	if c.focused {
		border = styles.ActiveBorder
	}
	return border.
		Width(contentWidth).
		Height(max(c.height-BorderHeight, 1)).
		Render(strings.Join(lines, "\n"))
}

func (c *ListColumn) renderRow(visible, width int) string {
	idx := c.actualIndex(visible)
	m := c.movies[idx]
	selected := visible == c.cursor

	star := styles.NotFavoriteChar
	var starColor *lipgloss.Color
	if c.isFavorite != nil && c.isFavorite(m.ID) {
		star = styles.FavoriteChar
		gold := styles.Gold
		starColor = &gold
	}

	meta := m.FormattedRating()
	if y := m.Year(); y != "" {
		meta = y + "  " + meta
	}
	titleWidth := max(width-lipgloss.Width(meta)-8, 5)

	parts := []styles.RowPart{
		{Text: star, Foreground: starColor},
		{Text: " "},
		{Text: styles.Pad(styles.Truncate(m.Title, titleWidth), titleWidth)},
		{Text: "  "},
		{Text: meta},
	}
	return styles.RenderListRow(parts, selected, width)
}

// Internal methods

func (c *ListColumn) actualIndex(visible int) int {
	if c.filtered != nil {
		if visible < 0 || visible >= len(c.filtered) {
			return -1
		}
		return c.filtered[visible].Index
	}
	if visible < 0 || visible >= len(c.movies) {
		return -1
	}
	return visible
}

func (c *ListColumn) recalcMaxVisible() {
	// Interior height = total - border (top+bottom)
	// Reserve space for: title line + scroll indicators (header + footer)
	interiorHeight := c.height - BorderHeight
	c.maxVisible = interiorHeight - ScrollIndicatorLines - 1
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ListColumn) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *ListColumn) clearFilter() {
	c.filterActive = false
	c.filtered = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

func (c *ListColumn) applyFilter() {
	query := strings.TrimSpace(c.filterInput.Value())
	if query == "" {
		c.filtered = nil
		return
	}

	c.filtered = service.FuzzyMatch(c.movies, query, func(m domain.Movie) string { return m.Title })
	if c.filtered == nil {
		c.filtered = []service.FilterResult{}
	}

	// Reset cursor to first match
	c.cursor = 0
	c.offset = 0
}
