package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/moviehub/internal/tui/styles"
)

// SearchBar is the one-line query input shown above the results, with the
// active genre/language selections rendered as badges
type SearchBar struct {
	input textinput.Model
	tags  []string
	width int
}

// NewSearchBar creates a new search bar
func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.CharLimit = 100
	ti.Prompt = "› "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchBar{input: ti}
}

// Focus starts capturing keystrokes
func (s *SearchBar) Focus() tea.Cmd {
	return s.input.Focus()
}

func (s *SearchBar) Blur() {
	s.input.Blur()
}

func (s SearchBar) Focused() bool {
	return s.input.Focused()
}

// Value returns the current input value
func (s SearchBar) Value() string {
	return s.input.Value()
}

// SetValue replaces the input text without emitting a change
func (s *SearchBar) SetValue(v string) {
	s.input.SetValue(v)
	s.input.CursorEnd()
}

// SetTags sets the filter badges shown after the input
func (s *SearchBar) SetTags(tags []string) {
	s.tags = tags
}

// SetSize updates the component width
func (s *SearchBar) SetSize(width int) {
	s.width = width
	s.input.Width = max(width-30, 10)
}

// Update handles input events, returns (bar, cmd, changed). changed is true
// when the text differs from before the message.
func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd, bool) {
	if !s.input.Focused() {
		return s, nil, false
	}

	prev := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd, s.input.Value() != prev
}

// View renders the search bar
func (s SearchBar) View() string {
	parts := []string{s.input.View()}
	for _, t := range s.tags {
		parts = append(parts, styles.BadgeStyle.Render(t))
	}
	line := strings.Join(parts, " ")

	border := styles.InactiveBorder
	if s.input.Focused() {
		border = styles.ActiveBorder
	}
	return border.
		Width(max(s.width-BorderWidth, 10)).
		Render(line)
}
