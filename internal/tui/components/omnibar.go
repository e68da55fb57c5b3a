package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/moviehub/internal/service"
	"github.com/mmcdole/moviehub/internal/tui/styles"
)

// OmnibarItem is one selectable row
type OmnibarItem struct {
	Label  string // Matched against the query
	Detail string // Dimmed suffix, not matched
}

// Omnibar is the fuzzy picker modal used for genres, languages and past
// searches
type Omnibar struct {
	input   textinput.Model
	title   string
	items   []OmnibarItem
	results []service.FilterResult // nil when the query is blank
	cursor  int
	visible bool
	width   int
	height  int
}

// NewOmnibar creates a new omnibar component
func NewOmnibar() Omnibar {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return Omnibar{
		input: ti,
	}
}

// Show makes the omnibar visible with the given rows
func (o *Omnibar) Show(title string, items []OmnibarItem) {
	o.visible = true
	o.title = title
	o.items = items
	o.results = nil
	o.cursor = 0
	o.input.SetValue("")
	o.input.Focus()
}

// Hide hides the omnibar
func (o *Omnibar) Hide() {
	o.visible = false
	o.input.Blur()
}

// IsVisible returns true if the omnibar is visible
func (o Omnibar) IsVisible() bool {
	return o.visible
}

// SetSize updates the component dimensions
func (o *Omnibar) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.input.Width = max(min(width-20, 50), 10)
}

// Query returns the current filter text
func (o Omnibar) Query() string {
	return o.input.Value()
}

// ResultCount returns the number of rows after filtering
func (o Omnibar) ResultCount() int {
	if o.results != nil {
		return len(o.results)
	}
	return len(o.items)
}

// SelectedIndex returns the index into the items passed to Show, or -1
func (o Omnibar) SelectedIndex() int {
	if o.cursor >= o.ResultCount() {
		return -1
	}
	if o.results != nil {
		return o.results[o.cursor].Index
	}
	return o.cursor
}

// Update handles input events, returns (omnibar, cmd, submitted)
func (o Omnibar) Update(msg tea.Msg) (Omnibar, tea.Cmd, bool) {
	if !o.visible {
		return o, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, PickerKeys.Choose):
			if o.SelectedIndex() < 0 {
				return o, nil, false
			}
			o.Hide()
			return o, nil, true
		case key.Matches(keyMsg, PickerKeys.Close):
			o.Hide()
			return o, nil, false
		case key.Matches(keyMsg, PickerKeys.Prev):
			if o.cursor > 0 {
				o.cursor--
			}
			return o, nil, false
		case key.Matches(keyMsg, PickerKeys.Next):
			if o.cursor < o.ResultCount()-1 {
				o.cursor++
			}
			return o, nil, false
		}
	}

	prev := o.input.Value()
	var cmd tea.Cmd
	o.input, cmd = o.input.Update(msg)
	if o.input.Value() != prev {
		o.results = service.FuzzyMatch(o.items, o.input.Value(), func(it OmnibarItem) string { return it.Label })
		if o.results == nil && strings.TrimSpace(o.input.Value()) != "" {
			o.results = []service.FilterResult{}
		}
		o.cursor = 0
	}
	return o, cmd, false
}

// View renders the omnibar
func (o Omnibar) View() string {
	if !o.visible {
		return ""
	}

	modalWidth := max(min(o.width-10, 60), 30)
	maxResults := max(o.height-12, 3)

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render(o.title))
	b.WriteString("\n")
	b.WriteString(o.input.View())
	b.WriteString("\n\n")

	count := o.ResultCount()
	if count == 0 {
		if o.results != nil {
			b.WriteString(styles.DimStyle.Render("No matches found"))
		} else {
			b.WriteString(styles.DimStyle.Render("Nothing to choose from"))
		}
	}

	// Keep the cursor inside the window
	start := 0
	if o.cursor >= maxResults {
		start = o.cursor - maxResults + 1
	}
	end := min(start+maxResults, count)

	for i := start; i < end; i++ {
		idx := i
		var matched []int
		if o.results != nil {
			idx = o.results[i].Index
			matched = o.results[i].MatchedIndexes
		}
		item := o.items[idx]
		selected := i == o.cursor

		label := styles.Truncate(item.Label, modalWidth-12)
		if len([]rune(label)) < len([]rune(item.Label)) {
			matched = nil
		}
		line := styles.Highlight(label, matched, selected)
		if item.Detail != "" {
			line += " " + styles.DimStyle.Render(item.Detail)
		}
		if selected {
			line = styles.AccentStyle.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if count > end {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", count-end)))
	}

	content := lipgloss.NewStyle().
		Width(modalWidth - 4).
		Render(b.String())

	modal := styles.ModalStyle.
		Width(modalWidth).
		Render(content)

	// Center horizontally and vertically
	return lipgloss.Place(
		o.width,
		o.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}
