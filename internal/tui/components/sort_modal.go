package components

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/mmcdole/moviehub/internal/tui/styles"
)

// SortField represents a field to sort by
type SortField int

const (
	SortDefault SortField = iota // catalog order
	SortTitle
	SortRating
	SortReleased
	SortPopularity
)

// String returns the display name for the sort field
func (f SortField) String() string {
	switch f {
	case SortDefault:
		return "Default"
	case SortTitle:
		return "Title"
	case SortRating:
		return "Rating"
	case SortReleased:
		return "Release Date"
	case SortPopularity:
		return "Popularity"
	default:
		return "Unknown"
	}
}

// SortDirection represents sort direction
type SortDirection int

const (
	SortAsc SortDirection = iota
	SortDesc
)

// DefaultDirection returns the default sort direction for a field
func DefaultDirection(field SortField) SortDirection {
	if field == SortTitle {
		return SortAsc // A-Z
	}
	return SortDesc // highest / newest first
}

// MovieSortOptions returns the available sort options for movie lists
func MovieSortOptions() []SortField {
	return []SortField{SortDefault, SortTitle, SortRating, SortReleased, SortPopularity}
}

// SortSelection represents the user's sort choice
type SortSelection struct {
	Field     SortField
	Direction SortDirection
}

// SortMovies returns a sorted copy of movies. SortDefault keeps the input order.
func SortMovies(movies []domain.Movie, sel SortSelection) []domain.Movie {
	out := slices.Clone(movies)
	if sel.Field == SortDefault {
		return out
	}

	cmp := func(a, b domain.Movie) int {
		switch sel.Field {
		case SortTitle:
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case SortRating:
			return compareFloat(a.VoteAverage, b.VoteAverage)
		case SortReleased:
			return strings.Compare(a.ReleaseDate, b.ReleaseDate)
		case SortPopularity:
			return compareFloat(a.Popularity, b.Popularity)
		}
		return 0
	}
	slices.SortStableFunc(out, func(a, b domain.Movie) int {
		if sel.Direction == SortDesc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SortModal is a small popup for choosing sort order
type SortModal struct {
	visible     bool
	options     []SortField
	cursor      int
	activeField SortField
	activeDir   SortDirection
}

// NewSortModal creates a new sort modal
func NewSortModal() SortModal {
	return SortModal{}
}

// Show displays the modal with the given options and current sort state
func (m *SortModal) Show(options []SortField, active SortSelection) {
	m.visible = true
	m.options = options
	m.activeField = active.Field
	m.activeDir = active.Direction
	m.cursor = 0
	for i, opt := range options {
		if opt == active.Field {
			m.cursor = i
			break
		}
	}
}

// Hide dismisses the modal
func (m *SortModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m SortModal) IsVisible() bool {
	return m.visible
}

// HandleKey processes a key press, returns (handled, selection).
// If selection is non-nil, the user confirmed a choice.
func (m *SortModal) HandleKey(key string) (handled bool, selection *SortSelection) {
	if !m.visible {
		return false, nil
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
		return true, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return true, nil
	case "enter":
		chosen := m.options[m.cursor]
		dir := DefaultDirection(chosen)
		if chosen == m.activeField {
			// Toggle direction
			if m.activeDir == SortAsc {
				dir = SortDesc
			} else {
				dir = SortAsc
			}
		}
		m.visible = false
		return true, &SortSelection{Field: chosen, Direction: dir}
	case "esc", "s":
		m.visible = false
		return true, nil
	}

	return true, nil // consume all keys when visible
}

// View renders the sort modal
func (m SortModal) View() string {
	if !m.visible || len(m.options) == 0 {
		return ""
	}

	var lines []string
	for i, opt := range m.options {
		selected := i == m.cursor
		isActive := opt == m.activeField

		prefix := "  "
		suffix := ""
		if isActive {
			prefix = "✓ "
			if opt != SortDefault {
				suffix = " ↓"
				if m.activeDir == SortAsc {
					suffix = " ↑"
				}
			}
		}
		text := styles.Pad(prefix+opt.String()+suffix, 20)

		style := lipgloss.NewStyle().Foreground(styles.LightGray)
		switch {
		case selected:
			style = lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight)
		case isActive:
			style = lipgloss.NewStyle().Foreground(styles.Gold)
		}
		lines = append(lines, style.Render(text))
	}

	return styles.ModalStyle.
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render("Sort by") + "\n" + strings.Join(lines, "\n"))
}
