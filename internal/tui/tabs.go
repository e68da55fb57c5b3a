package tui

import (
	"fmt"

	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/mmcdole/moviehub/internal/tui/components"
)

// Tab identifies one of the movie lists
type Tab int

const (
	TabBrowse Tab = iota
	TabFavorites
	TabRecent
	tabCount
)

// String returns the tab label
func (t Tab) String() string {
	switch t {
	case TabBrowse:
		return "Browse"
	case TabFavorites:
		return "Favorites"
	case TabRecent:
		return "Recently Viewed"
	default:
		return "Unknown"
	}
}

// Tabs holds one list column per tab, each with its own sort order. Only
// the active column is focused.
type Tabs struct {
	active  Tab
	columns [tabCount]*components.ListColumn
	sorts   [tabCount]components.SortSelection
	source  [tabCount][]domain.Movie // unsorted rows
}

// NewTabs creates the browse, favorites and recent columns
func NewTabs(isFavorite func(int64) bool) *Tabs {
	t := &Tabs{}
	for i := range t.columns {
		col := components.NewListColumn(Tab(i).String())
		col.SetFavoriteFunc(isFavorite)
		col.SetFocused(Tab(i) == TabBrowse)
		t.columns[i] = col
	}
	t.columns[TabFavorites].SetEmptyMessage("No favorites yet. Press space on a movie to add it.")
	t.columns[TabRecent].SetEmptyMessage("Movies you open appear here.")
	return t
}

// Active returns the focused tab
func (t *Tabs) Active() Tab {
	return t.active
}

// Column returns the column for a tab
func (t *Tabs) Column(tab Tab) *components.ListColumn {
	return t.columns[tab]
}

// Current returns the focused column
func (t *Tabs) Current() *components.ListColumn {
	return t.columns[t.active]
}

// Select focuses a tab
func (t *Tabs) Select(tab Tab) {
	if tab < 0 || tab >= tabCount {
		return
	}
	t.columns[t.active].SetFocused(false)
	t.active = tab
	t.columns[tab].SetFocused(true)
}

// Next focuses the following tab, wrapping around
func (t *Tabs) Next() {
	t.Select((t.active + 1) % tabCount)
}

// Prev focuses the previous tab, wrapping around
func (t *Tabs) Prev() {
	t.Select((t.active + tabCount - 1) % tabCount)
}

// SetMovies replaces a tab's rows, applying its sort
func (t *Tabs) SetMovies(tab Tab, movies []domain.Movie) {
	t.source[tab] = movies
	t.columns[tab].SetMovies(components.SortMovies(movies, t.sorts[tab]))
}

// Sort returns the active tab's sort order
func (t *Tabs) Sort() components.SortSelection {
	return t.sorts[t.active]
}

// SetSort changes the active tab's sort order and re-sorts its rows
func (t *Tabs) SetSort(sel components.SortSelection) {
	t.sorts[t.active] = sel
	t.columns[t.active].SetMovies(components.SortMovies(t.source[t.active], sel))
}

// Label renders a tab name with its row count
func (t *Tabs) Label(tab Tab) string {
	if tab == TabBrowse {
		return tab.String()
	}
	return fmt.Sprintf("%s (%d)", tab, len(t.source[tab]))
}

// SetSize resizes every column
func (t *Tabs) SetSize(width, height int) {
	for _, col := range t.columns {
		col.SetSize(width, height)
	}
}

// UpdateSpinnerFrame advances every column's loading animation
func (t *Tabs) UpdateSpinnerFrame(frame int) {
	for _, col := range t.columns {
		col.UpdateSpinnerFrame(frame)
	}
}
