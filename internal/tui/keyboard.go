package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/moviehub/internal/tui/components"
)

// suggestionLimit bounds the search completions considered while typing
const suggestionLimit = 3

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil

	case StateSearching:
		return m.handleSearchKey(msg)
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// Filter typing in the focused column swallows everything else
	if col := m.Tabs.Current(); col.IsFilterTyping() {
		cmd := col.Update(msg)
		m.updateInspector()
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		return m.handleEscape()

	case key.Matches(msg, Keys.Search):
		m.Tabs.Select(TabBrowse)
		m.State = StateSearching
		m.updateSuggestion()
		m.updateInspector()
		return m, m.SearchBar.Focus()

	case key.Matches(msg, Keys.Genres):
		m.showGenrePicker()
		return m, nil

	case key.Matches(msg, Keys.Languages):
		m.showLanguagePicker()
		return m, nil

	case key.Matches(msg, Keys.History):
		m.showHistoryPicker()
		return m, nil

	case key.Matches(msg, Keys.ClearFilters):
		m.Tabs.Select(TabBrowse)
		m.SearchBar.SetValue("")
		m.updateInspector()
		return m, ClearFiltersCmd(m.BrowseSvc)

	case key.Matches(msg, Keys.Retry):
		if m.Tabs.Active() != TabBrowse {
			return m, nil
		}
		return m, RetryCmd(m.BrowseSvc)

	case key.Matches(msg, Keys.Filter):
		m.Tabs.Current().ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Sort):
		m.SortModal.Show(components.MovieSortOptions(), m.Tabs.Sort())
		return m, nil

	case key.Matches(msg, Keys.Favorite):
		return m.toggleFavorite()

	case key.Matches(msg, Keys.Enter):
		return m.openSelected()

	case key.Matches(msg, Keys.Trailer):
		if movie := m.Inspector.Movie(); movie != nil {
			return m, OpenLinkCmd(m.Launcher, movie.TrailerSearchURL(), "trailer")
		}
		return m, nil

	case key.Matches(msg, Keys.Poster):
		if movie := m.Inspector.Movie(); movie != nil {
			return m, OpenLinkCmd(m.Launcher, movie.PosterURL("w500"), "poster")
		}
		return m, nil

	case key.Matches(msg, Keys.ToggleInspector):
		m.ShowInspector = !m.ShowInspector
		m.updateLayout()
		return m, nil

	case key.Matches(msg, Keys.ScrollDetailsUp):
		m.Inspector.ScrollUp()
		return m, nil

	case key.Matches(msg, Keys.ScrollDetailsDn):
		m.Inspector.ScrollDown()
		return m, nil

	case key.Matches(msg, Keys.ClearRecent):
		m.Confirm.Show("Clear recently viewed movies?", actionClearRecent)
		return m, nil

	case key.Matches(msg, Keys.ClearHistory):
		m.Confirm.Show("Clear search history?", actionClearHistory)
		return m, nil

	case key.Matches(msg, Keys.Logout):
		m.Confirm.Show("Log out and remove this account's local data?", actionLogout)
		return m, nil

	case key.Matches(msg, Keys.NextTab):
		m.Tabs.Next()
		m.updateInspector()
		return m, nil

	case key.Matches(msg, Keys.PrevTab):
		m.Tabs.Prev()
		m.updateInspector()
		return m, nil
	}

	// Let the focused column handle remaining keys (j/k/g/G navigation)
	col := m.Tabs.Current()
	oldCursor := col.Cursor()
	cmd := col.Update(msg)
	if oldCursor != col.Cursor() {
		m.updateInspector()
	}
	return m, cmd
}

// handleSearchKey routes keys while the search bar has focus
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.SearchBar.Blur()
		m.State = StateBrowsing
		return m, nil
	case "enter":
		m.SearchBar.Blur()
		m.State = StateBrowsing
		return m, SubmitCmd(m.BrowseSvc)
	case "tab":
		if m.suggestion != "" {
			m.SearchBar.SetValue(m.suggestion)
			m.BrowseSvc.SetQuery(m.suggestion)
			m.updateSuggestion()
		}
		return m, nil
	}

	bar, cmd, changed := m.SearchBar.Update(msg)
	m.SearchBar = bar
	if changed {
		m.BrowseSvc.SetQuery(m.SearchBar.Value())
		m.updateSuggestion()
	}
	return m, cmd
}

// updateSuggestion picks the past search that best completes the input
func (m *Model) updateSuggestion() {
	m.suggestion = ""
	value := strings.TrimSpace(m.SearchBar.Value())
	if value == "" {
		return
	}
	for _, e := range m.Session.UserData.SuggestSearches(value, suggestionLimit) {
		if !strings.EqualFold(e.Query, value) {
			m.suggestion = e.Query
			return
		}
	}
}

// routeToModal routes key input to active modals
// Returns (handled, model, cmd) where handled is true if a modal consumed the input
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	if m.Confirm.IsVisible() {
		_, action := m.Confirm.HandleKey(msg.String())
		return true, m, m.runConfirmed(action)
	}

	if m.Omnibar.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.Omnibar, cmd, submitted = m.Omnibar.Update(msg)
		if submitted {
			cmd = tea.Batch(cmd, m.applyPick(m.Omnibar.SelectedIndex()))
		}
		if !m.Omnibar.IsVisible() {
			m.picker = PickNone
		}
		return true, m, cmd
	}

	if m.SortModal.IsVisible() {
		_, sel := m.SortModal.HandleKey(msg.String())
		if sel != nil {
			m.Tabs.SetSort(*sel)
			m.updateInspector()
		}
		return true, m, nil
	}

	return false, m, nil
}

// runConfirmed performs an action the user agreed to
func (m *Model) runConfirmed(action string) tea.Cmd {
	switch action {
	case actionLogout:
		m.BrowseSvc.Close()
		return SignOutCmd(m.SessionSvc, m.Session)
	case actionClearRecent:
		m.Session.UserData.ClearRecent()
		m.refreshCollections()
		return m.setStatus("Recently viewed cleared", false)
	case actionClearHistory:
		m.Session.UserData.ClearSearchHistory()
		m.suggestion = ""
		return m.setStatus("Search history cleared", false)
	}
	return nil
}

// handleEscape clears the innermost active thing: list filter, then
// language, then genre
func (m Model) handleEscape() (tea.Model, tea.Cmd) {
	if col := m.Tabs.Current(); col.IsFiltering() {
		col.ClearFilter()
		m.updateInspector()
		return m, nil
	}
	if m.Tabs.Active() != TabBrowse {
		return m, nil
	}
	switch {
	case m.Browse.Selection.Language != nil:
		m.BrowseSvc.ClearLanguage()
	case m.Browse.Selection.Genre != nil:
		m.BrowseSvc.ClearGenre()
	case m.Browse.Selection.HasQuery():
		m.SearchBar.SetValue("")
		m.BrowseSvc.ClearQuery()
	}
	return m, nil
}

func (m *Model) showGenrePicker() {
	items := make([]components.OmnibarItem, len(m.Browse.Genres))
	for i, g := range m.Browse.Genres {
		items[i] = components.OmnibarItem{Label: g.Name}
		if sel := m.Browse.Selection.Genre; sel != nil && sel.ID == g.ID {
			items[i].Detail = "✓"
		}
	}
	m.picker = PickGenre
	m.Omnibar.Show("Filter by genre", items)
}

func (m *Model) showLanguagePicker() {
	items := make([]components.OmnibarItem, len(m.Browse.Languages))
	for i, l := range m.Browse.Languages {
		items[i] = components.OmnibarItem{Label: l.EnglishName, Detail: l.Code}
		if sel := m.Browse.Selection.Language; sel != nil && sel.Code == l.Code {
			items[i].Detail = l.Code + " ✓"
		}
	}
	m.picker = PickLanguage
	m.Omnibar.Show("Filter by language", items)
}

func (m *Model) showHistoryPicker() {
	m.pickerItems = m.Session.UserData.SearchHistory()
	items := make([]components.OmnibarItem, len(m.pickerItems))
	for i, e := range m.pickerItems {
		items[i] = components.OmnibarItem{
			Label:  e.Query,
			Detail: time.UnixMilli(e.Timestamp).Format("Jan 2 15:04"),
		}
	}
	m.picker = PickHistory
	m.Omnibar.Show("Past searches", items)
}

// applyPick acts on the omnibar row the user chose. Choosing the active
// genre or language again clears it.
func (m *Model) applyPick(idx int) tea.Cmd {
	if idx < 0 {
		return nil
	}
	m.Tabs.Select(TabBrowse)
	m.updateInspector()

	switch m.picker {
	case PickGenre:
		if idx >= len(m.Browse.Genres) {
			return nil
		}
		g := m.Browse.Genres[idx]
		if sel := m.Browse.Selection.Genre; sel != nil && sel.ID == g.ID {
			m.BrowseSvc.ClearGenre()
		} else {
			m.BrowseSvc.SelectGenre(g)
		}
	case PickLanguage:
		if idx >= len(m.Browse.Languages) {
			return nil
		}
		l := m.Browse.Languages[idx]
		if sel := m.Browse.Selection.Language; sel != nil && sel.Code == l.Code {
			m.BrowseSvc.ClearLanguage()
		} else {
			m.BrowseSvc.SelectLanguage(l)
		}
	case PickHistory:
		if idx >= len(m.pickerItems) {
			return nil
		}
		q := m.pickerItems[idx].Query
		m.SearchBar.SetValue(q)
		m.BrowseSvc.SetQuery(q)
		return SubmitCmd(m.BrowseSvc)
	}
	return nil
}

// toggleFavorite flips the favorite state of the selected movie
func (m Model) toggleFavorite() (tea.Model, tea.Cmd) {
	movie := m.Tabs.Current().SelectedMovie()
	if movie == nil {
		return m, nil
	}
	added := m.Session.UserData.ToggleFavorite(*movie)
	m.refreshCollections()

	if added {
		return m, m.setStatus("Added "+movie.Title+" to favorites", false)
	}
	return m, m.setStatus("Removed "+movie.Title+" from favorites", false)
}

// openSelected records a view of the selected movie and loads its details
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	movie := m.Tabs.Current().SelectedMovie()
	if movie == nil {
		return m, nil
	}
	m.Session.UserData.RecordView(*movie)
	m.refreshCollections()

	if !m.ShowInspector {
		m.ShowInspector = true
		m.updateLayout()
	}
	m.Inspector.SetMovie(movie)
	if _, ok := m.details[movie.ID]; ok {
		return m, nil
	}
	m.Inspector.SetLoading(true)
	return m, LoadDetailsCmd(m.CatalogSvc, movie.ID)
}
