package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Enter   key.Binding
	NextTab key.Binding
	PrevTab key.Binding

	// Browse
	Search       key.Binding
	Genres       key.Binding
	Languages    key.Binding
	History      key.Binding
	ClearFilters key.Binding
	Retry        key.Binding
	Filter       key.Binding
	Sort         key.Binding

	// Movie actions
	Favorite        key.Binding
	Trailer         key.Binding
	Poster          key.Binding
	ToggleInspector key.Binding
	ScrollDetailsUp key.Binding
	ScrollDetailsDn key.Binding

	// Collections
	ClearRecent  key.Binding
	ClearHistory key.Binding

	// Application
	Quit   key.Binding
	Help   key.Binding
	Escape key.Binding
	Logout key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev tab"),
		),

		// Browse
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Genres: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "genre"),
		),
		Languages: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "language"),
		),
		History: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "past searches"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Filter: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "filter list"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),

		// Movie actions
		Favorite: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "favorite"),
		),
		Trailer: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "trailer"),
		),
		Poster: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "poster"),
		),
		ToggleInspector: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle details"),
		),
		ScrollDetailsUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "scroll details up"),
		),
		ScrollDetailsDn: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "scroll details down"),
		),

		// Collections
		ClearRecent: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear recent"),
		),
		ClearHistory: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear search history"),
		),

		// Application
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logout"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Genres, k.Languages, k.Favorite, k.Enter, k.Help}
}

// FullHelp returns the bindings shown on the help screen, one group per column
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Genres, k.Languages, k.History, k.ClearFilters, k.Retry},
		{k.Enter, k.Favorite, k.Trailer, k.Poster, k.ToggleInspector, k.ScrollDetailsDn},
		{k.NextTab, k.PrevTab, k.Filter, k.Sort, k.ClearRecent, k.ClearHistory},
		{k.Escape, k.Logout, k.Help, k.Quit},
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
