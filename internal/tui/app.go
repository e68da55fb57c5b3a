package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/moviehub/internal/adapter"
	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/mmcdole/moviehub/internal/service"
	"github.com/mmcdole/moviehub/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateSearching                 // search bar has focus
	StateHelp
)

// PickerKind identifies what the omnibar is choosing
type PickerKind int

const (
	PickNone PickerKind = iota
	PickGenre
	PickLanguage
	PickHistory
)

// Confirm modal actions
const (
	actionLogout       = "logout"
	actionClearRecent  = "clear-recent"
	actionClearHistory = "clear-history"
)

// Layout proportions
const (
	ListColumnPercent = 55
	MinColumnWidth    = 30

	// Tab bar, featured line and footer
	ChromeHeight = 3
	// Search bar with border
	SearchBarHeight = 3
)

const (
	tickInterval  = 100 * time.Millisecond
	statusTimeout = 3 * time.Second
)

// Services bundles what the model drives
type Services struct {
	Browse   *service.BrowseService
	Catalog  *service.CatalogService
	Sessions *service.SessionService
	Session  *service.Session
	Launcher *adapter.Launcher
	Logger   *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	BrowseSvc  *service.BrowseService
	CatalogSvc *service.CatalogService
	SessionSvc *service.SessionService
	Session    *service.Session
	Launcher   *adapter.Launcher
	Mailbox    *Mailbox
	logger     *slog.Logger

	// UI Components
	Tabs      *Tabs
	SearchBar components.SearchBar
	Inspector components.Inspector
	Omnibar   components.Omnibar
	SortModal components.SortModal
	Confirm   components.ConfirmModal
	Sync      components.SyncState
	help      help.Model

	// Data
	Browse      service.BrowseState     // last applied snapshot
	details     map[int64]*domain.Movie // full records fetched on enter
	picker      PickerKind              // what the omnibar is showing
	pickerItems []domain.SearchEntry    // history rows behind the omnibar
	suggestion  string                  // search completion offered on tab

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg     string
	StatusIsErr   bool
	SpinnerFrame  int
	ShowInspector bool
	SignOutErr    error
	SignedOut     bool
}

// NewModel creates the application model and subscribes it to the services
func NewModel(svc Services) Model {
	logger := svc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mailbox := NewMailbox()
	svc.Browse.SetObserver(mailbox)
	svc.Browse.SetRecorder(svc.Session.UserData)
	svc.Session.Sync.SetObserver(mailbox)
	svc.Session.UserData.OnPersistError(mailbox.OnPersistError)

	sync := components.SyncState{Status: components.SyncLocalOnly}
	if svc.Session.Online {
		sync.Status = components.SyncIdle
	}

	m := Model{
		State:         StateBrowsing,
		BrowseSvc:     svc.Browse,
		CatalogSvc:    svc.Catalog,
		SessionSvc:    svc.Sessions,
		Session:       svc.Session,
		Launcher:      svc.Launcher,
		Mailbox:       mailbox,
		logger:        logger,
		Tabs:          NewTabs(svc.Session.UserData.IsFavorite),
		SearchBar:     components.NewSearchBar(),
		Inspector:     components.NewInspector(),
		Omnibar:       components.NewOmnibar(),
		SortModal:     components.NewSortModal(),
		Sync:          sync,
		help:          help.New(),
		details:       make(map[int64]*domain.Movie),
		ShowInspector: true,
	}
	m.refreshCollections()
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.Mailbox.Wait(),
		LoadInitialCmd(m.BrowseSvc),
		TickCmd(tickInterval),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.Tabs.UpdateSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(tickInterval)

	case ObserverMsg:
		cmd := m.applyObserver(msg)
		return m, tea.Batch(cmd, m.Mailbox.Wait())

	case BrowseDoneMsg:
		if msg.Err != nil {
			m.logger.Warn("initial load failed", "error", msg.Err)
		}
		return m, nil

	case DetailsLoadedMsg:
		current := m.Inspector.Movie()
		if current == nil || current.ID != msg.ID {
			return m, nil
		}
		m.Inspector.SetLoading(false)
		if msg.Err != nil {
			m.logger.Warn("failed to load movie details", "id", msg.ID, "error", msg.Err)
			return m, m.setStatus("Could not load movie details", true)
		}
		m.details[msg.ID] = msg.Movie
		m.updateInspector()
		return m, nil

	case LinkOpenedMsg:
		if msg.Err != nil {
			return m, m.setStatus(fmt.Sprintf("Could not open %s: %v", msg.What, msg.Err), true)
		}
		return m, m.setStatus("Opened "+msg.What, false)

	case SignedOutMsg:
		m.SignedOut = true
		m.SignOutErr = msg.Err
		return m, tea.Quit

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)
	}

	return m, nil
}

// applyObserver folds service notifications into the model
func (m *Model) applyObserver(msg ObserverMsg) tea.Cmd {
	var cmd tea.Cmd

	if msg.State != nil && msg.State.Version > m.Browse.Version {
		m.applyBrowse(*msg.State)
	}

	if len(msg.Sync) > 0 {
		for _, o := range msg.Sync {
			m.Sync = m.Sync.Apply(o)
		}
		m.refreshCollections()
	}

	if len(msg.PersistErrs) > 0 {
		err := msg.PersistErrs[len(msg.PersistErrs)-1]
		cmd = m.setStatus("Could not save: "+err.Error(), true)
	}
	return cmd
}

// applyBrowse shows a browse snapshot in the browse tab
func (m *Model) applyBrowse(s service.BrowseState) {
	m.Browse = s

	col := m.Tabs.Column(TabBrowse)
	col.SetTitle(s.Title())
	col.SetLoading(s.Loading)
	col.SetEmptyMessage(emptyMessage(s))
	m.Tabs.SetMovies(TabBrowse, s.Movies)

	var tags []string
	if s.Selection.Genre != nil {
		tags = append(tags, s.Selection.Genre.Name)
	}
	if s.Selection.Language != nil {
		tags = append(tags, s.Selection.Language.EnglishName)
	}
	m.SearchBar.SetTags(tags)
	if !m.SearchBar.Focused() && m.SearchBar.Value() != s.Selection.Query {
		m.SearchBar.SetValue(s.Selection.Query)
	}

	m.Inspector.SetLanguages(s.Languages)
	m.updateInspector()
}

// emptyMessage explains an empty browse list and names the recovery key
func emptyMessage(s service.BrowseState) string {
	switch {
	case s.Loading:
		return "Loading..."
	case s.Problem.Kind == service.ProblemNoResults:
		return s.Problem.Message + "\n\nPress c to clear filters."
	case s.Problem.Kind == service.ProblemUnavailable:
		return s.Problem.Message + "\n\nPress r to retry."
	default:
		return service.MessageNothingLoaded
	}
}

// refreshCollections reloads the favorites and recent tabs from memory
func (m *Model) refreshCollections() {
	data := m.Session.UserData
	m.Tabs.SetMovies(TabFavorites, data.Favorites())
	m.Tabs.SetMovies(TabRecent, data.Recent())
	m.updateInspector()
}

// updateInspector shows the selection of the focused column
func (m *Model) updateInspector() {
	movie := m.Tabs.Current().SelectedMovie()
	if movie == nil {
		m.Inspector.SetMovie(nil)
		return
	}
	if full, ok := m.details[movie.ID]; ok && full != nil {
		movie = full
	}
	m.Inspector.SetMovie(movie)
	m.Inspector.SetFavorite(m.Session.UserData.IsFavorite(movie.ID))
}

func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusTimeout)
}
