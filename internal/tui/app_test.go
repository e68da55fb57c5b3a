package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/moviehub/internal/adapter"
	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/mmcdole/moviehub/internal/service"
	"github.com/mmcdole/moviehub/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	movies []domain.Movie
}

func (f *fakeCatalog) Search(context.Context, string) ([]domain.Movie, error) {
	return f.movies, nil
}

func (f *fakeCatalog) Popular(context.Context) ([]domain.Movie, error) {
	return f.movies, nil
}

func (f *fakeCatalog) NowPlaying(context.Context) ([]domain.Movie, error) {
	return f.movies, nil
}

func (f *fakeCatalog) ByGenre(context.Context, int) ([]domain.Movie, error) {
	return f.movies, nil
}

func (f *fakeCatalog) ByLanguage(context.Context, string) ([]domain.Movie, error) {
	return f.movies, nil
}

func (f *fakeCatalog) Genres(context.Context) ([]domain.Genre, error) {
	return []domain.Genre{{ID: 18, Name: "Drama"}, {ID: 80, Name: "Crime"}}, nil
}

func (f *fakeCatalog) Languages(context.Context) ([]domain.Language, error) {
	return []domain.Language{{Code: "en", EnglishName: "English"}, {Code: "fr", EnglishName: "French"}}, nil
}

func (f *fakeCatalog) MovieDetails(_ context.Context, id int64) (*domain.Movie, error) {
	for _, m := range f.movies {
		if m.ID == id {
			full := m
			full.Runtime = 120
			return &full, nil
		}
	}
	return nil, &domain.CatalogError{StatusCode: 404}
}

var testMovies = []domain.Movie{
	{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15", VoteAverage: 7.9, OriginalLanguage: "en"},
	{ID: 8195, Title: "Ronin", ReleaseDate: "1998-09-25", VoteAverage: 6.9, OriginalLanguage: "en"},
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	st, err := store.NewUserStore("", store.Options{Logger: adapter.NullLogger()})
	require.NoError(t, err)

	catalog := service.NewCatalogService(&fakeCatalog{movies: testMovies}, adapter.NullLogger())
	browse := service.NewBrowseService(catalog, service.BrowseOptions{Debounce: time.Hour}, adapter.NullLogger())
	sessions := service.NewSessionService(st, nil, service.UserDataOptions{}, adapter.NullLogger())
	sess := sessions.StartOffline(context.Background(), domain.Identity{UserID: "tester"})

	t.Cleanup(func() {
		browse.Close()
		sess.UserData.Close()
	})

	m := NewModel(Services{
		Browse:   browse,
		Catalog:  catalog,
		Sessions: sessions,
		Session:  sess,
		Launcher: adapter.NewLauncher("true", nil, adapter.NullLogger()),
		Logger:   adapter.NullLogger(),
	})
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded applies a browse snapshot holding testMovies
func loaded(m Model) Model {
	state := m.BrowseSvc.State()
	state.Movies = testMovies
	state.Version = m.Browse.Version + 1
	m, _ = update(m, ObserverMsg{State: &state})
	return m
}

func TestModelAppliesNewestSnapshotOnly(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(m, ObserverMsg{State: &service.BrowseState{Version: 5, Movies: testMovies}})
	m, _ = update(m, ObserverMsg{State: &service.BrowseState{Version: 3, Loading: true}})

	assert.Equal(t, uint64(5), m.Browse.Version)
	assert.False(t, m.Browse.Loading)
	assert.Equal(t, 2, m.Tabs.Column(TabBrowse).ItemCount())
}

func TestModelToggleFavorite(t *testing.T) {
	m := loaded(newTestModel(t))

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.NotNil(t, cmd)
	assert.True(t, m.Session.UserData.IsFavorite(949))
	assert.Equal(t, "Favorites (1)", m.Tabs.Label(TabFavorites))
	assert.Contains(t, m.StatusMsg, "Added Heat")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.Session.UserData.IsFavorite(949))
	assert.Equal(t, "Favorites (0)", m.Tabs.Label(TabFavorites))
}

func TestModelOpenRecordsViewAndLoadsDetails(t *testing.T) {
	m := loaded(newTestModel(t))

	m, _ = update(m, runeKey("j"))
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	recent := m.Session.UserData.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, "Ronin", recent[0].Title)

	msg := cmd()
	details, ok := msg.(DetailsLoadedMsg)
	require.True(t, ok)
	require.NoError(t, details.Err)

	m, _ = update(m, details)
	require.NotNil(t, m.Inspector.Movie())
	assert.Equal(t, 120, m.Inspector.Movie().Runtime)

	// Cached: opening again issues no request
	_, cmd = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestModelEscapeClearsInnermostFilter(t *testing.T) {
	m := newTestModel(t)
	drama := domain.Genre{ID: 18, Name: "Drama"}
	french := domain.Language{Code: "fr", EnglishName: "French"}

	m.BrowseSvc.SetSelection(domain.FilterSelection{Genre: &drama, Language: &french})
	m = loaded(m)

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	sel := m.BrowseSvc.State().Selection
	assert.Nil(t, sel.Language)
	require.NotNil(t, sel.Genre)

	m = loaded(m)
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.BrowseSvc.State().Selection.IsEmpty())
}

func TestModelClearHistoryNeedsConfirmation(t *testing.T) {
	m := newTestModel(t)
	m.Session.UserData.AddSearch("heat")

	m, _ = update(m, runeKey("X"))
	assert.True(t, m.Confirm.IsVisible())
	assert.Len(t, m.Session.UserData.SearchHistory(), 1)

	m, _ = update(m, runeKey("n"))
	assert.False(t, m.Confirm.IsVisible())
	assert.Len(t, m.Session.UserData.SearchHistory(), 1)

	m, _ = update(m, runeKey("X"))
	m, _ = update(m, runeKey("y"))
	assert.Empty(t, m.Session.UserData.SearchHistory())
}

func TestModelTabsAndSort(t *testing.T) {
	m := loaded(newTestModel(t))

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabFavorites, m.Tabs.Active())
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabBrowse, m.Tabs.Active())

	// Rating sorts best first; choosing it again flips the direction
	m, _ = update(m, runeKey("s"))
	require.True(t, m.SortModal.IsVisible())
	m, _ = update(m, runeKey("j"))
	m, _ = update(m, runeKey("j"))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Heat", m.Tabs.Current().SelectedMovie().Title)

	m, _ = update(m, runeKey("s"))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Ronin", m.Tabs.Current().SelectedMovie().Title)
}

func TestModelPickGenre(t *testing.T) {
	m := newTestModel(t)
	state := m.BrowseSvc.State()
	state.Genres = []domain.Genre{{ID: 18, Name: "Drama"}, {ID: 80, Name: "Crime"}}
	state.Version = 1
	m, _ = update(m, ObserverMsg{State: &state})

	m, _ = update(m, runeKey("f"))
	require.True(t, m.Omnibar.IsVisible())
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.Omnibar.IsVisible())
	sel := m.BrowseSvc.State().Selection
	require.NotNil(t, sel.Genre)
	assert.Equal(t, "Crime", sel.Genre.Name)
}

func TestModelViewRenders(t *testing.T) {
	m := loaded(newTestModel(t))
	view := m.View()
	assert.Contains(t, view, "Heat")
	assert.Contains(t, view, "Browse")
}
