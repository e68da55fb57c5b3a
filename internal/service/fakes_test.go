package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/mmcdole/moviehub/internal/store"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// fakeCatalog is a scriptable domain.CatalogRepository that counts calls
type fakeCatalog struct {
	mu    sync.Mutex
	calls map[string]int

	searchFn   func(ctx context.Context, query string) ([]domain.Movie, error)
	popular    []domain.Movie
	nowPlaying []domain.Movie
	byGenre    map[int][]domain.Movie
	byLanguage map[string][]domain.Movie
	genres     []domain.Genre
	languages  []domain.Language
	details    map[int64]*domain.Movie
	err        error            // Returned by every call when set
	failing    map[string]error // Per-call failures, keyed like calls
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		calls:      make(map[string]int),
		byGenre:    make(map[int][]domain.Movie),
		byLanguage: make(map[string][]domain.Movie),
		details:    make(map[int64]*domain.Movie),
		failing:    make(map[string]error),
	}
}

func (f *fakeCatalog) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	if err, ok := f.failing[name]; ok {
		return err
	}
	return f.err
}

func (f *fakeCatalog) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeCatalog) Search(ctx context.Context, query string) ([]domain.Movie, error) {
	if err := f.record("search"); err != nil {
		return nil, err
	}
	if f.searchFn != nil {
		return f.searchFn(ctx, query)
	}
	return nil, nil
}

func (f *fakeCatalog) Popular(ctx context.Context) ([]domain.Movie, error) {
	if err := f.record("popular"); err != nil {
		return nil, err
	}
	return f.popular, nil
}

func (f *fakeCatalog) NowPlaying(ctx context.Context) ([]domain.Movie, error) {
	if err := f.record("nowPlaying"); err != nil {
		return nil, err
	}
	return f.nowPlaying, nil
}

func (f *fakeCatalog) ByGenre(ctx context.Context, genreID int) ([]domain.Movie, error) {
	if err := f.record("genre"); err != nil {
		return nil, err
	}
	return f.byGenre[genreID], nil
}

func (f *fakeCatalog) ByLanguage(ctx context.Context, code string) ([]domain.Movie, error) {
	if err := f.record("language"); err != nil {
		return nil, err
	}
	return f.byLanguage[code], nil
}

func (f *fakeCatalog) Genres(ctx context.Context) ([]domain.Genre, error) {
	if err := f.record("genres"); err != nil {
		return nil, err
	}
	return f.genres, nil
}

func (f *fakeCatalog) Languages(ctx context.Context) ([]domain.Language, error) {
	if err := f.record("languages"); err != nil {
		return nil, err
	}
	return f.languages, nil
}

func (f *fakeCatalog) MovieDetails(ctx context.Context, id int64) (*domain.Movie, error) {
	if err := f.record("details"); err != nil {
		return nil, err
	}
	return f.details[id], nil
}

// fakeRemote is an in-memory RemoteBackend
type fakeRemote struct {
	mu   sync.Mutex
	docs map[domain.Collection]json.RawMessage
	puts int

	identity   domain.Identity
	createErr  error
	destroyErr error
	getErr     error
	putErr     error
	destroyed  bool
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		docs:     make(map[domain.Collection]json.RawMessage),
		identity: domain.Identity{UserID: "uid-1", DisplayName: "Ada"},
	}
}

func (f *fakeRemote) CreateSession(ctx context.Context, token string) (domain.Identity, error) {
	if f.createErr != nil {
		return domain.Identity{}, f.createErr
	}
	return f.identity, nil
}

func (f *fakeRemote) DestroySession(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = true
	return f.destroyErr
}

func (f *fakeRemote) Get(ctx context.Context, c domain.Collection) (json.RawMessage, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	data, ok := f.docs[c]
	return data, ok, nil
}

func (f *fakeRemote) Put(ctx context.Context, c domain.Collection, data json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	f.docs[c] = append(json.RawMessage{}, data...)
	return nil
}

func (f *fakeRemote) set(t *testing.T, c domain.Collection, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f.mu.Lock()
	f.docs[c] = data
	f.mu.Unlock()
}

// failingStore denies every write
type failingStore struct{}

func (failingStore) Load(string, domain.Collection, any) bool { return false }
func (failingStore) Save(string, domain.Collection, any) error {
	return domain.ErrStorageDenied
}
func (failingStore) Clear(string) error { return domain.ErrStorageDenied }
func (failingStore) Close() error       { return nil }

// syncRecorder collects reconciliation outcomes
type syncRecorder struct {
	mu       sync.Mutex
	outcomes []domain.SyncOutcome
}

func (r *syncRecorder) OnSync(o domain.SyncOutcome) {
	r.mu.Lock()
	r.outcomes = append(r.outcomes, o)
	r.mu.Unlock()
}

func (r *syncRecorder) all() []domain.SyncOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.SyncOutcome{}, r.outcomes...)
}

func newMemoryStore(t *testing.T) *store.UserStore {
	t.Helper()
	s, err := store.NewUserStore("", store.Options{})
	require.NoError(t, err)
	return s
}

func movie(id int64, title string, genres ...int) domain.Movie {
	return domain.Movie{ID: id, Title: title, GenreIDs: genres}
}
