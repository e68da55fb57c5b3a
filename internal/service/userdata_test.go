package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserData(t *testing.T, local domain.LocalStore, remote domain.RemoteStore) *UserDataService {
	t.Helper()
	svc := NewUserDataService(NewReconciler("uid-1", local, remote, nil), UserDataOptions{}, nil)
	t.Cleanup(svc.Close)
	return svc
}

func TestUserDataStartsEmpty(t *testing.T) {
	svc := newUserData(t, newMemoryStore(t), newFakeRemote())
	svc.Load(context.Background())

	assert.Empty(t, svc.Favorites())
	assert.NotNil(t, svc.Favorites())
	assert.Empty(t, svc.Recent())
	assert.Empty(t, svc.SearchHistory())
}

func TestToggleFavoriteAppliesImmediatelyAndPersists(t *testing.T) {
	local := newMemoryStore(t)
	svc := newUserData(t, local, nil)
	heat := movie(1, "Heat")

	assert.True(t, svc.ToggleFavorite(heat))
	assert.True(t, svc.IsFavorite(1))

	require.NoError(t, svc.Flush(context.Background()))
	assert.Equal(t, []int64{1}, ids(local.Favorites("uid-1")))

	assert.False(t, svc.ToggleFavorite(heat))
	assert.False(t, svc.IsFavorite(1))
	require.NoError(t, svc.Flush(context.Background()))
	assert.Empty(t, local.Favorites("uid-1"))
}

func TestWritesReachStoreInOrder(t *testing.T) {
	local := newMemoryStore(t)
	svc := newUserData(t, local, nil)

	for i := int64(1); i <= 30; i++ {
		svc.RecordView(movie(i, "m"))
	}
	require.NoError(t, svc.Flush(context.Background()))

	stored := local.Recent("uid-1")
	require.Len(t, stored, DefaultRecentLimit)
	assert.Equal(t, int64(30), stored[0].ID)
	assert.Equal(t, svc.Recent(), stored)
}

func TestLoadDedupesAndBounds(t *testing.T) {
	local := newMemoryStore(t)
	var recent []domain.Movie
	for i := int64(1); i <= 30; i++ {
		recent = append(recent, movie(i, "m"))
	}
	recent = append([]domain.Movie{movie(5, "dup")}, recent...)
	require.NoError(t, local.SaveRecent("uid-1", recent))

	svc := newUserData(t, local, nil)
	svc.Load(context.Background())

	got := svc.Recent()
	assert.Len(t, got, DefaultRecentLimit)
	assert.Equal(t, int64(5), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
}

func TestAddSearchRecordsTimestamp(t *testing.T) {
	svc := newUserData(t, newMemoryStore(t), nil)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	svc.AddSearch(" alien ")
	svc.AddSearch("")

	assert.Equal(t, []domain.SearchEntry{{Query: "alien", Timestamp: 1700000000000}}, svc.SearchHistory())
}

func TestClearCollections(t *testing.T) {
	local := newMemoryStore(t)
	svc := newUserData(t, local, nil)
	svc.RecordView(movie(1, "Heat"))
	svc.AddSearch("heat")

	svc.ClearRecent()
	svc.ClearSearchHistory()
	require.NoError(t, svc.Flush(context.Background()))

	assert.Empty(t, svc.Recent())
	assert.Empty(t, svc.SearchHistory())
	assert.Empty(t, local.Recent("uid-1"))
	assert.Empty(t, local.SearchHistory("uid-1"))
}

func TestSuggestSearches(t *testing.T) {
	svc := newUserData(t, newMemoryStore(t), nil)
	for _, q := range []string{"batman begins", "alien", "the batman"} {
		svc.AddSearch(q)
	}

	got := svc.SuggestSearches("batman", 10)
	require.Len(t, got, 2)
	assert.Equal(t, "the batman", got[0].Query, "closest match first")

	assert.Len(t, svc.SuggestSearches("", 2), 2)
	assert.Empty(t, svc.SuggestSearches("zzz", 10))
}

func TestPersistErrorIsReported(t *testing.T) {
	svc := newUserData(t, failingStore{}, nil)
	var (
		mu     sync.Mutex
		failed []domain.Collection
	)
	svc.OnPersistError(func(c domain.Collection, err error) {
		mu.Lock()
		failed = append(failed, c)
		mu.Unlock()
	})

	svc.ToggleFavorite(movie(1, "Heat"))
	require.NoError(t, svc.Flush(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.Collection{domain.CollectionFavorites}, failed)
	assert.True(t, svc.IsFavorite(1), "memory keeps the change")
}

func TestCloseStopsPersistence(t *testing.T) {
	local := newMemoryStore(t)
	svc := newUserData(t, local, nil)
	svc.ToggleFavorite(movie(1, "Heat"))

	svc.Close()
	svc.ToggleFavorite(movie(2, "Ronin"))

	assert.Equal(t, []int64{1}, ids(local.Favorites("uid-1")))
	assert.Len(t, svc.Favorites(), 2)
	assert.NoError(t, svc.Flush(context.Background()))
}

// hangingRemote never answers until the caller gives up
type hangingRemote struct{}

func (hangingRemote) Get(ctx context.Context, c domain.Collection) (json.RawMessage, bool, error) {
	<-ctx.Done()
	return nil, false, ctx.Err()
}

func (hangingRemote) Put(ctx context.Context, c domain.Collection, data json.RawMessage) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestMutationsDoNotWaitOnStalledRemote(t *testing.T) {
	local := newMemoryStore(t)
	svc := NewUserDataService(NewReconciler("uid-1", local, hangingRemote{}, nil), UserDataOptions{}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := int64(1); i <= 80; i++ {
			svc.ToggleFavorite(movie(i, "m"))
			svc.RecordView(movie(i, "m"))
			svc.AddSearch("query")
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("mutations blocked behind the remote store")
	}
	assert.Len(t, svc.Favorites(), 80)
	assert.True(t, svc.IsFavorite(80))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Flush(ctx), context.DeadlineExceeded)

	closed := make(chan struct{})
	go func() {
		svc.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(closeGrace + 3*time.Second):
		t.Fatal("Close waited on the remote store")
	}

	assert.Len(t, local.Favorites("uid-1"), 80, "newest snapshot saved locally")
	assert.Equal(t, int64(80), local.Recent("uid-1")[0].ID)
}
