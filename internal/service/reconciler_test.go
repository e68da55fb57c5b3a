package service

import (
	"context"
	"testing"

	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcilerRemoteFailureFallsBackToLocal(t *testing.T) {
	local := newMemoryStore(t)
	require.NoError(t, local.SaveFavorites("uid-1", []domain.Movie{movie(1, "Heat")}))
	remote := newFakeRemote()
	remote.getErr = &domain.RemoteError{Op: "get favorites", StatusCode: 503}
	obs := &syncRecorder{}

	rec := NewReconciler("uid-1", local, remote, nil)
	rec.SetObserver(obs)

	got := rec.Favorites(context.Background())

	assert.Equal(t, []int64{1}, ids(got))
	outcomes := obs.all()
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].FromRemote)
	assert.ErrorIs(t, outcomes[0].Err, domain.ErrRemoteSync)
}

func TestReconcilerRemoteNotFoundKeepsLocal(t *testing.T) {
	local := newMemoryStore(t)
	require.NoError(t, local.SaveRecent("uid-1", []domain.Movie{movie(2, "Ronin")}))

	rec := NewReconciler("uid-1", local, newFakeRemote(), nil)

	assert.Equal(t, []int64{2}, ids(rec.Recent(context.Background())))
	assert.Equal(t, []int64{2}, ids(local.Recent("uid-1")))
}

func TestReconcilerRemoteSuccessOverwritesLocal(t *testing.T) {
	local := newMemoryStore(t)
	require.NoError(t, local.SaveFavorites("uid-1", []domain.Movie{movie(1, "Heat")}))
	remote := newFakeRemote()
	remote.set(t, domain.CollectionFavorites, []domain.Movie{movie(9, "Alien")})

	rec := NewReconciler("uid-1", local, remote, nil)

	assert.Equal(t, []int64{9}, ids(rec.Favorites(context.Background())))
	assert.Equal(t, []int64{9}, ids(local.Favorites("uid-1")))
}

func TestReconcilerMalformedRemoteFallsBackToLocal(t *testing.T) {
	local := newMemoryStore(t)
	require.NoError(t, local.SaveSearchHistory("uid-1", []domain.SearchEntry{{Query: "alien", Timestamp: 1}}))
	remote := newFakeRemote()
	remote.docs[domain.CollectionSearchHistory] = []byte(`{"not":"a list"}`)
	obs := &syncRecorder{}

	rec := NewReconciler("uid-1", local, remote, nil)
	rec.SetObserver(obs)

	got := rec.SearchHistory(context.Background())

	require.Len(t, got, 1)
	assert.Equal(t, "alien", got[0].Query)
	require.Len(t, obs.all(), 1)
	assert.ErrorIs(t, obs.all()[0].Err, domain.ErrMalformedData)
}

func TestReconcilerEmptyEverywhereReadsEmpty(t *testing.T) {
	rec := NewReconciler("uid-1", newMemoryStore(t), newFakeRemote(), nil)

	got := rec.Favorites(context.Background())

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReconcilerSaveSucceedsWhenRemoteFails(t *testing.T) {
	local := newMemoryStore(t)
	remote := newFakeRemote()
	remote.putErr = &domain.RemoteError{Op: "put favorites", StatusCode: 500}

	obs := &syncRecorder{}

	rec := NewReconciler("uid-1", local, remote, nil)
	rec.SetObserver(obs)
	err := rec.SaveFavorites(context.Background(), []domain.Movie{movie(1, "Heat")})

	require.NoError(t, err)
	assert.Equal(t, 1, remote.puts)
	assert.Equal(t, []int64{1}, ids(local.Favorites("uid-1")))

	outcomes := obs.all()
	require.Len(t, outcomes, 1)
	assert.Equal(t, domain.CollectionFavorites, outcomes[0].Collection)
	assert.ErrorIs(t, outcomes[0].Err, domain.ErrRemoteSync)
}

func TestReconcilerSaveMirrorsRemotely(t *testing.T) {
	remote := newFakeRemote()
	rec := NewReconciler("uid-1", newMemoryStore(t), remote, nil)

	obs := &syncRecorder{}
	rec.SetObserver(obs)

	require.NoError(t, rec.SaveRecent(context.Background(), nil))

	assert.JSONEq(t, `[]`, string(remote.docs[domain.CollectionRecent]))
	outcomes := obs.all()
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].FromRemote)
	assert.NoError(t, outcomes[0].Err)
}

func TestReconcilerSaveReportsLocalFailure(t *testing.T) {
	remote := newFakeRemote()
	rec := NewReconciler("uid-1", failingStore{}, remote, nil)

	err := rec.SaveFavorites(context.Background(), []domain.Movie{movie(1, "Heat")})

	assert.ErrorIs(t, err, domain.ErrStorageDenied)
	assert.Equal(t, 1, remote.puts, "remote is still attempted")
}

func TestReconcilerWithoutRemoteIsLocalOnly(t *testing.T) {
	local := newMemoryStore(t)
	rec := NewReconciler("uid-1", local, nil, nil)

	require.NoError(t, rec.SaveFavorites(context.Background(), []domain.Movie{movie(3, "Thief")}))

	assert.Equal(t, []int64{3}, ids(rec.Favorites(context.Background())))
}

func TestReconcilerClearLocalLeavesRemote(t *testing.T) {
	local := newMemoryStore(t)
	remote := newFakeRemote()
	rec := NewReconciler("uid-1", local, remote, nil)
	require.NoError(t, rec.SaveFavorites(context.Background(), []domain.Movie{movie(1, "Heat")}))

	require.NoError(t, rec.ClearLocal())

	assert.Empty(t, local.Favorites("uid-1"))
	assert.Contains(t, remote.docs, domain.CollectionFavorites)
}
