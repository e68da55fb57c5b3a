package components

import (
	"errors"
	"testing"

	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSyncStateApply(t *testing.T) {
	errDown := errors.New("backend down")

	t.Run("local only ignores outcomes", func(t *testing.T) {
		s := SyncState{Status: SyncLocalOnly}
		s = s.Apply(domain.SyncOutcome{Collection: domain.CollectionFavorites, Err: errDown})
		assert.Equal(t, SyncLocalOnly, s.Status)
		assert.NoError(t, s.Error)
	})

	t.Run("failure then recovery", func(t *testing.T) {
		s := SyncState{Status: SyncIdle}

		s = s.Apply(domain.SyncOutcome{Collection: domain.CollectionRecent, Err: errDown})
		assert.Equal(t, SyncError, s.Status)
		assert.ErrorIs(t, s.Error, errDown)
		assert.Equal(t, domain.CollectionRecent, s.Last)

		s = s.Apply(domain.SyncOutcome{Collection: domain.CollectionFavorites, FromRemote: true})
		assert.Equal(t, SyncSynced, s.Status)
		assert.NoError(t, s.Error)
		assert.Equal(t, domain.CollectionFavorites, s.Last)
	})

	t.Run("local result keeps status", func(t *testing.T) {
		s := SyncState{Status: SyncIdle}
		s = s.Apply(domain.SyncOutcome{Collection: domain.CollectionSearchHistory})
		assert.Equal(t, SyncIdle, s.Status)
	})
}

func TestSyncStateView(t *testing.T) {
	assert.Contains(t, SyncState{Status: SyncSynced}.View(), "synced")
	assert.Contains(t, SyncState{Status: SyncError}.View(), "offline copy")
	assert.Contains(t, SyncState{Status: SyncLocalOnly}.View(), "local")
}
