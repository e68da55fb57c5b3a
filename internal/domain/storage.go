package domain

// SyncOutcome reports how a collection read or write went against the
// remote store.
type SyncOutcome struct {
	Collection Collection
	FromRemote bool  // Remote answered: read refreshed the cache or write was stored
	Err        error // Remote failure; the local copy was used or kept
}

// SyncObserver receives reconciliation outcomes.
type SyncObserver interface {
	OnSync(outcome SyncOutcome)
}

// NoOpObserver discards sync outcomes (for testing/batch operations).
type NoOpObserver struct{}

func (NoOpObserver) OnSync(SyncOutcome) {}
