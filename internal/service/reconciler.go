package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/moviehub/internal/domain"
)

// Reconciler keeps the local store and the remote per-user store in step for
// one identity. Reads prefer the remote copy and fall back to the local one;
// writes always land locally and are mirrored remotely on a best-effort basis.
type Reconciler struct {
	identity string
	local    domain.LocalStore
	remote   domain.RemoteStore // nil runs local-only
	observer domain.SyncObserver
	logger   *slog.Logger

	mu    sync.Mutex                        // Guards observer and locks
	locks map[domain.Collection]*sync.Mutex // Serializes get/set per collection
}

// NewReconciler creates a reconciler scoped to identity. remote may be nil.
func NewReconciler(identity string, local domain.LocalStore, remote domain.RemoteStore, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		identity: identity,
		local:    local,
		remote:   remote,
		observer: domain.NoOpObserver{},
		logger:   logger.With("identity", identity),
		locks:    make(map[domain.Collection]*sync.Mutex),
	}
}

func (r *Reconciler) lock(c domain.Collection) func() {
	r.mu.Lock()
	l, ok := r.locks[c]
	if !ok {
		l = &sync.Mutex{}
		r.locks[c] = l
	}
	r.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (r *Reconciler) notify(o domain.SyncOutcome) {
	r.mu.Lock()
	obs := r.observer
	r.mu.Unlock()
	obs.OnSync(o)
}

// SetObserver registers a receiver for reconciliation outcomes
func (r *Reconciler) SetObserver(o domain.SyncObserver) {
	if o == nil {
		o = domain.NoOpObserver{}
	}
	r.mu.Lock()
	r.observer = o
	r.mu.Unlock()
}

// Identity returns the identity this reconciler serves
func (r *Reconciler) Identity() string {
	return r.identity
}

// Favorites returns the favorites collection
func (r *Reconciler) Favorites(ctx context.Context) []domain.Movie {
	return reconcileGet[domain.Movie](ctx, r, domain.CollectionFavorites)
}

func (r *Reconciler) SaveFavorites(ctx context.Context, movies []domain.Movie) error {
	return reconcileSet(ctx, r, domain.CollectionFavorites, movies)
}

// Recent returns the recently viewed collection
func (r *Reconciler) Recent(ctx context.Context) []domain.Movie {
	return reconcileGet[domain.Movie](ctx, r, domain.CollectionRecent)
}

func (r *Reconciler) SaveRecent(ctx context.Context, movies []domain.Movie) error {
	return reconcileSet(ctx, r, domain.CollectionRecent, movies)
}

// SearchHistory returns the search history collection
func (r *Reconciler) SearchHistory(ctx context.Context) []domain.SearchEntry {
	return reconcileGet[domain.SearchEntry](ctx, r, domain.CollectionSearchHistory)
}

func (r *Reconciler) SaveSearchHistory(ctx context.Context, entries []domain.SearchEntry) error {
	return reconcileSet(ctx, r, domain.CollectionSearchHistory, entries)
}

// ClearLocal removes this identity's collections from the local store.
// The remote copy is left alone.
func (r *Reconciler) ClearLocal() error {
	for _, c := range domain.Collections() {
		defer r.lock(c)()
	}
	if err := r.local.Clear(r.identity); err != nil {
		return fmt.Errorf("failed to clear local data: %w", err)
	}
	return nil
}

// reconcileGet reads a collection. It never fails: any remote problem
// yields the local copy, and a missing or corrupt local copy yields empty.
func reconcileGet[T any](ctx context.Context, r *Reconciler, c domain.Collection) []T {
	defer r.lock(c)()

	local := []T{}
	var stored []T
	if r.local.Load(r.identity, c, &stored) && stored != nil {
		local = stored
	}

	if r.remote == nil {
		return local
	}

	data, found, err := r.remote.Get(ctx, c)
	if err == nil && !found {
		// Nothing stored remotely yet; the local copy stands
		r.notify(domain.SyncOutcome{Collection: c})
		return local
	}
	var remote []T
	if err == nil {
		if uerr := json.Unmarshal(data, &remote); uerr != nil {
			err = &domain.RemoteError{Op: "decode " + string(c), Err: fmt.Errorf("%w: %v", domain.ErrMalformedData, uerr)}
		}
	}
	if err != nil {
		r.logger.Warn("remote read failed, using local copy", "collection", c, "error", err)
		r.notify(domain.SyncOutcome{Collection: c, Err: err})
		return local
	}
	if remote == nil {
		remote = []T{}
	}

	if err := r.local.Save(r.identity, c, remote); err != nil {
		r.logger.Error("failed to refresh local copy", "collection", c, "error", err)
	}
	r.notify(domain.SyncOutcome{Collection: c, FromRemote: true})
	return remote
}

// reconcileSet writes a collection locally, then mirrors it remotely.
// Only a local failure is returned; remote failures are logged and sent
// to the observer.
func reconcileSet[T any](ctx context.Context, r *Reconciler, c domain.Collection, items []T) error {
	defer r.lock(c)()

	if items == nil {
		items = []T{}
	}

	var localErr error
	if err := r.local.Save(r.identity, c, items); err != nil {
		r.logger.Error("failed to save collection", "collection", c, "error", err)
		localErr = err
	}

	if r.remote != nil {
		data, err := json.Marshal(items)
		if err == nil {
			err = r.remote.Put(ctx, c, data)
		}
		if err != nil {
			if !errors.Is(err, domain.ErrRemoteSync) {
				err = &domain.RemoteError{Op: "put " + string(c), Err: err}
			}
			r.logger.Warn("remote write failed", "collection", c, "error", err)
			r.notify(domain.SyncOutcome{Collection: c, Err: err})
		} else {
			r.notify(domain.SyncOutcome{Collection: c, FromRemote: true})
		}
	}

	return localErr
}
