package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/sourcegraph/conc"
)

const (
	persistTimeout = 15 * time.Second

	// closeGrace bounds how long Close waits on remote writes before
	// cancelling them; local writes always complete first
	closeGrace = 2 * time.Second
)

// pendingWrite is the newest unsaved snapshot of one collection
type pendingWrite struct {
	movies  []domain.Movie
	entries []domain.SearchEntry
}

// UserDataService owns a session's favorites, recently viewed list and
// search history. Mutations apply to memory immediately and never wait on
// storage: each collection keeps one pending snapshot that a single worker
// hands to the reconciler, newest wins.
type UserDataService struct {
	sync   *Reconciler
	logger *slog.Logger
	now    func() time.Time

	recentLimit  int
	historyLimit int

	mu        sync.RWMutex
	favorites []domain.Movie
	recent    []domain.Movie
	history   []domain.SearchEntry
	closed    bool

	// Persistence bookkeeping, guarded by mu
	pending  map[domain.Collection]pendingWrite
	queued   uint64
	written  uint64
	progress chan struct{} // closed after every persisted batch

	errMu   sync.Mutex
	onError func(domain.Collection, error)

	wake   chan struct{}
	stop   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	worker sync.WaitGroup
}

// UserDataOptions bounds the collections; zero values use the defaults
type UserDataOptions struct {
	RecentLimit  int
	HistoryLimit int
}

// NewUserDataService creates the service and starts its persistence worker
func NewUserDataService(rec *Reconciler, opts UserDataOptions, logger *slog.Logger) *UserDataService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	s := &UserDataService{
		sync:         rec,
		logger:       logger,
		now:          time.Now,
		recentLimit:  opts.RecentLimit,
		historyLimit: opts.HistoryLimit,
		favorites:    []domain.Movie{},
		recent:       []domain.Movie{},
		history:      []domain.SearchEntry{},
		pending:      make(map[domain.Collection]pendingWrite),
		progress:     make(chan struct{}),
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.worker.Add(1)
	go s.persistLoop()
	return s
}

// OnPersistError registers a callback for failed local writes
func (s *UserDataService) OnPersistError(fn func(domain.Collection, error)) {
	s.errMu.Lock()
	s.onError = fn
	s.errMu.Unlock()
}

// Load fetches all three collections concurrently and replaces memory state
func (s *UserDataService) Load(ctx context.Context) {
	var (
		favorites, recent []domain.Movie
		history           []domain.SearchEntry
		wg                conc.WaitGroup
	)
	wg.Go(func() { favorites = s.sync.Favorites(ctx) })
	wg.Go(func() { recent = s.sync.Recent(ctx) })
	wg.Go(func() { history = s.sync.SearchHistory(ctx) })
	wg.Wait()

	s.mu.Lock()
	s.favorites = dedupeMovies(favorites)
	s.recent = dedupeMovies(recent)
	if len(s.recent) > s.recentLimit {
		s.recent = s.recent[:s.recentLimit]
	}
	s.history = history
	if len(s.history) > s.historyLimit {
		s.history = s.history[:s.historyLimit]
	}
	s.mu.Unlock()

	s.logger.Info("user data loaded", "favorites", len(favorites), "recent", len(recent), "searches", len(history))
}

// Favorites returns a copy of the favorites in insertion order
func (s *UserDataService) Favorites() []domain.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Movie{}, s.favorites...)
}

// Recent returns a copy of the recently viewed list, most recent first
func (s *UserDataService) Recent() []domain.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Movie{}, s.recent...)
}

// SearchHistory returns a copy of the search history, most recent first
func (s *UserDataService) SearchHistory() []domain.SearchEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.SearchEntry{}, s.history...)
}

// IsFavorite reports whether the movie is a favorite
func (s *UserDataService) IsFavorite(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ContainsMovie(s.favorites, id)
}

// ToggleFavorite adds or removes m and reports whether it is now a favorite
func (s *UserDataService) ToggleFavorite(m domain.Movie) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var added bool
	s.favorites, added = ToggleMovie(s.favorites, m)
	s.markLocked(domain.CollectionFavorites, pendingWrite{movies: append([]domain.Movie{}, s.favorites...)})
	return added
}

// RecordView moves m to the front of the recently viewed list
func (s *UserDataService) RecordView(m domain.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = PushRecent(s.recent, m, s.recentLimit)
	s.markLocked(domain.CollectionRecent, pendingWrite{movies: append([]domain.Movie{}, s.recent...)})
}

// ClearRecent empties the recently viewed list
func (s *UserDataService) ClearRecent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = []domain.Movie{}
	s.markLocked(domain.CollectionRecent, pendingWrite{movies: []domain.Movie{}})
}

// AddSearch records a query in the search history
func (s *UserDataService) AddSearch(query string) {
	if strings.TrimSpace(query) == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := domain.SearchEntry{Query: query, Timestamp: s.now().UnixMilli()}
	s.history = PushSearch(s.history, entry, s.historyLimit)
	s.markLocked(domain.CollectionSearchHistory, pendingWrite{entries: append([]domain.SearchEntry{}, s.history...)})
}

// ClearSearchHistory empties the search history
func (s *UserDataService) ClearSearchHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = []domain.SearchEntry{}
	s.markLocked(domain.CollectionSearchHistory, pendingWrite{entries: []domain.SearchEntry{}})
}

// SuggestSearches returns up to limit past queries that fuzzily match term,
// best match first and most recent first among equals. An empty term
// returns the most recent queries.
func (s *UserDataService) SuggestSearches(term string, limit int) []domain.SearchEntry {
	history := s.SearchHistory()
	term = strings.TrimSpace(term)
	if term == "" {
		if limit > 0 && len(history) > limit {
			history = history[:limit]
		}
		return history
	}

	queries := make([]string, len(history))
	for i, h := range history {
		queries[i] = h.Query
	}
	ranks := fuzzy.RankFindFold(term, queries)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]domain.SearchEntry, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, history[r.OriginalIndex])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Reset drops in-memory state without persisting anything (after sign-out)
func (s *UserDataService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites = []domain.Movie{}
	s.recent = []domain.Movie{}
	s.history = []domain.SearchEntry{}
}

// Flush blocks until every change made before the call has been handed to
// the reconciler, or ctx is done
func (s *UserDataService) Flush(ctx context.Context) error {
	s.mu.RLock()
	target := s.queued
	s.mu.RUnlock()

	for {
		s.mu.RLock()
		if s.written >= target {
			s.mu.RUnlock()
			return nil
		}
		progress := s.progress
		s.mu.RUnlock()

		select {
		case <-progress:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close persists the pending snapshots and stops the worker. Remote writes
// still running after closeGrace are cancelled. Later mutations still update
// memory but are no longer persisted.
func (s *UserDataService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	close(s.stop)

	done := make(chan struct{})
	go func() {
		s.worker.Wait()
		close(done)
	}()

	timer := time.NewTimer(closeGrace)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		s.logger.Warn("cancelling slow remote writes on close")
		s.cancel()
		<-done
	}
	s.cancel()
}

func (s *UserDataService) markLocked(c domain.Collection, w pendingWrite) {
	if s.closed {
		s.logger.Debug("dropping write after close", "collection", c)
		return
	}
	s.pending[c] = w
	s.queued++
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *UserDataService) persistLoop() {
	defer s.worker.Done()
	for {
		select {
		case <-s.wake:
			s.persistPending()
		case <-s.stop:
			s.persistPending()
			return
		}
	}
}

// persistPending saves the latest snapshot of every dirty collection
func (s *UserDataService) persistPending() {
	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[domain.Collection]pendingWrite)
	taken := s.queued
	s.mu.Unlock()

	for _, c := range domain.Collections() {
		if w, ok := batch[c]; ok {
			s.save(c, w)
		}
	}

	s.mu.Lock()
	s.written = taken
	close(s.progress)
	s.progress = make(chan struct{})
	s.mu.Unlock()
}

func (s *UserDataService) save(c domain.Collection, w pendingWrite) {
	ctx, cancel := context.WithTimeout(s.ctx, persistTimeout)
	defer cancel()

	var err error
	switch c {
	case domain.CollectionFavorites:
		err = s.sync.SaveFavorites(ctx, w.movies)
	case domain.CollectionRecent:
		err = s.sync.SaveRecent(ctx, w.movies)
	case domain.CollectionSearchHistory:
		err = s.sync.SaveSearchHistory(ctx, w.entries)
	}
	if err == nil {
		return
	}

	s.errMu.Lock()
	fn := s.onError
	s.errMu.Unlock()
	if fn != nil {
		fn(c, err)
	}
}
