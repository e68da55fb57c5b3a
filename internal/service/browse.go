package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/sourcegraph/conc/pool"
)

const (
	DefaultDebounce       = 600 * time.Millisecond
	DefaultRequestTimeout = 20 * time.Second
	DefaultFeaturedCount  = 5
)

// User-facing messages
const (
	MessageSearchFailed  = "Search failed. Please try again."
	MessageLoadFailed    = "Failed to load movies. Please check your connection."
	MessageNothingLoaded = "No movies loaded. Check API key or network connection."
)

// ProblemKind tells the view which recovery action to offer
type ProblemKind int

const (
	ProblemNone        ProblemKind = iota
	ProblemNoResults               // Offer "clear filters"
	ProblemUnavailable             // Offer "retry"
)

// Problem is the user-facing explanation for an empty result set
type Problem struct {
	Kind    ProblemKind
	Message string
}

// NoResultsMessage describes an empty result for sel, e.g.
// `No Korean Horror movies found for "ghost". Try different search terms or filters.`
func NoResultsMessage(sel domain.FilterSelection) string {
	var b strings.Builder
	b.WriteString("No ")
	if sel.Language != nil {
		b.WriteString(sel.Language.EnglishName + " ")
	}
	if sel.Genre != nil {
		b.WriteString(sel.Genre.Name + " ")
	}
	b.WriteString("movies found")
	if sel.HasQuery() {
		b.WriteString(` for "` + sel.TrimmedQuery() + `"`)
	}
	b.WriteString(". Try different search terms or filters.")
	return b.String()
}

// BrowseState is an immutable snapshot of the browse screen.
// Slices are shared between snapshots and must not be modified.
type BrowseState struct {
	Selection domain.FilterSelection
	Movies    []domain.Movie
	Featured  []domain.Movie
	Genres    []domain.Genre
	Languages []domain.Language
	Loading   bool
	Problem   Problem

	// Generation identifies the newest input or dispatch
	Generation uint64

	// Version increases with every published snapshot. Observers may receive
	// snapshots out of order and should drop ones older than they have shown.
	Version uint64
}

// Title returns the heading for the result section
func (s BrowseState) Title() string {
	return s.Selection.Title()
}

// BrowseObserver receives state snapshots
type BrowseObserver interface {
	OnBrowseState(state BrowseState)
}

// BrowseObserverFunc adapts a function to BrowseObserver
type BrowseObserverFunc func(BrowseState)

func (f BrowseObserverFunc) OnBrowseState(s BrowseState) { f(s) }

// SearchRecorder receives queries whose search succeeded
type SearchRecorder interface {
	AddSearch(query string)
}

// BrowseOptions tunes a BrowseService; zero values use the defaults
type BrowseOptions struct {
	Debounce       time.Duration
	RequestTimeout time.Duration
	FeaturedCount  int
}

// BrowseService turns filter input into catalog queries. Input changes are
// debounced; every change and every dispatch advances a generation counter
// and a result is applied only when no newer generation exists.
type BrowseService struct {
	catalog        *CatalogService
	logger         *slog.Logger
	debounce       time.Duration
	requestTimeout time.Duration
	featuredCount  int

	ctx    context.Context // Cancelled by Close
	cancel context.CancelFunc

	mu         sync.Mutex
	state      BrowseState
	generation uint64
	version    uint64
	timer      *time.Timer
	closed     bool
	observer   BrowseObserver
	recorder   SearchRecorder
}

// NewBrowseService creates a browse service with an empty result set
func NewBrowseService(catalog *CatalogService, opts BrowseOptions, logger *slog.Logger) *BrowseService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.FeaturedCount <= 0 {
		opts.FeaturedCount = DefaultFeaturedCount
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BrowseService{
		catalog:        catalog,
		logger:         logger,
		debounce:       opts.Debounce,
		requestTimeout: opts.RequestTimeout,
		featuredCount:  opts.FeaturedCount,
		ctx:            ctx,
		cancel:         cancel,
		state: BrowseState{
			Movies:    []domain.Movie{},
			Featured:  []domain.Movie{},
			Genres:    []domain.Genre{},
			Languages: []domain.Language{},
		},
	}
}

// SetObserver registers the receiver of state snapshots
func (b *BrowseService) SetObserver(o BrowseObserver) {
	b.mu.Lock()
	b.observer = o
	b.mu.Unlock()
}

// SetRecorder registers where successful search queries are recorded
func (b *BrowseService) SetRecorder(r SearchRecorder) {
	b.mu.Lock()
	b.recorder = r
	b.mu.Unlock()
}

// State returns the current snapshot
func (b *BrowseService) State() BrowseState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// LoadInitial fetches popular movies, featured (now playing) movies and the
// genre and language lists concurrently. Only a popular-movies failure is
// reported as a problem; the other lists keep whatever arrived.
func (b *BrowseService) LoadInitial(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	gen := b.advanceLocked()
	b.state.Loading = true
	snap, obs := b.snapshotLocked()
	b.mu.Unlock()
	b.emit(obs, snap)

	ctx, cancel := b.requestContext(ctx)
	defer cancel()

	var (
		popular, nowPlaying []domain.Movie
		genres              []domain.Genre
		langs               []domain.Language
		popularErr          error
	)
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		popular, popularErr = b.catalog.Popular(ctx)
		return popularErr
	})
	p.Go(func(ctx context.Context) (err error) {
		nowPlaying, err = b.catalog.NowPlaying(ctx)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		genres, err = b.catalog.Genres(ctx)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		langs, err = b.catalog.Languages(ctx)
		return err
	})
	err := p.Wait()
	if err != nil {
		b.logger.Warn("initial load incomplete", "error", err)
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return err
	}
	switch {
	case len(genres) > 0:
		b.state.Genres = genres
	case len(b.state.Genres) == 0:
		b.state.Genres = domain.DefaultGenres()
	}
	switch {
	case len(langs) > 0:
		b.state.Languages = langs
	case len(b.state.Languages) == 0:
		b.state.Languages = domain.DefaultLanguages()
	}
	if nowPlaying != nil {
		b.state.Featured = nowPlaying[:min(len(nowPlaying), b.featuredCount)]
	}
	if gen == b.generation {
		b.state.Loading = false
		switch {
		case popularErr != nil:
			b.state.Movies = []domain.Movie{}
			b.state.Problem = Problem{Kind: ProblemUnavailable, Message: MessageLoadFailed}
		case len(popular) == 0:
			b.state.Movies = popular
			b.state.Problem = Problem{Kind: ProblemNoResults, Message: MessageNothingLoaded}
		default:
			b.state.Movies = popular
			b.state.Problem = Problem{}
		}
	}
	snap, obs = b.snapshotLocked()
	b.mu.Unlock()
	b.emit(obs, snap)
	return err
}

// SetQuery updates the free-text query
func (b *BrowseService) SetQuery(q string) {
	b.update(func(sel *domain.FilterSelection) { sel.Query = q })
}

// SelectGenre sets the genre filter and clears any language filter
func (b *BrowseService) SelectGenre(g domain.Genre) {
	b.update(func(sel *domain.FilterSelection) {
		sel.Genre = &g
		sel.Language = nil
	})
}

// SelectLanguage sets the language filter and clears any genre filter
func (b *BrowseService) SelectLanguage(l domain.Language) {
	b.update(func(sel *domain.FilterSelection) {
		sel.Language = &l
		sel.Genre = nil
	})
}

func (b *BrowseService) ClearQuery() {
	b.update(func(sel *domain.FilterSelection) { sel.Query = "" })
}

func (b *BrowseService) ClearGenre() {
	b.update(func(sel *domain.FilterSelection) { sel.Genre = nil })
}

func (b *BrowseService) ClearLanguage() {
	b.update(func(sel *domain.FilterSelection) { sel.Language = nil })
}

// SetSelection replaces every criterion at once. Unlike SelectGenre and
// SelectLanguage it accepts a genre and a language together.
func (b *BrowseService) SetSelection(sel domain.FilterSelection) {
	b.update(func(cur *domain.FilterSelection) { *cur = sel })
}

// Submit runs the current selection now instead of waiting for the debounce
func (b *BrowseService) Submit(ctx context.Context) {
	b.dispatch(ctx, false)
}

// Retry re-runs the current selection, even when nothing changed
func (b *BrowseService) Retry(ctx context.Context) {
	b.dispatch(ctx, true)
}

// ClearFilters resets every criterion and loads popular movies
func (b *BrowseService) ClearFilters(ctx context.Context) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.stopTimerLocked()
	b.state.Selection = domain.FilterSelection{}
	gen := b.advanceLocked()
	b.state.Loading = true
	sel := b.state.Selection
	snap, obs := b.snapshotLocked()
	b.mu.Unlock()
	b.emit(obs, snap)

	b.run(ctx, gen, sel)
}

// Close stops pending work; results arriving afterwards are dropped
func (b *BrowseService) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.stopTimerLocked()
	b.mu.Unlock()
	b.cancel()
}

func (b *BrowseService) update(fn func(sel *domain.FilterSelection)) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	prev := b.state.Selection
	fn(&b.state.Selection)
	if sameSelection(prev, b.state.Selection) {
		b.mu.Unlock()
		return
	}
	scheduled := b.advanceLocked()
	b.stopTimerLocked()
	b.timer = time.AfterFunc(b.debounce, func() { b.fire(scheduled) })
	snap, obs := b.snapshotLocked()
	b.mu.Unlock()
	b.emit(obs, snap)
}

// fire runs when the debounce timer expires; newer input supersedes it
func (b *BrowseService) fire(scheduled uint64) {
	b.mu.Lock()
	if b.closed || b.generation != scheduled {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	b.mu.Unlock()
	b.dispatch(b.ctx, false)
}

func (b *BrowseService) dispatch(ctx context.Context, force bool) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.stopTimerLocked()
	gen := b.advanceLocked()
	sel := b.state.Selection

	// With no criteria, keep what is shown rather than refetching popular
	fetch := force || !sel.IsEmpty() || len(b.state.Movies) == 0
	b.state.Loading = fetch
	snap, obs := b.snapshotLocked()
	b.mu.Unlock()
	b.emit(obs, snap)

	if fetch {
		b.run(ctx, gen, sel)
	}
}

// run executes the plan for sel and applies the outcome if gen is current
func (b *BrowseService) run(ctx context.Context, gen uint64, sel domain.FilterSelection) {
	plan := BuildPlan(sel)
	ctx, cancel := b.requestContext(ctx)
	movies, err := plan.Execute(ctx, b.catalog)
	cancel()

	b.mu.Lock()
	if b.closed || gen != b.generation {
		b.mu.Unlock()
		b.logger.Debug("discarding stale results", "source", plan.Source, "generation", gen)
		return
	}
	b.state.Loading = false
	switch {
	case err != nil:
		b.state.Movies = []domain.Movie{}
		b.state.Problem = Problem{Kind: ProblemUnavailable, Message: MessageSearchFailed}
	case len(movies) == 0:
		b.state.Movies = movies
		b.state.Problem = Problem{Kind: ProblemNoResults, Message: NoResultsMessage(sel)}
	default:
		b.state.Movies = movies
		b.state.Problem = Problem{}
	}
	recorder := b.recorder
	snap, obs := b.snapshotLocked()
	b.mu.Unlock()
	b.emit(obs, snap)

	if err == nil && plan.Source == SourceSearch && recorder != nil {
		recorder.AddSearch(plan.Query)
	}
}

func (b *BrowseService) advanceLocked() uint64 {
	b.generation++
	b.state.Generation = b.generation
	return b.generation
}

func (b *BrowseService) stopTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *BrowseService) snapshotLocked() (BrowseState, BrowseObserver) {
	b.version++
	b.state.Version = b.version
	return b.state, b.observer
}

func (b *BrowseService) emit(obs BrowseObserver, snap BrowseState) {
	if obs != nil {
		obs.OnBrowseState(snap)
	}
}

// requestContext bounds a request by the timeout and by Close
func (b *BrowseService) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, b.requestTimeout)
	stop := context.AfterFunc(b.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func sameSelection(a, b domain.FilterSelection) bool {
	if a.Query != b.Query {
		return false
	}
	if (a.Genre == nil) != (b.Genre == nil) || (a.Genre != nil && a.Genre.ID != b.Genre.ID) {
		return false
	}
	if (a.Language == nil) != (b.Language == nil) || (a.Language != nil && a.Language.Code != b.Language.Code) {
		return false
	}
	return true
}
