package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/moviehub/internal/domain"
)

// referenceTTL bounds how long cached reference data is reused
const referenceTTL = 6 * time.Hour

// cachedResult stores cached data with timestamp
type cachedResult struct {
	Items     interface{}
	FetchedAt time.Time
}

// CatalogService is the query gateway in front of the catalog repository.
// It normalizes empty inputs and errors and caches reference lists.
type CatalogService struct {
	repo   domain.CatalogRepository
	logger *slog.Logger

	cache   map[string]cachedResult
	cacheMu sync.RWMutex
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo domain.CatalogRepository, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		repo:   repo,
		logger: logger,
		cache:  make(map[string]cachedResult),
	}
}

// asCatalogError makes every failure an ErrCatalogUnavailable
func asCatalogError(err error) error {
	if err == nil || errors.Is(err, domain.ErrCatalogUnavailable) {
		return err
	}
	return &domain.CatalogError{Err: err}
}

func nonNil(movies []domain.Movie) []domain.Movie {
	if movies == nil {
		return []domain.Movie{}
	}
	return movies
}

// Search returns movies matching text. Blank text returns an empty result
// without touching the network.
func (s *CatalogService) Search(ctx context.Context, text string) ([]domain.Movie, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []domain.Movie{}, nil
	}
	movies, err := s.repo.Search(ctx, text)
	if err != nil {
		s.logger.Error("search failed", "error", err, "query", text)
		return nil, fmt.Errorf("failed to search %q: %w", text, asCatalogError(err))
	}
	return nonNil(movies), nil
}

// Popular returns popular movies
func (s *CatalogService) Popular(ctx context.Context) ([]domain.Movie, error) {
	movies, err := s.repo.Popular(ctx)
	if err != nil {
		s.logger.Error("failed to fetch popular movies", "error", err)
		return nil, fmt.Errorf("failed to fetch popular movies: %w", asCatalogError(err))
	}
	return nonNil(movies), nil
}

// NowPlaying returns movies in theaters
func (s *CatalogService) NowPlaying(ctx context.Context) ([]domain.Movie, error) {
	movies, err := s.repo.NowPlaying(ctx)
	if err != nil {
		s.logger.Error("failed to fetch now playing", "error", err)
		return nil, fmt.Errorf("failed to fetch now playing: %w", asCatalogError(err))
	}
	return nonNil(movies), nil
}

// ByGenre returns popular movies in a genre
func (s *CatalogService) ByGenre(ctx context.Context, genreID int) ([]domain.Movie, error) {
	movies, err := s.repo.ByGenre(ctx, genreID)
	if err != nil {
		s.logger.Error("failed to fetch genre", "error", err, "genreID", genreID)
		return nil, fmt.Errorf("failed to fetch genre %d: %w", genreID, asCatalogError(err))
	}
	return nonNil(movies), nil
}

// ByLanguage returns popular movies in an original language. A blank code
// returns an empty result without touching the network.
func (s *CatalogService) ByLanguage(ctx context.Context, code string) ([]domain.Movie, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return []domain.Movie{}, nil
	}
	movies, err := s.repo.ByLanguage(ctx, code)
	if err != nil {
		s.logger.Error("failed to fetch language", "error", err, "language", code)
		return nil, fmt.Errorf("failed to fetch language %s: %w", code, asCatalogError(err))
	}
	return nonNil(movies), nil
}

// Genres returns the genre list, cached after the first success
func (s *CatalogService) Genres(ctx context.Context) ([]domain.Genre, error) {
	if cached, ok := s.getFromCache(KeyGenres); ok {
		return cached.([]domain.Genre), nil
	}
	genres, err := s.repo.Genres(ctx)
	if err != nil {
		s.logger.Error("failed to fetch genres", "error", err)
		return nil, fmt.Errorf("failed to fetch genres: %w", asCatalogError(err))
	}
	if genres == nil {
		genres = []domain.Genre{}
	}
	s.putInCache(KeyGenres, genres)
	return genres, nil
}

// Languages returns the language list, cached after the first success
func (s *CatalogService) Languages(ctx context.Context) ([]domain.Language, error) {
	if cached, ok := s.getFromCache(KeyLanguages); ok {
		return cached.([]domain.Language), nil
	}
	langs, err := s.repo.Languages(ctx)
	if err != nil {
		s.logger.Error("failed to fetch languages", "error", err)
		return nil, fmt.Errorf("failed to fetch languages: %w", asCatalogError(err))
	}
	if langs == nil {
		langs = []domain.Language{}
	}
	s.putInCache(KeyLanguages, langs)
	return langs, nil
}

// MovieDetails returns the full record for a movie
func (s *CatalogService) MovieDetails(ctx context.Context, id int64) (*domain.Movie, error) {
	if cached, ok := s.getFromCache(movieKey(id)); ok {
		return cached.(*domain.Movie), nil
	}
	movie, err := s.repo.MovieDetails(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch movie details", "error", err, "movieID", id)
		return nil, fmt.Errorf("failed to fetch movie %d: %w", id, asCatalogError(err))
	}
	if movie != nil {
		s.putInCache(movieKey(id), movie)
	}
	return movie, nil
}

// InvalidateCache drops every cached list and detail record
func (s *CatalogService) InvalidateCache() {
	s.cacheMu.Lock()
	s.cache = make(map[string]cachedResult)
	s.cacheMu.Unlock()
	s.logger.Debug("catalog cache cleared")
}

// GenreByName finds a genre case-insensitively
func (s *CatalogService) GenreByName(ctx context.Context, name string) (*domain.Genre, error) {
	genres, err := s.Genres(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range genres {
		if strings.EqualFold(g.Name, strings.TrimSpace(name)) {
			return &g, nil
		}
	}
	return nil, fmt.Errorf("unknown genre %q", name)
}

// LanguageByCodeOrName finds a language by ISO code or English name
func (s *CatalogService) LanguageByCodeOrName(ctx context.Context, value string) (*domain.Language, error) {
	langs, err := s.Languages(ctx)
	if err != nil {
		return nil, err
	}
	value = strings.TrimSpace(value)
	for _, l := range langs {
		if strings.EqualFold(l.Code, value) || strings.EqualFold(l.EnglishName, value) {
			return &l, nil
		}
	}
	return nil, fmt.Errorf("unknown language %q", value)
}

func (s *CatalogService) getFromCache(key string) (interface{}, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	cached, ok := s.cache[key]
	if !ok || time.Since(cached.FetchedAt) > referenceTTL {
		return nil, false
	}
	return cached.Items, true
}

func (s *CatalogService) putInCache(key string, items interface{}) {
	s.cacheMu.Lock()
	s.cache[key] = cachedResult{Items: items, FetchedAt: time.Now()}
	s.cacheMu.Unlock()
}
