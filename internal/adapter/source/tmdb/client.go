package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/avast/retry-go/v4"
	"github.com/mmcdole/moviehub/internal/domain"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the TMDB v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"

	defaultTimeout    = 15 * time.Second
	defaultRetryDelay = 300 * time.Millisecond
	userAgent         = "MovieHub/1.0"
	maxErrorBody      = 512
)

// Options tunes the client; the zero value is usable.
type Options struct {
	HTTPClient        *http.Client
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 disables throttling
	Attempts          uint    // Tries per request for 429/5xx/transport errors; 0 means 2
	RetryDelay        time.Duration
}

// Client implements domain.CatalogRepository for TMDB
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	attempts   uint
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewClient creates a new TMDB API client
func NewClient(baseURL, apiKey string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	attempts := opts.Attempts
	if attempts == 0 {
		attempts = 2
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: httpClient,
		limiter:    limiter,
		attempts:   attempts,
		retryDelay: delay,
		logger:     logger,
	}
}

// isReadAccessToken reports whether key is a v4 read access token (a JWT)
// rather than a v3 api key.
func isReadAccessToken(key string) bool {
	return strings.HasPrefix(key, "eyJ") && strings.Count(key, ".") == 2
}

// doRequest performs an authenticated GET, retrying transient failures
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	bearer := isReadAccessToken(c.apiKey)
	if !bearer && c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	body, err := retry.DoWithData(
		func() ([]byte, error) {
			if c.limiter != nil {
				if err := c.limiter.Wait(ctx); err != nil {
					return nil, &domain.CatalogError{Err: err}
				}
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
			if err != nil {
				return nil, &domain.CatalogError{Err: fmt.Errorf("failed to create request: %w", err)}
			}
			req.Header.Set("Accept", "application/json")
			req.Header.Set("User-Agent", userAgent)
			if bearer {
				req.Header.Set("Authorization", "Bearer "+c.apiKey)
			}

			c.logger.Debug("tmdb request", "path", path)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				c.logger.Error("tmdb request failed", "path", path, "error", err)
				return nil, &domain.CatalogError{Err: err}
			}
			defer resp.Body.Close()

			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, &domain.CatalogError{Err: fmt.Errorf("failed to read response: %w", err)}
			}

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				c.logger.Error("tmdb request error", "path", path, "status", resp.StatusCode, "message", statusMessage(data))
				return nil, &domain.CatalogError{StatusCode: resp.StatusCode, Body: truncate(string(data), maxErrorBody)}
			}
			return data, nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("retrying tmdb request", "path", path, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		var ce *domain.CatalogError
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, &domain.CatalogError{Err: err}
	}
	return body, nil
}

// isTransient reports whether a failed request may succeed if repeated
func isTransient(err error) bool {
	var ce *domain.CatalogError
	if !errors.As(err, &ce) {
		return false
	}
	if ce.StatusCode == 0 {
		return !errors.Is(ce.Err, context.Canceled) && !errors.Is(ce.Err, context.DeadlineExceeded)
	}
	return ce.StatusCode == http.StatusTooManyRequests || ce.StatusCode >= 500
}

func statusMessage(body []byte) string {
	var e errorBody
	if json.Unmarshal(body, &e) == nil && e.StatusMessage != "" {
		return e.StatusMessage
	}
	return truncate(string(body), 120)
}

// truncate cuts s to at most n bytes on a rune boundary
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (c *Client) fetchMovies(ctx context.Context, path string, query url.Values) ([]domain.Movie, error) {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var page pagedMovies
	if err := json.Unmarshal(body, &page); err != nil {
		c.logger.Error("JSON parse error", "path", path, "error", err, "bodyLen", len(body))
		return nil, &domain.CatalogError{Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return MapMovies(page.Results), nil
}

// Search returns the first page of movies matching query
func (c *Client) Search(ctx context.Context, query string) ([]domain.Movie, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("include_adult", "false")
	q.Set("page", "1")
	return c.fetchMovies(ctx, "/search/movie", q)
}

// Popular returns the first page of popular movies
func (c *Client) Popular(ctx context.Context) ([]domain.Movie, error) {
	return c.fetchMovies(ctx, "/movie/popular", nil)
}

// NowPlaying returns the first page of movies in theaters
func (c *Client) NowPlaying(ctx context.Context) ([]domain.Movie, error) {
	return c.fetchMovies(ctx, "/movie/now_playing", nil)
}

// ByGenre discovers popular movies tagged with genreID
func (c *Client) ByGenre(ctx context.Context, genreID int) ([]domain.Movie, error) {
	q := url.Values{}
	q.Set("with_genres", strconv.Itoa(genreID))
	q.Set("sort_by", "popularity.desc")
	return c.fetchMovies(ctx, "/discover/movie", q)
}

// ByLanguage discovers popular movies whose original language is code
func (c *Client) ByLanguage(ctx context.Context, code string) ([]domain.Movie, error) {
	q := url.Values{}
	q.Set("with_original_language", code)
	q.Set("sort_by", "popularity.desc")
	return c.fetchMovies(ctx, "/discover/movie", q)
}

// Genres returns the movie genre list
func (c *Client) Genres(ctx context.Context) ([]domain.Genre, error) {
	body, err := c.doRequest(ctx, "/genre/movie/list", nil)
	if err != nil {
		return nil, err
	}
	var resp genreList
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.CatalogError{Err: fmt.Errorf("failed to parse genres: %w", err)}
	}
	return MapGenres(resp.Genres), nil
}

// Languages returns every language the catalog knows
func (c *Client) Languages(ctx context.Context) ([]domain.Language, error) {
	body, err := c.doRequest(ctx, "/configuration/languages", nil)
	if err != nil {
		return nil, err
	}
	var resp []languageDTO
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.CatalogError{Err: fmt.Errorf("failed to parse languages: %w", err)}
	}
	return MapLanguages(resp), nil
}

// MovieDetails returns the full record for a movie
func (c *Client) MovieDetails(ctx context.Context, id int64) (*domain.Movie, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var dto movieDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, &domain.CatalogError{Err: fmt.Errorf("failed to parse movie: %w", err)}
	}
	m := mapMovie(dto)
	return &m, nil
}

var _ domain.CatalogRepository = (*Client)(nil)
