package tmdb

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(body)), Header: make(http.Header)}
}

func newTestClient(t *testing.T, fn roundTripFunc) *Client {
	t.Helper()
	return NewClient("https://tmdb.test/3", "secret", Options{
		HTTPClient: &http.Client{Transport: fn},
		RetryDelay: time.Millisecond,
	}, nil)
}

func TestSearchSendsQueryAndKey(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `{"page":1,"results":[{"id":603,"title":"The Matrix","genre_ids":[28,878],"original_language":"en","poster_path":"/m.jpg"}]}`), nil
	})

	movies, err := client.Search(context.Background(), "matrix")
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "/3/search/movie", captured.URL.Path)
	assert.Equal(t, "matrix", captured.URL.Query().Get("query"))
	assert.Equal(t, "secret", captured.URL.Query().Get("api_key"))
	assert.Empty(t, captured.Header.Get("Authorization"))

	require.Len(t, movies, 1)
	assert.Equal(t, int64(603), movies[0].ID)
	assert.Equal(t, []int{28, 878}, movies[0].GenreIDs)
	assert.Equal(t, "/m.jpg", movies[0].PosterPath)
}

func TestReadAccessTokenUsesBearerHeader(t *testing.T) {
	token := "eyJhbGciOiJIUzI1NiJ9.eyJhdWQiOiJ4In0.sig"
	var captured *http.Request
	client := NewClient("https://tmdb.test/3", token, Options{
		HTTPClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			captured = req
			return jsonResponse(http.StatusOK, `{"results":[]}`), nil
		})},
	}, nil)

	_, err := client.Popular(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, captured.Header.Get("Authorization"))
	assert.Empty(t, captured.URL.Query().Get("api_key"))
}

func TestDiscoverParameters(t *testing.T) {
	var queries []string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		queries = append(queries, req.URL.Query().Get("with_genres")+"|"+req.URL.Query().Get("with_original_language")+"|"+req.URL.Query().Get("sort_by"))
		return jsonResponse(http.StatusOK, `{"results":[]}`), nil
	})

	_, err := client.ByGenre(context.Background(), 14)
	require.NoError(t, err)
	_, err = client.ByLanguage(context.Background(), "ko")
	require.NoError(t, err)

	assert.Equal(t, []string{"14||popularity.desc", "|ko|popularity.desc"}, queries)
}

func TestEmptyResultsAreNotNil(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"page":1,"results":[]}`), nil
	})

	movies, err := client.Search(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}

func TestNonSuccessCarriesStatusAndBody(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"status_code":7,"status_message":"Invalid API key","success":false}`), nil
	})

	_, err := client.Popular(context.Background())
	require.Error(t, err)

	var ce *domain.CatalogError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusUnauthorized, ce.StatusCode)
	assert.Contains(t, ce.Body, "Invalid API key")
	assert.True(t, errors.Is(err, domain.ErrCatalogUnavailable))
}

func TestTransientFailureIsRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if calls.Add(1) == 1 {
			return jsonResponse(http.StatusServiceUnavailable, `busy`), nil
		}
		return jsonResponse(http.StatusOK, `{"results":[{"id":1,"title":"Up"}]}`), nil
	})

	movies, err := client.NowPlaying(context.Background())
	require.NoError(t, err)
	assert.Len(t, movies, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return jsonResponse(http.StatusNotFound, `{"status_message":"not found"}`), nil
	})

	_, err := client.MovieDetails(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTransportFailureIsCatalogUnavailable(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := client.Genres(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCatalogUnavailable))

	var ce *domain.CatalogError
	require.True(t, errors.As(err, &ce))
	assert.Zero(t, ce.StatusCode)
}

func TestGenresLanguagesAndDetails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/3/genre/movie/list", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"genres":[{"id":28,"name":"Action"},{"id":14,"name":"Fantasy"}]}`)
	})
	mux.HandleFunc("/3/configuration/languages", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"iso_639_1":"ko","english_name":"Korean","name":"한국어/조선말"},{"iso_639_1":"en","english_name":"English","name":"English"},{"iso_639_1":"","english_name":"broken"}]`)
	})
	mux.HandleFunc("/3/movie/603", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":603,"title":"The Matrix","runtime":136,"genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL+"/3", "secret", Options{}, nil)
	ctx := context.Background()

	genres, err := client.Genres(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Genre{{ID: 28, Name: "Action"}, {ID: 14, Name: "Fantasy"}}, genres)

	langs, err := client.Languages(ctx)
	require.NoError(t, err)
	require.Len(t, langs, 2)
	assert.Equal(t, "en", langs[0].Code)
	assert.Equal(t, "Korean", langs[1].EnglishName)

	movie, err := client.MovieDetails(ctx, 603)
	require.NoError(t, err)
	assert.Equal(t, 136, movie.Runtime)
	assert.Equal(t, []int{28, 878}, movie.GenreIDs)
	assert.True(t, movie.HasGenre(878))
	assert.Equal(t, "2h 16m", movie.FormattedRuntime())
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	body := strings.Repeat("é", 100) // two bytes each

	got := truncate(body, 121)
	assert.True(t, utf8.ValidString(got))
	assert.Len(t, got, 120)

	assert.Equal(t, "ab", truncate("ab", 120))
	assert.Equal(t, "", truncate("日本", 2))
}
