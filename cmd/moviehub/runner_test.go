package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/moviehub/internal/adapter"
	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

const searchResponse = `{"page":1,"total_pages":1,"results":[
	{"id":603,"title":"The Matrix","release_date":"1999-03-30","vote_average":8.2,"original_language":"en"},
	{"id":604,"title":"The Matrix Reloaded","release_date":"2003-05-15","vote_average":7.0,"original_language":"en"}
]}`

func newTestRunner(t *testing.T, catalogURL string) (*Runner, *bytes.Buffer) {
	t.Helper()
	cfg := adapter.DefaultConfig()
	cfg.Catalog.BaseURL = catalogURL
	cfg.Catalog.APIKey = "test-key"
	cfg.Catalog.Attempts = 1
	cfg.Storage.Dir = t.TempDir()

	out := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{
		Config: cfg,
		Logger: adapter.NullLogger(),
		Output: out,
	})
	return r, out
}

// run executes one command line against a fresh command tree
func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name:     "moviehub",
		Flags:    r.globalFlags(),
		Before:   r.Setup,
		Action:   func(context.Context, *cli.Command) error { return nil },
		Commands: r.register(),
	}
	return app.Run(context.Background(), append([]string{"moviehub"}, args...))
}

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch req.URL.Path {
		case "/search/movie":
			w.Write([]byte(searchResponse))
		case "/genre/movie/list":
			w.Write([]byte(`{"genres":[{"id":18,"name":"Drama"}]}`))
		default:
			http.NotFound(w, req)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewRunner(t *testing.T) {
	t.Run("with nil output uses stdout", func(t *testing.T) {
		r := NewRunner(RunnerOpts{})
		assert.NotNil(t, r.output)
		assert.NotNil(t, r.input)
		assert.Nil(t, r.cfg)
	})

	t.Run("keeps provided dependencies", func(t *testing.T) {
		cfg := adapter.DefaultConfig()
		out := &bytes.Buffer{}
		r := NewRunner(RunnerOpts{Config: cfg, Output: out})
		assert.Same(t, cfg, r.cfg)
		assert.Same(t, out, r.output)
	})
}

func TestSearchCommand(t *testing.T) {
	srv := catalogServer(t)

	t.Run("prints results and records the query", func(t *testing.T) {
		r, out := newTestRunner(t, srv.URL)

		require.NoError(t, run(t, r, "search", "matrix"))
		assert.Contains(t, out.String(), `Search: "matrix"`)
		assert.Contains(t, out.String(), "The Matrix Reloaded")
		assert.Contains(t, out.String(), "1999")

		out.Reset()
		require.NoError(t, run(t, r, "history"))
		assert.Contains(t, out.String(), "matrix")
	})

	t.Run("limit trims the list", func(t *testing.T) {
		r, out := newTestRunner(t, srv.URL)

		require.NoError(t, run(t, r, "search", "--limit", "1", "matrix"))
		assert.Contains(t, out.String(), "The Matrix")
		assert.NotContains(t, out.String(), "Reloaded")
	})

	t.Run("unknown genre is an error", func(t *testing.T) {
		r, _ := newTestRunner(t, srv.URL)

		err := run(t, r, "search", "--genre", "Western")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown genre")
	})

	t.Run("requires an API key", func(t *testing.T) {
		r, _ := newTestRunner(t, srv.URL)
		r.cfg.Catalog.APIKey = ""

		err := run(t, r, "search", "matrix")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no catalog API key")
	})
}

func TestCollectionCommands(t *testing.T) {
	r, out := newTestRunner(t, "http://127.0.0.1:0")

	seed := func() {
		r.cfg.Auth.UserID = adapter.DefaultUserID
		a, err := r.open(context.Background())
		require.NoError(t, err)
		a.session.UserData.RecordView(domain.Movie{ID: 1, Title: "Heat", ReleaseDate: "1995-12-15"})
		a.session.UserData.ToggleFavorite(domain.Movie{ID: 2, Title: "Ronin", ReleaseDate: "1998-09-25"})
		require.NoError(t, a.close())
	}
	seed()

	require.NoError(t, run(t, r, "recent"))
	assert.Contains(t, out.String(), "Heat")

	out.Reset()
	require.NoError(t, run(t, r, "favorites"))
	assert.Contains(t, out.String(), "Ronin")
	assert.NotContains(t, out.String(), "Heat")

	out.Reset()
	require.NoError(t, run(t, r, "recent", "--clear"))
	assert.Contains(t, out.String(), "Recently viewed cleared.")

	out.Reset()
	require.NoError(t, run(t, r, "recent"))
	assert.Contains(t, out.String(), "Nothing viewed yet.")

	out.Reset()
	require.NoError(t, run(t, r, "history"))
	assert.Contains(t, out.String(), "No searches yet.")
}

func TestLoginWithoutRemote(t *testing.T) {
	r, _ := newTestRunner(t, "http://127.0.0.1:0")

	err := run(t, r, "login", "--token", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no session backend configured")
}

func TestOfflineFlagDisablesRemote(t *testing.T) {
	r, _ := newTestRunner(t, "http://127.0.0.1:0")
	r.cfg.Remote.URL = "http://example.invalid"
	r.cfg.Remote.Timeout = time.Second

	require.NoError(t, run(t, r, "--offline", "favorites"))
	assert.False(t, r.cfg.RemoteEnabled())
}

func TestShowConfigMasksSecrets(t *testing.T) {
	r, out := newTestRunner(t, "http://127.0.0.1:0")
	r.cfg.Catalog.APIKey = "0123456789abcdef"

	require.NoError(t, run(t, r, "config"))
	assert.Contains(t, out.String(), "0123…cdef")
	assert.NotContains(t, out.String(), "0123456789abcdef")
	assert.Contains(t, out.String(), "(offline)")
}

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "(not set)"},
		{"short", "********"},
		{"abcdefghijkl", "abcd…ijkl"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mask(tt.in))
	}
}

func TestVersionCommand(t *testing.T) {
	r, out := newTestRunner(t, "http://127.0.0.1:0")

	require.NoError(t, run(t, r, "version"))
	assert.Equal(t, "moviehub dev\n", out.String())
}
