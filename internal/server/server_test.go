package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	verifier := StaticVerifier{
		"good-token":  {UserID: "uid-1", DisplayName: "Ada"},
		"other-token": {UserID: "uid-2"},
	}
	srv := New(db, verifier, Options{SessionTTL: time.Hour}, nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func newJarClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func signIn(t *testing.T, c *http.Client, baseURL, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/session", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.Do(req)
	require.NoError(t, err)
	return resp
}

func do(t *testing.T, c *http.Client, method, url string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	return resp
}

func TestCreateSessionSetsCookieAndReturnsIdentity(t *testing.T) {
	_, ts := newTestServer(t)
	c := newJarClient(t)

	resp := signIn(t, c, ts.URL, "good-token")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var identity domain.Identity
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&identity))
	assert.Equal(t, "uid-1", identity.UserID)
	assert.Equal(t, "Ada", identity.DisplayName)

	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
}

func TestCreateSessionRejectsUnknownToken(t *testing.T) {
	_, ts := newTestServer(t)

	resp := signIn(t, newJarClient(t), ts.URL, "forged")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUserDataRequiresSession(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, newJarClient(t), http.MethodGet, ts.URL+"/api/userdata/favorites", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUserDataRoundTripIsPerUser(t *testing.T) {
	_, ts := newTestServer(t)
	alice := newJarClient(t)
	bob := newJarClient(t)
	signIn(t, alice, ts.URL, "good-token").Body.Close()
	signIn(t, bob, ts.URL, "other-token").Body.Close()

	resp := do(t, alice, http.MethodGet, ts.URL+"/api/userdata/favorites", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	doc := []byte(`[{"id":603,"title":"The Matrix"}]`)
	resp = do(t, alice, http.MethodPut, ts.URL+"/api/userdata/favorites", doc)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, alice, http.MethodGet, ts.URL+"/api/userdata/favorites", nil)
	var got []domain.Movie
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	resp.Body.Close()
	assert.Equal(t, []domain.Movie{{ID: 603, Title: "The Matrix"}}, got)

	resp = do(t, bob, http.MethodGet, ts.URL+"/api/userdata/favorites", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPutRejectsBadCollectionAndBody(t *testing.T) {
	_, ts := newTestServer(t)
	c := newJarClient(t)
	signIn(t, c, ts.URL, "good-token").Body.Close()

	resp := do(t, c, http.MethodPut, ts.URL+"/api/userdata/passwords", []byte(`[]`))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, c, http.MethodPut, ts.URL+"/api/userdata/recent", []byte(`{"id":1}`))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDestroySessionRevokesAccess(t *testing.T) {
	_, ts := newTestServer(t)
	c := newJarClient(t)
	signIn(t, c, ts.URL, "good-token").Body.Close()

	resp := do(t, c, http.MethodDelete, ts.URL+"/api/session", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, c, http.MethodGet, ts.URL+"/api/userdata/recent", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestExpiredSessionsArePruned(t *testing.T) {
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)

	require.NoError(t, db.CreateSession(ctx, Session{ID: "old", UserID: "u", ExpiresAt: now.Add(-time.Minute)}, now.Add(-time.Hour)))
	require.NoError(t, db.CreateSession(ctx, Session{ID: "new", UserID: "u", ExpiresAt: now.Add(time.Hour)}, now))

	_, err = db.LookupSession(ctx, "old", now)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := db.PruneSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sess, err := db.LookupSession(ctx, "new", now)
	require.NoError(t, err)
	assert.Equal(t, "u", sess.UserID)
}

func TestParseStaticTokens(t *testing.T) {
	v, err := ParseStaticTokens([]string{"abc=uid-1:Ada Lovelace", "def=uid-2"})
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{UserID: "uid-1", DisplayName: "Ada Lovelace"}, v["abc"])
	assert.Equal(t, domain.Identity{UserID: "uid-2"}, v["def"])

	_, err = ParseStaticTokens([]string{"missing-user"})
	assert.Error(t, err)
}
