package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/moviehub/internal/domain"
	"golang.org/x/oauth2"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "MovieHub/1.0"
)

// Client talks to the session backend. It implements domain.SessionProvider
// and domain.RemoteStore; the session cookie lives in its cookie jar.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a backend client rooted at baseURL
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := url.Parse(baseURL); err != nil || baseURL == "" {
		return nil, fmt.Errorf("invalid remote URL %q", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout, Jar: jar},
		logger:     logger,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// CreateSession exchanges an identity token for a session cookie.
// The token travels as a bearer credential on this request only.
func (c *Client) CreateSession(ctx context.Context, identityToken string) (domain.Identity, error) {
	if strings.TrimSpace(identityToken) == "" {
		return domain.Identity{}, domain.ErrNotAuthenticated
	}

	authed := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: identityToken, TokenType: "Bearer"}),
			Base:   c.httpClient.Transport,
		},
		Jar:     c.httpClient.Jar,
		Timeout: c.httpClient.Timeout,
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/session", nil)
	if err != nil {
		return domain.Identity{}, err
	}

	resp, err := authed.Do(req)
	if err != nil {
		c.logger.Error("session request failed", "error", err)
		return domain.Identity{}, &domain.RemoteError{Op: "create session", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.Identity{}, fmt.Errorf("%w: status %d", domain.ErrSessionRejected, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return domain.Identity{}, &domain.RemoteError{Op: "create session", StatusCode: resp.StatusCode}
	}

	var identity domain.Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return domain.Identity{}, &domain.RemoteError{Op: "create session", Err: fmt.Errorf("%w: %v", domain.ErrMalformedData, err)}
	}
	if identity.UserID == "" {
		return domain.Identity{}, &domain.RemoteError{Op: "create session", Err: fmt.Errorf("%w: missing user id", domain.ErrMalformedData)}
	}

	c.logger.Info("session created", "user", identity.UserID)
	return identity, nil
}

// DestroySession ends the backend session. A session that is already gone
// counts as destroyed.
func (c *Client) DestroySession(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/session", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.RemoteError{Op: "destroy session", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.RemoteError{Op: "destroy session", StatusCode: resp.StatusCode}
	}
	return nil
}

func userDataPath(col domain.Collection) string {
	return "/api/userdata/" + url.PathEscape(string(col))
}

// Get implements domain.RemoteStore.
func (c *Client) Get(ctx context.Context, col domain.Collection) (json.RawMessage, bool, error) {
	req, err := c.newRequest(ctx, http.MethodGet, userDataPath(col), nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, &domain.RemoteError{Op: "get " + string(col), Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, false, &domain.RemoteError{Op: "get " + string(col), StatusCode: resp.StatusCode, Err: domain.ErrNotAuthenticated}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, false, &domain.RemoteError{Op: "get " + string(col), StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, &domain.RemoteError{Op: "get " + string(col), Err: err}
	}
	if !json.Valid(data) {
		return nil, false, &domain.RemoteError{Op: "get " + string(col), Err: domain.ErrMalformedData}
	}
	return json.RawMessage(data), true, nil
}

// Put implements domain.RemoteStore.
func (c *Client) Put(ctx context.Context, col domain.Collection, data json.RawMessage) error {
	req, err := c.newRequest(ctx, http.MethodPut, userDataPath(col), data)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.RemoteError{Op: "put " + string(col), Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return &domain.RemoteError{Op: "put " + string(col), StatusCode: resp.StatusCode, Err: domain.ErrNotAuthenticated}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.RemoteError{Op: "put " + string(col), StatusCode: resp.StatusCode}
	}
	return nil
}

var (
	_ domain.SessionProvider = (*Client)(nil)
	_ domain.RemoteStore     = (*Client)(nil)
)
