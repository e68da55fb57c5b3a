package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/moviehub/internal/domain"
)

// RemoteBackend is the per-user backend: a session plus blob storage
type RemoteBackend interface {
	domain.SessionProvider
	domain.RemoteStore
}

// Session is the user data of one identity
type Session struct {
	Identity domain.Identity
	Sync     *Reconciler
	UserData *UserDataService
	Online   bool // Backed by a remote session
}

// SessionService builds identity-scoped user data and tears it down on
// sign-out
type SessionService struct {
	local  domain.LocalStore
	remote RemoteBackend
	opts   UserDataOptions
	logger *slog.Logger
}

// NewSessionService creates a new SessionService. remote may be nil, in
// which case only offline sessions can be started.
func NewSessionService(local domain.LocalStore, remote RemoteBackend, opts UserDataOptions, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		local:  local,
		remote: remote,
		opts:   opts,
		logger: logger,
	}
}

// RemoteEnabled reports whether Start can be used
func (s *SessionService) RemoteEnabled() bool {
	return s.remote != nil
}

// Start exchanges a token for a remote session and loads that identity's
// collections
func (s *SessionService) Start(ctx context.Context, token string) (*Session, error) {
	if s.remote == nil {
		return nil, fmt.Errorf("no remote configured: %w", domain.ErrNotAuthenticated)
	}
	id, err := s.remote.CreateSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	s.logger.Info("session started", "user", id.UserID)
	return s.open(ctx, id, s.remote), nil
}

// StartOffline loads an identity's collections from the local store only
func (s *SessionService) StartOffline(ctx context.Context, id domain.Identity) *Session {
	return s.open(ctx, id, nil)
}

func (s *SessionService) open(ctx context.Context, id domain.Identity, remote domain.RemoteStore) *Session {
	rec := NewReconciler(id.UserID, s.local, remote, s.logger)
	data := NewUserDataService(rec, s.opts, s.logger)
	data.Load(ctx)
	return &Session{
		Identity: id,
		Sync:     rec,
		UserData: data,
		Online:   remote != nil,
	}
}

// SignOut drains pending writes, destroys the remote session, clears the
// identity's local data and drops the in-memory collections. Each step runs
// even when an earlier one fails; the failures are returned joined.
func (s *SessionService) SignOut(ctx context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}
	var errs []error

	sess.UserData.Close()

	if sess.Online && s.remote != nil {
		if err := s.remote.DestroySession(ctx); err != nil {
			s.logger.Warn("failed to destroy remote session", "error", err)
			errs = append(errs, fmt.Errorf("failed to destroy remote session: %w", err))
		}
	}

	if err := sess.Sync.ClearLocal(); err != nil {
		errs = append(errs, err)
	}

	sess.UserData.Reset()
	s.logger.Info("signed out", "user", sess.Identity.UserID)
	return errors.Join(errs...)
}
