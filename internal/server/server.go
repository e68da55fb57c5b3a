package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/mmcdole/moviehub/internal/domain"
)

const (
	// SessionCookie names the HttpOnly cookie carrying the session id
	SessionCookie = "moviehub_session"

	defaultSessionTTL = 14 * 24 * time.Hour
	maxDocumentBytes  = 1 << 20
)

type ctxKey struct{}

// Server is the pass-through backend: it turns identity tokens into session
// cookies and stores one opaque JSON document per user and collection.
type Server struct {
	db         *DB
	verifier   TokenVerifier
	logger     *slog.Logger
	sessionTTL time.Duration
	secure     bool
	now        func() time.Time
}

// Options tunes a Server
type Options struct {
	SessionTTL   time.Duration
	SecureCookie bool // Set the Secure attribute (HTTPS deployments)
}

func New(db *DB, verifier TokenVerifier, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	return &Server{
		db:         db,
		verifier:   verifier,
		logger:     logger,
		sessionTTL: opts.SessionTTL,
		secure:     opts.SecureCookie,
		now:        time.Now,
	}
}

// Router returns the HTTP routes
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/session", s.createSession).Methods(http.MethodPost)
	api.HandleFunc("/session", s.destroySession).Methods(http.MethodDelete)

	data := api.PathPrefix("/userdata").Subrouter()
	data.Use(s.requireSession)
	data.HandleFunc("/{collection}", s.getUserData).Methods(http.MethodGet)
	data.HandleFunc("/{collection}", s.putUserData).Methods(http.MethodPut)

	return r
}

// PruneLoop deletes expired sessions every interval until ctx is done
func (s *Server) PruneLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.db.PruneSessions(ctx, s.now())
			if err != nil {
				s.logger.Error("failed to prune sessions", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info("pruned expired sessions", "count", n)
			}
		}
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "identity token is required", http.StatusUnauthorized)
		return
	}

	identity, err := s.verifier.Verify(r.Context(), token)
	if err != nil {
		s.logger.Warn("rejected identity token", "error", err)
		http.Error(w, "invalid identity token", http.StatusUnauthorized)
		return
	}

	now := s.now()
	sess := Session{
		ID:          uuid.NewString(),
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
		Email:       identity.Email,
		ExpiresAt:   now.Add(s.sessionTTL),
	}
	if err := s.db.CreateSession(r.Context(), sess, now); err != nil {
		s.logger.Error("failed to create session", "error", err)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Info("session created", "user", identity.UserID)
	writeJSON(w, http.StatusOK, identity)
}

func (s *Server) destroySession(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		if err := s.db.DeleteSession(r.Context(), c.Value); err != nil {
			s.logger.Error("failed to delete session", "error", err)
			http.Error(w, "failed to delete session", http.StatusInternalServerError)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil || c.Value == "" {
			http.Error(w, "not signed in", http.StatusUnauthorized)
			return
		}
		sess, err := s.db.LookupSession(r.Context(), c.Value, s.now())
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "session expired", http.StatusUnauthorized)
			return
		}
		if err != nil {
			s.logger.Error("session lookup failed", "error", err)
			http.Error(w, "session lookup failed", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *Session {
	sess, _ := r.Context().Value(ctxKey{}).(*Session)
	return sess
}

func collectionParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	col := domain.Collection(mux.Vars(r)["collection"])
	if !col.Valid() {
		http.Error(w, "unknown collection", http.StatusBadRequest)
		return "", false
	}
	return string(col), true
}

func (s *Server) getUserData(w http.ResponseWriter, r *http.Request) {
	col, ok := collectionParam(w, r)
	if !ok {
		return
	}
	sess := sessionFrom(r)

	data, err := s.db.UserData(r.Context(), sess.UserID, col)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "no data", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("failed to read user data", "error", err, "user", sess.UserID, "collection", col)
		http.Error(w, "failed to read user data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) putUserData(w http.ResponseWriter, r *http.Request) {
	col, ok := collectionParam(w, r)
	if !ok {
		return
	}
	sess := sessionFrom(r)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		http.Error(w, "document too large", http.StatusRequestEntityTooLarge)
		return
	}
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		http.Error(w, "document must be a JSON array", http.StatusBadRequest)
		return
	}

	if err := s.db.PutUserData(r.Context(), sess.UserID, col, body, s.now()); err != nil {
		s.logger.Error("failed to write user data", "error", err, "user", sess.UserID, "collection", col)
		http.Error(w, "failed to write user data", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
