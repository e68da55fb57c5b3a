package server

import (
	"context"
	"errors"
	"strings"

	"github.com/mmcdole/moviehub/internal/domain"
)

// ErrInvalidToken is returned by verifiers for tokens they do not accept
var ErrInvalidToken = errors.New("invalid identity token")

// TokenVerifier validates an identity-provider token and returns its identity.
// Production deployments plug in their provider here.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

// StaticVerifier accepts a fixed set of tokens
type StaticVerifier map[string]domain.Identity

func (v StaticVerifier) Verify(_ context.Context, token string) (domain.Identity, error) {
	id, ok := v[token]
	if !ok {
		return domain.Identity{}, ErrInvalidToken
	}
	return id, nil
}

// ParseStaticTokens builds a StaticVerifier from "token=user[:display name]" pairs
func ParseStaticTokens(pairs []string) (StaticVerifier, error) {
	v := make(StaticVerifier, len(pairs))
	for _, p := range pairs {
		token, rest, ok := strings.Cut(p, "=")
		token = strings.TrimSpace(token)
		if !ok || token == "" || strings.TrimSpace(rest) == "" {
			return nil, errors.New("token must look like token=user[:display name]: " + p)
		}
		user, display, _ := strings.Cut(rest, ":")
		v[token] = domain.Identity{UserID: strings.TrimSpace(user), DisplayName: strings.TrimSpace(display)}
	}
	return v, nil
}
