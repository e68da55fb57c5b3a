package domain

import (
	"context"
	"encoding/json"
)

// CatalogRepository provides access to the public movie catalog.
// Each method issues one logical request against the catalog.
type CatalogRepository interface {
	// Search returns the first page of movies matching free text
	Search(ctx context.Context, query string) ([]Movie, error)

	// Popular returns the first page of popular movies
	Popular(ctx context.Context) ([]Movie, error)

	// NowPlaying returns the first page of movies currently in theaters
	NowPlaying(ctx context.Context) ([]Movie, error)

	// ByGenre returns popular movies tagged with a genre
	ByGenre(ctx context.Context, genreID int) ([]Movie, error)

	// ByLanguage returns popular movies with the given original language
	ByLanguage(ctx context.Context, code string) ([]Movie, error)

	// Genres returns the catalog's movie genres
	Genres(ctx context.Context) ([]Genre, error)

	// Languages returns the catalog's known languages
	Languages(ctx context.Context) ([]Language, error)

	// MovieDetails returns the full record for one movie
	MovieDetails(ctx context.Context, id int64) (*Movie, error)
}

// RemoteStore is the per-user blob store behind the session backend.
// Values are opaque JSON documents keyed by collection.
type RemoteStore interface {
	// Get returns the stored document. found is false when nothing was stored yet.
	Get(ctx context.Context, c Collection) (data json.RawMessage, found bool, err error)

	// Put replaces the stored document
	Put(ctx context.Context, c Collection, data json.RawMessage) error
}

// SessionProvider exchanges an identity token for a backend session
type SessionProvider interface {
	CreateSession(ctx context.Context, identityToken string) (Identity, error)
	DestroySession(ctx context.Context) error
}
