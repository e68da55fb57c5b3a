package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// ImageBaseURL is the TMDB image CDN root
const ImageBaseURL = "https://image.tmdb.org/t/p"

// Movie is a catalog record. JSON tags follow the TMDB wire shape so
// persisted collections stay readable by any client of the same API.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"` // ISO 639-1
	GenreIDs         []int   `json:"genre_ids,omitempty"`         // List/search results
	Genres           []Genre `json:"genres,omitempty"`            // Detail results
	ReleaseDate      string  `json:"release_date,omitempty"`      // YYYY-MM-DD
	Popularity       float64 `json:"popularity,omitempty"`
	VoteAverage      float64 `json:"vote_average,omitempty"`
	VoteCount        int     `json:"vote_count,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	Runtime          int     `json:"runtime,omitempty"` // Minutes, detail only
}

// Year returns the release year or "" when unknown
func (m Movie) Year() string {
	if len(m.ReleaseDate) >= 4 {
		return m.ReleaseDate[:4]
	}
	return ""
}

// HasGenre reports whether the movie is tagged with the genre id.
// List results carry GenreIDs while detail results carry Genres.
func (m Movie) HasGenre(id int) bool {
	for _, g := range m.GenreIDs {
		if g == id {
			return true
		}
	}
	for _, g := range m.Genres {
		if g.ID == id {
			return true
		}
	}
	return false
}

// PosterURL returns the poster image URL at the given size (e.g. "w500")
func (m Movie) PosterURL(size string) string {
	return imageURL(m.PosterPath, size)
}

// BackdropURL returns the backdrop image URL at the given size (e.g. "original")
func (m Movie) BackdropURL(size string) string {
	return imageURL(m.BackdropPath, size)
}

func imageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "original"
	}
	return ImageBaseURL + "/" + size + path
}

// TrailerSearchURL returns a YouTube search for the movie's official trailer
func (m Movie) TrailerSearchURL() string {
	q := url.QueryEscape(m.Title + " official trailer")
	return "https://www.youtube.com/results?search_query=" + q
}

// FormattedRating returns the vote average as "7.4/10", or "" when unrated
func (m Movie) FormattedRating() string {
	if m.VoteAverage <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f/10", m.VoteAverage)
}

// FormattedRuntime returns the runtime as "2h 15m"
func (m Movie) FormattedRuntime() string {
	if m.Runtime <= 0 {
		return ""
	}
	h, mins := m.Runtime/60, m.Runtime%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// GenreNames joins detail genres for display
func (m Movie) GenreNames() string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

// Genre is a catalog genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Language is an ISO 639-1 language known to the catalog
type Language struct {
	Code        string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	NativeName  string `json:"name,omitempty"`
}

// SearchEntry is one search history record
type SearchEntry struct {
	Query     string `json:"query"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// Collection names a per-user persisted collection
type Collection string

const (
	CollectionFavorites     Collection = "favorites"
	CollectionRecent        Collection = "recent"
	CollectionSearchHistory Collection = "searches"
)

// Collections lists every per-user collection
func Collections() []Collection {
	return []Collection{CollectionFavorites, CollectionRecent, CollectionSearchHistory}
}

// Valid reports whether c names a known collection
func (c Collection) Valid() bool {
	switch c {
	case CollectionFavorites, CollectionRecent, CollectionSearchHistory:
		return true
	}
	return false
}

// Identity is the authenticated user behind a session
type Identity struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Name returns the best human-readable label for the identity
func (i Identity) Name() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	if i.Email != "" {
		return i.Email
	}
	return i.UserID
}
