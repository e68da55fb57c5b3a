package service

import (
	"strings"

	"github.com/mmcdole/moviehub/internal/domain"
)

const (
	// DefaultRecentLimit bounds the recently viewed list
	DefaultRecentLimit = 20

	// DefaultHistoryLimit bounds the search history
	DefaultHistoryLimit = 20
)

// ToggleMovie removes m from list when present, otherwise appends it.
// It returns the new list and whether m is now in it. list is not modified.
func ToggleMovie(list []domain.Movie, m domain.Movie) ([]domain.Movie, bool) {
	out := make([]domain.Movie, 0, len(list)+1)
	removed := false
	for _, existing := range list {
		if existing.ID == m.ID {
			removed = true
			continue
		}
		out = append(out, existing)
	}
	if removed {
		return out, false
	}
	return append(out, m), true
}

// ContainsMovie reports whether list holds a movie with id
func ContainsMovie(list []domain.Movie, id int64) bool {
	for _, m := range list {
		if m.ID == id {
			return true
		}
	}
	return false
}

// PushRecent moves m to the front of list, dropping any earlier entry with
// the same id and truncating to limit.
func PushRecent(list []domain.Movie, m domain.Movie, limit int) []domain.Movie {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	out := make([]domain.Movie, 0, min(len(list)+1, limit))
	out = append(out, m)
	for _, existing := range list {
		if len(out) == limit {
			break
		}
		if existing.ID == m.ID {
			continue
		}
		out = append(out, existing)
	}
	return out
}

// PushSearch puts entry at the front of history, dropping earlier entries
// whose trimmed query matches case-insensitively, and truncates to limit.
// Blank queries leave history unchanged.
func PushSearch(history []domain.SearchEntry, entry domain.SearchEntry, limit int) []domain.SearchEntry {
	entry.Query = strings.TrimSpace(entry.Query)
	if entry.Query == "" {
		return history
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	out := make([]domain.SearchEntry, 0, min(len(history)+1, limit))
	out = append(out, entry)
	for _, existing := range history {
		if len(out) == limit {
			break
		}
		if strings.EqualFold(strings.TrimSpace(existing.Query), entry.Query) {
			continue
		}
		out = append(out, existing)
	}
	return out
}

// dedupeMovies keeps the first occurrence of each id. Data loaded from
// storage written by older clients may contain repeats.
func dedupeMovies(list []domain.Movie) []domain.Movie {
	seen := make(map[int64]bool, len(list))
	out := make([]domain.Movie, 0, len(list))
	for _, m := range list {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}
