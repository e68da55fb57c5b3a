package service

import (
	"strings"

	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/sahilm/fuzzy"
)

// FilterResult is a fuzzy match with metadata for highlighting
type FilterResult struct {
	Index          int   // Position in the filtered slice
	MatchedIndexes []int // Character positions that matched
	Score          int   // Higher is better
}

// filterIndex implements sahilm/fuzzy.Source over pre-computed lowercase titles
type filterIndex struct {
	lowerTitles []string
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx filterIndex) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of items (implements fuzzy.Source)
func (idx filterIndex) Len() int { return len(idx.lowerTitles) }

// FuzzyMatch ranks items whose title fuzzily matches query, best first.
// A blank query returns nil.
func FuzzyMatch[T any](items []T, query string, title func(T) string) []FilterResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(items) == 0 {
		return nil
	}

	idx := filterIndex{lowerTitles: make([]string, len(items))}
	for i, it := range items {
		idx.lowerTitles[i] = strings.ToLower(title(it))
	}

	matches := fuzzy.FindFrom(query, idx)
	results := make([]FilterResult, len(matches))
	for i, m := range matches {
		results[i] = FilterResult{Index: m.Index, MatchedIndexes: m.MatchedIndexes, Score: m.Score}
	}
	return results
}

// fuzzyFilter returns the matching items, or a copy of all of them when the
// query is blank
func fuzzyFilter[T any](items []T, query string, title func(T) string) []T {
	if strings.TrimSpace(query) == "" {
		return append([]T{}, items...)
	}
	results := FuzzyMatch(items, query, title)
	out := make([]T, len(results))
	for i, r := range results {
		out[i] = items[r.Index]
	}
	return out
}

// FilterGenres narrows the genre picker
func FilterGenres(genres []domain.Genre, query string) []domain.Genre {
	return fuzzyFilter(genres, query, func(g domain.Genre) string { return g.Name })
}

// FilterLanguages narrows the language picker by English name
func FilterLanguages(langs []domain.Language, query string) []domain.Language {
	return fuzzyFilter(langs, query, func(l domain.Language) string { return l.EnglishName })
}

// FilterMovies narrows a local collection by title
func FilterMovies(movies []domain.Movie, query string) []domain.Movie {
	return fuzzyFilter(movies, query, func(m domain.Movie) string { return m.Title })
}
