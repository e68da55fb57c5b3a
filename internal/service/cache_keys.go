package service

import "strconv"

// Cache keys for catalog reference data
const (
	// KeyGenres is the cache key for the genre list
	KeyGenres = "genres"

	// KeyLanguages is the cache key for the language list
	KeyLanguages = "languages"

	// PrefixMovie is the prefix for movie detail caches (movie:{id})
	PrefixMovie = "movie:"
)

func movieKey(id int64) string {
	return PrefixMovie + strconv.FormatInt(id, 10)
}
