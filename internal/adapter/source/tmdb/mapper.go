package tmdb

import (
	"sort"
	"strings"

	"github.com/mmcdole/moviehub/internal/domain"
)

// MapMovies converts a results page to domain movies
func MapMovies(dtos []movieDTO) []domain.Movie {
	movies := make([]domain.Movie, 0, len(dtos))
	for _, d := range dtos {
		movies = append(movies, mapMovie(d))
	}
	return movies
}

func mapMovie(d movieDTO) domain.Movie {
	m := domain.Movie{
		ID:               d.ID,
		Title:            d.Title,
		OriginalTitle:    d.OriginalTitle,
		Overview:         d.Overview,
		OriginalLanguage: d.OriginalLanguage,
		GenreIDs:         d.GenreIDs,
		ReleaseDate:      d.ReleaseDate,
		Popularity:       d.Popularity,
		VoteAverage:      d.VoteAverage,
		VoteCount:        d.VoteCount,
	}
	if m.Title == "" {
		m.Title = d.OriginalTitle
	}
	if d.PosterPath != nil {
		m.PosterPath = *d.PosterPath
	}
	if d.BackdropPath != nil {
		m.BackdropPath = *d.BackdropPath
	}
	if d.Runtime != nil {
		m.Runtime = *d.Runtime
	}
	if len(d.Genres) > 0 {
		m.Genres = MapGenres(d.Genres)
		if len(m.GenreIDs) == 0 {
			m.GenreIDs = make([]int, 0, len(d.Genres))
			for _, g := range d.Genres {
				m.GenreIDs = append(m.GenreIDs, g.ID)
			}
		}
	}
	return m
}

// MapGenres converts genre DTOs preserving catalog order
func MapGenres(dtos []genreDTO) []domain.Genre {
	genres := make([]domain.Genre, 0, len(dtos))
	for _, g := range dtos {
		genres = append(genres, domain.Genre{ID: g.ID, Name: g.Name})
	}
	return genres
}

// MapLanguages converts language DTOs sorted by English name.
// Entries without a code are dropped; "No Language" (xx) is kept.
func MapLanguages(dtos []languageDTO) []domain.Language {
	langs := make([]domain.Language, 0, len(dtos))
	for _, l := range dtos {
		if l.Code == "" {
			continue
		}
		name := l.EnglishName
		if name == "" {
			name = l.Code
		}
		langs = append(langs, domain.Language{
			Code:        l.Code,
			EnglishName: name,
			NativeName:  strings.TrimSpace(l.Name),
		})
	}
	sort.SliceStable(langs, func(i, j int) bool {
		return strings.ToLower(langs[i].EnglishName) < strings.ToLower(langs[j].EnglishName)
	})
	return langs
}
