package service

import (
	"context"

	"github.com/mmcdole/moviehub/internal/domain"
)

// PlanSource is the single catalog request a plan issues
type PlanSource int

const (
	SourcePopular PlanSource = iota
	SourceSearch
	SourceGenre
	SourceLanguage
)

func (s PlanSource) String() string {
	switch s {
	case SourceSearch:
		return "search"
	case SourceGenre:
		return "genre"
	case SourceLanguage:
		return "language"
	default:
		return "popular"
	}
}

// QueryPlan describes how a filter selection is answered: one catalog call
// followed by in-memory filtering of the page it returns.
type QueryPlan struct {
	Source       PlanSource
	Query        string
	GenreID      int
	LanguageCode string

	// In-memory filters applied to the source page
	FilterGenre    *int
	FilterLanguage string
}

// BuildPlan maps a selection to its plan. A search is the source whenever a
// query is present; otherwise a genre takes precedence over a language,
// and the other criterion becomes an in-memory filter.
func BuildPlan(sel domain.FilterSelection) QueryPlan {
	var (
		q     = sel.TrimmedQuery()
		genre = sel.Genre
		lang  = sel.Language
		plan  QueryPlan
	)

	switch {
	case q != "":
		plan.Source = SourceSearch
		plan.Query = q
		if genre != nil {
			id := genre.ID
			plan.FilterGenre = &id
		}
		if lang != nil {
			plan.FilterLanguage = lang.Code
		}
	case genre != nil:
		plan.Source = SourceGenre
		plan.GenreID = genre.ID
		if lang != nil {
			plan.FilterLanguage = lang.Code
		}
	case lang != nil:
		plan.Source = SourceLanguage
		plan.LanguageCode = lang.Code
	default:
		plan.Source = SourcePopular
	}
	return plan
}

// Filter keeps the movies matching every in-memory filter
func (p QueryPlan) Filter(movies []domain.Movie) []domain.Movie {
	if p.FilterGenre == nil && p.FilterLanguage == "" {
		return movies
	}
	out := make([]domain.Movie, 0, len(movies))
	for _, m := range movies {
		if p.FilterGenre != nil && !m.HasGenre(*p.FilterGenre) {
			continue
		}
		if p.FilterLanguage != "" && m.OriginalLanguage != p.FilterLanguage {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Execute issues the plan's catalog call and applies its filters
func (p QueryPlan) Execute(ctx context.Context, catalog *CatalogService) ([]domain.Movie, error) {
	var (
		movies []domain.Movie
		err    error
	)
	switch p.Source {
	case SourceSearch:
		movies, err = catalog.Search(ctx, p.Query)
	case SourceGenre:
		movies, err = catalog.ByGenre(ctx, p.GenreID)
	case SourceLanguage:
		movies, err = catalog.ByLanguage(ctx, p.LanguageCode)
	default:
		movies, err = catalog.Popular(ctx)
	}
	if err != nil {
		return nil, err
	}
	return p.Filter(movies), nil
}
