package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/mmcdole/moviehub/internal/service"
	"github.com/urfave/cli/v3"
)

// Search runs one browse query and prints the results. Successful title
// searches land in the search history like they do in the TUI.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	r.useConsole(cmd)
	if err := r.requireAPIKey(); err != nil {
		return err
	}

	a, err := r.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	sel := domain.FilterSelection{Query: cmd.StringArg("query")}
	if name := cmd.String("genre"); name != "" {
		sel.Genre, err = a.catalog.GenreByName(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to resolve genre: %w", err)
		}
	}
	if value := cmd.String("language"); value != "" {
		sel.Language, err = a.catalog.LanguageByCodeOrName(ctx, value)
		if err != nil {
			return fmt.Errorf("failed to resolve language: %w", err)
		}
	}

	browse := service.NewBrowseService(a.catalog, service.BrowseOptions{
		RequestTimeout: r.cfg.Browse.RequestTimeout,
	}, r.logger)
	defer browse.Close()
	browse.SetRecorder(a.session.UserData)
	browse.SetSelection(sel)
	browse.Submit(ctx)

	state := browse.State()
	if state.Problem.Kind != service.ProblemNone {
		if state.Problem.Kind == service.ProblemUnavailable {
			return errors.New(state.Problem.Message)
		}
		r.println(state.Problem.Message)
		return nil
	}

	r.println(state.Title())
	r.println(strings.Repeat("─", len([]rune(state.Title()))))
	r.printMovies(limitMovies(state.Movies, cmd.Int("limit")))
	return nil
}

func limitMovies(movies []domain.Movie, limit int) []domain.Movie {
	if limit > 0 && len(movies) > limit {
		return movies[:limit]
	}
	return movies
}

// printMovies writes one aligned line per movie
func (r *Runner) printMovies(movies []domain.Movie) {
	width := 0
	for _, m := range movies {
		width = max(width, len([]rune(m.Title)))
	}
	for _, m := range movies {
		year := m.Year()
		if year == "" {
			year = "----"
		}
		rating := m.FormattedRating()
		if rating == "" {
			rating = "-"
		}
		r.printf("%s  %s  ★ %-6s %s\n", padRight(m.Title, width), year, rating, m.OriginalLanguage)
	}
}
