package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"
)

// Favorites prints the signed-in identity's favorites
func (r *Runner) Favorites(ctx context.Context, cmd *cli.Command) error {
	r.useConsole(cmd)
	a, err := r.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	movies := a.session.UserData.Favorites()
	if len(movies) == 0 {
		r.println("No favorites yet.")
		return nil
	}
	r.printMovies(movies)
	return nil
}

// Recent prints or clears recently viewed movies
func (r *Runner) Recent(ctx context.Context, cmd *cli.Command) error {
	r.useConsole(cmd)
	a, err := r.open(ctx)
	if err != nil {
		return err
	}

	data := a.session.UserData
	if cmd.Bool("clear") {
		data.ClearRecent()
		if err := a.close(); err != nil {
			return err
		}
		r.println("Recently viewed cleared.")
		return nil
	}
	defer a.close()

	movies := data.Recent()
	if len(movies) == 0 {
		r.println("Nothing viewed yet.")
		return nil
	}
	r.printMovies(movies)
	return nil
}

// History prints or clears past searches, newest first
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	r.useConsole(cmd)
	a, err := r.open(ctx)
	if err != nil {
		return err
	}

	data := a.session.UserData
	if cmd.Bool("clear") {
		data.ClearSearchHistory()
		if err := a.close(); err != nil {
			return err
		}
		r.println("Search history cleared.")
		return nil
	}
	defer a.close()

	entries := data.SearchHistory()
	if len(entries) == 0 {
		r.println("No searches yet.")
		return nil
	}
	for _, e := range entries {
		r.printf("%s  %s\n", time.UnixMilli(e.Timestamp).Format("2006-01-02 15:04"), e.Query)
	}
	return nil
}
