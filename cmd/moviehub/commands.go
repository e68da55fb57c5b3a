package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// searchCommand runs a one-shot catalog query
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "search",
		Aliases: []string{"s"},
		Usage:   "Search the catalog by title, genre or language",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "genre",
				Aliases: []string{"g"},
				Usage:   "Genre name (e.g. Drama)",
			},
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "Language code or English name (e.g. fr, French)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of movies to print",
				Value: 20,
			},
		},
		Action: r.Search,
	}
}

func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "List favorite movies",
		Action:  r.Favorites,
	}
}

func recentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "List recently viewed movies",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "Forget recently viewed movies",
			},
		},
		Action: r.Recent,
	}
}

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List past searches",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "Forget past searches",
			},
		},
		Action: r.History,
	}
}

// loginCommand exchanges an identity token for a remote session
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in to the session backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"t"},
				Usage:   "Identity token (prompted for when omitted)",
				Sources: cli.EnvVars("MOVIEHUB_TOKEN"),
			},
		},
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Sign out and remove this account's local data",
		Action: r.Logout,
	}
}

func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "config",
		Usage:  "Show the effective configuration",
		Action: r.ShowConfig,
	}
}

func versionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r.printf("moviehub %s\n", Version)
			return nil
		},
	}
}
