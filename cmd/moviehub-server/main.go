package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mmcdole/moviehub/internal/adapter"
	"github.com/mmcdole/moviehub/internal/server"
	"github.com/urfave/cli/v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	app := &cli.Command{
		Name:    "moviehub-server",
		Usage:   "Session and user-data backend for MovieHub clients",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "Listen address",
				Value:   ":8080",
				Sources: cli.EnvVars("MOVIEHUB_SERVER_ADDR"),
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "SQLite database path (:memory: for a throwaway store)",
				Value:   "moviehub.db",
				Sources: cli.EnvVars("MOVIEHUB_SERVER_DB"),
			},
			&cli.StringSliceFlag{
				Name:    "token",
				Aliases: []string{"t"},
				Usage:   "Accepted identity token as token=user[:display name] (repeatable)",
				Sources: cli.EnvVars("MOVIEHUB_SERVER_TOKENS"),
			},
			&cli.DurationFlag{
				Name:  "session-ttl",
				Usage: "Lifetime of a session cookie",
				Value: 14 * 24 * time.Hour,
			},
			&cli.DurationFlag{
				Name:  "prune-interval",
				Usage: "How often expired sessions are deleted",
				Value: time.Hour,
			},
			&cli.BoolFlag{
				Name:  "secure-cookie",
				Usage: "Mark the session cookie Secure (serve behind HTTPS)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "DEBUG, INFO, WARN or ERROR",
				Value: "INFO",
			},
		},
		Action: serve,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	logger := adapter.ConsoleLogger(os.Stderr, cmd.String("log-level"))

	verifier, err := server.ParseStaticTokens(cmd.StringSlice("token"))
	if err != nil {
		return err
	}
	if len(verifier) == 0 {
		logger.Warn("no identity tokens configured, every sign-in will be rejected")
	}

	db, err := server.OpenDB(cmd.String("db"))
	if err != nil {
		return err
	}
	defer db.Close()

	srv := server.New(db, verifier, server.Options{
		SessionTTL:   cmd.Duration("session-ttl"),
		SecureCookie: cmd.Bool("secure-cookie"),
	}, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go srv.PruneLoop(ctx, cmd.Duration("prune-interval"))

	httpServer := &http.Server{
		Addr:              cmd.String("addr"),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr, "version", Version)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
