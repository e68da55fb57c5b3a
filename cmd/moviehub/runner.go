package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/moviehub/internal/adapter"
	"github.com/mmcdole/moviehub/internal/adapter/remote"
	"github.com/mmcdole/moviehub/internal/adapter/source"
	"github.com/mmcdole/moviehub/internal/adapter/source/tmdb"
	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/mmcdole/moviehub/internal/service"
	"github.com/mmcdole/moviehub/internal/store"
	"github.com/urfave/cli/v3"
)

// shutdownTimeout bounds the final flush of pending writes
const shutdownTimeout = 10 * time.Second

// Runner holds the configuration shared by every command and provides
// methods for each command action.
type Runner struct {
	cfg    *adapter.Config
	logger *slog.Logger
	output io.Writer
	input  *os.File
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *adapter.Config // Loaded in Setup when nil
	Logger *slog.Logger
	Output io.Writer
	Input  *os.File
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	return &Runner{
		cfg:    opts.Config,
		logger: opts.Logger,
		output: opts.Output,
		input:  opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		searchCommand, favoritesCommand, recentCommand, historyCommand, loginCommand, logoutCommand, configCommand, versionCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

func (r *Runner) globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Catalog API key (overrides the config file)",
			Sources: cli.EnvVars("TMDB_API_KEY"),
		},
		&cli.StringFlag{
			Name:  "remote",
			Usage: "Session backend URL (overrides the config file)",
		},
		&cli.BoolFlag{
			Name:  "offline",
			Usage: "Ignore the session backend and keep data on this machine",
		},
		&cli.BoolFlag{
			Name:  "ephemeral",
			Usage: "Keep user data in memory only",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Log debug output to stderr for subcommands",
		},
	}
}

// Setup loads the configuration, applies flag overrides and installs the
// file logger. Subcommands switch to a console logger in their actions.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.cfg == nil {
		cfg, err := adapter.LoadConfig()
		if err != nil {
			return ctx, fmt.Errorf("failed to load config: %w", err)
		}
		r.cfg = cfg
	}

	if key := cmd.String("api-key"); key != "" {
		r.cfg.Catalog.APIKey = key
	}
	if url := cmd.String("remote"); url != "" {
		r.cfg.Remote.URL = url
	}
	if cmd.Bool("offline") {
		r.cfg.Remote.URL = ""
	}
	if cmd.Bool("ephemeral") {
		r.cfg.Storage.Dir = ""
	}

	if r.logger == nil {
		logger, err := adapter.SetupLogger(&r.cfg.Logging)
		if err != nil {
			// Fall back to null logger if file logging fails
			logger = adapter.NullLogger()
		}
		r.logger = logger
	}
	slog.SetDefault(r.logger)
	return ctx, nil
}

// useConsole routes logs to stderr for one-shot commands
func (r *Runner) useConsole(cmd *cli.Command) {
	level := "WARN"
	if cmd.Bool("verbose") {
		level = "DEBUG"
	}
	r.logger = adapter.ConsoleLogger(os.Stderr, level)
	slog.SetDefault(r.logger)
}

// app is the service graph shared by the TUI and the subcommands
type app struct {
	store    *store.UserStore
	catalog  *service.CatalogService
	sessions *service.SessionService
	session  *service.Session
}

// newCatalog builds the catalog service for an API key other than the
// configured one
func (r *Runner) newCatalog(apiKey string) (*service.CatalogService, error) {
	repo, err := source.NewCatalog(&source.CatalogConfig{
		BaseURL: r.cfg.Catalog.BaseURL,
		APIKey:  apiKey,
		Options: tmdb.Options{
			Timeout:           r.cfg.Catalog.Timeout,
			RequestsPerSecond: r.cfg.Catalog.RequestsPerSecond,
			Attempts:          r.cfg.Catalog.Attempts,
		},
	}, r.logger)
	if err != nil {
		return nil, err
	}
	return service.NewCatalogService(repo, r.logger), nil
}

// newSessions builds the local store and the session service around it
func (r *Runner) newSessions() (*store.UserStore, *service.SessionService, error) {
	st, err := store.NewUserStore(r.cfg.Storage.Dir, store.Options{
		MaxValueBytes: r.cfg.Storage.MaxValueBytes,
		Logger:        r.logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open user data: %w", err)
	}

	var backend service.RemoteBackend
	if r.cfg.RemoteEnabled() {
		client, err := remote.NewClient(r.cfg.Remote.URL, r.cfg.Remote.Timeout, r.logger)
		if err != nil {
			st.Close()
			return nil, nil, fmt.Errorf("failed to create remote client: %w", err)
		}
		backend = client
	}

	opts := service.UserDataOptions{
		RecentLimit:  r.cfg.Collections.RecentLimit,
		HistoryLimit: r.cfg.Collections.HistoryLimit,
	}
	return st, service.NewSessionService(st, backend, opts, r.logger), nil
}

// open wires the services and starts a session for the saved identity.
// A remote session that cannot be started falls back to the offline copy.
func (r *Runner) open(ctx context.Context) (*app, error) {
	st, sessions, err := r.newSessions()
	if err != nil {
		return nil, err
	}

	a := &app{
		store:    st,
		sessions: sessions,
	}

	// Collections work without a key; catalog commands check for one first
	if r.cfg.IsConfigured() {
		repo, err := source.NewCatalogFromConfig(r.cfg, r.logger)
		if err != nil {
			st.Close()
			return nil, err
		}
		a.catalog = service.NewCatalogService(repo, r.logger)
	}

	if sessions.RemoteEnabled() && r.cfg.Auth.Token != "" {
		sess, err := sessions.Start(ctx, r.cfg.Auth.Token)
		if err == nil {
			a.session = sess
			return a, nil
		}
		r.logger.Warn("remote session unavailable, using offline copy", "error", err)
	}

	a.session = sessions.StartOffline(ctx, r.offlineIdentity())
	return a, nil
}

func (r *Runner) offlineIdentity() domain.Identity {
	return domain.Identity{
		UserID:      r.cfg.Auth.UserID,
		DisplayName: r.cfg.Auth.DisplayName,
	}
}

// close drains pending writes and releases the local store
func (a *app) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if a.session != nil {
		if err := a.session.UserData.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush user data: %w", err))
		}
		a.session.UserData.Close()
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close user data: %w", err))
	}
	return errors.Join(errs...)
}

// requireAPIKey fails commands that query the catalog without a key
func (r *Runner) requireAPIKey() error {
	if !r.cfg.IsConfigured() {
		return errors.New("no catalog API key configured: run moviehub to set one up or set MOVIEHUB_CATALOG_API_KEY")
	}
	return nil
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.output, format, args...)
}

func (r *Runner) println(args ...any) {
	fmt.Fprintln(r.output, args...)
}

// padRight pads s with spaces to width runes
func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
