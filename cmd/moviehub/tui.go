package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/moviehub/internal/adapter"
	"github.com/mmcdole/moviehub/internal/service"
	"github.com/mmcdole/moviehub/internal/tui"
	"github.com/mmcdole/moviehub/internal/tui/styles"
	"github.com/urfave/cli/v3"
)

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

// TUI runs the interactive browser, prompting for an API key first when
// none is configured
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("starting moviehub", "version", Version)

	if !r.cfg.IsConfigured() {
		if err := r.runSetupFlow(ctx); err != nil {
			return err
		}
	}

	a, err := r.open(ctx)
	if err != nil {
		return err
	}

	browse := service.NewBrowseService(a.catalog, service.BrowseOptions{
		Debounce:       r.cfg.Browse.Debounce,
		RequestTimeout: r.cfg.Browse.RequestTimeout,
		FeaturedCount:  r.cfg.Browse.FeaturedCount,
	}, r.logger)
	launcher := adapter.NewLauncher(r.cfg.Opener.Command, r.cfg.Opener.Args, r.logger)

	model := tui.NewModel(tui.Services{
		Browse:   browse,
		Catalog:  a.catalog,
		Sessions: a.sessions,
		Session:  a.session,
		Launcher: launcher,
		Logger:   r.logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	r.logger.Info("starting TUI")
	final, runErr := p.Run()
	browse.Close()

	err = a.close()
	if runErr != nil {
		r.logger.Error("TUI error", "error", runErr)
		return errors.Join(fmt.Errorf("TUI error: %w", runErr), err)
	}

	if m, ok := final.(tui.Model); ok && m.SignedOut {
		if m.SignOutErr != nil {
			return errors.Join(fmt.Errorf("sign-out incomplete: %w", m.SignOutErr), err)
		}
		r.println("Signed out.")
	}

	r.logger.Info("shutting down")
	return err
}

// runSetupFlow asks for a catalog API key, checks it against the catalog
// and saves it
func (r *Runner) runSetupFlow(ctx context.Context) error {
	r.println()
	r.println("Welcome to MovieHub!")
	r.println()
	r.println("MovieHub needs a TMDB API key (v3 key or v4 read access token).")
	r.println("Create one at https://www.themoviedb.org/settings/api")
	r.println()

	for {
		key, err := r.readSecret("API key: ")
		if err != nil {
			return err
		}
		if key == "" {
			r.println("API key cannot be empty. Please try again.")
			continue
		}

		r.println()
		if err := r.verifyKeyWithSpinner(ctx, key); err != nil {
			r.printf("\n✗ Could not verify key: %v\n", err)
			r.println("Please check the key and try again.")
			r.println()
			continue
		}

		if err := adapter.SaveAPIKey(key); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		r.cfg.Catalog.APIKey = key

		r.println()
		r.println("✓ Configuration saved!")
		r.println()
		return nil
	}
}

// verifyKeyWithSpinner loads the genre list with the key while showing a
// spinner
func (r *Runner) verifyKeyWithSpinner(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	catalog, err := r.newCatalog(key)
	if err != nil {
		return err
	}

	resultCh := make(chan error, 1)
	go func() {
		_, err := catalog.Genres(ctx)
		resultCh <- err
	}()

	frame := 0
	r.printf("\r%s Checking API key...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			r.printf(clearSpinnerLine)
			if err != nil {
				return err
			}
			r.println("✓ API key accepted")
			return nil

		case <-ticker.C:
			frame++
			r.printf("\r%s Checking API key...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			r.printf(clearSpinnerLine)
			return fmt.Errorf("verification timed out")
		}
	}
}
