package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmcdole/moviehub/internal/adapter"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Login exchanges an identity token for a remote session and saves the
// identity so later runs start online
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	r.useConsole(cmd)
	if !r.cfg.RemoteEnabled() {
		return fmt.Errorf("no session backend configured: set remote.url in %s or pass --remote", adapter.ConfigPath())
	}

	token := cmd.String("token")
	if token == "" {
		var err error
		token, err = r.readSecret("Identity token: ")
		if err != nil {
			return err
		}
	}
	if token == "" {
		return errors.New("token cannot be empty")
	}

	st, sessions, err := r.newSessions()
	if err != nil {
		return err
	}
	a := &app{store: st, sessions: sessions}
	defer a.close()

	sess, err := sessions.Start(ctx, token)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	a.session = sess

	if err := adapter.SaveAuth(adapter.AuthConfig{
		Token:       token,
		UserID:      sess.Identity.UserID,
		DisplayName: sess.Identity.DisplayName,
	}); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	r.printf("✓ Signed in as %s\n", sess.Identity.Name())
	return nil
}

// Logout ends the session, removes the identity's local data and forgets
// the saved credentials
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	r.useConsole(cmd)
	a, err := r.open(ctx)
	if err != nil {
		return err
	}

	name := a.session.Identity.Name()
	err = a.sessions.SignOut(ctx, a.session)
	if cerr := adapter.ClearAuthConfig(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if cerr := a.close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		return fmt.Errorf("sign-out incomplete: %w", err)
	}

	r.printf("✓ Signed out %s\n", name)
	return nil
}

// ShowConfig prints the effective configuration with secrets masked
func (r *Runner) ShowConfig(ctx context.Context, cmd *cli.Command) error {
	cfg := r.cfg
	remoteURL := cfg.Remote.URL
	if remoteURL == "" {
		remoteURL = "(offline)"
	}
	storageDir := cfg.Storage.Dir
	if storageDir == "" {
		storageDir = "(memory only)"
	}

	r.printf("Config:     %s\n", adapter.ConfigPath())
	r.printf("Catalog:    %s\n", cfg.Catalog.BaseURL)
	r.printf("API key:    %s\n", mask(cfg.Catalog.APIKey))
	r.printf("Remote:     %s\n", remoteURL)
	r.printf("User:       %s\n", cfg.Auth.UserID)
	r.printf("Token:      %s\n", mask(cfg.Auth.Token))
	r.printf("Storage:    %s\n", storageDir)
	r.printf("Log file:   %s\n", cfg.Logging.File)
	return nil
}

// readSecret prompts for a value without echoing it when stdin is a terminal
func (r *Runner) readSecret(prompt string) (string, error) {
	fmt.Fprint(r.output, prompt)

	fd := int(r.input.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(r.output)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func mask(secret string) string {
	switch {
	case secret == "":
		return "(not set)"
	case len(secret) <= 8:
		return "********"
	default:
		return secret[:4] + "…" + secret[len(secret)-4:]
	}
}
