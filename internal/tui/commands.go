package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/moviehub/internal/adapter"
	"github.com/mmcdole/moviehub/internal/service"
)

// Command factories for async operations. Browse commands block until the
// service finishes; the results themselves arrive through the Mailbox.

// LoadInitialCmd loads popular and featured movies plus the picker lists
func LoadInitialCmd(svc *service.BrowseService) tea.Cmd {
	return func() tea.Msg {
		return BrowseDoneMsg{Err: svc.LoadInitial(context.Background())}
	}
}

// SubmitCmd runs the current selection without waiting for the debounce
func SubmitCmd(svc *service.BrowseService) tea.Cmd {
	return func() tea.Msg {
		svc.Submit(context.Background())
		return BrowseDoneMsg{}
	}
}

// RetryCmd re-runs the current selection after a failure
func RetryCmd(svc *service.BrowseService) tea.Cmd {
	return func() tea.Msg {
		svc.Retry(context.Background())
		return BrowseDoneMsg{}
	}
}

// ClearFiltersCmd resets the selection and reloads popular movies
func ClearFiltersCmd(svc *service.BrowseService) tea.Cmd {
	return func() tea.Msg {
		svc.ClearFilters(context.Background())
		return BrowseDoneMsg{}
	}
}

// LoadDetailsCmd fetches the full record for a movie
func LoadDetailsCmd(svc *service.CatalogService, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		movie, err := svc.MovieDetails(ctx, id)
		return DetailsLoadedMsg{Movie: movie, ID: id, Err: err}
	}
}

// OpenLinkCmd opens a web link in the browser
func OpenLinkCmd(launcher *adapter.Launcher, link, what string) tea.Cmd {
	return func() tea.Msg {
		if link == "" {
			return LinkOpenedMsg{What: what, Err: errors.New("no link available")}
		}
		return LinkOpenedMsg{What: what, Err: launcher.Open(link)}
	}
}

// SignOutCmd ends the session, clears the identity's local data and
// forgets the saved credentials
func SignOutCmd(svc *service.SessionService, sess *service.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		err := svc.SignOut(ctx, sess)
		if cerr := adapter.ClearAuthConfig(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return SignedOutMsg{Err: err}
	}
}

// TickCmd returns a command that sends a tick message after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears the status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
