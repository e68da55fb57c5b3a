package tui

import (
	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/mmcdole/moviehub/internal/service"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ObserverMsg carries everything the services reported since the last one
type ObserverMsg struct {
	State       *service.BrowseState // nil when only sync news arrived
	Sync        []domain.SyncOutcome
	PersistErrs []error
}

// BrowseDoneMsg signals that a browse command returned
type BrowseDoneMsg struct {
	Err error // Only LoadInitial reports errors
}

// DetailsLoadedMsg carries the full record for the inspector
type DetailsLoadedMsg struct {
	Movie *domain.Movie
	ID    int64
	Err   error
}

// LinkOpenedMsg reports the outcome of launching a web link
type LinkOpenedMsg struct {
	What string
	Err  error
}

// SignedOutMsg signals that sign-out finished
type SignedOutMsg struct {
	Err error
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
