package components

import (
	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/mmcdole/moviehub/internal/tui/styles"
)

// SyncStatus represents the state of the remote user-data backend
type SyncStatus int

const (
	SyncLocalOnly SyncStatus = iota // no remote configured or signed in offline
	SyncIdle
	SyncSynced
	SyncError
)

// SyncState tracks the latest reconciliation outcome
type SyncState struct {
	Status SyncStatus
	Last   domain.Collection // Collection of the latest outcome
	Error  error             // Last remote failure, if any
}

// Apply folds a reconciliation outcome into the state
func (s SyncState) Apply(o domain.SyncOutcome) SyncState {
	if s.Status == SyncLocalOnly {
		return s
	}
	s.Last = o.Collection
	switch {
	case o.Err != nil:
		s.Status = SyncError
		s.Error = o.Err
	case o.FromRemote:
		s.Status = SyncSynced
		s.Error = nil
	}
	return s
}

// View renders a short status label for the status bar
func (s SyncState) View() string {
	switch s.Status {
	case SyncIdle:
		return styles.DimStyle.Render("○ cloud")
	case SyncSynced:
		return styles.SuccessStyle.Render("✓ synced")
	case SyncError:
		return styles.ErrorStyle.Render("✗ offline copy")
	default:
		return styles.DimStyle.Render("local")
	}
}
