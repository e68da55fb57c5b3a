package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/mmcdole/moviehub/internal/service"
)

// Mailbox adapts service callbacks to Bubble Tea messages. Only the newest
// browse snapshot is kept; sync outcomes and persist errors accumulate until
// the next Wait delivers them.
type Mailbox struct {
	mu          sync.Mutex
	state       *service.BrowseState
	sync        []domain.SyncOutcome
	persistErrs []error
	signal      chan struct{}
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{signal: make(chan struct{}, 1)}
}

// OnBrowseState keeps the snapshot unless a newer one is already waiting.
func (m *Mailbox) OnBrowseState(s service.BrowseState) {
	m.mu.Lock()
	if m.state == nil || s.Version > m.state.Version {
		m.state = &s
	}
	m.mu.Unlock()
	m.notify()
}

// OnSync queues a reconciliation outcome.
func (m *Mailbox) OnSync(o domain.SyncOutcome) {
	m.mu.Lock()
	m.sync = append(m.sync, o)
	m.mu.Unlock()
	m.notify()
}

// OnPersistError queues a failed local write.
func (m *Mailbox) OnPersistError(_ domain.Collection, err error) {
	m.mu.Lock()
	m.persistErrs = append(m.persistErrs, err)
	m.mu.Unlock()
	m.notify()
}

func (m *Mailbox) notify() {
	select {
	case m.signal <- struct{}{}:
	default: // A wakeup is already pending
	}
}

// Wait blocks until something arrives and returns it as an ObserverMsg.
// Re-issue it after handling each message.
func (m *Mailbox) Wait() tea.Cmd {
	return func() tea.Msg {
		<-m.signal
		return m.drain()
	}
}

func (m *Mailbox) drain() ObserverMsg {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := ObserverMsg{State: m.state, Sync: m.sync, PersistErrs: m.persistErrs}
	m.state = nil
	m.sync = nil
	m.persistErrs = nil
	return msg
}

var (
	_ service.BrowseObserver = (*Mailbox)(nil)
	_ domain.SyncObserver    = (*Mailbox)(nil)
)
