package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jonathan/resume-builder/internal/autosave"
	"github.com/jonathan/resume-builder/internal/session"
)

// StateMsg reports an auto-save state change.
type StateMsg struct {
	State autosave.State
}

// NotifyMsg carries a notification to the status bar.
type NotifyMsg struct {
	Notification session.Notification
}

// Bridge turns controller callbacks, which run on timer and flush goroutines,
// into bubbletea messages. State changes coalesce to the latest state, so a
// slow reader never misses the final one. Notifications are dropped when the
// buffer is full.
type Bridge struct {
	notes chan tea.Msg

	mu         sync.Mutex
	state      autosave.State
	stateReady chan struct{}
}

// NewBridge returns a bridge buffering up to size notifications.
func NewBridge(size int) *Bridge {
	if size <= 0 {
		size = 64
	}
	return &Bridge{
		notes:      make(chan tea.Msg, size),
		stateReady: make(chan struct{}, 1),
	}
}

// Notify implements session.Sink.
func (b *Bridge) Notify(n session.Notification) {
	select {
	case b.notes <- NotifyMsg{Notification: n}:
	default:
	}
}

// OnStateChange matches autosave.Options.OnStateChange.
func (b *Bridge) OnStateChange(s autosave.State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
	select {
	case b.stateReady <- struct{}{}:
	default:
	}
}

func (b *Bridge) latest() tea.Msg {
	b.mu.Lock()
	defer b.mu.Unlock()
	return StateMsg{State: b.state}
}

// Next waits for the next message. A pending state change is delivered
// before queued notifications.
func (b *Bridge) Next() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.stateReady:
			return b.latest()
		default:
		}
		select {
		case <-b.stateReady:
			return b.latest()
		case msg := <-b.notes:
			return msg
		}
	}
}
