package tui

import (
	"fmt"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/dailyflow/internal/core/notify"
)

// maxPendingNotifications bounds the buffer between drains. Older entries
// are dropped first.
const maxPendingNotifications = 50

// drainNotificationsMsg tells the update loop that buffered notifications
// are ready.
type drainNotificationsMsg struct{}

// NotificationBuffer is the TaskService's notifier while the TUI runs. Task
// commands publish into it from their own goroutines; Update drains it and
// republishes on the bus, so toasts and history are only touched from the
// update loop.
type NotificationBuffer struct {
	mu      sync.Mutex
	pending []notify.Notification
	dropped int

	signal    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewNotificationBuffer returns an empty buffer.
func NewNotificationBuffer() *NotificationBuffer {
	return &NotificationBuffer{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Publish queues n and wakes the drain command. It never blocks.
func (b *NotificationBuffer) Publish(n notify.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	b.mu.Lock()
	b.pending = append(b.pending, n)
	if over := len(b.pending) - maxPendingNotifications; over > 0 {
		b.pending = b.pending[over:]
		b.dropped += over
	}
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Drain returns the queued notifications in publish order and empties the
// buffer. When entries were dropped a warning describing the loss comes
// first.
func (b *NotificationBuffer) Drain() []notify.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.pending) == 0 {
		return nil
	}

	out := make([]notify.Notification, 0, len(b.pending)+1)
	if b.dropped > 0 {
		out = append(out, notify.Notification{
			Level:     notify.LevelWarning,
			Message:   fmt.Sprintf("%d earlier notification(s) were dropped", b.dropped),
			CreatedAt: b.pending[0].CreatedAt,
		})
		b.dropped = 0
	}
	out = append(out, b.pending...)
	b.pending = b.pending[:0]
	return out
}

// WaitForSignal returns a command that blocks until notifications are
// queued. After Close it returns nil instead.
func (b *NotificationBuffer) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.signal:
			return drainNotificationsMsg{}
		case <-b.done:
			return nil
		}
	}
}

// Close releases a pending WaitForSignal. Safe to call more than once.
func (b *NotificationBuffer) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}
