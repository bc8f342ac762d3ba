package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// refreshTickMsg triggers a silent reload for backends without a store
// watcher.
type refreshTickMsg struct{}

// scheduleRefreshTick returns a command that fires the next refresh tick,
// or nil when refreshing is disabled.
func scheduleRefreshTick(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}
