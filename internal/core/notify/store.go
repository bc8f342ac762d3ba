// Package notify defines user-facing notifications and their persistence.
package notify

import (
	"context"
	"time"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// HistoryLimit caps how many notifications List returns.
const HistoryLimit = 200

// Notification represents a single notification event.
type Notification struct {
	ID        int64     `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists notifications so the TUI can show a history of past
// toasts.
type Store interface {
	Save(ctx context.Context, n Notification) (int64, error)
	// List returns up to HistoryLimit notifications, newest first.
	List(ctx context.Context) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
