package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/dailyflow/internal/core/notify"
	"github.com/colonyops/dailyflow/internal/data/db"
)

// NotifyStore keeps toast history in the task database, so the history
// modal shows notifications from earlier sessions and, with postgres, from
// other clients. At most notify.HistoryLimit rows are retained.
type NotifyStore struct {
	db *db.DB
}

var _ notify.Store = (*NotifyStore)(nil)

// NewNotifyStore returns a store on the given database.
func NewNotifyStore(database *db.DB) *NotifyStore {
	return &NotifyStore{db: database}
}

// Save inserts n and trims the oldest rows past the history limit in the
// same transaction.
func (s *NotifyStore) Save(ctx context.Context, n notify.Notification) (int64, error) {
	var id int64
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		var err error
		id, err = q.InsertNotification(ctx, db.InsertNotificationParams{
			Level:     string(n.Level),
			Message:   n.Message,
			CreatedAt: n.CreatedAt.UnixNano(),
		})
		if err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}

		if _, err := q.PruneNotifications(ctx, notify.HistoryLimit); err != nil {
			return fmt.Errorf("prune notifications: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// List returns the history, newest first.
func (s *NotifyStore) List(ctx context.Context) ([]notify.Notification, error) {
	rows, err := s.db.Queries().ListNotifications(ctx, notify.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]notify.Notification, len(rows))
	for i, row := range rows {
		out[i] = notify.Notification{
			ID:        row.ID,
			Level:     notify.Level(row.Level),
			Message:   row.Message,
			CreatedAt: time.Unix(0, row.CreatedAt),
		}
	}
	return out, nil
}

// Clear empties the history.
func (s *NotifyStore) Clear(ctx context.Context) error {
	if err := s.db.Queries().DeleteAllNotifications(ctx); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// Count returns the number of stored notifications.
func (s *NotifyStore) Count(ctx context.Context) (int64, error) {
	n, err := s.db.Queries().CountNotifications(ctx)
	if err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return n, nil
}
