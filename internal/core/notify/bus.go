package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Subscriber is a callback invoked when a notification is published.
type Subscriber func(Notification)

// Bus dispatches notifications to subscribers inline and persists them to a
// Store. Subscribers run on the publishing goroutine.
type Bus struct {
	store       Store
	subscribers []Subscriber
	mu          sync.Mutex
}

// NewBus creates a bus backed by store. A nil store dispatches without
// persisting.
func NewBus(store Store) *Bus {
	return &Bus{store: store}
}

// Subscribe registers fn for every later Publish.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish persists n and then hands it to every subscriber.
func (b *Bus) Publish(n Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	// Persist first so subscribers see the stored id.
	if b.store != nil {
		id, err := b.store.Save(context.Background(), n)
		if err != nil {
			log.Error().Err(err).Str("message", n.Message).Msg("failed to persist notification")
		} else {
			n.ID = id
		}
	}

	b.mu.Lock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

func (b *Bus) publishf(level Level, format string, args ...any) {
	b.Publish(Notification{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Successf publishes a success-level notification.
func (b *Bus) Successf(format string, args ...any) { b.publishf(LevelSuccess, format, args...) }

// Infof publishes an info-level notification.
func (b *Bus) Infof(format string, args ...any) { b.publishf(LevelInfo, format, args...) }

// Warnf publishes a warning-level notification.
func (b *Bus) Warnf(format string, args ...any) { b.publishf(LevelWarning, format, args...) }

// Errorf publishes an error-level notification.
func (b *Bus) Errorf(format string, args ...any) { b.publishf(LevelError, format, args...) }

// History returns persisted notifications, newest first. It returns nil when
// no store is configured.
func (b *Bus) History(ctx context.Context) ([]Notification, error) {
	if b.store == nil {
		return nil, nil
	}
	return b.store.List(ctx)
}

// Clear deletes all persisted notifications.
func (b *Bus) Clear(ctx context.Context) error {
	if b.store == nil {
		return nil
	}
	return b.store.Clear(ctx)
}
