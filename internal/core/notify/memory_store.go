package notify

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps the most recent HistoryLimit notifications in process.
type MemoryStore struct {
	mu     sync.Mutex
	items  []Notification
	nextID int64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, n Notification) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	n.ID = m.nextID
	m.items = append(m.items, n)
	if over := len(m.items) - HistoryLimit; over > 0 {
		m.items = slices.Delete(m.items, 0, over)
	}
	return n.ID, nil
}

func (m *MemoryStore) List(_ context.Context) ([]Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := slices.Clone(m.items)
	slices.Reverse(out)
	return out, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return nil
}

func (m *MemoryStore) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}
