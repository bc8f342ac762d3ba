// Package memstore is an in-process task.Repository that keeps tasks in
// memory. It backs the "memory" backend and doubles as a test fake.
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/colonyops/dailyflow/internal/core/task"
)

// Store holds tasks in memory. It is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	tasks  []task.Task // creation order
	nextID int64
	now    func() time.Time
}

var _ task.Repository = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty store, optionally seeded with tasks. Seeded tasks keep
// their ids and timestamps.
func New(seed []task.Task, opts ...Option) *Store {
	s := &Store{nextID: 1, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	for _, t := range seed {
		s.tasks = append(s.tasks, t)
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
	slices.SortStableFunc(s.tasks, func(a, b task.Task) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return s
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
}

// GetAll returns up to task.ListLimit tasks, newest first.
func (s *Store) GetAll(ctx context.Context) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, task.TransportError("list tasks", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]task.Task, 0, min(len(s.tasks), task.ListLimit))
	for i := len(s.tasks) - 1; i >= 0 && len(out) < task.ListLimit; i-- {
		out = append(out, s.tasks[i])
	}
	return out, nil
}

// GetByID returns one task.
func (s *Store) GetByID(ctx context.Context, id int64) (task.Task, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, task.TransportError("get task", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return task.Task{}, task.NotFoundError(id)
	}
	return s.tasks[i], nil
}

// Create stores a validated draft.
func (s *Store) Create(ctx context.Context, d task.Draft) (task.Task, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, task.TransportError("create task", err)
	}

	d, err := task.ValidateDraft(d)
	if err != nil {
		return task.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t := task.Task{
		ID:          s.nextID,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Category:    d.Category,
		Priority:    d.Priority,
		Tags:        d.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextID++
	s.tasks = append(s.tasks, t)
	return t, nil
}

// Update applies p to the task.
func (s *Store) Update(ctx context.Context, id int64, p task.Patch) (task.Task, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, task.TransportError("update task", err)
	}

	p, err := task.ValidatePatch(p)
	if err != nil {
		return task.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(id, p)
}

func (s *Store) apply(id int64, p task.Patch) (task.Task, error) {
	i := s.index(id)
	if i < 0 {
		return task.Task{}, task.NotFoundError(id)
	}

	prev := s.tasks[i]
	next := p.Apply(prev)
	next.UpdatedAt = s.now()
	if !next.UpdatedAt.After(prev.UpdatedAt) {
		next.UpdatedAt = prev.UpdatedAt.Add(time.Nanosecond)
	}
	s.tasks[i] = next
	return next, nil
}

// Delete removes the task.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, task.TransportError("delete task", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return false, task.NotFoundError(id)
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return true, nil
}

// ToggleComplete flips the completion flag.
func (s *Store) ToggleComplete(ctx context.Context, id int64) (task.Task, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, task.TransportError("toggle task", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return task.Task{}, task.NotFoundError(id)
	}
	return s.apply(id, task.CompletedPatch(!s.tasks[i].IsCompleted))
}

// BulkUpdate applies p to each id.
func (s *Store) BulkUpdate(ctx context.Context, ids []int64, p task.Patch) ([]task.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, task.TransportError("bulk update tasks", err)
	}

	p, err := task.ValidatePatch(p)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]task.Outcome, 0, len(ids))
	for _, id := range ids {
		t, err := s.apply(id, p)
		if err != nil {
			out = append(out, task.Outcome{ID: id, Err: err})
			continue
		}
		out = append(out, task.Outcome{ID: id, Task: &t})
	}
	return out, nil
}

// BulkDelete removes each id.
func (s *Store) BulkDelete(ctx context.Context, ids []int64) ([]task.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, task.TransportError("bulk delete tasks", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]task.Outcome, 0, len(ids))
	for _, id := range ids {
		i := s.index(id)
		if i < 0 {
			out = append(out, task.Outcome{ID: id, Err: task.NotFoundError(id)})
			continue
		}
		s.tasks = slices.Delete(s.tasks, i, i+1)
		out = append(out, task.Outcome{ID: id})
	}
	return out, nil
}
