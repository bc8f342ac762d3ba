package task

import (
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Status narrows a listing by completion state.
type Status string

const (
	StatusAll       Status = ""
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// IsValid reports whether s is a known status filter.
func (s Status) IsValid() bool {
	switch s {
	case StatusAll, StatusPending, StatusCompleted, StatusOverdue:
		return true
	default:
		return false
	}
}

// Query filters a task collection. Zero fields match everything.
type Query struct {
	Status   Status
	Category Category
	Priority Priority
	// Tag is a glob pattern matched against each tag individually,
	// e.g. "work*" or "{urgent,asap}".
	Tag string
}

// Validate checks the enum values and the tag pattern.
func (q Query) Validate() error {
	if !q.Status.IsValid() {
		return invalid("status", "unknown status %q", q.Status)
	}
	if q.Category != "" && !q.Category.IsValid() {
		return invalid("category", "unknown category %q", q.Category)
	}
	if q.Priority != "" && !q.Priority.IsValid() {
		return invalid("priority", "unknown priority %q", q.Priority)
	}
	if q.Tag != "" && !doublestar.ValidatePattern(q.Tag) {
		return invalid("tag", "bad pattern %q", q.Tag)
	}
	return nil
}

// Filter returns the tasks matching q, preserving order.
func Filter(tasks []Task, q Query, now time.Time) ([]Task, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		ok, err := q.matches(t, now)
		if err != nil {
			return nil, fmt.Errorf("filter task %d: %w", t.ID, err)
		}
		if ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (q Query) matches(t Task, now time.Time) (bool, error) {
	switch q.Status {
	case StatusPending:
		if t.IsCompleted {
			return false, nil
		}
	case StatusCompleted:
		if !t.IsCompleted {
			return false, nil
		}
	case StatusOverdue:
		if !IsOverdue(t, now) {
			return false, nil
		}
	}

	if q.Category != "" && t.Category != q.Category {
		return false, nil
	}
	if q.Priority != "" && t.Priority != q.Priority {
		return false, nil
	}

	if q.Tag == "" {
		return true, nil
	}
	for _, tag := range t.TagList() {
		ok, err := doublestar.Match(q.Tag, tag)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
