// Package task defines the task domain model, the repository contract, and the
// pure derived views (overdue, statistics, partitioning) computed from a task
// collection.
package task

import "time"

// Category classifies what area of life a task belongs to.
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryShopping Category = "Shopping"
	CategoryHealth   Category = "Health"
)

// DefaultCategory is applied when a draft does not name one.
const DefaultCategory = CategoryPersonal

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth}
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth:
		return true
	default:
		return false
	}
}

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// DefaultPriority is applied when a draft does not name one.
const DefaultPriority = PriorityMedium

// Priorities returns every priority from most to least urgent.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank returns 0 for High, 1 for Medium, 2 for Low and 3 for anything else.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Task is a single user-defined unit of work.
//
// DueDate holds a calendar date in YYYY-MM-DD form, or is empty when the task
// has no due date. Values written by older clients may carry a full ISO-8601
// timestamp; ParseDueDate accepts both.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsCompleted bool      `json:"is_completed"`
	DueDate     string    `json:"due_date,omitempty"`
	Category    Category  `json:"category"`
	Priority    Priority  `json:"priority"`
	Tags        string    `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TagList returns the task's tags as a trimmed slice.
func (t Task) TagList() []string {
	return SplitTags(t.Tags)
}

// Draft holds the user-supplied fields for a task that has not been stored yet.
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Category    Category `json:"category,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	Tags        string   `json:"tags,omitempty"`
}

// Patch is a partial update. Nil fields are left untouched; a non-nil DueDate
// pointing at an empty string clears the due date.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	IsCompleted *bool     `json:"is_completed,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Tags        *string   `json:"tags,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.IsCompleted == nil &&
		p.DueDate == nil &&
		p.Category == nil &&
		p.Priority == nil &&
		p.Tags == nil
}

// Apply returns a copy of t with every provided field of p written over it.
// UpdatedAt is not touched; stamping it is the store's job.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
	return t
}

// CompletedPatch returns a patch that only sets the completion flag.
func CompletedPatch(done bool) Patch {
	return Patch{IsCompleted: &done}
}

// PriorityPatch returns a patch that only sets the priority.
func PriorityPatch(p Priority) Patch {
	return Patch{Priority: &p}
}
