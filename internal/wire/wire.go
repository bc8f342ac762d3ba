// Package wire defines the JSON records exchanged between the dailyflow
// server and its remote clients, and their mapping to the task domain.
package wire

import (
	"time"

	"github.com/colonyops/dailyflow/internal/core/task"
)

// Record is a task as stored by the remote backend.
type Record struct {
	ID          int64     `json:"Id"`
	Name        string    `json:"Name,omitempty"`
	Title       string    `json:"title_c,omitempty"`
	Description string    `json:"description_c,omitempty"`
	IsCompleted bool      `json:"is_completed_c"`
	DueDate     string    `json:"due_date_c,omitempty"`
	Category    string    `json:"category_c,omitempty"`
	Priority    string    `json:"priority_c,omitempty"`
	Tags        string    `json:"Tags,omitempty"`
	CreatedOn   time.Time `json:"CreatedOn"`
	ModifiedOn  time.Time `json:"ModifiedOn"`
}

// ToTask maps a record to a task. A missing title falls back to Name, and
// missing enums fall back to their defaults.
func (r Record) ToTask() task.Task {
	title := r.Title
	if title == "" {
		title = r.Name
	}

	category := task.Category(r.Category)
	if category == "" {
		category = task.DefaultCategory
	}

	priority := task.Priority(r.Priority)
	if priority == "" {
		priority = task.DefaultPriority
	}

	return task.Task{
		ID:          r.ID,
		Title:       title,
		Description: r.Description,
		IsCompleted: r.IsCompleted,
		DueDate:     r.DueDate,
		Category:    category,
		Priority:    priority,
		Tags:        r.Tags,
		CreatedAt:   r.CreatedOn,
		UpdatedAt:   r.ModifiedOn,
	}
}

// FromTask maps a task to a record. Name mirrors the title for backends that
// only index the label field.
func FromTask(t task.Task) Record {
	return Record{
		ID:          t.ID,
		Name:        t.Title,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		DueDate:     t.DueDate,
		Category:    string(t.Category),
		Priority:    string(t.Priority),
		Tags:        t.Tags,
		CreatedOn:   t.CreatedAt,
		ModifiedOn:  t.UpdatedAt,
	}
}

// CreateFields is the body of a create request.
type CreateFields struct {
	Name        string `json:"Name"`
	Title       string `json:"title_c"`
	Description string `json:"description_c,omitempty"`
	DueDate     string `json:"due_date_c,omitempty"`
	Category    string `json:"category_c,omitempty"`
	Priority    string `json:"priority_c,omitempty"`
	Tags        string `json:"Tags,omitempty"`
}

// FromDraft maps a draft to create fields.
func FromDraft(d task.Draft) CreateFields {
	return CreateFields{
		Name:        d.Title,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Category:    string(d.Category),
		Priority:    string(d.Priority),
		Tags:        d.Tags,
	}
}

// ToDraft maps create fields to a draft.
func (c CreateFields) ToDraft() task.Draft {
	title := c.Title
	if title == "" {
		title = c.Name
	}
	return task.Draft{
		Title:       title,
		Description: c.Description,
		DueDate:     c.DueDate,
		Category:    task.Category(c.Category),
		Priority:    task.Priority(c.Priority),
		Tags:        c.Tags,
	}
}

// PatchFields carries only the fields being changed. A present but empty
// due_date_c clears the due date.
type PatchFields struct {
	Title       *string `json:"title_c,omitempty"`
	Description *string `json:"description_c,omitempty"`
	IsCompleted *bool   `json:"is_completed_c,omitempty"`
	DueDate     *string `json:"due_date_c,omitempty"`
	Category    *string `json:"category_c,omitempty"`
	Priority    *string `json:"priority_c,omitempty"`
	Tags        *string `json:"Tags,omitempty"`
}

// FromPatch maps a domain patch to wire fields.
func FromPatch(p task.Patch) PatchFields {
	f := PatchFields{
		Title:       p.Title,
		Description: p.Description,
		IsCompleted: p.IsCompleted,
		DueDate:     p.DueDate,
		Tags:        p.Tags,
	}
	if p.Category != nil {
		c := string(*p.Category)
		f.Category = &c
	}
	if p.Priority != nil {
		pr := string(*p.Priority)
		f.Priority = &pr
	}
	return f
}

// ToPatch maps wire fields to a domain patch.
func (f PatchFields) ToPatch() task.Patch {
	p := task.Patch{
		Title:       f.Title,
		Description: f.Description,
		IsCompleted: f.IsCompleted,
		DueDate:     f.DueDate,
		Tags:        f.Tags,
	}
	if f.Category != nil {
		c := task.Category(*f.Category)
		p.Category = &c
	}
	if f.Priority != nil {
		pr := task.Priority(*f.Priority)
		p.Priority = &pr
	}
	return p
}

// DataResponse wraps a single record.
type DataResponse struct {
	Data Record `json:"data"`
}

// ListResponse wraps a listing.
type ListResponse struct {
	Data  []Record `json:"data"`
	Total int      `json:"total"`
}

// DeleteResponse reports whether a delete took effect.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// BulkUpdateRequest applies Fields to every id.
type BulkUpdateRequest struct {
	IDs    []int64     `json:"ids"`
	Fields PatchFields `json:"fields"`
}

// BulkDeleteRequest deletes every id.
type BulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// BulkResult is the outcome for one id of a bulk request.
type BulkResult struct {
	ID      int64   `json:"id"`
	Success bool    `json:"success"`
	Status  int     `json:"status,omitempty"`
	Message string  `json:"message,omitempty"`
	Data    *Record `json:"data,omitempty"`
}

// BulkResponse lists per-id outcomes in request order.
type BulkResponse struct {
	Results []BulkResult `json:"results"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

const (
	// ListOrder is the only ordering the list endpoint serves.
	ListOrder       = "CreatedOn.desc"
	ParamLimit      = "limit"
	ParamOrder      = "order"
	RequestIDHeader = "X-Request-ID"
)
