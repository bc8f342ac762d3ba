package task

import "context"

// ListLimit is the maximum number of records returned by GetAll.
const ListLimit = 100

// Repository is the source of truth for tasks. Every method may block on I/O
// and may fail with an error wrapping ErrTransport.
type Repository interface {
	// GetAll returns up to ListLimit tasks, newest-created first.
	GetAll(ctx context.Context) ([]Task, error)

	// GetByID returns the task or an error wrapping ErrNotFound.
	GetByID(ctx context.Context, id int64) (Task, error)

	// Create stores a validated draft. The repository assigns the identity,
	// sets IsCompleted to false and stamps both timestamps.
	Create(ctx context.Context, d Draft) (Task, error)

	// Update applies the provided fields of p, stamps UpdatedAt and returns
	// the full task. Returns an error wrapping ErrNotFound if id is absent.
	Update(ctx context.Context, id int64, p Patch) (Task, error)

	// Delete removes the task. A false result with a nil error means the
	// backend answered but did not remove the record.
	Delete(ctx context.Context, id int64) (bool, error)

	// ToggleComplete reads the task, flips IsCompleted and stores it.
	// Concurrent writers are last-write-wins.
	ToggleComplete(ctx context.Context, id int64) (Task, error)

	// BulkUpdate applies p to every id and reports one Outcome per id in
	// request order. The error is reserved for failures of the whole batch.
	BulkUpdate(ctx context.Context, ids []int64, p Patch) ([]Outcome, error)

	// BulkDelete removes every id and reports one Outcome per id in request
	// order. The error is reserved for failures of the whole batch.
	BulkDelete(ctx context.Context, ids []int64) ([]Outcome, error)
}

// Outcome is the per-identity result of a bulk operation.
type Outcome struct {
	ID   int64 `json:"id"`
	Task *Task `json:"task,omitempty"`
	Err  error `json:"-"`
}

// OK reports whether the operation succeeded for this identity.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Succeeded returns the tasks carried by successful outcomes.
func Succeeded(outcomes []Outcome) []Task {
	tasks := make([]Task, 0, len(outcomes))
	for _, o := range outcomes {
		if o.OK() && o.Task != nil {
			tasks = append(tasks, *o.Task)
		}
	}
	return tasks
}

// SucceededIDs returns the identities of successful outcomes.
func SucceededIDs(outcomes []Outcome) []int64 {
	ids := make([]int64, 0, len(outcomes))
	for _, o := range outcomes {
		if o.OK() {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// Failed returns the unsuccessful outcomes.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}
