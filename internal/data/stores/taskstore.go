package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/data/db"
)

// TaskStore implements task.Repository on top of the SQL database.
type TaskStore struct {
	db  *db.DB
	now func() time.Time
}

var _ task.Repository = (*TaskStore)(nil)

// NewTaskStore creates a new SQL-backed task store.
func NewTaskStore(db *db.DB) *TaskStore {
	return &TaskStore{db: db, now: time.Now}
}

// GetAll returns up to task.ListLimit tasks, newest first.
func (s *TaskStore) GetAll(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.Queries().ListTasks(ctx, task.ListLimit)
	if err != nil {
		return nil, task.TransportError("list tasks", err)
	}

	tasks := make([]task.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, rowToTask(row))
	}
	return tasks, nil
}

// GetByID returns a single task.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (task.Task, error) {
	row, err := s.db.Queries().GetTask(ctx, id)
	if IsNotFoundError(err) {
		return task.Task{}, task.NotFoundError(id)
	}
	if err != nil {
		return task.Task{}, task.TransportError("get task", err)
	}
	return rowToTask(row), nil
}

// Create validates and stores a new task.
func (s *TaskStore) Create(ctx context.Context, d task.Draft) (task.Task, error) {
	d, err := task.ValidateDraft(d)
	if err != nil {
		return task.Task{}, err
	}

	now := s.now().UnixNano()
	row, err := s.db.Queries().CreateTask(ctx, db.CreateTaskParams{
		Title:       d.Title,
		Description: d.Description,
		DueDate:     nullString(d.DueDate),
		Category:    string(d.Category),
		Priority:    string(d.Priority),
		Tags:        d.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return task.Task{}, task.TransportError("create task", err)
	}

	return rowToTask(row), nil
}

// Update applies the provided fields of p to the task.
func (s *TaskStore) Update(ctx context.Context, id int64, p task.Patch) (task.Task, error) {
	p, err := task.ValidatePatch(p)
	if err != nil {
		return task.Task{}, err
	}

	var updated task.Task
	err = s.db.WithTx(ctx, func(q *db.Queries) error {
		var err error
		updated, err = s.patch(ctx, q, id, func(task.Task) task.Patch { return p })
		return err
	})
	if err != nil {
		return task.Task{}, s.wrap("update task", err)
	}
	return updated, nil
}

// Delete removes a task. Returns an error wrapping task.ErrNotFound when the
// id does not exist.
func (s *TaskStore) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := s.db.Queries().DeleteTask(ctx, id)
	if err != nil {
		return false, task.TransportError("delete task", err)
	}
	if n == 0 {
		return false, task.NotFoundError(id)
	}
	return true, nil
}

// ToggleComplete flips the completion flag inside a single transaction.
func (s *TaskStore) ToggleComplete(ctx context.Context, id int64) (task.Task, error) {
	var updated task.Task
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		var err error
		updated, err = s.patch(ctx, q, id, func(cur task.Task) task.Patch {
			return task.CompletedPatch(!cur.IsCompleted)
		})
		return err
	})
	if err != nil {
		return task.Task{}, s.wrap("toggle task", err)
	}
	return updated, nil
}

// BulkUpdate applies p to every id in one transaction. Missing ids are
// reported in their Outcome; any other failure aborts the whole batch.
func (s *TaskStore) BulkUpdate(ctx context.Context, ids []int64, p task.Patch) ([]task.Outcome, error) {
	p, err := task.ValidatePatch(p)
	if err != nil {
		return nil, err
	}

	outcomes := make([]task.Outcome, 0, len(ids))
	err = s.db.WithTx(ctx, func(q *db.Queries) error {
		for _, id := range ids {
			updated, err := s.patch(ctx, q, id, func(task.Task) task.Patch { return p })
			switch {
			case errors.Is(err, task.ErrNotFound):
				outcomes = append(outcomes, task.Outcome{ID: id, Err: err})
			case err != nil:
				return err
			default:
				outcomes = append(outcomes, task.Outcome{ID: id, Task: &updated})
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.wrap("bulk update tasks", err)
	}
	return outcomes, nil
}

// BulkDelete removes every id in one transaction.
func (s *TaskStore) BulkDelete(ctx context.Context, ids []int64) ([]task.Outcome, error) {
	outcomes := make([]task.Outcome, 0, len(ids))
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		for _, id := range ids {
			n, err := q.DeleteTask(ctx, id)
			if err != nil {
				return err
			}
			if n == 0 {
				outcomes = append(outcomes, task.Outcome{ID: id, Err: task.NotFoundError(id)})
				continue
			}
			outcomes = append(outcomes, task.Outcome{ID: id})
		}
		return nil
	})
	if err != nil {
		return nil, task.TransportError("bulk delete tasks", err)
	}
	return outcomes, nil
}

// Count returns the number of stored tasks.
func (s *TaskStore) Count(ctx context.Context) (int64, error) {
	n, err := s.db.Queries().CountTasks(ctx)
	if err != nil {
		return 0, task.TransportError("count tasks", err)
	}
	return n, nil
}

// patch reads the task, applies the patch built from it and writes it back.
func (s *TaskStore) patch(ctx context.Context, q *db.Queries, id int64, build func(task.Task) task.Patch) (task.Task, error) {
	row, err := q.GetTask(ctx, id)
	if IsNotFoundError(err) {
		return task.Task{}, task.NotFoundError(id)
	}
	if err != nil {
		return task.Task{}, err
	}

	cur := rowToTask(row)
	next := build(cur).Apply(cur)

	completed := int64(0)
	if next.IsCompleted {
		completed = 1
	}

	row, err = q.UpdateTask(ctx, db.UpdateTaskParams{
		ID:          id,
		Title:       next.Title,
		Description: next.Description,
		IsCompleted: completed,
		DueDate:     nullString(next.DueDate),
		Category:    string(next.Category),
		Priority:    string(next.Priority),
		Tags:        next.Tags,
		UpdatedAt:   s.stamp(row.UpdatedAt),
	})
	if err != nil {
		return task.Task{}, err
	}

	return rowToTask(row), nil
}

// stamp returns the current time in nanoseconds, moved past prev so every
// mutation yields a strictly newer UpdatedAt.
func (s *TaskStore) stamp(prev int64) int64 {
	now := s.now().UnixNano()
	if now <= prev {
		return prev + 1
	}
	return now
}

// wrap passes domain errors through and marks everything else as a
// transport failure.
func (s *TaskStore) wrap(op string, err error) error {
	if errors.Is(err, task.ErrNotFound) || errors.Is(err, task.ErrValidation) {
		return err
	}
	if IsBusyError(err) {
		return task.TransportError(op, fmt.Errorf("database busy: %w", err))
	}
	return task.TransportError(op, err)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// rowToTask converts a db.Task to a task.Task.
func rowToTask(row db.Task) task.Task {
	return task.Task{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		IsCompleted: row.IsCompleted != 0,
		DueDate:     row.DueDate.String,
		Category:    task.Category(row.Category),
		Priority:    task.Priority(row.Priority),
		Tags:        row.Tags,
		CreatedAt:   time.Unix(0, row.CreatedAt),
		UpdatedAt:   time.Unix(0, row.UpdatedAt),
	}
}
