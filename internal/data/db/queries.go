package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX, dialect Dialect) *Queries {
	return &Queries{db: db, dialect: dialect}
}

type Queries struct {
	db      DBTX
	dialect Dialect
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx, dialect: q.dialect}
}

const taskColumns = `id, title, description, is_completed, due_date, category, priority, tags, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var i Task
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Description,
		&i.IsCompleted,
		&i.DueDate,
		&i.Category,
		&i.Priority,
		&i.Tags,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listTasks = `SELECT ` + taskColumns + `
FROM tasks
ORDER BY created_at DESC, id DESC
LIMIT ?`

func (q *Queries) ListTasks(ctx context.Context, limit int64) ([]Task, error) {
	rows, err := q.db.QueryContext(ctx, q.dialect.Rebind(listTasks), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Task
	for rows.Next() {
		i, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTask = `SELECT ` + taskColumns + `
FROM tasks
WHERE id = ?`

func (q *Queries) GetTask(ctx context.Context, id int64) (Task, error) {
	row := q.db.QueryRowContext(ctx, q.dialect.Rebind(getTask), id)
	return scanTask(row)
}

const createTask = `INSERT INTO tasks (title, description, is_completed, due_date, category, priority, tags, created_at, updated_at)
VALUES (?, ?, 0, ?, ?, ?, ?, ?, ?)
RETURNING ` + taskColumns

type CreateTaskParams struct {
	Title       string
	Description string
	DueDate     sql.NullString
	Category    string
	Priority    string
	Tags        string
	CreatedAt   int64
	UpdatedAt   int64
}

func (q *Queries) CreateTask(ctx context.Context, arg CreateTaskParams) (Task, error) {
	row := q.db.QueryRowContext(ctx, q.dialect.Rebind(createTask),
		arg.Title,
		arg.Description,
		arg.DueDate,
		arg.Category,
		arg.Priority,
		arg.Tags,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanTask(row)
}

const updateTask = `UPDATE tasks
SET title = ?, description = ?, is_completed = ?, due_date = ?, category = ?, priority = ?, tags = ?, updated_at = ?
WHERE id = ?
RETURNING ` + taskColumns

type UpdateTaskParams struct {
	ID          int64
	Title       string
	Description string
	IsCompleted int64
	DueDate     sql.NullString
	Category    string
	Priority    string
	Tags        string
	UpdatedAt   int64
}

func (q *Queries) UpdateTask(ctx context.Context, arg UpdateTaskParams) (Task, error) {
	row := q.db.QueryRowContext(ctx, q.dialect.Rebind(updateTask),
		arg.Title,
		arg.Description,
		arg.IsCompleted,
		arg.DueDate,
		arg.Category,
		arg.Priority,
		arg.Tags,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanTask(row)
}

const deleteTask = `DELETE FROM tasks WHERE id = ?`

// DeleteTask returns the number of rows removed.
func (q *Queries) DeleteTask(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, q.dialect.Rebind(deleteTask), id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countTasks = `SELECT COUNT(*) FROM tasks`

func (q *Queries) CountTasks(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countTasks).Scan(&count)
	return count, err
}

const insertNotification = `INSERT INTO notifications (level, message, created_at)
VALUES (?, ?, ?)
RETURNING id`

type InsertNotificationParams struct {
	Level     string
	Message   string
	CreatedAt int64
}

func (q *Queries) InsertNotification(ctx context.Context, arg InsertNotificationParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, q.dialect.Rebind(insertNotification),
		arg.Level, arg.Message, arg.CreatedAt,
	).Scan(&id)
	return id, err
}

const listNotifications = `SELECT id, level, message, created_at
FROM notifications
ORDER BY created_at DESC, id DESC
LIMIT ?`

func (q *Queries) ListNotifications(ctx context.Context, limit int64) ([]Notification, error) {
	rows, err := q.db.QueryContext(ctx, q.dialect.Rebind(listNotifications), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Notification
	for rows.Next() {
		var i Notification
		if err := rows.Scan(&i.ID, &i.Level, &i.Message, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const pruneNotifications = `DELETE FROM notifications
WHERE id NOT IN (
    SELECT id FROM notifications
    ORDER BY created_at DESC, id DESC
    LIMIT ?
)`

// PruneNotifications keeps the newest keep notifications and reports how
// many were deleted.
func (q *Queries) PruneNotifications(ctx context.Context, keep int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, q.dialect.Rebind(pruneNotifications), keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteAllNotifications = `DELETE FROM notifications`

func (q *Queries) DeleteAllNotifications(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllNotifications)
	return err
}

const countNotifications = `SELECT COUNT(*) FROM notifications`

func (q *Queries) CountNotifications(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countNotifications).Scan(&count)
	return count, err
}
