package db

import "database/sql"

type Task struct {
	ID          int64
	Title       string
	Description string
	IsCompleted int64
	DueDate     sql.NullString
	Category    string
	Priority    string
	Tags        string
	CreatedAt   int64
	UpdatedAt   int64
}

type Notification struct {
	ID        int64
	Level     string
	Message   string
	CreatedAt int64
}
