package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/dailyflow/internal/core/task"
)

func sampleTask() task.Task {
	return task.Task{
		ID:          7,
		Title:       "Plan sprint",
		Description: "Review the backlog",
		DueDate:     "2026-03-12",
		Category:    task.CategoryWork,
		Priority:    task.PriorityHigh,
		Tags:        "planning, team",
	}
}

func TestNewTaskForm(t *testing.T) {
	t.Run("create form uses defaults", func(t *testing.T) {
		d := newTaskForm(nil, task.Draft{Category: task.CategoryHealth, Priority: task.PriorityLow})
		vals := d.Values()

		assert.Empty(t, vals[fieldTitle])
		assert.Equal(t, "Health", vals[fieldCategory])
		assert.Equal(t, "Low", vals[fieldPriority])
		assert.Empty(t, vals[fieldDueDate])
	})

	t.Run("create form falls back to task defaults", func(t *testing.T) {
		vals := newTaskForm(nil, task.Draft{}).Values()
		assert.Equal(t, string(task.DefaultCategory), vals[fieldCategory])
		assert.Equal(t, string(task.DefaultPriority), vals[fieldPriority])
	})

	t.Run("edit form is pre-populated", func(t *testing.T) {
		orig := sampleTask()
		vals := newTaskForm(&orig, task.Draft{}).Values()

		assert.Equal(t, "Plan sprint", vals[fieldTitle])
		assert.Equal(t, "Review the backlog", vals[fieldDescription])
		assert.Equal(t, "Work", vals[fieldCategory])
		assert.Equal(t, "High", vals[fieldPriority])
		assert.Equal(t, "2026-03-12", vals[fieldDueDate])
		assert.Equal(t, "planning, team", vals[fieldTags])
	})

	t.Run("timestamp due dates are shown as dates", func(t *testing.T) {
		orig := sampleTask()
		orig.DueDate = time.Date(2026, 3, 12, 12, 0, 0, 0, time.Local).Format(time.RFC3339)
		vals := newTaskForm(&orig, task.Draft{}).Values()
		assert.Equal(t, "2026-03-12", vals[fieldDueDate])
	})
}

func TestDraftFromValues(t *testing.T) {
	d := draftFromValues(map[string]string{
		fieldTitle:       "Buy milk",
		fieldDescription: "2%",
		fieldCategory:    "Shopping",
		fieldPriority:    "Low",
		fieldDueDate:     "2026-03-11",
		fieldTags:        "groceries",
	})

	assert.Equal(t, task.Draft{
		Title:       "Buy milk",
		Description: "2%",
		Category:    task.CategoryShopping,
		Priority:    task.PriorityLow,
		DueDate:     "2026-03-11",
		Tags:        "groceries",
	}, d)
}

func TestPatchFromValues(t *testing.T) {
	orig := sampleTask()
	unchanged := map[string]string{
		fieldTitle:       orig.Title,
		fieldDescription: orig.Description,
		fieldCategory:    string(orig.Category),
		fieldPriority:    string(orig.Priority),
		fieldDueDate:     orig.DueDate,
		fieldTags:        orig.Tags,
	}

	with := func(key, value string) map[string]string {
		out := make(map[string]string, len(unchanged))
		for k, v := range unchanged {
			out[k] = v
		}
		out[key] = value
		return out
	}

	t.Run("no changes", func(t *testing.T) {
		assert.True(t, patchFromValues(orig, unchanged).IsEmpty())
	})

	t.Run("whitespace only edits are ignored", func(t *testing.T) {
		assert.True(t, patchFromValues(orig, with(fieldTitle, "  Plan sprint ")).IsEmpty())
		assert.True(t, patchFromValues(orig, with(fieldTags, "planning,team")).IsEmpty())
	})

	t.Run("changed title only", func(t *testing.T) {
		p := patchFromValues(orig, with(fieldTitle, "Plan sprint 12"))
		require.NotNil(t, p.Title)
		assert.Equal(t, "Plan sprint 12", *p.Title)
		assert.Nil(t, p.Priority)
		assert.Nil(t, p.DueDate)
	})

	t.Run("cleared due date", func(t *testing.T) {
		p := patchFromValues(orig, with(fieldDueDate, ""))
		require.NotNil(t, p.DueDate)
		assert.Empty(t, *p.DueDate)
	})

	t.Run("changed priority", func(t *testing.T) {
		p := patchFromValues(orig, with(fieldPriority, "Low"))
		require.NotNil(t, p.Priority)
		assert.Equal(t, task.PriorityLow, *p.Priority)
	})
}

func TestApplyFieldError(t *testing.T) {
	d := newTaskForm(nil, task.Draft{})

	assert.True(t, applyFieldError(d, &task.ValidationError{Field: fieldDueDate, Message: "not a date"}))
	assert.Contains(t, d.View(), "not a date")

	assert.False(t, applyFieldError(d, task.ErrTransport))
	assert.False(t, applyFieldError(d, &task.ValidationError{Field: "patch", Message: "no fields"}))
}

func TestCheckDueDate(t *testing.T) {
	require.NoError(t, checkDueDate("2026-03-12"))
	require.Error(t, checkDueDate("next tuesday"))
}
