package stores

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/dailyflow/internal/core/task"
)

// newTestTaskStore returns a store whose clock advances one second per call.
func newTestTaskStore(t *testing.T) *TaskStore {
	t.Helper()
	store := NewTaskStore(openTestDB(t))

	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	var tick atomic.Int64
	store.now = func() time.Time {
		return base.Add(time.Duration(tick.Add(1)) * time.Second)
	}
	return store
}

func mustCreate(t *testing.T, store *TaskStore, title string) task.Task {
	t.Helper()
	created, err := store.Create(context.Background(), task.Draft{Title: title})
	require.NoError(t, err)
	return created
}

func TestTaskStore_Create(t *testing.T) {
	ctx := context.Background()
	store := newTestTaskStore(t)

	created, err := store.Create(ctx, task.Draft{
		Title:    "  Dentist ",
		DueDate:  "2026-03-20",
		Category: task.CategoryHealth,
		Tags:     "appointment,  health",
	})
	require.NoError(t, err)

	assert.Positive(t, created.ID)
	assert.Equal(t, "Dentist", created.Title)
	assert.False(t, created.IsCompleted)
	assert.Equal(t, "2026-03-20", created.DueDate)
	assert.Equal(t, task.CategoryHealth, created.Category)
	assert.Equal(t, task.PriorityMedium, created.Priority)
	assert.Equal(t, "appointment, health", created.Tags)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
}

func TestTaskStore_CreateRejectsBlankTitle(t *testing.T) {
	ctx := context.Background()
	store := newTestTaskStore(t)

	_, err := store.Create(ctx, task.Draft{Title: "   "})
	require.ErrorIs(t, err, task.ErrValidation)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTaskStore_GetAll_NewestFirstAndLimited(t *testing.T) {
	ctx := context.Background()
	store := newTestTaskStore(t)

	for range task.ListLimit + 3 {
		mustCreate(t, store, "task")
	}
	newest := mustCreate(t, store, "newest")

	tasks, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, task.ListLimit)
	assert.Equal(t, newest.ID, tasks[0].ID)

	for i := 1; i < len(tasks); i++ {
		assert.False(t, tasks[i].CreatedAt.After(tasks[i-1].CreatedAt))
	}
}

func TestTaskStore_GetByID_NotFound(t *testing.T) {
	store := newTestTaskStore(t)
	_, err := store.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestTaskStore_Update(t *testing.T) {
	ctx := context.Background()
	store := newTestTaskStore(t)
	created := mustCreate(t, store, "Original")

	title := "Renamed"
	updated, err := store.Update(ctx, created.ID, task.Patch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, created.Category, updated.Category)
	assert.Equal(t, created.Priority, updated.Priority)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	t.Run("clears due date", func(t *testing.T) {
		due := "2026-04-01"
		withDue, err := store.Update(ctx, created.ID, task.Patch{DueDate: &due})
		require.NoError(t, err)
		assert.Equal(t, due, withDue.DueDate)

		empty := ""
		cleared, err := store.Update(ctx, created.ID, task.Patch{DueDate: &empty})
		require.NoError(t, err)
		assert.Empty(t, cleared.DueDate)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.Update(ctx, 999, task.Patch{Title: &title})
		assert.ErrorIs(t, err, task.ErrNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := store.Update(ctx, created.ID, task.Patch{})
		assert.ErrorIs(t, err, task.ErrValidation)
	})
}

func TestTaskStore_ToggleComplete(t *testing.T) {
	ctx := context.Background()
	store := newTestTaskStore(t)
	created := mustCreate(t, store, "Flip")

	done, err := store.ToggleComplete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)

	undone, err := store.ToggleComplete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, undone.IsCompleted)
	assert.True(t, undone.UpdatedAt.After(done.UpdatedAt))

	_, err = store.ToggleComplete(ctx, 5000)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestTaskStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestTaskStore(t)
	created := mustCreate(t, store, "Remove")

	ok, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = store.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, task.ErrNotFound)

	ok, err = store.Delete(ctx, created.ID)
	assert.False(t, ok)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestTaskStore_BulkUpdate_PartialSuccess(t *testing.T) {
	ctx := context.Background()
	store := newTestTaskStore(t)
	a := mustCreate(t, store, "A")
	b := mustCreate(t, store, "B")

	outcomes, err := store.BulkUpdate(ctx, []int64{a.ID, 777, b.ID}, task.PriorityPatch(task.PriorityHigh))
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.True(t, outcomes[0].OK())
	assert.Equal(t, task.PriorityHigh, outcomes[0].Task.Priority)
	assert.ErrorIs(t, outcomes[1].Err, task.ErrNotFound)
	assert.Equal(t, int64(777), outcomes[1].ID)
	assert.True(t, outcomes[2].OK())

	assert.Equal(t, []int64{a.ID, b.ID}, task.SucceededIDs(outcomes))
	assert.Len(t, task.Failed(outcomes), 1)

	got, err := store.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, task.PriorityHigh, got.Priority)
}

func TestTaskStore_BulkUpdate_InvalidPatch(t *testing.T) {
	store := newTestTaskStore(t)
	a := mustCreate(t, store, "A")

	_, err := store.BulkUpdate(context.Background(), []int64{a.ID}, task.PriorityPatch("Urgent"))
	assert.ErrorIs(t, err, task.ErrValidation)
}

func TestTaskStore_BulkDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestTaskStore(t)
	a := mustCreate(t, store, "A")
	b := mustCreate(t, store, "B")
	keep := mustCreate(t, store, "Keep")

	outcomes, err := store.BulkDelete(ctx, []int64{a.ID, 9999, b.ID})
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID}, task.SucceededIDs(outcomes))
	assert.ErrorIs(t, outcomes[1].Err, task.ErrNotFound)

	tasks, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, keep.ID, tasks[0].ID)
}
