package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/dailyflow/internal/core/task"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := New(nil, WithClock(fixedClock()))

	a, err := s.Create(ctx, task.Draft{Title: "A"})
	require.NoError(t, err)
	b, err := s.Create(ctx, task.Draft{Title: "B", Priority: task.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.Equal(t, task.CategoryPersonal, a.Category)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, []int64{all[0].ID, all[1].ID})

	done, err := s.ToggleComplete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)
	assert.True(t, done.UpdatedAt.After(a.UpdatedAt), "UpdatedAt advances even with a frozen clock")

	ok, err := s.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, task.ErrNotFound)

	_, err = s.ToggleComplete(ctx, 5)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestStore_RejectsBlankTitle(t *testing.T) {
	s := New(nil)
	_, err := s.Create(context.Background(), task.Draft{Title: "  "})
	assert.ErrorIs(t, err, task.ErrValidation)

	all, _ := s.GetAll(context.Background())
	assert.Empty(t, all)
}

func TestStore_Bulk(t *testing.T) {
	ctx := context.Background()
	s := New([]task.Task{
		{ID: 1, Title: "A", Priority: task.PriorityLow},
		{ID: 2, Title: "B", Priority: task.PriorityLow},
	})

	out, err := s.BulkUpdate(ctx, []int64{1, 9}, task.PriorityPatch(task.PriorityHigh))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].OK())
	assert.Equal(t, task.PriorityHigh, out[0].Task.Priority)
	assert.ErrorIs(t, out[1].Err, task.ErrNotFound)

	out, err = s.BulkDelete(ctx, []int64{2, 9})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, task.SucceededIDs(out))

	next, err := s.Create(ctx, task.Draft{Title: "C"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), next.ID, "ids continue after the seeded maximum")
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).GetAll(ctx)
	assert.ErrorIs(t, err, task.ErrTransport)
}
