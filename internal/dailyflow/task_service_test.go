package dailyflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/dailyflow/internal/core/notify"
	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/data/memstore"
)

type recorder struct {
	got []notify.Notification
}

func (r *recorder) Publish(n notify.Notification) { r.got = append(r.got, n) }

func (r *recorder) last(t *testing.T) notify.Notification {
	t.Helper()
	require.NotEmpty(t, r.got, "expected a notification")
	return r.got[len(r.got)-1]
}

// brokenRepo fails every call with a transport error.
type brokenRepo struct {
	*memstore.Store
	calls int
}

var errOffline = task.TransportError("request", errors.New("connection refused"))

func (b *brokenRepo) GetAll(context.Context) ([]task.Task, error) {
	b.calls++
	return nil, errOffline
}

func (b *brokenRepo) Create(context.Context, task.Draft) (task.Task, error) {
	b.calls++
	return task.Task{}, errOffline
}

func (b *brokenRepo) Update(context.Context, int64, task.Patch) (task.Task, error) {
	b.calls++
	return task.Task{}, errOffline
}

func (b *brokenRepo) BulkDelete(context.Context, []int64) ([]task.Outcome, error) {
	b.calls++
	return nil, errOffline
}

// noopDeleteRepo answers deletes without removing anything.
type noopDeleteRepo struct{ *memstore.Store }

func (noopDeleteRepo) Delete(context.Context, int64) (bool, error) { return false, nil }

func seed() []task.Task {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return []task.Task{
		{ID: 1, Title: "Buy milk", Category: task.CategoryShopping, Priority: task.PriorityLow, CreatedAt: base, UpdatedAt: base},
		{ID: 2, Title: "File taxes", Category: task.CategoryWork, Priority: task.PriorityHigh, CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)},
	}
}

func newService() (*TaskService, *recorder) {
	rec := &recorder{}
	return NewTaskService(memstore.New(seed()), rec), rec
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, rec := newService()
		created, err := svc.Create(ctx, task.Draft{Title: "  Walk the dog  ", Category: task.CategoryHealth})
		require.NoError(t, err)

		assert.Equal(t, "Walk the dog", created.Title)
		assert.Equal(t, task.PriorityMedium, created.Priority)
		assert.Equal(t, notify.Notification{Level: notify.LevelSuccess, Message: MsgCreated}, rec.last(t))
	})

	t.Run("blank title never reaches the repository", func(t *testing.T) {
		rec := &recorder{}
		repo := &brokenRepo{Store: memstore.New(nil)}
		svc := NewTaskService(repo, rec)

		_, err := svc.Create(ctx, task.Draft{Title: "   "})
		require.ErrorIs(t, err, task.ErrValidation)
		assert.Zero(t, repo.calls)
		assert.Equal(t, MsgTitleRequired, rec.last(t).Message)
		assert.Equal(t, notify.LevelError, rec.last(t).Level)
	})

	t.Run("other validation errors surface their message", func(t *testing.T) {
		svc, rec := newService()
		_, err := svc.Create(ctx, task.Draft{Title: "Plan", Priority: "Urgent"})
		require.Error(t, err)
		assert.Equal(t, err.Error(), rec.last(t).Message)
	})

	t.Run("transport failure", func(t *testing.T) {
		rec := &recorder{}
		svc := NewTaskService(&brokenRepo{Store: memstore.New(nil)}, rec)

		_, err := svc.Create(ctx, task.Draft{Title: "Plan"})
		require.ErrorIs(t, err, task.ErrTransport)
		assert.Equal(t, notify.Notification{Level: notify.LevelError, Message: MsgCreateFailed}, rec.last(t))
	})
}

func TestTaskService_Load(t *testing.T) {
	ctx := context.Background()

	svc, rec := newService()
	tasks, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Empty(t, rec.got, "loads are silent")

	broken := NewTaskService(&brokenRepo{Store: memstore.New(nil)}, rec)
	_, err = broken.Load(ctx)
	require.ErrorIs(t, err, task.ErrTransport)
	assert.Empty(t, rec.got, "load failures are shown by the caller")
}

func TestTaskService_UpdateAndToggle(t *testing.T) {
	ctx := context.Background()
	svc, rec := newService()

	title := "Buy oat milk"
	updated, err := svc.Update(ctx, 1, task.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, MsgUpdated, rec.last(t).Message)

	_, err = svc.Update(ctx, 1, task.Patch{})
	require.ErrorIs(t, err, task.ErrValidation)

	_, err = svc.Update(ctx, 99, task.Patch{Title: &title})
	require.ErrorIs(t, err, task.ErrNotFound)
	assert.Equal(t, MsgUpdateFailed, rec.last(t).Message)

	toggled, err := svc.Toggle(ctx, 2)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted)
	assert.Equal(t, MsgCompleted, rec.last(t).Message)

	toggled, err = svc.Toggle(ctx, 2)
	require.NoError(t, err)
	assert.False(t, toggled.IsCompleted)
	assert.Equal(t, MsgMarkedPending, rec.last(t).Message)

	_, err = svc.Toggle(ctx, 99)
	require.Error(t, err)
	assert.Equal(t, MsgToggleFailed, rec.last(t).Message)
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes task", func(t *testing.T) {
		svc, rec := newService()
		ok, err := svc.Delete(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, MsgDeleted, rec.last(t).Message)

		_, err = svc.Get(ctx, 1)
		require.ErrorIs(t, err, task.ErrNotFound)
	})

	t.Run("backend declined", func(t *testing.T) {
		rec := &recorder{}
		svc := NewTaskService(noopDeleteRepo{memstore.New(seed())}, rec)

		ok, err := svc.Delete(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, notify.Notification{Level: notify.LevelWarning, Message: MsgDeleteNotDone}, rec.last(t))
	})

	t.Run("missing id", func(t *testing.T) {
		svc, rec := newService()
		_, err := svc.Delete(ctx, 42)
		require.Error(t, err)
		assert.Equal(t, MsgDeleteFailed, rec.last(t).Message)
	})
}

func TestTaskService_Bulk(t *testing.T) {
	ctx := context.Background()

	t.Run("complete with partial failure", func(t *testing.T) {
		svc, rec := newService()
		out, err := svc.BulkComplete(ctx, []int64{1, 99, 2})
		require.NoError(t, err)

		assert.Equal(t, []int64{1, 2}, task.SucceededIDs(out))
		require.Len(t, rec.got, 2)
		assert.Equal(t, notify.Notification{Level: notify.LevelSuccess, Message: "2 tasks completed"}, rec.got[0])
		assert.Equal(t, notify.Notification{Level: notify.LevelWarning, Message: "1 task could not be completed"}, rec.got[1])
	})

	t.Run("set priority", func(t *testing.T) {
		svc, rec := newService()
		out, err := svc.BulkSetPriority(ctx, []int64{1}, task.PriorityHigh)
		require.NoError(t, err)
		require.Len(t, task.Succeeded(out), 1)
		assert.Equal(t, task.PriorityHigh, task.Succeeded(out)[0].Priority)
		assert.Equal(t, "1 task set to High priority", rec.last(t).Message)
	})

	t.Run("invalid priority rejected", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.BulkSetPriority(ctx, []int64{1}, "Urgent")
		require.ErrorIs(t, err, task.ErrValidation)
	})

	t.Run("nothing selected", func(t *testing.T) {
		svc, rec := newService()
		_, err := svc.BulkDelete(ctx, nil)
		require.EqualError(t, err, MsgNothingSelected)
		_, err = svc.BulkComplete(ctx, []int64{})
		require.EqualError(t, err, MsgNothingSelected)
		assert.Empty(t, rec.got)
	})

	t.Run("delete", func(t *testing.T) {
		svc, rec := newService()
		out, err := svc.BulkDelete(ctx, []int64{1, 2})
		require.NoError(t, err)
		assert.Empty(t, task.Failed(out))
		assert.Equal(t, "2 tasks deleted", rec.last(t).Message)

		tasks, err := svc.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("whole batch failure", func(t *testing.T) {
		rec := &recorder{}
		svc := NewTaskService(&brokenRepo{Store: memstore.New(seed())}, rec)
		_, err := svc.BulkDelete(ctx, []int64{1})
		require.ErrorIs(t, err, task.ErrTransport)
		assert.Equal(t, MsgBulkFailed, rec.last(t).Message)
	})
}

func TestTaskService_SetNotifier(t *testing.T) {
	svc := NewTaskService(memstore.New(nil), nil)
	_, err := svc.Create(context.Background(), task.Draft{Title: "quiet"})
	require.NoError(t, err)

	rec := &recorder{}
	svc.SetNotifier(rec)
	_, err = svc.Create(context.Background(), task.Draft{Title: "loud"})
	require.NoError(t, err)
	assert.Len(t, rec.got, 1)
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "0 tasks", Plural(0, "task"))
	assert.Equal(t, "1 task", Plural(1, "task"))
	assert.Equal(t, "3 tasks", Plural(3, "task"))
}
