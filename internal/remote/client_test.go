package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/data/memstore"
	"github.com/colonyops/dailyflow/internal/server"
)

func newPair(t *testing.T, secret string, seed ...task.Task) (*Client, *memstore.Store) {
	t.Helper()

	store := memstore.New(seed)
	srv := httptest.NewServer(server.New(store, server.WithJWTSecret(secret)).Handler())
	t.Cleanup(srv.Close)

	token := ""
	if secret != "" {
		var err error
		token, err = server.IssueToken(secret, "test", time.Hour, time.Now())
		require.NoError(t, err)
	}

	c, err := New(Options{BaseURL: srv.URL, Token: token})
	require.NoError(t, err)
	return c, store
}

func TestClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newPair(t, "")

	created, err := c.Create(ctx, task.Draft{Title: "Buy milk", Category: task.CategoryShopping, Tags: "errand"})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, task.CategoryShopping, created.Category)
	assert.Equal(t, task.PriorityMedium, created.Priority)

	got, err := c.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)

	toggled, err := c.ToggleComplete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted)

	empty := ""
	updated, err := c.Update(ctx, created.ID, task.Patch{DueDate: &empty, Tags: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)
	assert.True(t, updated.IsCompleted, "fields absent from the patch are untouched")

	all, err := c.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	ok, err := c.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClient_ErrorMapping(t *testing.T) {
	ctx := context.Background()
	c, _ := newPair(t, "")

	_, err := c.GetByID(ctx, 77)
	assert.ErrorIs(t, err, task.ErrNotFound)

	_, err = c.ToggleComplete(ctx, 5)
	assert.ErrorIs(t, err, task.ErrNotFound)

	_, err = c.Create(ctx, task.Draft{Title: " "})
	var verr *task.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	_, err = c.Delete(ctx, 77)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestClient_Bulk(t *testing.T) {
	ctx := context.Background()
	c, store := newPair(t, "",
		task.Task{ID: 1, Title: "A", Priority: task.PriorityLow},
		task.Task{ID: 2, Title: "B", Priority: task.PriorityLow},
	)

	out, err := c.BulkUpdate(ctx, []int64{1, 3}, task.PriorityPatch(task.PriorityHigh))
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.True(t, out[0].OK())
	assert.Equal(t, task.PriorityHigh, out[0].Task.Priority)
	assert.ErrorIs(t, out[1].Err, task.ErrNotFound)

	out, err = c.BulkDelete(ctx, []int64{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, task.SucceededIDs(out))

	_, err = store.GetByID(ctx, 2)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestClient_BearerToken(t *testing.T) {
	c, _ := newPair(t, "secret")
	_, err := c.GetAll(context.Background())
	require.NoError(t, err)

	anon, err := New(Options{BaseURL: c.base.String()})
	require.NoError(t, err)
	_, err = anon.GetAll(context.Background())
	assert.ErrorIs(t, err, task.ErrTransport)
}

func TestClient_DeleteNotApplied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": false, "message": "locked"}`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	ok, err := c.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_ListQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data": [{"Id": 1, "Name": "legacy"}]}`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	tasks, err := c.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "limit=100&order=CreatedOn.desc", gotQuery)
	require.Len(t, tasks, 1)
	assert.Equal(t, "legacy", tasks[0].Title)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.GetAll(context.Background())
	assert.ErrorIs(t, err, task.ErrTransport)

	srv.Close()
	_, err = c.GetAll(context.Background())
	assert.ErrorIs(t, err, task.ErrTransport)
}

func TestClient_TimeoutIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, c.http.Timeout)

	start := time.Now()
	_, err = c.GetAll(context.Background())
	assert.ErrorIs(t, err, task.ErrTransport)
	assert.Less(t, time.Since(start), 5*time.Second)

	c, err = New(Options{BaseURL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, c.http.Timeout)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	_, err = New(Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
}
