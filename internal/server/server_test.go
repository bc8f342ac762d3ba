package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/data/memstore"
	"github.com/colonyops/dailyflow/internal/wire"
)

func seeded() *memstore.Store {
	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	return memstore.New([]task.Task{
		{ID: 1, Title: "Old", Category: task.CategoryWork, Priority: task.PriorityLow, CreatedAt: base, UpdatedAt: base},
		{ID: 2, Title: "New", Category: task.CategoryHealth, Priority: task.PriorityMedium, CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)},
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestList(t *testing.T) {
	h := New(seeded()).Handler()

	rec := do(t, h, http.MethodGet, "/api/tasks?limit=100&order=CreatedOn.desc", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[wire.ListResponse](t, rec)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "New", resp.Data[0].Title)
	assert.Equal(t, "New", resp.Data[0].Name)
	assert.Equal(t, "Health", resp.Data[0].Category)

	rec = do(t, h, http.MethodGet, "/api/tasks?limit=1", nil)
	assert.Len(t, decodeBody[wire.ListResponse](t, rec).Data, 1)

	rec = do(t, h, http.MethodGet, "/api/tasks?order=Name.asc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "order", decodeBody[wire.ErrorResponse](t, rec).Field)
}

func TestCreate(t *testing.T) {
	h := New(seeded()).Handler()

	rec := do(t, h, http.MethodPost, "/api/tasks", wire.CreateFields{Title: "  Run  ", Priority: "High"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decodeBody[wire.DataResponse](t, rec).Data
	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, "Run", got.Title)
	assert.Equal(t, "Personal", got.Category)
	assert.False(t, got.IsCompleted)

	rec = do(t, h, http.MethodPost, "/api/tasks", wire.CreateFields{Title: "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title", decodeBody[wire.ErrorResponse](t, rec).Field)
}

func TestUpdateAndToggle(t *testing.T) {
	h := New(seeded()).Handler()

	title := "Renamed"
	rec := do(t, h, http.MethodPatch, "/api/tasks/1", wire.PatchFields{Title: &title})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[wire.DataResponse](t, rec).Data
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "Work", got.Category)

	rec = do(t, h, http.MethodPost, "/api/tasks/1/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[wire.DataResponse](t, rec).Data.IsCompleted)

	rec = do(t, h, http.MethodPatch, "/api/tasks/99", wire.PatchFields{Title: &title})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/tasks/1", wire.PatchFields{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDelete(t *testing.T) {
	h := New(seeded()).Handler()

	rec := do(t, h, http.MethodDelete, "/api/tasks/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[wire.DeleteResponse](t, rec).Success)

	rec = do(t, h, http.MethodDelete, "/api/tasks/2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBulk(t *testing.T) {
	h := New(seeded()).Handler()

	high := "High"
	rec := do(t, h, http.MethodPost, "/api/tasks/bulk-update", wire.BulkUpdateRequest{
		IDs:    []int64{1, 42},
		Fields: wire.PatchFields{Priority: &high},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	results := decodeBody[wire.BulkResponse](t, rec).Results
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	require.NotNil(t, results[0].Data)
	assert.Equal(t, "High", results[0].Data.Priority)
	assert.False(t, results[1].Success)
	assert.Equal(t, http.StatusNotFound, results[1].Status)

	rec = do(t, h, http.MethodPost, "/api/tasks/bulk-delete", wire.BulkDeleteRequest{IDs: []int64{2, 42}})
	require.Equal(t, http.StatusOK, rec.Code)
	results = decodeBody[wire.BulkResponse](t, rec).Results
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)

	rec = do(t, h, http.MethodPost, "/api/tasks/bulk-delete", wire.BulkDeleteRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestID(t *testing.T) {
	h := New(seeded()).Handler()

	rec := do(t, h, http.MethodGet, "/healthz", nil, wire.RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get(wire.RequestIDHeader))

	rec = do(t, h, http.MethodGet, "/healthz", nil)
	assert.Len(t, rec.Header().Get(wire.RequestIDHeader), 36)
}

func TestAuth(t *testing.T) {
	const secret = "s3cret"
	h := New(seeded(), WithJWTSecret(secret)).Handler()
	now := time.Now()

	rec := do(t, h, http.MethodGet, "/api/tasks", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "health stays open")

	token, err := IssueToken(secret, "cli", time.Hour, now)
	require.NoError(t, err)
	rec = do(t, h, http.MethodGet, "/api/tasks", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)

	wrong, err := IssueToken("other", "cli", time.Hour, now)
	require.NoError(t, err)
	rec = do(t, h, http.MethodGet, "/api/tasks", nil, "Authorization", "Bearer "+wrong)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, err := IssueToken(secret, "cli", time.Minute, now.Add(-time.Hour))
	require.NoError(t, err)
	rec = do(t, h, http.MethodGet, "/api/tasks", nil, "Authorization", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, err = IssueToken("", "cli", time.Hour, now)
	assert.Error(t, err)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(seeded()).ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
