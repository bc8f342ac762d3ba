package dailyflow

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/dailyflow/internal/core/config"
	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/data/db"
)

func testConfig(t *testing.T, backend config.Backend) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Backend = backend
	return &cfg
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendSQLite)

	app, err := Open(ctx, cfg, BuildInfo{Version: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	created, err := app.Tasks.Create(ctx, task.Draft{Title: "Buy milk"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	history, err := app.Bus.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, MsgCreated, history[0].Message)

	assert.Equal(t, filepath.Join(cfg.DataDir, db.FileName), app.StorePath())
}

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	app, err := Open(ctx, testConfig(t, config.BackendMemory), BuildInfo{})
	require.NoError(t, err)

	assert.Nil(t, app.DB)
	assert.Empty(t, app.StorePath())

	_, err = app.Tasks.Create(ctx, task.Draft{Title: "Stretch"})
	require.NoError(t, err)

	history, err := app.Bus.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.NoError(t, app.Close())
}

func TestOpen_RecoversCorruptDatabase(t *testing.T) {
	cfg := testConfig(t, config.BackendSQLite)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, db.FileName), bytes.Repeat([]byte("not a sqlite file "), 256), 0o600))

	app, err := Open(context.Background(), cfg, BuildInfo{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	matches, err := filepath.Glob(filepath.Join(cfg.DataDir, db.FileName+".corrupt.*"))
	require.NoError(t, err)
	assert.NotEmpty(t, matches, "corrupt file backed up")
}

func TestOpen_RemoteRequiresURL(t *testing.T) {
	_, err := Open(context.Background(), testConfig(t, config.BackendRemote), BuildInfo{})
	require.Error(t, err)
}
