package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/dailyflow/internal/data/db"
)

func TestQuarantineDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, db.FileName)
	now := time.Date(2025, 3, 7, 14, 30, 5, 0, time.UTC)

	require.NoError(t, os.WriteFile(dbPath, []byte("not a database"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal"), 0o644))

	moved, err := QuarantineDatabase(dir, now)
	require.NoError(t, err)

	want := filepath.Join(dir, db.FileName+".corrupt.20250307-143005")
	assert.Equal(t, want, moved)
	assert.FileExists(t, want)
	assert.FileExists(t, want+"-wal")
	assert.NoFileExists(t, want+"-shm", "missing sidecars are skipped")
	assert.NoFileExists(t, dbPath)
	assert.NoFileExists(t, dbPath+"-wal")

	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err, "a fresh database can be created afterwards")
	_ = database.Close()
}

func TestQuarantineDatabase_NothingToMove(t *testing.T) {
	dir := t.TempDir()

	moved, err := QuarantineDatabase(dir, time.Now())
	require.NoError(t, err)
	assert.Empty(t, moved)

	files, _ := filepath.Glob(filepath.Join(dir, "*.corrupt.*"))
	assert.Empty(t, files)
}

func TestErrorClassifiers(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		notFound  bool
		corrupted bool
	}{
		{name: "wrapped no rows", err: fmt.Errorf("get: %w", sql.ErrNoRows), notFound: true},
		{name: "malformed image", err: errors.New("open: database disk image is malformed"), corrupted: true},
		{name: "not a database", err: errors.New("file is not a database (26)"), corrupted: true},
		{name: "constraint", err: errors.New("constraint failed")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.corrupted, IsCorruptionError(tt.err))
			assert.False(t, IsBusyError(tt.err))
		})
	}
}
