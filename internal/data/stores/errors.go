package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/colonyops/dailyflow/internal/data/db"
)

// corruptMessages are driver messages seen for damaged files that do not
// always surface as a typed sqlite error.
var corruptMessages = []string{
	"database disk image is malformed",
	"file is not a database",
	"database corruption",
}

// sidecarSuffixes are the files sqlite keeps next to the database in WAL
// mode. They must move together with it.
var sidecarSuffixes = []string{"", "-wal", "-shm"}

func sqliteCode(err error) (int, bool) {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return 0, false
	}
	return sqliteErr.Code(), true
}

// IsBusyError reports whether err is SQLITE_BUSY: another connection holds
// the write lock past the busy timeout.
func IsBusyError(err error) bool {
	code, ok := sqliteCode(err)
	return ok && code == sqlite3.SQLITE_BUSY
}

// IsCorruptionError reports whether err means the database file is unusable.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqliteCode(err); ok {
		return slices.Contains([]int{sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CANTOPEN}, code)
	}

	msg := err.Error()
	return slices.ContainsFunc(corruptMessages, func(m string) bool {
		return strings.Contains(msg, m)
	})
}

// IsNotFoundError reports whether err is a missing row.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// QuarantineDatabase renames the task database in dataDir, and its WAL and
// SHM files, to <name>.corrupt.<timestamp> so a fresh one can be created.
// It returns the new path of the main file, or "" when there was none.
// A sidecar that cannot be renamed is removed instead.
func QuarantineDatabase(dataDir string, now time.Time) (string, error) {
	dbPath := filepath.Join(dataDir, db.FileName)
	backupPath := filepath.Join(dataDir, fmt.Sprintf("%s.corrupt.%s", db.FileName, now.Format("20060102-150405")))

	moved := ""
	for _, suffix := range sidecarSuffixes {
		from, to := dbPath+suffix, backupPath+suffix

		err := os.Rename(from, to)
		switch {
		case err == nil:
			if suffix == "" {
				moved = to
			}
		case os.IsNotExist(err):
		case suffix == "":
			return "", fmt.Errorf("move corrupt database aside: %w", err)
		default:
			if rmErr := os.Remove(from); rmErr != nil && !os.IsNotExist(rmErr) {
				return moved, fmt.Errorf("move or remove %s: %w", filepath.Base(from), err)
			}
		}
	}

	return moved, nil
}
