// Package dailyflow wires the task repository selected by configuration to
// the services consumed by the CLI, the TUI and the HTTP server.
package dailyflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/dailyflow/internal/core/config"
	"github.com/colonyops/dailyflow/internal/core/notify"
	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/data/db"
	"github.com/colonyops/dailyflow/internal/data/memstore"
	"github.com/colonyops/dailyflow/internal/data/stores"
	"github.com/colonyops/dailyflow/internal/remote"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// App is the central entry point for all dailyflow operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Tasks  *TaskService
	Bus    *notify.Bus
	Config *config.Config
	Build  BuildInfo

	// DB is nil for the memory backend.
	DB *db.DB
}

// Open builds the repository named by cfg.Backend and the services on top of
// it. Notification history lives in the local sqlite database for the sqlite
// and remote backends, in postgres for the postgres backend and in memory for
// the memory backend.
func Open(ctx context.Context, cfg *config.Config, build BuildInfo) (*App, error) {
	var (
		repo     task.Repository
		database *db.DB
		err      error
	)

	dbOpts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	switch cfg.Backend {
	case config.BackendSQLite:
		database, err = openSQLite(cfg.DataDir, dbOpts)
		if err != nil {
			return nil, err
		}
		repo = stores.NewTaskStore(database)

	case config.BackendPostgres:
		database, err = db.OpenPostgres(cfg.Database.PostgresDSN, dbOpts)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		repo = stores.NewTaskStore(database)

	case config.BackendRemote:
		repo, err = remote.New(remote.Options{
			BaseURL: cfg.Remote.URL,
			Token:   cfg.Remote.Token,
			Timeout: cfg.Remote.Timeout,
		})
		if err != nil {
			return nil, err
		}
		database, err = openSQLite(cfg.DataDir, dbOpts)
		if err != nil {
			return nil, err
		}

	case config.BackendMemory:
		repo = memstore.New(nil)

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	var history notify.Store = notify.NewMemoryStore()
	if database != nil {
		history = stores.NewNotifyStore(database)
	}
	bus := notify.NewBus(history)

	log.Debug().Ctx(ctx).Str("backend", string(cfg.Backend)).Msg("app opened")

	return &App{
		Tasks:  NewTaskService(repo, bus),
		Bus:    bus,
		Config: cfg,
		Build:  build,
		DB:     database,
	}, nil
}

// openSQLite opens the local database, moving a corrupt file aside and
// starting fresh once before giving up.
func openSQLite(dataDir string, opts db.OpenOptions) (*db.DB, error) {
	database, err := db.Open(dataDir, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, fmt.Errorf("open database: %w", err)
	}

	moved, qerr := stores.QuarantineDatabase(dataDir, time.Now())
	if qerr != nil {
		return nil, errors.Join(fmt.Errorf("open database: %w", err), qerr)
	}
	log.Warn().Err(err).Str("backup", moved).Msg("database corrupt, moved aside and recreating")

	database, err = db.Open(dataDir, opts)
	if err != nil {
		return nil, fmt.Errorf("open database after recovery: %w", err)
	}
	return database, nil
}

// StorePath returns the sqlite file the TUI should watch for outside
// writes, or "" when tasks do not live in a local sqlite file.
func (a *App) StorePath() string {
	if a.Config.Backend != config.BackendSQLite || a.DB == nil {
		return ""
	}
	if p := a.DB.Path(); p != "" {
		return p
	}
	return filepath.Join(a.Config.DataDir, db.FileName)
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
