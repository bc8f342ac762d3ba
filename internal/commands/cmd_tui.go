package commands

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/dailyflow/internal/core/config"
	"github.com/colonyops/dailyflow/internal/core/logging"
	"github.com/colonyops/dailyflow/internal/dailyflow"
	"github.com/colonyops/dailyflow/internal/tui"
	"github.com/colonyops/dailyflow/pkg/profiler"
	"github.com/colonyops/dailyflow/pkg/utils"
)

// deferredLineLimit caps the output held back until the TUI exits.
const deferredLineLimit = 50

type TuiCmd struct {
	flags *Flags
	app   *dailyflow.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *dailyflow.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("DAILYFLOW_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, c *cli.Command) error {
	// Anything written here is shown once the alternate screen is gone.
	deferred := &utils.DeferredWriter{MaxLines: deferredLineLimit}
	defer func() { _ = deferred.Flush(c.Root().ErrWriter) }()

	// Warnings logged while the TUI owns the screen are repeated after it exits.
	prevLogger := log.Logger
	log.Logger = log.Logger.Hook(logging.EchoHook{W: deferred, Min: zerolog.WarnLevel})
	defer func() { log.Logger = prevLogger }()

	for _, w := range cmd.app.Config.Warnings() {
		_, _ = fmt.Fprintf(deferred, "warning: %s: %s\n", w.Category, w.Message)
	}

	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", profServer.URL()).
			Msg("profiler endpoint available")
	}

	opts := tui.Options{
		Bus: cmd.app.Bus,
		Build: tui.BuildInfo{
			Version: cmd.app.Build.Version,
			Commit:  cmd.app.Build.Commit,
			Date:    cmd.app.Build.Date,
		},
	}

	// A local sqlite file is watched; shared backends are polled.
	switch cfg := cmd.app.Config; cfg.Backend {
	case config.BackendSQLite:
		if path := cmd.app.StorePath(); path != "" && cfg.TUI.WatchStoreEnabled() {
			watcher := dailyflow.NewStoreWatcher(path)
			defer func() {
				if err := watcher.Close(); err != nil {
					log.Warn().Err(err).Msg("close store watcher")
				}
			}()
			opts.Watcher = watcher
		}
	case config.BackendPostgres, config.BackendRemote:
		opts.RefreshInterval = cfg.TUI.RefreshInterval
	}

	m := tui.New(cmd.app.Tasks, cmd.app.Config, opts)
	defer m.Close()
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
