package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/dailyflow/internal/commands"
	"github.com/colonyops/dailyflow/internal/core/config"
	"github.com/colonyops/dailyflow/internal/core/logging"
	"github.com/colonyops/dailyflow/internal/core/styles"
	"github.com/colonyops/dailyflow/internal/dailyflow"
	"github.com/colonyops/dailyflow/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, buildInfo falls back
	// to runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func buildInfo() dailyflow.BuildInfo {
	v, c, d := version, commit, date

	// ldflags aren't set by `go install module@version`, so version remains
	// "dev". Go records the module version and VCS metadata itself.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	if len(c) > 7 {
		c = c[:7]
	}

	return dailyflow.BuildInfo{Version: v, Commit: c, Date: d}
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		app       = &dailyflow.App{}
		flags     = &commands.Flags{}
		build     = buildInfo()
	)

	root := commands.NewRoot(flags, app, fmt.Sprintf("%s (%s) %s", build.Version, build.Commit, build.Date))

	root.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		// Always log to a file; the TUI owns the terminal.
		logFile := flags.LogFile
		if logFile == "" {
			logFile = filepath.Join(flags.DataDir, "dailyflow.log")
		}

		logger, closer, err := logutils.New(flags.LogLevel, logFile, logging.ContextHook{})
		if err != nil {
			return ctx, fmt.Errorf("setup logger: %w", err)
		}
		log.Logger = logger
		logCloser = closer

		cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
		if err != nil {
			return ctx, fmt.Errorf("load config: %w", err)
		}
		flags.Config = cfg

		// Apply configured theme (validation ensures name is valid)
		palette, _ := styles.GetPalette(cfg.TUI.Theme)
		styles.SetTheme(palette)

		opened, err := dailyflow.Open(ctx, cfg, build)
		if err != nil {
			return ctx, err
		}

		// Populate the pre-allocated App struct (commands already hold a pointer to it)
		*app = *opened

		return ctx, nil
	}

	root.After = func(ctx context.Context, c *cli.Command) error {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
			return err
		}

		if logCloser != nil {
			logCloser()
		}
		return nil
	}

	exitCode := 0
	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
