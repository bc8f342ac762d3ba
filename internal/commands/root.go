package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/dailyflow/internal/dailyflow"
)

// NewRoot builds the dailyflow command tree. app is populated by the
// caller's Before hook; commands only dereference it when they run.
func NewRoot(flags *Flags, app *dailyflow.App, version string) *cli.Command {
	root := &cli.Command{
		Name:      "dailyflow",
		Usage:     "Plan and track daily tasks",
		UsageText: "dailyflow [global options] command [command options]",
		Description: `DailyFlow keeps a personal task list with due dates, categories, priorities
and tags, stored locally in sqlite or shared through postgres or a remote
dailyflow server.

Run 'dailyflow' with no arguments to open the interactive task manager.
Run 'dailyflow task add' to create a task from the command line.`,
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("DAILYFLOW_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/dailyflow.log)",
				Sources:     cli.EnvVars("DAILYFLOW_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("DAILYFLOW_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("DAILYFLOW_DATA_DIR"),
				Value:       DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
	}

	tuiCmd := NewTuiCmd(flags, app)

	root = NewTaskCmd(flags, app).Register(root)
	root = NewStatsCmd(flags, app).Register(root)
	root = NewServeCmd(flags, app).Register(root)
	root = NewTokenCmd(flags, app).Register(root)
	root = NewConfigValidateCmd(flags).Register(root)

	// Register TUI flags on root command
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'dailyflow --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	return root
}
