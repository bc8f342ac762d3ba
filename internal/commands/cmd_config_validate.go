package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/dailyflow/internal/core/config"
	"github.com/colonyops/dailyflow/internal/core/styles"
	"github.com/colonyops/dailyflow/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "dailyflow config validate [options]",
				Description: "Validates the configuration file, checking urls, durations, secrets and file paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// validationError is one failed field check.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validationResult is the JSON output of config validate.
type validationResult struct {
	Valid    bool                       `json:"valid"`
	Errors   []validationError          `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	result := validate(cmd.flags.Config, cmd.flags.ConfigPath)

	if cmd.format == "json" {
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, result); err != nil {
			return err
		}
	} else {
		writeValidation(c.Root().Writer, result)
	}

	if !result.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func validate(cfg *config.Config, configPath string) validationResult {
	result := validationResult{Warnings: cfg.Warnings()}

	err := cfg.ValidateDeep(configPath)
	if err == nil {
		result.Valid = true
		return result
	}

	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			result.Errors = append(result.Errors, validationError{Field: fe.Field, Message: fe.Err.Error()})
		}
		return result
	}

	result.Errors = append(result.Errors, validationError{Field: "config", Message: err.Error()})
	return result
}

func writeValidation(w io.Writer, r validationResult) {
	for _, warn := range r.Warnings {
		line := fmt.Sprintf("%s %s: %s", styles.IconNotifyWarning, warn.Category, warn.Message)
		_, _ = fmt.Fprintln(w, styles.TextWarningStyle.Render(line))
		if warn.Item != "" {
			_, _ = fmt.Fprintf(w, "  Item: %s\n", warn.Item)
		}
	}

	for _, e := range r.Errors {
		line := fmt.Sprintf("%s %s: %s", styles.IconNotifyError, e.Field, e.Message)
		_, _ = fmt.Fprintln(w, styles.TextErrorStyle.Render(line))
	}

	_, _ = fmt.Fprintln(w)
	if r.Valid {
		_, _ = fmt.Fprintln(w, styles.TextSuccessStyle.Render(styles.IconNotifySuccess+" Configuration is valid"))
		return
	}
	_, _ = fmt.Fprintln(w, styles.TextErrorStyle.Render(fmt.Sprintf("%d error(s) found", len(r.Errors))))
}
