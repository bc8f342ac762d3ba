package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/dailyflow/internal/core/config"
	"github.com/colonyops/dailyflow/internal/dailyflow"
	"github.com/colonyops/dailyflow/internal/server"
)

type ServeCmd struct {
	flags *Flags
	app   *dailyflow.App

	addr string
}

// NewServeCmd creates a new serve command.
func NewServeCmd(flags *Flags, app *dailyflow.App) *ServeCmd {
	return &ServeCmd{flags: flags, app: app}
}

// Register adds the serve command to the application.
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Serve the task API over HTTP",
		UsageText: "dailyflow serve [--addr host:port]",
		Description: `Exposes the configured backend over the HTTP task API used by the remote
backend, so another dailyflow can set backend: remote and point at this one.

When server.jwt_secret is set every /api request needs a bearer token issued
by 'dailyflow token'. Stops gracefully on SIGINT or SIGTERM.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (defaults to server.addr)",
				Sources:     cli.EnvVars("DAILYFLOW_SERVER_ADDR"),
				Destination: &cmd.addr,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.app.Config

	addr := cmd.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	if cfg.Backend == config.BackendRemote {
		log.Warn().Str("remote", cfg.Remote.URL).Msg("serving a remote backend proxies every request")
	}
	if cfg.Server.JWTSecret == "" {
		log.Warn().Msg("server.jwt_secret is empty, the task API is unauthenticated")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cmd.app.Tasks.Repository(), server.WithJWTSecret(cfg.Server.JWTSecret))

	_, _ = fmt.Fprintf(c.Root().ErrWriter, "dailyflow %s serving %s backend on http://%s\n",
		cmd.app.Build.Version, cfg.Backend, addr)
	return srv.ListenAndServe(ctx, addr)
}

type TokenCmd struct {
	flags *Flags
	app   *dailyflow.App

	subject string
	ttl     time.Duration
}

// NewTokenCmd creates a new token command.
func NewTokenCmd(flags *Flags, app *dailyflow.App) *TokenCmd {
	return &TokenCmd{flags: flags, app: app}
}

// Register adds the token command to the application.
func (cmd *TokenCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "token",
		Usage:     "Issue a bearer token for the task API",
		UsageText: "dailyflow token [--subject <name>] [--ttl <duration>]",
		Description: `Signs a token with server.jwt_secret. Put it in remote.token on the client.

--ttl 0 issues a token that never expires.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "subject",
				Aliases:     []string{"s"},
				Usage:       "token subject, shown in the server's access log",
				Value:       "dailyflow",
				Destination: &cmd.subject,
			},
			&cli.DurationFlag{
				Name:        "ttl",
				Usage:       "token lifetime (defaults to server.token_ttl)",
				Destination: &cmd.ttl,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *TokenCmd) run(_ context.Context, c *cli.Command) error {
	ttl := cmd.app.Config.Server.TokenTTL
	if c.IsSet("ttl") {
		ttl = cmd.ttl
	}

	token, err := server.IssueToken(cmd.app.Config.Server.JWTSecret, cmd.subject, ttl, time.Now())
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	_, err = fmt.Fprintln(c.Root().Writer, token)
	return err
}
