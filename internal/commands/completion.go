package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/dailyflow/internal/dailyflow"
)

// TaskIDCompleter returns a ShellCompleteFunc that suggests task ids, with
// the title as the description, as positional completions. pendingOnly
// limits suggestions to incomplete tasks.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func TaskIDCompleter(app *dailyflow.App, pendingOnly bool) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args != nil && args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if app == nil || app.Tasks == nil {
			return
		}
		tasks, err := app.Tasks.Load(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, t := range tasks {
			if pendingOnly && t.IsCompleted {
				continue
			}
			_, _ = fmt.Fprintf(w, "%d:%s\n", t.ID, t.Title)
		}
	}
}
