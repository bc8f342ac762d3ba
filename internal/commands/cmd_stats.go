package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/dailyflow/internal/core/styles"
	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/dailyflow"
	"github.com/colonyops/dailyflow/pkg/iojson"
)

type StatsCmd struct {
	flags *Flags
	app   *dailyflow.App

	by         string
	jsonOutput bool
}

// NewStatsCmd creates a new stats command.
func NewStatsCmd(flags *Flags, app *dailyflow.App) *StatsCmd {
	return &StatsCmd{flags: flags, app: app}
}

// Register adds the stats command to the application.
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "stats",
		Usage:     "Summarize tasks",
		UsageText: "dailyflow stats [--by category|priority] [--json]",
		Description: `Prints total, completed, pending and overdue counts and the completion rate.

--by adds the same summary for each category or priority.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "by",
				Usage:       "break the summary down by category or priority",
				Destination: &cmd.by,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output JSON even on a terminal",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// statsReport is the JSON output of dailyflow stats.
type statsReport struct {
	task.Stats
	Groups []groupStats `json:"groups,omitempty"`
}

type groupStats struct {
	Key string `json:"key"`
	task.Stats
}

func (cmd *StatsCmd) run(ctx context.Context, c *cli.Command) error {
	var group func([]task.Task) []task.Group
	switch cmd.by {
	case "":
	case "category":
		group = task.GroupByCategory
	case "priority":
		group = task.GroupByPriority
	default:
		return fmt.Errorf("invalid --by %q: must be category or priority", cmd.by)
	}

	tasks, err := cmd.app.Tasks.Load(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	now := time.Now()
	report := statsReport{Stats: task.ComputeStats(tasks, now)}
	if group != nil {
		for _, g := range group(tasks) {
			report.Groups = append(report.Groups, groupStats{Key: g.Key, Stats: task.ComputeStats(g.Tasks, now)})
		}
	}

	out := c.Root().Writer
	if wantJSON(out, cmd.jsonOutput) {
		return iojson.WriteWith(out, c.Root().ErrWriter, report)
	}
	return writeStats(out, report)
}

func writeStats(w io.Writer, r statsReport) error {
	_, _ = fmt.Fprintln(w, styles.TextPrimaryBoldStyle.Render(styles.IconBrand+" DailyFlow"))
	_, _ = fmt.Fprintf(w, "Total:      %d\n", r.Total)
	_, _ = fmt.Fprintf(w, "Completed:  %d\n", r.Completed)
	_, _ = fmt.Fprintf(w, "Pending:    %d\n", r.Pending)
	_, _ = fmt.Fprintf(w, "Overdue:    %d\n", r.Overdue)
	_, _ = fmt.Fprintf(w, "Progress:   %d%%\n", r.CompletionRate)

	if len(r.Groups) == 0 {
		return nil
	}

	_, _ = fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "GROUP\tTOTAL\tDONE\tPENDING\tOVERDUE\tPROGRESS")
	for _, g := range r.Groups {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d%%\n",
			g.Key, g.Total, g.Completed, g.Pending, g.Overdue, g.CompletionRate)
	}
	return tw.Flush()
}
