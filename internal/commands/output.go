package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/pkg/iojson"
)

// isTerminal reports whether w is an interactive terminal. Non-file writers
// (buffers in tests, pipes wrapped by the caller) are never terminals.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// wantJSON resolves the output mode: --json forces JSON lines, otherwise a
// table is printed only on a terminal.
func wantJSON(w io.Writer, forced bool) bool {
	return forced || !isTerminal(w)
}

func writeTasks(w io.Writer, tasks []task.Task, now time.Time, asJSON bool) error {
	if asJSON {
		for _, t := range tasks {
			if err := iojson.WriteLine(w, t); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tDONE\tTITLE\tDUE\tCATEGORY\tPRIORITY\tTAGS")
	for _, t := range tasks {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, doneMark(t.IsCompleted), t.Title, dueText(t, now), t.Category, t.Priority, t.Tags)
	}
	return tw.Flush()
}

func writeTaskDetail(w io.Writer, t task.Task, now time.Time) {
	_, _ = fmt.Fprintf(w, "ID:          %d\n", t.ID)
	_, _ = fmt.Fprintf(w, "Title:       %s\n", t.Title)
	_, _ = fmt.Fprintf(w, "Status:      %s\n", statusText(t, now))
	_, _ = fmt.Fprintf(w, "Due:         %s\n", dueText(t, now))
	_, _ = fmt.Fprintf(w, "Category:    %s\n", t.Category)
	_, _ = fmt.Fprintf(w, "Priority:    %s\n", t.Priority)
	_, _ = fmt.Fprintf(w, "Tags:        %s\n", t.Tags)
	_, _ = fmt.Fprintf(w, "Created:     %s\n", t.CreatedAt.Local().Format(time.DateTime))
	_, _ = fmt.Fprintf(w, "Updated:     %s\n", t.UpdatedAt.Local().Format(time.DateTime))
	if t.Description != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", t.Description)
	}
}

func doneMark(done bool) string {
	if done {
		return "x"
	}
	return ""
}

func statusText(t task.Task, now time.Time) string {
	switch {
	case t.IsCompleted:
		return "completed"
	case task.IsOverdue(t, now):
		return "overdue"
	default:
		return "pending"
	}
}

func dueText(t task.Task, now time.Time) string {
	label, ok := task.FormatDue(t.DueDate, now)
	if !ok {
		return ""
	}
	if label.Overdue && !t.IsCompleted {
		return label.Text + " (overdue)"
	}
	return label.Text
}

// parseIDs parses positional task ids, rejecting duplicates.
func parseIDs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one task id is required")
	}

	seen := make(map[int64]bool, len(args))
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid task id %q", part)
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one task id is required")
	}
	return ids, nil
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("exactly one task id is required")
	}
	ids, err := parseIDs(args)
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("exactly one task id is required")
	}
	return ids[0], nil
}

// outcomeLine is the JSON form of one bulk result.
type outcomeLine struct {
	ID    int64  `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func writeOutcomes(w io.Writer, outcomes []task.Outcome, asJSON bool) error {
	for _, o := range outcomes {
		line := outcomeLine{ID: o.ID, OK: o.OK()}
		if o.Err != nil {
			line.Error = o.Err.Error()
		}

		if asJSON {
			if err := iojson.WriteLine(w, line); err != nil {
				return err
			}
			continue
		}

		if line.OK {
			_, _ = fmt.Fprintf(w, "%d\tok\n", line.ID)
		} else {
			_, _ = fmt.Fprintf(w, "%d\tfailed: %s\n", line.ID, line.Error)
		}
	}
	return nil
}
