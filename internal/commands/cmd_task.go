package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/dailyflow"
	"github.com/colonyops/dailyflow/pkg/iojson"
)

// TaskCmd implements the dailyflow task command group.
type TaskCmd struct {
	flags *Flags
	app   *dailyflow.App

	jsonOutput bool

	// list flags
	listStatus   string
	listCategory string
	listPriority string
	listTag      string

	// add/edit flags
	title       string
	description string
	due         string
	category    string
	priority    string
	tags        string
	interactive bool
	draftFile   iojson.FileReader[task.Draft]

	// done flags
	undo bool

	// bulk flags
	bulkComplete   bool
	bulkIncomplete bool
	yes            bool
}

// NewTaskCmd creates a new task command.
func NewTaskCmd(flags *Flags, app *dailyflow.App) *TaskCmd {
	return &TaskCmd{flags: flags, app: app}
}

// Register adds the task command to the application.
func (cmd *TaskCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "task",
		Usage: "Create, list and update tasks",
		Description: `Task commands operate on the configured backend without opening the TUI.

Listings print a table on a terminal and JSON lines otherwise.

Examples:
  dailyflow task list --status overdue
  dailyflow task add --title "Buy milk" --category Shopping --due 2026-03-14
  dailyflow task done 12
  dailyflow task bulk-update 3 4 5 --priority High`,
		Commands: []*cli.Command{
			cmd.listCmd(),
			cmd.showCmd(),
			cmd.addCmd(),
			cmd.editCmd(),
			cmd.doneCmd(),
			cmd.rmCmd(),
			cmd.bulkUpdateCmd(),
			cmd.bulkDeleteCmd(),
		},
	})

	return app
}

func (cmd *TaskCmd) jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:        "json",
		Usage:       "output JSON even on a terminal",
		Destination: &cmd.jsonOutput,
	}
}

func (cmd *TaskCmd) fieldFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "task title", Destination: &cmd.title},
		&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "task description", Destination: &cmd.description},
		&cli.StringFlag{Name: "due", Usage: "due date (YYYY-MM-DD, empty clears on edit)", Destination: &cmd.due},
		&cli.StringFlag{Name: "category", Usage: "Work, Personal, Shopping or Health", Destination: &cmd.category},
		&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "High, Medium or Low", Destination: &cmd.priority},
		&cli.StringFlag{Name: "tags", Usage: "comma separated tags", Destination: &cmd.tags},
	}
}

func (cmd *TaskCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tasks",
		UsageText: "dailyflow task list [--status <status>] [--category <c>] [--priority <p>] [--tag <glob>]",
		Description: `Lists up to 100 tasks, newest first.

--tag takes a glob matched against each tag, e.g. 'work*' or '{urgent,asap}'.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "filter by status (pending, completed, overdue)",
				Destination: &cmd.listStatus,
			},
			&cli.StringFlag{Name: "category", Usage: "filter by category", Destination: &cmd.listCategory},
			&cli.StringFlag{Name: "priority", Usage: "filter by priority", Destination: &cmd.listPriority},
			&cli.StringFlag{Name: "tag", Usage: "filter by tag glob", Destination: &cmd.listTag},
			cmd.jsonFlag(),
		},
		Action: cmd.runList,
	}
}

func (cmd *TaskCmd) showCmd() *cli.Command {
	return &cli.Command{
		Name:          "show",
		Usage:         "Show one task",
		UsageText:     "dailyflow task show <id>",
		Flags:         []cli.Flag{cmd.jsonFlag()},
		ShellComplete: TaskIDCompleter(cmd.app, false),
		Action:        cmd.runShow,
	}
}

func (cmd *TaskCmd) addCmd() *cli.Command {
	flags := append(cmd.fieldFlags(),
		&cli.BoolFlag{
			Name:        "interactive",
			Aliases:     []string{"i"},
			Usage:       "fill the task in with an interactive form",
			Destination: &cmd.interactive,
		},
		cmd.draftFile.Flag(),
		cmd.jsonFlag(),
	)

	return &cli.Command{
		Name:      "add",
		Usage:     "Create a task",
		UsageText: "dailyflow task add --title <title> [options] | --interactive | --file <draft.json>",
		Description: `Creates a task. Category and priority fall back to the configured defaults.

When --title is omitted on a terminal an interactive form prompts for input.
--file reads a JSON draft such as {"title": "Buy milk", "due_date": "2026-03-14"}; use - for stdin.`,
		Flags:  flags,
		Action: cmd.runAdd,
	}
}

func (cmd *TaskCmd) editCmd() *cli.Command {
	return &cli.Command{
		Name:          "edit",
		Usage:         "Update fields of a task",
		UsageText:     "dailyflow task edit <id> [--title ...] [--due ...] [...]",
		Description:   "Only the flags given are changed. Pass --due \"\" to clear the due date.",
		Flags:         append(cmd.fieldFlags(), cmd.jsonFlag()),
		ShellComplete: TaskIDCompleter(cmd.app, false),
		Action:        cmd.runEdit,
	}
}

func (cmd *TaskCmd) doneCmd() *cli.Command {
	return &cli.Command{
		Name:      "done",
		Usage:     "Mark a task completed",
		UsageText: "dailyflow task done <id> [--undo]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "undo", Usage: "mark the task incomplete instead", Destination: &cmd.undo},
			cmd.jsonFlag(),
		},
		ShellComplete: TaskIDCompleter(cmd.app, true),
		Action:        cmd.runDone,
	}
}

func (cmd *TaskCmd) rmCmd() *cli.Command {
	return &cli.Command{
		Name:          "rm",
		Aliases:       []string{"delete"},
		Usage:         "Delete a task",
		UsageText:     "dailyflow task rm <id>",
		ShellComplete: TaskIDCompleter(cmd.app, false),
		Action:        cmd.runRm,
	}
}

func (cmd *TaskCmd) bulkUpdateCmd() *cli.Command {
	return &cli.Command{
		Name:      "bulk-update",
		Usage:     "Update several tasks in one request",
		UsageText: "dailyflow task bulk-update <id>... [--complete | --incomplete] [--priority <p>] [--category <c>]",
		Description: `Applies one change to every listed task. Ids may be space or comma separated.
Each id reports its own result; the command fails if any id failed.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "complete", Usage: "mark completed", Destination: &cmd.bulkComplete},
			&cli.BoolFlag{Name: "incomplete", Usage: "mark incomplete", Destination: &cmd.bulkIncomplete},
			&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "set priority", Destination: &cmd.priority},
			&cli.StringFlag{Name: "category", Usage: "set category", Destination: &cmd.category},
			cmd.jsonFlag(),
		},
		Action: cmd.runBulkUpdate,
	}
}

func (cmd *TaskCmd) bulkDeleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "bulk-delete",
		Usage:     "Delete several tasks in one request",
		UsageText: "dailyflow task bulk-delete <id>... [--yes]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
			cmd.jsonFlag(),
		},
		Action: cmd.runBulkDelete,
	}
}

func (cmd *TaskCmd) runList(ctx context.Context, c *cli.Command) error {
	q := task.Query{
		Status:   task.Status(cmd.listStatus),
		Category: task.Category(cmd.listCategory),
		Priority: task.Priority(cmd.listPriority),
		Tag:      cmd.listTag,
	}
	if err := q.Validate(); err != nil {
		return err
	}

	tasks, err := cmd.app.Tasks.Load(ctx)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	now := time.Now()
	tasks, err = task.Filter(tasks, q, now)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	asJSON := wantJSON(out, cmd.jsonOutput)
	if len(tasks) == 0 && !asJSON {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "No tasks found")
		return nil
	}
	return writeTasks(out, tasks, now, asJSON)
}

func (cmd *TaskCmd) runShow(ctx context.Context, c *cli.Command) error {
	id, err := parseID(c.Args().Slice())
	if err != nil {
		return err
	}

	t, err := cmd.app.Tasks.Get(ctx, id)
	if err != nil {
		return err
	}
	return cmd.writeOne(c, t)
}

func (cmd *TaskCmd) runAdd(ctx context.Context, c *cli.Command) error {
	var draft task.Draft

	switch {
	case cmd.draftFile.Provided():
		d, err := cmd.draftFile.Read()
		if err != nil {
			return err
		}
		draft = d
	case cmd.interactive || (cmd.title == "" && isTerminal(c.Root().Writer)):
		d, err := cmd.runForm()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
		draft = d
	default:
		draft = task.Draft{
			Title:       cmd.title,
			Description: cmd.description,
			DueDate:     cmd.due,
			Category:    task.Category(cmd.category),
			Priority:    task.Priority(cmd.priority),
			Tags:        cmd.tags,
		}
	}

	defaults := cmd.app.Config.Defaults.Draft()
	if draft.Category == "" {
		draft.Category = defaults.Category
	}
	if draft.Priority == "" {
		draft.Priority = defaults.Priority
	}

	t, err := cmd.app.Tasks.Create(ctx, draft)
	if err != nil {
		return err
	}
	return cmd.writeOne(c, t)
}

// runForm collects a draft with a huh form. The returned draft is validated
// again by the service.
func (cmd *TaskCmd) runForm() (task.Draft, error) {
	defaults := cmd.app.Config.Defaults.Draft()

	var (
		title       = cmd.title
		description = cmd.description
		due         = cmd.due
		category    = string(defaults.Category)
		priority    = string(defaults.Priority)
		tags        = cmd.tags
	)
	if cmd.category != "" {
		category = cmd.category
	}
	if cmd.priority != "" {
		priority = cmd.priority
	}

	categoryOpts := make([]huh.Option[string], 0, len(task.Categories()))
	for _, c := range task.Categories() {
		categoryOpts = append(categoryOpts, huh.NewOption(string(c), string(c)))
	}
	priorityOpts := make([]huh.Option[string], 0, len(task.Priorities()))
	for _, p := range task.Priorities() {
		priorityOpts = append(priorityOpts, huh.NewOption(string(p), string(p)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&title).
				Validate(func(s string) error {
					_, err := task.ValidateDraft(task.Draft{Title: s})
					return fieldMessage(err, "title")
				}),
			huh.NewText().
				Title("Description").
				Value(&description),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOpts...).
				Value(&category),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOpts...).
				Value(&priority),
			huh.NewInput().
				Title("Due date").
				Description("YYYY-MM-DD, leave empty for none").
				Value(&due).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if _, ok := task.ParseDueDate(s, time.Local); !ok {
						return errors.New("use YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().
				Title("Tags").
				Description("comma separated").
				Value(&tags),
		),
	)

	if err := form.Run(); err != nil {
		return task.Draft{}, err
	}

	return task.Draft{
		Title:       title,
		Description: description,
		DueDate:     due,
		Category:    task.Category(category),
		Priority:    task.Priority(priority),
		Tags:        tags,
	}, nil
}

// fieldMessage returns err when it concerns field, so one huh input only
// reports its own problem.
func fieldMessage(err error, field string) error {
	var verr *task.ValidationError
	if errors.As(err, &verr) && verr.Field == field {
		return errors.New(verr.Message)
	}
	return nil
}

func (cmd *TaskCmd) runEdit(ctx context.Context, c *cli.Command) error {
	id, err := parseID(c.Args().Slice())
	if err != nil {
		return err
	}

	var p task.Patch
	if c.IsSet("title") {
		p.Title = &cmd.title
	}
	if c.IsSet("description") {
		p.Description = &cmd.description
	}
	if c.IsSet("due") {
		p.DueDate = &cmd.due
	}
	if c.IsSet("category") {
		cat := task.Category(cmd.category)
		p.Category = &cat
	}
	if c.IsSet("priority") {
		pri := task.Priority(cmd.priority)
		p.Priority = &pri
	}
	if c.IsSet("tags") {
		p.Tags = &cmd.tags
	}
	if p.IsEmpty() {
		return fmt.Errorf("nothing to change: pass at least one of --title, --description, --due, --category, --priority, --tags")
	}

	t, err := cmd.app.Tasks.Update(ctx, id, p)
	if err != nil {
		return err
	}
	return cmd.writeOne(c, t)
}

func (cmd *TaskCmd) runDone(ctx context.Context, c *cli.Command) error {
	id, err := parseID(c.Args().Slice())
	if err != nil {
		return err
	}

	t, err := cmd.app.Tasks.Update(ctx, id, task.CompletedPatch(!cmd.undo))
	if err != nil {
		return err
	}
	return cmd.writeOne(c, t)
}

func (cmd *TaskCmd) runRm(ctx context.Context, c *cli.Command) error {
	id, err := parseID(c.Args().Slice())
	if err != nil {
		return err
	}

	ok, err := cmd.app.Tasks.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("task %d was not deleted", id)
	}

	_, _ = fmt.Fprintln(c.Root().Writer, "deleted")
	return nil
}

func (cmd *TaskCmd) runBulkUpdate(ctx context.Context, c *cli.Command) error {
	ids, err := parseIDs(c.Args().Slice())
	if err != nil {
		return err
	}
	if cmd.bulkComplete && cmd.bulkIncomplete {
		return fmt.Errorf("--complete and --incomplete are mutually exclusive")
	}

	var p task.Patch
	switch {
	case cmd.bulkComplete:
		p = task.CompletedPatch(true)
	case cmd.bulkIncomplete:
		p = task.CompletedPatch(false)
	}
	if cmd.priority != "" {
		pri := task.Priority(cmd.priority)
		p.Priority = &pri
	}
	if cmd.category != "" {
		cat := task.Category(cmd.category)
		p.Category = &cat
	}
	if p.IsEmpty() {
		return fmt.Errorf("nothing to change: pass --complete, --incomplete, --priority or --category")
	}

	outcomes, err := cmd.app.Tasks.BulkUpdate(ctx, ids, p)
	if err != nil {
		return err
	}
	return cmd.finishBulk(c, outcomes)
}

func (cmd *TaskCmd) runBulkDelete(ctx context.Context, c *cli.Command) error {
	ids, err := parseIDs(c.Args().Slice())
	if err != nil {
		return err
	}

	if !cmd.yes {
		if !isTerminal(c.Root().Writer) {
			return fmt.Errorf("refusing to delete without --yes when not on a terminal")
		}
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Are you sure you want to delete %d task(s)? This action cannot be undone.", len(ids))).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("confirm: %w", err)
		}
		if !confirmed {
			return nil
		}
	}

	outcomes, err := cmd.app.Tasks.BulkDelete(ctx, ids)
	if err != nil {
		return err
	}
	return cmd.finishBulk(c, outcomes)
}

func (cmd *TaskCmd) finishBulk(c *cli.Command, outcomes []task.Outcome) error {
	if err := writeOutcomes(c.Root().Writer, outcomes, wantJSON(c.Root().Writer, cmd.jsonOutput)); err != nil {
		return err
	}
	if failed := task.Failed(outcomes); len(failed) > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *TaskCmd) writeOne(c *cli.Command, t task.Task) error {
	out := c.Root().Writer
	if wantJSON(out, cmd.jsonOutput) {
		return iojson.WriteLine(out, t)
	}
	writeTaskDetail(out, t, time.Now())
	return nil
}
