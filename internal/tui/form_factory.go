package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/tui/components/form"
)

// Form field keys. They match task.ValidationError field names so service
// errors land on the right field.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldCategory    = "category"
	fieldPriority    = "priority"
	fieldDueDate     = "due_date"
	fieldTags        = "tags"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
)

// newTaskForm builds the create/edit dialog. A nil target opens an empty
// create form seeded with defaults; otherwise the fields are pre-populated
// from target.
func newTaskForm(target *task.Task, defaults task.Draft) *form.Dialog {
	title := "New Task"
	values := defaults
	if target != nil {
		title = "Edit Task"
		values = task.Draft{
			Title:       target.Title,
			Description: target.Description,
			DueDate:     displayDueDate(target.DueDate),
			Category:    target.Category,
			Priority:    target.Priority,
			Tags:        target.Tags,
		}
	}
	if values.Category == "" {
		values.Category = task.DefaultCategory
	}
	if values.Priority == "" {
		values.Priority = task.DefaultPriority
	}

	categories := make([]string, 0, len(task.Categories()))
	for _, c := range task.Categories() {
		categories = append(categories, string(c))
	}
	priorities := make([]string, 0, len(task.Priorities()))
	for _, p := range task.Priorities() {
		priorities = append(priorities, string(p))
	}

	fields := []form.Field{
		form.NewTextField("Title", "What needs to be done?", values.Title,
			form.FieldValidation{Required: true, MaxLength: maxTitleLength}),
		form.NewTextAreaField("Description", "Optional details (markdown)", values.Description,
			form.FieldValidation{MaxLength: maxDescriptionLength}),
		form.NewSelectFormField("Category", categories, string(values.Category)),
		form.NewSelectFormField("Priority", priorities, string(values.Priority)),
		form.NewTextField("Due date", task.DateLayout, values.DueDate,
			form.FieldValidation{Check: checkDueDate}),
		form.NewTextField("Tags", "comma, separated, tags", values.Tags),
	}
	keys := []string{fieldTitle, fieldDescription, fieldCategory, fieldPriority, fieldDueDate, fieldTags}

	return form.NewDialog(title, fields, keys)
}

func checkDueDate(raw string) error {
	if _, ok := task.ParseDueDate(raw, time.Local); !ok {
		return fmt.Errorf("use %s", strings.ToUpper(task.DateLayout))
	}
	return nil
}

// displayDueDate turns a stored due date into the form's YYYY-MM-DD layout.
func displayDueDate(raw string) string {
	d, ok := task.ParseDueDate(raw, time.Local)
	if !ok {
		return ""
	}
	return d.Format(task.DateLayout)
}

// draftFromValues converts submitted form values into a task draft.
func draftFromValues(v map[string]string) task.Draft {
	return task.Draft{
		Title:       v[fieldTitle],
		Description: v[fieldDescription],
		DueDate:     v[fieldDueDate],
		Category:    task.Category(v[fieldCategory]),
		Priority:    task.Priority(v[fieldPriority]),
		Tags:        v[fieldTags],
	}
}

// patchFromValues builds a patch holding only the fields that differ from
// orig. Values are compared in normalized form so whitespace edits do not
// count as changes.
func patchFromValues(orig task.Task, v map[string]string) task.Patch {
	var p task.Patch

	if title := strings.TrimSpace(v[fieldTitle]); title != orig.Title {
		p.Title = &title
	}
	if desc := strings.TrimSpace(v[fieldDescription]); desc != orig.Description {
		p.Description = &desc
	}
	if c := task.Category(v[fieldCategory]); c != orig.Category {
		p.Category = &c
	}
	if pr := task.Priority(v[fieldPriority]); pr != orig.Priority {
		p.Priority = &pr
	}
	if due := strings.TrimSpace(v[fieldDueDate]); due != displayDueDate(orig.DueDate) {
		p.DueDate = &due
	}
	if tags := task.NormalizeTags(v[fieldTags]); tags != task.NormalizeTags(orig.Tags) {
		p.Tags = &tags
	}

	return p
}

// applyFieldError attaches a service validation error to its form field.
// It reports whether err was a field-level validation error.
func applyFieldError(d *form.Dialog, err error) bool {
	var verr *task.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	return d.SetFieldError(verr.Field, verr.Message)
}
