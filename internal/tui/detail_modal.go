package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/dailyflow/internal/core/styles"
	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/tui/components"
)

const detailHelp = "[j/k] scroll  [e] edit  [x] toggle  [esc] close"

// DetailModal shows every field of one task with the description rendered
// as markdown.
type DetailModal struct {
	taskID int64
	dialog *components.ScrollDialog
}

// NewDetailModal builds the modal for t sized to the screen.
func NewDetailModal(t task.Task, now time.Time, width, height int) *DetailModal {
	d := &DetailModal{
		taskID: t.ID,
		dialog: components.NewScrollDialog(t.Title, detailHelp, width, height),
	}
	d.Refresh(t, now)
	return d
}

// TaskID returns the id of the task on display.
func (d *DetailModal) TaskID() int64 { return d.taskID }

// Refresh re-renders the body from t.
func (d *DetailModal) Refresh(t task.Task, now time.Time) {
	width := d.dialog.ContentWidth()

	body := components.RenderInfoSections(detailSections(t, now), width)
	if desc := renderMarkdown(t.Description, width); desc != "" {
		body += "\n\n" + styles.HelpDialogSectionStyle.Render("Description") + "\n" + desc
	}

	d.dialog.SetContent(body)
}

// SetSize resizes the modal.
func (d *DetailModal) SetSize(width, height int) { d.dialog.SetSize(width, height) }

func (d *DetailModal) ScrollUp()   { d.dialog.ScrollUp() }
func (d *DetailModal) ScrollDown() { d.dialog.ScrollDown() }

// Overlay renders the modal over background.
func (d *DetailModal) Overlay(background string) string {
	return d.dialog.Overlay(background)
}

func detailSections(t task.Task, now time.Time) []components.InfoSection {
	status := components.InfoItem{Label: "Status", Value: "Pending", Status: components.InfoStatusWarn}
	if t.IsCompleted {
		status = components.InfoItem{Label: "Status", Value: "Completed", Status: components.InfoStatusPass}
	}

	due := components.InfoItem{Label: "Due", Value: "none"}
	if label, ok := task.FormatDue(t.DueDate, now); ok {
		due.Value = label.Text
		switch {
		case task.IsOverdue(t, now):
			due.Value += " (overdue)"
			due.Status = components.InfoStatusFail
		case label.Today && !t.IsCompleted:
			due.Status = components.InfoStatusWarn
		}
	}

	tags := strings.Join(t.TagList(), ", ")
	if tags == "" {
		tags = "none"
	}

	return []components.InfoSection{
		{
			Title: "Task",
			Items: []components.InfoItem{
				status,
				due,
				{Label: "Category", Value: string(t.Category)},
				{Label: "Priority", Value: string(t.Priority)},
				{Label: "Tags", Value: tags},
			},
		},
		{
			Title: "History",
			Items: []components.InfoItem{
				{Label: "Created", Value: formatTimestamp(t.CreatedAt, now)},
				{Label: "Updated", Value: formatTimestamp(t.UpdatedAt, now)},
			},
		},
	}
}

func formatTimestamp(ts, now time.Time) string {
	if ts.IsZero() {
		return "none"
	}
	return ts.In(now.Location()).Format("Jan 2, 2006 15:04")
}

// renderMarkdown renders src with the theme's glamour style, falling back
// to the raw text when rendering fails.
func renderMarkdown(src string, width int) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}

	style := styles.GlamourStyle()
	noMargin := uint(0)
	style.Document.Margin = &noMargin

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
		return src
	}

	rendered, err := renderer.Render(src)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return src
	}

	return strings.Trim(rendered, "\n")
}
