package tui

import (
	"image/color"
	"strings"
	"time"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/dailyflow/internal/core/styles"
	"github.com/colonyops/dailyflow/internal/core/task"
)

// cardState carries the per-card flags the list knows about.
type cardState struct {
	cursor        bool
	selected      bool
	selectionMode bool
	confirmDelete bool
	deleting      bool
}

// renderTaskCard renders one task as a bordered card of the given outer
// width.
func renderTaskCard(t task.Task, now time.Time, width int, cs cardState) string {
	inner := max(width-4, 10) // border + horizontal padding

	lines := []string{renderCardTitle(t, cs, inner)}

	if desc := firstLine(t.Description); desc != "" {
		lines = append(lines, styles.TaskDescriptionStyle.Render(ansi.Truncate(desc, inner, "…")))
	}

	lines = append(lines, ansi.Truncate(renderCardMeta(t, now), inner, "…"))

	switch {
	case cs.deleting:
		lines = append(lines, styles.DeleteConfirmStyle.Render("Deleting..."))
	case cs.confirmDelete:
		lines = append(lines, styles.DeleteConfirmStyle.Render("Delete this task? [y] yes  [n] no"))
	}

	style := styles.CardStyle
	switch {
	case cs.cursor:
		style = styles.CardCursorStyle
	case cs.selected:
		style = styles.CardSelectedStyle
	case task.IsOverdue(t, now):
		style = styles.CardOverdueStyle
	}

	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func renderCardTitle(t task.Task, cs cardState, width int) string {
	var prefix string
	if cs.selectionMode {
		if cs.selected {
			prefix = styles.TagStyle.Render(styles.IconSelected) + " "
		} else {
			prefix = styles.TextMutedStyle.Render("·") + " "
		}
	}

	check := styles.TextMutedStyle.Render(styles.IconUnchecked)
	title := styles.TaskTitleStyle.Render(t.Title)
	if t.IsCompleted {
		check = styles.TextSuccessStyle.Render(styles.IconChecked)
		title = styles.TaskTitleDoneStyle.Render(t.Title)
	}

	return ansi.Truncate(prefix+check+" "+title, width, "…")
}

func renderCardMeta(t task.Task, now time.Time) string {
	parts := make([]string, 0, 6)

	if label, ok := task.FormatDue(t.DueDate, now); ok {
		text := styles.IconCalendar + " " + label.Text
		switch {
		case t.IsCompleted:
			parts = append(parts, styles.DueStyle.Render(text))
		case label.Overdue:
			parts = append(parts, styles.DueOverdueStyle.Render(styles.IconOverdue+" "+label.Text))
		case label.Today:
			parts = append(parts, styles.DueTodayStyle.Render(text))
		default:
			parts = append(parts, styles.DueStyle.Render(text))
		}
	}

	parts = append(parts,
		badge(string(t.Category), styles.CategoryColor(string(t.Category))),
		badge(string(t.Priority), styles.PriorityColor(string(t.Priority))),
	)

	if tags := t.TagList(); len(tags) > 0 {
		rendered := make([]string, len(tags))
		for i, tag := range tags {
			rendered[i] = lipgloss.NewStyle().Foreground(styles.ColorForString(tag)).Render("#" + tag)
		}
		parts = append(parts, styles.TagStyle.Render(styles.IconTag)+" "+strings.Join(rendered, " "))
	}

	if !t.CreatedAt.IsZero() {
		parts = append(parts, styles.TextMutedStyle.Render(styles.IconClock+" "+t.CreatedAt.In(now.Location()).Format("Jan 2")))
	}

	return strings.Join(parts, "  ")
}

func badge(text string, c color.Color) string {
	return styles.BadgeStyle.Background(c).Render(text)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
