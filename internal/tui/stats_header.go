package tui

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/dailyflow/internal/core/styles"
	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/dailyflow"
)

const progressBarWidth = 20

// renderHeader draws the brand line with the task and selection counts.
func renderHeader(total, selected int, selectionMode bool, width int) string {
	left := styles.BrandStyle.Render(styles.IconBrand + " DailyFlow")

	summary := styles.TextMutedStyle.Render(dailyflow.Plural(total, "task") + " total")
	if selectionMode || selected > 0 {
		summary += styles.TextForegroundBoldStyle.Render(fmt.Sprintf(" • %d selected", selected))
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(summary), 1)
	return left + strings.Repeat(" ", gap) + summary
}

// renderStats draws one card per statistic, laid out horizontally.
func renderStats(s task.Stats) string {
	cards := []string{
		statCard("Total", fmt.Sprint(s.Total), styles.StatValueStyle),
		statCard("Completed", fmt.Sprint(s.Completed), styles.StatValueStyle.Foreground(styles.ColorSuccess)),
		statCard("Pending", fmt.Sprint(s.Pending), styles.StatValueStyle.Foreground(styles.ColorWarning)),
		statCard("Overdue", fmt.Sprint(s.Overdue), overdueValueStyle(s.Overdue)),
		statCard("Progress", fmt.Sprintf("%d%%", s.CompletionRate)+" "+progressBar(s.CompletionRate), styles.StatValueStyle),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func overdueValueStyle(n int) lipgloss.Style {
	if n > 0 {
		return styles.StatValueStyle.Foreground(styles.ColorError)
	}
	return styles.StatValueStyle
}

func statCard(label, value string, valueStyle lipgloss.Style) string {
	return styles.StatCardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Center,
			valueStyle.Render(value),
			styles.StatLabelStyle.Render(label),
		),
	)
}

// progressBar renders rate (0-100) as a fixed-width bar.
func progressBar(rate int) string {
	rate = min(max(rate, 0), 100)
	filled := rate * progressBarWidth / 100
	return styles.TextSuccessStyle.Render(strings.Repeat("█", filled)) +
		styles.TextSurfaceStyle.Render(strings.Repeat("░", progressBarWidth-filled))
}
