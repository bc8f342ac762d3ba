package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/dailyflow/internal/core/styles"
	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/core/taskview"
	"github.com/colonyops/dailyflow/internal/dailyflow"
	"github.com/colonyops/dailyflow/internal/tui/components"
)

const footerHelp = "n new  e edit  x toggle  d delete  enter details  v select  H history  ? help  q quit"

// View renders the TUI.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render composes the page, any open modal and the toast stack.
func (m Model) render() string {
	w, h := m.width, m.height
	if w == 0 || h == 0 {
		return ""
	}

	var content string
	switch m.state {
	case stateLoading:
		content = m.renderLoading()
	case stateError:
		content = m.renderError()
	default:
		content = m.renderPage()
	}

	switch m.modal {
	case modalForm:
		if m.form != nil {
			content = components.Overlay(content, m.renderForm(), w, h)
		}
	case modalDetail:
		if m.detail != nil {
			content = m.detail.Overlay(content)
		}
	case modalConfirmBulkDelete:
		if m.confirm != nil {
			content = components.Overlay(content, m.confirm.View(), w, h)
		}
	case modalHelp:
		if m.help != nil {
			content = m.help.Overlay(content, w, h)
		}
	case modalNotifications:
		if m.notifications != nil {
			content = m.notifications.Overlay(content, w, h)
		}
	}

	if m.toastController.HasToasts() {
		content = m.toastView.Overlay(content, w, h)
	}
	return content
}

func (m Model) renderLoading() string {
	msg := m.spinner.View() + " " + styles.TextMutedStyle.Render("Loading tasks...")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

func (m Model) renderError() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		styles.TextErrorStyle.Bold(true).Render(styles.IconNotifyError+" "+dailyflow.MsgLoadFailed),
		styles.TextMutedStyle.Render(errorDetail(m.loadErr)),
		"",
		styles.ModalHelpStyle.Render("[r] retry  [q] quit"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, styles.ModalStyle.Render(body))
}

func errorDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (m Model) renderForm() string {
	width := min(max(m.width*60/100, 50), max(m.width-4, 20))
	return styles.ModalStyle.Width(width).Render(m.form.View())
}

// renderPage draws the header, stats, task sections and footer of the ready
// state.
func (m Model) renderPage() string {
	now := m.now()
	snap := m.view.Snapshot()

	header := renderHeader(len(snap.Tasks), len(snap.Selected), snap.SelectionMode, m.width)
	stats := renderStats(task.ComputeStats(snap.Tasks, now))

	top := []string{header, stats}
	if snap.SelectionMode {
		top = append(top, m.renderSelectionBar(len(snap.Selected)))
	}
	footer := styles.TextMutedStyle.Render(footerHelp)

	topBlock := strings.Join(top, "\n")
	listHeight := max(m.height-lipgloss.Height(topBlock)-lipgloss.Height(footer), 3)

	return lipgloss.JoinVertical(lipgloss.Left,
		topBlock,
		m.renderTaskList(snap, listHeight),
		footer,
	)
}

func (m Model) renderSelectionBar(n int) string {
	text := fmt.Sprintf("%d selected  space select  A all  C complete  1/2/3 priority  D delete  esc exit", n)
	if m.bulkBusy {
		text = fmt.Sprintf("%d selected  working...", n)
	}
	return styles.SelectionBarStyle.Width(m.width).Render(text)
}

// renderTaskList renders the Overdue and Tasks sections, scrolled so the
// cursor card is visible, padded or clipped to height rows.
func (m Model) renderTaskList(snap taskview.Snapshot, height int) string {
	now := m.now()
	part := task.PartitionOverdue(snap.Tasks, now)

	if len(snap.Tasks) == 0 {
		empty := styles.TextMutedStyle.Render("No tasks yet. Press n to add one.")
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, empty)
	}

	pendingID, _ := m.deleteFlow.Pending()
	deleting := m.deleteFlow.Phase() == taskview.Deleting

	var (
		lines       []string
		cursorStart int
		cursorEnd   int
		index       int
	)

	renderSection := func(title string, titleStyle lipgloss.Style, tasks []task.Task) {
		if len(tasks) == 0 {
			return
		}
		lines = append(lines, strings.Split(titleStyle.Render(fmt.Sprintf("%s (%d)", title, len(tasks))), "\n")...)
		for _, t := range tasks {
			cs := cardState{
				cursor:        index == m.cursor,
				selected:      snap.IsSelected(t.ID),
				selectionMode: snap.SelectionMode,
				confirmDelete: m.deleteFlow.IsPending(t.ID),
				deleting:      deleting && pendingID == t.ID,
			}
			card := strings.Split(renderTaskCard(t, now, m.width, cs), "\n")
			if cs.cursor {
				cursorStart = len(lines)
				cursorEnd = len(lines) + len(card)
			}
			lines = append(lines, card...)
			index++
		}
	}

	renderSection(styles.IconOverdue+" Overdue", styles.OverdueTitleStyle, part.Overdue)
	renderSection("Tasks", styles.SectionTitleStyle, part.Regular)

	offset := 0
	if cursorEnd > height {
		offset = min(cursorEnd-height, cursorStart)
	}
	end := min(offset+height, len(lines))
	visible := lines[offset:end]

	for len(visible) < height {
		visible = append(visible, "")
	}
	return strings.Join(visible, "\n")
}
