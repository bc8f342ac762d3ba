package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/dailyflow/internal/core/notify"
	"github.com/colonyops/dailyflow/internal/core/styles"
	"github.com/colonyops/dailyflow/internal/tui/components"
)

const (
	notifyModalWidthPct  = 65
	notifyModalMinWidth  = 60
	notifyModalMaxHeight = 30
	notifyModalMargin    = 4
	notifyModalChrome    = 6 // title + divider + help + spacing
)

// notificationHistory is the part of *notify.Bus the modal reads from.
type notificationHistory interface {
	History(ctx context.Context) ([]notify.Notification, error)
	Clear(ctx context.Context) error
}

// NotificationModal lists past toasts grouped by day, newest first. It can
// narrow the list to warnings and errors.
type NotificationModal struct {
	history      notificationHistory
	viewport     viewport.Model
	now          time.Time
	problemsOnly bool
	width        int
	height       int
}

// NewNotificationModal creates a modal over history. now anchors the
// "Today" and "Yesterday" day headings.
func NewNotificationModal(history notificationHistory, width, height int, now time.Time) *NotificationModal {
	modalWidth := calcNotificationModalWidth(width)
	modalHeight := min(height-notifyModalMargin, notifyModalMaxHeight)

	m := &NotificationModal{
		history: history,
		viewport: viewport.New(
			viewport.WithWidth(modalWidth-4),
			viewport.WithHeight(max(modalHeight-notifyModalChrome, 1)),
		),
		now:    now,
		width:  width,
		height: height,
	}
	m.refreshContent()
	return m
}

func (m *NotificationModal) refreshContent() {
	items, err := m.load()
	switch {
	case err != nil:
		log.Error().Err(err).Msg("failed to load notification history")
		m.viewport.SetContent(styles.TextErrorStyle.Render(fmt.Sprintf("failed to load notifications: %v", err)))
		return
	case len(items) == 0 && m.problemsOnly:
		m.viewport.SetContent(styles.TextMutedStyle.Render("No warnings or errors"))
		return
	case len(items) == 0:
		m.viewport.SetContent(styles.TextMutedStyle.Render("No notifications"))
		return
	}

	var (
		b       strings.Builder
		lastDay string
	)
	for _, n := range items {
		if day := dayHeading(n.CreatedAt, m.now); day != lastDay {
			if lastDay != "" {
				b.WriteByte('\n')
			}
			b.WriteString(styles.TextForegroundBoldStyle.Render(day))
			b.WriteByte('\n')
			lastDay = day
		}
		b.WriteString(formatNotification(n))
		b.WriteByte('\n')
	}

	m.viewport.SetContent(strings.TrimSuffix(b.String(), "\n"))
}

func (m *NotificationModal) load() ([]notify.Notification, error) {
	if m.history == nil {
		return nil, nil
	}
	items, err := m.history.History(context.Background())
	if err != nil || !m.problemsOnly {
		return items, err
	}

	problems := items[:0:0]
	for _, n := range items {
		if n.Level == notify.LevelWarning || n.Level == notify.LevelError {
			problems = append(problems, n)
		}
	}
	return problems, nil
}

// dayHeading names the calendar day of t relative to now.
func dayHeading(t, now time.Time) string {
	t = t.In(now.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	day := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)

	switch today.Sub(day) {
	case 0:
		return "Today"
	case 24 * time.Hour:
		return "Yesterday"
	}
	if y1 == y2 {
		return t.Format("Mon, Jan 2")
	}
	return t.Format("Jan 2, 2006")
}

func formatNotification(n notify.Notification) string {
	icon, msgStyle := styles.IconNotifyInfo, styles.TextPrimaryStyle
	switch n.Level {
	case notify.LevelError:
		icon, msgStyle = styles.IconNotifyError, styles.TextErrorStyle
	case notify.LevelWarning:
		icon, msgStyle = styles.IconNotifyWarning, styles.TextWarningStyle
	case notify.LevelSuccess:
		icon, msgStyle = styles.IconNotifySuccess, styles.TextSuccessStyle
	}

	ts := styles.TextMutedStyle.Render(n.CreatedAt.Format("15:04:05"))
	return fmt.Sprintf("  %s %s %s", ts, icon, msgStyle.Render(n.Message))
}

// ScrollUp scrolls the viewport up.
func (m *NotificationModal) ScrollUp() {
	m.viewport.ScrollUp(1)
}

// ScrollDown scrolls the viewport down.
func (m *NotificationModal) ScrollDown() {
	m.viewport.ScrollDown(1)
}

// ToggleProblemsOnly switches between all notifications and only warnings
// and errors.
func (m *NotificationModal) ToggleProblemsOnly() {
	m.problemsOnly = !m.problemsOnly
	m.viewport.GotoTop()
	m.refreshContent()
}

// Clear deletes all notifications and refreshes the view.
func (m *NotificationModal) Clear() error {
	if m.history == nil {
		return nil
	}
	if err := m.history.Clear(context.Background()); err != nil {
		return err
	}
	m.refreshContent()
	return nil
}

// Overlay renders the notification modal centered over the background.
func (m *NotificationModal) Overlay(background string, width, height int) string {
	modalWidth := calcNotificationModalWidth(width)
	modalHeight := min(height-notifyModalMargin, notifyModalMaxHeight)

	title := "Notifications"
	if m.problemsOnly {
		title += " · warnings and errors"
	}
	if m.viewport.TotalLineCount() > m.viewport.VisibleLineCount() {
		title += styles.TextMutedStyle.Render(fmt.Sprintf(" (%.0f%%)", m.viewport.ScrollPercent()*100))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(title),
		styles.TextSurfaceStyle.Render(strings.Repeat("─", max(modalWidth-6, 1))),
		m.viewport.View(),
		styles.ModalHelpStyle.Render("[j/k] scroll  [f] filter  [D] clear all  [esc] close"),
	)

	modal := styles.ModalStyle.
		Width(modalWidth).
		Height(modalHeight).
		Render(content)

	return components.Overlay(background, modal, width, height)
}

func calcNotificationModalWidth(termWidth int) int {
	available := max(termWidth-notifyModalMargin, 1)
	target := termWidth * notifyModalWidthPct / 100
	return min(max(target, notifyModalMinWidth), available)
}
