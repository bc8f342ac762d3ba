package tui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/dailyflow/internal/core/notify"
	"github.com/colonyops/dailyflow/internal/core/styles"
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastView renders toast notifications and composites them as an overlay.
type ToastView struct {
	controller *ToastController
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{controller: controller}
}

// View renders the toast stack, oldest at top.
func (v *ToastView) View() string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, renderToast(t.notification))
	}
	return strings.Join(rendered, "\n")
}

func levelIconStyle(level notify.Level) (string, lipgloss.Style) {
	switch level {
	case notify.LevelError:
		return styles.IconNotifyError, styles.ToastErrorStyle
	case notify.LevelWarning:
		return styles.IconNotifyWarning, styles.ToastWarningStyle
	case notify.LevelSuccess:
		return styles.IconNotifySuccess, styles.ToastSuccessStyle
	default:
		return styles.IconNotifyInfo, styles.ToastInfoStyle
	}
}

func renderToast(n notify.Notification) string {
	icon, style := levelIconStyle(n.Level)
	return style.Width(toastWidth).Render(icon + " " + n.Message)
}

// Overlay composites the toast stack over background in the top-right
// corner, below the header.
func (v *ToastView) Overlay(background string, width, _ int) string {
	content := v.View()
	if content == "" {
		return background
	}

	layer := lipgloss.NewLayer(content).
		X(max(width-lipgloss.Width(content)-1, 0)).
		Y(1).
		Z(2)

	return lipgloss.NewCompositor(lipgloss.NewLayer(background), layer).Render()
}
