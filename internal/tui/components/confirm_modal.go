package components

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/dailyflow/internal/core/styles"
)

// ConfirmModal is a yes/no confirmation dialog with two buttons. The cancel
// button is selected initially so a stray enter never confirms.
type ConfirmModal struct {
	title        string
	message      string
	confirmLabel string
	confirmFocus bool
	confirmed    bool
	cancelled    bool
}

// NewConfirmModal creates a new confirmation modal.
func NewConfirmModal(title, message, confirmLabel string) ConfirmModal {
	if confirmLabel == "" {
		confirmLabel = "Confirm"
	}
	return ConfirmModal{
		title:        title,
		message:      message,
		confirmLabel: confirmLabel,
	}
}

// Update handles input for the confirmation modal.
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		m.confirmed = true
	case "n", "N", "esc", "q":
		m.cancelled = true
	case "left", "right", "h", "l", "tab", "shift+tab":
		m.confirmFocus = !m.confirmFocus
	case "enter":
		if m.confirmFocus {
			m.confirmed = true
		} else {
			m.cancelled = true
		}
	}

	return m, nil
}

// View renders the confirmation modal.
func (m ConfirmModal) View() string {
	cancelStyle, confirmStyle := styles.ModalButtonSelectedStyle, styles.ModalButtonStyle
	if m.confirmFocus {
		cancelStyle, confirmStyle = styles.ModalButtonStyle, styles.ModalButtonSelectedStyle
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		cancelStyle.Render("Cancel"),
		"  ",
		confirmStyle.Render(m.confirmLabel),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(m.title),
		"",
		styles.ConfirmMessageStyle.Render(m.message),
		"",
		buttons,
		styles.ModalHelpStyle.Render("y/n  ←/→ select  enter choose"),
	)

	return styles.ModalStyle.Render(content)
}

// Confirmed returns true if user confirmed.
func (m ConfirmModal) Confirmed() bool { return m.confirmed }

// Cancelled returns true if user cancelled.
func (m ConfirmModal) Cancelled() bool { return m.cancelled }

// Done reports whether the user has answered.
func (m ConfirmModal) Done() bool { return m.confirmed || m.cancelled }
