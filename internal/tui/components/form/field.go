package form

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/colonyops/dailyflow/internal/core/styles"
)

// Field is the interface implemented by all form field types.
type Field interface {
	Update(msg tea.Msg) (Field, tea.Cmd)
	View() string
	Focus() tea.Cmd
	Blur()
	Focused() bool
	Value() string
	Label() string

	// Validate runs the field's local rules, records the result as the
	// field error and returns it. An empty string means valid.
	Validate() string
	// SetError replaces the field error. Pass "" to clear it.
	SetError(msg string)
	Error() string
}

// fieldState is the focus, label and error bookkeeping shared by every field.
type fieldState struct {
	label      string
	focused    bool
	err        string
	validation FieldValidation
}

func newFieldState(label string, v []FieldValidation) fieldState {
	fs := fieldState{label: label}
	if len(v) > 0 {
		fs.validation = v[0]
	}
	return fs
}

func (s *fieldState) Focused() bool       { return s.focused }
func (s *fieldState) Label() string       { return s.label }
func (s *fieldState) Error() string       { return s.err }
func (s *fieldState) SetError(msg string) { s.err = msg }

// frame wraps a field body with its title, border and error line.
func (s *fieldState) frame(body string) string {
	titleStyle := styles.TextMutedStyle
	if s.focused {
		titleStyle = styles.FormTitleStyle
	}

	parts := []string{titleStyle.Render(s.label), body}
	if s.err != "" {
		parts = append(parts, styles.FormErrorStyle.Render(s.err))
	}

	borderStyle := styles.FormFieldStyle
	if s.focused {
		borderStyle = styles.FormFieldFocusedStyle
	}

	return borderStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
