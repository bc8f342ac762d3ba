package form

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/colonyops/dailyflow/internal/core/styles"
)

// TextField is a single-line text input form field.
type TextField struct {
	fieldState
	input textinput.Model
}

// NewTextField creates a new single-line text input field. An optional
// FieldValidation is checked on submit.
func NewTextField(label, placeholder, defaultVal string, v ...FieldValidation) *TextField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.SetWidth(48)
	if v := firstValidation(v); v.MaxLength > 0 {
		ti.CharLimit = v.MaxLength
	}

	if defaultVal != "" {
		ti.SetValue(defaultVal)
	}

	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Cursor.Color = styles.ColorPrimary
	inputStyles.Focused.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	inputStyles.Blurred.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	ti.SetStyles(inputStyles)

	return &TextField{
		fieldState: newFieldState(label, v),
		input:      ti,
	}
}

func (f *TextField) Update(msg tea.Msg) (Field, tea.Cmd) {
	if !f.focused {
		return f, nil
	}

	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() != before {
		f.err = ""
	}
	return f, cmd
}

func (f *TextField) View() string { return f.frame(f.input.View()) }

func (f *TextField) Focus() tea.Cmd {
	f.focused = true
	return f.input.Focus()
}

func (f *TextField) Blur() {
	f.focused = false
	f.input.Blur()
}

func (f *TextField) Value() string { return f.input.Value() }

func (f *TextField) Validate() string {
	f.err = f.validation.ValidateText(f.input.Value())
	return f.err
}

func firstValidation(v []FieldValidation) FieldValidation {
	if len(v) == 0 {
		return FieldValidation{}
	}
	return v[0]
}
