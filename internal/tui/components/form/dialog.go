package form

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/colonyops/dailyflow/internal/core/styles"
)

// filterer is an optional interface for fields that support list filtering.
type filterer interface {
	IsFiltering() bool
}

// Dialog is a form container that manages focus cycling, submission, and
// cancellation across a set of form fields. Fields are addressed by key.
type Dialog struct {
	fields       []Field
	keys         []string // parallel slice: key for each field
	focusedField int
	submitted    bool
	cancelled    bool
	busy         bool
	Title        string
}

// NewDialog creates a form dialog with the given fields and keys.
// The first field is focused automatically.
func NewDialog(title string, fields []Field, keys []string) *Dialog {
	d := &Dialog{
		fields: fields,
		keys:   keys,
		Title:  title,
	}
	if len(fields) > 0 {
		fields[0].Focus()
	}
	return d
}

// Update handles key input for the dialog, managing focus cycling and submit/cancel.
// Input is ignored while the dialog is busy.
func (d *Dialog) Update(msg tea.Msg) (*Dialog, tea.Cmd) {
	if d.busy {
		return d, nil
	}

	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return d.updateFocusedField(msg)
	}

	switch keyMsg.String() {
	case "tab":
		return d.advanceFocus()
	case "shift+tab":
		return d.retreatFocus()
	case "ctrl+s":
		return d.trySubmit()
	case "enter":
		if d.isTextAreaFocused() {
			return d.updateFocusedField(msg)
		}
		return d.advanceFocus()
	case "esc":
		if d.isFocusedFieldFiltering() {
			return d.updateFocusedField(msg)
		}
		d.cancelled = true
		return d, nil
	}

	return d.updateFocusedField(msg)
}

// View renders all fields vertically with spacing and help text.
func (d *Dialog) View() string {
	var parts []string
	for i, field := range d.fields {
		if i > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, field.View())
	}

	help := "tab: next  shift+tab: prev  ctrl+s: save  esc: cancel"
	if d.busy {
		help = "saving..."
	}
	parts = append(parts, "", styles.TextMutedStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Values returns a map of field keys to field values.
func (d *Dialog) Values() map[string]string {
	result := make(map[string]string, len(d.fields))
	for i, field := range d.fields {
		result[d.keys[i]] = field.Value()
	}
	return result
}

// Submitted returns whether the form was submitted.
func (d *Dialog) Submitted() bool { return d.submitted }

// Cancelled returns whether the form was cancelled.
func (d *Dialog) Cancelled() bool { return d.cancelled }

// Busy reports whether the dialog is waiting on a save.
func (d *Dialog) Busy() bool { return d.busy }

// SetBusy freezes input while a submitted form is being saved.
func (d *Dialog) SetBusy(busy bool) { d.busy = busy }

// Reopen returns a submitted dialog to the editing state so the user can
// correct and resubmit.
func (d *Dialog) Reopen() {
	d.submitted = false
	d.busy = false
}

// SetFieldError attaches msg to the field with the given key, focuses it and
// reopens the dialog. It reports whether the key matched a field.
func (d *Dialog) SetFieldError(key, msg string) bool {
	for i, k := range d.keys {
		if k != key {
			continue
		}
		d.fields[i].SetError(msg)
		d.Reopen()
		d.focus(i)
		return true
	}
	return false
}

func (d *Dialog) trySubmit() (*Dialog, tea.Cmd) {
	first := -1
	for i, f := range d.fields {
		if f.Validate() != "" && first < 0 {
			first = i
		}
	}

	if first >= 0 {
		return d, d.focus(first)
	}

	d.submitted = true
	return d, nil
}

func (d *Dialog) advanceFocus() (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 {
		return d, nil
	}

	next := d.focusedField + 1
	if next >= len(d.fields) {
		return d.trySubmit()
	}

	return d, d.focus(next)
}

func (d *Dialog) retreatFocus() (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 || d.focusedField == 0 {
		return d, nil
	}
	return d, d.focus(d.focusedField - 1)
}

func (d *Dialog) focus(i int) tea.Cmd {
	if i == d.focusedField && d.fields[i].Focused() {
		return nil
	}
	d.fields[d.focusedField].Blur()
	d.focusedField = i
	return d.fields[i].Focus()
}

func (d *Dialog) updateFocusedField(msg tea.Msg) (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 {
		return d, nil
	}

	var cmd tea.Cmd
	d.fields[d.focusedField], cmd = d.fields[d.focusedField].Update(msg)
	return d, cmd
}

func (d *Dialog) isTextAreaFocused() bool {
	if len(d.fields) == 0 {
		return false
	}
	_, ok := d.fields[d.focusedField].(*TextAreaField)
	return ok
}

func (d *Dialog) isFocusedFieldFiltering() bool {
	if len(d.fields) == 0 {
		return false
	}
	if f, ok := d.fields[d.focusedField].(filterer); ok {
		return f.IsFiltering()
	}
	return false
}
