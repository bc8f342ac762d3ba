package form

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func TestTextAreaField(t *testing.T) {
	t.Run("default value", func(t *testing.T) {
		f := NewTextAreaField("Description", "Optional notes", "two\nlines")
		assert.Equal(t, "Description", f.Label())
		assert.Equal(t, "two\nlines", f.Value())
	})

	t.Run("update ignored when not focused", func(t *testing.T) {
		f := NewTextAreaField("Description", "", "")
		field, cmd := f.Update(tea.KeyPressMsg(tea.Key{Code: 'a', Text: "a"}))
		assert.Nil(t, cmd)
		assert.Empty(t, field.Value())
	})

	t.Run("validate with no rules", func(t *testing.T) {
		f := NewTextAreaField("Description", "", "")
		assert.Empty(t, f.Validate())
	})

	t.Run("view changes with focus", func(t *testing.T) {
		f := NewTextAreaField("Description", "", "")
		unfocused := f.View()
		assert.Contains(t, unfocused, "Description")

		f.Focus()
		assert.True(t, f.Focused())
		assert.NotEqual(t, unfocused, f.View())
	})
}
