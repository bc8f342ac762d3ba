package form

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// FieldValidation holds runtime validation rules for a form field.
// Values are trimmed before Required and length checks.
type FieldValidation struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp

	// Check runs last on non-empty values. A non-nil error becomes the
	// field message.
	Check func(string) error
}

// ValidateText checks a text value against the validation rules.
func (v FieldValidation) ValidateText(value string) string {
	value = strings.TrimSpace(value)
	if v.Required && value == "" {
		return "required"
	}
	if value == "" {
		return ""
	}

	n := utf8.RuneCountInString(value)
	if v.MinLength > 0 && n < v.MinLength {
		return fmt.Sprintf("minimum %d characters", v.MinLength)
	}
	if v.MaxLength > 0 && n > v.MaxLength {
		return fmt.Sprintf("maximum %d characters", v.MaxLength)
	}
	if v.Pattern != nil && !v.Pattern.MatchString(value) {
		return fmt.Sprintf("must match pattern: %s", v.Pattern.String())
	}
	if v.Check != nil {
		if err := v.Check(value); err != nil {
			return err.Error()
		}
	}
	return ""
}
