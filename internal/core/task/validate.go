package task

import (
	"strings"
	"time"
)

// DateLayout is the wire and storage layout for due dates.
const DateLayout = "2006-01-02"

// ValidateDraft trims and normalizes d, filling category and priority
// defaults. It returns a *ValidationError when the title is blank, an enum
// value is unknown, or the due date cannot be parsed.
func ValidateDraft(d Draft) (Draft, error) {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return Draft{}, invalid("title", "is required")
	}

	d.Description = strings.TrimSpace(d.Description)

	if d.Category == "" {
		d.Category = DefaultCategory
	}
	if !d.Category.IsValid() {
		return Draft{}, invalid("category", "unknown category %q", d.Category)
	}

	if d.Priority == "" {
		d.Priority = DefaultPriority
	}
	if !d.Priority.IsValid() {
		return Draft{}, invalid("priority", "unknown priority %q", d.Priority)
	}

	due, err := normalizeDueDate(d.DueDate)
	if err != nil {
		return Draft{}, err
	}
	d.DueDate = due
	d.Tags = NormalizeTags(d.Tags)

	return d, nil
}

// ValidatePatch normalizes every provided field of p using the same rules as
// ValidateDraft. An empty patch is rejected.
func ValidatePatch(p Patch) (Patch, error) {
	if p.IsEmpty() {
		return Patch{}, invalid("patch", "no fields to update")
	}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return Patch{}, invalid("title", "is required")
		}
		p.Title = &title
	}

	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		p.Description = &desc
	}

	if p.Category != nil && !p.Category.IsValid() {
		return Patch{}, invalid("category", "unknown category %q", *p.Category)
	}

	if p.Priority != nil && !p.Priority.IsValid() {
		return Patch{}, invalid("priority", "unknown priority %q", *p.Priority)
	}

	if p.DueDate != nil {
		due, err := normalizeDueDate(*p.DueDate)
		if err != nil {
			return Patch{}, err
		}
		p.DueDate = &due
	}

	if p.Tags != nil {
		tags := NormalizeTags(*p.Tags)
		p.Tags = &tags
	}

	return p, nil
}

func normalizeDueDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	d, ok := ParseDueDate(raw, time.Local)
	if !ok {
		return "", invalid("due_date", "%q is not a date (want YYYY-MM-DD)", raw)
	}
	return d.Format(DateLayout), nil
}

// ParseDueDate parses a due date as a calendar date in loc. Both YYYY-MM-DD
// and RFC 3339 timestamps are accepted; a timestamp is converted to loc before
// its date is taken. The result is midnight of that date in loc.
func ParseDueDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	if d, err := time.ParseInLocation(DateLayout, raw, loc); err == nil {
		return d, true
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return CalendarDate(ts.In(loc)), true
		}
	}

	return time.Time{}, false
}

// SplitTags splits a comma-separated tag string into trimmed, non-empty tags.
func SplitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// NormalizeTags rewrites a tag string as "a, b, c", dropping empty entries.
func NormalizeTags(raw string) string {
	return strings.Join(SplitTags(raw), ", ")
}
