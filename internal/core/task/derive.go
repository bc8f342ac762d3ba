package task

import (
	"math"
	"time"
)

// CalendarDate returns midnight of t's date in t's location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// compareDay compares the calendar date of due against the calendar date of
// now, both in now's location. It returns -1, 0 or 1 and false when due is
// absent or unparseable.
func compareDay(due string, now time.Time) (int, bool) {
	d, ok := ParseDueDate(due, now.Location())
	if !ok {
		return 0, false
	}

	today := CalendarDate(now)
	switch {
	case d.Before(today):
		return -1, true
	case d.After(today):
		return 1, true
	default:
		return 0, true
	}
}

// IsOverdue reports whether t is incomplete and due on a calendar day
// strictly before now's calendar day. Time of day is ignored.
func IsOverdue(t Task, now time.Time) bool {
	if t.IsCompleted {
		return false
	}
	cmp, ok := compareDay(t.DueDate, now)
	return ok && cmp < 0
}

// Stats summarizes a task collection.
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completion_rate"`
}

// ComputeStats counts tasks and derives the completion rate as a rounded
// percentage in [0, 100]. The rate is 0 for an empty collection.
func ComputeStats(tasks []Task, now time.Time) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsCompleted {
			s.Completed++
		}
		if IsOverdue(t, now) {
			s.Overdue++
		}
	}
	s.Pending = s.Total - s.Completed

	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// Partition splits a collection into overdue and regular tasks.
type Partition struct {
	Overdue []Task
	Regular []Task
}

// PartitionOverdue splits tasks by IsOverdue, keeping relative order inside
// each half.
func PartitionOverdue(tasks []Task, now time.Time) Partition {
	var p Partition
	for _, t := range tasks {
		if IsOverdue(t, now) {
			p.Overdue = append(p.Overdue, t)
		} else {
			p.Regular = append(p.Regular, t)
		}
	}
	return p
}

// DueLabel is the display form of a due date.
type DueLabel struct {
	Text    string
	Overdue bool
	Today   bool
}

// FormatDue renders a due date relative to now: "Today" on the same calendar
// day, otherwise a short "Jan 2" label (with the year when it differs from
// now's). ok is false when there is no valid due date.
func FormatDue(due string, now time.Time) (label DueLabel, ok bool) {
	cmp, ok := compareDay(due, now)
	if !ok {
		return DueLabel{}, false
	}

	if cmp == 0 {
		return DueLabel{Text: "Today", Today: true}, true
	}

	d, _ := ParseDueDate(due, now.Location())
	layout := "Jan 2"
	if d.Year() != now.Year() {
		layout = "Jan 2, 2006"
	}

	return DueLabel{Text: d.Format(layout), Overdue: cmp < 0}, true
}

// Group is a labeled slice of tasks.
type Group struct {
	Key   string
	Tasks []Task
}

// GroupByCategory buckets tasks by category in Categories() order. Empty
// buckets are omitted; tasks with an unknown category land in a trailing
// "Other" group.
func GroupByCategory(tasks []Task) []Group {
	keys := make([]string, 0, len(Categories())+1)
	for _, c := range Categories() {
		keys = append(keys, string(c))
	}
	return groupBy(tasks, keys, func(t Task) string {
		if t.Category.IsValid() {
			return string(t.Category)
		}
		return "Other"
	})
}

// GroupByPriority buckets tasks by priority from High to Low.
func GroupByPriority(tasks []Task) []Group {
	keys := make([]string, 0, len(Priorities())+1)
	for _, p := range Priorities() {
		keys = append(keys, string(p))
	}
	return groupBy(tasks, keys, func(t Task) string {
		if t.Priority.IsValid() {
			return string(t.Priority)
		}
		return "Other"
	})
}

func groupBy(tasks []Task, keys []string, keyFn func(Task) string) []Group {
	keys = append(keys, "Other")
	buckets := make(map[string][]Task, len(keys))
	for _, t := range tasks {
		k := keyFn(t)
		buckets[k] = append(buckets[k], t)
	}

	groups := make([]Group, 0, len(buckets))
	for _, k := range keys {
		if len(buckets[k]) > 0 {
			groups = append(groups, Group{Key: k, Tasks: buckets[k]})
		}
	}
	return groups
}
