package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.March, 14, 15, 30, 0, 0, time.UTC)

func day(offset int) string {
	return testNow.AddDate(0, 0, offset).Format(DateLayout)
}

func TestIsOverdue(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want bool
	}{
		{name: "yesterday incomplete", task: Task{DueDate: day(-1)}, want: true},
		{name: "last year incomplete", task: Task{DueDate: "2025-12-31"}, want: true},
		{name: "today", task: Task{DueDate: day(0)}, want: false},
		{name: "tomorrow", task: Task{DueDate: day(1)}, want: false},
		{name: "yesterday completed", task: Task{DueDate: day(-1), IsCompleted: true}, want: false},
		{name: "no due date", task: Task{}, want: false},
		{name: "garbage due date", task: Task{DueDate: "someday"}, want: false},
		{name: "timestamp earlier today", task: Task{DueDate: "2026-03-14T01:00:00Z"}, want: false},
		{name: "timestamp yesterday late", task: Task{DueDate: "2026-03-13T23:59:59Z"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOverdue(tt.task, testNow))
		})
	}
}

func TestIsOverdue_IgnoresTimeOfDay(t *testing.T) {
	due := Task{DueDate: "2026-03-13"}

	earlyMorning := time.Date(2026, time.March, 14, 0, 0, 1, 0, time.UTC)
	lateNight := time.Date(2026, time.March, 13, 23, 59, 59, 0, time.UTC)

	assert.True(t, IsOverdue(due, earlyMorning))
	assert.False(t, IsOverdue(due, lateNight))
}

func TestIsOverdue_UsesNowLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2026-03-13T20:00Z is already the 14th in Tokyo.
	now := time.Date(2026, time.March, 13, 20, 0, 0, 0, time.UTC).In(tokyo)

	assert.True(t, IsOverdue(Task{DueDate: "2026-03-13"}, now))
	assert.False(t, IsOverdue(Task{DueDate: "2026-03-14"}, now))
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name  string
		tasks []Task
		want  Stats
	}{
		{
			name:  "empty",
			tasks: nil,
			want:  Stats{},
		},
		{
			name:  "single overdue",
			tasks: []Task{{ID: 1, Title: "A", DueDate: day(-1)}},
			want:  Stats{Total: 1, Pending: 1, Overdue: 1, CompletionRate: 0},
		},
		{
			name: "one of three rounds down",
			tasks: []Task{
				{ID: 1, IsCompleted: true},
				{ID: 2},
				{ID: 3},
			},
			want: Stats{Total: 3, Completed: 1, Pending: 2, CompletionRate: 33},
		},
		{
			name: "two of three rounds up",
			tasks: []Task{
				{ID: 1, IsCompleted: true},
				{ID: 2, IsCompleted: true},
				{ID: 3, DueDate: day(-3)},
			},
			want: Stats{Total: 3, Completed: 2, Pending: 1, Overdue: 1, CompletionRate: 67},
		},
		{
			name: "all complete",
			tasks: []Task{
				{ID: 1, IsCompleted: true, DueDate: day(-5)},
				{ID: 2, IsCompleted: true},
			},
			want: Stats{Total: 2, Completed: 2, CompletionRate: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStats(tt.tasks, testNow))
		})
	}
}

func TestComputeStats_RateInRange(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for done := 0; done <= total; done++ {
			tasks := make([]Task, total)
			for i := range done {
				tasks[i].IsCompleted = true
			}

			s := ComputeStats(tasks, testNow)
			require.GreaterOrEqual(t, s.CompletionRate, 0)
			require.LessOrEqual(t, s.CompletionRate, 100)
			require.Equal(t, total-done, s.Pending)
		}
	}
}

func TestPartitionOverdue_PreservesOrder(t *testing.T) {
	tasks := []Task{
		{ID: 1, DueDate: day(-2)},
		{ID: 2},
		{ID: 3, DueDate: day(-1)},
		{ID: 4, DueDate: day(-1), IsCompleted: true},
		{ID: 5, DueDate: day(2)},
	}

	p := PartitionOverdue(tasks, testNow)

	assert.Equal(t, []int64{1, 3}, ids(p.Overdue))
	assert.Equal(t, []int64{2, 4, 5}, ids(p.Regular))
}

func TestFormatDue(t *testing.T) {
	tests := []struct {
		name   string
		due    string
		want   DueLabel
		wantOK bool
	}{
		{name: "today", due: day(0), want: DueLabel{Text: "Today", Today: true}, wantOK: true},
		{name: "yesterday", due: day(-1), want: DueLabel{Text: "Mar 13", Overdue: true}, wantOK: true},
		{name: "next week", due: day(7), want: DueLabel{Text: "Mar 21"}, wantOK: true},
		{name: "other year", due: "2027-01-05", want: DueLabel{Text: "Jan 5, 2027"}, wantOK: true},
		{name: "empty", due: "", wantOK: false},
		{name: "invalid", due: "13/03/2026", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatDue(tt.due, testNow)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDue_AgreesWithIsOverdue(t *testing.T) {
	for offset := -10; offset <= 10; offset++ {
		due := day(offset)
		label, ok := FormatDue(due, testNow)
		require.True(t, ok)
		assert.Equal(t, IsOverdue(Task{DueDate: due}, testNow), label.Overdue, "offset %d", offset)
	}
}

func TestGroupByCategory(t *testing.T) {
	tasks := []Task{
		{ID: 1, Category: CategoryHealth},
		{ID: 2, Category: CategoryWork},
		{ID: 3, Category: "Hobby"},
		{ID: 4, Category: CategoryWork},
	}

	groups := GroupByCategory(tasks)
	require.Len(t, groups, 3)

	assert.Equal(t, "Work", groups[0].Key)
	assert.Equal(t, []int64{2, 4}, ids(groups[0].Tasks))
	assert.Equal(t, "Health", groups[1].Key)
	assert.Equal(t, "Other", groups[2].Key)
	assert.Equal(t, []int64{3}, ids(groups[2].Tasks))
}

func TestGroupByPriority(t *testing.T) {
	tasks := []Task{
		{ID: 1, Priority: PriorityLow},
		{ID: 2, Priority: PriorityHigh},
		{ID: 3, Priority: PriorityLow},
	}

	groups := GroupByPriority(tasks)
	require.Len(t, groups, 2)
	assert.Equal(t, "High", groups[0].Key)
	assert.Equal(t, "Low", groups[1].Key)
	assert.Equal(t, []int64{1, 3}, ids(groups[1].Tasks))
}

func ids(tasks []Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
