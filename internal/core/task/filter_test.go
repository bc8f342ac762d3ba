package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	tasks := []Task{
		{ID: 1, Category: CategoryWork, Priority: PriorityHigh, Tags: "work, urgent", DueDate: day(-1)},
		{ID: 2, Category: CategoryPersonal, Priority: PriorityMedium, Tags: "home", IsCompleted: true},
		{ID: 3, Category: CategoryWork, Priority: PriorityLow, Tags: "workshop"},
		{ID: 4, Category: CategoryShopping, Priority: PriorityMedium},
	}

	tests := []struct {
		name string
		q    Query
		want []int64
	}{
		{name: "zero query", q: Query{}, want: []int64{1, 2, 3, 4}},
		{name: "pending", q: Query{Status: StatusPending}, want: []int64{1, 3, 4}},
		{name: "completed", q: Query{Status: StatusCompleted}, want: []int64{2}},
		{name: "overdue", q: Query{Status: StatusOverdue}, want: []int64{1}},
		{name: "category", q: Query{Category: CategoryWork}, want: []int64{1, 3}},
		{name: "priority", q: Query{Priority: PriorityMedium}, want: []int64{2, 4}},
		{name: "tag exact", q: Query{Tag: "home"}, want: []int64{2}},
		{name: "tag glob", q: Query{Tag: "work*"}, want: []int64{1, 3}},
		{name: "tag alternation", q: Query{Tag: "{urgent,home}"}, want: []int64{1, 2}},
		{name: "combined", q: Query{Category: CategoryWork, Tag: "work*", Status: StatusPending}, want: []int64{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(tasks, tt.q, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_InvalidQuery(t *testing.T) {
	tests := []Query{
		{Status: "later"},
		{Category: "Chores"},
		{Priority: "Urgent"},
		{Tag: "[unclosed"},
	}

	for _, q := range tests {
		_, err := Filter(nil, q, testNow)
		assert.ErrorIs(t, err, ErrValidation, "%+v", q)
	}
}
