package task

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDraft(t *testing.T) {
	t.Run("applies defaults and trims", func(t *testing.T) {
		got, err := ValidateDraft(Draft{
			Title:       "  Buy milk ",
			Description: " two litres\n",
			Tags:        "errand, , home ,",
		})
		require.NoError(t, err)

		assert.Equal(t, Draft{
			Title:       "Buy milk",
			Description: "two litres",
			Category:    CategoryPersonal,
			Priority:    PriorityMedium,
			Tags:        "errand, home",
		}, got)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		_, err := ValidateDraft(Draft{Title: "   "})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "title", verr.Field)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := ValidateDraft(Draft{Title: "x", Category: "Chores"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown priority", func(t *testing.T) {
		_, err := ValidateDraft(Draft{Title: "x", Priority: "Urgent"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("due date kept", func(t *testing.T) {
		got, err := ValidateDraft(Draft{Title: "x", DueDate: "2026-05-01"})
		require.NoError(t, err)
		assert.Equal(t, "2026-05-01", got.DueDate)
	})

	t.Run("bad due date", func(t *testing.T) {
		_, err := ValidateDraft(Draft{Title: "x", DueDate: "tomorrow"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "due_date", verr.Field)
	})
}

func TestValidatePatch(t *testing.T) {
	t.Run("empty patch rejected", func(t *testing.T) {
		_, err := ValidatePatch(Patch{})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		blank := " "
		_, err := ValidatePatch(Patch{Title: &blank})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("empty due date clears", func(t *testing.T) {
		empty := ""
		got, err := ValidatePatch(Patch{DueDate: &empty})
		require.NoError(t, err)
		require.NotNil(t, got.DueDate)
		assert.Empty(t, *got.DueDate)
	})

	t.Run("priority only", func(t *testing.T) {
		got, err := ValidatePatch(PriorityPatch(PriorityHigh))
		require.NoError(t, err)
		assert.Equal(t, PriorityHigh, *got.Priority)
		assert.Nil(t, got.Title)
	})

	t.Run("invalid priority", func(t *testing.T) {
		_, err := ValidatePatch(PriorityPatch("Critical"))
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestPatchApply_LeavesAbsentFieldsUntouched(t *testing.T) {
	orig := Task{
		ID:          7,
		Title:       "Write report",
		Description: "Q1 numbers",
		DueDate:     "2026-04-01",
		Category:    CategoryWork,
		Priority:    PriorityLow,
		Tags:        "work",
	}

	got := PriorityPatch(PriorityHigh).Apply(orig)

	want := orig
	want.Priority = PriorityHigh
	assert.Equal(t, want, got)
}

func TestParseDueDate(t *testing.T) {
	loc := time.FixedZone("PST", -8*60*60)

	d, ok := ParseDueDate("2026-03-14", loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.March, 14, 0, 0, 0, 0, loc), d)

	// 05:00Z is still the 13th eight hours west.
	d, ok = ParseDueDate("2026-03-14T05:00:00Z", loc)
	require.True(t, ok)
	assert.Equal(t, 13, d.Day())

	_, ok = ParseDueDate("", loc)
	assert.False(t, ok)
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d"}, SplitTags(" a,b c ,, d"))
	assert.Empty(t, SplitTags(""))
	assert.Equal(t, "a, b", NormalizeTags("a,b"))
}
