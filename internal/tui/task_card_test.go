package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/dailyflow/internal/core/styles"
	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/pkg/tuitest"
)

func TestRenderTaskCard(t *testing.T) {
	overdue := seedTasks()[0]
	overdue.Description = "Quarterly numbers\nsecond line"

	t.Run("shows fields", func(t *testing.T) {
		out := tuitest.StripANSI(renderTaskCard(overdue, testNow, 100, cardState{}))

		assert.Contains(t, out, "Write report")
		assert.Contains(t, out, "Quarterly numbers")
		assert.NotContains(t, out, "second line", "only the first description line is shown")
		assert.Contains(t, out, "Mar 8")
		assert.Contains(t, out, "Work")
		assert.Contains(t, out, "High")
		assert.Contains(t, out, "Mar 7", "created date")
		assert.Contains(t, out, styles.IconUnchecked)
	})

	t.Run("completed task", func(t *testing.T) {
		done := overdue
		done.IsCompleted = true
		out := tuitest.StripANSI(renderTaskCard(done, testNow, 100, cardState{}))
		assert.Contains(t, out, styles.IconChecked)
	})

	t.Run("selection mode marks selected cards", func(t *testing.T) {
		out := tuitest.StripANSI(renderTaskCard(overdue, testNow, 100, cardState{selectionMode: true, selected: true}))
		assert.Contains(t, out, styles.IconSelected)
	})

	t.Run("delete prompts", func(t *testing.T) {
		out := tuitest.StripANSI(renderTaskCard(overdue, testNow, 100, cardState{confirmDelete: true}))
		assert.Contains(t, out, "Delete this task?")

		out = tuitest.StripANSI(renderTaskCard(overdue, testNow, 100, cardState{deleting: true}))
		assert.Contains(t, out, "Deleting...")
	})
}

func TestRenderHeader(t *testing.T) {
	assert.Contains(t, tuitest.StripANSI(renderHeader(1, 0, false, 80)), "1 task total")

	out := tuitest.StripANSI(renderHeader(5, 2, true, 80))
	assert.Contains(t, out, "5 tasks total")
	assert.Contains(t, out, "• 2 selected")
}

func TestRenderStats(t *testing.T) {
	out := tuitest.StripANSI(renderStats(task.Stats{Total: 4, Completed: 1, Pending: 3, Overdue: 2, CompletionRate: 25}))

	for _, want := range []string{"Total", "Completed", "Pending", "Overdue", "Progress", "25%"} {
		assert.Contains(t, out, want)
	}
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, progressBarWidth, len([]rune(tuitest.StripANSI(progressBar(0)))))
	assert.Equal(t, progressBarWidth, len([]rune(tuitest.StripANSI(progressBar(150)))))
}

func TestBuildInfoHelpTitle(t *testing.T) {
	assert.Equal(t, "Keyboard Shortcuts", BuildInfo{}.helpTitle())
	assert.Equal(t, "Keyboard Shortcuts · dailyflow v1.2.0", BuildInfo{Version: "v1.2.0"}.helpTitle())
	assert.Equal(t, "Keyboard Shortcuts · dailyflow v1.2.0 (abc123)", BuildInfo{Version: "v1.2.0", Commit: "abc123"}.helpTitle())
}
