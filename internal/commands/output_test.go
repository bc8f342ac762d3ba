package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/dailyflow/internal/core/task"
)

var testNow = time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []int64
		wantErr bool
	}{
		{name: "single", args: []string{"4"}, want: []int64{4}},
		{name: "comma separated", args: []string{"1,2, 3"}, want: []int64{1, 2, 3}},
		{name: "mixed with duplicates", args: []string{"2", "1,2", "3"}, want: []int64{2, 1, 3}},
		{name: "empty", wantErr: true},
		{name: "only separators", args: []string{",,"}, wantErr: true},
		{name: "not a number", args: []string{"abc"}, wantErr: true},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "negative", args: []string{"-3"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIDs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID([]string{"12"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = parseID(nil)
	assert.Error(t, err)

	_, err = parseID([]string{"1", "2"})
	assert.Error(t, err)

	_, err = parseID([]string{"1,2"})
	assert.Error(t, err)
}

func TestStatusAndDueText(t *testing.T) {
	tests := []struct {
		name       string
		task       task.Task
		wantStatus string
		wantDue    string
	}{
		{name: "no due date", task: task.Task{}, wantStatus: "pending", wantDue: ""},
		{name: "due today", task: task.Task{DueDate: "2025-03-07"}, wantStatus: "pending", wantDue: "Today"},
		{name: "overdue", task: task.Task{DueDate: "2025-03-01"}, wantStatus: "overdue", wantDue: "Mar 1 (overdue)"},
		{name: "completed past due", task: task.Task{DueDate: "2025-03-01", IsCompleted: true}, wantStatus: "completed", wantDue: "Mar 1"},
		{name: "next year", task: task.Task{DueDate: "2026-01-02"}, wantStatus: "pending", wantDue: "Jan 2, 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, statusText(tt.task, testNow))
			assert.Equal(t, tt.wantDue, dueText(tt.task, testNow))
		})
	}
}

func TestWriteTasks(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, Title: "Buy milk", Category: task.CategoryShopping, Priority: task.PriorityLow, DueDate: "2025-03-07"},
		{ID: 2, Title: "Ship release", Category: task.CategoryWork, Priority: task.PriorityHigh, IsCompleted: true, Tags: "release"},
	}

	t.Run("json lines", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeTasks(&buf, tasks, testNow, true))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)

		var first task.Task
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, "Buy milk", first.Title)
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeTasks(&buf, tasks, testNow, false))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "ID"))
		assert.Contains(t, lines[1], "Today")
		assert.Contains(t, lines[2], "x")
		assert.Contains(t, lines[2], "release")
	})
}

func TestWantJSON(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, wantJSON(&buf, false), "buffers are not terminals")
	assert.True(t, wantJSON(&buf, true))
}

func TestWriteOutcomes(t *testing.T) {
	done := task.Task{ID: 1}
	outcomes := []task.Outcome{
		{ID: 1, Task: &done},
		{ID: 9, Err: errors.New("task not found")},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeOutcomes(&buf, outcomes, false))
		assert.Equal(t, "1\tok\n9\tfailed: task not found\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeOutcomes(&buf, outcomes, true))
		assert.Equal(t,
			`{"id":1,"ok":true}`+"\n"+`{"id":9,"ok":false,"error":"task not found"}`+"\n",
			buf.String(),
		)
	})
}
