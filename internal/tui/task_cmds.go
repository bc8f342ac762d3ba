package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/dailyflow/internal/core/task"
)

// tasksLoadedMsg is sent when the task collection has been fetched. Silent
// loads come from the store watcher and do not flip the page into the
// loading or error states.
type tasksLoadedMsg struct {
	tasks  []task.Task
	err    error
	silent bool
	issued time.Time
}

// taskSavedMsg is sent when a create or edit submitted from the form
// finishes.
type taskSavedMsg struct {
	task    task.Task
	created bool
	err     error
}

// taskToggledMsg is sent when a completion toggle finishes.
type taskToggledMsg struct {
	task task.Task
	err  error
}

// taskDeletedMsg is sent when a single delete finishes. ok is false when the
// backend answered without removing the task.
type taskDeletedMsg struct {
	id  int64
	ok  bool
	err error
}

// bulkUpdatedMsg is sent when a bulk complete or bulk priority change
// finishes.
type bulkUpdatedMsg struct {
	outcomes []task.Outcome
	err      error
}

// bulkDeletedMsg is sent when a bulk delete finishes.
type bulkDeletedMsg struct {
	outcomes []task.Outcome
	err      error
}

// loadTasks returns a tea.Cmd that fetches every task.
func (m Model) loadTasks(silent bool) tea.Cmd {
	svc := m.tasks
	issued := time.Now()
	return func() tea.Msg {
		tasks, err := svc.Load(context.Background())
		return tasksLoadedMsg{tasks: tasks, err: err, silent: silent, issued: issued}
	}
}

func (m Model) createTask(d task.Draft) tea.Cmd {
	svc := m.tasks
	return func() tea.Msg {
		t, err := svc.Create(context.Background(), d)
		return taskSavedMsg{task: t, created: true, err: err}
	}
}

func (m Model) updateTask(id int64, p task.Patch) tea.Cmd {
	svc := m.tasks
	return func() tea.Msg {
		t, err := svc.Update(context.Background(), id, p)
		return taskSavedMsg{task: t, err: err}
	}
}

func (m Model) toggleTask(id int64) tea.Cmd {
	svc := m.tasks
	return func() tea.Msg {
		t, err := svc.Toggle(context.Background(), id)
		return taskToggledMsg{task: t, err: err}
	}
}

func (m Model) deleteTask(id int64) tea.Cmd {
	svc := m.tasks
	return func() tea.Msg {
		ok, err := svc.Delete(context.Background(), id)
		return taskDeletedMsg{id: id, ok: ok, err: err}
	}
}

func (m Model) bulkComplete(ids []int64) tea.Cmd {
	svc := m.tasks
	return func() tea.Msg {
		out, err := svc.BulkComplete(context.Background(), ids)
		return bulkUpdatedMsg{outcomes: out, err: err}
	}
}

func (m Model) bulkSetPriority(ids []int64, p task.Priority) tea.Cmd {
	svc := m.tasks
	return func() tea.Msg {
		out, err := svc.BulkSetPriority(context.Background(), ids, p)
		return bulkUpdatedMsg{outcomes: out, err: err}
	}
}

func (m Model) bulkDelete(ids []int64) tea.Cmd {
	svc := m.tasks
	return func() tea.Msg {
		out, err := svc.BulkDelete(context.Background(), ids)
		return bulkDeletedMsg{outcomes: out, err: err}
	}
}
