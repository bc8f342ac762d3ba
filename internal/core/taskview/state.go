// Package taskview holds the client-side copy of the task collection and the
// selection set, and the small state machines that drive editing and
// deletion. Every mutation here runs after the repository has confirmed it.
package taskview

import (
	"slices"

	"github.com/colonyops/dailyflow/internal/core/task"
)

// State owns the in-memory task collection and the selection set. The zero
// value is an empty collection. It is not safe for concurrent use; the TUI
// mutates it from its update loop only.
type State struct {
	tasks         []task.Task
	selected      map[int64]struct{}
	selectionMode bool
}

// New returns a State holding a copy of tasks.
func New(tasks []task.Task) *State {
	s := &State{selected: make(map[int64]struct{})}
	s.ApplyLoaded(tasks)
	return s
}

// Snapshot is a read-only copy of State for rendering.
type Snapshot struct {
	Tasks         []task.Task
	Selected      []int64
	SelectionMode bool
}

// IsSelected reports whether id is in the snapshot's selection.
func (s Snapshot) IsSelected(id int64) bool {
	_, found := slices.BinarySearch(s.Selected, id)
	return found
}

// Snapshot copies the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Tasks:         s.Tasks(),
		Selected:      s.Selected(),
		SelectionMode: s.selectionMode,
	}
}

// Tasks returns a copy of the collection in display order.
func (s *State) Tasks() []task.Task {
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks held.
func (s *State) Len() int {
	return len(s.tasks)
}

// Find returns the task with the given id.
func (s *State) Find(id int64) (task.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

func (s *State) indexOf(id int64) int {
	return slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
}

// ApplyLoaded replaces the collection with an authoritative listing. Selected
// ids that no longer exist are dropped.
func (s *State) ApplyLoaded(tasks []task.Task) {
	s.tasks = slices.Clone(tasks)
	for id := range s.selected {
		if s.indexOf(id) < 0 {
			delete(s.selected, id)
		}
	}
	if len(s.selected) == 0 {
		s.selectionMode = false
	}
}

// ApplyCreated appends t to the collection.
func (s *State) ApplyCreated(t task.Task) {
	s.tasks = append(s.tasks, t)
}

// ApplyUpdated replaces the entry with t's id. Unknown ids are ignored.
func (s *State) ApplyUpdated(t task.Task) {
	if i := s.indexOf(t.ID); i >= 0 {
		s.tasks[i] = t
	}
}

// ApplyDeleted removes the entry and its selection.
func (s *State) ApplyDeleted(id int64) {
	s.tasks = slices.DeleteFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
	s.deselect(id)
}

// ApplyBulkUpdated replaces every matching entry, then clears the selection
// and leaves selection mode whether or not every id succeeded.
func (s *State) ApplyBulkUpdated(updated []task.Task) {
	for _, t := range updated {
		s.ApplyUpdated(t)
	}
	s.clearSelection()
}

// ApplyBulkDeleted removes every confirmed id and clears the selection.
func (s *State) ApplyBulkDeleted(ids []int64) {
	gone := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}
	s.tasks = slices.DeleteFunc(s.tasks, func(t task.Task) bool {
		_, ok := gone[t.ID]
		return ok
	})
	s.clearSelection()
}

// ToggleSelection adds or removes id from the selection. Selection mode
// follows the selection: on while anything is selected, off otherwise.
func (s *State) ToggleSelection(id int64, selected bool) {
	if selected {
		if s.indexOf(id) < 0 {
			return
		}
		s.ensureSelected()
		s.selected[id] = struct{}{}
	} else {
		delete(s.selected, id)
	}
	s.selectionMode = len(s.selected) > 0
}

func (s *State) deselect(id int64) {
	delete(s.selected, id)
	if len(s.selected) == 0 {
		s.selectionMode = false
	}
}

// SetSelectionMode turns selection mode on or off. Leaving selection mode
// clears the selection.
func (s *State) SetSelectionMode(on bool) {
	if !on {
		s.clearSelection()
		return
	}
	s.selectionMode = true
}

// SelectionMode reports whether selection mode is active.
func (s *State) SelectionMode() bool {
	return s.selectionMode
}

// SelectAll selects every task in the collection.
func (s *State) SelectAll() {
	s.ensureSelected()
	for _, t := range s.tasks {
		s.selected[t.ID] = struct{}{}
	}
	s.selectionMode = len(s.selected) > 0
}

// IsSelected reports whether id is selected.
func (s *State) IsSelected(id int64) bool {
	_, ok := s.selected[id]
	return ok
}

// Selected returns the selected ids in ascending order.
func (s *State) Selected() []int64 {
	ids := make([]int64, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *State) ensureSelected() {
	if s.selected == nil {
		s.selected = make(map[int64]struct{})
	}
}

func (s *State) clearSelection() {
	clear(s.selected)
	s.selectionMode = false
}
