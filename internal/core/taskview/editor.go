package taskview

import (
	"errors"
	"fmt"

	"github.com/colonyops/dailyflow/internal/core/task"
)

// ErrInvalidTransition is returned when an event does not apply to the
// current phase.
var ErrInvalidTransition = errors.New("invalid transition")

// EditPhase is the editing lifecycle of a single form.
type EditPhase int

const (
	Viewing EditPhase = iota
	Editing
	Saving
)

func (p EditPhase) String() string {
	switch p {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return fmt.Sprintf("EditPhase(%d)", int(p))
	}
}

// Editor tracks whether a task form is closed, open or waiting on the
// repository. A nil target means the form creates a new task.
type Editor struct {
	phase  EditPhase
	target *task.Task
	err    error
}

// Phase returns the current phase.
func (e *Editor) Phase() EditPhase { return e.phase }

// Target returns the task being edited, or nil when creating.
func (e *Editor) Target() *task.Task { return e.target }

// Err returns the error from the last failed save, if any.
func (e *Editor) Err() error { return e.err }

// IsCreate reports whether the open form creates a task.
func (e *Editor) IsCreate() bool { return e.target == nil }

// Begin opens the form for t, or for a new task when t is nil.
func (e *Editor) Begin(t *task.Task) error {
	if e.phase != Viewing {
		return fmt.Errorf("begin while %s: %w", e.phase, ErrInvalidTransition)
	}
	if t != nil {
		cp := *t
		t = &cp
	}
	e.phase, e.target, e.err = Editing, t, nil
	return nil
}

// Submit moves an open form into Saving.
func (e *Editor) Submit() error {
	if e.phase != Editing {
		return fmt.Errorf("submit while %s: %w", e.phase, ErrInvalidTransition)
	}
	e.phase, e.err = Saving, nil
	return nil
}

// Reject returns the form to Editing with err, used when a submission fails
// validation or the repository refuses it.
func (e *Editor) Reject(err error) error {
	if e.phase != Editing && e.phase != Saving {
		return fmt.Errorf("reject while %s: %w", e.phase, ErrInvalidTransition)
	}
	e.phase, e.err = Editing, err
	return nil
}

// Saved closes the form after the repository confirmed the save.
func (e *Editor) Saved() error {
	if e.phase != Saving {
		return fmt.Errorf("saved while %s: %w", e.phase, ErrInvalidTransition)
	}
	e.reset()
	return nil
}

// Cancel closes an open form without saving. Cancelling while a save is in
// flight is refused.
func (e *Editor) Cancel() error {
	if e.phase != Editing {
		return fmt.Errorf("cancel while %s: %w", e.phase, ErrInvalidTransition)
	}
	e.reset()
	return nil
}

func (e *Editor) reset() {
	e.phase, e.target, e.err = Viewing, nil, nil
}
