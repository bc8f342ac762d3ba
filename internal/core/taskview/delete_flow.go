package taskview

import "fmt"

// DeletePhase is the two-step deletion lifecycle.
type DeletePhase int

const (
	DeleteIdle DeletePhase = iota
	DeleteConfirmPending
	Deleting
)

func (p DeletePhase) String() string {
	switch p {
	case DeleteIdle:
		return "idle"
	case DeleteConfirmPending:
		return "confirm-pending"
	case Deleting:
		return "deleting"
	default:
		return fmt.Sprintf("DeletePhase(%d)", int(p))
	}
}

// DeleteFlow asks for confirmation before a task is deleted. Only one task
// can be pending at a time; requesting another replaces the pending one.
type DeleteFlow struct {
	phase DeletePhase
	id    int64
}

// Phase returns the current phase.
func (d *DeleteFlow) Phase() DeletePhase { return d.phase }

// Pending returns the id awaiting confirmation or deletion.
func (d *DeleteFlow) Pending() (int64, bool) {
	if d.phase == DeleteIdle {
		return 0, false
	}
	return d.id, true
}

// IsPending reports whether id is awaiting confirmation.
func (d *DeleteFlow) IsPending(id int64) bool {
	return d.phase == DeleteConfirmPending && d.id == id
}

// Request asks to delete id.
func (d *DeleteFlow) Request(id int64) error {
	if d.phase == Deleting {
		return fmt.Errorf("request while %s: %w", d.phase, ErrInvalidTransition)
	}
	d.phase, d.id = DeleteConfirmPending, id
	return nil
}

// Confirm starts the deletion and returns the id to delete.
func (d *DeleteFlow) Confirm() (int64, error) {
	if d.phase != DeleteConfirmPending {
		return 0, fmt.Errorf("confirm while %s: %w", d.phase, ErrInvalidTransition)
	}
	d.phase = Deleting
	return d.id, nil
}

// Cancel abandons a pending confirmation.
func (d *DeleteFlow) Cancel() {
	if d.phase == DeleteConfirmPending {
		d.reset()
	}
}

// Done finishes a deletion, successful or not.
func (d *DeleteFlow) Done() error {
	if d.phase != Deleting {
		return fmt.Errorf("done while %s: %w", d.phase, ErrInvalidTransition)
	}
	d.reset()
	return nil
}

func (d *DeleteFlow) reset() {
	d.phase, d.id = DeleteIdle, 0
}
