package dailyflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/dailyflow/internal/core/logging"
	"github.com/colonyops/dailyflow/internal/core/notify"
	"github.com/colonyops/dailyflow/internal/core/task"
)

// Notifier receives user-facing notifications. *notify.Bus satisfies it.
type Notifier interface {
	Publish(notify.Notification)
}

type discardNotifier struct{}

func (discardNotifier) Publish(notify.Notification) {}

// Messages shown to the user after each operation.
const (
	MsgLoadFailed      = "Failed to load tasks. Please try again."
	MsgTitleRequired   = "Please enter a task title"
	MsgCreated         = "Task created successfully!"
	MsgCreateFailed    = "Failed to create task. Please try again."
	MsgUpdated         = "Task updated successfully!"
	MsgUpdateFailed    = "Failed to update task. Please try again."
	MsgCompleted       = "Task completed!"
	MsgMarkedPending   = "Task marked incomplete"
	MsgToggleFailed    = "Failed to update task"
	MsgDeleted         = "Task deleted successfully"
	MsgDeleteFailed    = "Failed to delete task"
	MsgDeleteNotDone   = "Task was not deleted"
	MsgBulkFailed      = "Bulk operation failed. Please try again."
	MsgNothingSelected = "No tasks selected"
)

// TaskService wraps a task.Repository with input validation, logging and
// notifications. Validation failures never reach the repository.
type TaskService struct {
	repo   task.Repository
	notify Notifier
	log    zerolog.Logger
}

// NewTaskService creates a service over repo. A nil notifier drops
// notifications.
func NewTaskService(repo task.Repository, notifier Notifier) *TaskService {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	return &TaskService{
		repo:   repo,
		notify: notifier,
		log:    logging.Component("task-service"),
	}
}

// Repository returns the underlying repository.
func (s *TaskService) Repository() task.Repository {
	return s.repo
}

// SetNotifier replaces the notifier. The TUI swaps in its own bus at startup.
func (s *TaskService) SetNotifier(n Notifier) {
	if n == nil {
		n = discardNotifier{}
	}
	s.notify = n
}

func (s *TaskService) publish(level notify.Level, msg string) {
	s.notify.Publish(notify.Notification{Level: level, Message: msg})
}

// Load fetches the task collection. Failures are logged but not published;
// the caller shows MsgLoadFailed with a retry affordance.
func (s *TaskService) Load(ctx context.Context) ([]task.Task, error) {
	tasks, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.Error().Ctx(ctx).Err(err).Msg("load tasks")
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	s.log.Debug().Ctx(ctx).Int("count", len(tasks)).Msg("tasks loaded")
	return tasks, nil
}

// Get fetches a single task.
func (s *TaskService) Get(ctx context.Context, id int64) (task.Task, error) {
	ctx = logging.WithTaskID(ctx, id)
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logFailure(ctx, err, "get task")
		return task.Task{}, err
	}
	return t, nil
}

// Create validates d and stores it.
func (s *TaskService) Create(ctx context.Context, d task.Draft) (task.Task, error) {
	d, err := task.ValidateDraft(d)
	if err != nil {
		s.rejected(ctx, err)
		return task.Task{}, err
	}

	t, err := s.repo.Create(ctx, d)
	if err != nil {
		s.logFailure(ctx, err, "create task")
		s.publish(notify.LevelError, MsgCreateFailed)
		return task.Task{}, err
	}

	s.log.Debug().Ctx(logging.WithTaskID(ctx, t.ID)).Msg("task created")
	s.publish(notify.LevelSuccess, MsgCreated)
	return t, nil
}

// Update validates p and applies it to the task.
func (s *TaskService) Update(ctx context.Context, id int64, p task.Patch) (task.Task, error) {
	ctx = logging.WithTaskID(ctx, id)

	p, err := task.ValidatePatch(p)
	if err != nil {
		s.rejected(ctx, err)
		return task.Task{}, err
	}

	t, err := s.repo.Update(ctx, id, p)
	if err != nil {
		s.logFailure(ctx, err, "update task")
		s.publish(notify.LevelError, MsgUpdateFailed)
		return task.Task{}, err
	}

	s.log.Debug().Ctx(ctx).Msg("task updated")
	s.publish(notify.LevelSuccess, MsgUpdated)
	return t, nil
}

// Toggle flips the completion flag of a task.
func (s *TaskService) Toggle(ctx context.Context, id int64) (task.Task, error) {
	ctx = logging.WithTaskID(ctx, id)

	t, err := s.repo.ToggleComplete(ctx, id)
	if err != nil {
		s.logFailure(ctx, err, "toggle task")
		s.publish(notify.LevelError, MsgToggleFailed)
		return task.Task{}, err
	}

	s.log.Debug().Ctx(ctx).Bool("completed", t.IsCompleted).Msg("task toggled")
	if t.IsCompleted {
		s.publish(notify.LevelSuccess, MsgCompleted)
	} else {
		s.publish(notify.LevelSuccess, MsgMarkedPending)
	}
	return t, nil
}

// Delete removes a task. It reports false with a nil error when the backend
// answered without removing the record; callers keep the task in that case.
func (s *TaskService) Delete(ctx context.Context, id int64) (bool, error) {
	ctx = logging.WithTaskID(ctx, id)

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logFailure(ctx, err, "delete task")
		s.publish(notify.LevelError, MsgDeleteFailed)
		return false, err
	}
	if !ok {
		s.log.Warn().Ctx(ctx).Msg("delete not applied")
		s.publish(notify.LevelWarning, MsgDeleteNotDone)
		return false, nil
	}

	s.log.Debug().Ctx(ctx).Msg("task deleted")
	s.publish(notify.LevelSuccess, MsgDeleted)
	return true, nil
}

// BulkComplete marks every id completed.
func (s *TaskService) BulkComplete(ctx context.Context, ids []int64) ([]task.Outcome, error) {
	return s.bulkUpdate(ctx, ids, task.CompletedPatch(true), "completed")
}

// BulkSetPriority sets the priority of every id.
func (s *TaskService) BulkSetPriority(ctx context.Context, ids []int64, p task.Priority) ([]task.Outcome, error) {
	return s.bulkUpdate(ctx, ids, task.PriorityPatch(p), "set to "+string(p)+" priority")
}

// BulkUpdate applies p to every id.
func (s *TaskService) BulkUpdate(ctx context.Context, ids []int64, p task.Patch) ([]task.Outcome, error) {
	return s.bulkUpdate(ctx, ids, p, "updated")
}

func (s *TaskService) bulkUpdate(ctx context.Context, ids []int64, p task.Patch, verb string) ([]task.Outcome, error) {
	if len(ids) == 0 {
		return nil, errors.New(MsgNothingSelected)
	}

	p, err := task.ValidatePatch(p)
	if err != nil {
		s.rejected(ctx, err)
		return nil, err
	}

	out, err := s.repo.BulkUpdate(ctx, ids, p)
	if err != nil {
		s.logFailure(ctx, err, "bulk update tasks")
		s.publish(notify.LevelError, MsgBulkFailed)
		return nil, err
	}

	s.report(ctx, out, verb)
	return out, nil
}

// BulkDelete removes every id. Only ids with a successful outcome were
// removed.
func (s *TaskService) BulkDelete(ctx context.Context, ids []int64) ([]task.Outcome, error) {
	if len(ids) == 0 {
		return nil, errors.New(MsgNothingSelected)
	}

	out, err := s.repo.BulkDelete(ctx, ids)
	if err != nil {
		s.logFailure(ctx, err, "bulk delete tasks")
		s.publish(notify.LevelError, MsgBulkFailed)
		return nil, err
	}

	s.report(ctx, out, "deleted")
	return out, nil
}

func (s *TaskService) report(ctx context.Context, out []task.Outcome, verb string) {
	failed := task.Failed(out)
	done := len(out) - len(failed)

	if done > 0 {
		s.publish(notify.LevelSuccess, fmt.Sprintf("%s %s", Plural(done, "task"), verb))
	}
	if len(failed) == 0 {
		s.log.Debug().Ctx(ctx).Int("count", done).Str("verb", verb).Msg("bulk operation applied")
		return
	}

	for _, o := range failed {
		s.log.Warn().Ctx(logging.WithTaskID(ctx, o.ID)).Err(o.Err).Msg("bulk item failed")
	}
	s.publish(notify.LevelWarning, fmt.Sprintf("%s could not be %s", Plural(len(failed), "task"), verb))
}

func (s *TaskService) rejected(ctx context.Context, err error) {
	s.log.Debug().Ctx(ctx).Err(err).Msg("input rejected")

	var verr *task.ValidationError
	if errors.As(err, &verr) && verr.Field == "title" {
		s.publish(notify.LevelError, MsgTitleRequired)
		return
	}
	s.publish(notify.LevelError, err.Error())
}

func (s *TaskService) logFailure(ctx context.Context, err error, op string) {
	ev := s.log.Warn()
	if errors.Is(err, task.ErrTransport) {
		ev = s.log.Error()
	}
	ev.Ctx(ctx).Err(err).Msg(op)
}

// Plural formats n with noun, adding an "s" unless n is 1.
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
