// Package tui implements the DailyFlow terminal interface: a single task page
// with a stats header, overdue and regular task sections, a create/edit form,
// selection-driven bulk actions and toast notifications.
package tui

import (
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/dailyflow/internal/core/config"
	"github.com/colonyops/dailyflow/internal/core/notify"
	"github.com/colonyops/dailyflow/internal/core/styles"
	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/core/taskview"
	"github.com/colonyops/dailyflow/internal/dailyflow"
	"github.com/colonyops/dailyflow/internal/tui/components"
	"github.com/colonyops/dailyflow/internal/tui/components/form"
)

// UIState is the page-level state of the TUI.
type UIState int

const (
	stateLoading UIState = iota
	stateError
	stateReady
)

// modalKind names the overlay currently capturing input.
type modalKind int

const (
	modalNone modalKind = iota
	modalForm
	modalDetail
	modalConfirmBulkDelete
	modalHelp
	modalNotifications
)

// selfWriteGrace is how long after one of our own writes a store change
// event is attributed to that write and skipped.
const selfWriteGrace = time.Second

// Options configures the TUI.
type Options struct {
	// Bus receives every notification; its history backs the notification
	// modal. A bus over an in-memory store is used when nil.
	Bus *notify.Bus
	// Watcher reloads tasks when another process writes the store. Optional.
	Watcher *dailyflow.StoreWatcher
	// RefreshInterval reloads the task list on a timer. Used for backends
	// the watcher cannot observe; zero disables it.
	RefreshInterval time.Duration
	// Build is shown in the help dialog title.
	Build BuildInfo
	// Now overrides the clock used for overdue and due-label calculations.
	Now func() time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	cfg   *config.Config
	tasks *dailyflow.TaskService
	keys  keyMap
	build BuildInfo

	state   UIState
	loadErr error
	spinner spinner.Model
	width   int
	height  int

	view       *taskview.State
	editor     *taskview.Editor
	deleteFlow *taskview.DeleteFlow
	cursor     int
	bulkBusy   bool

	modal         modalKind
	form          *form.Dialog
	detail        *DetailModal
	confirm       *components.ConfirmModal
	help          *components.HelpDialog
	notifications *NotificationModal

	notifyBus       *notify.Bus
	buffer          *NotificationBuffer
	toastController *ToastController
	toastView       *ToastView

	watcher         *dailyflow.StoreWatcher
	refreshInterval time.Duration
	lastLocalWrite  time.Time
	now             func() time.Time
}

// New creates the model. It points the service's notifier at the TUI so
// notifications published by task commands reach the toast stack and the
// history.
func New(svc *dailyflow.TaskService, cfg *config.Config, opts Options) Model {
	buffer := NewNotificationBuffer()
	svc.SetNotifier(buffer)

	bus := opts.Bus
	if bus == nil {
		bus = notify.NewBus(notify.NewMemoryStore())
	}

	toastCtrl := NewToastController(cfg.TUI.ToastTTL)
	bus.Subscribe(func(n notify.Notification) {
		toastCtrl.Push(n)
	})

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.TextPrimaryStyle

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return Model{
		cfg:             cfg,
		tasks:           svc,
		keys:            newKeyMap(),
		build:           opts.Build,
		state:           stateLoading,
		spinner:         s,
		view:            taskview.New(nil),
		editor:          &taskview.Editor{},
		deleteFlow:      &taskview.DeleteFlow{},
		notifyBus:       bus,
		buffer:          buffer,
		toastController: toastCtrl,
		toastView:       NewToastView(toastCtrl),
		watcher:         opts.Watcher,
		refreshInterval: opts.RefreshInterval,
		now:             now,
	}
}

// Init starts the first load, the spinner, notification draining and the
// store watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.loadTasks(false),
		m.spinner.Tick,
		m.buffer.WaitForSignal(),
	}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Start())
	}
	cmds = append(cmds, scheduleRefreshTick(m.refreshInterval))
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case toastTickMsg:
		return m.handleToastTick(msg)
	case drainNotificationsMsg:
		return m.handleDrainNotifications()
	case dailyflow.StoreChangedMsg:
		return m.handleStoreChanged(msg)
	case refreshTickMsg:
		return m.handleRefreshTick()

	case tasksLoadedMsg:
		return m.handleTasksLoaded(msg)
	case taskSavedMsg:
		return m.handleTaskSaved(msg)
	case taskToggledMsg:
		return m.handleTaskToggled(msg)
	case taskDeletedMsg:
		return m.handleTaskDeleted(msg)
	case bulkUpdatedMsg:
		return m.handleBulkUpdated(msg)
	case bulkDeletedMsg:
		return m.handleBulkDeleted(msg)

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	// Non-key messages (cursor blink and friends) still reach an open form.
	if m.modal == modalForm && m.form != nil {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

// displayOrder returns the tasks in on-screen order: the overdue section
// first, then the remaining tasks, each keeping collection order.
func (m Model) displayOrder() (task.Partition, []task.Task) {
	p := task.PartitionOverdue(m.view.Tasks(), m.now())
	order := make([]task.Task, 0, len(p.Overdue)+len(p.Regular))
	order = append(order, p.Overdue...)
	order = append(order, p.Regular...)
	return p, order
}

// current returns the task under the cursor.
func (m Model) current() (task.Task, bool) {
	_, order := m.displayOrder()
	if m.cursor < 0 || m.cursor >= len(order) {
		return task.Task{}, false
	}
	return order[m.cursor], true
}

// focusTask moves the cursor to id. When id is gone the cursor stays at the
// same position, clamped to the list.
func (m *Model) focusTask(id int64) {
	_, order := m.displayOrder()
	for i, t := range order {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor(len(order))
}

func (m *Model) clampCursor(n int) {
	m.cursor = min(max(m.cursor, 0), max(n-1, 0))
}

// ensureToastTick starts the toast countdown when toasts are showing and no
// tick chain is running.
func (m *Model) ensureToastTick() tea.Cmd {
	if !m.toastController.HasToasts() || m.toastController.Ticking() {
		return nil
	}
	m.toastController.SetTicking(true)
	return scheduleToastTick()
}

// notifyInfo publishes an info-level notification from the update loop.
func (m *Model) notifyInfo(msg string) tea.Cmd {
	m.notifyBus.Infof("%s", msg)
	return m.ensureToastTick()
}

// Close releases the notification drain. Call it after the program exits.
func (m Model) Close() {
	m.buffer.Close()
}
