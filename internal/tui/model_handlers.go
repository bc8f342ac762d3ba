package tui

import (
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/core/taskview"
	"github.com/colonyops/dailyflow/internal/dailyflow"
	"github.com/colonyops/dailyflow/internal/tui/components"
)

// --- Window ---

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	if m.detail != nil {
		m.detail.SetSize(msg.Width, msg.Height)
	}
	if m.notifications != nil {
		filtered := m.notifications.problemsOnly
		m.notifications = NewNotificationModal(m.notifyBus, msg.Width, msg.Height, m.now())
		if filtered {
			m.notifications.ToggleProblemsOnly()
		}
	}
	return m, nil
}

// --- Notifications ---

func (m Model) handleToastTick(_ toastTickMsg) (tea.Model, tea.Cmd) {
	m.toastController.Tick(toastTickInterval)
	if m.toastController.HasToasts() {
		return m, scheduleToastTick()
	}
	m.toastController.SetTicking(false)
	return m, nil
}

// handleDrainNotifications republishes buffered service notifications on the
// bus from the update loop, so toasts and history only change here.
func (m Model) handleDrainNotifications() (tea.Model, tea.Cmd) {
	for _, n := range m.buffer.Drain() {
		m.notifyBus.Publish(n)
	}
	return m, tea.Batch(m.buffer.WaitForSignal(), m.ensureToastTick())
}

// --- Store watching ---

func (m Model) handleStoreChanged(msg dailyflow.StoreChangedMsg) (tea.Model, tea.Cmd) {
	var next tea.Cmd
	if m.watcher != nil {
		next = m.watcher.Start()
	}
	if time.Since(m.lastLocalWrite) < selfWriteGrace || m.state == stateLoading {
		return m, next
	}
	log.Debug().Strs("paths", msg.Paths).Msg("reloading tasks after external write")
	return m, tea.Batch(m.loadTasks(true), next)
}

func (m Model) handleRefreshTick() (tea.Model, tea.Cmd) {
	next := scheduleRefreshTick(m.refreshInterval)
	if m.state != stateReady || m.bulkBusy {
		return m, next
	}
	return m, tea.Batch(m.loadTasks(true), next)
}

// --- Task results ---

func (m Model) handleTasksLoaded(msg tasksLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if msg.silent {
			log.Warn().Err(msg.err).Msg("background reload failed")
			return m, nil
		}
		m.state = stateError
		m.loadErr = msg.err
		return m, nil
	}

	// A background snapshot taken before one of our writes landed would undo
	// that write; the next reload picks it up.
	if msg.silent && !msg.issued.After(m.lastLocalWrite) {
		log.Debug().Msg("dropping background reload older than local write")
		return m, nil
	}

	prev, hadCurrent := m.current()
	m.view.ApplyLoaded(msg.tasks)
	m.state = stateReady
	m.loadErr = nil

	if hadCurrent {
		m.focusTask(prev.ID)
	} else {
		m.clampCursor(m.view.Len())
	}

	// A pending delete for a task that vanished has nothing left to confirm.
	if id, ok := m.deleteFlow.Pending(); ok && m.deleteFlow.Phase() == taskview.DeleteConfirmPending {
		if _, found := m.view.Find(id); !found {
			m.deleteFlow.Cancel()
		}
	}
	if m.modal == modalDetail && m.detail != nil {
		if t, found := m.view.Find(m.detail.TaskID()); found {
			m.detail.Refresh(t, m.now())
		} else {
			m.closeModal()
		}
	}
	return m, nil
}

func (m Model) handleTaskSaved(msg taskSavedMsg) (tea.Model, tea.Cmd) {
	m.lastLocalWrite = time.Now()

	if msg.err != nil {
		if err := m.editor.Reject(msg.err); err != nil {
			log.Debug().Err(err).Msg("save result without pending save")
		}
		if m.form != nil && !applyFieldError(m.form, msg.err) {
			m.form.Reopen()
		}
		return m, nil
	}

	if err := m.editor.Saved(); err != nil {
		log.Debug().Err(err).Msg("save result without pending save")
	}
	if msg.created {
		m.view.ApplyCreated(msg.task)
	} else {
		m.view.ApplyUpdated(msg.task)
	}
	m.focusTask(msg.task.ID)
	m.closeModal()
	return m, nil
}

func (m Model) handleTaskToggled(msg taskToggledMsg) (tea.Model, tea.Cmd) {
	m.lastLocalWrite = time.Now()
	if msg.err != nil {
		return m, nil
	}

	m.view.ApplyUpdated(msg.task)
	m.focusTask(msg.task.ID)
	if m.modal == modalDetail && m.detail != nil && m.detail.TaskID() == msg.task.ID {
		m.detail.Refresh(msg.task, m.now())
	}
	return m, nil
}

func (m Model) handleTaskDeleted(msg taskDeletedMsg) (tea.Model, tea.Cmd) {
	m.lastLocalWrite = time.Now()
	if err := m.deleteFlow.Done(); err != nil {
		log.Debug().Err(err).Int64("task_id", msg.id).Msg("delete result without pending delete")
	}
	if msg.err != nil || !msg.ok {
		return m, nil
	}

	m.view.ApplyDeleted(msg.id)
	m.clampCursor(m.view.Len())
	return m, nil
}

func (m Model) handleBulkUpdated(msg bulkUpdatedMsg) (tea.Model, tea.Cmd) {
	m.lastLocalWrite = time.Now()
	m.bulkBusy = false
	if msg.err != nil {
		return m, nil
	}

	prev, hadCurrent := m.current()
	m.view.ApplyBulkUpdated(task.Succeeded(msg.outcomes))
	if hadCurrent {
		m.focusTask(prev.ID)
	}
	return m, nil
}

func (m Model) handleBulkDeleted(msg bulkDeletedMsg) (tea.Model, tea.Cmd) {
	m.lastLocalWrite = time.Now()
	m.bulkBusy = false
	if msg.err != nil {
		return m, nil
	}

	m.view.ApplyBulkDeleted(task.SucceededIDs(msg.outcomes))
	m.clampCursor(m.view.Len())
	return m, nil
}

// --- Input ---

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.modal != modalNone {
		return m.handleModalKey(msg)
	}

	switch m.state {
	case stateLoading:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	case stateError:
		switch {
		case key.Matches(msg, m.keys.Reload):
			m.state = stateLoading
			m.loadErr = nil
			return m, tea.Batch(m.loadTasks(false), m.spinner.Tick)
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	if m.deleteFlow.Phase() == taskview.DeleteConfirmPending {
		return m.handleDeleteConfirmKey(msg)
	}

	return m.handleNormalKey(msg)
}

func (m Model) handleDeleteConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id, err := m.deleteFlow.Confirm()
		if err != nil {
			log.Debug().Err(err).Msg("confirm delete")
			return m, nil
		}
		return m, m.deleteTask(id)
	default:
		m.deleteFlow.Cancel()
		return m, nil
	}
}

func (m Model) handleNormalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	n := m.view.Len()
	selecting := m.view.SelectionMode()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, max(n-1, 0))
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(n-1, 0)

	case selecting && key.Matches(msg, m.keys.Select):
		if t, ok := m.current(); ok {
			m.view.ToggleSelection(t.ID, !m.view.IsSelected(t.ID))
		}

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.current(); ok {
			return m, m.toggleTask(t.ID)
		}

	case key.Matches(msg, m.keys.New):
		return m.openForm(nil)
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.current(); ok {
			return m.openForm(&t)
		}
	case key.Matches(msg, m.keys.Open):
		if t, ok := m.current(); ok {
			m.detail = NewDetailModal(t, m.now(), m.width, m.height)
			m.modal = modalDetail
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.current(); ok {
			if err := m.deleteFlow.Request(t.ID); err != nil {
				log.Debug().Err(err).Msg("request delete")
			}
		}
	case key.Matches(msg, m.keys.Reload):
		return m, m.loadTasks(true)

	case key.Matches(msg, m.keys.SelectMode):
		m.view.SetSelectionMode(!selecting)
	case key.Matches(msg, m.keys.SelectAll):
		m.view.SelectAll()
	case key.Matches(msg, m.keys.BulkComplete):
		return m.startBulk(func(ids []int64) tea.Cmd { return m.bulkComplete(ids) })
	case key.Matches(msg, m.keys.PriorityHigh):
		return m.startBulk(func(ids []int64) tea.Cmd { return m.bulkSetPriority(ids, task.PriorityHigh) })
	case key.Matches(msg, m.keys.PriorityMed):
		return m.startBulk(func(ids []int64) tea.Cmd { return m.bulkSetPriority(ids, task.PriorityMedium) })
	case key.Matches(msg, m.keys.PriorityLow):
		return m.startBulk(func(ids []int64) tea.Cmd { return m.bulkSetPriority(ids, task.PriorityLow) })
	case key.Matches(msg, m.keys.BulkDelete):
		return m.openBulkDeleteConfirm()

	case key.Matches(msg, m.keys.Notifications):
		m.notifications = NewNotificationModal(m.notifyBus, m.width, m.height, m.now())
		m.modal = modalNotifications
	case key.Matches(msg, m.keys.Help):
		m.help = components.NewHelpDialog(m.build.helpTitle(), m.keys.helpSections())
		m.modal = modalHelp
	case key.Matches(msg, m.keys.Dismiss):
		switch {
		case selecting:
			m.view.SetSelectionMode(false)
		case m.toastController.HasToasts():
			m.toastController.DismissAll()
		}
	}

	return m, nil
}

// startBulk runs a bulk command over the selection. Only one bulk request is
// in flight at a time.
func (m Model) startBulk(run func(ids []int64) tea.Cmd) (tea.Model, tea.Cmd) {
	if m.bulkBusy {
		return m, nil
	}
	ids := m.view.Selected()
	if len(ids) == 0 {
		return m, m.notifyInfo(dailyflow.MsgNothingSelected)
	}
	m.bulkBusy = true
	return m, run(ids)
}

func (m Model) openBulkDeleteConfirm() (tea.Model, tea.Cmd) {
	if m.bulkBusy {
		return m, nil
	}
	n := len(m.view.Selected())
	if n == 0 {
		return m, m.notifyInfo(dailyflow.MsgNothingSelected)
	}

	confirm := components.NewConfirmModal(
		"Delete Tasks",
		fmt.Sprintf("Are you sure you want to delete %d task(s)? This action cannot be undone.", n),
		"Delete",
	)
	m.confirm = &confirm
	m.modal = modalConfirmBulkDelete
	return m, nil
}

// openForm starts editing t, or creating a task when t is nil.
func (m Model) openForm(t *task.Task) (tea.Model, tea.Cmd) {
	if err := m.editor.Begin(t); err != nil {
		log.Debug().Err(err).Msg("open form")
		return m, nil
	}
	m.deleteFlow.Cancel()
	m.form = newTaskForm(t, m.cfg.Defaults.Draft())
	m.modal = modalForm
	return m, nil
}

func (m *Model) closeModal() {
	m.modal = modalNone
	m.form = nil
	m.detail = nil
	m.confirm = nil
	m.help = nil
	m.notifications = nil
}

// --- Modals ---

func (m Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalForm:
		return m.handleFormKey(msg)
	case modalDetail:
		return m.handleDetailKey(msg)
	case modalConfirmBulkDelete:
		return m.handleConfirmKey(msg)
	case modalNotifications:
		return m.handleNotificationsKey(msg)
	case modalHelp:
		m.closeModal()
		return m, nil
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)

	if m.form.Cancelled() {
		if err := m.editor.Cancel(); err != nil {
			log.Debug().Err(err).Msg("cancel form")
		}
		m.closeModal()
		return m, nil
	}

	if !m.form.Submitted() || m.form.Busy() {
		return m, cmd
	}

	values := m.form.Values()

	if m.editor.IsCreate() {
		if err := m.editor.Submit(); err != nil {
			log.Debug().Err(err).Msg("submit form")
			return m, cmd
		}
		m.form.SetBusy(true)
		return m, tea.Batch(cmd, m.createTask(draftFromValues(values)))
	}

	target := m.editor.Target()
	patch := patchFromValues(*target, values)
	if patch.IsEmpty() {
		if err := m.editor.Cancel(); err != nil {
			log.Debug().Err(err).Msg("close unchanged form")
		}
		m.closeModal()
		return m, m.notifyInfo("No changes")
	}

	if err := m.editor.Submit(); err != nil {
		log.Debug().Err(err).Msg("submit form")
		return m, cmd
	}
	m.form.SetBusy(true)
	return m, tea.Batch(cmd, m.updateTask(target.ID, patch))
}

func (m Model) handleDetailKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.detail.ScrollUp()
	case key.Matches(msg, m.keys.Down):
		m.detail.ScrollDown()
	case key.Matches(msg, m.keys.Edit):
		t, ok := m.view.Find(m.detail.TaskID())
		m.closeModal()
		if ok {
			return m.openForm(&t)
		}
	case msg.String() == "x":
		return m, m.toggleTask(m.detail.TaskID())
	case key.Matches(msg, m.keys.Dismiss), key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Open):
		m.closeModal()
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	confirm, cmd := m.confirm.Update(msg)
	m.confirm = &confirm
	if !confirm.Done() {
		return m, cmd
	}

	m.closeModal()
	if !confirm.Confirmed() {
		return m, cmd
	}

	ids := m.view.Selected()
	if len(ids) == 0 {
		return m, m.notifyInfo(dailyflow.MsgNothingSelected)
	}
	m.bulkBusy = true
	return m, tea.Batch(cmd, m.bulkDelete(ids))
}

func (m Model) handleNotificationsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.notifications.ScrollUp()
	case key.Matches(msg, m.keys.Down):
		m.notifications.ScrollDown()
	case msg.String() == "f":
		m.notifications.ToggleProblemsOnly()
	case msg.String() == "D":
		if err := m.notifications.Clear(); err != nil {
			log.Error().Err(err).Msg("failed to clear notifications")
		}
	case key.Matches(msg, m.keys.Dismiss), key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Notifications):
		m.closeModal()
	}
	return m, nil
}
