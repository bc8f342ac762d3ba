package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/colonyops/dailyflow/internal/tui/components"
)

// keyMap holds every binding of the task page.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	New    key.Binding
	Edit   key.Binding
	Open   key.Binding
	Toggle key.Binding
	Delete key.Binding
	Reload key.Binding

	SelectMode   key.Binding
	Select       key.Binding
	SelectAll    key.Binding
	BulkComplete key.Binding
	BulkDelete   key.Binding
	PriorityHigh key.Binding
	PriorityMed  key.Binding
	PriorityLow  key.Binding

	Notifications key.Binding
	Dismiss       key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first task")),
		Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last task")),

		New:    key.NewBinding(key.WithKeys("n", "a"), key.WithHelp("n", "new task")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "task details")),
		Toggle: key.NewBinding(key.WithKeys("x", "space"), key.WithHelp("x/space", "toggle complete")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		Reload: key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "reload")),

		SelectMode:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "select mode")),
		Select:       key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "select task")),
		SelectAll:    key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "select all")),
		BulkComplete: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "complete selected")),
		BulkDelete:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete selected")),
		PriorityHigh: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "selected → High")),
		PriorityMed:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "selected → Medium")),
		PriorityLow:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "selected → Low")),

		Notifications: key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "notification history")),
		Dismiss:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss / leave mode")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// helpSections groups the bindings for the help dialog.
func (k keyMap) helpSections() []components.HelpDialogSection {
	return []components.HelpDialogSection{
		{Title: "Navigation", Bindings: []key.Binding{k.Up, k.Down, k.Top, k.Bottom}},
		{Title: "Tasks", Bindings: []key.Binding{k.New, k.Edit, k.Open, k.Toggle, k.Delete, k.Reload}},
		{Title: "Selection", Bindings: []key.Binding{
			k.SelectMode, k.Select, k.SelectAll, k.BulkComplete, k.BulkDelete,
			k.PriorityHigh, k.PriorityMed, k.PriorityLow,
		}},
		{Title: "General", Bindings: []key.Binding{k.Notifications, k.Dismiss, k.Help, k.Quit}},
	}
}
