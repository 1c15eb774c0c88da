// Package tui provides the interactive task board.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dailyquest/dq/internal/app"
	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/usecase"
)

// tabs is the cycle order of the task type tabs.
var tabs = []domain.TaskTab{domain.TabAll, domain.TabHabits, domain.TabTodos}

// Model is the main bubbletea model for the board.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	user      *domain.User
	err       error

	// State
	tasks      []usecase.TaskView
	effects    []domain.Effect
	completing map[string]bool // Task IDs with a request in flight

	// Components
	keys     KeyMap
	styles   Styles
	help     help.Model
	taskList list.Model
	spinner  spinner.Model

	notice   string
	interval time.Duration
	tab      int
	width    int
	height   int
	dueToday bool
	hideDone bool
	loading  bool
	stale    bool // A completion landed while a resync was outstanding
}

// New creates a new board Model with the given container.
func New(c *app.Container) *Model {
	styles := DefaultStyles()
	taskList := list.New([]list.Item{}, newTaskDelegate(styles), 0, 0)
	taskList.SetShowTitle(false)
	taskList.SetShowStatusBar(false)
	taskList.SetShowHelp(false)
	taskList.SetShowPagination(true)
	taskList.SetFilteringEnabled(false)
	taskList.DisableQuitKeybindings()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.Pending

	interval := domain.DefaultPollInterval
	if c != nil && c.AppConfig != nil {
		interval = c.AppConfig.Board.Interval()
	}

	return &Model{
		container:  c,
		completing: make(map[string]bool),
		keys:       DefaultKeyMap(),
		styles:     styles,
		help:       help.New(),
		taskList:   taskList,
		spinner:    sp,
		interval:   interval,
		loading:    true,
	}
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadTasks(true),
		m.loadUser(),
		m.spinner.Tick,
		m.tick(),
	)
}

// filter returns the list criteria for the current tab and toggles.
func (m *Model) filter() usecase.ListTasksInput {
	in := usecase.ListTasksInput{
		Filter:   domain.TaskFilter{Tab: tabs[m.tab]},
		DueToday: m.dueToday,
	}
	if m.hideDone {
		in.Filter.Status = domain.StatusPending
	}
	return in
}

// loadTasks returns a command that lists tasks. refresh forces an
// authoritative resync from the backend.
func (m *Model) loadTasks(refresh bool) tea.Cmd {
	in := m.filter()
	in.Refresh = refresh
	uc := m.container.ListTasksUseCase()
	return func() tea.Msg {
		out, err := uc.Execute(context.Background(), in)
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTasksLoaded{Tasks: out.Tasks, Refresh: refresh}
	}
}

// loadUser returns a command that fetches the user snapshot.
func (m *Model) loadUser() tea.Cmd {
	uc := m.container.ShowProfileUseCase()
	return func() tea.Msg {
		out, err := uc.Execute(context.Background(), usecase.ShowProfileInput{})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgUserLoaded{User: out.User}
	}
}

// tick schedules the next authoritative resync.
func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return MsgTick{}
	})
}

// completeTask returns a command that completes a task against the user
// snapshot held now.
func (m *Model) completeTask(id string) tea.Cmd {
	in := usecase.CompleteTaskInput{Ref: id}
	if m.user != nil {
		held := *m.user
		in.User = &held
	}
	uc := m.container.CompleteTaskUseCase()
	return func() tea.Msg {
		out, err := uc.Execute(context.Background(), in)
		if err != nil {
			return MsgActionFailed{TaskID: id, Err: err}
		}
		return MsgTaskCompleted{TaskID: id, Output: out}
	}
}

// uncompleteTask returns a command that reverts today's completion of a habit.
func (m *Model) uncompleteTask(id string) tea.Cmd {
	uc := m.container.UncompleteTaskUseCase()
	return func() tea.Msg {
		out, err := uc.Execute(context.Background(), usecase.UncompleteTaskInput{Ref: id})
		if err != nil {
			return MsgActionFailed{TaskID: id, Err: err}
		}
		return MsgTaskUncompleted{TaskID: id, Output: out}
	}
}

// SelectedTask returns the currently selected task, or nil if none.
func (m *Model) SelectedTask() *usecase.TaskView {
	if ti, ok := m.taskList.SelectedItem().(taskItem); ok {
		v := ti.view
		return &v
	}
	return nil
}

// busy reports whether any request is in flight.
func (m *Model) busy() bool {
	return m.loading || len(m.completing) > 0
}

// updateTaskList updates the task list items from tasks.
func (m *Model) updateTaskList() {
	now := time.Now()
	if m.container != nil && m.container.Clock != nil {
		now = m.container.Clock.Now()
	}
	items := make([]list.Item, 0, len(m.tasks))
	for _, v := range m.tasks {
		items = append(items, taskItem{
			view:    v,
			now:     now,
			pending: m.completing[v.Task.Common().ID],
		})
	}
	m.taskList.SetItems(items)
}
