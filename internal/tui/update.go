package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dailyquest/dq/internal/domain"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.taskList.SetSize(msg.Width, max(msg.Height-headerHeight-footerHeight, 1))
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case MsgTasksLoaded:
		if msg.Refresh && m.stale {
			// Fetched before the completion: its list lacks the patch.
			m.stale = false
			return m, m.loadTasks(true)
		}
		m.loading = false
		m.tasks = msg.Tasks
		m.updateTaskList()
		return m, nil

	case MsgUserLoaded:
		user := msg.User
		m.user = &user
		return m, nil

	case MsgTick:
		// A resync would replace the cache under an in-flight completion patch.
		if len(m.completing) > 0 {
			return m, m.tick()
		}
		m.loading = true
		return m, tea.Batch(m.loadTasks(true), m.tick(), m.spinner.Tick)

	case MsgTaskCompleted:
		delete(m.completing, msg.TaskID)
		m.stale = m.stale || m.loading
		out := msg.Output
		if out.UserFresh {
			user := out.User
			m.user = &user
		}
		m.err = nil
		m.effects = out.Effects
		m.notice = fmt.Sprintf("Completed %s", out.Task.Common().Title)
		if out.CoinsGained > 0 {
			m.notice += fmt.Sprintf(" (+%d coins)", out.CoinsGained)
		}
		return m, m.loadTasks(false)

	case MsgTaskUncompleted:
		delete(m.completing, msg.TaskID)
		m.stale = m.stale || m.loading
		out := msg.Output
		if out.User != nil {
			user := *out.User
			m.user = &user
		}
		m.err = nil
		m.effects = nil
		m.notice = fmt.Sprintf("Reverted %s (-%d XP)", out.Task.Common().Title, out.XPRemoved)
		return m, m.loadTasks(false)

	case MsgActionFailed:
		delete(m.completing, msg.TaskID)
		m.effects = nil
		m.updateTaskList()
		if domain.KindOf(msg.Err) == domain.KindConflict {
			m.err = nil
			m.notice = conflictNotice(msg.Err)
			return m, nil
		}
		m.notice = ""
		m.err = msg.Err
		return m, nil

	case MsgError:
		m.loading = false
		m.err = msg.Err
		return m, nil
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

// conflictNotice returns the backend's wording of a conflict.
func conflictNotice(err error) string {
	var e *domain.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Task has already been completed"
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Complete):
		return m, m.startComplete()

	case key.Matches(msg, m.keys.Undo):
		return m, m.startUncomplete()

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, tea.Batch(m.loadTasks(true), m.loadUser(), m.spinner.Tick)

	case key.Matches(msg, m.keys.Tab):
		m.tab = (m.tab + 1) % len(tabs)
		return m, m.loadTasks(false)

	case key.Matches(msg, m.keys.DueToday):
		m.dueToday = !m.dueToday
		return m, m.loadTasks(false)

	case key.Matches(msg, m.keys.HideDone):
		m.hideDone = !m.hideDone
		return m, m.loadTasks(false)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.ClearNote):
		m.notice = ""
		m.err = nil
		m.effects = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

// startComplete issues a completion for the selected task unless one is
// already in flight for it.
func (m *Model) startComplete() tea.Cmd {
	sel := m.SelectedTask()
	if sel == nil {
		return nil
	}
	id := sel.Task.Common().ID
	if m.completing[id] {
		return nil
	}
	if sel.Completed {
		m.notice = fmt.Sprintf("%s is already completed", sel.Task.Common().Title)
		return nil
	}
	m.completing[id] = true
	m.notice = ""
	m.err = nil
	m.updateTaskList()
	return tea.Batch(m.completeTask(id), m.spinner.Tick)
}

// startUncomplete reverts today's completion of the selected habit.
func (m *Model) startUncomplete() tea.Cmd {
	sel := m.SelectedTask()
	if sel == nil {
		return nil
	}
	id := sel.Task.Common().ID
	if m.completing[id] {
		return nil
	}
	if sel.Task.Type() != domain.TaskTypeHabit {
		m.notice = "A completed todo cannot be un-completed"
		return nil
	}
	if !sel.Completed {
		return nil
	}
	m.completing[id] = true
	m.notice = ""
	m.err = nil
	m.updateTaskList()
	return tea.Batch(m.uncompleteTask(id), m.spinner.Tick)
}
