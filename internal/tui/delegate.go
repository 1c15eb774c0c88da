package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/usecase"
	"github.com/mattn/go-runewidth"
)

type taskItem struct {
	view    usecase.TaskView
	now     time.Time
	pending bool // A request for this task is in flight
}

func (t taskItem) FilterValue() string {
	return t.view.Task.Common().Title
}

// escapeNewlines replaces newline characters with spaces for single-line display.
func escapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

type taskDelegate struct {
	styles Styles
}

func newTaskDelegate(styles Styles) taskDelegate {
	return taskDelegate{styles: styles}
}

func (d taskDelegate) Height() int {
	return 1
}

func (d taskDelegate) Spacing() int {
	return 0
}

func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// schedule returns the short schedule text shown after the title.
func schedule(t domain.Task, now time.Time) string {
	switch t := t.(type) {
	case domain.Habit:
		s := domain.DescribeSchedule(t)
		if t.CurrentStreak > 1 {
			s += fmt.Sprintf(" · %d-day streak", t.CurrentStreak)
		}
		return s
	case domain.Todo:
		if t.Deadline == nil {
			return ""
		}
		if t.IsOverdue(now) {
			return "overdue"
		}
		return "due " + t.Deadline.In(now.Location()).Format("Jan 2 15:04")
	}
	return ""
}

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(taskItem)
	if !ok {
		return
	}
	base := ti.view.Task.Common()
	selected := index == m.Index()

	indicator := d.styles.SelectionIndicator.Render(" ")
	if selected {
		indicator = d.styles.SelectionIndicator.Bold(true).Render(">")
	}

	check := "[ ]"
	switch {
	case ti.pending:
		check = d.styles.Pending.Render("[~]")
	case ti.view.Completed:
		check = d.styles.Check.Render("[x]")
	}

	diff := d.styles.DifficultyStyle(base.Difficulty).Render(fmt.Sprintf("%-6s", base.Difficulty.Display()))
	meta := schedule(ti.view.Task, ti.now)

	listWidth := m.Width()
	prefixWidth := 2 + 4 + 7 + runewidth.StringWidth(meta) + 3
	maxTitleLen := max(listWidth-prefixWidth, 10)
	title := escapeNewlines(base.Title)
	if runewidth.StringWidth(title) > maxTitleLen {
		title = runewidth.Truncate(title, maxTitleLen, "...")
	}

	titleStyle := d.styles.TaskTitle
	switch {
	case ti.view.Completed:
		titleStyle = d.styles.TaskTitleDone
	case selected:
		titleStyle = d.styles.TaskTitleSelected
	}

	line := indicator + " " + check + " " + diff + " " + titleStyle.Render(title)
	if meta != "" {
		line += "  " + d.styles.TaskMeta.Render(meta)
	}
	_, _ = fmt.Fprint(w, line)
}
