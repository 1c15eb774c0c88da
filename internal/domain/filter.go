package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// TaskTab selects a task variant.
type TaskTab string

// Task tabs.
const (
	TabAll    TaskTab = "all"
	TabHabits TaskTab = "habits"
	TabTodos  TaskTab = "todos"
)

// CompletionStatus filters on reconciled completion.
type CompletionStatus string

// Completion statuses.
const (
	StatusAll       CompletionStatus = "all"
	StatusCompleted CompletionStatus = "completed"
	StatusPending   CompletionStatus = "pending"
)

// SortField orders filtered tasks.
type SortField string

// Sort fields. SortNone keeps insertion order.
const (
	SortNone       SortField = ""
	SortCreatedAt  SortField = "created_at"
	SortTitle      SortField = "title"
	SortDifficulty SortField = "difficulty"
	SortDeadline   SortField = "deadline"
)

// ParseTaskTab parses a tab name; empty means all.
func ParseTaskTab(s string) (TaskTab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return TabAll, nil
	case "habit", "habits":
		return TabHabits, nil
	case "todo", "todos":
		return TabTodos, nil
	}
	return "", NewValidationError("type", fmt.Sprintf("unknown task type %q (want habits or todos)", s))
}

// ParseCompletionStatus parses a status filter; empty means all.
func ParseCompletionStatus(s string) (CompletionStatus, error) {
	switch st := CompletionStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StatusAll, nil
	case StatusAll, StatusCompleted, StatusPending:
		return st, nil
	}
	return "", NewValidationError("status", fmt.Sprintf("unknown status %q (want all, completed or pending)", s))
}

// ParseSortField parses a sort field; empty keeps insertion order.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortNone, SortCreatedAt, SortTitle, SortDifficulty, SortDeadline:
		return f, nil
	case "created":
		return SortCreatedAt, nil
	}
	return "", NewValidationError("sort", fmt.Sprintf("unknown sort field %q", s))
}

// TaskFilter specifies criteria for listing tasks. Zero values match everything.
// Fields are ordered to minimize memory padding.
type TaskFilter struct {
	DueOn        *time.Time       // Only habits scheduled that day and open todos
	Difficulties []Difficulty     // Any of
	Tags         []string         // Any of, by tag ID or name
	Tab          TaskTab          // Variant
	Search       string           // Case-insensitive substring of title or description
	Status       CompletionStatus // Reconciled completion
	Sort         SortField
	Descending   bool
}

// Match reports whether t satisfies every criterion.
func (f TaskFilter) Match(t Task, view CompletionView) bool {
	base := t.Common()

	switch f.Tab {
	case TabHabits:
		if t.Type() != TaskTypeHabit {
			return false
		}
	case TabTodos:
		if t.Type() != TaskTypeTodo {
			return false
		}
	}

	if q := strings.TrimSpace(f.Search); q != "" {
		q = strings.ToLower(q)
		if !strings.Contains(strings.ToLower(base.Title), q) &&
			!strings.Contains(strings.ToLower(base.Description), q) {
			return false
		}
	}

	if len(f.Difficulties) > 0 && !slices.Contains(f.Difficulties, base.Difficulty) {
		return false
	}

	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, base.HasTag) {
		return false
	}

	switch f.Status {
	case StatusCompleted:
		if !view.IsCompleted(t) {
			return false
		}
	case StatusPending:
		if view.IsCompleted(t) {
			return false
		}
	}

	if f.DueOn != nil {
		switch task := t.(type) {
		case Habit:
			if !IsDueOn(task, *f.DueOn) {
				return false
			}
		case Todo:
			if task.Completed {
				return false
			}
		}
	}

	return true
}

// SortTasks orders tasks in place by field. Ties keep their relative order.
// Todos without a deadline and habits sort after dated todos.
func SortTasks(tasks []Task, field SortField, desc bool) {
	if field == SortNone {
		return
	}
	slices.SortStableFunc(tasks, func(a, b Task) int {
		c := compareTasks(a, b, field)
		if desc {
			return -c
		}
		return c
	})
}

func compareTasks(a, b Task, field SortField) int {
	ab, bb := a.Common(), b.Common()
	switch field {
	case SortCreatedAt:
		return ab.CreatedAt.Compare(bb.CreatedAt)
	case SortTitle:
		return cmp.Compare(strings.ToLower(ab.Title), strings.ToLower(bb.Title))
	case SortDifficulty:
		return cmp.Compare(ab.Difficulty.Rank(), bb.Difficulty.Rank())
	case SortDeadline:
		ad, bd := deadlineOf(a), deadlineOf(b)
		switch {
		case ad == nil && bd == nil:
			return 0
		case ad == nil:
			return 1
		case bd == nil:
			return -1
		}
		return ad.Compare(*bd)
	}
	return 0
}

func deadlineOf(t Task) *time.Time {
	if todo, ok := t.(Todo); ok {
		return todo.Deadline
	}
	return nil
}
