// Package domain contains the core entities, pure rules and port interfaces of dq.
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// TaskType discriminates the task variants on the wire.
type TaskType string

// Task types.
const (
	TaskTypeHabit TaskType = "habit"
	TaskTypeTodo  TaskType = "todo"
)

// IsValid returns true if the task type is known.
func (t TaskType) IsValid() bool {
	return t == TaskTypeHabit || t == TaskTypeTodo
}

// Task is either a Habit or a Todo.
// The set is closed: consumers switch over the two value types and nothing else.
//
// go-sumtype:decl Task
type Task interface {
	// Common returns the fields shared by every variant.
	Common() TaskBase
	// Type returns the variant discriminant.
	Type() TaskType

	sealed()
}

// Tag is a user-defined label that can be attached to tasks.
// Fields are ordered to minimize memory padding.
type Tag struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	UserID    string    `json:"user_id,omitempty"`
}

// TaskBase holds the fields common to habits and todos.
// Fields are ordered to minimize memory padding.
type TaskBase struct {
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Tags        []Tag      `json:"tags,omitempty"`
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
	UserID      string     `json:"user_id"`
	Completed   bool       `json:"completed"`
}

// HasTag reports whether the task carries a tag matching ref by ID or by
// case-insensitive name.
func (b TaskBase) HasTag(ref string) bool {
	for _, tag := range b.Tags {
		if tag.ID == ref || strings.EqualFold(tag.Name, ref) {
			return true
		}
	}
	return false
}

// TagNames returns the names of the attached tags in order.
func (b TaskBase) TagNames() []string {
	names := make([]string, 0, len(b.Tags))
	for _, tag := range b.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// Habit is a recurring task with a frequency schedule and a streak.
// Fields are ordered to minimize memory padding.
type Habit struct {
	TaskBase
	LastCompletedAt        *time.Time    `json:"last_completed_at,omitempty"`
	FrequencyDays          []int         `json:"frequency_days,omitempty"`
	FrequencyType          FrequencyType `json:"frequency_type"`
	FrequencyTargetTimes   int           `json:"frequency_target_times,omitempty"`
	CurrentStreak          int           `json:"current_streak"`
	BestStreak             int           `json:"best_streak"`
	TimesCompletedThisWeek int           `json:"times_completed_this_week"`
}

// Common returns the shared task fields.
func (h Habit) Common() TaskBase { return h.TaskBase }

// Type returns TaskTypeHabit.
func (Habit) Type() TaskType { return TaskTypeHabit }

func (Habit) sealed() {}

// MarshalJSON adds the task_type discriminant.
func (h Habit) MarshalJSON() ([]byte, error) {
	type habit Habit
	return json.Marshal(struct {
		Type TaskType `json:"task_type"`
		habit
	}{TaskTypeHabit, habit(h)})
}

// Todo is a one-off task with an optional deadline.
// Once Completed is true it stays true.
// Fields are ordered to minimize memory padding.
type Todo struct {
	TaskBase
	Deadline    *time.Time `json:"deadline,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Common returns the shared task fields.
func (t Todo) Common() TaskBase { return t.TaskBase }

// Type returns TaskTypeTodo.
func (Todo) Type() TaskType { return TaskTypeTodo }

func (Todo) sealed() {}

// MarshalJSON adds the task_type discriminant.
func (t Todo) MarshalJSON() ([]byte, error) {
	type todo Todo
	return json.Marshal(struct {
		Type TaskType `json:"task_type"`
		todo
	}{TaskTypeTodo, todo(t)})
}

// IsOverdue returns true if the todo is open and its deadline has passed.
func (t Todo) IsOverdue(now time.Time) bool {
	return !t.Completed && t.Deadline != nil && t.Deadline.Before(now)
}

// PreviewXP returns the XP a task's difficulty is worth.
// The backend decides the awarded amount; this is for display only.
func PreviewXP(t Task) int {
	return t.Common().Difficulty.XP()
}
