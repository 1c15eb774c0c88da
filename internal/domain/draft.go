package domain

import (
	"fmt"
	"strings"
	"time"
)

// HabitDraft holds the fields for creating a habit.
// Fields are ordered to minimize memory padding.
type HabitDraft struct {
	FrequencyDays        []int
	Title                string
	Description          string
	Difficulty           Difficulty
	FrequencyType        FrequencyType
	FrequencyTargetTimes int
}

// Validate rejects drafts the backend must never see.
func (d HabitDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return NewValidationError("title", ErrEmptyTitle.Error())
	}
	if !d.Difficulty.IsValid() {
		return NewValidationError("difficulty", fmt.Sprintf("unknown difficulty %q", d.Difficulty))
	}
	return validateSchedule(d.FrequencyType, d.FrequencyTargetTimes, d.FrequencyDays)
}

// Normalize trims the title, sorts days and drops fields that do not apply
// to the frequency type.
func (d HabitDraft) Normalize() HabitDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	switch d.FrequencyType {
	case FrequencyWeeklyTimes:
		d.FrequencyDays = nil
	case FrequencySpecificDays:
		d.FrequencyTargetTimes = 0
		d.FrequencyDays = NormalizeDays(d.FrequencyDays)
	default:
		d.FrequencyTargetTimes = 0
		d.FrequencyDays = nil
	}
	return d
}

func validateSchedule(ft FrequencyType, target int, days []int) error {
	switch ft {
	case FrequencyDaily:
		return nil
	case FrequencyWeeklyTimes:
		if target < MinWeeklyTarget || target > MaxWeeklyTarget {
			return NewValidationError("frequency_target_times",
				fmt.Sprintf("must be between %d and %d, got %d", MinWeeklyTarget, MaxWeeklyTarget, target))
		}
		return nil
	case FrequencySpecificDays:
		if len(days) == 0 {
			return NewValidationError("frequency_days", "at least one weekday is required")
		}
		for _, day := range days {
			if day < 0 || day >= DaysPerWeek {
				return NewValidationError("frequency_days", fmt.Sprintf("day index %d out of range 0-6", day))
			}
		}
		return nil
	}
	return NewValidationError("frequency_type", fmt.Sprintf("unknown frequency type %q", ft))
}

// TodoDraft holds the fields for creating a todo.
// Fields are ordered to minimize memory padding.
type TodoDraft struct {
	Deadline    *time.Time
	Title       string
	Description string
	Difficulty  Difficulty
}

// Validate rejects drafts without a future deadline.
func (d TodoDraft) Validate(now time.Time) error {
	if strings.TrimSpace(d.Title) == "" {
		return NewValidationError("title", ErrEmptyTitle.Error())
	}
	if !d.Difficulty.IsValid() {
		return NewValidationError("difficulty", fmt.Sprintf("unknown difficulty %q", d.Difficulty))
	}
	if d.Deadline == nil {
		return NewValidationError("deadline", "a deadline is required")
	}
	return validateDeadline(*d.Deadline, now)
}

func validateDeadline(deadline, now time.Time) error {
	if !deadline.After(now) {
		return NewValidationError("deadline", "must be in the future")
	}
	return nil
}

// HabitPatch holds the habit fields to change. Nil fields are left as they are.
// Fields are ordered to minimize memory padding.
type HabitPatch struct {
	Title                *string
	Description          *string
	Difficulty           *Difficulty
	FrequencyType        *FrequencyType
	FrequencyTargetTimes *int
	FrequencyDays        []int // nil leaves days unchanged
}

// IsEmpty returns true if the patch changes nothing.
func (p HabitPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Difficulty == nil &&
		p.FrequencyType == nil && p.FrequencyTargetTimes == nil && p.FrequencyDays == nil
}

// Apply returns h with the patch applied.
func (p HabitPatch) Apply(h Habit) Habit {
	if p.Title != nil {
		h.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.Difficulty != nil {
		h.Difficulty = *p.Difficulty
	}
	if p.FrequencyType != nil {
		h.FrequencyType = *p.FrequencyType
	}
	if p.FrequencyTargetTimes != nil {
		h.FrequencyTargetTimes = *p.FrequencyTargetTimes
	}
	if p.FrequencyDays != nil {
		h.FrequencyDays = NormalizeDays(p.FrequencyDays)
	}
	return h
}

// Validate checks the habit that would result from applying the patch to current.
func (p HabitPatch) Validate(current Habit) error {
	if p.IsEmpty() {
		return ErrNoFieldsToUpdate
	}
	next := p.Apply(current)
	if next.Title == "" {
		return NewValidationError("title", ErrEmptyTitle.Error())
	}
	if !next.Difficulty.IsValid() {
		return NewValidationError("difficulty", fmt.Sprintf("unknown difficulty %q", next.Difficulty))
	}
	return validateSchedule(next.FrequencyType, next.FrequencyTargetTimes, next.FrequencyDays)
}

// TodoPatch holds the todo fields to change. Nil fields are left as they are.
// Fields are ordered to minimize memory padding.
type TodoPatch struct {
	Deadline    *time.Time
	Title       *string
	Description *string
	Difficulty  *Difficulty
}

// IsEmpty returns true if the patch changes nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Deadline == nil && p.Title == nil && p.Description == nil && p.Difficulty == nil
}

// Apply returns t with the patch applied.
func (p TodoPatch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Difficulty != nil {
		t.Difficulty = *p.Difficulty
	}
	if p.Deadline != nil {
		deadline := *p.Deadline
		t.Deadline = &deadline
	}
	return t
}

// Validate checks the patch against the current todo. A new deadline must
// be in the future.
func (p TodoPatch) Validate(current Todo, now time.Time) error {
	if p.IsEmpty() {
		return ErrNoFieldsToUpdate
	}
	next := p.Apply(current)
	if next.Title == "" {
		return NewValidationError("title", ErrEmptyTitle.Error())
	}
	if !next.Difficulty.IsValid() {
		return NewValidationError("difficulty", fmt.Sprintf("unknown difficulty %q", next.Difficulty))
	}
	if p.Deadline != nil {
		return validateDeadline(*p.Deadline, now)
	}
	return nil
}
