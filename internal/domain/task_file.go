package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrEmptyTaskFile is returned when an import file declares no tasks.
var ErrEmptyTaskFile = errors.New("task file contains no habits or todos")

// TaskFile is the YAML document accepted by dq import.
type TaskFile struct {
	Habits []HabitEntry `yaml:"habits"`
	Todos  []TodoEntry  `yaml:"todos"`
}

// HabitEntry is a habit as written in a task file.
// Fields are ordered to minimize memory padding.
type HabitEntry struct {
	Days        []string `yaml:"days,omitempty"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	Difficulty  string   `yaml:"difficulty"`
	Frequency   string   `yaml:"frequency"`
	Times       int      `yaml:"times,omitempty"`
}

// TodoEntry is a todo as written in a task file.
// Fields are ordered to minimize memory padding.
type TodoEntry struct {
	Deadline    time.Time `yaml:"deadline"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description,omitempty"`
	Difficulty  string    `yaml:"difficulty"`
}

// ParseTaskFile decodes a YAML task file into drafts. It does not validate
// deadlines against the clock; callers validate each draft before sending.
func ParseTaskFile(content []byte) ([]HabitDraft, []TodoDraft, error) {
	var file TaskFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, nil, fmt.Errorf("parse task file: %w", err)
	}
	if len(file.Habits) == 0 && len(file.Todos) == 0 {
		return nil, nil, ErrEmptyTaskFile
	}

	habits := make([]HabitDraft, 0, len(file.Habits))
	for i, e := range file.Habits {
		d, err := e.draft()
		if err != nil {
			return nil, nil, fmt.Errorf("habit %d (%s): %w", i+1, e.Title, err)
		}
		habits = append(habits, d)
	}

	todos := make([]TodoDraft, 0, len(file.Todos))
	for i, e := range file.Todos {
		d, err := e.draft()
		if err != nil {
			return nil, nil, fmt.Errorf("todo %d (%s): %w", i+1, e.Title, err)
		}
		todos = append(todos, d)
	}
	return habits, todos, nil
}

func (e HabitEntry) draft() (HabitDraft, error) {
	difficulty, err := ParseDifficulty(e.Difficulty)
	if err != nil {
		return HabitDraft{}, err
	}
	freq := FrequencyDaily
	if strings.TrimSpace(e.Frequency) != "" {
		if freq, err = ParseFrequencyType(e.Frequency); err != nil {
			return HabitDraft{}, err
		}
	}
	days := make([]int, 0, len(e.Days))
	for _, name := range e.Days {
		day, err := ParseWeekday(name)
		if err != nil {
			return HabitDraft{}, err
		}
		days = append(days, day)
	}
	return HabitDraft{
		Title:                e.Title,
		Description:          e.Description,
		Difficulty:           difficulty,
		FrequencyType:        freq,
		FrequencyTargetTimes: e.Times,
		FrequencyDays:        days,
	}.Normalize(), nil
}

func (e TodoEntry) draft() (TodoDraft, error) {
	difficulty, err := ParseDifficulty(e.Difficulty)
	if err != nil {
		return TodoDraft{}, err
	}
	d := TodoDraft{
		Title:       strings.TrimSpace(e.Title),
		Description: strings.TrimSpace(e.Description),
		Difficulty:  difficulty,
	}
	if !e.Deadline.IsZero() {
		deadline := e.Deadline
		d.Deadline = &deadline
	}
	return d, nil
}
