package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var derr *Error
	require.True(t, errors.As(err, &derr), "want *domain.Error, got %T", err)
	assert.Equal(t, KindValidation, derr.Kind)
	assert.Equal(t, field, derr.Field)
	assert.NotEmpty(t, derr.Message)
}

func TestHabitDraft_Validate(t *testing.T) {
	valid := HabitDraft{Title: "Read", Difficulty: DifficultyEasy, FrequencyType: FrequencyDaily}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		draft HabitDraft
		field string
	}{
		{"empty title", HabitDraft{Title: "  ", Difficulty: DifficultyEasy, FrequencyType: FrequencyDaily}, "title"},
		{"bad difficulty", HabitDraft{Title: "x", Difficulty: "EPIC", FrequencyType: FrequencyDaily}, "difficulty"},
		{"bad frequency", HabitDraft{Title: "x", Difficulty: DifficultyEasy, FrequencyType: "HOURLY"}, "frequency_type"},
		{"weekly target zero", HabitDraft{Title: "x", Difficulty: DifficultyEasy, FrequencyType: FrequencyWeeklyTimes}, "frequency_target_times"},
		{"weekly target eight", HabitDraft{Title: "x", Difficulty: DifficultyEasy, FrequencyType: FrequencyWeeklyTimes, FrequencyTargetTimes: 8}, "frequency_target_times"},
		{"no days", HabitDraft{Title: "x", Difficulty: DifficultyEasy, FrequencyType: FrequencySpecificDays}, "frequency_days"},
		{"day out of range", HabitDraft{Title: "x", Difficulty: DifficultyEasy, FrequencyType: FrequencySpecificDays, FrequencyDays: []int{7}}, "frequency_days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireValidationField(t, tt.draft.Validate(), tt.field)
		})
	}
}

func TestHabitDraft_Normalize(t *testing.T) {
	d := HabitDraft{
		Title:                " Run ",
		FrequencyType:        FrequencySpecificDays,
		FrequencyTargetTimes: 3,
		FrequencyDays:        []int{5, 1, 5},
	}.Normalize()

	assert.Equal(t, "Run", d.Title)
	assert.Zero(t, d.FrequencyTargetTimes)
	assert.Equal(t, []int{1, 5}, d.FrequencyDays)

	w := HabitDraft{FrequencyType: FrequencyWeeklyTimes, FrequencyTargetTimes: 3, FrequencyDays: []int{1}}.Normalize()
	assert.Nil(t, w.FrequencyDays)
	assert.Equal(t, 3, w.FrequencyTargetTimes)
}

func TestTodoDraft_Validate(t *testing.T) {
	now := at(2024, time.March, 10, 12, 0)
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Minute)

	require.NoError(t, TodoDraft{Title: "Taxes", Difficulty: DifficultyHard, Deadline: &future}.Validate(now))

	requireValidationField(t, TodoDraft{Title: "Taxes", Difficulty: DifficultyHard}.Validate(now), "deadline")
	requireValidationField(t, TodoDraft{Title: "Taxes", Difficulty: DifficultyHard, Deadline: &past}.Validate(now), "deadline")
	requireValidationField(t, TodoDraft{Title: "Taxes", Difficulty: DifficultyHard, Deadline: &now}.Validate(now), "deadline")
	requireValidationField(t, TodoDraft{Difficulty: DifficultyHard, Deadline: &future}.Validate(now), "title")
}

func TestHabitPatch_Validate(t *testing.T) {
	current := Habit{
		TaskBase:      TaskBase{Title: "Run", Difficulty: DifficultyMedium},
		FrequencyType: FrequencyDaily,
	}

	assert.ErrorIs(t, HabitPatch{}.Validate(current), ErrNoFieldsToUpdate)

	weekly := FrequencyWeeklyTimes
	requireValidationField(t, HabitPatch{FrequencyType: &weekly}.Validate(current), "frequency_target_times")

	three := 3
	require.NoError(t, HabitPatch{FrequencyType: &weekly, FrequencyTargetTimes: &three}.Validate(current))

	days := FrequencySpecificDays
	requireValidationField(t, HabitPatch{FrequencyType: &days, FrequencyDays: []int{}}.Validate(current), "frequency_days")

	empty := " "
	requireValidationField(t, HabitPatch{Title: &empty}.Validate(current), "title")
}

func TestTodoPatch_Validate(t *testing.T) {
	now := at(2024, time.March, 10, 12, 0)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	current := Todo{TaskBase: TaskBase{Title: "Taxes", Difficulty: DifficultyHard}, Deadline: &past}

	title := "Taxes 2024"
	require.NoError(t, TodoPatch{Title: &title}.Validate(current, now), "an old deadline is not re-validated")
	require.NoError(t, TodoPatch{Deadline: &future}.Validate(current, now))
	requireValidationField(t, TodoPatch{Deadline: &past}.Validate(current, now), "deadline")
	assert.ErrorIs(t, TodoPatch{}.Validate(current, now), ErrNoFieldsToUpdate)

	applied := TodoPatch{Title: &title, Deadline: &future}.Apply(current)
	assert.Equal(t, "Taxes 2024", applied.Title)
	assert.Equal(t, future, *applied.Deadline)
	assert.Equal(t, past, *current.Deadline)
}
