package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTasks() []Task {
	return []Task{
		Habit{
			TaskBase:      TaskBase{ID: "aaa-111", Title: "Read", Difficulty: DifficultyEasy, Tags: []Tag{{ID: "tg1", Name: "Mind"}}},
			FrequencyType: FrequencyDaily,
			CurrentStreak: 3,
			BestStreak:    5,
		},
		Todo{
			TaskBase: TaskBase{ID: "bbb-222", Title: "File taxes", Description: "before april", Difficulty: DifficultyHard},
		},
		Habit{
			TaskBase:      TaskBase{ID: "aab-333", Title: "Run", Difficulty: DifficultyMedium, Tags: []Tag{{ID: "tg2", Name: "Body"}}},
			FrequencyType: FrequencySpecificDays,
			FrequencyDays: []int{1, 3, 5},
		},
	}
}

func ids(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Common().ID)
	}
	return out
}

func TestTaskStore_ListPreservesOrder(t *testing.T) {
	s := NewTaskStore(sampleTasks()...)
	assert.Equal(t, []string{"aaa-111", "bbb-222", "aab-333"}, ids(s.List()))

	s.Add(Todo{TaskBase: TaskBase{ID: "ccc-444"}})
	assert.Equal(t, []string{"aaa-111", "bbb-222", "aab-333", "ccc-444"}, ids(s.List()))

	s.ReplaceAll([]Task{Todo{TaskBase: TaskBase{ID: "zzz"}}})
	assert.Equal(t, []string{"zzz"}, ids(s.List()))
}

func TestTaskStore_ListIsASnapshot(t *testing.T) {
	s := NewTaskStore(sampleTasks()...)
	list := s.List()
	list[0] = Todo{TaskBase: TaskBase{ID: "mutated"}}

	got, ok := s.Get("aaa-111")
	require.True(t, ok)
	assert.Equal(t, "Read", got.Common().Title)
}

func TestTaskStore_Resolve(t *testing.T) {
	s := NewTaskStore(sampleTasks()...)

	task, err := s.Resolve("bbb")
	require.NoError(t, err)
	assert.Equal(t, "bbb-222", task.Common().ID)

	task, err = s.Resolve("aaa-111")
	require.NoError(t, err)
	assert.Equal(t, "Read", task.Common().Title)

	_, err = s.Resolve("aa")
	assert.ErrorIs(t, err, ErrAmbiguousTaskID)

	_, err = s.Resolve("nope")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = s.Resolve("")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskStore_ApplyCompletion_Habit(t *testing.T) {
	s := NewTaskStore(sampleTasks()...)
	now := at(2024, time.March, 10, 9, 0)

	patched, err := s.ApplyCompletion("aaa-111", CompleteResponse{Streak: &StreakInfo{CurrentStreak: 4, BestStreak: 5}}, now)
	require.NoError(t, err)

	h, ok := patched.(Habit)
	require.True(t, ok)
	require.NotNil(t, h.LastCompletedAt)
	assert.Equal(t, now, *h.LastCompletedAt)
	assert.Equal(t, 4, h.CurrentStreak)
	assert.Equal(t, 5, h.BestStreak)
	assert.Equal(t, 1, h.TimesCompletedThisWeek)
	assert.Equal(t, "Read", h.Title)
	assert.Equal(t, []string{"aaa-111", "bbb-222", "aab-333"}, ids(s.List()))
}

func TestTaskStore_ApplyCompletion_HabitWithoutStreakInfo(t *testing.T) {
	s := NewTaskStore(sampleTasks()...)

	patched, err := s.ApplyCompletion("aaa-111", CompleteResponse{}, at(2024, time.March, 10, 9, 0))
	require.NoError(t, err)
	assert.Equal(t, 3, patched.(Habit).CurrentStreak)
}

func TestTaskStore_TodoCompletionIsPermanent(t *testing.T) {
	s := NewTaskStore(sampleTasks()...)
	now := at(2024, time.March, 10, 9, 0)

	patched, err := s.ApplyCompletion("bbb-222", CompleteResponse{}, now)
	require.NoError(t, err)
	todo := patched.(Todo)
	assert.True(t, todo.Completed)
	require.NotNil(t, todo.CompletedAt)

	_, err = s.ApplyUncompletion("bbb-222")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalOperation)

	got, _ := s.Get("bbb-222")
	assert.True(t, got.(Todo).Completed)

	// Completing again keeps it completed and keeps the first timestamp
	again, err := s.ApplyCompletion("bbb-222", CompleteResponse{}, now.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, again.(Todo).Completed)
	assert.Equal(t, now, *again.(Todo).CompletedAt)
}

func TestTaskStore_UncompletionFloorsStreakAtZero(t *testing.T) {
	s := NewTaskStore(Habit{TaskBase: TaskBase{ID: "h"}, FrequencyType: FrequencyDaily, CurrentStreak: 2})

	for i := 0; i < 5; i++ {
		_, err := s.ApplyUncompletion("h")
		require.NoError(t, err)
	}

	got, _ := s.Get("h")
	h := got.(Habit)
	assert.Zero(t, h.CurrentStreak)
	assert.Zero(t, h.TimesCompletedThisWeek)
	assert.Nil(t, h.LastCompletedAt)
}

func TestTaskStore_MissingTask(t *testing.T) {
	s := NewTaskStore()

	_, err := s.ApplyCompletion("x", CompleteResponse{}, time.Now())
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = s.ApplyUncompletion("x")
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.False(t, s.Remove("x"))
	assert.False(t, s.Replace(Todo{TaskBase: TaskBase{ID: "x"}}))
}

func TestTaskStore_ReplaceAndRemove(t *testing.T) {
	s := NewTaskStore(sampleTasks()...)

	ok := s.Replace(Todo{TaskBase: TaskBase{ID: "bbb-222", Title: "File taxes now"}})
	require.True(t, ok)
	got, _ := s.Get("bbb-222")
	assert.Equal(t, "File taxes now", got.Common().Title)
	assert.Equal(t, []string{"aaa-111", "bbb-222", "aab-333"}, ids(s.List()))

	require.True(t, s.Remove("bbb-222"))
	assert.Equal(t, []string{"aaa-111", "aab-333"}, ids(s.List()))
	assert.Equal(t, 2, s.Len())
}

func TestTaskStore_Filter(t *testing.T) {
	now := at(2024, time.March, 11, 9, 0) // Monday
	s := NewTaskStore(sampleTasks()...)
	view := NewCompletionView(now, []string{"aaa-111"})

	tests := []struct {
		name   string
		filter TaskFilter
		want   []string
	}{
		{"no criteria", TaskFilter{}, []string{"aaa-111", "bbb-222", "aab-333"}},
		{"habits tab", TaskFilter{Tab: TabHabits}, []string{"aaa-111", "aab-333"}},
		{"todos tab", TaskFilter{Tab: TabTodos}, []string{"bbb-222"}},
		{"search title", TaskFilter{Search: "RUN"}, []string{"aab-333"}},
		{"search description", TaskFilter{Search: "april"}, []string{"bbb-222"}},
		{"difficulty", TaskFilter{Difficulties: []Difficulty{DifficultyEasy, DifficultyHard}}, []string{"aaa-111", "bbb-222"}},
		{"tag by name", TaskFilter{Tags: []string{"body"}}, []string{"aab-333"}},
		{"tag by id", TaskFilter{Tags: []string{"tg1", "tg2"}}, []string{"aaa-111", "aab-333"}},
		{"completed uses reconciler", TaskFilter{Status: StatusCompleted}, []string{"aaa-111"}},
		{"pending", TaskFilter{Status: StatusPending}, []string{"bbb-222", "aab-333"}},
		{"due monday", TaskFilter{DueOn: &now}, []string{"aaa-111", "bbb-222"}},
		{"sort by title desc", TaskFilter{Sort: SortTitle, Descending: true}, []string{"aab-333", "aaa-111", "bbb-222"}},
		{"sort by difficulty", TaskFilter{Sort: SortDifficulty}, []string{"aaa-111", "aab-333", "bbb-222"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(s.Filter(tt.filter, view)))
		})
	}

	// Filtering never mutates the store
	assert.Equal(t, []string{"aaa-111", "bbb-222", "aab-333"}, ids(s.List()))
}

func TestSortTasks_Deadline(t *testing.T) {
	early := at(2024, time.April, 1, 0, 0)
	late := at(2024, time.May, 1, 0, 0)
	tasks := []Task{
		Habit{TaskBase: TaskBase{ID: "h"}},
		Todo{TaskBase: TaskBase{ID: "late"}, Deadline: &late},
		Todo{TaskBase: TaskBase{ID: "none"}},
		Todo{TaskBase: TaskBase{ID: "early"}, Deadline: &early},
	}

	SortTasks(tasks, SortDeadline, false)
	assert.Equal(t, []string{"early", "late", "h", "none"}, ids(tasks))
}

func TestTaskStore_RetagAll(t *testing.T) {
	// Setup
	s := NewTaskStore(sampleTasks()...)
	renamed := Tag{ID: "tg1", Name: "Focus", Color: "#3b82f6"}

	// Execute
	patched := s.RetagAll("tg1", &renamed)
	dropped := s.RetagAll("tg2", nil)
	missing := s.RetagAll("tg-none", nil)

	// Assert
	assert.Equal(t, 1, patched)
	assert.Equal(t, 1, dropped)
	assert.Zero(t, missing)
	read, _ := s.Get("aaa-111")
	assert.Equal(t, []string{"Focus"}, read.Common().TagNames())
	run, _ := s.Get("aab-333")
	assert.Empty(t, run.Common().Tags)
}
