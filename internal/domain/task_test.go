package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_MarshalJSONCarriesDiscriminant(t *testing.T) {
	created := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	tasks := []Task{
		Habit{
			TaskBase:      TaskBase{ID: "h1", Title: "Read", Difficulty: DifficultyEasy, CreatedAt: created},
			FrequencyType: FrequencySpecificDays,
			FrequencyDays: []int{1, 3},
			CurrentStreak: 2,
		},
		Todo{TaskBase: TaskBase{ID: "t1", Title: "Taxes", Difficulty: DifficultyHard, CreatedAt: created}},
	}

	out, err := json.Marshal(tasks)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "habit", decoded[0]["task_type"])
	assert.Equal(t, "h1", decoded[0]["id"])
	assert.Equal(t, "SPECIFIC_DAYS", decoded[0]["frequency_type"])
	assert.Equal(t, []any{1.0, 3.0}, decoded[0]["frequency_days"])
	assert.Equal(t, 2.0, decoded[0]["current_streak"])

	assert.Equal(t, "todo", decoded[1]["task_type"])
	assert.Equal(t, "Taxes", decoded[1]["title"])
	assert.NotContains(t, decoded[1], "deadline")
}

func TestTask_Variants(t *testing.T) {
	var h Task = Habit{TaskBase: TaskBase{ID: "h"}}
	var d Task = Todo{TaskBase: TaskBase{ID: "d"}}

	assert.Equal(t, TaskTypeHabit, h.Type())
	assert.Equal(t, TaskTypeTodo, d.Type())
	assert.Equal(t, "h", h.Common().ID)
	assert.True(t, TaskTypeHabit.IsValid())
	assert.False(t, TaskType("chore").IsValid())
}

func TestTaskBase_HasTag(t *testing.T) {
	b := TaskBase{Tags: []Tag{{ID: "t-1", Name: "Health"}}}
	assert.True(t, b.HasTag("health"))
	assert.True(t, b.HasTag("t-1"))
	assert.False(t, b.HasTag("work"))
	assert.Equal(t, []string{"Health"}, b.TagNames())
}

func TestTodo_IsOverdue(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	assert.True(t, Todo{Deadline: &past}.IsOverdue(now))
	assert.False(t, Todo{TaskBase: TaskBase{Completed: true}, Deadline: &past}.IsOverdue(now))
	assert.False(t, Todo{}.IsOverdue(now))
}

func TestPreviewXP(t *testing.T) {
	assert.Equal(t, 10, PreviewXP(Habit{TaskBase: TaskBase{Difficulty: DifficultyEasy}}))
	assert.Equal(t, 20, PreviewXP(Todo{TaskBase: TaskBase{Difficulty: DifficultyMedium}}))
	assert.Equal(t, 30, PreviewXP(Todo{TaskBase: TaskBase{Difficulty: DifficultyHard}}))
	assert.Equal(t, 0, PreviewXP(Todo{TaskBase: TaskBase{Difficulty: "EPIC"}}))
}
