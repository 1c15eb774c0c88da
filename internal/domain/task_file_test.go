package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskFile(t *testing.T) {
	content := `
habits:
  - title: Read
    difficulty: easy
    frequency: days
    days: [fri, mon, wed]
  - title: Stretch
    difficulty: MEDIUM
    frequency: weekly
    times: 3
  - title: Water
    difficulty: easy
todos:
  - title: File taxes
    difficulty: hard
    deadline: 2026-04-15T18:00:00Z
  - title: Someday
    difficulty: easy
`
	habits, todos, err := ParseTaskFile([]byte(content))
	require.NoError(t, err)
	require.Len(t, habits, 3)
	require.Len(t, todos, 2)

	assert.Equal(t, HabitDraft{
		Title:         "Read",
		Difficulty:    DifficultyEasy,
		FrequencyType: FrequencySpecificDays,
		FrequencyDays: []int{0, 2, 4},
	}, habits[0])
	assert.Equal(t, FrequencyWeeklyTimes, habits[1].FrequencyType)
	assert.Equal(t, 3, habits[1].FrequencyTargetTimes)
	assert.Equal(t, FrequencyDaily, habits[2].FrequencyType)

	require.NotNil(t, todos[0].Deadline)
	assert.True(t, todos[0].Deadline.Equal(time.Date(2026, time.April, 15, 18, 0, 0, 0, time.UTC)))
	assert.Equal(t, DifficultyHard, todos[0].Difficulty)

	// Missing deadline parses, and is rejected by validation
	assert.Nil(t, todos[1].Deadline)
	assert.ErrorIs(t, todos[1].Validate(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)), ErrValidation)
}

func TestParseTaskFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", "habits: []\n"},
		{"bad yaml", "habits: [\n"},
		{"bad difficulty", "habits:\n  - title: x\n    difficulty: epic\n"},
		{"bad weekday", "habits:\n  - title: x\n    difficulty: easy\n    frequency: days\n    days: [someday]\n"},
		{"bad frequency", "habits:\n  - title: x\n    difficulty: easy\n    frequency: hourly\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseTaskFile([]byte(tt.content))
			assert.Error(t, err)
		})
	}
}
