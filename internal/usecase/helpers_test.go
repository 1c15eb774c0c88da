package usecase

import (
	"time"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/testutil"
)

// monday is 2026-10-12 09:00 UTC.
var monday = time.Date(2026, time.October, 12, 9, 0, 0, 0, time.UTC)

func newClock() *testutil.MockClock {
	return &testutil.MockClock{NowTime: monday}
}

func dailyHabit(id, title string) domain.Habit {
	return domain.Habit{
		TaskBase: domain.TaskBase{
			ID: id, Title: title, Difficulty: domain.DifficultyEasy,
			CreatedAt: monday.Add(-72 * time.Hour),
		},
		FrequencyType: domain.FrequencyDaily,
	}
}

func openTodo(id, title string) domain.Todo {
	deadline := monday.Add(48 * time.Hour)
	return domain.Todo{
		TaskBase: domain.TaskBase{
			ID: id, Title: title, Difficulty: domain.DifficultyMedium,
			CreatedAt: monday.Add(-24 * time.Hour),
		},
		Deadline: &deadline,
	}
}

func ptr[T any](v T) *T {
	return &v
}
