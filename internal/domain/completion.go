package domain

import "time"

// TaskCompletion is the backend's record of one completion.
type TaskCompletion struct {
	CompletedAt time.Time `json:"completed_at"`
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	UserID      string    `json:"user_id"`
	XPEarned    int       `json:"xp_earned"`
}

// StreakInfo is the habit streak after a completion.
type StreakInfo struct {
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
	CurrentStreak   int        `json:"current_streak"`
	BestStreak      int        `json:"best_streak"`
}

// CompleteResponse is the backend's answer to a completion request.
// User is nil when the backend did not include the updated user.
// Streak is nil for todos.
// Fields are ordered to minimize memory padding.
type CompleteResponse struct {
	User          *UserSnapshot  `json:"user,omitempty"`
	Streak        *StreakInfo    `json:"streak_info,omitempty"`
	Message       string         `json:"message"`
	PreviousLevel Numeric        `json:"previous_level,omitempty"`
	Completion    TaskCompletion `json:"task_completion"`
	LevelUp       bool           `json:"level_up,omitempty"`
}

// UncompleteResponse is the backend's answer to an un-completion request.
type UncompleteResponse struct {
	Message   string `json:"message"`
	XPRemoved int    `json:"xp_removed"`
}

// CompletionHistoryEntry is one row of completion history. Entries from the
// daily history endpoint aggregate a whole day and carry no TaskID.
type CompletionHistoryEntry struct {
	TaskID         string `json:"task_id,omitempty"`
	CompletedDate  string `json:"completed_date"`
	XPEarned       int    `json:"xp_earned"`
	TasksCompleted int    `json:"tasks_completed"`
}
