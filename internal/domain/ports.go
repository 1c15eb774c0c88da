package domain

import (
	"context"
	"time"
)

// TaskBackend is the remote task API. The backend is the source of record.
type TaskBackend interface {
	// ListTasks fetches every task of the current user.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateHabit creates a habit and returns it as stored.
	CreateHabit(ctx context.Context, draft HabitDraft) (Habit, error)

	// CreateTodo creates a todo and returns it as stored.
	CreateTodo(ctx context.Context, draft TodoDraft) (Todo, error)

	// UpdateHabit changes the given fields of a habit.
	UpdateHabit(ctx context.Context, id string, patch HabitPatch) (Habit, error)

	// UpdateTodo changes the given fields of a todo.
	UpdateTodo(ctx context.Context, id string, patch TodoPatch) (Todo, error)

	// DeleteHabit removes a habit.
	DeleteHabit(ctx context.Context, id string) error

	// DeleteTodo removes a todo.
	DeleteTodo(ctx context.Context, id string) error

	// CompleteTask records a completion and returns the gamification outcome.
	CompleteTask(ctx context.Context, id string) (CompleteResponse, error)

	// UncompleteTask reverts today's completion of a habit.
	UncompleteTask(ctx context.Context, id string) (UncompleteResponse, error)
}

// UserBackend is the remote account API.
type UserBackend interface {
	// CurrentUser fetches the authenticated user.
	CurrentUser(ctx context.Context) (User, error)

	// Register creates an account.
	Register(ctx context.Context, req RegisterRequest) (User, error)
}

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (Token, error)
}

// TagBackend is the remote tag API.
type TagBackend interface {
	ListTags(ctx context.Context) ([]Tag, error)
	CreateTag(ctx context.Context, name, color string) (Tag, error)
	// UpdateTag renames or recolors a tag. Empty fields are left unchanged.
	UpdateTag(ctx context.Context, tagID, name, color string) (Tag, error)
	DeleteTag(ctx context.Context, tagID string) error
	AttachTag(ctx context.Context, taskID, tagID string) error
	DetachTag(ctx context.Context, taskID, tagID string) error
	TasksByTag(ctx context.Context, tagID string) ([]Task, error)
}

// StatsBackend is the remote dashboard and achievement API.
type StatsBackend interface {
	DashboardStats(ctx context.Context) (DashboardStats, error)
	History(ctx context.Context) ([]CompletionHistoryEntry, error)
	Achievements(ctx context.Context) ([]Achievement, error)
}

// CompletionOverrides is the durable per-day set of habit IDs completed
// locally. Dates are calendar dates in DateLayout.
type CompletionOverrides interface {
	// Get returns the IDs recorded for date. A missing date yields no IDs and no error.
	Get(date string) ([]string, error)

	// Add records taskID for date. Adding an existing ID is a no-op.
	Add(date, taskID string) error

	// Remove drops taskID from date. Removing a missing ID is a no-op.
	Remove(date, taskID string) error

	// Clear drops every ID recorded for date.
	Clear(date string) error

	// Prune drops every date before the given one and returns how many were dropped.
	Prune(before string) (int, error)
}

// TokenStore persists the bearer token between invocations.
type TokenStore interface {
	// Load returns the saved token. It returns ErrUnauthorized if none is saved.
	Load() (Token, error)
	Save(token Token) error
	Clear() error
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// ZonedClock reports the system time in a fixed location.
type ZonedClock struct {
	Location *time.Location
}

// Now returns the current time in the clock's location.
func (c ZonedClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// ConfigLoader loads configuration.
type ConfigLoader interface {
	// Load returns the merged configuration.
	Load() (*Config, error)
}

// ConfigManager manages the configuration file.
type ConfigManager interface {
	// GlobalConfigInfo describes the config file.
	GlobalConfigInfo() ConfigInfo
	// InitGlobalConfig writes the config template. It returns ErrConfigExists
	// unless overwrite is set.
	InitGlobalConfig(overwrite bool) (string, error)
}

// ConfigInfo describes a config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// Logger records diagnostics to the log file. taskID may be empty.
type Logger interface {
	Info(taskID, category, msg string)
	Debug(taskID, category, msg string)
	Warn(taskID, category, msg string)
	Error(taskID, category, msg string)
}

// NopLogger discards everything.
type NopLogger struct{}

// Info implements Logger.
func (NopLogger) Info(string, string, string) {}

// Debug implements Logger.
func (NopLogger) Debug(string, string, string) {}

// Warn implements Logger.
func (NopLogger) Warn(string, string, string) {}

// Error implements Logger.
func (NopLogger) Error(string, string, string) {}
