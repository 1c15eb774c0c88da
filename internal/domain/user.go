package domain

import "time"

// User is the authenticated account. The backend owns XP, level and coins;
// the client only replaces its snapshot with newer ones.
// Fields are ordered to minimize memory padding.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	XP       int    `json:"xp"`
	Level    int    `json:"level"`
	Coins    int    `json:"coins"`
}

// Progress returns the user's progress inside the current level band.
func (u User) Progress() LevelProgress {
	return CurrentLevelProgress(u.XP, u.Level)
}

// UserSnapshot is a user as embedded in a transaction response, with
// numeric fields not yet coerced.
type UserSnapshot struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	XP       Numeric `json:"xp"`
	Level    Numeric `json:"level"`
	Coins    Numeric `json:"coins"`
}

// User coerces the snapshot. ok is false when xp or level are not numbers.
func (s UserSnapshot) User() (User, bool) {
	xp, ok := s.XP.Int()
	if !ok {
		return User{}, false
	}
	level, ok := s.Level.Int()
	if !ok {
		return User{}, false
	}
	return User{
		ID:       s.ID,
		Username: s.Username,
		Email:    s.Email,
		XP:       max(xp, 0),
		Level:    max(level, 1),
		Coins:    max(s.Coins.IntOr(0), 0),
	}, true
}

// RegisterRequest holds the fields for creating an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is a bearer credential for the backend.
type Token struct {
	Expiry      time.Time `json:"expiry,omitzero"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
}

// Valid reports whether the token is present and not expired at now.
func (t Token) Valid(now time.Time) bool {
	if t.AccessToken == "" {
		return false
	}
	return t.Expiry.IsZero() || now.Before(t.Expiry)
}

// DashboardStats are aggregate counters reported by the backend.
type DashboardStats struct {
	TotalXP                int `json:"total_xp"`
	CurrentLevel           int `json:"current_level"`
	TotalTasksCompleted    int `json:"total_tasks_completed"`
	CurrentStreak          int `json:"current_streak"`
	TasksCompletedToday    int `json:"tasks_completed_today"`
	TasksCompletedThisWeek int `json:"tasks_completed_this_week"`
	TasksCompletedMonth    int `json:"tasks_completed_this_month"`
}

// Achievement is a backend-defined badge and the user's progress toward it.
// Fields are ordered to minimize memory padding.
type Achievement struct {
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Progress    int        `json:"progress"`
	Target      int        `json:"target,omitempty"`
}

// Unlocked reports whether the achievement has been earned.
func (a Achievement) Unlocked() bool {
	return a.UnlockedAt != nil
}
