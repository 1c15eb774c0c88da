package usecase

import (
	"context"
	"fmt"

	"github.com/dailyquest/dq/internal/domain"
)

// ShowProfileInput contains the parameters for showing the profile.
type ShowProfileInput struct {
	WithStats bool // Also fetch dashboard statistics
}

// ShowProfileOutput contains the user and derived progress.
// Fields are ordered to minimize memory padding.
type ShowProfileOutput struct {
	Stats    *domain.DashboardStats // nil when not requested or unavailable
	User     domain.User
	Progress domain.LevelProgress
	ToNext   int // XP left in the current band
}

// ShowProfile is the use case for displaying the signed-in user.
type ShowProfile struct {
	users  domain.UserBackend
	stats  domain.StatsBackend
	logger domain.Logger
}

// NewShowProfile creates a new ShowProfile use case.
func NewShowProfile(users domain.UserBackend, stats domain.StatsBackend, logger domain.Logger) *ShowProfile {
	return &ShowProfile{users: users, stats: stats, logger: logger}
}

// Execute fetches the user. Statistics are best effort.
func (uc *ShowProfile) Execute(ctx context.Context, in ShowProfileInput) (*ShowProfileOutput, error) {
	user, err := uc.users.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("show profile: %w", err)
	}

	out := &ShowProfileOutput{
		User:     user,
		Progress: user.Progress(),
		ToNext:   domain.XPToNextLevel(user.XP),
	}
	if in.WithStats {
		stats, err := uc.stats.DashboardStats(ctx)
		if err == nil {
			out.Stats = &stats
		} else if uc.logger != nil {
			uc.logger.Warn("", "stats", fmt.Sprintf("dashboard stats: %v", err))
		}
	}
	return out, nil
}
