package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/dailyquest/dq/internal/domain"
)

// ListHistoryInput contains the parameters for listing completion history.
type ListHistoryInput struct {
	Limit int // Most recent days to keep (0 = all)
}

// ListHistoryOutput contains per-day totals, newest first.
type ListHistoryOutput struct {
	Entries []domain.CompletionHistoryEntry
	TotalXP int
}

// ListHistory is the use case for the completion history. History is
// display only; it never feeds completion state.
type ListHistory struct {
	stats domain.StatsBackend
}

// NewListHistory creates a new ListHistory use case.
func NewListHistory(stats domain.StatsBackend) *ListHistory {
	return &ListHistory{stats: stats}
}

// Execute fetches and orders the history.
func (uc *ListHistory) Execute(ctx context.Context, in ListHistoryInput) (*ListHistoryOutput, error) {
	entries, err := uc.stats.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	slices.SortStableFunc(entries, func(a, b domain.CompletionHistoryEntry) int {
		return cmp.Compare(b.CompletedDate, a.CompletedDate)
	})
	if in.Limit > 0 && len(entries) > in.Limit {
		entries = entries[:in.Limit]
	}

	out := &ListHistoryOutput{Entries: entries}
	for _, e := range entries {
		out.TotalXP += e.XPEarned
	}
	return out, nil
}

// ListAchievementsInput contains the parameters for listing achievements.
type ListAchievementsInput struct{}

// ListAchievementsOutput contains the achievements, unlocked ones first.
type ListAchievementsOutput struct {
	Achievements []domain.Achievement
	Unlocked     int
}

// ListAchievements is the use case for listing achievements.
type ListAchievements struct {
	stats domain.StatsBackend
}

// NewListAchievements creates a new ListAchievements use case.
func NewListAchievements(stats domain.StatsBackend) *ListAchievements {
	return &ListAchievements{stats: stats}
}

// Execute fetches the achievements.
func (uc *ListAchievements) Execute(ctx context.Context, _ ListAchievementsInput) (*ListAchievementsOutput, error) {
	list, err := uc.stats.Achievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	slices.SortStableFunc(list, func(a, b domain.Achievement) int {
		switch {
		case a.Unlocked() == b.Unlocked():
			return 0
		case a.Unlocked():
			return -1
		}
		return 1
	})

	out := &ListAchievementsOutput{Achievements: list}
	for _, a := range list {
		if a.Unlocked() {
			out.Unlocked++
		}
	}
	return out, nil
}
