package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dailyquest/dq/internal/domain"
)

// PruneCacheInput contains the parameters for pruning the override cache.
type PruneCacheInput struct {
	Before string // Calendar date; empty means today
}

// PruneCacheOutput contains the result of a prune.
type PruneCacheOutput struct {
	Before  string // Cutoff date used
	Removed int    // Dates dropped
}

// PruneCache drops override buckets older than a date. Only the current
// day's bucket is ever consulted, so older ones are dead weight.
type PruneCache struct {
	overrides domain.CompletionOverrides
	clock     domain.Clock
	logger    domain.Logger
}

// NewPruneCache creates a new PruneCache use case.
func NewPruneCache(overrides domain.CompletionOverrides, clock domain.Clock, logger domain.Logger) *PruneCache {
	return &PruneCache{overrides: overrides, clock: clock, logger: logger}
}

// Execute prunes every date strictly before the cutoff.
func (uc *PruneCache) Execute(_ context.Context, in PruneCacheInput) (*PruneCacheOutput, error) {
	before := strings.TrimSpace(in.Before)
	if before == "" {
		before = domain.DateKey(uc.clock.Now())
	} else if _, err := time.Parse(domain.DateLayout, before); err != nil {
		return nil, domain.NewValidationError("before", fmt.Sprintf("want a date like 2006-01-02, got %q", in.Before))
	}

	removed, err := uc.overrides.Prune(before)
	if err != nil {
		return nil, fmt.Errorf("prune cache: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info("", "cache", fmt.Sprintf("pruned %d dates before %s", removed, before))
	}
	return &PruneCacheOutput{Before: before, Removed: removed}, nil
}
