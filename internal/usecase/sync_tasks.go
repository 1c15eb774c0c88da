// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/usecase/shared"
)

// SyncTasksInput contains the parameters for a resync.
type SyncTasksInput struct{}

// SyncTasksOutput contains the result of a resync.
type SyncTasksOutput struct {
	Count int // Number of tasks now in the store
}

// SyncTasks replaces the in-memory store with the backend's task list.
// Local patches made since the last sync are discarded; completion state
// that the backend has not caught up with survives in the override cache.
type SyncTasks struct {
	backend domain.TaskBackend
	store   *domain.TaskStore
	logger  domain.Logger
}

// NewSyncTasks creates a new SyncTasks use case.
func NewSyncTasks(backend domain.TaskBackend, store *domain.TaskStore, logger domain.Logger) *SyncTasks {
	return &SyncTasks{
		backend: backend,
		store:   store,
		logger:  logger,
	}
}

// Execute fetches every task and swaps it into the store.
func (uc *SyncTasks) Execute(ctx context.Context, _ SyncTasksInput) (*SyncTasksOutput, error) {
	if err := shared.SyncTasks(ctx, uc.backend, uc.store); err != nil {
		return nil, err
	}
	count := uc.store.Len()
	if uc.logger != nil {
		uc.logger.Debug("", "sync", fmt.Sprintf("synced %d tasks", count))
	}
	return &SyncTasksOutput{Count: count}, nil
}
