// Package shared holds helpers used by more than one use case.
package shared

import (
	"context"
	"fmt"

	"github.com/dailyquest/dq/internal/domain"
)

// SyncTasks replaces the store's contents with a fresh backend listing.
func SyncTasks(ctx context.Context, backend domain.TaskBackend, store *domain.TaskStore) error {
	tasks, err := backend.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("sync tasks: %w", err)
	}
	store.ReplaceAll(tasks)
	return nil
}

// GetTask resolves ref (a full ID or unique prefix) against the store,
// syncing from the backend first when the store is empty.
// This centralizes the common pattern of:
//
//	if store.Len() == 0 { sync }
//	task, err := store.Resolve(ref)
func GetTask(ctx context.Context, backend domain.TaskBackend, store *domain.TaskStore, ref string) (domain.Task, error) {
	if store.Len() == 0 {
		if err := SyncTasks(ctx, backend, store); err != nil {
			return nil, err
		}
	}
	task, err := store.Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}
