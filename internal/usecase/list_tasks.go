package usecase

import (
	"context"
	"time"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/usecase/shared"
)

// ListTasksInput contains the parameters for listing tasks.
// Fields are ordered to minimize memory padding.
type ListTasksInput struct {
	Filter   domain.TaskFilter // Criteria; DueOn is overridden by DueToday
	DueToday bool              // Only tasks scheduled for today
	Refresh  bool              // Sync from the backend even if the store is loaded
}

// TaskView is a task with its reconciled completion state.
type TaskView struct {
	Task      domain.Task
	Completed bool
}

// ListTasksOutput contains the result of listing tasks.
// Fields are ordered to minimize memory padding.
type ListTasksOutput struct {
	Now   time.Time  // Reference time used for completion state
	Tasks []TaskView // Matching tasks in display order
	Total int        // Tasks in the store before filtering
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	backend    domain.TaskBackend
	store      *domain.TaskStore
	reconciler *domain.Reconciler
	clock      domain.Clock
	logger     domain.Logger
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(
	backend domain.TaskBackend,
	store *domain.TaskStore,
	reconciler *domain.Reconciler,
	clock domain.Clock,
	logger domain.Logger,
) *ListTasks {
	return &ListTasks{
		backend:    backend,
		store:      store,
		reconciler: reconciler,
		clock:      clock,
		logger:     logger,
	}
}

// Execute lists tasks matching the given input criteria.
// A failing override cache degrades to the backend's completion signal.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	if in.Refresh || uc.store.Len() == 0 {
		if err := shared.SyncTasks(ctx, uc.backend, uc.store); err != nil {
			return nil, err
		}
	}

	now := uc.clock.Now()
	view, err := uc.reconciler.View(now)
	if err != nil && uc.logger != nil {
		uc.logger.Warn("", "cache", err.Error())
	}

	filter := in.Filter
	if in.DueToday {
		filter.DueOn = &now
	}

	tasks := uc.store.Filter(filter, view)
	out := &ListTasksOutput{
		Now:   now,
		Tasks: make([]TaskView, 0, len(tasks)),
		Total: uc.store.Len(),
	}
	for _, t := range tasks {
		out.Tasks = append(out.Tasks, TaskView{Task: t, Completed: view.IsCompleted(t)})
	}
	return out, nil
}
