package usecase

import (
	"context"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/usecase/shared"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	Ref string // Full task ID or unique prefix
}

// ShowTaskOutput contains the task and its derived state.
// Fields are ordered to minimize memory padding.
type ShowTaskOutput struct {
	Task          domain.Task
	XPPreview     int  // XP the difficulty is worth
	RemainingWeek int  // Completions left this week for weekly habits
	Completed     bool // Reconciled completion state
	DueToday      bool // Habit scheduled today, or open todo
	Overdue       bool // Todo past its deadline
}

// ShowTask is the use case for displaying a single task.
type ShowTask struct {
	backend    domain.TaskBackend
	store      *domain.TaskStore
	reconciler *domain.Reconciler
	clock      domain.Clock
	logger     domain.Logger
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(
	backend domain.TaskBackend,
	store *domain.TaskStore,
	reconciler *domain.Reconciler,
	clock domain.Clock,
	logger domain.Logger,
) *ShowTask {
	return &ShowTask{
		backend:    backend,
		store:      store,
		reconciler: reconciler,
		clock:      clock,
		logger:     logger,
	}
}

// Execute resolves the task and computes its state at the current time.
func (uc *ShowTask) Execute(ctx context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := shared.GetTask(ctx, uc.backend, uc.store, in.Ref)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	view, err := uc.reconciler.View(now)
	if err != nil && uc.logger != nil {
		uc.logger.Warn(task.Common().ID, "cache", err.Error())
	}

	out := &ShowTaskOutput{
		Task:      task,
		XPPreview: domain.PreviewXP(task),
		Completed: view.IsCompleted(task),
	}
	switch t := task.(type) {
	case domain.Habit:
		out.DueToday = domain.IsDueOn(t, now)
		out.RemainingWeek = domain.RemainingThisWeek(t)
	case domain.Todo:
		out.DueToday = !t.Completed
		out.Overdue = t.IsOverdue(now)
	}
	return out, nil
}
