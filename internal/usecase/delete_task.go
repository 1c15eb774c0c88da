package usecase

import (
	"context"
	"fmt"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	Ref string // Full task ID or unique prefix
}

// DeleteTaskOutput contains the deleted task.
type DeleteTaskOutput struct {
	Task domain.Task
}

// DeleteTask is the use case for deleting a habit or a todo.
type DeleteTask struct {
	backend    domain.TaskBackend
	store      *domain.TaskStore
	reconciler *domain.Reconciler
	clock      domain.Clock
	logger     domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(
	backend domain.TaskBackend,
	store *domain.TaskStore,
	reconciler *domain.Reconciler,
	clock domain.Clock,
	logger domain.Logger,
) *DeleteTask {
	return &DeleteTask{
		backend:    backend,
		store:      store,
		reconciler: reconciler,
		clock:      clock,
		logger:     logger,
	}
}

// Execute deletes the task on the backend, then drops it from the store
// and from today's override set.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := shared.GetTask(ctx, uc.backend, uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	id := task.Common().ID

	switch task.(type) {
	case domain.Habit:
		err = uc.backend.DeleteHabit(ctx, id)
	case domain.Todo:
		err = uc.backend.DeleteTodo(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	uc.store.Remove(id)

	if task.Type() == domain.TaskTypeHabit {
		if err := uc.reconciler.MarkUncompleted(id, uc.clock.Now()); err != nil && uc.logger != nil {
			uc.logger.Warn(id, "cache", err.Error())
		}
	}
	if uc.logger != nil {
		uc.logger.Info(id, "task", "deleted")
	}
	return &DeleteTaskOutput{Task: task}, nil
}
