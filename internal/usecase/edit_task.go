package usecase

import (
	"context"
	"fmt"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/usecase/shared"
)

// UpdateHabitInput contains the parameters for editing a habit.
type UpdateHabitInput struct {
	Patch domain.HabitPatch
	Ref   string // Full task ID or unique prefix
}

// UpdateHabitOutput contains the updated habit.
type UpdateHabitOutput struct {
	Habit domain.Habit
}

// UpdateHabit is the use case for editing a habit.
type UpdateHabit struct {
	backend domain.TaskBackend
	store   *domain.TaskStore
	logger  domain.Logger
}

// NewUpdateHabit creates a new UpdateHabit use case.
func NewUpdateHabit(backend domain.TaskBackend, store *domain.TaskStore, logger domain.Logger) *UpdateHabit {
	return &UpdateHabit{
		backend: backend,
		store:   store,
		logger:  logger,
	}
}

// Execute validates the habit that would result from the patch, sends only
// the changed fields and replaces the stored habit with the response.
func (uc *UpdateHabit) Execute(ctx context.Context, in UpdateHabitInput) (*UpdateHabitOutput, error) {
	task, err := shared.GetTask(ctx, uc.backend, uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	current, ok := task.(domain.Habit)
	if !ok {
		return nil, domain.NewIllegalOperationError(fmt.Sprintf("task %s is a %s, not a habit", task.Common().ID, task.Type()))
	}
	if err := in.Patch.Validate(current); err != nil {
		return nil, err
	}

	habit, err := uc.backend.UpdateHabit(ctx, current.ID, in.Patch)
	if err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	uc.store.Replace(habit)

	if uc.logger != nil {
		uc.logger.Info(habit.ID, "task", "habit updated")
	}
	return &UpdateHabitOutput{Habit: habit}, nil
}

// UpdateTodoInput contains the parameters for editing a todo.
type UpdateTodoInput struct {
	Patch domain.TodoPatch
	Ref   string // Full task ID or unique prefix
}

// UpdateTodoOutput contains the updated todo.
type UpdateTodoOutput struct {
	Todo domain.Todo
}

// UpdateTodo is the use case for editing a todo.
type UpdateTodo struct {
	backend domain.TaskBackend
	store   *domain.TaskStore
	clock   domain.Clock
	logger  domain.Logger
}

// NewUpdateTodo creates a new UpdateTodo use case.
func NewUpdateTodo(backend domain.TaskBackend, store *domain.TaskStore, clock domain.Clock, logger domain.Logger) *UpdateTodo {
	return &UpdateTodo{
		backend: backend,
		store:   store,
		clock:   clock,
		logger:  logger,
	}
}

// Execute validates the patch, sends only the changed fields and replaces
// the stored todo with the response.
func (uc *UpdateTodo) Execute(ctx context.Context, in UpdateTodoInput) (*UpdateTodoOutput, error) {
	task, err := shared.GetTask(ctx, uc.backend, uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	current, ok := task.(domain.Todo)
	if !ok {
		return nil, domain.NewIllegalOperationError(fmt.Sprintf("task %s is a %s, not a todo", task.Common().ID, task.Type()))
	}
	if err := in.Patch.Validate(current, uc.clock.Now()); err != nil {
		return nil, err
	}

	todo, err := uc.backend.UpdateTodo(ctx, current.ID, in.Patch)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	uc.store.Replace(todo)

	if uc.logger != nil {
		uc.logger.Info(todo.ID, "task", "todo updated")
	}
	return &UpdateTodoOutput{Todo: todo}, nil
}
