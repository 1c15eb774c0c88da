package usecase

import (
	"context"
	"fmt"

	"github.com/dailyquest/dq/internal/domain"
)

// CreateHabitInput contains the parameters for creating a habit.
type CreateHabitInput struct {
	Draft domain.HabitDraft
}

// CreateHabitOutput contains the created habit.
type CreateHabitOutput struct {
	Habit domain.Habit
}

// CreateHabit is the use case for creating a habit.
type CreateHabit struct {
	backend domain.TaskBackend
	store   *domain.TaskStore
	logger  domain.Logger
}

// NewCreateHabit creates a new CreateHabit use case.
func NewCreateHabit(backend domain.TaskBackend, store *domain.TaskStore, logger domain.Logger) *CreateHabit {
	return &CreateHabit{
		backend: backend,
		store:   store,
		logger:  logger,
	}
}

// Execute validates the draft locally, creates the habit and adds it to the store.
// Invalid drafts never reach the backend.
func (uc *CreateHabit) Execute(ctx context.Context, in CreateHabitInput) (*CreateHabitOutput, error) {
	draft := in.Draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	habit, err := uc.backend.CreateHabit(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}
	uc.store.Add(habit)

	if uc.logger != nil {
		uc.logger.Info(habit.ID, "task", fmt.Sprintf("habit created: %s", habit.Title))
	}
	return &CreateHabitOutput{Habit: habit}, nil
}

// CreateTodoInput contains the parameters for creating a todo.
type CreateTodoInput struct {
	Draft domain.TodoDraft
}

// CreateTodoOutput contains the created todo.
type CreateTodoOutput struct {
	Todo domain.Todo
}

// CreateTodo is the use case for creating a todo.
type CreateTodo struct {
	backend domain.TaskBackend
	store   *domain.TaskStore
	clock   domain.Clock
	logger  domain.Logger
}

// NewCreateTodo creates a new CreateTodo use case.
func NewCreateTodo(backend domain.TaskBackend, store *domain.TaskStore, clock domain.Clock, logger domain.Logger) *CreateTodo {
	return &CreateTodo{
		backend: backend,
		store:   store,
		clock:   clock,
		logger:  logger,
	}
}

// Execute validates the draft, including a future deadline, and creates the todo.
func (uc *CreateTodo) Execute(ctx context.Context, in CreateTodoInput) (*CreateTodoOutput, error) {
	if err := in.Draft.Validate(uc.clock.Now()); err != nil {
		return nil, err
	}

	todo, err := uc.backend.CreateTodo(ctx, in.Draft)
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	uc.store.Add(todo)

	if uc.logger != nil {
		uc.logger.Info(todo.ID, "task", fmt.Sprintf("todo created: %s", todo.Title))
	}
	return &CreateTodoOutput{Todo: todo}, nil
}
