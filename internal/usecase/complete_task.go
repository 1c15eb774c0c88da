package usecase

import (
	"context"
	"fmt"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/usecase/shared"
)

// CompleteTaskInput contains the parameters for completing a task.
type CompleteTaskInput struct {
	User *domain.User // Snapshot held before the request (nil = fetch it)
	Ref  string       // Full task ID or unique prefix
}

// CompleteTaskOutput contains the result of completing a task.
// Fields are ordered to minimize memory padding.
type CompleteTaskOutput struct {
	Task        domain.Task     // The task as patched in the store
	Effects     []domain.Effect // Effects to announce, in order
	Message     string          // Backend message
	User        domain.User     // Snapshot after the transaction
	CoinsGained int
	UserFresh   bool // User reflects this transaction
}

// CompleteTask is the use case for completing a habit or a todo.
// Fields are ordered to minimize memory padding.
type CompleteTask struct {
	backend    domain.TaskBackend
	users      domain.UserBackend
	store      *domain.TaskStore
	reconciler *domain.Reconciler
	clock      domain.Clock
	logger     domain.Logger
}

// NewCompleteTask creates a new CompleteTask use case.
func NewCompleteTask(
	backend domain.TaskBackend,
	users domain.UserBackend,
	store *domain.TaskStore,
	reconciler *domain.Reconciler,
	clock domain.Clock,
	logger domain.Logger,
) *CompleteTask {
	return &CompleteTask{
		backend:    backend,
		users:      users,
		store:      store,
		reconciler: reconciler,
		clock:      clock,
		logger:     logger,
	}
}

// Execute completes a task.
// Preconditions:
//   - A todo must not be completed already (illegal operation, no request)
//
// Processing:
//   - Send the completion; a conflict is returned as is and nothing local changes
//   - Patch the store and record habits in today's override set
//   - Derive effects against the level held before the request
//   - Replace the user snapshot from the response, refreshing if it has none
func (uc *CompleteTask) Execute(ctx context.Context, in CompleteTaskInput) (*CompleteTaskOutput, error) {
	task, err := shared.GetTask(ctx, uc.backend, uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	id := task.Common().ID

	if todo, ok := task.(domain.Todo); ok && todo.Completed {
		return nil, domain.NewIllegalOperationError("todo is already completed")
	}

	prev, havePrev := uc.previousUser(ctx, in.User)

	resp, err := uc.backend.CompleteTask(ctx, id)
	if err != nil {
		if uc.logger != nil && domain.KindOf(err) == domain.KindConflict {
			uc.logger.Info(id, "complete", "backend reports task already completed")
		}
		return nil, fmt.Errorf("complete task: %w", err)
	}

	now := uc.clock.Now()
	patched, err := uc.store.ApplyCompletion(id, resp, now)
	if err != nil {
		return nil, fmt.Errorf("apply completion: %w", err)
	}
	if patched.Type() == domain.TaskTypeHabit {
		if err := uc.reconciler.MarkCompleted(id, now); err != nil && uc.logger != nil {
			uc.logger.Warn(id, "cache", err.Error())
		}
	}

	previousLevel := resp.PreviousLevel
	if havePrev {
		previousLevel = domain.NumericFromInt(prev.Level)
	}
	effects := domain.ProcessCompletion(resp, previousLevel)

	next, fresh := domain.ApplyTransaction(prev, resp)
	if !fresh {
		if user, err := uc.users.CurrentUser(ctx); err == nil {
			next, fresh = user, true
		} else if uc.logger != nil {
			uc.logger.Warn(id, "user", fmt.Sprintf("refresh user: %v", err))
		}
	}

	if uc.logger != nil {
		uc.logger.Info(id, "complete", fmt.Sprintf("completed (xp +%d, effects %d)", resp.Completion.XPEarned, len(effects)))
	}

	out := &CompleteTaskOutput{
		Task:      patched,
		Effects:   effects,
		Message:   resp.Message,
		User:      next,
		UserFresh: fresh,
	}
	// Coins gained are only known relative to a prior snapshot.
	if havePrev {
		out.CoinsGained = domain.CoinsGained(prev, next)
	}
	return out, nil
}

// previousUser returns the snapshot held before the request, fetching it
// when the caller has none. ok is false when no snapshot is available.
func (uc *CompleteTask) previousUser(ctx context.Context, held *domain.User) (domain.User, bool) {
	if held != nil {
		return *held, true
	}
	user, err := uc.users.CurrentUser(ctx)
	if err != nil {
		if uc.logger != nil {
			uc.logger.Warn("", "user", fmt.Sprintf("fetch user before completion: %v", err))
		}
		return domain.User{}, false
	}
	return user, true
}

// UncompleteTaskInput contains the parameters for reverting a completion.
type UncompleteTaskInput struct {
	Ref string // Full task ID or unique prefix
}

// UncompleteTaskOutput contains the result of reverting a completion.
// Fields are ordered to minimize memory padding.
type UncompleteTaskOutput struct {
	Task      domain.Task
	User      *domain.User // Refreshed snapshot (nil when the refresh failed)
	Message   string
	XPRemoved int
}

// UncompleteTask is the use case for reverting today's completion of a habit.
type UncompleteTask struct {
	backend    domain.TaskBackend
	users      domain.UserBackend
	store      *domain.TaskStore
	reconciler *domain.Reconciler
	clock      domain.Clock
	logger     domain.Logger
}

// NewUncompleteTask creates a new UncompleteTask use case.
func NewUncompleteTask(
	backend domain.TaskBackend,
	users domain.UserBackend,
	store *domain.TaskStore,
	reconciler *domain.Reconciler,
	clock domain.Clock,
	logger domain.Logger,
) *UncompleteTask {
	return &UncompleteTask{
		backend:    backend,
		users:      users,
		store:      store,
		reconciler: reconciler,
		clock:      clock,
		logger:     logger,
	}
}

// Execute reverts a habit's completion. Todos are rejected before any
// request is sent.
func (uc *UncompleteTask) Execute(ctx context.Context, in UncompleteTaskInput) (*UncompleteTaskOutput, error) {
	task, err := shared.GetTask(ctx, uc.backend, uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	if task.Type() == domain.TaskTypeTodo {
		return nil, domain.NewIllegalOperationError("a completed todo cannot be un-completed")
	}
	id := task.Common().ID

	resp, err := uc.backend.UncompleteTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("uncomplete task: %w", err)
	}

	patched, err := uc.store.ApplyUncompletion(id)
	if err != nil {
		return nil, fmt.Errorf("apply uncompletion: %w", err)
	}
	if err := uc.reconciler.MarkUncompleted(id, uc.clock.Now()); err != nil && uc.logger != nil {
		uc.logger.Warn(id, "cache", err.Error())
	}

	out := &UncompleteTaskOutput{
		Task:      patched,
		Message:   resp.Message,
		XPRemoved: resp.XPRemoved,
	}
	if user, err := uc.users.CurrentUser(ctx); err == nil {
		out.User = &user
	} else if uc.logger != nil {
		uc.logger.Warn(id, "user", fmt.Sprintf("refresh user: %v", err))
	}

	if uc.logger != nil {
		uc.logger.Info(id, "complete", fmt.Sprintf("uncompleted (xp -%d)", resp.XPRemoved))
	}
	return out, nil
}
