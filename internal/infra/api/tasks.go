package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dailyquest/dq/internal/domain"
)

// ListTasks fetches every task of the current user.
// Tasks of an unknown type or with unreadable fields are skipped and logged.
func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var dtos []taskDTO
	if err := c.send(ctx, call{method: http.MethodGet, path: "/tasks/", out: &dtos}); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return c.convertTasks(dtos), nil
}

func (c *Client) convertTasks(dtos []taskDTO) []domain.Task {
	tasks := make([]domain.Task, 0, len(dtos))
	for _, d := range dtos {
		t, err := d.toDomain(c.naive)
		if err != nil {
			c.logger.Warn(d.ID, "api", fmt.Sprintf("skipping task: %v", err))
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// CreateHabit creates a habit.
func (c *Client) CreateHabit(ctx context.Context, draft domain.HabitDraft) (domain.Habit, error) {
	var dto taskDTO
	err := c.send(ctx, call{method: http.MethodPost, path: "/tasks/habits/", body: newHabitRequest(draft), out: &dto})
	if err != nil {
		return domain.Habit{}, fmt.Errorf("create habit: %w", err)
	}
	h, err := dto.habit(c.naive)
	if err != nil {
		return domain.Habit{}, fmt.Errorf("create habit: %w", malformed(err))
	}
	return h, nil
}

// CreateTodo creates a todo.
func (c *Client) CreateTodo(ctx context.Context, draft domain.TodoDraft) (domain.Todo, error) {
	var dto taskDTO
	err := c.send(ctx, call{method: http.MethodPost, path: "/tasks/todos/", body: newTodoRequest(draft, c.naive), out: &dto})
	if err != nil {
		return domain.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	t, err := dto.todo(c.naive)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("create todo: %w", malformed(err))
	}
	return t, nil
}

// UpdateHabit changes the fields set in patch.
func (c *Client) UpdateHabit(ctx context.Context, id string, patch domain.HabitPatch) (domain.Habit, error) {
	var dto taskDTO
	err := c.send(ctx, call{method: http.MethodPut, path: "/tasks/habits/" + url.PathEscape(id), body: habitPatchBody(patch), out: &dto})
	if err != nil {
		return domain.Habit{}, fmt.Errorf("update habit: %w", err)
	}
	h, err := dto.habit(c.naive)
	if err != nil {
		return domain.Habit{}, fmt.Errorf("update habit: %w", malformed(err))
	}
	return h, nil
}

// UpdateTodo changes the fields set in patch.
func (c *Client) UpdateTodo(ctx context.Context, id string, patch domain.TodoPatch) (domain.Todo, error) {
	var dto taskDTO
	err := c.send(ctx, call{method: http.MethodPut, path: "/tasks/todos/" + url.PathEscape(id), body: todoPatchBody(patch, c.naive), out: &dto})
	if err != nil {
		return domain.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	t, err := dto.todo(c.naive)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("update todo: %w", malformed(err))
	}
	return t, nil
}

// DeleteHabit removes a habit.
func (c *Client) DeleteHabit(ctx context.Context, id string) error {
	if err := c.send(ctx, call{method: http.MethodDelete, path: "/tasks/habits/" + url.PathEscape(id)}); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}

// DeleteTodo removes a todo.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	if err := c.send(ctx, call{method: http.MethodDelete, path: "/tasks/todos/" + url.PathEscape(id)}); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

// CompleteTask records a completion. A repeated completion surfaces as a
// conflict error.
func (c *Client) CompleteTask(ctx context.Context, id string) (domain.CompleteResponse, error) {
	var dto completeResponseDTO
	err := c.send(ctx, call{method: http.MethodPost, path: "/tasks/" + url.PathEscape(id) + "/complete", out: &dto, completion: true})
	if err != nil {
		return domain.CompleteResponse{}, fmt.Errorf("complete task: %w", err)
	}
	resp, err := dto.toDomain(c.naive)
	if err != nil {
		return domain.CompleteResponse{}, fmt.Errorf("complete task: %w", malformed(err))
	}
	return resp, nil
}

// UncompleteTask reverts today's completion.
func (c *Client) UncompleteTask(ctx context.Context, id string) (domain.UncompleteResponse, error) {
	var dto uncompleteResponseDTO
	if err := c.send(ctx, call{method: http.MethodDelete, path: "/tasks/" + url.PathEscape(id) + "/complete", out: &dto}); err != nil {
		return domain.UncompleteResponse{}, fmt.Errorf("uncomplete task: %w", err)
	}
	return domain.UncompleteResponse{
		Message:   dto.Message,
		XPRemoved: max(dto.XPRemoved.IntOr(0), 0),
	}, nil
}

// malformed marks a decoded-but-unusable response as a backend error.
func malformed(err error) error {
	return &domain.Error{Kind: domain.KindBackend, Message: "malformed response", Err: err}
}
