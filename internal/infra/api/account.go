package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dailyquest/dq/internal/domain"
)

// CurrentUser fetches the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	var snap domain.UserSnapshot
	if err := c.send(ctx, call{method: http.MethodGet, path: "/users/me", out: &snap}); err != nil {
		return domain.User{}, fmt.Errorf("get current user: %w", err)
	}
	user, ok := snap.User()
	if !ok {
		return domain.User{}, fmt.Errorf("get current user: %w", malformed(errors.New("xp or level is not numeric")))
	}
	return user, nil
}

// Register creates an account. It does not require a token.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (domain.User, error) {
	var snap domain.UserSnapshot
	if err := c.send(ctx, call{method: http.MethodPost, path: "/users/", body: req, out: &snap, public: true}); err != nil {
		return domain.User{}, fmt.Errorf("register: %w", err)
	}
	user, ok := snap.User()
	if !ok {
		// New accounts may omit gamification fields.
		user = domain.User{ID: snap.ID, Username: snap.Username, Email: snap.Email, Level: 1}
	}
	return user, nil
}

// ListTags returns the user's tags.
func (c *Client) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var dtos []tagDTO
	if err := c.send(ctx, call{method: http.MethodGet, path: "/tags/", out: &dtos}); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	tags := make([]domain.Tag, 0, len(dtos))
	for _, d := range dtos {
		tag, err := d.toDomain(c.naive)
		if err != nil {
			return nil, fmt.Errorf("list tags: %w", malformed(err))
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// CreateTag creates a tag.
func (c *Client) CreateTag(ctx context.Context, name, color string) (domain.Tag, error) {
	var dto tagDTO
	if err := c.send(ctx, call{method: http.MethodPost, path: "/tags/", body: tagRequest{Name: name, Color: color}, out: &dto}); err != nil {
		return domain.Tag{}, fmt.Errorf("create tag: %w", err)
	}
	tag, err := dto.toDomain(c.naive)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("create tag: %w", malformed(err))
	}
	return tag, nil
}

// UpdateTag renames or recolors a tag. Empty fields are omitted from the body.
func (c *Client) UpdateTag(ctx context.Context, tagID, name, color string) (domain.Tag, error) {
	var dto tagDTO
	body := tagUpdateRequest{Name: name, Color: color}
	if err := c.send(ctx, call{method: http.MethodPut, path: "/tags/" + url.PathEscape(tagID), body: body, out: &dto}); err != nil {
		return domain.Tag{}, fmt.Errorf("update tag: %w", err)
	}
	tag, err := dto.toDomain(c.naive)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("update tag: %w", malformed(err))
	}
	return tag, nil
}

// DeleteTag deletes a tag.
func (c *Client) DeleteTag(ctx context.Context, tagID string) error {
	if err := c.send(ctx, call{method: http.MethodDelete, path: "/tags/" + url.PathEscape(tagID)}); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// AttachTag associates a tag with a task.
func (c *Client) AttachTag(ctx context.Context, taskID, tagID string) error {
	if err := c.send(ctx, call{method: http.MethodPost, path: tagPath(taskID, tagID)}); err != nil {
		return fmt.Errorf("attach tag: %w", err)
	}
	return nil
}

// DetachTag removes a tag from a task.
func (c *Client) DetachTag(ctx context.Context, taskID, tagID string) error {
	if err := c.send(ctx, call{method: http.MethodDelete, path: tagPath(taskID, tagID)}); err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}
	return nil
}

func tagPath(taskID, tagID string) string {
	return "/tasks/" + url.PathEscape(taskID) + "/tags/" + url.PathEscape(tagID)
}

// TasksByTag returns the tasks carrying a tag.
func (c *Client) TasksByTag(ctx context.Context, tagID string) ([]domain.Task, error) {
	var dtos []taskDTO
	if err := c.send(ctx, call{method: http.MethodGet, path: "/tasks/by-tag/" + url.PathEscape(tagID), out: &dtos}); err != nil {
		return nil, fmt.Errorf("tasks by tag: %w", err)
	}
	return c.convertTasks(dtos), nil
}

// DashboardStats returns the user's aggregate statistics.
func (c *Client) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	var dto dashboardDTO
	if err := c.send(ctx, call{method: http.MethodGet, path: "/dashboard/", out: &dto}); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return dto.toDomain(), nil
}

// History returns per-day completion totals.
func (c *Client) History(ctx context.Context) ([]domain.CompletionHistoryEntry, error) {
	var dto historyDTO
	if err := c.send(ctx, call{method: http.MethodGet, path: "/dashboard/history", out: &dto}); err != nil {
		return nil, fmt.Errorf("dashboard history: %w", err)
	}
	entries := make([]domain.CompletionHistoryEntry, 0, len(dto.Entries))
	for _, e := range dto.Entries {
		entries = append(entries, domain.CompletionHistoryEntry{
			CompletedDate:  e.Date,
			XPEarned:       e.XPEarned.IntOr(0),
			TasksCompleted: e.TasksCompleted.IntOr(0),
		})
	}
	return entries, nil
}

// Achievements returns the user's achievements.
func (c *Client) Achievements(ctx context.Context) ([]domain.Achievement, error) {
	var dtos []achievementDTO
	if err := c.send(ctx, call{method: http.MethodGet, path: "/achievements/me", out: &dtos}); err != nil {
		return nil, fmt.Errorf("achievements: %w", err)
	}
	out := make([]domain.Achievement, 0, len(dtos))
	for _, d := range dtos {
		a, err := d.toDomain(c.naive)
		if err != nil {
			return nil, fmt.Errorf("achievements: %w", malformed(err))
		}
		out = append(out, a)
	}
	return out, nil
}
