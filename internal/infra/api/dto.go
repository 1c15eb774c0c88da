package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dailyquest/dq/internal/domain"
)

// naiveLayouts are accepted for timestamps that carry no offset.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	domain.DateLayout,
}

// naiveWireLayout is how deadlines are sent.
const naiveWireLayout = "2006-01-02T15:04:05"

// wireTime is a timestamp as the backend sends it: RFC 3339, or naive
// ISO 8601 interpreted in the configured zone.
type wireTime string

func (w wireTime) parse(naive *time.Location) (*time.Time, error) {
	s := strings.TrimSpace(string(w))
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, naive); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized timestamp %q", s)
}

// value parses a required timestamp; empty yields the zero time.
func (w wireTime) value(naive *time.Location) (time.Time, error) {
	t, err := w.parse(naive)
	if err != nil || t == nil {
		return time.Time{}, err
	}
	return *t, nil
}

// errUnknownTaskType is returned for tasks whose task_type is neither habit nor todo.
var errUnknownTaskType = errors.New("unknown task_type")

// taskDTO is the union of habit and todo fields as listed by the backend.
type taskDTO struct {
	ID                     string         `json:"id"`
	Title                  string         `json:"title"`
	Description            string         `json:"description"`
	Difficulty             string         `json:"difficulty"`
	TaskType               string         `json:"task_type"`
	UserID                 string         `json:"user_id"`
	CreatedAt              wireTime       `json:"created_at"`
	UpdatedAt              wireTime       `json:"updated_at"`
	Tags                   []tagDTO       `json:"tags"`
	FrequencyType          string         `json:"frequency_type"`
	FrequencyTargetTimes   domain.Numeric `json:"frequency_target_times"`
	FrequencyDays          []int          `json:"frequency_days"`
	CurrentStreak          domain.Numeric `json:"current_streak"`
	BestStreak             domain.Numeric `json:"best_streak"`
	TimesCompletedThisWeek domain.Numeric `json:"times_completed_this_week"`
	LastCompletedAt        wireTime       `json:"last_completed_at"`
	Deadline               wireTime       `json:"deadline"`
	CompletedAt            wireTime       `json:"completed_at"`
	Completed              bool           `json:"completed"`
}

func (d taskDTO) base(naive *time.Location) (domain.TaskBase, error) {
	created, err := d.CreatedAt.value(naive)
	if err != nil {
		return domain.TaskBase{}, fmt.Errorf("created_at: %w", err)
	}
	updated, err := d.UpdatedAt.parse(naive)
	if err != nil {
		return domain.TaskBase{}, fmt.Errorf("updated_at: %w", err)
	}
	tags := make([]domain.Tag, 0, len(d.Tags))
	for _, t := range d.Tags {
		tag, err := t.toDomain(naive)
		if err != nil {
			return domain.TaskBase{}, err
		}
		tags = append(tags, tag)
	}
	return domain.TaskBase{
		CreatedAt:   created,
		UpdatedAt:   updated,
		Tags:        tags,
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Difficulty:  domain.Difficulty(strings.ToUpper(d.Difficulty)),
		UserID:      d.UserID,
		Completed:   d.Completed,
	}, nil
}

func (d taskDTO) habit(naive *time.Location) (domain.Habit, error) {
	base, err := d.base(naive)
	if err != nil {
		return domain.Habit{}, err
	}
	last, err := d.LastCompletedAt.parse(naive)
	if err != nil {
		return domain.Habit{}, fmt.Errorf("last_completed_at: %w", err)
	}
	return domain.Habit{
		TaskBase:               base,
		LastCompletedAt:        last,
		FrequencyDays:          d.FrequencyDays,
		FrequencyType:          domain.FrequencyType(strings.ToUpper(d.FrequencyType)),
		FrequencyTargetTimes:   d.FrequencyTargetTimes.IntOr(0),
		CurrentStreak:          max(d.CurrentStreak.IntOr(0), 0),
		BestStreak:             max(d.BestStreak.IntOr(0), 0),
		TimesCompletedThisWeek: max(d.TimesCompletedThisWeek.IntOr(0), 0),
	}, nil
}

func (d taskDTO) todo(naive *time.Location) (domain.Todo, error) {
	base, err := d.base(naive)
	if err != nil {
		return domain.Todo{}, err
	}
	deadline, err := d.Deadline.parse(naive)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("deadline: %w", err)
	}
	completedAt, err := d.CompletedAt.parse(naive)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("completed_at: %w", err)
	}
	return domain.Todo{
		TaskBase:    base,
		Deadline:    deadline,
		CompletedAt: completedAt,
	}, nil
}

// toDomain converts by discriminant.
func (d taskDTO) toDomain(naive *time.Location) (domain.Task, error) {
	switch domain.TaskType(strings.ToLower(d.TaskType)) {
	case domain.TaskTypeHabit:
		return d.habit(naive)
	case domain.TaskTypeTodo:
		return d.todo(naive)
	}
	return nil, fmt.Errorf("task %s: %w %q", d.ID, errUnknownTaskType, d.TaskType)
}

type tagDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	UserID    string   `json:"user_id"`
	CreatedAt wireTime `json:"created_at"`
}

func (d tagDTO) toDomain(naive *time.Location) (domain.Tag, error) {
	created, err := d.CreatedAt.value(naive)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("tag %s created_at: %w", d.ID, err)
	}
	return domain.Tag{
		CreatedAt: created,
		ID:        d.ID,
		Name:      d.Name,
		Color:     d.Color,
		UserID:    d.UserID,
	}, nil
}

type completionDTO struct {
	ID          string         `json:"id"`
	TaskID      string         `json:"task_id"`
	UserID      string         `json:"user_id"`
	CompletedAt wireTime       `json:"completed_at"`
	XPEarned    domain.Numeric `json:"xp_earned"`
}

type streakDTO struct {
	CurrentStreak   domain.Numeric `json:"current_streak"`
	BestStreak      domain.Numeric `json:"best_streak"`
	LastCompletedAt wireTime       `json:"last_completed_at"`
}

type completeResponseDTO struct {
	User           *domain.UserSnapshot `json:"user"`
	StreakInfo     *streakDTO           `json:"streak_info"`
	Message        string               `json:"message"`
	PreviousLevel  domain.Numeric       `json:"previous_level"`
	TaskCompletion completionDTO        `json:"task_completion"`
	LevelUp        bool                 `json:"level_up"`
}

func (d completeResponseDTO) toDomain(naive *time.Location) (domain.CompleteResponse, error) {
	completedAt, err := d.TaskCompletion.CompletedAt.value(naive)
	if err != nil {
		return domain.CompleteResponse{}, fmt.Errorf("task_completion.completed_at: %w", err)
	}
	resp := domain.CompleteResponse{
		User:          d.User,
		Message:       d.Message,
		PreviousLevel: d.PreviousLevel,
		LevelUp:       d.LevelUp,
		Completion: domain.TaskCompletion{
			CompletedAt: completedAt,
			ID:          d.TaskCompletion.ID,
			TaskID:      d.TaskCompletion.TaskID,
			UserID:      d.TaskCompletion.UserID,
			XPEarned:    max(d.TaskCompletion.XPEarned.IntOr(0), 0),
		},
	}
	if d.StreakInfo != nil {
		last, err := d.StreakInfo.LastCompletedAt.parse(naive)
		if err != nil {
			return domain.CompleteResponse{}, fmt.Errorf("streak_info.last_completed_at: %w", err)
		}
		resp.Streak = &domain.StreakInfo{
			LastCompletedAt: last,
			CurrentStreak:   max(d.StreakInfo.CurrentStreak.IntOr(0), 0),
			BestStreak:      max(d.StreakInfo.BestStreak.IntOr(0), 0),
		}
	}
	return resp, nil
}

type uncompleteResponseDTO struct {
	Message   string         `json:"message"`
	XPRemoved domain.Numeric `json:"xp_removed"`
}

type historyEntryDTO struct {
	Date           string         `json:"date"`
	TasksCompleted domain.Numeric `json:"tasks_completed"`
	XPEarned       domain.Numeric `json:"xp_earned"`
}

type historyDTO struct {
	Entries   []historyEntryDTO `json:"entries"`
	TotalDays domain.Numeric    `json:"total_days"`
}

type dashboardDTO struct {
	TotalXP                domain.Numeric `json:"total_xp"`
	CurrentLevel           domain.Numeric `json:"current_level"`
	TotalTasksCompleted    domain.Numeric `json:"total_tasks_completed"`
	CurrentStreak          domain.Numeric `json:"current_streak"`
	TasksCompletedToday    domain.Numeric `json:"tasks_completed_today"`
	TasksCompletedThisWeek domain.Numeric `json:"tasks_completed_this_week"`
	TasksCompletedMonth    domain.Numeric `json:"tasks_completed_this_month"`
}

func (d dashboardDTO) toDomain() domain.DashboardStats {
	return domain.DashboardStats{
		TotalXP:                d.TotalXP.IntOr(0),
		CurrentLevel:           d.CurrentLevel.IntOr(1),
		TotalTasksCompleted:    d.TotalTasksCompleted.IntOr(0),
		CurrentStreak:          d.CurrentStreak.IntOr(0),
		TasksCompletedToday:    d.TasksCompletedToday.IntOr(0),
		TasksCompletedThisWeek: d.TasksCompletedThisWeek.IntOr(0),
		TasksCompletedMonth:    d.TasksCompletedMonth.IntOr(0),
	}
}

type achievementDTO struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
	UnlockedAt  wireTime       `json:"unlocked_at"`
	Progress    domain.Numeric `json:"progress"`
	Target      domain.Numeric `json:"target"`
}

func (d achievementDTO) toDomain(naive *time.Location) (domain.Achievement, error) {
	unlocked, err := d.UnlockedAt.parse(naive)
	if err != nil {
		return domain.Achievement{}, fmt.Errorf("achievement %s unlocked_at: %w", d.ID, err)
	}
	return domain.Achievement{
		UnlockedAt:  unlocked,
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Icon:        d.Icon,
		Progress:    d.Progress.IntOr(0),
		Target:      d.Target.IntOr(0),
	}, nil
}

// habitRequest is the body of POST /tasks/habits/.
type habitRequest struct {
	FrequencyTargetTimes *int   `json:"frequency_target_times,omitempty"`
	FrequencyDays        []int  `json:"frequency_days,omitempty"`
	Title                string `json:"title"`
	Description          string `json:"description,omitempty"`
	Difficulty           string `json:"difficulty"`
	FrequencyType        string `json:"frequency_type"`
}

func newHabitRequest(d domain.HabitDraft) habitRequest {
	req := habitRequest{
		Title:         d.Title,
		Description:   d.Description,
		Difficulty:    string(d.Difficulty),
		FrequencyType: string(d.FrequencyType),
	}
	switch d.FrequencyType {
	case domain.FrequencyWeeklyTimes:
		target := d.FrequencyTargetTimes
		req.FrequencyTargetTimes = &target
	case domain.FrequencySpecificDays:
		req.FrequencyDays = d.FrequencyDays
	}
	return req
}

// todoRequest is the body of POST /tasks/todos/.
type todoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Difficulty  string `json:"difficulty"`
	Deadline    string `json:"deadline,omitempty"`
}

func newTodoRequest(d domain.TodoDraft, naive *time.Location) todoRequest {
	req := todoRequest{
		Title:       d.Title,
		Description: d.Description,
		Difficulty:  string(d.Difficulty),
	}
	if d.Deadline != nil {
		req.Deadline = formatDeadline(*d.Deadline, naive)
	}
	return req
}

// formatDeadline renders a deadline the way the backend stores it: naive,
// in the configured zone.
func formatDeadline(t time.Time, naive *time.Location) string {
	return t.In(naive).Format(naiveWireLayout)
}

// habitPatchBody renders only the fields a patch sets.
func habitPatchBody(p domain.HabitPatch) map[string]any {
	body := map[string]any{}
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.Difficulty != nil {
		body["difficulty"] = string(*p.Difficulty)
	}
	if p.FrequencyType != nil {
		body["frequency_type"] = string(*p.FrequencyType)
	}
	if p.FrequencyTargetTimes != nil {
		body["frequency_target_times"] = *p.FrequencyTargetTimes
	}
	if p.FrequencyDays != nil {
		body["frequency_days"] = domain.NormalizeDays(p.FrequencyDays)
	}
	return body
}

// todoPatchBody renders only the fields a patch sets.
func todoPatchBody(p domain.TodoPatch, naive *time.Location) map[string]any {
	body := map[string]any{}
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.Difficulty != nil {
		body["difficulty"] = string(*p.Difficulty)
	}
	if p.Deadline != nil {
		body["deadline"] = formatDeadline(*p.Deadline, naive)
	}
	return body
}

type tagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type tagUpdateRequest struct {
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}
