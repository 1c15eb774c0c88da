package domain

import (
	"fmt"
	"time"
)

// OverrideKeyPrefix prefixes the per-day keys of the completion override cache.
const OverrideKeyPrefix = "habit_completions_"

// OverrideKey returns the cache key for a calendar date.
func OverrideKey(date string) string {
	return OverrideKeyPrefix + date
}

// Reconciler decides whether a task is completed for the current period.
// The backend may not reflect a completion in the next list fetch, so a
// local per-day override set of habit IDs takes precedence over
// LastCompletedAt.
type Reconciler struct {
	overrides CompletionOverrides
}

// NewReconciler creates a Reconciler backed by the given override cache.
// A nil cache disables overrides.
func NewReconciler(overrides CompletionOverrides) *Reconciler {
	return &Reconciler{overrides: overrides}
}

// CompletionView answers completion queries for one reference time,
// with today's override set loaded once.
type CompletionView struct {
	now        time.Time
	overridden map[string]struct{}
}

// NewCompletionView builds a view from an explicit override set.
func NewCompletionView(now time.Time, overridden []string) CompletionView {
	v := CompletionView{now: now, overridden: make(map[string]struct{}, len(overridden))}
	for _, id := range overridden {
		v.overridden[id] = struct{}{}
	}
	return v
}

// Now returns the view's reference time.
func (v CompletionView) Now() time.Time { return v.now }

// IsCompleted applies, in order: a todo's own flag; today's override set;
// a last completion on the same calendar day; otherwise false.
func (v CompletionView) IsCompleted(t Task) bool {
	switch task := t.(type) {
	case Todo:
		return task.Completed
	case Habit:
		if _, ok := v.overridden[task.ID]; ok {
			return true
		}
		return IsCompletedToday(task, v.now)
	}
	return false
}

// View loads today's override set. If the cache cannot be read, the
// returned view still answers from backend data and the error is returned
// for the caller to log.
func (r *Reconciler) View(now time.Time) (CompletionView, error) {
	if r == nil || r.overrides == nil {
		return NewCompletionView(now, nil), nil
	}
	ids, err := r.overrides.Get(DateKey(now))
	if err != nil {
		return NewCompletionView(now, nil), fmt.Errorf("read completion overrides: %w", err)
	}
	return NewCompletionView(now, ids), nil
}

// IsCompleted reconciles a single task at now.
func (r *Reconciler) IsCompleted(t Task, now time.Time) bool {
	view, _ := r.View(now)
	return view.IsCompleted(t)
}

// MarkCompleted records a successful habit completion in today's override
// set. Recording the same ID twice is a no-op.
func (r *Reconciler) MarkCompleted(taskID string, now time.Time) error {
	if r == nil || r.overrides == nil {
		return nil
	}
	if err := r.overrides.Add(DateKey(now), taskID); err != nil {
		return fmt.Errorf("record completion override: %w", err)
	}
	return nil
}

// MarkUncompleted drops the habit from today's override set.
func (r *Reconciler) MarkUncompleted(taskID string, now time.Time) error {
	if r == nil || r.overrides == nil {
		return nil
	}
	if err := r.overrides.Remove(DateKey(now), taskID); err != nil {
		return fmt.Errorf("remove completion override: %w", err)
	}
	return nil
}
