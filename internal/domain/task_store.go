package domain

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// TaskStore is the in-memory task list for a session. It is rebuilt from
// each authoritative fetch and patched after successful mutations in between.
// Order is insertion order.
type TaskStore struct {
	tasks []Task
	mu    sync.RWMutex
}

// NewTaskStore creates a store holding tasks.
func NewTaskStore(tasks ...Task) *TaskStore {
	return &TaskStore{tasks: slices.Clone(tasks)}
}

// List returns a snapshot of all tasks.
func (s *TaskStore) List() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// ReplaceAll swaps in a freshly fetched list, discarding local patches.
func (s *TaskStore) ReplaceAll(tasks []Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = slices.Clone(tasks)
}

// Get returns the task with the given ID.
func (s *TaskStore) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return nil, false
}

// Resolve finds a task by full ID or unique ID prefix.
func (s *TaskStore) Resolve(ref string) (Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrTaskNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(ref); i >= 0 {
		return s.tasks[i], nil
	}
	var found Task
	for _, t := range s.tasks {
		if !strings.HasPrefix(t.Common().ID, ref) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %q matches more than one task", ErrAmbiguousTaskID, ref)
		}
		found = t
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
	}
	return found, nil
}

// Add appends a newly created task.
func (s *TaskStore) Add(t Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
}

// Replace swaps the task with the same ID in place. It returns false if
// no such task exists.
func (s *TaskStore) Replace(t Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(t.Common().ID)
	if i < 0 {
		return false
	}
	s.tasks[i] = t
	return true
}

// Remove drops a task. It returns false if no such task exists.
func (s *TaskStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return true
}

// RetagAll rewrites tag tagID on every stored task: with replacement when
// it is non-nil, or drops it otherwise. It returns the number of tasks touched.
func (s *TaskStore) RetagAll(tagID string, replacement *Tag) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i, t := range s.tasks {
		tags := t.Common().Tags
		j := slices.IndexFunc(tags, func(tag Tag) bool { return tag.ID == tagID })
		if j < 0 {
			continue
		}
		tags = slices.Clone(tags)
		if replacement != nil {
			tags[j] = *replacement
		} else {
			tags = slices.Delete(tags, j, j+1)
		}
		s.tasks[i] = WithTags(t, tags)
		n++
	}
	return n
}

// ApplyCompletion patches a task after a successful completion response.
// Habits get LastCompletedAt set to now and the streak from the response
// when present. Todos become completed for good.
func (s *TaskStore) ApplyCompletion(id string, resp CompleteResponse, now time.Time) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	var patched Task
	switch task := s.tasks[i].(type) {
	case Habit:
		completedAt := now
		task.LastCompletedAt = &completedAt
		if resp.Streak != nil {
			task.CurrentStreak = resp.Streak.CurrentStreak
			task.BestStreak = max(task.BestStreak, resp.Streak.BestStreak, resp.Streak.CurrentStreak)
		}
		task.TimesCompletedThisWeek++
		patched = task
	case Todo:
		completedAt := now
		task.Completed = true
		if task.CompletedAt == nil {
			task.CompletedAt = &completedAt
		}
		patched = task
	default:
		return nil, fmt.Errorf("apply completion: unsupported task type %T", task)
	}

	s.tasks[i] = patched
	return patched, nil
}

// ApplyUncompletion reverts a habit's completion for today: it clears
// LastCompletedAt and lowers the streak by one, never below zero.
// Todos cannot be un-completed.
func (s *TaskStore) ApplyUncompletion(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	switch task := s.tasks[i].(type) {
	case Habit:
		task.LastCompletedAt = nil
		task.CurrentStreak = max(0, task.CurrentStreak-1)
		task.TimesCompletedThisWeek = max(0, task.TimesCompletedThisWeek-1)
		s.tasks[i] = task
		return task, nil
	case Todo:
		return nil, NewIllegalOperationError("a completed todo cannot be un-completed")
	default:
		return nil, fmt.Errorf("apply uncompletion: unsupported task type %T", task)
	}
}

// Filter returns the tasks matching f, using view for completion status.
// The underlying list is not modified.
func (s *TaskStore) Filter(f TaskFilter, view CompletionView) []Task {
	s.mu.RLock()
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Match(t, view) {
			out = append(out, t)
		}
	}
	s.mu.RUnlock()

	SortTasks(out, f.Sort, f.Descending)
	return out
}

// index must be called with the lock held.
func (s *TaskStore) index(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool {
		return t.Common().ID == id
	})
}
