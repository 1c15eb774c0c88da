package usecase

import (
	"context"
	"fmt"

	"github.com/dailyquest/dq/internal/domain"
)

// ImportTasksInput contains the parameters for importing a task file.
type ImportTasksInput struct {
	Content []byte // YAML task file
	DryRun  bool   // If true, parse and validate without creating tasks
}

// ImportedTask is a task that was created, or would be created in dry-run mode.
// Fields are ordered to minimize memory padding.
type ImportedTask struct {
	ID         string // Empty in dry-run mode
	Title      string
	Type       domain.TaskType
	Difficulty domain.Difficulty
	XPPreview  int
}

// ImportTasksOutput contains the result of an import.
type ImportTasksOutput struct {
	Tasks   []ImportedTask
	TotalXP int // Sum of the XP previews
}

// ImportTasks is the use case for creating tasks from a YAML file.
type ImportTasks struct {
	backend domain.TaskBackend
	store   *domain.TaskStore
	clock   domain.Clock
	logger  domain.Logger
}

// NewImportTasks creates a new ImportTasks use case.
func NewImportTasks(backend domain.TaskBackend, store *domain.TaskStore, clock domain.Clock, logger domain.Logger) *ImportTasks {
	return &ImportTasks{
		backend: backend,
		store:   store,
		clock:   clock,
		logger:  logger,
	}
}

// Execute validates every draft before the first request, then creates
// habits followed by todos. A failure part way leaves the earlier tasks created.
func (uc *ImportTasks) Execute(ctx context.Context, in ImportTasksInput) (*ImportTasksOutput, error) {
	habits, todos, err := domain.ParseTaskFile(in.Content)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	for i, d := range habits {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("habit %d (%s): %w", i+1, d.Title, err)
		}
	}
	for i, d := range todos {
		if err := d.Validate(now); err != nil {
			return nil, fmt.Errorf("todo %d (%s): %w", i+1, d.Title, err)
		}
	}

	out := &ImportTasksOutput{Tasks: make([]ImportedTask, 0, len(habits)+len(todos))}
	add := func(t ImportedTask) {
		out.Tasks = append(out.Tasks, t)
		out.TotalXP += t.XPPreview
	}

	if in.DryRun {
		for _, d := range habits {
			add(ImportedTask{Title: d.Title, Type: domain.TaskTypeHabit, Difficulty: d.Difficulty, XPPreview: d.Difficulty.XP()})
		}
		for _, d := range todos {
			add(ImportedTask{Title: d.Title, Type: domain.TaskTypeTodo, Difficulty: d.Difficulty, XPPreview: d.Difficulty.XP()})
		}
		return out, nil
	}

	for _, d := range habits {
		h, err := uc.backend.CreateHabit(ctx, d)
		if err != nil {
			return out, fmt.Errorf("create habit %q: %w", d.Title, err)
		}
		uc.store.Add(h)
		add(ImportedTask{ID: h.ID, Title: h.Title, Type: domain.TaskTypeHabit, Difficulty: h.Difficulty, XPPreview: domain.PreviewXP(h)})
	}
	for _, d := range todos {
		t, err := uc.backend.CreateTodo(ctx, d)
		if err != nil {
			return out, fmt.Errorf("create todo %q: %w", d.Title, err)
		}
		uc.store.Add(t)
		add(ImportedTask{ID: t.ID, Title: t.Title, Type: domain.TaskTypeTodo, Difficulty: t.Difficulty, XPPreview: domain.PreviewXP(t)})
	}

	if uc.logger != nil {
		uc.logger.Info("", "import", fmt.Sprintf("imported %d tasks", len(out.Tasks)))
	}
	return out, nil
}
