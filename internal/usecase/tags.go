package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/usecase/shared"
)

// ListTagsInput contains the parameters for listing tags.
type ListTagsInput struct{}

// ListTagsOutput contains the user's tags.
type ListTagsOutput struct {
	Tags []domain.Tag
}

// ListTags is the use case for listing tags.
type ListTags struct {
	tags domain.TagBackend
}

// NewListTags creates a new ListTags use case.
func NewListTags(tags domain.TagBackend) *ListTags {
	return &ListTags{tags: tags}
}

// Execute fetches the tags.
func (uc *ListTags) Execute(ctx context.Context, _ ListTagsInput) (*ListTagsOutput, error) {
	tags, err := uc.tags.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return &ListTagsOutput{Tags: tags}, nil
}

// CreateTagInput contains the fields for a new tag.
type CreateTagInput struct {
	Name  string
	Color string // Hex color (empty = default)
}

// CreateTagOutput contains the created tag.
type CreateTagOutput struct {
	Tag domain.Tag
}

// CreateTag is the use case for creating a tag.
type CreateTag struct {
	tags domain.TagBackend
}

// NewCreateTag creates a new CreateTag use case.
func NewCreateTag(tags domain.TagBackend) *CreateTag {
	return &CreateTag{tags: tags}
}

// Execute validates and creates the tag.
func (uc *CreateTag) Execute(ctx context.Context, in CreateTagInput) (*CreateTagOutput, error) {
	name := strings.TrimSpace(in.Name)
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = domain.DefaultTagColor
	}
	if err := domain.ValidateTag(name, color); err != nil {
		return nil, err
	}

	tag, err := uc.tags.CreateTag(ctx, name, color)
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &CreateTagOutput{Tag: tag}, nil
}

// UpdateTagInput contains the tag to edit and its new fields.
type UpdateTagInput struct {
	TagRef string // Tag ID or name
	Name   string // New name (empty = unchanged)
	Color  string // New hex color (empty = unchanged)
}

// UpdateTagOutput contains the edited tag.
type UpdateTagOutput struct {
	Tag domain.Tag
}

// UpdateTag is the use case for renaming or recoloring a tag.
type UpdateTag struct {
	tags  domain.TagBackend
	store *domain.TaskStore
}

// NewUpdateTag creates a new UpdateTag use case.
func NewUpdateTag(tags domain.TagBackend, store *domain.TaskStore) *UpdateTag {
	return &UpdateTag{tags: tags, store: store}
}

// Execute validates the merged tag, updates the backend and patches every
// stored task carrying it.
func (uc *UpdateTag) Execute(ctx context.Context, in UpdateTagInput) (*UpdateTagOutput, error) {
	name := strings.TrimSpace(in.Name)
	color := strings.TrimSpace(in.Color)
	if name == "" && color == "" {
		return nil, domain.NewValidationError("tag", "nothing to update: set a name or a color")
	}
	tag, err := resolveTag(ctx, uc.tags, in.TagRef)
	if err != nil {
		return nil, err
	}

	merged := tag
	if name != "" {
		merged.Name = name
	}
	if color != "" {
		merged.Color = color
	}
	if err := domain.ValidateTag(merged.Name, merged.Color); err != nil {
		return nil, err
	}

	updated, err := uc.tags.UpdateTag(ctx, tag.ID, name, color)
	if err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}
	uc.store.RetagAll(tag.ID, &updated)
	return &UpdateTagOutput{Tag: updated}, nil
}

// DeleteTagInput contains the tag to delete.
type DeleteTagInput struct {
	TagRef string // Tag ID or name
}

// DeleteTagOutput contains the deleted tag and how many stored tasks lost it.
type DeleteTagOutput struct {
	Tag      domain.Tag
	Untagged int
}

// DeleteTag is the use case for deleting a tag.
type DeleteTag struct {
	tags  domain.TagBackend
	store *domain.TaskStore
}

// NewDeleteTag creates a new DeleteTag use case.
func NewDeleteTag(tags domain.TagBackend, store *domain.TaskStore) *DeleteTag {
	return &DeleteTag{tags: tags, store: store}
}

// Execute deletes the tag and strips it from the stored tasks.
func (uc *DeleteTag) Execute(ctx context.Context, in DeleteTagInput) (*DeleteTagOutput, error) {
	tag, err := resolveTag(ctx, uc.tags, in.TagRef)
	if err != nil {
		return nil, err
	}
	if err := uc.tags.DeleteTag(ctx, tag.ID); err != nil {
		return nil, fmt.Errorf("delete tag: %w", err)
	}
	n := uc.store.RetagAll(tag.ID, nil)
	return &DeleteTagOutput{Tag: tag, Untagged: n}, nil
}

// TagTaskInput contains the parameters for attaching or detaching a tag.
type TagTaskInput struct {
	TaskRef string // Full task ID or unique prefix
	TagRef  string // Tag ID or name
	Detach  bool
}

// TagTaskOutput contains the task with its new tag list.
type TagTaskOutput struct {
	Task domain.Task
	Tag  domain.Tag
}

// TagTask is the use case for attaching a tag to a task or detaching it.
type TagTask struct {
	backend domain.TaskBackend
	tags    domain.TagBackend
	store   *domain.TaskStore
}

// NewTagTask creates a new TagTask use case.
func NewTagTask(backend domain.TaskBackend, tags domain.TagBackend, store *domain.TaskStore) *TagTask {
	return &TagTask{backend: backend, tags: tags, store: store}
}

// Execute resolves both references, updates the backend and patches the
// stored task's tag list.
func (uc *TagTask) Execute(ctx context.Context, in TagTaskInput) (*TagTaskOutput, error) {
	task, err := shared.GetTask(ctx, uc.backend, uc.store, in.TaskRef)
	if err != nil {
		return nil, err
	}
	tag, err := resolveTag(ctx, uc.tags, in.TagRef)
	if err != nil {
		return nil, err
	}
	id := task.Common().ID

	tags := slices.DeleteFunc(slices.Clone(task.Common().Tags), func(t domain.Tag) bool { return t.ID == tag.ID })
	if in.Detach {
		err = uc.tags.DetachTag(ctx, id, tag.ID)
	} else {
		err = uc.tags.AttachTag(ctx, id, tag.ID)
		tags = append(tags, tag)
	}
	if err != nil {
		return nil, fmt.Errorf("tag task: %w", err)
	}

	patched := domain.WithTags(task, tags)
	uc.store.Replace(patched)
	return &TagTaskOutput{Task: patched, Tag: tag}, nil
}

// TasksByTagInput contains the parameters for listing a tag's tasks.
type TasksByTagInput struct {
	TagRef string // Tag ID or name
}

// TasksByTagOutput contains the tag and its tasks.
type TasksByTagOutput struct {
	Tasks []domain.Task
	Tag   domain.Tag
}

// TasksByTag is the use case for listing the tasks carrying a tag.
type TasksByTag struct {
	tags domain.TagBackend
}

// NewTasksByTag creates a new TasksByTag use case.
func NewTasksByTag(tags domain.TagBackend) *TasksByTag {
	return &TasksByTag{tags: tags}
}

// Execute resolves the tag and fetches its tasks.
func (uc *TasksByTag) Execute(ctx context.Context, in TasksByTagInput) (*TasksByTagOutput, error) {
	tag, err := resolveTag(ctx, uc.tags, in.TagRef)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.tags.TasksByTag(ctx, tag.ID)
	if err != nil {
		return nil, fmt.Errorf("tasks by tag: %w", err)
	}
	return &TasksByTagOutput{Tasks: tasks, Tag: tag}, nil
}

func resolveTag(ctx context.Context, backend domain.TagBackend, ref string) (domain.Tag, error) {
	tags, err := backend.ListTags(ctx)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("list tags: %w", err)
	}
	tag, ok := domain.FindTag(tags, ref)
	if !ok {
		return domain.Tag{}, &domain.Error{Kind: domain.KindNotFound, Field: "tag", Message: fmt.Sprintf("no tag named %q", ref)}
	}
	return tag, nil
}
