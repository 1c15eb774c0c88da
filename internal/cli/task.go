package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dailyquest/dq/internal/app"
	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/usecase"
	"github.com/spf13/cobra"
)

// listOptions holds the flags of the list command.
type listOptions struct {
	Type         string
	Search       string
	Status       string
	Sort         string
	Difficulties []string
	Tags         []string
	Due          bool
	Desc         bool
	JSON         bool
	Refresh      bool
}

// filter converts the flags into a task filter.
func (o listOptions) filter() (domain.TaskFilter, error) {
	var f domain.TaskFilter
	var err error
	if f.Tab, err = domain.ParseTaskTab(o.Type); err != nil {
		return f, err
	}
	if f.Status, err = domain.ParseCompletionStatus(o.Status); err != nil {
		return f, err
	}
	if f.Sort, err = domain.ParseSortField(o.Sort); err != nil {
		return f, err
	}
	for _, s := range o.Difficulties {
		d, err := domain.ParseDifficulty(s)
		if err != nil {
			return f, err
		}
		f.Difficulties = append(f.Difficulties, d)
	}
	f.Tags = o.Tags
	f.Search = o.Search
	f.Descending = o.Desc
	return f, nil
}

// newListCommand creates the list command for listing tasks.
func newListCommand(c *app.Container) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List habits and todos with their completion state for today.

Completion state combines the backend's data with the completions recorded
locally today, so a habit you just completed stays checked even if the
backend has not caught up yet.

Examples:
  # List everything
  dq list

  # What is left for today
  dq list --due --status pending

  # Hard habits tagged "health", sorted by title
  dq list --type habits --difficulty hard --tag health --sort title

  # Machine-readable output
  dq list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := opts.filter()
			if err != nil {
				return err
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{
				Filter:   filter,
				DueToday: opts.Due,
				Refresh:  opts.Refresh,
			})
			if err != nil {
				return err
			}

			if opts.JSON {
				return writeTasksJSON(cmd.OutOrStdout(), out.Tasks)
			}
			writeTaskTable(cmd.OutOrStdout(), out.Tasks, out.Now)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "Task type: habits or todos")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "Search title and description")
	cmd.Flags().StringSliceVarP(&opts.Difficulties, "difficulty", "d", nil, "Difficulty filter (easy, medium, hard; repeatable)")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "Tag filter by name or ID (repeatable)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Completion status: all, completed or pending")
	cmd.Flags().BoolVar(&opts.Due, "due", false, "Only tasks due today")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort by created_at, title, difficulty or deadline")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "Sort in descending order")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "Resync from the backend first")

	return cmd
}

// taskJSON is the JSON shape of a listed task.
type taskJSON struct {
	Task      domain.Task `json:"task"`
	Completed bool        `json:"completed"`
}

func writeTasksJSON(w io.Writer, views []usecase.TaskView) error {
	items := make([]taskJSON, 0, len(views))
	for _, v := range views {
		items = append(items, taskJSON{Task: v.Task, Completed: v.Completed})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	return nil
}

// newShowCommand creates the show command for displaying a task.
func newShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Long: `Show a task with its schedule, streak and completion state.

The ID may be a unique prefix of the task ID.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{Ref: args[0]})
			if err != nil {
				return err
			}
			writeTaskDetail(cmd.OutOrStdout(), out, c.Clock.Now())
			return nil
		},
	}
}

// newRmCommand creates the rm command for deleting a task.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{Ref: args[0]})
			if err != nil {
				return err
			}
			base := out.Task.Common()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s: %s\n", out.Task.Type(), shortID(base.ID), base.Title)
			return nil
		},
	}
}
