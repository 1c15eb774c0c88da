package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dailyquest/dq/internal/app"
	"github.com/dailyquest/dq/internal/usecase"
	"github.com/spf13/cobra"
)

// newTagCommand creates the tag command group.
func newTagCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
		Long: `Manage tags and attach them to tasks.

Tags are referenced by name (case-insensitive) or ID.`,
	}
	cmd.AddCommand(
		newTagListCommand(c),
		newTagCreateCommand(c),
		newTagEditCommand(c),
		newTagRemoveCommand(c),
		newTagAttachCommand(c, false),
		newTagAttachCommand(c, true),
		newTagTasksCommand(c),
	)
	return cmd
}

func newTagListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tags",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListTagsUseCase().Execute(cmd.Context(), usecase.ListTagsInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Tags) == 0 {
				_, _ = fmt.Fprintln(w, "No tags found.")
				return nil
			}
			tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tCOLOR\tNAME")
			for _, t := range out.Tags {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", shortID(t.ID), t.Color, t.Name)
			}
			return tw.Flush()
		},
	}
}

func newTagCreateCommand(c *app.Container) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.CreateTagUseCase().Execute(cmd.Context(), usecase.CreateTagInput{Name: args[0], Color: color})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created tag %s (%s)\n", out.Tag.Name, out.Tag.Color)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Hex color such as #3b82f6 (default #ef4444)")

	return cmd
}

func newTagEditCommand(c *app.Container) *cobra.Command {
	var name, color string

	cmd := &cobra.Command{
		Use:   "edit <tag>",
		Short: "Rename or recolor a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.UpdateTagUseCase().Execute(cmd.Context(), usecase.UpdateTagInput{
				TagRef: args[0],
				Name:   name,
				Color:  color,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated tag %s (%s)\n", out.Tag.Name, out.Tag.Color)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New tag name")
	cmd.Flags().StringVar(&color, "color", "", "New hex color such as #3b82f6")

	return cmd
}

func newTagRemoveCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <tag>",
		Aliases: []string{"delete"},
		Short:   "Delete a tag",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteTagUseCase().Execute(cmd.Context(), usecase.DeleteTagInput{TagRef: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %s\n", out.Tag.Name)
			return nil
		},
	}
}

// newTagAttachCommand creates the attach command, or detach when detach is true.
func newTagAttachCommand(c *app.Container, detach bool) *cobra.Command {
	use, short, verb := "attach <task-id> <tag>", "Attach a tag to a task", "Tagged"
	if detach {
		use, short, verb = "detach <task-id> <tag>", "Detach a tag from a task", "Untagged"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.TagTaskUseCase().Execute(cmd.Context(), usecase.TagTaskInput{
				TaskRef: args[0],
				TagRef:  args[1],
				Detach:  detach,
			})
			if err != nil {
				return err
			}
			base := out.Task.Common()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s with %s\n", verb, base.Title, out.Tag.Name)
			return nil
		},
	}
}

func newTagTasksCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks <tag>",
		Short: "List the tasks carrying a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.TasksByTagUseCase().Execute(cmd.Context(), usecase.TasksByTagInput{TagRef: args[0]})
			if err != nil {
				return err
			}

			now := c.Clock.Now()
			views := make([]usecase.TaskView, 0, len(out.Tasks))
			for _, t := range out.Tasks {
				views = append(views, usecase.TaskView{Task: t, Completed: c.Reconciler.IsCompleted(t, now)})
			}
			writeTaskTable(cmd.OutOrStdout(), views, now)
			return nil
		},
	}
}
