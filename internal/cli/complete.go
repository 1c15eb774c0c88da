package cli

import (
	"fmt"

	"github.com/dailyquest/dq/internal/app"
	"github.com/dailyquest/dq/internal/usecase"
	"github.com/spf13/cobra"
)

// newDoneCommand creates the done command for completing a task.
func newDoneCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a task and collect XP",
		Long: `Complete a habit for today or a todo for good.

XP, level-ups and streak milestones are announced in that order. Completing
a habit that the backend already counts as done today is reported as a
notice and exits with status 3.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.CompleteTaskUseCase().Execute(cmd.Context(), usecase.CompleteTaskInput{Ref: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			base := out.Task.Common()
			_, _ = fmt.Fprintf(w, "Completed %s %s: %s\n", out.Task.Type(), shortID(base.ID), base.Title)
			writeEffects(w, out.Effects)
			if out.CoinsGained > 0 {
				_, _ = fmt.Fprintf(w, "  +%d coins\n", out.CoinsGained)
			}
			if out.UserFresh {
				writeUserLine(w, out.User)
			}
			return nil
		},
	}
}

// newUndoCommand creates the undo command for reverting today's completion.
func newUndoCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <id>",
		Short: "Revert today's completion of a habit",
		Long: `Revert today's completion of a habit and give back its XP.

Completed todos cannot be reverted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.UncompleteTaskUseCase().Execute(cmd.Context(), usecase.UncompleteTaskInput{Ref: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			base := out.Task.Common()
			_, _ = fmt.Fprintf(w, "Reverted %s %s: %s\n", out.Task.Type(), shortID(base.ID), base.Title)
			if out.XPRemoved > 0 {
				_, _ = fmt.Fprintf(w, "  -%d XP\n", out.XPRemoved)
			}
			if out.User != nil {
				writeUserLine(w, *out.User)
			}
			return nil
		},
	}
}
