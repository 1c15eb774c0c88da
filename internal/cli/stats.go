package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dailyquest/dq/internal/app"
	"github.com/dailyquest/dq/internal/usecase"
	"github.com/spf13/cobra"
)

// newHistoryCommand creates the history command.
func newHistoryCommand(c *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show completions per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListHistoryUseCase().Execute(cmd.Context(), usecase.ListHistoryInput{Limit: limit})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Entries) == 0 {
				_, _ = fmt.Fprintln(w, "No completions yet.")
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(tw, "DATE\tTASKS\tXP")
			for _, e := range out.Entries {
				_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\n", e.CompletedDate, e.TasksCompleted, e.XPEarned)
			}
			_ = tw.Flush()
			_, _ = fmt.Fprintf(w, "\nTotal: %d XP\n", out.TotalXP)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the most recent N days (0 = all)")

	return cmd
}

// newAchievementsCommand creates the achievements command.
func newAchievementsCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "Show achievements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListAchievementsUseCase().Execute(cmd.Context(), usecase.ListAchievementsInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Achievements) == 0 {
				_, _ = fmt.Fprintln(w, "No achievements yet.")
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(tw, "\tNAME\tPROGRESS\tDESCRIPTION")
			for _, a := range out.Achievements {
				mark := " "
				if a.Unlocked() {
					mark = "*"
				}
				progress := fmt.Sprintf("%d", a.Progress)
				if a.Target > 0 {
					progress = fmt.Sprintf("%d/%d", min(a.Progress, a.Target), a.Target)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, a.Name, progress, a.Description)
			}
			_ = tw.Flush()
			_, _ = fmt.Fprintf(w, "\n%d of %d unlocked\n", out.Unlocked, len(out.Achievements))
			return nil
		},
	}
}
