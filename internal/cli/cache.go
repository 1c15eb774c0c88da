package cli

import (
	"fmt"

	"github.com/dailyquest/dq/internal/app"
	"github.com/dailyquest/dq/internal/usecase"
	"github.com/spf13/cobra"
)

// newCacheCommand creates the cache command group.
func newCacheCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local completion cache",
		Long: `Manage the local cache of today's habit completions.

Only today's entries affect completion state; older dates can be pruned.`,
	}
	cmd.AddCommand(newCachePruneCommand(c))
	return cmd
}

func newCachePruneCommand(c *app.Container) *cobra.Command {
	var before string

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop cached completions older than a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.PruneCacheUseCase().Execute(cmd.Context(), usecase.PruneCacheInput{Before: before})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d date(s) before %s\n", out.Removed, out.Before)
			return nil
		},
	}

	cmd.Flags().StringVar(&before, "before", "", "Cutoff date YYYY-MM-DD (default today)")

	return cmd
}
