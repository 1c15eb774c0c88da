package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dailyquest/dq/internal/app"
	"github.com/dailyquest/dq/internal/usecase"
	"github.com/spf13/cobra"
)

// newImportCommand creates the import command for creating tasks from a YAML file.
func newImportCommand(c *app.Container) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create tasks from a YAML file",
		Long: `Create habits and todos from a YAML file. Use "-" to read standard input.

Every task is validated before the first one is created, so a file with an
error creates nothing.

File format:
  habits:
    - title: Read
      difficulty: EASY
      frequency: SPECIFIC_DAYS
      days: [mon, wed, fri]
    - title: Gym
      difficulty: HARD
      frequency: WEEKLY_TIMES
      times: 3
  todos:
    - title: File taxes
      difficulty: HARD
      deadline: 2026-04-15T18:00:00Z

Examples:
  dq import tasks.yaml --dry-run
  cat tasks.yaml | dq import -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readImportFile(cmd, args[0])
			if err != nil {
				return err
			}

			out, err := c.ImportTasksUseCase().Execute(cmd.Context(), usecase.ImportTasksInput{
				Content: content,
				DryRun:  dryRun,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if dryRun {
				_, _ = fmt.Fprintln(w, "Dry run - tasks that would be created:")
			}
			for _, t := range out.Tasks {
				id := "-"
				if t.ID != "" {
					id = shortID(t.ID)
				}
				_, _ = fmt.Fprintf(w, "  %s %s %s (%s, %d XP)\n", id, t.Type, t.Title, t.Difficulty.Display(), t.XPPreview)
			}
			verb := "Created"
			if dryRun {
				verb = "Would create"
			}
			_, _ = fmt.Fprintf(w, "\n%s %d task(s) worth %d XP\n", verb, len(out.Tasks), out.TotalXP)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and preview without creating tasks")

	return cmd
}

func readImportFile(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return content, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return content, nil
}
