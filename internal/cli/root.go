// Package cli provides the command-line interface for dq.
package cli

import (
	"fmt"

	"github.com/dailyquest/dq/internal/app"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupSetup   = "setup"
	groupAccount = "account"
	groupTask    = "task"
	groupStats   = "stats"
)

// launchBoardFunc is a function variable for launching the board, allowing it to be mocked in tests.
var launchBoardFunc = launchBoard

// NewRootCommand creates the root command for dq.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "dq",
		Short: "Gamified habit and todo tracker",
		Long: `dq is a terminal client for a habit and todo tracker.
Completing tasks earns XP, builds streaks and levels you up.

Run dq without arguments to open the interactive board.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchBoardFunc(c)
		},
	}

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupAccount, Title: "Account Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupStats, Title: "Progress:"},
	)

	// Setup commands
	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	cacheCmd := newCacheCommand(c)
	cacheCmd.GroupID = groupSetup

	// Account commands
	loginCmd := newLoginCommand(c)
	loginCmd.GroupID = groupAccount

	logoutCmd := newLogoutCommand(c)
	logoutCmd.GroupID = groupAccount

	registerCmd := newRegisterCommand(c)
	registerCmd.GroupID = groupAccount

	whoamiCmd := newWhoamiCommand(c)
	whoamiCmd.GroupID = groupAccount

	// Task management commands
	listCmd := newListCommand(c)
	listCmd.GroupID = groupTask

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupTask

	habitCmd := newHabitCommand(c)
	habitCmd.GroupID = groupTask

	todoCmd := newTodoCommand(c)
	todoCmd.GroupID = groupTask

	rmCmd := newRmCommand(c)
	rmCmd.GroupID = groupTask

	doneCmd := newDoneCommand(c)
	doneCmd.GroupID = groupTask

	undoCmd := newUndoCommand(c)
	undoCmd.GroupID = groupTask

	tagCmd := newTagCommand(c)
	tagCmd.GroupID = groupTask

	importCmd := newImportCommand(c)
	importCmd.GroupID = groupTask

	boardCmd := newBoardCommand(c)
	boardCmd.GroupID = groupTask

	// Progress commands
	historyCmd := newHistoryCommand(c)
	historyCmd.GroupID = groupStats

	achievementsCmd := newAchievementsCommand(c)
	achievementsCmd.GroupID = groupStats

	// Add subcommands
	root.AddCommand(
		configCmd,
		cacheCmd,
		loginCmd,
		logoutCmd,
		registerCmd,
		whoamiCmd,
		listCmd,
		showCmd,
		habitCmd,
		todoCmd,
		rmCmd,
		doneCmd,
		undoCmd,
		tagCmd,
		importCmd,
		boardCmd,
		historyCmd,
		achievementsCmd,
	)

	return root
}
