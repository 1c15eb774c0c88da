package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dailyquest/dq/internal/app"
	"github.com/dailyquest/dq/internal/tui"
	"github.com/spf13/cobra"
)

// newBoardCommand creates the board command for launching the interactive board.
// Running dq without arguments does the same.
func newBoardCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive task board",
		Long: `Open the interactive board. Complete tasks with space, revert a habit
with u and switch between habits and todos with tab. The board resyncs
with the backend every board.poll_interval.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchBoardFunc(c)
		},
	}
}

// launchBoard runs the board until the user quits.
func launchBoard(c *app.Container) error {
	if c == nil {
		return errors.New("board requires an initialized container")
	}
	p := tea.NewProgram(tui.New(c), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
