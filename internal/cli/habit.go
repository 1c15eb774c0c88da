package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dailyquest/dq/internal/app"
	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/usecase"
	"github.com/spf13/cobra"
)

// habitOptions holds the flags shared by habit add and habit edit.
type habitOptions struct {
	Title       string
	Description string
	Difficulty  string
	Frequency   string
	Days        string
	Times       int
}

// newHabitCommand creates the habit command group.
func newHabitCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Create and edit habits",
	}
	cmd.AddCommand(newHabitAddCommand(c), newHabitEditCommand(c))
	return cmd
}

func newHabitAddCommand(c *app.Container) *cobra.Command {
	var opts habitOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a habit",
		Long: `Create a recurring habit.

Frequencies:
  daily          Due every day
  weekly_times   Due until completed --times N times in the week
  specific_days  Due on the weekdays given by --days

Examples:
  dq habit add --title "Read" --difficulty easy
  dq habit add --title "Gym" --difficulty hard --frequency weekly_times --times 3
  dq habit add --title "Piano" --frequency specific_days --days mon,wed,fri`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft := domain.HabitDraft{
				Title:                opts.Title,
				Description:          opts.Description,
				FrequencyTargetTimes: opts.Times,
			}
			var err error
			if draft.Difficulty, err = domain.ParseDifficulty(opts.Difficulty); err != nil {
				return err
			}
			if draft.FrequencyType, err = domain.ParseFrequencyType(opts.Frequency); err != nil {
				return err
			}
			if opts.Days != "" {
				if draft.FrequencyDays, err = domain.ParseWeekdays(opts.Days); err != nil {
					return err
				}
			}

			out, err := c.CreateHabitUseCase().Execute(cmd.Context(), usecase.CreateHabitInput{Draft: draft})
			if err != nil {
				return err
			}
			writeCreated(cmd.OutOrStdout(), out.Habit)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "Habit title (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Habit description")
	cmd.Flags().StringVarP(&opts.Difficulty, "difficulty", "d", string(domain.DifficultyEasy), "Difficulty: easy, medium or hard")
	cmd.Flags().StringVarP(&opts.Frequency, "frequency", "f", string(domain.FrequencyDaily), "Frequency: daily, weekly_times or specific_days")
	cmd.Flags().IntVar(&opts.Times, "times", 0, "Completions per week for weekly_times")
	cmd.Flags().StringVar(&opts.Days, "days", "", "Weekdays for specific_days, e.g. mon,wed,fri")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newHabitEditCommand(c *app.Container) *cobra.Command {
	var opts habitOptions

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a habit",
		Long: `Edit a habit. Only the flags that are given are changed.

Examples:
  dq habit edit 3f2a --title "Read 20 pages"
  dq habit edit 3f2a --frequency specific_days --days tue,thu`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.HabitPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &opts.Title
			}
			if flags.Changed("description") {
				patch.Description = &opts.Description
			}
			if flags.Changed("difficulty") {
				d, err := domain.ParseDifficulty(opts.Difficulty)
				if err != nil {
					return err
				}
				patch.Difficulty = &d
			}
			if flags.Changed("frequency") {
				ft, err := domain.ParseFrequencyType(opts.Frequency)
				if err != nil {
					return err
				}
				patch.FrequencyType = &ft
			}
			if flags.Changed("times") {
				patch.FrequencyTargetTimes = &opts.Times
			}
			if flags.Changed("days") {
				days, err := domain.ParseWeekdays(opts.Days)
				if err != nil {
					return err
				}
				patch.FrequencyDays = days
			}

			out, err := c.UpdateHabitUseCase().Execute(cmd.Context(), usecase.UpdateHabitInput{Ref: args[0], Patch: patch})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated habit %s: %s\n", shortID(out.Habit.ID), out.Habit.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "description", "", "New description")
	cmd.Flags().StringVarP(&opts.Difficulty, "difficulty", "d", "", "New difficulty")
	cmd.Flags().StringVarP(&opts.Frequency, "frequency", "f", "", "New frequency")
	cmd.Flags().IntVar(&opts.Times, "times", 0, "New completions per week")
	cmd.Flags().StringVar(&opts.Days, "days", "", "New weekdays")

	return cmd
}

// todoOptions holds the flags shared by todo add and todo edit.
type todoOptions struct {
	Title       string
	Description string
	Difficulty  string
	Deadline    string
}

// newTodoCommand creates the todo command group.
func newTodoCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Create and edit todos",
	}
	cmd.AddCommand(newTodoAddCommand(c), newTodoEditCommand(c))
	return cmd
}

func newTodoAddCommand(c *app.Container) *cobra.Command {
	var opts todoOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a todo",
		Long: `Create a one-off todo with a deadline in the future.

Deadlines accept RFC 3339 ("2026-04-15T18:00:00Z"), "2026-04-15 18:00"
in the local zone, or a bare date meaning the end of that day.

Examples:
  dq todo add --title "File taxes" --difficulty hard --deadline 2026-04-15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := c.Clock.Now()
			draft := domain.TodoDraft{
				Title:       opts.Title,
				Description: opts.Description,
			}
			var err error
			if draft.Difficulty, err = domain.ParseDifficulty(opts.Difficulty); err != nil {
				return err
			}
			deadline, err := parseDeadline(opts.Deadline, now.Location())
			if err != nil {
				return err
			}
			draft.Deadline = &deadline

			out, err := c.CreateTodoUseCase().Execute(cmd.Context(), usecase.CreateTodoInput{Draft: draft})
			if err != nil {
				return err
			}
			writeCreated(cmd.OutOrStdout(), out.Todo)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "Todo title (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Todo description")
	cmd.Flags().StringVarP(&opts.Difficulty, "difficulty", "d", string(domain.DifficultyEasy), "Difficulty: easy, medium or hard")
	cmd.Flags().StringVar(&opts.Deadline, "deadline", "", "Deadline (required)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("deadline")

	return cmd
}

func newTodoEditCommand(c *app.Container) *cobra.Command {
	var opts todoOptions

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.TodoPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &opts.Title
			}
			if flags.Changed("description") {
				patch.Description = &opts.Description
			}
			if flags.Changed("difficulty") {
				d, err := domain.ParseDifficulty(opts.Difficulty)
				if err != nil {
					return err
				}
				patch.Difficulty = &d
			}
			if flags.Changed("deadline") {
				deadline, err := parseDeadline(opts.Deadline, c.Clock.Now().Location())
				if err != nil {
					return err
				}
				patch.Deadline = &deadline
			}

			out, err := c.UpdateTodoUseCase().Execute(cmd.Context(), usecase.UpdateTodoInput{Ref: args[0], Patch: patch})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated todo %s: %s\n", shortID(out.Todo.ID), out.Todo.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "description", "", "New description")
	cmd.Flags().StringVarP(&opts.Difficulty, "difficulty", "d", "", "New difficulty")
	cmd.Flags().StringVar(&opts.Deadline, "deadline", "", "New deadline")

	return cmd
}

// deadlineLayouts are tried in order; the last one is a bare date.
var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	domain.DateLayout,
}

// parseDeadline parses a deadline flag. Times without an offset are in loc;
// a bare date means the last minute of that day.
func parseDeadline(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range deadlineLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		if layout == domain.DateLayout {
			t = t.Add(24*time.Hour - time.Minute)
		}
		return t, nil
	}
	return time.Time{}, domain.NewValidationError("deadline", fmt.Sprintf("cannot parse %q as a date or time", s))
}

// writeCreated prints a created task with its XP preview.
func writeCreated(w io.Writer, t domain.Task) {
	base := t.Common()
	_, _ = fmt.Fprintf(w, "Created %s %s: %s (%s, %d XP)\n",
		t.Type(), shortID(base.ID), base.Title, base.Difficulty.Display(), domain.PreviewXP(t))
}
