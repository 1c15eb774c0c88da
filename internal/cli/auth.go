package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dailyquest/dq/internal/app"
	"github.com/dailyquest/dq/internal/usecase"
	"github.com/spf13/cobra"
)

// lineReader reads prompted values from a command's stdin.
type lineReader struct {
	in  *bufio.Reader
	out io.Writer
}

func newLineReader(cmd *cobra.Command) *lineReader {
	return &lineReader{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.ErrOrStderr()}
}

// ask prints prompt and returns the next line without its line ending.
func (r *lineReader) ask(prompt string) (string, error) {
	_, _ = fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(prompt), ": "), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// newLoginCommand creates the login command.
func newLoginCommand(c *app.Container) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the backend",
		Long: `Sign in and save the access token to the dq directory.

The password is read from standard input, so it can be piped:
  printf '%s\n' "$DQ_PASSWORD" | dq login --username ana`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := newLineReader(cmd)
			var err error
			if username == "" {
				if username, err = r.ask("Username: "); err != nil {
					return err
				}
			}
			password, err := r.ask("Password: ")
			if err != nil {
				return err
			}

			out, err := c.LoginUseCase().Execute(cmd.Context(), usecase.LoginInput{
				Username: username,
				Password: password,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.User == nil {
				_, _ = fmt.Fprintf(w, "Logged in as %s\n", username)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Logged in as %s\n", out.User.Username)
			writeUserLine(w, *out.User)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted if omitted)")

	return cmd
}

// newLogoutCommand creates the logout command.
func newLogoutCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.LogoutUseCase().Execute(cmd.Context(), usecase.LogoutInput{}); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// newRegisterCommand creates the register command.
func newRegisterCommand(c *app.Container) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account. The password is read from standard input and must
be at least 6 characters long.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := newLineReader(cmd).ask("Password: ")
			if err != nil {
				return err
			}

			out, err := c.RegisterUseCase().Execute(cmd.Context(), usecase.RegisterInput{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered %s. Run 'dq login' to sign in.\n", out.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// newWhoamiCommand creates the whoami command.
func newWhoamiCommand(c *app.Container) *cobra.Command {
	var withStats bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and level progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowProfileUseCase().Execute(cmd.Context(), usecase.ShowProfileInput{WithStats: withStats})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s <%s>\n", headingStyle.Render(out.User.Username), out.User.Email)
			writeUserLine(w, out.User)
			_, _ = fmt.Fprintf(w, "%d XP to level %d\n", out.ToNext, out.User.Level+1)

			if s := out.Stats; s != nil {
				_, _ = fmt.Fprintln(w)
				_, _ = fmt.Fprintf(w, "Total XP: %d\n", s.TotalXP)
				_, _ = fmt.Fprintf(w, "Completed: %d today, %d this week, %d this month, %d total\n",
					s.TasksCompletedToday, s.TasksCompletedThisWeek, s.TasksCompletedMonth, s.TotalTasksCompleted)
				_, _ = fmt.Fprintf(w, "Current streak: %d\n", s.CurrentStreak)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withStats, "stats", false, "Include dashboard statistics")

	return cmd
}
