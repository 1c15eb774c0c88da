package cli

import (
	"fmt"
	"io"

	"github.com/dailyquest/dq/internal/app"
	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/usecase"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the config command.
// Without a subcommand it behaves like config show.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage the dq configuration file.

Settings are layered: built-in defaults, then the config file, then the
environment variables DQ_API_URL, DQ_AUTH_URL, DQ_TIMEZONE, DQ_CACHE_STORE
and DQ_LOG_LEVEL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, c)
		},
	}

	cmd.AddCommand(newConfigShowCommand(c))
	cmd.AddCommand(newConfigTemplateCommand())
	cmd.AddCommand(newConfigInitCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective configuration after applying the config file and
environment overrides.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, c)
		},
	}
}

func runConfigShow(cmd *cobra.Command, c *app.Container) error {
	out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	_, _ = fmt.Fprintln(w, "[Loaded from]")
	if out.GlobalConfig.Exists {
		_, _ = fmt.Fprintf(w, "- %s\n", out.GlobalConfig.Path)
	} else {
		_, _ = fmt.Fprintf(w, "- %s (not found)\n", out.GlobalConfig.Path)
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "[Effective Config]")
	return formatEffectiveConfig(w, out.Effective)
}

// formatEffectiveConfig writes the config in TOML format.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// newConfigTemplateCommand creates the config template subcommand.
func newConfigTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Output configuration template",
		Long: `Output a commented configuration template with the default values to stdout.

It does not read existing configuration files and works even if they are broken.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), domain.RenderConfigTemplate(domain.NewDefaultConfig()))
			return nil
		},
	}
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate configuration file template",
		Long: `Write the configuration template to the dq directory
(~/.config/dq/config.toml unless XDG_CONFIG_HOME is set).

Error conditions:
- Target file already exists and --force is not given: error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.InitConfigUseCase().Execute(cmd.Context(), usecase.InitConfigInput{Force: force})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
