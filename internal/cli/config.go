package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fadel-segaf-developer/Topology-Visualizer/internal/config"
	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or show the configuration file",
		Long: `Settings are read from built-in defaults, then ./topoviz.toml or
./topoviz.yaml (or the file named by --config), then TOPOVIZ_* environment
variables such as TOPOVIZ_LAYOUT_ENGINE=grid.`,
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultFiles[0]
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errs.New(errs.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			printSuccess("Wrote default configuration")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			shown := *c.cfg
			if shown.GitHub.Token != "" {
				shown.GitHub.Token = "********"
			}
			if shown.Cache.RedisPassword != "" {
				shown.Cache.RedisPassword = "********"
			}
			data, err := shown.Encode(format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "toml", "output format: toml or yaml")

	return cmd
}
