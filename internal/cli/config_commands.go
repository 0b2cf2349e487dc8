package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/splatview/splatview/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage splatview configuration",
		Long: `Configuration management commands for splatview.

Commands:
  init  - Write a configuration file with default values
  show  - Display current configuration
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// configPath returns --config or the default location.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultConfigPath()
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var (
		force   bool
		withLog bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write splatview.conf with default values.

Use --force to overwrite an existing file. Use --log-file to also enable the
rotating log file in the default log directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path, err := configPath()
			if err != nil {
				return err
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintf(out, "Configuration already exists at: %s\n", path)
					fmt.Fprintln(out, "Use --force to overwrite or run 'config show' to view current config.")
					return nil
				}
			}

			cfg := config.NewConfig()
			if withLog {
				if err := config.EnsureLogDirectory(); err != nil {
					return fmt.Errorf("failed to create log directory: %w", err)
				}
				cfg.Logging.File = config.DefaultLogFile()
			}

			if err := config.Save(cfg, path); err != nil {
				return err
			}
			GetLogger().Debug().Str("path", path).Msg("Configuration written")
			fmt.Fprintf(out, "Configuration saved to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&withLog, "log-file", false, "Enable the rotating log file")

	return cmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective configuration after defaults and the config file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), path, cfg)
			return cfg.Validate()
		},
	}
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func printConfig(out io.Writer, path string, cfg *config.Config) {
	exists := "not found, using defaults"
	if _, err := os.Stat(path); err == nil {
		exists = "loaded"
	}

	fmt.Fprintf(out, "Configuration file: %s (%s)\n\n", path, exists)
	fmt.Fprintln(out, "[upload]")
	fmt.Fprintf(out, "  tick_interval_ms    = %d\n", cfg.Upload.TickIntervalMs)
	fmt.Fprintf(out, "  start_delay_ms      = %d\n", cfg.Upload.StartDelayMs)
	fmt.Fprintf(out, "  completion_delay_ms = %d\n", cfg.Upload.CompletionDelayMs)
	fmt.Fprintf(out, "  fault_rate          = %g\n", cfg.Upload.FaultRate)
	fmt.Fprintln(out, "[notifications]")
	fmt.Fprintf(out, "  enabled = %t\n", cfg.Notifications.Enabled)
	fmt.Fprintf(out, "  desktop = %t\n", cfg.Notifications.Desktop)
	fmt.Fprintln(out, "[logging]")
	fmt.Fprintf(out, "  level = %s\n", cfg.Logging.Level)
	file := cfg.Logging.File
	if file == "" {
		file = "(disabled)"
	}
	fmt.Fprintf(out, "  file  = %s\n", file)
	fmt.Fprintln(out, "[events]")
	fmt.Fprintf(out, "  buffer_size = %d\n", cfg.Events.BufferSize)
}
