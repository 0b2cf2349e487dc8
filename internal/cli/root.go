// Package cli provides the command-line interface for splatview.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/splatview/splatview/internal/config"
	"github.com/splatview/splatview/internal/logging"
	"github.com/splatview/splatview/internal/version"
)

var (
	// Global flags
	cfgFile       string
	verbose       bool
	debug         bool
	desktopNotify bool

	// Global logger and configuration, set in PersistentPreRunE
	logger *logging.Logger
	appCfg *config.Config

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// Version information - set by main package at startup
var (
	Version   = version.Version
	BuildTime = version.BuildTime
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "splatview",
		Short: "SplatView - upload and browse 3D splat scans",
		Long: `SplatView ` + Version + ` - Built: ` + BuildTime + `
Stage TIFF scans into an upload batch, watch them transfer, and browse the
model catalog with the viewer's render settings.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if cmd.Flags().Changed("desktop-notify") {
				cfg.Notifications.Desktop = desktopNotify
			}
			appCfg = cfg

			level, _ := cfg.LogLevel()
			if verbose || debug {
				level = zerolog.DebugLevel
			}
			logging.SetGlobalLevel(level)

			logger = logging.NewLoggerWithOptions(logging.Options{
				Mode: "cli",
				File: config.ResolveLogFile(cfg.Logging.File),
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output (same as --verbose)")
	rootCmd.PersistentFlags().BoolVar(&desktopNotify, "desktop-notify", false, "Also show notifications on the desktop (overrides config)")

	rootCmd.Version = version.String()

	completionCmd := &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion scripts",
		Long:      `Generate the autocompletion script for the given shell and write it to stdout.`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletionV2(out, true)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			default:
				return rootCmd.GenPowerShellCompletion(out)
			}
		},
	}
	rootCmd.AddCommand(completionCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	rootContext, cancelFunc = context.WithCancel(context.Background())
	defer cancelFunc()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\n\nReceived signal %v, cancelling...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newAssetsCmd())
	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return logger
}

// GetConfig returns the loaded configuration, or defaults before the
// root command has run.
func GetConfig() *config.Config {
	if appCfg == nil {
		appCfg = config.NewConfig()
	}
	return appCfg
}

// GetContext returns the global CLI context with signal handling.
// This context will be cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}
