package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/fire-trigger/internal/config"
	"github.com/oshokin/fire-trigger/internal/service/watcher"
	"github.com/oshokin/fire-trigger/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// fireCommand overrides the capture command from configuration.
	fireCommand string
	// debug controls whether to skip launching the capture command.
	debug bool

	// rootCmd represents the base command for polling the fired flag.
	rootCmd = &cobra.Command{
		Use:   "trigger-watcher [server-address]",
		Short: "Monitor the fired flag and launch the capture command.",
		Long: `Background service that monitors the fired flag and launches the capture command when it goes up.

Continuously polls the server at fixed 5-second intervals to check the flag.
When a fire event is detected, launches the configured capture command once and
stays disarmed until the flag is reset.
Uses timeout and server settings from configuration file, polling interval is fixed.
Server address can be provided as argument or loaded from configuration file.

This runs as a background service on every rig machine.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use server address argument if provided, otherwise rely on config.
			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			// Create watcher options with server address override and debug flag.
			watcherOptions := &watcher.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				FireCommand:   fireCommand,
				Debug:         debug,
			}

			return watcher.Run(ctx, watcherOptions)
		},
	}
)

// Execute runs the trigger-watcher CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&fireCommand, "fire-command", "f", "", "capture command to launch on fire")

	// Hidden debug flag to skip the capture command for debugging.
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "skip the capture command for debugging")

	err := rootCmd.Flags().MarkHidden("debug")
	if err != nil {
		panic(err)
	}
}
