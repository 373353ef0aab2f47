package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/fire-trigger/internal/config"
	"github.com/oshokin/fire-trigger/internal/service/server"
	"github.com/oshokin/fire-trigger/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// noConsole disables the interactive command loop on stdin.
	noConsole bool

	// rootCmd represents the base command for running the HTTP server.
	rootCmd = &cobra.Command{
		Use:   "trigger-server [listen-address]",
		Short: "Run the fire-trigger HTTP server and manage the fired flag.",
		Long: `Starts the HTTP trigger server that owns the fired flag and handles client requests.

The server listens on the specified address or uses settings from configuration file.
Only the port from ServerAddress config is used for listening (e.g., :8404).
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:8404).
GET /fire raises the flag, GET /reset lowers it, GET /status reports FIRE or WAIT.
An interactive console loop runs on stdin: empty line fires, "r" resets, "q" quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:     configPath,
				ListenAddress:  listenAddress,
				DisableConsole: noConsole,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the trigger-server CLI and exits with non-zero status on error.
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
	rootCmd.Flags().BoolVar(&noConsole, "no-console", false, "disable the interactive console loop on stdin")
}
