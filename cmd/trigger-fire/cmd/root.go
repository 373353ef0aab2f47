package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/fire-trigger/internal/config"
	client "github.com/oshokin/fire-trigger/internal/service/client"
	"github.com/oshokin/fire-trigger/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string

	// rootCmd represents the base command for raising the fired flag.
	rootCmd = &cobra.Command{
		Use:   "trigger-fire [server-address]",
		Short: "Raise the fired flag on the trigger server.",
		Long: `Signals the capture rig by raising the fired flag on the trigger server.

Sends fire requests to the server continuously until confirmation is received,
so the command is safe to run while the server restarts.
Server address can be provided as argument or loaded from configuration file.`,
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

			return client.Run(ctx, &client.Options{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				DesiredState:  true,
			})
		},
	}
)

// Execute runs the trigger-fire CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
}
