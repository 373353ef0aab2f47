package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/fire-trigger/internal/config"
	"github.com/oshokin/fire-trigger/internal/logger"
	"github.com/oshokin/fire-trigger/internal/service/capture"
	"github.com/oshokin/fire-trigger/internal/service/common"
)

// Options controls the watcher polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional trigger server address override.
	ServerAddress string
	// FireCommand overrides the capture command from config when specified.
	FireCommand string
	// PollInterval defines the interval between fired state checks.
	PollInterval time.Duration
	// Debug prevents launching the capture command for testing purposes.
	Debug bool
}

// DefaultPollInterval defines the fixed polling interval for fired state checks.
const DefaultPollInterval = 5 * time.Second

// Run polls the fired state and launches the capture command on the WAIT→FIRE
// transition. After a launch the watcher stays disarmed until the flag is
// reset, so one fire event produces exactly one capture run.
//
//nolint:cyclop // Flow is straightforward and readable; splitting would reduce clarity.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "trigger-watcher")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Use default polling interval unless overridden.
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	// Determine server address: command line argument overrides config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	// Determine capture command the same way.
	fireCommand := cfg.FireCommand
	if opts.FireCommand != "" {
		fireCommand = opts.FireCommand
	}

	// Establish the client with timeout from configuration.
	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return fmt.Errorf("dial server: %w", err)
	}

	// Ensure connection cleanup on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Polling fired state",
		"server_address", serverAddress,
		"interval", opts.PollInterval.String(),
		"fire_command", fireCommand,
	)

	// Setup polling ticker with fixed interval.
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	// armed is true while the watcher waits for the next fire event.
	armed := true

	// Main polling loop until context cancellation.
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-ticker.C:
			isFired, err := client.GetFiredState(ctx)
			if err != nil {
				// Transient network failures should not stop the watcher.
				logger.WarnKV(ctx, "Fired state check failed", "error", err)

				continue
			}

			armed = handleState(ctx, opts, fireCommand, isFired, armed)
		}
	}
}

// handleState applies one observed state to the arming logic and returns the
// next armed value.
func handleState(ctx context.Context, opts *Options, fireCommand string, isFired, armed bool) bool {
	switch {
	case isFired && armed:
		logger.Info(ctx, "Fire event detected")

		if opts.Debug {
			logger.Info(ctx, "Debug mode, capture command skipped")
		} else if err := launchCapture(ctx, fireCommand); err != nil {
			logger.ErrorKV(ctx, "Failed to launch capture command", "error", err)

			// Stay armed so the next poll retries the launch.
			return true
		}

		return false
	case !isFired && !armed:
		logger.Info(ctx, "Flag reset observed, re-armed")

		return true
	default:
		return armed
	}
}

// launchCapture starts the capture command if one is configured.
func launchCapture(ctx context.Context, fireCommand string) error {
	if fireCommand == "" {
		logger.Warn(ctx, "No capture command configured, nothing to launch")

		return nil
	}

	logger.InfoKV(ctx, "Launching capture command", "command", fireCommand)

	return capture.Start(ctx, fireCommand)
}
