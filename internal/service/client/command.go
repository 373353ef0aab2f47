package client

import (
	"context"
	"time"

	"github.com/oshokin/fire-trigger/internal/config"
	"github.com/oshokin/fire-trigger/internal/logger"
	"github.com/oshokin/fire-trigger/internal/service/common"
)

// Options configures trigger client behavior for state change operations.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// ServerAddress overrides server address from config when specified.
	ServerAddress string

	// DesiredState represents the target fired state (true=fire, false=reset).
	DesiredState bool
}

// defaultPushInterval defines retry delay when pushing the fired state to the server.
const defaultPushInterval = 1 * time.Second

// Run attempts to set the fired state with retry logic until success or cancellation.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "trigger-fire/reset")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	// Identify current user and hostname for audit logging.
	actor, err := common.DetectActor()
	if err != nil {
		return err
	}

	// Connect to the trigger server with timeout from config.
	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(
		ctx,
		"Pushing desired fired state",
		"server_address",
		serverAddress,
		"desired_state",
		opts.DesiredState,
	)

	// attempt tries once to change the fired state, returns true when the
	// server confirms the desired value.
	attempt := func() bool {
		if err := client.SetFiredState(ctx, actor, opts.DesiredState); err != nil {
			// Log error but continue retrying for transient failures.
			logger.ErrorKV(ctx, "SetFiredState failed", "error", err)
			return false
		}

		// Check that the server reports the desired state back.
		isFired, err := client.GetFiredState(ctx)
		if err != nil {
			logger.ErrorKV(ctx, "GetFiredState failed", "error", err)
			return false
		}

		if isFired != opts.DesiredState {
			// Server responded but state mismatch, continue retrying.
			return false
		}

		logger.InfoKV(ctx, "Fired state confirmed", "is_fired", isFired)

		return true
	}

	// Attempt immediately before starting the retry loop.
	if attempt() {
		return nil
	}

	// Setup retry timer for subsequent attempts.
	ticker := time.NewTicker(defaultPushInterval)
	defer ticker.Stop()

	// Retry loop until success or cancellation.
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if attempt() {
				return nil
			}
		}
	}
}
