package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	api "github.com/oshokin/fire-trigger/internal/api/http/trigger"
	"github.com/oshokin/fire-trigger/internal/config"
	"github.com/oshokin/fire-trigger/internal/logger"
	"github.com/oshokin/fire-trigger/internal/service/common"
	"github.com/oshokin/fire-trigger/internal/service/console"
)

// Options controls the trigger-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the HTTP server.
	ListenAddress string
	// DisableConsole turns off the interactive command loop. Used when the
	// server runs detached from a terminal.
	DisableConsole bool
}

const (
	// readHeaderTimeout bounds how long a client may take to send headers.
	readHeaderTimeout = 5 * time.Second
	// shutdownTimeout bounds graceful drain of in-flight requests.
	shutdownTimeout = 5 * time.Second
)

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the HTTP server plus the interactive console loop and blocks
// until the context is canceled, the console quits, or the server stops.
//
//nolint:funlen // Wiring the two input surfaces together reads best in one place.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "trigger-server")

	// Load configuration first to get server settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Determine listen address: CLI argument overrides config port extraction.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	svc := newService()

	// Setup TCP listener for the HTTP server. Port-in-use fails here.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	httpServer := &http.Server{
		Handler:           api.NewServer(svc).Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger.InfoKV(ctx, "Trigger server listening", "listen_address", listenAddress)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- httpServer.Serve(lis)
	}()

	consoleDone := startConsole(ctx, opts, svc)

	// Wait for a shutdown trigger: server failure, context cancellation or
	// a console quit. A closed console input stream keeps the server up.
waitLoop:
	for {
		select {
		case err = <-serveErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve http: %w", err)
			}

			return nil
		case <-ctx.Done():
			logger.Info(ctx, "Shutting down HTTP server")

			break waitLoop
		case err = <-consoleDone:
			// Never receive from this channel twice.
			consoleDone = nil

			switch {
			case errors.Is(err, console.ErrQuit):
				logger.Info(ctx, "Console quit requested, shutting down")

				break waitLoop
			case err != nil && !errors.Is(err, context.Canceled):
				logger.ErrorKV(ctx, "Console loop failed", "error", err)
			default:
				logger.Info(ctx, "Console input closed, continuing without console")
			}
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	// Serve has returned http.ErrServerClosed by now.
	<-serveErr
	logger.Info(ctx, "HTTP server stopped")

	return nil
}

// startConsole launches the interactive loop on stdin unless disabled.
// The returned channel delivers the loop result exactly once.
func startConsole(ctx context.Context, opts *Options, svc *service) <-chan error {
	if opts.DisableConsole {
		return nil
	}

	actor, err := common.DetectActor()
	if err != nil {
		logger.WarnKV(ctx, "Unable to detect local actor for console commands", "error", err)
	}

	done := make(chan error, 1)

	go func() {
		done <- console.Run(ctx, &console.Options{
			Input:   os.Stdin,
			Output:  os.Stdout,
			Service: svc,
			Actor:   actor,
		})
	}()

	return done
}

// resolveListenAddress determines the listen address for the HTTP server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8404" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., ":9090", "0.0.0.0:8404").
	if override != "" {
		return override, nil
	}

	// Extract port from config address (e.g., "server.example.com:8404" -> ":8404").
	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	// Parse the address to extract port.
	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Return port-only listen address to bind on all interfaces.
	return ":" + port, nil
}
