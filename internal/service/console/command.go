package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	domain "github.com/oshokin/fire-trigger/internal/domain/trigger"
	"github.com/oshokin/fire-trigger/internal/logger"
)

// Service mutates the shared fired state on behalf of console commands.
type Service interface {
	SetFiredState(ctx context.Context, actor *domain.Actor, isFired bool) *domain.State
}

// Options configures the interactive command loop.
type Options struct {
	// Input is the stream commands are read from (stdin in production).
	Input io.Reader
	// Output receives the prompt and command feedback.
	Output io.Writer
	// Service applies fire and reset commands.
	Service Service
	// Actor is attributed to every console mutation. May be nil.
	Actor *domain.Actor
}

// ErrQuit is returned when the operator asks the loop to terminate.
// Callers treat it as a clean shutdown request, not a failure.
var ErrQuit = errors.New("quit requested")

// errServiceRequired is returned when the loop is started without a service.
var errServiceRequired = errors.New("service must be provided")

const (
	// prompt is printed before every command read.
	prompt = "> "

	farewellMessage = "Bye!"
	firedMessage    = "Fired. Send \"r\" to reset."
	resetMessage    = "Reset. Waiting for the next fire."
	usageMessage    = `Commands: empty line - fire, "r" or "reset" - reset, "q" or "quit" - exit.`
)

// Run reads newline-delimited commands until the input ends, the context is
// canceled or the operator quits. Lines are trimmed and lowercased before
// dispatch; unknown input prints a usage reminder and leaves the flag alone.
func Run(ctx context.Context, opts *Options) error {
	if opts.Service == nil {
		return errServiceRequired
	}

	ctx = logger.WithName(ctx, "console")

	lines := make(chan string)

	var scanErr error

	// The reader goroutine feeds lines into the channel so the dispatch loop
	// can also observe context cancellation. scanErr is written before the
	// channel close, so the receiver reads it safely after the close.
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(opts.Input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		scanErr = scanner.Err()
	}()

	for {
		fmt.Fprint(opts.Output, prompt)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if scanErr != nil {
					return fmt.Errorf("read console input: %w", scanErr)
				}

				// Input stream ended (EOF).
				return nil
			}

			if err := dispatch(ctx, opts, line); err != nil {
				return err
			}
		}
	}
}

// dispatch interprets a single command line. Returns ErrQuit on quit.
func dispatch(ctx context.Context, opts *Options, line string) error {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		opts.Service.SetFiredState(ctx, opts.Actor, true)
		logger.InfoKV(ctx, "Fire command accepted", "actor", opts.Actor)
		fmt.Fprintln(opts.Output, firedMessage)
	case "r", "reset":
		opts.Service.SetFiredState(ctx, opts.Actor, false)
		logger.InfoKV(ctx, "Reset command accepted", "actor", opts.Actor)
		fmt.Fprintln(opts.Output, resetMessage)
	case "q", "quit":
		fmt.Fprintln(opts.Output, farewellMessage)

		return ErrQuit
	default:
		fmt.Fprintln(opts.Output, usageMessage)
	}

	return nil
}
