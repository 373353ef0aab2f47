package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/fire-trigger/internal/domain/trigger"
)

// recordingService captures every SetFiredState call for assertions.
type recordingService struct {
	// calls stores the fired values in the order they were requested.
	calls []bool
	// lastActor stores the actor of the most recent call.
	lastActor *domain.Actor
}

// SetFiredState records the mutation and returns a matching state.
func (s *recordingService) SetFiredState(_ context.Context, actor *domain.Actor, isFired bool) *domain.State {
	s.calls = append(s.calls, isFired)
	s.lastActor = actor

	return &domain.State{
		Timestamp: time.Now(),
		LastActor: actor,
		IsFired:   isFired,
	}
}

// run executes the loop over the provided script and returns the output and result.
func run(t *testing.T, svc *recordingService, script string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	err := Run(context.Background(), &Options{
		Input:   strings.NewReader(script),
		Output:  &out,
		Service: svc,
		Actor: &domain.Actor{
			Hostname: "rig-01",
			Username: "operator",
		},
	})

	return out.String(), err
}

// TestRun_EmptyLineFires asserts an empty line raises the flag.
func TestRun_EmptyLineFires(t *testing.T) {
	t.Parallel()

	svc := new(recordingService)

	out, err := run(t, svc, "\nq\n")
	require.ErrorIs(t, err, ErrQuit)
	require.Equal(t, []bool{true}, svc.calls)
	require.NotNil(t, svc.lastActor)
	require.Contains(t, out, firedMessage)
	require.Contains(t, out, farewellMessage)
}

// TestRun_ResetCommands asserts both reset spellings lower the flag.
func TestRun_ResetCommands(t *testing.T) {
	t.Parallel()

	svc := new(recordingService)

	_, err := run(t, svc, "r\nRESET\nquit\n")
	require.ErrorIs(t, err, ErrQuit)
	require.Equal(t, []bool{false, false}, svc.calls)
}

// TestRun_UnknownInputKeepsState asserts unknown commands print usage and mutate nothing.
func TestRun_UnknownInputKeepsState(t *testing.T) {
	t.Parallel()

	svc := new(recordingService)

	out, err := run(t, svc, "bogus\nq\n")
	require.ErrorIs(t, err, ErrQuit)
	require.Empty(t, svc.calls)
	require.Contains(t, out, usageMessage)
}

// TestRun_EndOfInput asserts a closed input stream ends the loop without error.
func TestRun_EndOfInput(t *testing.T) {
	t.Parallel()

	svc := new(recordingService)

	_, err := run(t, svc, "")
	require.NoError(t, err)
	require.Empty(t, svc.calls)
}

// TestRun_ContextCancel asserts cancellation interrupts a blocked read.
func TestRun_ContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	// A pipe with no writer keeps the scanner blocked.
	reader, _ := io.Pipe()

	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, &Options{
			Input:   reader,
			Output:  io.Discard,
			Service: new(recordingService),
		})
	}()

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("console loop did not observe cancellation")
	}
}

// TestRun_RequiresService asserts the loop refuses to start without a service.
func TestRun_RequiresService(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), &Options{
		Input:  strings.NewReader(""),
		Output: io.Discard,
	})
	require.Error(t, err)
}
