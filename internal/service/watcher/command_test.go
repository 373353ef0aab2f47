package watcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHandleState walks the arming state machine through a full fire/reset cycle.
func TestHandleState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opts := &Options{
		Debug: true,
	}

	// Idle polls keep the watcher armed.
	require.True(t, handleState(ctx, opts, "", false, true))

	// Fire event disarms after handling.
	require.False(t, handleState(ctx, opts, "", true, true))

	// Repeated FIRE polls stay disarmed.
	require.False(t, handleState(ctx, opts, "", true, false))

	// Reset re-arms.
	require.True(t, handleState(ctx, opts, "", false, false))
}
