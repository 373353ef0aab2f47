package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/fire-trigger/internal/domain/trigger"
)

// TestNewService_StartsLowered asserts a fresh service reports the flag down.
func TestNewService_StartsLowered(t *testing.T) {
	t.Parallel()

	s := newService()

	state := s.GetFiredState(context.Background())
	require.False(t, state.IsFired)
	require.Nil(t, state.LastActor)
}

// TestService_SetAndGet verifies SetFiredState mutates and GetFiredState returns the latest state.
func TestService_SetAndGet(t *testing.T) {
	t.Parallel()

	s := newService()

	actor := &domain.Actor{
		Hostname: "rig-01",
		Username: "operator",
	}

	result := s.SetFiredState(context.Background(), actor, true)

	require.True(t, result.IsFired)
	require.NotNil(t, result.LastActor)

	// Cloned.
	require.NotSame(t, actor, result.LastActor)

	currentState := s.GetFiredState(context.Background())
	require.True(t, currentState.IsFired)

	// Reset lowers the flag again.
	result = s.SetFiredState(context.Background(), actor, false)
	require.False(t, result.IsFired)
	require.False(t, s.GetFiredState(context.Background()).IsFired)
}

// TestService_GetReturnsCopy ensures callers cannot mutate internal state.
func TestService_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	s := newService()

	first := s.GetFiredState(context.Background())
	first.IsFired = true

	require.False(t, s.GetFiredState(context.Background()).IsFired)
}

// TestResolveListenAddress covers override, port extraction and error cases.
func TestResolveListenAddress(t *testing.T) {
	t.Parallel()

	addr, err := resolveListenAddress("server.local:8404", ":9090")
	require.NoError(t, err)
	require.Equal(t, ":9090", addr)

	addr, err = resolveListenAddress("server.local:8404", "")
	require.NoError(t, err)
	require.Equal(t, ":8404", addr)

	_, err = resolveListenAddress("", "")
	require.ErrorIs(t, err, ErrNoServerAddress)

	_, err = resolveListenAddress("no-port", "")
	require.Error(t, err)
}
