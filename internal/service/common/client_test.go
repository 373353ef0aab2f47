//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	api "github.com/oshokin/fire-trigger/internal/api/http/trigger"
	domain "github.com/oshokin/fire-trigger/internal/domain/trigger"
)

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestSetFiredState_NilActor asserts that a nil actor is rejected by the client.
func TestSetFiredState_NilActor(t *testing.T) {
	t.Parallel()

	c := new(Client)

	err := c.SetFiredState(context.Background(), nil, true)
	require.Error(t, err)
}

// TestClient_AgainstStubServer exercises the wire contract against a stub HTTP server.
func TestClient_AgainstStubServer(t *testing.T) {
	t.Parallel()

	var (
		fired     bool
		lastActor string
	)

	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastActor = r.Header.Get(api.ActorHeader)

		switch r.URL.Path {
		case api.FirePath:
			fired = true

			_, _ = w.Write([]byte(api.FireResponseBody))
		case api.ResetPath:
			fired = false

			_, _ = w.Write([]byte(api.ResetResponseBody))
		case api.StatusPath:
			body := api.StatusWaiting
			if fired {
				body = api.StatusFired
			}

			_, _ = w.Write([]byte(body))
		default:
			http.NotFound(w, r)
		}
	}))
	defer stub.Close()

	address := strings.TrimPrefix(stub.URL, "http://")

	c, err := Dial(context.Background(), address, WithCallTimeout(3*time.Second))
	require.NoError(t, err)

	defer func() {
		_ = c.Close()
	}()

	actor := &domain.Actor{
		Hostname: "rig-01",
		Username: "operator",
	}

	ctx := context.Background()

	isFired, err := c.GetFiredState(ctx)
	require.NoError(t, err)
	require.False(t, isFired)

	require.NoError(t, c.SetFiredState(ctx, actor, true))
	require.Equal(t, "operator@rig-01", lastActor)

	isFired, err = c.GetFiredState(ctx)
	require.NoError(t, err)
	require.True(t, isFired)

	require.NoError(t, c.SetFiredState(ctx, actor, false))

	isFired, err = c.GetFiredState(ctx)
	require.NoError(t, err)
	require.False(t, isFired)
}

// TestGetFiredState_UnknownBody asserts unknown status bodies are rejected.
func TestGetFiredState_UnknownBody(t *testing.T) {
	t.Parallel()

	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("MAYBE"))
	}))
	defer stub.Close()

	c, err := Dial(context.Background(), strings.TrimPrefix(stub.URL, "http://"))
	require.NoError(t, err)

	_, err = c.GetFiredState(context.Background())
	require.Error(t, err)
}
