package trigger

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/fire-trigger/internal/domain/trigger"
)

// stubService is a minimal Service implementation recording the last mutation.
type stubService struct {
	// state is the current fired state returned to handlers.
	state *domain.State
	// lastActor stores the actor passed to the last SetFiredState call.
	lastActor *domain.Actor
}

// SetFiredState replaces the stored state and records the actor.
func (s *stubService) SetFiredState(_ context.Context, actor *domain.Actor, isFired bool) *domain.State {
	s.lastActor = actor
	s.state = &domain.State{
		Timestamp: time.Now(),
		LastActor: actor,
		IsFired:   isFired,
	}

	return s.state.Clone()
}

// GetFiredState returns the stored state.
func (s *stubService) GetFiredState(context.Context) *domain.State {
	return s.state.Clone()
}

// get performs a GET against the test server and returns status code and body.
func get(t *testing.T, server *httptest.Server, path string, header http.Header) (int, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL+path, http.NoBody)
	require.NoError(t, err)

	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

// TestRoutes_FireResetStatus walks the wire contract end to end.
func TestRoutes_FireResetStatus(t *testing.T) {
	t.Parallel()

	svc := &stubService{
		state: &domain.State{
			Timestamp: time.Now(),
		},
	}

	server := httptest.NewServer(NewServer(svc).Router())
	defer server.Close()

	// Fresh state reads WAIT.
	code, body := get(t, server, StatusPath, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, StatusWaiting, body)

	// Fire raises the flag.
	code, body = get(t, server, FirePath, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, FireResponseBody, body)

	code, body = get(t, server, StatusPath, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, StatusFired, body)

	// Reset lowers it again.
	code, body = get(t, server, ResetPath, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, ResetResponseBody, body)

	code, body = get(t, server, StatusPath, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, StatusWaiting, body)
}

// TestRoutes_RejectNonGET ensures mutating routes only accept GET.
func TestRoutes_RejectNonGET(t *testing.T) {
	t.Parallel()

	svc := &stubService{
		state: &domain.State{
			Timestamp: time.Now(),
		},
	}

	server := httptest.NewServer(NewServer(svc).Router())
	defer server.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, server.URL+FirePath, http.NoBody)
	require.NoError(t, err)

	resp, err := server.Client().Do(req)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

// TestActorFromRequest checks parsing of the optional actor header.
func TestActorFromRequest(t *testing.T) {
	t.Parallel()

	svc := &stubService{
		state: &domain.State{
			Timestamp: time.Now(),
		},
	}

	server := httptest.NewServer(NewServer(svc).Router())
	defer server.Close()

	header := http.Header{}
	header.Set(ActorHeader, "operator@rig-01")

	code, _ := get(t, server, FirePath, header)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, &domain.Actor{Hostname: "rig-01", Username: "operator"}, svc.lastActor)

	// Malformed header degrades to an anonymous mutation.
	header.Set(ActorHeader, "garbage")

	code, _ = get(t, server, ResetPath, header)
	require.Equal(t, http.StatusOK, code)
	require.Nil(t, svc.lastActor)
}
