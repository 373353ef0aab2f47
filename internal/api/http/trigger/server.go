package trigger

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	domain "github.com/oshokin/fire-trigger/internal/domain/trigger"
	"github.com/oshokin/fire-trigger/internal/logger"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	SetFiredState(ctx context.Context, actor *domain.Actor, isFired bool) *domain.State
	GetFiredState(ctx context.Context) *domain.State
}

// Route paths and response bodies below are the wire contract
// consumed by watchers and trigger clients. Do not change them
// without updating the clients.
const (
	// FirePath raises the flag.
	FirePath = "/fire"
	// ResetPath lowers the flag.
	ResetPath = "/reset"
	// StatusPath reads the flag without mutating it.
	StatusPath = "/status"

	// FireResponseBody is returned after a successful fire request.
	FireResponseBody = "ok"
	// ResetResponseBody is returned after a successful reset request.
	ResetResponseBody = "reset"
	// StatusFired is the status body while the flag is up.
	StatusFired = "FIRE"
	// StatusWaiting is the status body while the flag is down.
	StatusWaiting = "WAIT"

	// ActorHeader optionally carries "username@hostname" of the acting client.
	ActorHeader = "X-Trigger-Actor"
)

// Server implements the trigger HTTP API.
type Server struct {
	// service provides the business logic for trigger operations.
	service Service
}

// NewServer wires the provided service implementation into an HTTP handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Router builds the route table for the trigger API.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc(FirePath, s.handleFire).Methods(http.MethodGet)
	router.HandleFunc(ResetPath, s.handleReset).Methods(http.MethodGet)
	router.HandleFunc(StatusPath, s.handleStatus).Methods(http.MethodGet)

	return router
}

// handleFire raises the fired flag and confirms with a plain-text body.
func (s *Server) handleFire(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := actorFromRequest(r)

	logger.InfoKV(ctx, "Fire request received", "remote_addr", r.RemoteAddr, "actor", actor)
	s.service.SetFiredState(ctx, actor, true)

	writeText(ctx, w, FireResponseBody)
}

// handleReset lowers the fired flag and confirms with a plain-text body.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := actorFromRequest(r)

	logger.InfoKV(ctx, "Reset request received", "remote_addr", r.RemoteAddr, "actor", actor)
	s.service.SetFiredState(ctx, actor, false)

	writeText(ctx, w, ResetResponseBody)
}

// handleStatus reports the current flag without mutating it.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := s.service.GetFiredState(ctx)

	body := StatusWaiting
	if state.IsFired {
		body = StatusFired
	}

	writeText(ctx, w, body)
}

// writeText sends a plain-text 200 response.
func writeText(ctx context.Context, w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := w.Write([]byte(body)); err != nil {
		logger.ErrorKV(ctx, "Failed to write response", "error", err)
	}
}

// actorFromRequest parses the optional actor header ("username@hostname").
// Returns nil when the header is absent or malformed.
func actorFromRequest(r *http.Request) *domain.Actor {
	header := strings.TrimSpace(r.Header.Get(ActorHeader))
	if header == "" {
		return nil
	}

	username, hostname, found := strings.Cut(header, "@")
	if !found || username == "" || hostname == "" {
		return nil
	}

	return &domain.Actor{
		Hostname: hostname,
		Username: username,
	}
}
