package server

import (
	"context"
	"sync"
	"time"

	domain "github.com/oshokin/fire-trigger/internal/domain/trigger"
	"github.com/oshokin/fire-trigger/internal/logger"
)

// service encapsulates the fired flag and its mutation rules.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// state is the current in-memory fired state.
	state *domain.State
	// mu protects concurrent access to the fired state.
	mu sync.RWMutex
}

// newService creates a service with the flag down.
func newService() *service {
	return &service{
		state: &domain.State{
			Timestamp: time.Now(),
			IsFired:   false,
		},
	}
}

// SetFiredState updates the fired status and records who changed it.
func (s *service) SetFiredState(ctx context.Context, actor *domain.Actor, isFired bool) *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = &domain.State{
		Timestamp: time.Now(),
		LastActor: actor.Clone(),
		IsFired:   isFired,
	}

	logger.InfoKV(ctx, "Fired state updated", "is_fired", s.state.IsFired, "actor", s.state.LastActor)

	result := s.state.Clone()

	return result
}

// GetFiredState returns the current fired status.
func (s *service) GetFiredState(ctx context.Context) *domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Status polling is frequent, keep it out of the info log.
	logger.DebugKV(ctx, "Fired state requested", "is_fired", s.state.IsFired)

	result := s.state.Clone()

	return result
}
