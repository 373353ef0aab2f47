package trigger

import "time"

// Actor identifies who performed an action in the system.
type Actor struct {
	// Hostname is the machine name where the action was performed.
	Hostname string
	// Username is the system user who triggered the action.
	Username string
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// State represents the fired status at a specific point in time.
type State struct {
	// Timestamp is when the fired state was last changed.
	Timestamp time.Time
	// LastActor is the user who last modified the fired state.
	LastActor *Actor
	// IsFired indicates whether a fire event has been triggered and not yet reset.
	IsFired bool
}

// Clone returns a copy of the state to avoid leaking internal references.
func (s *State) Clone() *State {
	return &State{
		Timestamp: s.Timestamp,
		LastActor: s.LastActor.Clone(),
		IsFired:   s.IsFired,
	}
}
