package repository

import (
	"context"

	"mbs-pricing-ui/internal/form"
)

// SessionRepository stores the form state of each browser session
type SessionRepository interface {
	// Load returns the state of a session, or a fresh default form when the
	// session is unknown or expired
	Load(ctx context.Context, sessionID string) (*form.State, error)

	// Save replaces the state of a session and refreshes its expiry
	Save(ctx context.Context, sessionID string, state *form.State) error

	// Update applies fn to the stored state and saves the result as one atomic
	// step. Nothing is saved when fn returns an error.
	Update(ctx context.Context, sessionID string, fn func(*form.State) error) (*form.State, error)

	// Close releases the resources held by the repository
	Close() error
}

// cloneState copies a state so that stored values never alias caller memory
func cloneState(s *form.State) *form.State {
	c := *s
	if s.Result != nil {
		r := *s.Result
		c.Result = &r
	}
	return &c
}
