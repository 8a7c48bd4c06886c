package repository

import (
	"context"
	"sync"
	"time"

	"mbs-pricing-ui/internal/form"
)

const cleanupInterval = 5 * time.Minute

type sessionEntry struct {
	state     *form.State
	expiresAt time.Time
}

// MemorySessionRepository keeps sessions in process memory
type MemorySessionRepository struct {
	mu          sync.Mutex
	ttl         time.Duration
	sessions    map[string]*sessionEntry
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewMemorySessionRepository creates an in-memory repository whose entries expire after ttl
func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	r := &MemorySessionRepository{
		ttl:         ttl,
		sessions:    make(map[string]*sessionEntry),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go r.cleanupLoop()
	return r
}

func (r *MemorySessionRepository) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *MemorySessionRepository) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, entry := range r.sessions {
		if now.After(entry.expiresAt) {
			delete(r.sessions, id)
		}
	}
}

// Load returns the stored state or a fresh form
func (r *MemorySessionRepository) Load(ctx context.Context, sessionID string) (*form.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[sessionID]
	if !ok || r.now().After(entry.expiresAt) {
		return form.NewState(), nil
	}
	return cloneState(entry.state), nil
}

// Save stores a copy of state
func (r *MemorySessionRepository) Save(ctx context.Context, sessionID string, state *form.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID] = &sessionEntry{
		state:     cloneState(state),
		expiresAt: r.now().Add(r.ttl),
	}
	return nil
}

// Update runs fn under the repository lock
func (r *MemorySessionRepository) Update(ctx context.Context, sessionID string, fn func(*form.State) error) (*form.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := form.NewState()
	if entry, ok := r.sessions[sessionID]; ok && !r.now().After(entry.expiresAt) {
		state = cloneState(entry.state)
	}
	if err := fn(state); err != nil {
		return nil, err
	}

	r.sessions[sessionID] = &sessionEntry{
		state:     cloneState(state),
		expiresAt: r.now().Add(r.ttl),
	}
	return state, nil
}

// Len returns the number of stored sessions, expired ones included until the next sweep
func (r *MemorySessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops the cleanup loop
func (r *MemorySessionRepository) Close() error {
	r.stopOnce.Do(func() { close(r.stopCleanup) })
	return nil
}

var _ SessionRepository = (*MemorySessionRepository)(nil)
