package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scancook/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory session store with idle-TTL expiry.
// Session state lives only here: there is deliberately no persistence layer
// behind it.
type MemoryStore struct {
	sessions map[string]*domain.SessionState
	ttl      time.Duration
	mutex    sync.RWMutex
}

// NewMemoryStore creates a new in-memory session store. Sessions idle for
// longer than ttl are reaped by a background goroutine.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]*domain.SessionState),
		ttl:      ttl,
	}

	// Reap expired sessions every 10 minutes
	go store.reapExpired()

	return store
}

// Create allocates a new session with a fresh UUID. New sessions start with
// the first-visit flag set; consuming it is the caller's job.
func (s *MemoryStore) Create(ctx context.Context) (domain.SessionState, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state := &domain.SessionState{
		ID:         uuid.NewString(),
		FirstVisit: true,
		LastActive: time.Now(),
	}
	s.sessions[state.ID] = state

	return state.Snapshot(), nil
}

// Get returns a snapshot of the session state. Reads only touch the activity
// timestamp; the first-visit flag is left alone so internal reads never
// consume it.
func (s *MemoryStore) Get(ctx context.Context, id string) (domain.SessionState, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, err := s.lookup(id)
	if err != nil {
		return domain.SessionState{}, err
	}

	state.LastActive = time.Now()
	return state.Snapshot(), nil
}

// Update applies the mutation under the store lock and returns the resulting
// snapshot. Mutations are serialized per store, so callers get
// single-writer semantics without holding live state.
func (s *MemoryStore) Update(ctx context.Context, id string, mutate func(*domain.SessionState)) (domain.SessionState, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, err := s.lookup(id)
	if err != nil {
		return domain.SessionState{}, err
	}

	mutate(state)
	state.LastActive = time.Now()

	return state.Snapshot(), nil
}

// Delete removes a session; absent ids are a no-op
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.sessions, id)
	return nil
}

// lookup finds a live session; callers must hold the lock
func (s *MemoryStore) lookup(id string) (*domain.SessionState, error) {
	state, exists := s.sessions[id]
	if !exists {
		return nil, domain.ErrSessionNotFound
	}

	// Expired but not yet reaped
	if time.Since(state.LastActive) > s.ttl {
		delete(s.sessions, id)
		return nil, domain.ErrSessionNotFound
	}

	return state, nil
}

// reapExpired removes idle sessions periodically
func (s *MemoryStore) reapExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		now := time.Now()
		for id, state := range s.sessions {
			if now.Sub(state.LastActive) > s.ttl {
				delete(s.sessions, id)
			}
		}
		s.mutex.Unlock()
	}
}

// Size returns the current number of live sessions (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.sessions)
}

// Clear removes all sessions
func (s *MemoryStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sessions = make(map[string]*domain.SessionState)
}
