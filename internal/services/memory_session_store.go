package services

import (
	"context"
	"sync"
	"time"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// MemorySessionStore implements domain.SessionStore in process memory.
// Each operation runs under one lock, so a completing login and a
// concurrent logout cannot interleave.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	now      func() time.Time
}

// NewMemorySessionStore creates an empty in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*domain.Session),
		now:      time.Now,
	}
}

// Current implements domain.SessionStore
func (s *MemorySessionStore) Current(_ context.Context, actorID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[actorID], nil
}

// Establish implements domain.SessionStore
func (s *MemorySessionStore) Establish(_ context.Context, actorID string, identity *domain.Identity) (*domain.Session, error) {
	session := &domain.Session{
		ActorID:       actorID,
		Identity:      identity,
		EstablishedAt: s.now(),
	}

	s.mu.Lock()
	s.sessions[actorID] = session
	s.mu.Unlock()
	return session, nil
}

// Clear implements domain.SessionStore
func (s *MemorySessionStore) Clear(_ context.Context, actorID string) error {
	s.mu.Lock()
	delete(s.sessions, actorID)
	s.mu.Unlock()
	return nil
}

// Len returns the number of established sessions
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var _ domain.SessionStore = (*MemorySessionStore)(nil)
