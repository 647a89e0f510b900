package mocks

import (
	"context"
	"time"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// MockSessionStore implements domain.SessionStore interface for testing
type MockSessionStore struct {
	CurrentFunc   func(ctx context.Context, actorID string) (*domain.Session, error)
	EstablishFunc func(ctx context.Context, actorID string, identity *domain.Identity) (*domain.Session, error)
	ClearFunc     func(ctx context.Context, actorID string) error
}

// NewMockSessionStore creates a new MockSessionStore with default behaviors
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{}
}

// Current returns the actor's session
func (m *MockSessionStore) Current(ctx context.Context, actorID string) (*domain.Session, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx, actorID)
	}
	// Default behavior: no session
	return nil, nil
}

// Establish stores a session for the actor
func (m *MockSessionStore) Establish(ctx context.Context, actorID string, identity *domain.Identity) (*domain.Session, error) {
	if m.EstablishFunc != nil {
		return m.EstablishFunc(ctx, actorID, identity)
	}
	// Default behavior: success
	return &domain.Session{ActorID: actorID, Identity: identity, EstablishedAt: time.Now()}, nil
}

// Clear removes the actor's session
func (m *MockSessionStore) Clear(ctx context.Context, actorID string) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, actorID)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.SessionStore = (*MockSessionStore)(nil)
