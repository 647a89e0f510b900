package mocks

import (
	"strings"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// MockActorTokenService implements domain.ActorTokenService interface for testing.
// By default a token is "actor:" followed by the actor ID.
type MockActorTokenService struct {
	IssueFunc func(actorID string) (string, error)
	ParseFunc func(token string) (string, error)
}

// NewMockActorTokenService creates a new MockActorTokenService with default behaviors
func NewMockActorTokenService() *MockActorTokenService {
	return &MockActorTokenService{}
}

// Issue signs an actor ID
func (m *MockActorTokenService) Issue(actorID string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(actorID)
	}
	return "actor:" + actorID, nil
}

// Parse reads an actor ID from a token
func (m *MockActorTokenService) Parse(token string) (string, error) {
	if m.ParseFunc != nil {
		return m.ParseFunc(token)
	}
	id, ok := strings.CutPrefix(token, "actor:")
	if !ok || id == "" {
		return "", domain.ErrActorTokenInvalid
	}
	return id, nil
}

// Compile-time interface compliance verification
var _ domain.ActorTokenService = (*MockActorTokenService)(nil)
