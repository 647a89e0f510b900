package mocks

import (
	"context"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// MockLoginService implements domain.LoginService interface for testing
type MockLoginService struct {
	StageFunc             func(actorID string) domain.LoginStage
	SubmitCredentialsFunc func(ctx context.Context, actorID, email, password string) (*domain.LoginResult, error)
	SubmitStepUpFunc      func(ctx context.Context, actorID, factor string) (*domain.LoginResult, error)
	CancelFunc            func(ctx context.Context, actorID string) error
	LogoutFunc            func(ctx context.Context, actorID string) error
}

// NewMockLoginService creates a new MockLoginService with default behaviors
func NewMockLoginService() *MockLoginService {
	return &MockLoginService{}
}

// Stage returns the actor's login stage
func (m *MockLoginService) Stage(actorID string) domain.LoginStage {
	if m.StageFunc != nil {
		return m.StageFunc(actorID)
	}
	return domain.StageIdle
}

// SubmitCredentials submits an email/password pair
func (m *MockLoginService) SubmitCredentials(ctx context.Context, actorID, email, password string) (*domain.LoginResult, error) {
	if m.SubmitCredentialsFunc != nil {
		return m.SubmitCredentialsFunc(ctx, actorID, email, password)
	}
	// Default behavior: rejected
	return &domain.LoginResult{Stage: domain.StageAwaitingCredentials}, domain.ErrInvalidCredentials
}

// SubmitStepUp submits a second factor
func (m *MockLoginService) SubmitStepUp(ctx context.Context, actorID, factor string) (*domain.LoginResult, error) {
	if m.SubmitStepUpFunc != nil {
		return m.SubmitStepUpFunc(ctx, actorID, factor)
	}
	// Default behavior: no attempt in progress
	return &domain.LoginResult{Stage: domain.StageIdle}, domain.ErrInvalidState
}

// Cancel abandons a pending step-up
func (m *MockLoginService) Cancel(ctx context.Context, actorID string) error {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, actorID)
	}
	return domain.ErrInvalidState
}

// Logout clears the actor's session
func (m *MockLoginService) Logout(ctx context.Context, actorID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, actorID)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.LoginService = (*MockLoginService)(nil)
