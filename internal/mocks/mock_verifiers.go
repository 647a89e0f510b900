package mocks

import (
	"context"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// MockCredentialVerifier implements domain.CredentialVerifier interface for testing
type MockCredentialVerifier struct {
	VerifyFunc func(ctx context.Context, email, password string) (*domain.Identity, error)
}

// Verify checks credentials
func (m *MockCredentialVerifier) Verify(ctx context.Context, email, password string) (*domain.Identity, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, email, password)
	}
	// Default behavior: no match
	return nil, nil
}

// MockStepUpVerifier implements domain.StepUpVerifier interface for testing
type MockStepUpVerifier struct {
	VerifyFunc func(ctx context.Context, pending *domain.Identity, factor string) bool
}

// Verify checks a second factor
func (m *MockStepUpVerifier) Verify(ctx context.Context, pending *domain.Identity, factor string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, pending, factor)
	}
	// Default behavior: reject
	return false
}

// Compile-time interface compliance verification
var (
	_ domain.CredentialVerifier = (*MockCredentialVerifier)(nil)
	_ domain.StepUpVerifier     = (*MockStepUpVerifier)(nil)
)
