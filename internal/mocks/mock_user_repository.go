package mocks

import (
	"context"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc      func(ctx context.Context, identity *domain.Identity) error
	FindByEmailFunc func(ctx context.Context, email string) (*domain.Identity, error)
	FindByIDFunc    func(ctx context.Context, id string) (*domain.Identity, error)
	ListFunc        func(ctx context.Context) ([]*domain.Identity, error)
	CountFunc       func(ctx context.Context) (int64, error)
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// NewMockDirectory returns a repository whose lookups are served from identities
func NewMockDirectory(identities ...*domain.Identity) *MockUserRepository {
	m := &MockUserRepository{}
	m.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Identity, error) {
		for _, id := range identities {
			if id.Email == email {
				return id, nil
			}
		}
		return nil, domain.ErrUserNotFound
	}
	m.FindByIDFunc = func(ctx context.Context, userID string) (*domain.Identity, error) {
		for _, id := range identities {
			if id.ID == userID {
				return id, nil
			}
		}
		return nil, domain.ErrUserNotFound
	}
	m.ListFunc = func(ctx context.Context) ([]*domain.Identity, error) {
		return identities, nil
	}
	m.CountFunc = func(ctx context.Context) (int64, error) {
		return int64(len(identities)), nil
	}
	return m
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, identity *domain.Identity) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, identity)
	}
	// Default behavior: success
	return nil
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// List lists users
func (m *MockUserRepository) List(ctx context.Context) ([]*domain.Identity, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// Count counts users
func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
