package mocks

import (
	"context"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// MockArticleRepository implements domain.ArticleRepository interface for testing
type MockArticleRepository struct {
	CreateFunc       func(ctx context.Context, article *domain.Article) error
	FindByIDFunc     func(ctx context.Context, id string) (*domain.Article, error)
	ListByStatusFunc func(ctx context.Context, status domain.ArticleStatus) ([]*domain.Article, error)
	ListByAuthorFunc func(ctx context.Context, authorID string) ([]*domain.Article, error)
	CountFunc        func(ctx context.Context) (int64, error)
}

// NewMockArticleRepository serves lookups from articles
func NewMockArticleRepository(articles ...*domain.Article) *MockArticleRepository {
	m := &MockArticleRepository{}
	m.FindByIDFunc = func(ctx context.Context, id string) (*domain.Article, error) {
		for _, a := range articles {
			if a.ID == id {
				return a, nil
			}
		}
		return nil, domain.ErrArticleNotFound
	}
	m.ListByStatusFunc = func(ctx context.Context, status domain.ArticleStatus) ([]*domain.Article, error) {
		var out []*domain.Article
		for _, a := range articles {
			if a.Status == status {
				out = append(out, a)
			}
		}
		return out, nil
	}
	m.ListByAuthorFunc = func(ctx context.Context, authorID string) ([]*domain.Article, error) {
		var out []*domain.Article
		for _, a := range articles {
			if a.AuthorID == authorID {
				out = append(out, a)
			}
		}
		return out, nil
	}
	m.CountFunc = func(ctx context.Context) (int64, error) {
		return int64(len(articles)), nil
	}
	return m
}

// Create creates an article
func (m *MockArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, article)
	}
	return nil
}

// FindByID finds an article
func (m *MockArticleRepository) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrArticleNotFound
}

// ListByStatus lists articles with a status
func (m *MockArticleRepository) ListByStatus(ctx context.Context, status domain.ArticleStatus) ([]*domain.Article, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status)
	}
	return nil, nil
}

// ListByAuthor lists articles written by authorID
func (m *MockArticleRepository) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Article, error) {
	if m.ListByAuthorFunc != nil {
		return m.ListByAuthorFunc(ctx, authorID)
	}
	return nil, nil
}

// Count counts articles
func (m *MockArticleRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// Compile-time interface compliance verification
var _ domain.ArticleRepository = (*MockArticleRepository)(nil)
