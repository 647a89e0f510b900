package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// ArticleRepositoryImpl implements domain.ArticleRepository using GORM
type ArticleRepositoryImpl struct {
	db *gorm.DB
}

// DBArticle is the database model for articles
type DBArticle struct {
	ID         string    `gorm:"primaryKey;size:36"`
	Title      string    `gorm:"size:255"`
	AuthorID   string    `gorm:"index;size:36"`
	AuthorName string    `gorm:"size:255"`
	Content    string    `gorm:"type:text"`
	ImageURL   string    `gorm:"size:512"`
	Status     string    `gorm:"index;size:16"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (DBArticle) TableName() string {
	return "articles"
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *gorm.DB) *ArticleRepositoryImpl {
	return &ArticleRepositoryImpl{db: db}
}

// Create implements domain.ArticleRepository
func (r *ArticleRepositoryImpl) Create(ctx context.Context, article *domain.Article) error {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.Status == "" {
		article.Status = domain.ArticlePending
	}
	row := &DBArticle{
		ID:         article.ID,
		Title:      article.Title,
		AuthorID:   article.AuthorID,
		AuthorName: article.AuthorName,
		Content:    article.Content,
		ImageURL:   article.ImageURL,
		Status:     string(article.Status),
		CreatedAt:  article.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	article.CreatedAt = row.CreatedAt
	return nil
}

// FindByID implements domain.ArticleRepository
func (r *ArticleRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	var row DBArticle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, err
	}
	return toArticle(&row), nil
}

// ListByStatus implements domain.ArticleRepository, newest first
func (r *ArticleRepositoryImpl) ListByStatus(ctx context.Context, status domain.ArticleStatus) ([]*domain.Article, error) {
	return r.list(ctx, "status = ?", string(status))
}

func (r *ArticleRepositoryImpl) list(ctx context.Context, query string, arg interface{}) ([]*domain.Article, error) {
	var rows []DBArticle
	err := r.db.WithContext(ctx).
		Where(query, arg).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	articles := make([]*domain.Article, 0, len(rows))
	for i := range rows {
		articles = append(articles, toArticle(&rows[i]))
	}
	return articles, nil
}

// ListByAuthor implements domain.ArticleRepository, newest first
func (r *ArticleRepositoryImpl) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Article, error) {
	return r.list(ctx, "author_id = ?", authorID)
}

// Count implements domain.ArticleRepository
func (r *ArticleRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&DBArticle{}).Count(&n).Error
	return n, err
}

func toArticle(row *DBArticle) *domain.Article {
	return &domain.Article{
		ID:         row.ID,
		Title:      row.Title,
		AuthorID:   row.AuthorID,
		AuthorName: row.AuthorName,
		Content:    row.Content,
		ImageURL:   row.ImageURL,
		Status:     domain.ArticleStatus(row.Status),
		CreatedAt:  row.CreatedAt,
	}
}

var _ domain.ArticleRepository = (*ArticleRepositoryImpl)(nil)
