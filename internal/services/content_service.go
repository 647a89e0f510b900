package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"unicode"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// ContentService serves articles to the presentation layer
type ContentService struct {
	articles domain.ArticleRepository
}

// NewContentService creates a content service
func NewContentService(articles domain.ArticleRepository) *ContentService {
	return &ContentService{articles: articles}
}

// News returns the approved articles, newest first
func (s *ContentService) News(ctx context.Context) ([]*domain.Article, error) {
	return s.articles.ListByStatus(ctx, domain.ArticleApproved)
}

// ByAuthor returns every article written by authorID, whatever its status
func (s *ContentService) ByAuthor(ctx context.Context, authorID string) ([]*domain.Article, error) {
	return s.articles.ListByAuthor(ctx, authorID)
}

// Moderation returns all articles grouped by status
func (s *ContentService) Moderation(ctx context.Context) (map[domain.ArticleStatus][]*domain.Article, error) {
	out := make(map[domain.ArticleStatus][]*domain.Article, 3)
	for _, status := range []domain.ArticleStatus{domain.ArticlePending, domain.ArticleApproved, domain.ArticleRejected} {
		articles, err := s.articles.ListByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		out[status] = articles
	}
	return out, nil
}

// Article returns one article. Articles that are not approved are only
// visible to those who may edit them.
func (s *ContentService) Article(ctx context.Context, session *domain.Session, id string) (*domain.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, err
	}
	if article.Status != domain.ArticleApproved && !CanEdit(session, article) {
		return nil, domain.ErrArticleNotFound
	}
	return article, nil
}

// CanEdit reports whether the session may edit the article: administrators
// may edit anything, everyone else only what they wrote.
func CanEdit(session *domain.Session, article *domain.Article) bool {
	if session == nil || session.Identity == nil || article == nil {
		return false
	}
	if session.Identity.Role == domain.RoleAdmin {
		return true
	}
	return article.AuthorID != "" && article.AuthorID == session.Identity.ID
}

// EditPath is where the edit link of an editable article points
func EditPath(session *domain.Session) string {
	if session.Role() == domain.RoleAdmin {
		return "/admin/content"
	}
	return "/user/posts"
}

// DashboardPath is the dashboard of a role, empty when the role has none
func DashboardPath(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin"
	case domain.RoleUser:
		return "/user"
	default:
		return ""
	}
}

// LandingPath is where a completed login goes: administrators who passed
// step-up land on their dashboard, everyone else returns to where they
// came from.
func LandingPath(session *domain.Session, from string, steppedUp bool) string {
	if steppedUp && session.Role() == domain.RoleAdmin {
		return "/admin"
	}
	if !isLocalPath(from) {
		return "/"
	}
	return from
}

// isLocalPath accepts only same-origin absolute paths. Browsers drop tabs
// and newlines and read backslashes as slashes, so any of those could turn
// "/\t/host" into "//host".
func isLocalPath(from string) bool {
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return false
	}
	for _, r := range from {
		if r == '\\' || unicode.IsControl(r) {
			return false
		}
	}
	u, err := url.Parse(from)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == "" && u.Opaque == ""
}
