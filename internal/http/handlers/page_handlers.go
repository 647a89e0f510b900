package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Castafa/News-ans-Public-opinion/domain"
	"github.com/Castafa/News-ans-Public-opinion/internal/http/middleware"
	"github.com/Castafa/News-ans-Public-opinion/internal/services"
)

const aboutText = "We are a platform dedicated to fostering open discussion and sharing diverse perspectives on current events. Our mission is to provide a space for citizens to voice their opinions and engage in constructive dialogue."

const contactEmail = "contact@npo.com"

// Section is one entry of a dashboard menu
type Section struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

var adminSections = []Section{
	{Path: "/admin/dashboard", Label: "Dashboard"},
	{Path: "/admin/users", Label: "User Management"},
	{Path: "/admin/content", Label: "Content"},
	{Path: "/admin/analytics", Label: "Analytics"},
	{Path: "/admin/appearance", Label: "Appearance"},
	{Path: "/admin/settings", Label: "Settings"},
}

var userSections = []Section{
	{Path: "/user/profile", Label: "My Profile"},
	{Path: "/user/posts", Label: "My Posts"},
	{Path: "/user/notifications", Label: "Notifications"},
}

// AdminSections lists the administrator dashboard sections
func AdminSections() []Section { return adminSections }

// UserSections lists the user dashboard sections
func UserSections() []Section { return userSections }

// PageHandlers serves the public pages and the two dashboards
type PageHandlers struct {
	content   *services.ContentService
	users     domain.UserRepository
	siteTitle string
	log       zerolog.Logger
}

// NewPageHandlers creates new page handlers
func NewPageHandlers(content *services.ContentService, users domain.UserRepository, siteTitle string, log zerolog.Logger) *PageHandlers {
	return &PageHandlers{content: content, users: users, siteTitle: siteTitle, log: log}
}

// Home renders the landing page
func (h *PageHandlers) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"title": h.siteTitle,
			"links": []Section{
				{Path: "/news", Label: "News"},
				{Path: "/about", Label: "About"},
				{Path: "/contact", Label: "Contact"},
			},
		},
	})
}

// About renders the about page
func (h *PageHandlers) About(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"title": "About Us", "text": aboutText}})
}

// Contact renders the contact page
func (h *PageHandlers) Contact(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"title": "Contact Us", "email": contactEmail}})
}

// News lists approved articles with an edit link where the actor may edit
func (h *PageHandlers) News(c *gin.Context) {
	articles, err := h.content.News(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load news")
		return
	}
	session := middleware.CurrentSession(c)
	views := make([]gin.H, 0, len(articles))
	for _, a := range articles {
		views = append(views, articleView(session, a))
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

// Article renders one article
func (h *PageHandlers) Article(c *gin.Context) {
	session := middleware.CurrentSession(c)
	article, err := h.content.Article(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		h.fail(c, err, "Failed to load article")
		return
	}
	view := articleView(session, article)
	view["content"] = article.Content
	c.JSON(http.StatusOK, gin.H{"data": view})
}

// AdminSection renders one administrator dashboard section. The guard has
// already checked the role.
func (h *PageHandlers) AdminSection(section string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := requireSession(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		data := gin.H{
			"section":  section,
			"sections": adminSections,
			"user":     userView(session.Identity),
		}

		switch section {
		case "dashboard":
			users, err := h.users.Count(ctx)
			if err != nil {
				h.fail(c, err, "Failed to load dashboard")
				return
			}
			grouped, err := h.content.Moderation(ctx)
			if err != nil {
				h.fail(c, err, "Failed to load dashboard")
				return
			}
			total := 0
			for _, articles := range grouped {
				total += len(articles)
			}
			data["stats"] = gin.H{
				"total_users":      users,
				"total_articles":   total,
				"pending_approval": len(grouped[domain.ArticlePending]),
			}
		case "users":
			identities, err := h.users.List(ctx)
			if err != nil {
				h.fail(c, err, "Failed to load users")
				return
			}
			views := make([]gin.H, 0, len(identities))
			for _, identity := range identities {
				views = append(views, userView(identity))
			}
			data["users"] = views
		case "content":
			grouped, err := h.content.Moderation(ctx)
			if err != nil {
				h.fail(c, err, "Failed to load content")
				return
			}
			data["pending"] = summaries(grouped[domain.ArticlePending])
			data["approved"] = summaries(grouped[domain.ArticleApproved])
			data["rejected"] = summaries(grouped[domain.ArticleRejected])
		case "appearance", "settings":
			data["site_title"] = h.siteTitle
		}

		c.JSON(http.StatusOK, gin.H{"data": data})
	}
}

// UserSection renders one user dashboard section
func (h *PageHandlers) UserSection(section string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := requireSession(c)
		if !ok {
			return
		}
		data := gin.H{
			"section":  section,
			"sections": userSections,
			"user":     userView(session.Identity),
		}

		if section == "posts" {
			articles, err := h.content.ByAuthor(c.Request.Context(), session.Identity.ID)
			if err != nil {
				h.fail(c, err, "Failed to load posts")
				return
			}
			data["posts"] = summaries(articles)
		}

		c.JSON(http.StatusOK, gin.H{"data": data})
	}
}

func (h *PageHandlers) fail(c *gin.Context, err error, msg string) {
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// requireSession covers dashboards whose rule was revoked at runtime
func requireSession(c *gin.Context) (*domain.Session, bool) {
	session := middleware.CurrentSession(c)
	if session == nil || session.Identity == nil {
		c.Redirect(http.StatusFound, "/login?from="+url.QueryEscape(c.Request.URL.Path))
		return nil, false
	}
	return session, true
}

func articleView(session *domain.Session, a *domain.Article) gin.H {
	view := gin.H{
		"id":         a.ID,
		"title":      a.Title,
		"author":     a.AuthorName,
		"image_url":  a.ImageURL,
		"created_at": a.CreatedAt,
		"can_edit":   false,
	}
	if services.CanEdit(session, a) {
		view["can_edit"] = true
		view["edit_path"] = services.EditPath(session)
	}
	return view
}

func summaries(articles []*domain.Article) []gin.H {
	out := make([]gin.H, 0, len(articles))
	for _, a := range articles {
		out = append(out, gin.H{
			"id":         a.ID,
			"title":      a.Title,
			"author":     a.AuthorName,
			"status":     a.Status,
			"created_at": a.CreatedAt,
		})
	}
	return out
}
