package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Castafa/News-ans-Public-opinion/domain"
	"github.com/Castafa/News-ans-Public-opinion/internal/http/middleware"
	"github.com/Castafa/News-ans-Public-opinion/internal/services"
)

// LoginHandlers exposes the login protocol over HTTP
type LoginHandlers struct {
	login domain.LoginService
	log   zerolog.Logger
}

// NewLoginHandlers creates new login handlers
func NewLoginHandlers(login domain.LoginService, log zerolog.Logger) *LoginHandlers {
	return &LoginHandlers{login: login, log: log}
}

// CredentialsRequest represents the first login form
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	From     string `json:"from"`
}

// StepUpRequest represents the second factor form
type StepUpRequest struct {
	Phone string `json:"phone" binding:"required"`
	From  string `json:"from"`
}

// Status tells the client which form to render
func (h *LoginHandlers) Status(c *gin.Context) {
	session := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"stage":         h.login.Stage(middleware.ActorID(c)),
			"authenticated": session != nil,
			"from":          c.Query("from"),
		},
	})
}

// SubmitCredentials handles the email/password form
func (h *LoginHandlers) SubmitCredentials(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.login.SubmitCredentials(c.Request.Context(), middleware.ActorID(c), req.Email, req.Password)
	if err != nil {
		h.loginError(c, res, err)
		return
	}
	h.loginResult(c, res, req.From, false)
}

// SubmitStepUp handles the phone number form
func (h *LoginHandlers) SubmitStepUp(c *gin.Context) {
	var req StepUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.login.SubmitStepUp(c.Request.Context(), middleware.ActorID(c), req.Phone)
	if err != nil {
		h.loginError(c, res, err)
		return
	}
	h.loginResult(c, res, req.From, true)
}

// Cancel abandons a pending step-up and returns to the first form
func (h *LoginHandlers) Cancel(c *gin.Context) {
	if err := h.login.Cancel(c.Request.Context(), middleware.ActorID(c)); err != nil {
		h.loginError(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"stage": domain.StageIdle}})
}

// Logout clears the session and sends the actor home
func (h *LoginHandlers) Logout(c *gin.Context) {
	if err := h.login.Logout(c.Request.Context(), middleware.ActorID(c)); err != nil {
		h.loginError(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"redirect": "/"}})
}

// Me returns the header data for the current actor
func (h *LoginHandlers) Me(c *gin.Context) {
	if err := middleware.SessionError(c); err != nil {
		unavailable(c, "session store unavailable")
		return
	}
	session := middleware.CurrentSession(c)
	if session == nil {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"authenticated": false}})
		return
	}

	data := gin.H{
		"authenticated": true,
		"user":          userView(session.Identity),
	}
	if dashboard := services.DashboardPath(session.Role()); dashboard != "" {
		data["dashboard"] = dashboard
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (h *LoginHandlers) loginResult(c *gin.Context, res *domain.LoginResult, from string, steppedUp bool) {
	if res.Stage != domain.StageDone || res.Session == nil {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"stage": res.Stage}})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"stage":    res.Stage,
			"redirect": services.LandingPath(res.Session, from, steppedUp),
			"user":     userView(res.Session.Identity),
		},
	})
}

// loginError maps login errors onto statuses. Rejections keep the actor on
// the same form, so the stage is echoed back with the message.
func (h *LoginHandlers) loginError(c *gin.Context, res *domain.LoginResult, err error) {
	stage := h.login.Stage(middleware.ActorID(c))
	if res != nil {
		stage = res.Stage
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password", "stage": stage})
	case errors.Is(err, domain.ErrInvalidStepUp):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid phone number", "stage": stage})
	case errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "Not available at this login step", "stage": stage})
	case errors.Is(err, domain.ErrDirectoryUnavailable):
		unavailable(c, "user directory unavailable")
	case errors.Is(err, domain.ErrSessionStoreUnavailable):
		unavailable(c, "session store unavailable")
	default:
		h.log.Error().Err(err).Str("actor_id", middleware.ActorID(c)).Msg("login request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
	}
}

func unavailable(c *gin.Context, msg string) {
	c.Header("Retry-After", "5")
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": msg})
}

// userView is the public part of an identity; the second factor and the
// credential hash never leave the server
func userView(identity *domain.Identity) gin.H {
	if identity == nil {
		return nil
	}
	return gin.H{
		"id":     identity.ID,
		"name":   identity.Name,
		"email":  identity.Email,
		"role":   identity.Role,
		"avatar": identity.Avatar,
	}
}
