package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Castafa/News-ans-Public-opinion/domain"
	"github.com/Castafa/News-ans-Public-opinion/internal/metrics"
)

// GuardMW gates requests with the resource registry and the access guard
type GuardMW struct {
	registry domain.ResourceRegistry
	guard    domain.AccessGuard
	audit    domain.AuditLogger
	log      zerolog.Logger
}

// NewGuardMW creates the guard middleware. audit may be nil.
func NewGuardMW(registry domain.ResourceRegistry, guard domain.AccessGuard, audit domain.AuditLogger, log zerolog.Logger) *GuardMW {
	return &GuardMW{registry: registry, guard: guard, audit: audit, log: log}
}

// Enforce must run after Actor and Session. Paths without a rule pass
// through untouched.
func (mw *GuardMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		rule, gated, err := mw.registry.Rule(path)
		if err != nil {
			mw.log.Error().Err(err).Str("path", path).Msg("guard: registry lookup failed")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "access rules unavailable"})
			return
		}
		if !gated {
			c.Next()
			return
		}

		if err := SessionError(c); err != nil {
			c.Header("Retry-After", "5")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
			return
		}

		session := CurrentSession(c)
		decision := mw.guard.Decide(session, rule)
		metrics.GuardDecisionsTotal.WithLabelValues(string(decision.Outcome)).Inc()
		mw.record(c, session, decision)

		switch decision.Outcome {
		case domain.OutcomeAllow:
			c.Next()
		case domain.OutcomeRedirectToLogin:
			redirect(c, decision.Target+"?from="+url.QueryEscape(decision.ReturnTo))
		case domain.OutcomeRedirectToHome:
			redirect(c, decision.Target)
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		}
	}
}

func (mw *GuardMW) record(c *gin.Context, session *domain.Session, decision domain.Decision) {
	if mw.audit == nil {
		return
	}
	eventType := domain.AccessGrantedEvent
	if !decision.Allowed() {
		eventType = domain.AccessDeniedEvent
	}
	event := domain.NewAuditEvent(eventType, ActorID(c)).
		WithMetadata("path", c.Request.URL.Path).
		WithMetadata("outcome", string(decision.Outcome)).
		WithClientContext(domain.ClientContextFrom(c.Request.Context()))
	if session != nil {
		event.WithIdentity(session.Identity)
	}
	if !decision.Allowed() {
		event.Success = false
	}
	mw.audit.LogEvent(c.Request.Context(), event)
}

// redirect answers 302 with no body
func redirect(c *gin.Context, location string) {
	c.Header("Location", location)
	c.AbortWithStatus(http.StatusFound)
}
