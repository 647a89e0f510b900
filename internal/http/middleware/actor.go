package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// ActorMW identifies the browser behind a request with a signed cookie.
// The cookie only carries a random actor ID; identity and role stay in the
// session store.
type ActorMW struct {
	tokens     domain.ActorTokenService
	cookieName string
	ttl        time.Duration
	secure     bool
	log        zerolog.Logger
}

// NewActorMW creates the actor middleware
func NewActorMW(tokens domain.ActorTokenService, cookieName string, ttl time.Duration, secure bool, log zerolog.Logger) *ActorMW {
	return &ActorMW{
		tokens:     tokens,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
		log:        log,
	}
}

// Identify sets the actor ID on the context, issuing a new cookie when the
// request has none or its cookie does not verify. It also records the
// client address for audit events.
func (mw *ActorMW) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := ""
		if raw, err := c.Cookie(mw.cookieName); err == nil && raw != "" {
			if id, err := mw.tokens.Parse(raw); err == nil {
				actorID = id
			} else {
				mw.log.Debug().Err(err).Msg("actor cookie rejected")
			}
		}

		if actorID == "" {
			actorID = uuid.NewString()
			token, err := mw.tokens.Issue(actorID)
			if err != nil {
				mw.log.Error().Err(err).Msg("failed to issue actor cookie")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(mw.cookieName, token, int(mw.ttl.Seconds()), "/", "", mw.secure, true)
		}

		c.Set(actorIDKey, actorID)
		ctx := domain.WithClientContext(c.Request.Context(), &domain.ClientContext{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
