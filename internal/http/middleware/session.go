package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// Session loads the actor's session, if any. A store failure is recorded on
// the context rather than aborting, so public pages still render.
func Session(store domain.SessionStore, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := store.Current(c.Request.Context(), ActorID(c))
		if err != nil {
			log.Error().Err(err).Str("actor_id", ActorID(c)).Msg("session lookup failed")
			c.Set(sessionErrorKey, err)
		} else if session != nil {
			c.Set(sessionKey, session)
		}
		c.Next()
	}
}
