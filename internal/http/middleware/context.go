package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

const (
	actorIDKey      = "actor_id"
	sessionKey      = "session"
	sessionErrorKey = "session_error"
)

// ActorID returns the actor identified by the Actor middleware
func ActorID(c *gin.Context) string {
	return c.GetString(actorIDKey)
}

// CurrentSession returns the session loaded by the Session middleware, nil
// for anonymous actors
func CurrentSession(c *gin.Context) *domain.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*domain.Session)
	return s
}

// SessionError returns the error hit while loading the session, if any
func SessionError(c *gin.Context) error {
	v, ok := c.Get(sessionErrorKey)
	if !ok {
		return nil
	}
	err, _ := v.(error)
	return err
}
