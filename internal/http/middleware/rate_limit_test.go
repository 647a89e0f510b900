package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Castafa/News-ans-Public-opinion/internal/mocks"
)

func newLimitedEngine(l *LoginRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewActorMW(mocks.NewMockActorTokenService(), testCookie, time.Hour, false, zerolog.Nop()).Identify())
	r.POST("/login/credentials", l.Limit(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func postAs(r http.Handler, actor string) *httptest.ResponseRecorder {
	return postFrom(r, actor, "192.0.2.1:40000")
}

// postFrom submits from remoteAddr; an empty actor sends no cookie
func postFrom(r http.Handler, actor, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login/credentials", nil)
	req.RemoteAddr = remoteAddr
	if actor != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: "actor:" + actor})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginRateLimiter_Limit(t *testing.T) {
	r := newLimitedEngine(NewLoginRateLimiter(1, 2, 0, 0))

	assert.Equal(t, http.StatusOK, postAs(r, "a").Code)
	assert.Equal(t, http.StatusOK, postAs(r, "a").Code)

	w := postAs(r, "a")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// buckets are per actor
	assert.Equal(t, http.StatusOK, postAs(r, "b").Code)
}

func TestLoginRateLimiter_Disabled(t *testing.T) {
	r := newLimitedEngine(NewLoginRateLimiter(0, 0, 0, 0))
	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, postAs(r, "a").Code)
	}
}

func TestLoginRateLimiter_ForgetIdle(t *testing.T) {
	l := NewLoginRateLimiter(60, 1, 60, 5)
	r := newLimitedEngine(l)
	postAs(r, "a")
	postAs(r, "b")

	// two actor buckets and one shared address bucket
	assert.Equal(t, 0, l.forgetIdle(time.Now()))
	assert.Equal(t, 3, l.forgetIdle(time.Now().Add(time.Hour)))
}

func TestLoginRateLimiter_CookielessClientsShareAddressBudget(t *testing.T) {
	r := newLimitedEngine(NewLoginRateLimiter(1, 2, 1, 2))

	accepted := 0
	for i := 0; i < 50; i++ {
		if postFrom(r, "", "203.0.113.7:5000").Code == http.StatusOK {
			accepted++
		}
	}
	assert.Equal(t, 2, accepted, "a fresh actor per request must not reset the address bucket")

	// another address keeps its own budget
	assert.Equal(t, http.StatusOK, postFrom(r, "", "198.51.100.9:5000").Code)
}

func TestLoginRateLimiter_IgnoresForwardedForFromUntrustedPeers(t *testing.T) {
	r := newLimitedEngine(NewLoginRateLimiter(0, 0, 1, 1))
	require.NoError(t, r.SetTrustedProxies(nil))

	send := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/login/credentials", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		req.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.2"))
}

func TestLoginRateLimiter_RejectedSubmissionKeepsActorTokens(t *testing.T) {
	r := newLimitedEngine(NewLoginRateLimiter(1, 1, 1, 1))

	assert.Equal(t, http.StatusOK, postFrom(r, "a", "203.0.113.7:5000").Code)
	// address bucket empty: the actor's token is handed back
	assert.Equal(t, http.StatusTooManyRequests, postFrom(r, "b", "203.0.113.7:5000").Code)
	assert.Equal(t, http.StatusOK, postFrom(r, "b", "198.51.100.9:5000").Code)
}
