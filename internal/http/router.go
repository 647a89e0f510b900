package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Castafa/News-ans-Public-opinion/domain"
	"github.com/Castafa/News-ans-Public-opinion/internal/http/handlers"
	"github.com/Castafa/News-ans-Public-opinion/internal/http/middleware"
)

// Deps is everything the router needs
type Deps struct {
	Login    *handlers.LoginHandlers
	Pages    *handlers.PageHandlers
	Policies *handlers.PolicyHandlers

	Actor    *middleware.ActorMW
	Guard    *middleware.GuardMW
	Limiter  *middleware.LoginRateLimiter
	Sessions domain.SessionStore

	// Proxies whose X-Forwarded-For is believed; empty trusts none
	Proxies []string

	Log zerolog.Logger
}

// BuildRouter wires routes and middleware. Every route passes the guard;
// the resource registry decides which ones are gated.
func BuildRouter(d Deps) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(d.Proxies); err != nil {
		d.Log.Error().Err(err).Strs("proxies", d.Proxies).Msg("invalid trusted proxies, trusting none")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	chain := []gin.HandlerFunc{d.Actor.Identify(), middleware.Session(d.Sessions, d.Log), d.Guard.Enforce()}
	v := r.Group("/", chain...)

	v.GET("/", d.Pages.Home)
	v.GET("/news", d.Pages.News)
	v.GET("/about", d.Pages.About)
	v.GET("/contact", d.Pages.Contact)
	v.GET("/articles/:id", d.Pages.Article)

	v.GET("/login", d.Login.Status)
	v.POST("/login/credentials", d.Limiter.Limit(), d.Login.SubmitCredentials)
	v.POST("/login/step-up", d.Limiter.Limit(), d.Login.SubmitStepUp)
	v.POST("/login/cancel", d.Login.Cancel)
	v.POST("/logout", d.Login.Logout)
	v.GET("/me", d.Login.Me)

	v.GET("/admin", d.Pages.AdminSection("dashboard"))
	for _, s := range handlers.AdminSections() {
		v.GET(s.Path, d.Pages.AdminSection(s.Path[len("/admin/"):]))
	}
	v.GET("/admin/policies", d.Policies.List)
	v.POST("/admin/policies", d.Policies.Add)
	v.DELETE("/admin/policies", d.Policies.Remove)

	v.GET("/user", d.Pages.UserSection("profile"))
	for _, s := range handlers.UserSections() {
		v.GET(s.Path, d.Pages.UserSection(s.Path[len("/user/"):]))
	}

	// unknown paths under a gated prefix still answer with the guard's outcome
	r.NoRoute(append(chain, func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})...)

	return r
}
