package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Castafa/News-ans-Public-opinion/internal/config"
	httpx "github.com/Castafa/News-ans-Public-opinion/internal/http"
	"github.com/Castafa/News-ans-Public-opinion/internal/http/handlers"
	"github.com/Castafa/News-ans-Public-opinion/internal/http/middleware"
)

const shutdownTimeout = 10 * time.Second

// Handler builds the HTTP handler over the container and starts the
// background sweepers, which stop with ctx
func (c *Container) Handler(ctx context.Context) http.Handler {
	cfg := c.Config
	limiter := middleware.NewLoginRateLimiter(cfg.LoginRatePerMin, cfg.LoginRateBurst, cfg.IPRatePerMin, cfg.IPRateBurst)

	if cfg.SweepInterval > 0 {
		go c.LoginSvc.RunSweeper(ctx, cfg.SweepInterval)
		go limiter.Run(ctx, cfg.SweepInterval)
	}

	return httpx.BuildRouter(httpx.Deps{
		Login:    handlers.NewLoginHandlers(c.LoginSvc, c.Log),
		Pages:    handlers.NewPageHandlers(c.ContentSvc, c.UserRepo, cfg.SiteTitle, c.Log),
		Policies: handlers.NewPolicyHandlers(c.PolicySvc, c.Log),
		Actor:    middleware.NewActorMW(c.ActorTokens, cfg.ActorCookie, cfg.ActorTTL, cfg.SecureCookie, c.Log),
		Guard:    middleware.NewGuardMW(c.PolicySvc, c.Guard, c.Audit, c.Log),
		Limiter:  limiter,
		Sessions: c.Sessions,
		Proxies:  cfg.TrustedProxies,
		Log:      c.Log,
	})
}

// Run serves until ctx is cancelled, then drains in-flight requests
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Seed(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(ctx),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
