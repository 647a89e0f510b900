package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Castafa/News-ans-Public-opinion/domain"
	"github.com/Castafa/News-ans-Public-opinion/internal/config"
	"github.com/Castafa/News-ans-Public-opinion/internal/infrastructure/auth"
	"github.com/Castafa/News-ans-Public-opinion/internal/infrastructure/database"
	"github.com/Castafa/News-ans-Public-opinion/internal/infrastructure/notifications"
	"github.com/Castafa/News-ans-Public-opinion/internal/infrastructure/repositories"
	"github.com/Castafa/News-ans-Public-opinion/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Log    zerolog.Logger

	// Infrastructure
	DB    *gorm.DB
	Redis *database.RedisClient

	// Repositories
	UserRepo    domain.UserRepository
	ArticleRepo domain.ArticleRepository
	Sessions    domain.SessionStore

	// Services
	PasswordSvc     domain.PasswordService
	ActorTokens     domain.ActorTokenService
	NotificationSvc domain.NotificationService
	Audit           domain.AuditLogger
	PolicySvc       *services.PolicyServiceImpl
	LoginSvc        *services.LoginServiceImpl
	ContentSvc      *services.ContentService
	Guard           domain.AccessGuard
}

// NewContainer creates and initializes all dependencies
func NewContainer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	if err := c.initSessions(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initServices(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) initDatabase() error {
	level := logger.Silent
	if c.Config.LogSQL {
		level = logger.Info
	}
	db, err := database.Open(c.Config.DBDriver, c.Config.DSN, level)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	c.DB = db
	c.UserRepo = repositories.NewUserRepository(db)
	c.ArticleRepo = repositories.NewArticleRepository(db)
	return nil
}

func (c *Container) initSessions(ctx context.Context) error {
	switch c.Config.SessionBackend {
	case "memory":
		c.Sessions = services.NewMemorySessionStore()
	default:
		c.Redis = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
		if err := c.Redis.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		c.Sessions = repositories.NewSessionRepository(c.Redis.Client, c.Config.SessionTTL)
	}
	c.Log.Info().Str("backend", c.Config.SessionBackend).Msg("session store ready")
	return nil
}

func (c *Container) initServices() error {
	c.PasswordSvc = auth.NewPasswordService(c.Config.BcryptCost)
	c.ActorTokens = auth.NewActorTokenService(c.Config.ActorSecret, c.Config.ActorIssuer, c.Config.ActorTTL)
	c.NotificationSvc = notifications.NewTwilioService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
		c.Log.With().Str("component", "twilio").Logger(),
	)
	c.Audit = services.NewAuditLogger(c.Log)

	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath, services.RBACModel)
	if err != nil {
		return err
	}
	c.PolicySvc = services.NewPolicyService(cas.E)

	policy, err := services.StepUpPolicyFromMap(c.Config.StepUp)
	if err != nil {
		return err
	}

	opts := []services.LoginServiceOption{
		services.WithAuditLogger(c.Audit),
		services.WithLogger(c.Log.With().Str("component", "login").Logger()),
	}
	if c.Config.AlertOnStepUp {
		opts = append(opts, services.WithPrivilegedLoginAlerts(c.NotificationSvc))
	}
	c.LoginSvc = services.NewLoginService(services.LoginMachineConfig{
		Credentials: services.NewCredentialVerifier(c.UserRepo, c.PasswordSvc, c.Config.DirectoryTimeout),
		StepUp:      services.NewStepUpVerifier(),
		Sessions:    c.Sessions,
		Policy:      policy,
		AttemptTTL:  c.Config.AttemptTTL,
	}, opts...)

	c.ContentSvc = services.NewContentService(c.ArticleRepo)

	unauthorized := domain.OutcomeRedirectToHome
	if c.Config.Unauthorized == "forbidden" {
		unauthorized = domain.OutcomeForbidden
	}
	c.Guard = services.NewAccessGuard(services.GuardConfig{
		LoginPath:    c.Config.LoginPath,
		HomePath:     c.Config.HomePath,
		Unauthorized: unauthorized,
	})
	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Redis != nil {
		c.Redis.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
