package services

import (
	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// GuardConfig configures where the access guard sends actors
type GuardConfig struct {
	LoginPath string
	HomePath  string
	// Unauthorized is the outcome for an authenticated actor whose role is
	// not allowed: OutcomeRedirectToHome or OutcomeForbidden.
	Unauthorized domain.Outcome
}

// DefaultGuardConfig sends unauthorized actors home, like the original site
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		LoginPath:    "/login",
		HomePath:     "/",
		Unauthorized: domain.OutcomeRedirectToHome,
	}
}

// AccessGuardImpl implements domain.AccessGuard
type AccessGuardImpl struct {
	cfg GuardConfig
}

// NewAccessGuard creates an access guard. Unknown unauthorized outcomes fall
// back to OutcomeRedirectToHome.
func NewAccessGuard(cfg GuardConfig) *AccessGuardImpl {
	def := DefaultGuardConfig()
	if cfg.LoginPath == "" {
		cfg.LoginPath = def.LoginPath
	}
	if cfg.HomePath == "" {
		cfg.HomePath = def.HomePath
	}
	if cfg.Unauthorized != domain.OutcomeForbidden {
		cfg.Unauthorized = domain.OutcomeRedirectToHome
	}
	return &AccessGuardImpl{cfg: cfg}
}

// Decide implements domain.AccessGuard. Order matters: the session check
// comes before the role check.
func (g *AccessGuardImpl) Decide(session *domain.Session, rule domain.AccessRule) domain.Decision {
	if session == nil || session.Identity == nil {
		return domain.Decision{
			Outcome:  domain.OutcomeRedirectToLogin,
			Target:   g.cfg.LoginPath,
			ReturnTo: rule.ResourceID,
		}
	}

	if !rule.Allows(session.Identity.Role) {
		if g.cfg.Unauthorized == domain.OutcomeForbidden {
			return domain.Decision{Outcome: domain.OutcomeForbidden}
		}
		return domain.Decision{
			Outcome: domain.OutcomeRedirectToHome,
			Target:  g.cfg.HomePath,
		}
	}

	return domain.Decision{Outcome: domain.OutcomeAllow}
}

var _ domain.AccessGuard = (*AccessGuardImpl)(nil)
