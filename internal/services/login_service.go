package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Castafa/News-ans-Public-opinion/domain"
	"github.com/Castafa/News-ans-Public-opinion/internal/metrics"
)

// machineEntry counts the calls currently holding a machine. A machine
// with callers is never inspected or dropped by cleanup, so s.mu is never
// held while waiting on a machine busy with a directory lookup.
type machineEntry struct {
	m     *LoginMachine
	users int
}

// LoginServiceImpl implements domain.LoginService by keeping one LoginMachine
// per actor. Machines exist only while an attempt is in progress.
type LoginServiceImpl struct {
	mu       sync.Mutex
	machines map[string]*machineEntry

	machineCfg LoginMachineConfig
	sessions   domain.SessionStore
	audit      domain.AuditLogger
	alerts     domain.NotificationService
	log        zerolog.Logger
}

// LoginServiceOption customises a LoginServiceImpl
type LoginServiceOption func(*LoginServiceImpl)

// WithAuditLogger records login events
func WithAuditLogger(a domain.AuditLogger) LoginServiceOption {
	return func(s *LoginServiceImpl) { s.audit = a }
}

// WithPrivilegedLoginAlerts texts the identity's enrolled phone whenever a
// login that required step-up completes
func WithPrivilegedLoginAlerts(n domain.NotificationService) LoginServiceOption {
	return func(s *LoginServiceImpl) { s.alerts = n }
}

// WithLogger sets the service logger
func WithLogger(l zerolog.Logger) LoginServiceOption {
	return func(s *LoginServiceImpl) { s.log = l }
}

// NewLoginService creates the login service
func NewLoginService(cfg LoginMachineConfig, opts ...LoginServiceOption) *LoginServiceImpl {
	if cfg.Policy == nil {
		cfg.Policy = DefaultStepUpPolicy()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &LoginServiceImpl{
		machines:   make(map[string]*machineEntry),
		machineCfg: cfg,
		sessions:   cfg.Sessions,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stage implements domain.LoginService
func (s *LoginServiceImpl) Stage(actorID string) domain.LoginStage {
	m := s.acquire(actorID, false)
	if m == nil {
		return domain.StageIdle
	}
	defer s.release(actorID, m)
	return m.Stage()
}

// SubmitCredentials implements domain.LoginService
func (s *LoginServiceImpl) SubmitCredentials(ctx context.Context, actorID, email, password string) (*domain.LoginResult, error) {
	m := s.acquire(actorID, true)
	defer s.release(actorID, m)
	res, err := m.SubmitCredentials(ctx, email, password)

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginStepsTotal.WithLabelValues("credentials", "invalid_credentials").Inc()
		s.record(ctx, domain.NewAuditEvent(domain.CredentialsRejectedEvent, actorID).WithEmail(email).WithError(err))
		s.log.Info().Str("actor_id", actorID).Msg("login: credentials rejected")
	case err != nil:
		metrics.LoginStepsTotal.WithLabelValues("credentials", "unavailable").Inc()
		s.log.Error().Err(err).Str("actor_id", actorID).Msg("login: credential check failed")
	case res.Stage == domain.StageAwaitingStepUp:
		metrics.LoginStepsTotal.WithLabelValues("credentials", "step_up_required").Inc()
		pending := m.Attempt()
		if pending != nil {
			s.record(ctx, domain.NewAuditEvent(domain.StepUpRequiredEvent, actorID).WithIdentity(pending.Pending))
		}
		s.log.Info().Str("actor_id", actorID).Msg("login: step-up required")
	default:
		metrics.LoginStepsTotal.WithLabelValues("credentials", "session").Inc()
		s.onSession(ctx, actorID, res.Session, false)
	}

	return res, err
}

// SubmitStepUp implements domain.LoginService
func (s *LoginServiceImpl) SubmitStepUp(ctx context.Context, actorID, factor string) (*domain.LoginResult, error) {
	m := s.acquire(actorID, false)
	if m == nil {
		metrics.LoginStepsTotal.WithLabelValues("step_up", "invalid_state").Inc()
		return &domain.LoginResult{Stage: domain.StageIdle}, fmt.Errorf("%w: no login attempt in progress", domain.ErrInvalidState)
	}
	defer s.release(actorID, m)

	res, err := m.SubmitStepUp(ctx, factor)
	switch {
	case errors.Is(err, domain.ErrInvalidState):
		metrics.LoginStepsTotal.WithLabelValues("step_up", "invalid_state").Inc()
		s.log.Warn().Str("actor_id", actorID).Str("stage", string(res.Stage)).Msg("login: step-up out of order")
	case errors.Is(err, domain.ErrInvalidStepUp):
		metrics.LoginStepsTotal.WithLabelValues("step_up", "invalid_step_up").Inc()
		event := domain.NewAuditEvent(domain.StepUpFailedEvent, actorID).WithError(err)
		if a := m.Attempt(); a != nil {
			event.WithIdentity(a.Pending)
		}
		s.record(ctx, event)
		s.log.Info().Str("actor_id", actorID).Msg("login: step-up rejected")
	case err != nil:
		metrics.LoginStepsTotal.WithLabelValues("step_up", "unavailable").Inc()
		s.log.Error().Err(err).Str("actor_id", actorID).Msg("login: step-up completion failed")
	default:
		metrics.LoginStepsTotal.WithLabelValues("step_up", "session").Inc()
		s.onSession(ctx, actorID, res.Session, true)
	}

	return res, err
}

// Cancel implements domain.LoginService
func (s *LoginServiceImpl) Cancel(ctx context.Context, actorID string) error {
	m := s.acquire(actorID, false)
	if m == nil {
		metrics.LoginStepsTotal.WithLabelValues("cancel", "invalid_state").Inc()
		return fmt.Errorf("%w: no login attempt in progress", domain.ErrInvalidState)
	}
	defer s.release(actorID, m)
	if err := m.Cancel(); err != nil {
		metrics.LoginStepsTotal.WithLabelValues("cancel", "invalid_state").Inc()
		return err
	}
	metrics.LoginStepsTotal.WithLabelValues("cancel", "cancelled").Inc()
	s.record(ctx, domain.NewAuditEvent(domain.LoginCancelledEvent, actorID))
	return nil
}

// Logout implements domain.LoginService. It drops any pending attempt as well
// as the session and is safe to call repeatedly.
func (s *LoginServiceImpl) Logout(ctx context.Context, actorID string) error {
	s.mu.Lock()
	if _, ok := s.machines[actorID]; ok {
		delete(s.machines, actorID)
		metrics.PendingLoginAttempts.Set(float64(len(s.machines)))
	}
	s.mu.Unlock()

	if err := s.sessions.Clear(ctx, actorID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSessionStoreUnavailable, err)
	}
	s.record(ctx, domain.NewAuditEvent(domain.UserLogoutEvent, actorID))
	s.log.Info().Str("actor_id", actorID).Msg("logout")
	return nil
}

// Sweep drops idle machines whose attempts have expired and returns how
// many. Machines in use by a call are left to that call's release.
func (s *LoginServiceImpl) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.machines {
		if e.users == 0 && e.m.Expired() {
			delete(s.machines, id)
			removed++
		}
	}
	metrics.PendingLoginAttempts.Set(float64(len(s.machines)))
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done
func (s *LoginServiceImpl) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Debug().Int("removed", n).Msg("login: swept expired attempts")
			}
		}
	}
}

// Pending returns the number of actors holding a machine
func (s *LoginServiceImpl) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.machines)
}

// acquire returns the actor's machine, creating it when asked, and marks it
// in use until release
func (s *LoginServiceImpl) acquire(actorID string, create bool) *LoginMachine {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.machines[actorID]
	if !ok {
		if !create {
			return nil
		}
		e = &machineEntry{m: NewLoginMachine(actorID, s.machineCfg)}
		s.machines[actorID] = e
		metrics.PendingLoginAttempts.Set(float64(len(s.machines)))
	}
	e.users++
	return e.m
}

// release ends a call on m and drops the machine once the last caller is
// gone and it holds no attempt. With no callers left nobody holds m's lock,
// so Expired does not block here.
func (s *LoginServiceImpl) release(actorID string, m *LoginMachine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.machines[actorID]
	if !ok || e.m != m {
		return
	}
	e.users--
	if e.users == 0 && m.Expired() {
		delete(s.machines, actorID)
		metrics.PendingLoginAttempts.Set(float64(len(s.machines)))
	}
}

func (s *LoginServiceImpl) onSession(ctx context.Context, actorID string, session *domain.Session, steppedUp bool) {
	if session == nil {
		return
	}
	event := domain.NewAuditEvent(domain.SessionEstablishedEvent, actorID).
		WithIdentity(session.Identity).
		WithMetadata("step_up", steppedUp)
	s.record(ctx, event)
	s.log.Info().
		Str("actor_id", actorID).
		Str("role", string(session.Role())).
		Bool("step_up", steppedUp).
		Msg("login: session established")

	if steppedUp && s.alerts != nil && session.Identity.HasSecondFactor() {
		msg := fmt.Sprintf("New administrator sign-in at %s. If this was not you, contact support.",
			session.EstablishedAt.UTC().Format(time.RFC1123))
		if err := s.alerts.SendSMS(session.Identity.Phone, msg); err != nil {
			s.log.Warn().Err(err).Str("actor_id", actorID).Msg("login: privileged sign-in alert failed")
		}
	}
}

func (s *LoginServiceImpl) record(ctx context.Context, event *domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	s.audit.LogEvent(ctx, event.WithClientContext(domain.ClientContextFrom(ctx)))
}

var _ domain.LoginService = (*LoginServiceImpl)(nil)
