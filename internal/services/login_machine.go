package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// LoginMachineConfig carries the collaborators of a LoginMachine
type LoginMachineConfig struct {
	Credentials domain.CredentialVerifier
	StepUp      domain.StepUpVerifier
	Sessions    domain.SessionStore
	Policy      StepUpPolicy
	// AttemptTTL discards a pending attempt older than this; zero disables it
	AttemptTTL time.Duration
	Now        func() time.Time
}

// LoginMachine runs the login protocol for a single actor.
//
//	IDLE -> AWAITING_CREDENTIALS -> DONE
//	                             -> AWAITING_STEP_UP -> DONE
//	                                                 -> IDLE (cancel)
//
// A session is only established on entry to DONE. Calls are serialised by
// the machine's own lock, so concurrent submissions for one actor queue up
// instead of racing.
type LoginMachine struct {
	mu      sync.Mutex
	actorID string
	cfg     LoginMachineConfig
	stage   domain.LoginStage
	attempt *domain.LoginAttempt
}

// NewLoginMachine creates a machine in the IDLE stage
func NewLoginMachine(actorID string, cfg LoginMachineConfig) *LoginMachine {
	if cfg.Policy == nil {
		cfg.Policy = DefaultStepUpPolicy()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &LoginMachine{
		actorID: actorID,
		cfg:     cfg,
		stage:   domain.StageIdle,
	}
}

// Stage returns the current stage
func (m *LoginMachine) Stage() domain.LoginStage {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked()
	return m.stage
}

// Attempt returns a copy of the in-progress attempt, or nil
func (m *LoginMachine) Attempt() *domain.LoginAttempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked()
	if m.attempt == nil {
		return nil
	}
	cp := *m.attempt
	return &cp
}

// SubmitCredentials verifies an email/password pair. Submitting while a
// step-up is pending abandons that attempt and starts a new one.
func (m *LoginMachine) SubmitCredentials(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempt = &domain.LoginAttempt{
		Stage:     domain.StageAwaitingCredentials,
		StartedAt: m.cfg.Now(),
	}
	m.stage = domain.StageAwaitingCredentials

	identity, err := m.cfg.Credentials.Verify(ctx, email, password)
	if err != nil {
		return m.resultLocked(nil), err
	}
	if identity == nil {
		return m.resultLocked(nil), domain.ErrInvalidCredentials
	}

	if m.cfg.Policy.Requires(identity.Role) {
		m.attempt.Stage = domain.StageAwaitingStepUp
		m.attempt.Pending = identity
		m.stage = domain.StageAwaitingStepUp
		return m.resultLocked(nil), nil
	}

	return m.completeLocked(ctx, identity)
}

// SubmitStepUp checks the second factor of the pending identity. A mismatch
// keeps the pending identity so the actor can retry.
func (m *LoginMachine) SubmitStepUp(ctx context.Context, factor string) (*domain.LoginResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked()

	if m.stage != domain.StageAwaitingStepUp || m.attempt == nil || m.attempt.Pending == nil {
		return m.resultLocked(nil), fmt.Errorf("%w: step-up submitted in stage %s", domain.ErrInvalidState, m.stage)
	}

	if !m.cfg.StepUp.Verify(ctx, m.attempt.Pending, factor) {
		return m.resultLocked(nil), domain.ErrInvalidStepUp
	}

	return m.completeLocked(ctx, m.attempt.Pending)
}

// Cancel abandons a pending step-up and returns to IDLE
func (m *LoginMachine) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked()

	if m.stage != domain.StageAwaitingStepUp {
		return fmt.Errorf("%w: cancel in stage %s", domain.ErrInvalidState, m.stage)
	}
	m.resetLocked()
	return nil
}

// Expired reports whether the machine holds nothing worth keeping
func (m *LoginMachine) Expired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked()
	return m.attempt == nil
}

func (m *LoginMachine) completeLocked(ctx context.Context, identity *domain.Identity) (*domain.LoginResult, error) {
	session, err := m.cfg.Sessions.Establish(ctx, m.actorID, identity)
	if err != nil {
		return m.resultLocked(nil), fmt.Errorf("%w: %v", domain.ErrSessionStoreUnavailable, err)
	}
	m.attempt = nil
	m.stage = domain.StageDone
	return m.resultLocked(session), nil
}

func (m *LoginMachine) resetLocked() {
	m.attempt = nil
	m.stage = domain.StageIdle
}

func (m *LoginMachine) expireLocked() {
	if m.attempt == nil || m.cfg.AttemptTTL <= 0 {
		return
	}
	if m.cfg.Now().Sub(m.attempt.StartedAt) > m.cfg.AttemptTTL {
		m.resetLocked()
	}
}

func (m *LoginMachine) resultLocked(session *domain.Session) *domain.LoginResult {
	return &domain.LoginResult{Stage: m.stage, Session: session}
}
