package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Castafa/News-ans-Public-opinion/domain"
	"github.com/Castafa/News-ans-Public-opinion/internal/mocks"
)

func TestLoginMachine_StartsIdle(t *testing.T) {
	f := newLoginFixture(t)
	m := NewLoginMachine("actor-1", f.cfg)

	assert.Equal(t, domain.StageIdle, m.Stage())
	assert.Nil(t, m.Attempt())
}

func TestLoginMachine_InvalidCredentials(t *testing.T) {
	admin := createAdminIdentity(t)
	user := createUserIdentity(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "unknown email", email: "nobody@x.com", password: "p"},
		{name: "wrong password for user", email: user.Email, password: "wrong"},
		{name: "wrong password for admin", email: admin.Email, password: "wrong"},
		{name: "email differs only by case", email: "U@X.COM", password: "p"},
		{name: "empty input", email: "", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLoginFixture(t, admin, user)
			m := NewLoginMachine("actor-1", f.cfg)

			res, err := m.SubmitCredentials(context.Background(), tt.email, tt.password)

			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.Equal(t, domain.StageAwaitingCredentials, res.Stage)
			assert.Equal(t, domain.StageAwaitingCredentials, m.Stage())
			assert.Nil(t, res.Session)

			current, _ := f.sessions.Current(context.Background(), "actor-1")
			assert.Nil(t, current)
		})
	}
}

func TestLoginMachine_UserLogsInDirectly(t *testing.T) {
	user := createUserIdentity(t)
	f := newLoginFixture(t, user)
	m := NewLoginMachine("actor-1", f.cfg)

	res, err := m.SubmitCredentials(context.Background(), "u@x.com", "p")
	require.NoError(t, err)

	assert.Equal(t, domain.StageDone, res.Stage)
	assert.Equal(t, domain.StageDone, m.Stage())
	require.NotNil(t, res.Session)
	assert.Same(t, user, res.Session.Identity)
	assert.Nil(t, m.Attempt())

	current, err := f.sessions.Current(context.Background(), "actor-1")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Same(t, user, current.Identity)
}

func TestLoginMachine_ClientLogsInDirectly(t *testing.T) {
	client := createClientIdentity(t)
	f := newLoginFixture(t, client)
	m := NewLoginMachine("actor-1", f.cfg)

	res, err := m.SubmitCredentials(context.Background(), "c@x.com", "p")
	require.NoError(t, err)
	assert.Equal(t, domain.StageDone, res.Stage)

	current, _ := f.sessions.Current(context.Background(), "actor-1")
	require.NotNil(t, current)
	assert.Equal(t, domain.RoleClient, current.Role())
}

func TestLoginMachine_AdminStepUp(t *testing.T) {
	t.Run("correct phone establishes session", func(t *testing.T) {
		admin := createAdminIdentity(t)
		f := newLoginFixture(t, admin)
		m := NewLoginMachine("actor-1", f.cfg)

		res, err := m.SubmitCredentials(context.Background(), "a@x.com", "p")
		require.NoError(t, err)
		assert.Equal(t, domain.StageAwaitingStepUp, res.Stage)
		assert.Nil(t, res.Session)

		current, _ := f.sessions.Current(context.Background(), "actor-1")
		assert.Nil(t, current, "no session may exist while step-up is pending")

		attempt := m.Attempt()
		require.NotNil(t, attempt)
		assert.Same(t, admin, attempt.Pending)

		res, err = m.SubmitStepUp(context.Background(), "555")
		require.NoError(t, err)
		assert.Equal(t, domain.StageDone, res.Stage)
		require.NotNil(t, res.Session)
		assert.Same(t, admin, res.Session.Identity)
		assert.Nil(t, m.Attempt())

		current, _ = f.sessions.Current(context.Background(), "actor-1")
		require.NotNil(t, current)
		assert.Equal(t, domain.RoleAdmin, current.Role())
	})

	t.Run("wrong phone keeps pending attempt", func(t *testing.T) {
		admin := createAdminIdentity(t)
		f := newLoginFixture(t, admin)
		m := NewLoginMachine("actor-1", f.cfg)

		_, err := m.SubmitCredentials(context.Background(), "a@x.com", "p")
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			res, err := m.SubmitStepUp(context.Background(), "000")
			assert.ErrorIs(t, err, domain.ErrInvalidStepUp)
			assert.Equal(t, domain.StageAwaitingStepUp, res.Stage)
			assert.Nil(t, res.Session)
		}

		current, _ := f.sessions.Current(context.Background(), "actor-1")
		assert.Nil(t, current)
		require.NotNil(t, m.Attempt())

		res, err := m.SubmitStepUp(context.Background(), "555")
		require.NoError(t, err, "retry after failures must still succeed")
		assert.Equal(t, domain.StageDone, res.Stage)
	})
}

func TestLoginMachine_StepUpWithoutEnrolledPhone(t *testing.T) {
	admin := createAdminIdentity(t)
	admin.Phone = ""
	f := newLoginFixture(t, admin)
	m := NewLoginMachine("actor-1", f.cfg)

	_, err := m.SubmitCredentials(context.Background(), "a@x.com", "p")
	require.NoError(t, err)

	_, err = m.SubmitStepUp(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidStepUp)
	assert.Equal(t, domain.StageAwaitingStepUp, m.Stage())
}

func TestLoginMachine_StepUpInWrongStage(t *testing.T) {
	user := createUserIdentity(t)

	tests := []struct {
		name  string
		setup func(m *LoginMachine)
	}{
		{name: "idle", setup: func(m *LoginMachine) {}},
		{name: "awaiting credentials", setup: func(m *LoginMachine) {
			_, _ = m.SubmitCredentials(context.Background(), "u@x.com", "bad")
		}},
		{name: "done", setup: func(m *LoginMachine) {
			_, _ = m.SubmitCredentials(context.Background(), "u@x.com", "p")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLoginFixture(t, user)
			m := NewLoginMachine("actor-1", f.cfg)
			tt.setup(m)
			before := m.Stage()

			_, err := m.SubmitStepUp(context.Background(), "111")
			assert.ErrorIs(t, err, domain.ErrInvalidState)
			assert.Equal(t, before, m.Stage())

			err = m.Cancel()
			assert.ErrorIs(t, err, domain.ErrInvalidState)
		})
	}
}

func TestLoginMachine_Cancel(t *testing.T) {
	admin := createAdminIdentity(t)
	f := newLoginFixture(t, admin)
	m := NewLoginMachine("actor-1", f.cfg)

	_, err := m.SubmitCredentials(context.Background(), "a@x.com", "p")
	require.NoError(t, err)
	_, _ = m.SubmitStepUp(context.Background(), "000")
	_, _ = m.SubmitStepUp(context.Background(), "001")

	require.NoError(t, m.Cancel())
	assert.Equal(t, domain.StageIdle, m.Stage())
	assert.Nil(t, m.Attempt())

	current, _ := f.sessions.Current(context.Background(), "actor-1")
	assert.Nil(t, current)

	_, err = m.SubmitStepUp(context.Background(), "555")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "cancelled attempt must not be completable")
}

func TestLoginMachine_ResubmitCredentialsReplacesPendingAttempt(t *testing.T) {
	admin := createAdminIdentity(t)
	user := createUserIdentity(t)
	f := newLoginFixture(t, admin, user)
	m := NewLoginMachine("actor-1", f.cfg)

	_, err := m.SubmitCredentials(context.Background(), "a@x.com", "p")
	require.NoError(t, err)
	require.Equal(t, domain.StageAwaitingStepUp, m.Stage())

	res, err := m.SubmitCredentials(context.Background(), "u@x.com", "p")
	require.NoError(t, err)
	assert.Equal(t, domain.StageDone, res.Stage)
	assert.Equal(t, domain.RoleUser, res.Session.Role())

	_, err = m.SubmitStepUp(context.Background(), "555")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "the replaced admin attempt is gone")
}

func TestLoginMachine_ResubmitWithBadCredentialsDropsPendingIdentity(t *testing.T) {
	admin := createAdminIdentity(t)
	f := newLoginFixture(t, admin)
	m := NewLoginMachine("actor-1", f.cfg)

	_, err := m.SubmitCredentials(context.Background(), "a@x.com", "p")
	require.NoError(t, err)

	_, err = m.SubmitCredentials(context.Background(), "a@x.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, domain.StageAwaitingCredentials, m.Stage())

	_, err = m.SubmitStepUp(context.Background(), "555")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestLoginMachine_DirectoryUnavailable(t *testing.T) {
	f := newLoginFixture(t)
	f.directory.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Identity, error) {
		return nil, errors.New("connection refused")
	}
	m := NewLoginMachine("actor-1", f.cfg)

	res, err := m.SubmitCredentials(context.Background(), "u@x.com", "p")

	assert.ErrorIs(t, err, domain.ErrDirectoryUnavailable)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, domain.StageAwaitingCredentials, res.Stage)
}

func TestLoginMachine_SessionStoreFailureKeepsStepUpPending(t *testing.T) {
	admin := createAdminIdentity(t)
	f := newLoginFixture(t, admin)
	store := mocks.NewMockSessionStore()
	store.EstablishFunc = func(ctx context.Context, actorID string, identity *domain.Identity) (*domain.Session, error) {
		return nil, errors.New("redis down")
	}
	f.cfg.Sessions = store
	m := NewLoginMachine("actor-1", f.cfg)

	_, err := m.SubmitCredentials(context.Background(), "a@x.com", "p")
	require.NoError(t, err)

	res, err := m.SubmitStepUp(context.Background(), "555")
	assert.ErrorIs(t, err, domain.ErrSessionStoreUnavailable)
	assert.Equal(t, domain.StageAwaitingStepUp, res.Stage)
	assert.NotNil(t, m.Attempt())
}

func TestLoginMachine_AttemptExpires(t *testing.T) {
	admin := createAdminIdentity(t)
	f := newLoginFixture(t, admin)
	m := NewLoginMachine("actor-1", f.cfg)

	_, err := m.SubmitCredentials(context.Background(), "a@x.com", "p")
	require.NoError(t, err)

	f.clock.Advance(9 * time.Minute)
	assert.Equal(t, domain.StageAwaitingStepUp, m.Stage())

	f.clock.Advance(2 * time.Minute)
	assert.Equal(t, domain.StageIdle, m.Stage())
	assert.True(t, m.Expired())

	_, err = m.SubmitStepUp(context.Background(), "555")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestLoginMachine_PolicyOverride(t *testing.T) {
	user := createUserIdentity(t)
	admin := createAdminIdentity(t)

	t.Run("user escalated", func(t *testing.T) {
		f := newLoginFixture(t, user)
		f.cfg.Policy = StepUpPolicy{domain.RoleAdmin: true, domain.RoleUser: true, domain.RoleClient: false}
		m := NewLoginMachine("actor-1", f.cfg)

		res, err := m.SubmitCredentials(context.Background(), "u@x.com", "p")
		require.NoError(t, err)
		assert.Equal(t, domain.StageAwaitingStepUp, res.Stage)

		res, err = m.SubmitStepUp(context.Background(), "111")
		require.NoError(t, err)
		assert.Equal(t, domain.StageDone, res.Stage)
	})

	t.Run("admin step-up disabled", func(t *testing.T) {
		f := newLoginFixture(t, admin)
		f.cfg.Policy = StepUpPolicy{domain.RoleAdmin: false}
		m := NewLoginMachine("actor-1", f.cfg)

		res, err := m.SubmitCredentials(context.Background(), "a@x.com", "p")
		require.NoError(t, err)
		assert.Equal(t, domain.StageDone, res.Stage)
	})
}

func TestLoginMachine_HandsPendingIdentityToStepUpVerifier(t *testing.T) {
	admin := createAdminIdentity(t)
	f := newLoginFixture(t)

	credentials := &mocks.MockCredentialVerifier{
		VerifyFunc: func(ctx context.Context, email, password string) (*domain.Identity, error) {
			if email == admin.Email && password == "p" {
				return admin, nil
			}
			return nil, nil
		},
	}
	var seen *domain.Identity
	stepUp := &mocks.MockStepUpVerifier{
		VerifyFunc: func(ctx context.Context, pending *domain.Identity, factor string) bool {
			seen = pending
			return factor == "ok"
		},
	}
	cfg := f.cfg
	cfg.Credentials = credentials
	cfg.StepUp = stepUp
	m := NewLoginMachine("actor-1", cfg)

	res, err := m.SubmitCredentials(context.Background(), admin.Email, "p")
	require.NoError(t, err)
	require.Equal(t, domain.StageAwaitingStepUp, res.Stage)

	_, err = m.SubmitStepUp(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidStepUp)
	assert.Same(t, admin, seen)

	res, err = m.SubmitStepUp(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, domain.StageDone, res.Stage)
	assert.Same(t, admin, res.Session.Identity)
}

func TestLoginMachine_DefaultMockVerifiersRejectEverything(t *testing.T) {
	f := newLoginFixture(t)
	cfg := f.cfg
	cfg.Credentials = &mocks.MockCredentialVerifier{}
	cfg.StepUp = &mocks.MockStepUpVerifier{}
	m := NewLoginMachine("actor-1", cfg)

	_, err := m.SubmitCredentials(context.Background(), "a@x.com", "p")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
