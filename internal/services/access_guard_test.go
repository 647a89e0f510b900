package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

func adminRule() domain.AccessRule {
	return domain.AccessRule{ResourceID: "/admin", AllowedRoles: []domain.Role{domain.RoleAdmin}}
}

func sessionFor(identity *domain.Identity) *domain.Session {
	return &domain.Session{ActorID: "actor-1", Identity: identity}
}

func TestAccessGuard_Decide(t *testing.T) {
	guard := NewAccessGuard(DefaultGuardConfig())

	tests := []struct {
		name    string
		session *domain.Session
		rule    domain.AccessRule
		want    domain.Decision
	}{
		{
			name:    "anonymous is sent to login with return path",
			session: nil,
			rule:    adminRule(),
			want:    domain.Decision{Outcome: domain.OutcomeRedirectToLogin, Target: "/login", ReturnTo: "/admin"},
		},
		{
			name:    "session without identity counts as anonymous",
			session: &domain.Session{ActorID: "actor-1"},
			rule:    adminRule(),
			want:    domain.Decision{Outcome: domain.OutcomeRedirectToLogin, Target: "/login", ReturnTo: "/admin"},
		},
		{
			name:    "user on admin page goes home",
			session: sessionFor(createUserIdentity(t)),
			rule:    adminRule(),
			want:    domain.Decision{Outcome: domain.OutcomeRedirectToHome, Target: "/"},
		},
		{
			name:    "admin is allowed",
			session: sessionFor(createAdminIdentity(t)),
			rule:    adminRule(),
			want:    domain.Decision{Outcome: domain.OutcomeAllow},
		},
		{
			name:    "admin on user page goes home",
			session: sessionFor(createAdminIdentity(t)),
			rule:    domain.AccessRule{ResourceID: "/user", AllowedRoles: []domain.Role{domain.RoleUser}},
			want:    domain.Decision{Outcome: domain.OutcomeRedirectToHome, Target: "/"},
		},
		{
			name:    "empty allow list admits nobody",
			session: sessionFor(createAdminIdentity(t)),
			rule:    domain.AccessRule{ResourceID: "/locked"},
			want:    domain.Decision{Outcome: domain.OutcomeRedirectToHome, Target: "/"},
		},
		{
			name:    "anonymous on empty allow list still goes to login",
			session: nil,
			rule:    domain.AccessRule{ResourceID: "/locked"},
			want:    domain.Decision{Outcome: domain.OutcomeRedirectToLogin, Target: "/login", ReturnTo: "/locked"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guard.Decide(tt.session, tt.rule))
		})
	}
}

func TestAccessGuard_ForbiddenOutcome(t *testing.T) {
	guard := NewAccessGuard(GuardConfig{Unauthorized: domain.OutcomeForbidden})

	got := guard.Decide(sessionFor(createUserIdentity(t)), adminRule())
	assert.Equal(t, domain.OutcomeForbidden, got.Outcome)
	assert.Empty(t, got.Target)

	got = guard.Decide(nil, adminRule())
	assert.Equal(t, domain.OutcomeRedirectToLogin, got.Outcome, "anonymous actors are still asked to log in")
}

func TestAccessGuard_ConfigDefaults(t *testing.T) {
	guard := NewAccessGuard(GuardConfig{Unauthorized: domain.OutcomeAllow})

	got := guard.Decide(sessionFor(createUserIdentity(t)), adminRule())
	assert.Equal(t, domain.Decision{Outcome: domain.OutcomeRedirectToHome, Target: "/"}, got)
}

func TestAccessGuard_IsPure(t *testing.T) {
	guard := NewAccessGuard(DefaultGuardConfig())
	session := sessionFor(createUserIdentity(t))
	rule := adminRule()

	first := guard.Decide(session, rule)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, guard.Decide(session, rule))
	}
	assert.Equal(t, []domain.Role{domain.RoleAdmin}, rule.AllowedRoles)
	assert.Equal(t, domain.RoleUser, session.Role())
}
