package services

import (
	"testing"
	"time"

	"github.com/Castafa/News-ans-Public-opinion/domain"
	"github.com/Castafa/News-ans-Public-opinion/internal/mocks"
)

// fakeClock is a controllable time source
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// createUserIdentity creates a USER identity with password "p"
func createUserIdentity(t *testing.T) *domain.Identity {
	t.Helper()

	return &domain.Identity{
		ID:             "user-1",
		Name:           "Regular User",
		Email:          "u@x.com",
		Role:           domain.RoleUser,
		Phone:          "111",
		CredentialHash: "hashed_p",
		CreatedAt:      time.Now().Add(-24 * time.Hour),
	}
}

// createAdminIdentity creates an ADMIN identity with password "p" and phone "555"
func createAdminIdentity(t *testing.T) *domain.Identity {
	t.Helper()

	return &domain.Identity{
		ID:             "admin-1",
		Name:           "Site Admin",
		Email:          "a@x.com",
		Role:           domain.RoleAdmin,
		Phone:          "555",
		CredentialHash: "hashed_p",
		CreatedAt:      time.Now().Add(-24 * time.Hour),
	}
}

// createClientIdentity creates a CLIENT identity with password "p"
func createClientIdentity(t *testing.T) *domain.Identity {
	t.Helper()

	return &domain.Identity{
		ID:             "client-1",
		Name:           "Client",
		Email:          "c@x.com",
		Role:           domain.RoleClient,
		CredentialHash: "hashed_p",
	}
}

// loginFixture wires a machine config over a mock directory and an in-memory
// session store
type loginFixture struct {
	directory *mocks.MockUserRepository
	passwords *mocks.MockPasswordService
	sessions  *MemorySessionStore
	clock     *fakeClock
	cfg       LoginMachineConfig
}

func newLoginFixture(t *testing.T, identities ...*domain.Identity) *loginFixture {
	t.Helper()

	f := &loginFixture{
		directory: mocks.NewMockDirectory(identities...),
		passwords: mocks.NewMockPasswordService(),
		sessions:  NewMemorySessionStore(),
		clock:     newFakeClock(),
	}
	f.cfg = LoginMachineConfig{
		Credentials: NewCredentialVerifier(f.directory, f.passwords, 0),
		StepUp:      NewStepUpVerifier(),
		Sessions:    f.sessions,
		Policy:      DefaultStepUpPolicy(),
		AttemptTTL:  10 * time.Minute,
		Now:         f.clock.Now,
	}
	return f
}
