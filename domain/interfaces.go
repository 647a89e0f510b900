package domain

import "context"

// UserDirectory is the read side of the user store consumed by the verifiers
type UserDirectory interface {
	// FindByEmail returns ErrUserNotFound when no identity has the exact email
	FindByEmail(ctx context.Context, email string) (*Identity, error)
}

// UserRepository defines user data access operations
type UserRepository interface {
	UserDirectory
	Create(ctx context.Context, identity *Identity) error
	FindByID(ctx context.Context, id string) (*Identity, error)
	List(ctx context.Context) ([]*Identity, error)
	Count(ctx context.Context) (int64, error)
}

// ArticleRepository defines article data access operations
type ArticleRepository interface {
	Create(ctx context.Context, article *Article) error
	FindByID(ctx context.Context, id string) (*Article, error)
	ListByStatus(ctx context.Context, status ArticleStatus) ([]*Article, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*Article, error)
	Count(ctx context.Context) (int64, error)
}

// CredentialVerifier checks an email/password pair against the directory.
// It returns (nil, nil) when nothing matches and never says which half failed.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (*Identity, error)
}

// StepUpVerifier checks a second factor against the identity pending verification
type StepUpVerifier interface {
	Verify(ctx context.Context, pending *Identity, factor string) bool
}

// SessionStore holds at most one established session per actor
type SessionStore interface {
	// Current returns (nil, nil) when the actor has no session
	Current(ctx context.Context, actorID string) (*Session, error)
	// Establish overwrites any existing session for the actor
	Establish(ctx context.Context, actorID string, identity *Identity) (*Session, error)
	// Clear is idempotent
	Clear(ctx context.Context, actorID string) error
}

// LoginResult reports where a login step left the actor
type LoginResult struct {
	Stage   LoginStage
	Session *Session
}

// LoginService drives the per-actor login protocol
type LoginService interface {
	Stage(actorID string) LoginStage
	SubmitCredentials(ctx context.Context, actorID, email, password string) (*LoginResult, error)
	SubmitStepUp(ctx context.Context, actorID, factor string) (*LoginResult, error)
	Cancel(ctx context.Context, actorID string) error
	Logout(ctx context.Context, actorID string) error
}

// AccessGuard decides whether a session may reach a resource. Implementations
// must be pure functions of their inputs.
type AccessGuard interface {
	Decide(session *Session, rule AccessRule) Decision
}

// ResourceRegistry enumerates the access rules supplied by the routing layer
type ResourceRegistry interface {
	// Rule returns the rule gating resourceID; ok is false for ungated resources
	Rule(resourceID string) (rule AccessRule, ok bool, err error)
	Rules() ([]AccessRule, error)
}

// PolicyService manages the access rules behind a ResourceRegistry
type PolicyService interface {
	ResourceRegistry
	Grant(resourcePattern string, role Role) error
	Revoke(resourcePattern string, role Role) error
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// ActorTokenService signs and reads the token that identifies an actor context.
// The token carries no role and grants nothing on its own.
type ActorTokenService interface {
	Issue(actorID string) (string, error)
	Parse(token string) (string, error)
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(to, message string) error
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
}
