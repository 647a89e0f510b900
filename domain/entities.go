package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of roles an identity can hold
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleUser   Role = "USER"
	RoleClient Role = "CLIENT"
)

// Roles lists every known role in a stable order
func Roles() []Role {
	return []Role{RoleAdmin, RoleUser, RoleClient}
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleClient:
		return true
	}
	return false
}

// ParseRole converts a case-insensitive role name into a Role
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// Identity is a directory-resident principal. The core only reads it.
type Identity struct {
	ID             string
	Name           string
	Email          string
	Role           Role
	Phone          string // second factor, empty when not enrolled
	Avatar         string
	CredentialHash string
	CreatedAt      time.Time
}

// HasSecondFactor reports whether a phone number is enrolled
func (i *Identity) HasSecondFactor() bool {
	return i != nil && i.Phone != ""
}

// LoginStage names the state of an actor's login attempt
type LoginStage string

const (
	StageIdle                LoginStage = "IDLE"
	StageAwaitingCredentials LoginStage = "AWAITING_CREDENTIALS"
	StageAwaitingStepUp      LoginStage = "AWAITING_STEP_UP"
	StageDone                LoginStage = "DONE"
)

// LoginAttempt is the transient state between submitting credentials and
// completing login. It is never persisted.
type LoginAttempt struct {
	Stage     LoginStage
	Pending   *Identity
	StartedAt time.Time
}

// Session is the established, fully verified login of one actor
type Session struct {
	ActorID       string
	Identity      *Identity
	EstablishedAt time.Time
}

// Role returns the role of the session's identity
func (s *Session) Role() Role {
	if s == nil || s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

// AccessRule declares which roles may reach a resource
type AccessRule struct {
	ResourceID   string
	AllowedRoles []Role
}

// Allows reports whether role is in the rule's allowed set
func (r AccessRule) Allows(role Role) bool {
	for _, allowed := range r.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Outcome is the result kind of an access decision
type Outcome string

const (
	OutcomeAllow           Outcome = "ALLOW"
	OutcomeRedirectToLogin Outcome = "REDIRECT_TO_LOGIN"
	OutcomeRedirectToHome  Outcome = "REDIRECT_TO_HOME"
	OutcomeForbidden       Outcome = "FORBIDDEN"
)

// Decision is what the access guard returns for a request
type Decision struct {
	Outcome Outcome
	// Target is where to send the actor for redirect outcomes
	Target string
	// ReturnTo is the originally requested resource, set on RedirectToLogin
	ReturnTo string
}

// Allowed reports whether the decision lets the request through
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}

// ArticleStatus is the moderation state of an article
type ArticleStatus string

const (
	ArticlePending  ArticleStatus = "PENDING"
	ArticleApproved ArticleStatus = "APPROVED"
	ArticleRejected ArticleStatus = "REJECTED"
)

// Article is a piece of published content
type Article struct {
	ID         string
	Title      string
	AuthorID   string
	AuthorName string
	Content    string
	ImageURL   string
	Status     ArticleStatus
	CreatedAt  time.Time
}
