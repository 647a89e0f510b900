package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Authentication events
	CredentialsAcceptedEvent AuditEventType = "CREDENTIALS_ACCEPTED"
	CredentialsRejectedEvent AuditEventType = "CREDENTIALS_REJECTED"
	StepUpRequiredEvent      AuditEventType = "STEP_UP_REQUIRED"
	StepUpFailedEvent        AuditEventType = "STEP_UP_FAILED"
	LoginCancelledEvent      AuditEventType = "LOGIN_CANCELLED"
	SessionEstablishedEvent  AuditEventType = "SESSION_ESTABLISHED"
	UserLogoutEvent          AuditEventType = "USER_LOGOUT"

	// Authorization events
	AccessGrantedEvent AuditEventType = "ACCESS_GRANTED"
	AccessDeniedEvent  AuditEventType = "ACCESS_DENIED"
)

// AuditEvent represents a security-relevant event
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	ActorID   string                 `json:"actor_id"`
	UserID    string                 `json:"user_id,omitempty"`
	Email     string                 `json:"email,omitempty"`
	Role      Role                   `json:"role,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger records audit events
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent)
}

// ClientContext represents client information extracted from an HTTP request
type ClientContext struct {
	IPAddress string
	UserAgent string
}

type clientContextKey struct{}

// WithClientContext stores client information on ctx
func WithClientContext(ctx context.Context, cc *ClientContext) context.Context {
	return context.WithValue(ctx, clientContextKey{}, cc)
}

// ClientContextFrom returns the client information stored on ctx, if any
func ClientContextFrom(ctx context.Context) *ClientContext {
	cc, _ := ctx.Value(clientContextKey{}).(*ClientContext)
	return cc
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, actorID string) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithIdentity copies the identifying fields of an identity onto the event.
// Credential material and the second factor are never copied.
func (e *AuditEvent) WithIdentity(identity *Identity) *AuditEvent {
	if identity != nil {
		e.UserID = identity.ID
		e.Email = identity.Email
		e.Role = identity.Role
	}
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithClientContext sets client context information
func (e *AuditEvent) WithClientContext(cc *ClientContext) *AuditEvent {
	if cc != nil {
		e.IPAddress = cc.IPAddress
		e.UserAgent = cc.UserAgent
	}
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
