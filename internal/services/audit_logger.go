package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// ZerologAuditLogger implements domain.AuditLogger by writing one structured
// log line per event
type ZerologAuditLogger struct {
	log zerolog.Logger
}

// NewAuditLogger creates an audit logger on top of log
func NewAuditLogger(log zerolog.Logger) *ZerologAuditLogger {
	return &ZerologAuditLogger{log: log.With().Str("component", "audit").Logger()}
}

// LogEvent implements domain.AuditLogger
func (a *ZerologAuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) {
	if event == nil {
		return
	}
	e := a.log.Info()
	if !event.Success {
		e = a.log.Warn()
	}
	e = e.Str("event_type", string(event.EventType)).
		Str("actor_id", event.ActorID).
		Time("at", event.Timestamp).
		Bool("success", event.Success)
	if event.UserID != "" {
		e = e.Str("user_id", event.UserID)
	}
	if event.Email != "" {
		e = e.Str("email", event.Email)
	}
	if event.Role != "" {
		e = e.Str("role", string(event.Role))
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.UserAgent != "" {
		e = e.Str("user_agent", event.UserAgent)
	}
	if event.ErrorMsg != "" {
		e = e.Str("error", event.ErrorMsg)
	}
	if len(event.Metadata) > 0 {
		e = e.Fields(event.Metadata)
	}
	e.Msg("audit")
}

var _ domain.AuditLogger = (*ZerologAuditLogger)(nil)
