package mocks

import (
	"context"
	"sync"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// MockAuditLogger implements domain.AuditLogger by recording events
type MockAuditLogger struct {
	mu     sync.Mutex
	Events []*domain.AuditEvent
}

// NewMockAuditLogger creates a new MockAuditLogger
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

// LogEvent records the event
func (m *MockAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Types returns the recorded event types in order
func (m *MockAuditLogger) Types() []domain.AuditEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditEventType, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.EventType
	}
	return out
}

// Compile-time interface compliance verification
var _ domain.AuditLogger = (*MockAuditLogger)(nil)
