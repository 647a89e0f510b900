package mocks

import (
	"sync"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// SentSMS records one message handed to MockNotificationService
type SentSMS struct {
	To      string
	Message string
}

// MockNotificationService implements domain.NotificationService interface for testing
type MockNotificationService struct {
	SendSMSFunc func(to, message string) error

	mu   sync.Mutex
	Sent []SentSMS
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendSMS sends an SMS message
func (m *MockNotificationService) SendSMS(to, message string) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, SentSMS{To: to, Message: message})
	m.mu.Unlock()
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	// Default behavior: success (no actual SMS sent in tests)
	return nil
}

// SentCount returns how many messages were sent
func (m *MockNotificationService) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)
