package mocks

import (
	"sync"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// MockCasbinEnforcer implements the CasbinEnforcer interface for testing.
// Policies are (role, resource pattern) pairs compared literally.
type MockCasbinEnforcer struct {
	AddPolicyFunc    func(params ...interface{}) (bool, error)
	RemovePolicyFunc func(params ...interface{}) (bool, error)
	EnforceFunc      func(rvals ...interface{}) (bool, error)
	GetPolicyFunc    func() ([][]string, error)

	mu       sync.Mutex
	policies [][]string
}

// Compile-time interface compliance verification
var _ domain.CasbinEnforcer = (*MockCasbinEnforcer)(nil)

// NewMockCasbinEnforcer creates a new MockCasbinEnforcer with default behaviors
func NewMockCasbinEnforcer() *MockCasbinEnforcer {
	return &MockCasbinEnforcer{
		policies: [][]string{
			{"ADMIN", "/admin"},
			{"ADMIN", "/admin/*"},
			{"USER", "/user"},
			{"USER", "/user/*"},
		},
	}
}

// AddPolicy adds a new policy rule
func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}

	policy := toStrings(params)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexLocked(policy) >= 0 {
		return false, nil
	}
	m.policies = append(m.policies, policy)
	return true, nil
}

// RemovePolicy removes a policy rule
func (m *MockCasbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(params...)
	}

	policy := toStrings(params)
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(policy)
	if i < 0 {
		return false, nil
	}
	m.policies = append(m.policies[:i], m.policies[i+1:]...)
	return true, nil
}

// Enforce checks if a request should be allowed by literal match
func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexLocked(toStrings(rvals)) >= 0, nil
}

// GetPolicy returns all policies
func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([][]string, len(m.policies))
	for i, policy := range m.policies {
		result[i] = append([]string(nil), policy...)
	}
	return result, nil
}

// SetPolicies sets the internal policies (test helper)
func (m *MockCasbinEnforcer) SetPolicies(policies [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies = make([][]string, len(policies))
	for i, policy := range policies {
		m.policies[i] = append([]string(nil), policy...)
	}
}

func (m *MockCasbinEnforcer) indexLocked(target []string) int {
	for i, policy := range m.policies {
		if len(policy) != len(target) {
			continue
		}
		match := true
		for j, val := range policy {
			if val != target[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func toStrings(params []interface{}) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		if s, ok := p.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
