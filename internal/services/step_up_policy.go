package services

import (
	"fmt"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// StepUpPolicy maps each role to whether its logins need a second factor
type StepUpPolicy map[domain.Role]bool

// DefaultStepUpPolicy escalates administrators only
func DefaultStepUpPolicy() StepUpPolicy {
	return StepUpPolicy{
		domain.RoleAdmin:  true,
		domain.RoleUser:   false,
		domain.RoleClient: false,
	}
}

// Requires reports whether role needs step-up. Roles missing from the table
// require it.
func (p StepUpPolicy) Requires(role domain.Role) bool {
	required, ok := p[role]
	if !ok {
		return true
	}
	return required
}

// StepUpPolicyFromMap builds a policy from role names, starting from the
// default table so that only overridden roles need to be listed.
func StepUpPolicyFromMap(overrides map[string]bool) (StepUpPolicy, error) {
	policy := DefaultStepUpPolicy()
	for name, required := range overrides {
		role, err := domain.ParseRole(name)
		if err != nil {
			return nil, fmt.Errorf("step-up policy: %w", err)
		}
		policy[role] = required
	}
	return policy, nil
}
