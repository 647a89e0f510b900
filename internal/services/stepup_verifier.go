package services

import (
	"context"
	"crypto/subtle"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// PhoneStepUpVerifier implements domain.StepUpVerifier by comparing the
// submitted phone number with the one enrolled on the pending identity.
type PhoneStepUpVerifier struct{}

// NewStepUpVerifier creates the phone-number step-up verifier
func NewStepUpVerifier() *PhoneStepUpVerifier {
	return &PhoneStepUpVerifier{}
}

// Verify implements domain.StepUpVerifier. An identity with no enrolled
// phone never verifies.
func (v *PhoneStepUpVerifier) Verify(_ context.Context, pending *domain.Identity, factor string) bool {
	if !pending.HasSecondFactor() || factor == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(pending.Phone), []byte(factor)) == 1
}

var _ domain.StepUpVerifier = (*PhoneStepUpVerifier)(nil)
