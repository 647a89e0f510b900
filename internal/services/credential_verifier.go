package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Castafa/News-ans-Public-opinion/domain"
	"github.com/Castafa/News-ans-Public-opinion/internal/metrics"
)

// decoyPassword is hashed once so unknown emails pay the same comparison cost
const decoyPassword = "decoy-password-for-timing"

// CredentialVerifierImpl implements domain.CredentialVerifier
type CredentialVerifierImpl struct {
	directory   domain.UserDirectory
	passwordSvc domain.PasswordService
	timeout     time.Duration

	decoyOnce sync.Once
	decoyHash string
}

// NewCredentialVerifier creates a credential verifier. A zero timeout leaves
// the caller's context deadline in charge.
func NewCredentialVerifier(directory domain.UserDirectory, passwordSvc domain.PasswordService, timeout time.Duration) *CredentialVerifierImpl {
	return &CredentialVerifierImpl{
		directory:   directory,
		passwordSvc: passwordSvc,
		timeout:     timeout,
	}
}

// Verify implements domain.CredentialVerifier
func (v *CredentialVerifierImpl) Verify(ctx context.Context, email, password string) (*domain.Identity, error) {
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	start := time.Now()
	identity, err := v.directory.FindByEmail(ctx, email)
	metrics.DirectoryLookupDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			v.passwordSvc.Verify(v.decoy(), password)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrDirectoryUnavailable, err)
	}
	if identity == nil || identity.Email != email {
		v.passwordSvc.Verify(v.decoy(), password)
		return nil, nil
	}

	if !v.passwordSvc.Verify(identity.CredentialHash, password) {
		return nil, nil
	}
	return identity, nil
}

func (v *CredentialVerifierImpl) decoy() string {
	v.decoyOnce.Do(func() {
		// A failed hash leaves the decoy empty; Verify then fails fast, which
		// only weakens timing parity, never correctness.
		v.decoyHash, _ = v.passwordSvc.Hash(decoyPassword)
	})
	return v.decoyHash
}

var _ domain.CredentialVerifier = (*CredentialVerifierImpl)(nil)
