package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestAuthenticationErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{name: "ErrInvalidCredentials", err: ErrInvalidCredentials, expectedMsg: "invalid email or password"},
		{name: "ErrInvalidStepUp", err: ErrInvalidStepUp, expectedMsg: "invalid phone number"},
		{name: "ErrInvalidState", err: ErrInvalidState, expectedMsg: "operation not valid in current login stage"},
		{name: "ErrDirectoryUnavailable", err: ErrDirectoryUnavailable, expectedMsg: "user directory unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expectedMsg {
				t.Errorf("expected message %q, got %q", tt.expectedMsg, tt.err.Error())
			}
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	all := []error{
		ErrInvalidCredentials,
		ErrInvalidStepUp,
		ErrInvalidState,
		ErrDirectoryUnavailable,
		ErrUserNotFound,
		ErrUserAlreadyExists,
		ErrUnknownRole,
		ErrSessionStoreUnavailable,
		ErrActorTokenInvalid,
		ErrResourceNotFound,
		ErrInvalidRule,
		ErrArticleNotFound,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}

func TestDirectoryUnavailableIsNotInvalidCredentials(t *testing.T) {
	wrapped := fmt.Errorf("%w: %v", ErrDirectoryUnavailable, errors.New("dial tcp: timeout"))

	if !errors.Is(wrapped, ErrDirectoryUnavailable) {
		t.Error("wrapped error should match ErrDirectoryUnavailable")
	}
	if errors.Is(wrapped, ErrInvalidCredentials) {
		t.Error("infrastructure failure must not read as invalid credentials")
	}
}
