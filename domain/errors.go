package domain

import "errors"

// Authentication errors
var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidStepUp        = errors.New("invalid phone number")
	ErrInvalidState         = errors.New("operation not valid in current login stage")
	ErrDirectoryUnavailable = errors.New("user directory unavailable")
)

// Directory errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUnknownRole       = errors.New("unknown role")
)

// Session errors
var (
	ErrSessionStoreUnavailable = errors.New("session store unavailable")
)

// Actor errors
var (
	ErrActorTokenInvalid = errors.New("invalid actor token")
)

// Authorization errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrInvalidRule      = errors.New("invalid access rule")
)

// Content errors
var (
	ErrArticleNotFound = errors.New("article not found")
)
