package services

import "errors"

var (
	// ErrUnauthorized is the single error callers see for any bearer
	// token failure; the reason is logged, never returned.
	ErrUnauthorized = errors.New("could not validate credentials")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")

	// ErrExternalAuth wraps every failure of the external login callback
	ErrExternalAuth = errors.New("external login failed")

	ErrInvalidReviewID = errors.New("invalid review id")
	ErrReviewNotFound  = errors.New("review not found")
)
