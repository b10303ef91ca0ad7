package store

import "errors"

var (
	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrUsernameConflict is returned when a username already exists
	ErrUsernameConflict = errors.New("username already exists")

	// ErrEmailConflict is returned when an email already belongs to another user
	ErrEmailConflict = errors.New("email already exists")

	// ErrInvalidEmail is returned when an external login carries no usable email
	ErrInvalidEmail = errors.New("email is required")
)
