package core

import "context"

// AuthResult holds the outcome of a password authentication attempt.
type AuthResult struct {
	Username string
	Email    string // Optional
	FullName string // Optional
	Success  bool
}

// AuthProvider is the interface that password-based authentication
// backends must implement.
type AuthProvider interface {
	Authenticate(ctx context.Context, username, password string) (*AuthResult, error)
	Name() string
}
