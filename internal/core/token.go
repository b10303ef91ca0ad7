package core

import "time"

// TokenResult is the outcome of a token issuance call.
type TokenResult struct {
	TokenString string
	TokenType   string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Claims      map[string]any
}

// TokenValidationResult is the verified claim set of a token.
type TokenValidationResult struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Claims    map[string]any
}

// TokenCodec issues and verifies signed bearer tokens.
// Implementations must be safe for concurrent use and perform no I/O.
type TokenCodec interface {
	Issue(subject string, extraClaims map[string]any, ttl time.Duration) (*TokenResult, error)
	Verify(tokenString string) (*TokenValidationResult, error)
}
