package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")

	// External identity errors
	ErrProviderDiscovery = errors.New("failed to discover identity provider")
	ErrCodeExchange      = errors.New("failed to exchange authorization code")
	ErrInvalidIDToken    = errors.New("invalid id_token")
	ErrUserInfo          = errors.New("failed to fetch user info")
	ErrMissingEmail      = errors.New("account has no email address")
	ErrEmailNotVerified  = errors.New("email address is not verified")
)
