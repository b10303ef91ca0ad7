package auth

import "github.com/franra18/ReViews/internal/core"

// Result is a type alias for core.AuthResult.
type Result = core.AuthResult

// OAuthUserInfo contains user information from an identity provider
type OAuthUserInfo struct {
	ProviderUserID string // Provider's subject identifier
	Email          string // User email (required)
	EmailVerified  bool
	FullName       string
	AvatarURL      string
}
