package auth

import (
	"context"
	"sync"

	"github.com/franra18/ReViews/internal/core"
	"github.com/franra18/ReViews/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the user does not exist so unknown
// usernames cost the same as wrong passwords.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("reviews-dummy-password"), bcrypt.DefaultCost)
	return hash
})

// LocalAuthProvider handles local database authentication
type LocalAuthProvider struct {
	store core.UserStore
}

// NewLocalAuthProvider creates a new local authentication provider
func NewLocalAuthProvider(s core.UserStore) *LocalAuthProvider {
	return &LocalAuthProvider{store: s}
}

// Authenticate verifies credentials against the local database.
// Accounts created through an external provider have no password and
// always fail here.
func (p *LocalAuthProvider) Authenticate(
	ctx context.Context,
	username, password string,
) (*Result, error) {
	user, err := p.store.GetUserByUsername(ctx, username)
	if err != nil || !user.HasPassword() {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash),
		[]byte(password),
	); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &Result{
		Username: user.Username,
		Email:    user.EmailAddress(),
		FullName: user.FullName,
		Success:  true,
	}, nil
}

// Name returns provider name for logging
func (p *LocalAuthProvider) Name() string {
	return models.ProviderLocal
}

// HashPassword returns the bcrypt hash stored for local accounts
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
