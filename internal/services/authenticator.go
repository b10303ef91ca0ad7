package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/franra18/ReViews/internal/core"
	"github.com/franra18/ReViews/internal/models"
	"github.com/franra18/ReViews/internal/store"
	"github.com/franra18/ReViews/internal/token"
)

// Validation outcomes recorded in metrics
const (
	validationValid       = "valid"
	validationInvalid     = "invalid"
	validationExpired     = "expired"
	validationMalformed   = "malformed"
	validationUnknownUser = "unknown_user"
	validationStoreError  = "store_error"
)

// Authenticator resolves a bearer token to the account it was issued for
type Authenticator struct {
	codec   core.TokenCodec
	users   core.UserStore
	metrics core.Recorder
}

func NewAuthenticator(codec core.TokenCodec, users core.UserStore, m core.Recorder) *Authenticator {
	return &Authenticator{codec: codec, users: users, metrics: m}
}

// Authenticate verifies rawToken and loads its subject. Every failure
// returns ErrUnauthorized.
func (a *Authenticator) Authenticate(
	ctx context.Context,
	rawToken string,
) (*models.AuthenticatedContext, error) {
	start := time.Now()

	claims, err := a.codec.Verify(rawToken)
	if err != nil {
		return nil, a.reject(start, classifyTokenError(rawToken, err), err)
	}
	if claims.Subject == "" {
		return nil, a.reject(start, validationInvalid, errors.New("token has no subject"))
	}

	user, err := a.users.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		reason := validationUnknownUser
		if !errors.Is(err, store.ErrRecordNotFound) {
			reason = validationStoreError
		}
		return nil, a.reject(start, reason, err)
	}

	a.metrics.RecordTokenValidation(validationValid, time.Since(start))
	return &models.AuthenticatedContext{
		User:      user,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
		Claims:    claims.Claims,
	}, nil
}

func (a *Authenticator) reject(start time.Time, reason string, cause error) error {
	log.Printf("[Auth] Bearer token rejected reason=%s: %v", reason, cause)
	a.metrics.RecordTokenValidation(reason, time.Since(start))
	return ErrUnauthorized
}

func classifyTokenError(rawToken string, err error) string {
	switch {
	case errors.Is(err, token.ErrExpiredToken):
		return validationExpired
	case strings.Count(rawToken, ".") != 2:
		return validationMalformed
	default:
		return validationInvalid
	}
}
