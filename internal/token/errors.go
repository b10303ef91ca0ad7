package token

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSecret indicates the codec was built without a signing secret
	ErrMissingSecret = errors.New("signing secret is required")

	// ErrUnsupportedAlgorithm indicates the configured algorithm is not an HMAC method
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

	// ErrTokenGeneration indicates token generation failed
	ErrTokenGeneration = errors.New("failed to generate token")

	// ErrInvalidToken indicates the token is invalid
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates the token has expired.
	// It also matches ErrInvalidToken with errors.Is.
	ErrExpiredToken = fmt.Errorf("%w: token expired", ErrInvalidToken)

	// ErrInvalidState indicates the OAuth state parameter failed verification
	ErrInvalidState = errors.New("invalid OAuth state")
)
