package token

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/franra18/ReViews/internal/util"
)

const (
	claimNonce    = "nonce"
	claimProvider = "provider"
	claimPurpose  = "purpose"
	statePurpose  = "oauth_state"
	stateNonceLen = 32
)

// State is the verified content of an OAuth state parameter
type State struct {
	Nonce     string
	Provider  string
	ExpiresAt time.Time
}

// StateManager issues and checks the signed state parameter carried
// through the provider redirect.
type StateManager struct {
	codec *Codec
	ttl   time.Duration
}

// NewStateManager creates a state manager signing with secret (HS256).
// The secret must differ from the access-token secret.
func NewStateManager(secret string, ttl time.Duration, opts ...Option) (*StateManager, error) {
	codec, err := NewCodec(secret, "HS256", opts...)
	if err != nil {
		return nil, err
	}
	return &StateManager{codec: codec, ttl: ttl}, nil
}

// Generate returns a signed state token for provider and the random
// nonce embedded in it.
func (m *StateManager) Generate(provider string) (state, nonce string, err error) {
	nonce, err = util.RandomURLToken(stateNonceLen)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	result, err := m.codec.Issue(provider, map[string]any{
		claimNonce:    nonce,
		claimProvider: provider,
		claimPurpose:  statePurpose,
	}, m.ttl)
	if err != nil {
		return "", "", err
	}
	return result.TokenString, nonce, nil
}

// Verify checks the signature and expiry of state and that it was issued
// for provider. When expectedNonce is non-empty it must match the nonce
// carried in the state.
func (m *StateManager) Verify(state, provider, expectedNonce string) (*State, error) {
	if state == "" {
		return nil, fmt.Errorf("%w: missing state", ErrInvalidState)
	}

	result, err := m.codec.Verify(state)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	if purpose, _ := result.Claims[claimPurpose].(string); purpose != statePurpose {
		return nil, fmt.Errorf("%w: wrong token purpose", ErrInvalidState)
	}
	issuedFor, _ := result.Claims[claimProvider].(string)
	if result.Subject != provider || issuedFor != provider {
		return nil, fmt.Errorf("%w: issued for provider %q", ErrInvalidState, result.Subject)
	}

	nonce, _ := result.Claims[claimNonce].(string)
	if nonce == "" {
		return nil, fmt.Errorf("%w: missing nonce", ErrInvalidState)
	}
	if expectedNonce != "" &&
		subtle.ConstantTimeCompare([]byte(nonce), []byte(expectedNonce)) != 1 {
		return nil, fmt.Errorf("%w: nonce mismatch", ErrInvalidState)
	}

	return &State{
		Nonce:     nonce,
		Provider:  result.Subject,
		ExpiresAt: result.ExpiresAt,
	}, nil
}
