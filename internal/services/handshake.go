package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/franra18/ReViews/internal/auth"
	"github.com/franra18/ReViews/internal/core"
	"github.com/franra18/ReViews/internal/models"
	"github.com/franra18/ReViews/internal/store"
	"github.com/franra18/ReViews/internal/token"
	"github.com/franra18/ReViews/internal/util"

	"golang.org/x/oauth2"
)

// DefaultHandshakeTimeout bounds the provider round trips of a callback
const DefaultHandshakeTimeout = 10 * time.Second

// IdentityProvider is the authorization code flow of an external provider
type IdentityProvider interface {
	Name() string
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*auth.OAuthUserInfo, error)
}

// LoginRedirect starts a handshake. Nonce must be bound to the browser
// (cookie session) and handed back to Complete.
type LoginRedirect struct {
	URL   string
	State string
	Nonce string
}

// CallbackParams are the query parameters of the provider callback plus
// the nonce recovered from the browser session.
type CallbackParams struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
	SessionNonce     string
}

// LoginResult is a completed handshake
type LoginResult struct {
	User        *models.User
	Token       *token.Result
	RedirectURL string
}

// HandshakeService runs the external identity login: redirect to the
// provider, callback, account resolution and token issuance.
type HandshakeService struct {
	provider    IdentityProvider
	states      *token.StateManager
	users       core.UserStore
	tokens      *TokenService
	frontendURL string
	timeout     time.Duration
	metrics     core.Recorder
}

func NewHandshakeService(
	provider IdentityProvider,
	states *token.StateManager,
	users core.UserStore,
	tokens *TokenService,
	frontendURL string,
	timeout time.Duration,
	m core.Recorder,
) *HandshakeService {
	if timeout <= 0 {
		timeout = DefaultHandshakeTimeout
	}
	return &HandshakeService{
		provider:    provider,
		states:      states,
		users:       users,
		tokens:      tokens,
		frontendURL: frontendURL,
		timeout:     timeout,
		metrics:     m,
	}
}

// ProviderName returns the name of the configured identity provider
func (s *HandshakeService) ProviderName() string {
	return s.provider.Name()
}

// Begin creates a signed state and the provider authorization URL
func (s *HandshakeService) Begin() (*LoginRedirect, error) {
	state, nonce, err := s.states.Generate(s.provider.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to create login state: %w", err)
	}
	return &LoginRedirect{
		URL:   s.provider.GetAuthURL(state),
		State: state,
		Nonce: nonce,
	}, nil
}

// Complete validates the callback, resolves the account and issues an
// access token. Every failure wraps ErrExternalAuth. Nothing is retried.
func (s *HandshakeService) Complete(ctx context.Context, p CallbackParams) (*LoginResult, error) {
	providerName := s.provider.Name()
	result, err := s.complete(ctx, p)
	s.metrics.RecordOAuthCallback(providerName, err == nil)
	s.metrics.RecordLogin(providerName, err == nil)
	if err != nil {
		log.Printf("[OAuth] Callback failed provider=%s: %v", providerName, err)
		return nil, err
	}
	log.Printf("[OAuth] Login completed provider=%s user=%s", providerName, result.User.Username)
	return result, nil
}

func (s *HandshakeService) complete(ctx context.Context, p CallbackParams) (*LoginResult, error) {
	providerName := s.provider.Name()

	if p.Error != "" {
		msg := p.Error
		if p.ErrorDescription != "" {
			msg += ": " + p.ErrorDescription
		}
		return nil, externalAuthError("provider returned error", msg)
	}
	if p.Code == "" {
		return nil, externalAuthError("missing authorization code", "")
	}
	if p.SessionNonce == "" {
		return nil, externalAuthError("login session not found", "")
	}
	if _, err := s.states.Verify(p.State, providerName, p.SessionNonce); err != nil {
		return nil, externalAuthError("invalid state", err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	grant, err := s.provider.ExchangeCode(ctx, p.Code)
	if err != nil {
		return nil, externalAuthError("code exchange failed", err.Error())
	}
	info, err := s.provider.GetUserInfo(ctx, grant)
	s.metrics.RecordExternalAPICall(providerName, time.Since(start))
	if err != nil {
		return nil, externalAuthError("could not fetch profile", err.Error())
	}

	user, err := s.users.UpsertExternalUser(
		ctx,
		info.Email,
		DeriveUsername(info.Email),
		providerName,
		info.FullName,
	)
	if err != nil {
		return nil, externalAuthError("could not resolve account", err.Error())
	}

	issued, err := s.tokens.IssueAccessToken(user, providerName)
	if err != nil {
		return nil, externalAuthError("could not issue token", err.Error())
	}

	redirectURL, err := util.BuildURL(s.frontendURL, "/auth-callback", url.Values{
		"token": []string{issued.TokenString},
	})
	if err != nil {
		return nil, externalAuthError("invalid frontend URL", err.Error())
	}

	return &LoginResult{User: user, Token: issued, RedirectURL: redirectURL}, nil
}

// DeriveUsername returns the local part of the normalized email, or "user"
// when empty.
func DeriveUsername(email string) string {
	local, _, _ := strings.Cut(store.NormalizeEmail(email), "@")
	if local == "" {
		return "user"
	}
	return local
}

func externalAuthError(reason, cause string) error {
	if cause == "" {
		return fmt.Errorf("%w: %s", ErrExternalAuth, reason)
	}
	return fmt.Errorf("%w: %s: %s", ErrExternalAuth, reason, cause)
}
