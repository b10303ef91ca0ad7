package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/franra18/ReViews/internal/models"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const DefaultGoogleIssuer = "https://accounts.google.com"

// DefaultGoogleScopes are requested when no scopes are configured
var DefaultGoogleScopes = []string{oidc.ScopeOpenID, "email", "profile"}

// OAuthProviderConfig contains configuration for an OAuth provider
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	// Issuer is the OpenID Connect discovery base; defaults to Google
	Issuer string
}

// GoogleProvider runs the authorization code flow against Google (or any
// OpenID Connect issuer with the same shape).
type GoogleProvider struct {
	config     *oauth2.Config
	provider   *oidc.Provider
	verifier   *oidc.IDTokenVerifier
	httpClient *http.Client
}

// idTokenClaims are the profile claims read from id_token and userinfo
type idTokenClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// NewGoogleProvider performs OIDC discovery on the configured issuer.
// httpClient is used for discovery, code exchange, key fetches and
// userinfo calls; nil means http.DefaultClient.
func NewGoogleProvider(
	ctx context.Context,
	cfg OAuthProviderConfig,
	httpClient *http.Client,
) (*GoogleProvider, error) {
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultGoogleIssuer
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultGoogleScopes
	}

	p := &GoogleProvider{httpClient: httpClient}
	provider, err := oidc.NewProvider(p.clientContext(ctx), issuer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderDiscovery, err)
	}

	p.provider = provider
	p.verifier = provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})
	p.config = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       scopes,
		Endpoint:     provider.Endpoint(),
	}
	return p, nil
}

// Name returns the provider name stored on accounts it creates
func (p *GoogleProvider) Name() string {
	return models.ProviderGoogle
}

// GetDisplayName returns the human-readable provider name
func (p *GoogleProvider) GetDisplayName() string {
	return "Google"
}

// GetAuthURL returns the authorization URL for state. The URL carries
// client_id, redirect_uri, response_type=code, scope and state.
func (p *GoogleProvider) GetAuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for a token set
func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(p.clientContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodeExchange, err)
	}
	return token, nil
}

// GetUserInfo resolves the profile for token. The id_token from the grant
// response is verified and used when it carries an email; otherwise the
// userinfo endpoint is queried.
func (p *GoogleProvider) GetUserInfo(
	ctx context.Context,
	token *oauth2.Token,
) (*OAuthUserInfo, error) {
	ctx = p.clientContext(ctx)

	var claims idTokenClaims
	if rawIDToken, ok := token.Extra("id_token").(string); ok && rawIDToken != "" {
		idToken, err := p.verifier.Verify(ctx, rawIDToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
		}
		if err := idToken.Claims(&claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
		}
	}

	if claims.Email == "" {
		userInfo, err := p.provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
		}
		var fetched idTokenClaims
		if err := userInfo.Claims(&fetched); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
		}
		if claims.Subject != "" && fetched.Subject != claims.Subject {
			return nil, fmt.Errorf("%w: subject mismatch", ErrUserInfo)
		}
		claims = fetched
	}

	return claims.toUserInfo()
}

func (c idTokenClaims) toUserInfo() (*OAuthUserInfo, error) {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return nil, ErrMissingEmail
	}
	// Absent email_verified is accepted; an explicit false is not.
	verified := c.EmailVerified == nil || *c.EmailVerified
	if !verified {
		return nil, ErrEmailNotVerified
	}
	return &OAuthUserInfo{
		ProviderUserID: c.Subject,
		Email:          email,
		EmailVerified:  verified,
		FullName:       c.Name,
		AvatarURL:      c.Picture,
	}, nil
}

func (p *GoogleProvider) clientContext(ctx context.Context) context.Context {
	if p.httpClient == nil {
		return ctx
	}
	return oidc.ClientContext(ctx, p.httpClient)
}
