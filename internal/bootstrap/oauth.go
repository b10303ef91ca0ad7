package bootstrap

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/franra18/ReViews/internal/auth"
	"github.com/franra18/ReViews/internal/client"
	"github.com/franra18/ReViews/internal/config"
)

// initializeGoogleProvider runs OIDC discovery against the configured
// issuer, bounded by OAUTH_TIMEOUT.
func initializeGoogleProvider(
	ctx context.Context,
	cfg *config.Config,
	httpClient *http.Client,
) (*auth.GoogleProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.OAuthTimeout)
	defer cancel()

	provider, err := auth.NewGoogleProvider(ctx, auth.OAuthProviderConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       cfg.GoogleScopes,
		Issuer:       cfg.GoogleIssuer,
	}, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google OAuth: %w", err)
	}
	log.Printf("Google OAuth configured: issuer=%s redirect=%s", cfg.GoogleIssuer, cfg.GoogleRedirectURL)
	return provider, nil
}

// createOAuthHTTPClient creates an HTTP client for OAuth requests with optimized connection pool
func createOAuthHTTPClient(cfg *config.Config) *http.Client {
	if cfg.OAuthInsecureSkipVerify {
		log.Printf("WARNING: OAuth TLS verification is disabled (OAUTH_INSECURE_SKIP_VERIFY=true)")
	}
	return client.NewOAuthHTTPClient(cfg.OAuthTimeout, cfg.OAuthInsecureSkipVerify)
}
