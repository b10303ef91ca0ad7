package bootstrap

import (
	"fmt"
	"log"
	"net/url"

	"github.com/franra18/ReViews/internal/config"
)

// validateAllConfiguration validates all configuration settings
func validateAllConfiguration(cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := validateOAuthConfig(cfg); err != nil {
		log.Fatalf("Invalid Google OAuth configuration: %v", err)
	}
}

// validateOAuthConfig checks that the addresses used by the Google
// handshake are absolute URLs
func validateOAuthConfig(cfg *config.Config) error {
	checks := []struct {
		key   string
		value string
	}{
		{"FRONTEND_URL", cfg.FrontendURL},
		{"GOOGLE_REDIRECT_URL", cfg.GoogleRedirectURL},
		{"GOOGLE_ISSUER", cfg.GoogleIssuer},
	}
	for _, check := range checks {
		u, err := url.Parse(check.value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", check.key, check.value)
		}
	}
	return nil
}
