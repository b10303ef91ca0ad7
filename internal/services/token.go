package services

import (
	"fmt"
	"log"
	"time"

	"github.com/franra18/ReViews/internal/core"
	"github.com/franra18/ReViews/internal/models"
	"github.com/franra18/ReViews/internal/token"
)

// Extra claims carried by access tokens
const (
	ClaimEmail = "email"
	ClaimName  = "name"
)

// TokenService issues access tokens for authenticated accounts
type TokenService struct {
	codec   core.TokenCodec
	ttl     time.Duration
	metrics core.Recorder
}

func NewTokenService(codec core.TokenCodec, ttl time.Duration, m core.Recorder) *TokenService {
	return &TokenService{codec: codec, ttl: ttl, metrics: m}
}

// IssueAccessToken signs a token whose subject is the username. source
// names the login path ("local", "google") for metrics.
func (s *TokenService) IssueAccessToken(user *models.User, source string) (*token.Result, error) {
	extra := map[string]any{}
	if email := user.EmailAddress(); email != "" {
		extra[ClaimEmail] = email
	}
	if user.FullName != "" {
		extra[ClaimName] = user.FullName
	}

	start := time.Now()
	result, err := s.codec.Issue(user.Username, extra, s.ttl)
	if err != nil {
		log.Printf("[Token] Failed to issue token for user=%s: %v", user.Username, err)
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	s.metrics.RecordTokenIssued(source, time.Since(start))
	return result, nil
}

// TTL returns the access token lifetime
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
