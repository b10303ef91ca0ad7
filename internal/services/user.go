package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/franra18/ReViews/internal/auth"
	"github.com/franra18/ReViews/internal/core"
	"github.com/franra18/ReViews/internal/models"
	"github.com/franra18/ReViews/internal/store"
	"github.com/franra18/ReViews/internal/token"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// userCreator persists local accounts
type userCreator interface {
	CreateUser(ctx context.Context, user *models.User) error
}

// RegisterRequest is the payload of a local sign-up
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Validate checks the sign-up payload
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required,
			validation.Length(3, 50),
			validation.Match(usernamePattern).Error("must contain only letters, digits, '.', '_' or '-'"),
		),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.FullName, validation.Length(0, 100)),
	)
}

type UserService struct {
	users    core.UserStore
	creator  userCreator
	provider core.AuthProvider
	tokens   *TokenService
	metrics  core.Recorder
}

func NewUserService(
	users core.UserStore,
	creator userCreator,
	provider core.AuthProvider,
	tokens *TokenService,
	m core.Recorder,
) *UserService {
	return &UserService{
		users:    users,
		creator:  creator,
		provider: provider,
		tokens:   tokens,
		metrics:  m,
	}
}

// Register creates a local account with a bcrypt password hash
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = store.NormalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	email := req.Email
	user := &models.User{
		Username:     req.Username,
		Email:        &email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Provider:     models.ProviderLocal,
	}
	switch err := s.creator.CreateUser(ctx, user); {
	case errors.Is(err, store.ErrUsernameConflict):
		return nil, ErrUsernameTaken
	case errors.Is(err, store.ErrEmailConflict):
		return nil, ErrEmailTaken
	case err != nil:
		return nil, err
	}

	log.Printf("[Auth] Local user registered: %s", user.Username)
	s.metrics.RecordUserCreated(models.ProviderLocal)
	return user, nil
}

// Login checks a username and password and issues an access token
func (s *UserService) Login(ctx context.Context, username, password string) (*token.Result, error) {
	start := time.Now()
	result, err := s.provider.Authenticate(ctx, username, password)
	success := err == nil && result != nil && result.Success
	s.metrics.RecordAuthAttempt(s.provider.Name(), success, time.Since(start))
	s.metrics.RecordLogin(s.provider.Name(), success)
	if !success {
		log.Printf("[Auth] Failed login for user=%s provider=%s: %v", username, s.provider.Name(), err)
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, result.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return s.tokens.IssueAccessToken(user, s.provider.Name())
}

// CachedUserStore decorates a UserStore with a cache-aside lookup by
// username. Entries are keyed "user:<username>".
// Redis-backed caches round-trip users through JSON, which drops the
// password hash; password checks go to the underlying store.
type CachedUserStore struct {
	core.UserStore
	cache core.Cache[models.User]
	ttl   time.Duration
}

func NewCachedUserStore(
	users core.UserStore,
	cache core.Cache[models.User],
	ttl time.Duration,
) *CachedUserStore {
	return &CachedUserStore{UserStore: users, cache: cache, ttl: ttl}
}

func userCacheKey(username string) string {
	return "user:" + username
}

// GetUserByUsername serves from cache, falling back to the store. Misses
// in the store are not cached.
func (s *CachedUserStore) GetUserByUsername(
	ctx context.Context,
	username string,
) (*models.User, error) {
	user, err := s.cache.GetWithFetch(ctx, userCacheKey(username), s.ttl,
		func(ctx context.Context, _ string) (models.User, error) {
			u, err := s.UserStore.GetUserByUsername(ctx, username)
			if err != nil {
				return models.User{}, err
			}
			return *u, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertExternalUser writes the resolved account through to the cache
func (s *CachedUserStore) UpsertExternalUser(
	ctx context.Context,
	email, username, provider, fullName string,
) (*models.User, error) {
	user, err := s.UserStore.UpsertExternalUser(ctx, email, username, provider, fullName)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, userCacheKey(user.Username), *user, s.ttl); err != nil {
		log.Printf("[Cache] Failed to cache user=%s: %v", user.Username, err)
	}
	return user, nil
}
