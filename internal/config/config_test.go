package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		JWTSecret:                "test-secret",
		JWTAlgorithm:             "HS256",
		AccessTokenExpireMinutes: 30,
		GoogleClientID:           "client-id",
		GoogleClientSecret:       "client-secret",
		FrontendURL:              "http://localhost:5173",
		DatabaseDriver:           DatabaseDriverSQLite,
		UserCacheType:            UserCacheTypeMemory,
		UserCacheTTL:             5 * time.Minute,
		OAuthTimeout:             10 * time.Second,
		OAuthStateTTL:            10 * time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid config",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "missing secret",
			mutate:      func(c *Config) { c.JWTSecret = "" },
			expectError: true,
			errorMsg:    "SECRET_KEY is required",
		},
		{
			name:        "missing algorithm",
			mutate:      func(c *Config) { c.JWTAlgorithm = "" },
			expectError: true,
			errorMsg:    "ALGORITHM is required",
		},
		{
			name:        "asymmetric algorithm rejected",
			mutate:      func(c *Config) { c.JWTAlgorithm = "RS256" },
			expectError: true,
			errorMsg:    `invalid ALGORITHM value: "RS256"`,
		},
		{
			name:        "zero expiry",
			mutate:      func(c *Config) { c.AccessTokenExpireMinutes = 0 },
			expectError: true,
			errorMsg:    "ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer",
		},
		{
			name:        "negative expiry",
			mutate:      func(c *Config) { c.AccessTokenExpireMinutes = -5 },
			expectError: true,
			errorMsg:    "ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer",
		},
		{
			name:        "missing google client id",
			mutate:      func(c *Config) { c.GoogleClientID = "" },
			expectError: true,
			errorMsg:    "GOOGLE_CLIENT_ID is required",
		},
		{
			name:        "missing google client secret",
			mutate:      func(c *Config) { c.GoogleClientSecret = " " },
			expectError: true,
			errorMsg:    "GOOGLE_CLIENT_SECRET is required",
		},
		{
			name:        "missing frontend url",
			mutate:      func(c *Config) { c.FrontendURL = "" },
			expectError: true,
			errorMsg:    "FRONTEND_URL is required",
		},
		{
			name:        "unknown database driver",
			mutate:      func(c *Config) { c.DatabaseDriver = "mysql" },
			expectError: true,
			errorMsg:    `invalid DATABASE_DRIVER value: "mysql"`,
		},
		{
			name:        "postgres driver",
			mutate:      func(c *Config) { c.DatabaseDriver = DatabaseDriverPostgres },
			expectError: false,
		},
		{
			name:        "zero oauth timeout",
			mutate:      func(c *Config) { c.OAuthTimeout = 0 },
			expectError: true,
			errorMsg:    "OAUTH_TIMEOUT must be a positive duration",
		},
		{
			name:        "zero state ttl",
			mutate:      func(c *Config) { c.OAuthStateTTL = 0 },
			expectError: true,
			errorMsg:    "OAUTH_STATE_TTL must be a positive duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateReportsAllMissingKeys(t *testing.T) {
	err := (&Config{
		DatabaseDriver: DatabaseDriverSQLite,
		UserCacheType:  UserCacheTypeMemory,
		UserCacheTTL:   time.Minute,
		OAuthTimeout:   time.Second,
		OAuthStateTTL:  time.Minute,
	}).Validate()

	require.Error(t, err)
	for _, key := range []string{
		"SECRET_KEY", "ALGORITHM", "ACCESS_TOKEN_EXPIRE_MINUTES",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "FRONTEND_URL",
	} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestUserCacheValidation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid redis user cache with redis address",
			mutate: func(c *Config) {
				c.UserCacheType = UserCacheTypeRedis
				c.RedisAddr = "localhost:6379"
			},
			expectError: false,
		},
		{
			name: "valid redis-aside user cache with redis address",
			mutate: func(c *Config) {
				c.UserCacheType = UserCacheTypeRedisAside
				c.UserCacheClientTTL = 30 * time.Second
				c.RedisAddr = "localhost:6379"
			},
			expectError: false,
		},
		{
			name:        "invalid user cache type",
			mutate:      func(c *Config) { c.UserCacheType = "invalid" },
			expectError: true,
			errorMsg:    `invalid USER_CACHE_TYPE value: "invalid"`,
		},
		{
			name:        "redis user cache without redis address",
			mutate:      func(c *Config) { c.UserCacheType = UserCacheTypeRedis },
			expectError: true,
			errorMsg:    `USER_CACHE_TYPE="redis" requires REDIS_ADDR`,
		},
		{
			name: "redis-aside user cache without redis address",
			mutate: func(c *Config) {
				c.UserCacheType = UserCacheTypeRedisAside
				c.UserCacheClientTTL = 30 * time.Second
			},
			expectError: true,
			errorMsg:    `USER_CACHE_TYPE="redis-aside" requires REDIS_ADDR`,
		},
		{
			name:        "zero UserCacheTTL rejected",
			mutate:      func(c *Config) { c.UserCacheTTL = 0 },
			expectError: true,
			errorMsg:    "USER_CACHE_TTL must be a positive duration",
		},
		{
			name: "zero UserCacheClientTTL rejected for redis-aside",
			mutate: func(c *Config) {
				c.UserCacheType = UserCacheTypeRedisAside
				c.RedisAddr = "localhost:6379"
				c.UserCacheClientTTL = 0
			},
			expectError: true,
			errorMsg:    "USER_CACHE_CLIENT_TTL must be a positive duration",
		},
		{
			name:        "zero UserCacheClientTTL allowed for memory",
			mutate:      func(c *Config) { c.UserCacheClientTTL = 0 },
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUserCacheConstants(t *testing.T) {
	assert.Equal(t, "memory", UserCacheTypeMemory)
	assert.Equal(t, "redis", UserCacheTypeRedis)
	assert.Equal(t, "redis-aside", UserCacheTypeRedisAside)
}

func TestLoad_RequiredValues(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("ALGORITHM", "HS512")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "45")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("FRONTEND_URL", "https://reviews.example.com/")
	t.Setenv("BASE_URL", "https://api.example.com/")

	cfg := Load()

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "HS512", cfg.JWTAlgorithm)
	assert.Equal(t, 45, cfg.AccessTokenExpireMinutes)
	assert.Equal(t, 45*time.Minute, cfg.JWTExpiration)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, "https://api.example.com/auth/google/callback", cfg.GoogleRedirectURL)
	assert.Contains(t, cfg.CORSOrigins, "https://reviews.example.com")
	require.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "")
	t.Setenv("GOOGLE_REDIRECT_URL", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("OAUTH_TIMEOUT", "")
	t.Setenv("OAUTH_STATE_TTL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("METRICS_GAUGE_UPDATE_INTERVAL", "")

	cfg := Load()

	assert.Equal(t, 0, cfg.AccessTokenExpireMinutes)
	assert.Equal(t, 10*time.Second, cfg.OAuthTimeout)
	assert.Equal(t, 10*time.Minute, cfg.OAuthStateTTL)
	assert.Equal(t, "https://accounts.google.com", cfg.GoogleIssuer)
	assert.Equal(t, []string{"openid", "email", "profile"}, cfg.GoogleScopes)
	assert.Equal(t, "http://localhost:8000/auth/google/callback", cfg.GoogleRedirectURL)
	assert.Equal(t, DefaultCORSOrigins, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Minute, cfg.MetricsGaugeUpdateInterval)
}

func TestLoad_NonNumericExpiryFailsValidation(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "thirty")

	cfg := Load()

	assert.Equal(t, 0, cfg.AccessTokenExpireMinutes)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_EXPIRE_MINUTES")
}

func TestStateSecret(t *testing.T) {
	cfg := &Config{JWTSecret: "abc"}
	assert.NotEqual(t, "abc", cfg.StateSecret())

	cfg.SessionSecret = "session"
	assert.Equal(t, "session", cfg.StateSecret())
}

func TestCORSOrigins_NoDuplicateFrontend(t *testing.T) {
	out := corsOrigins([]string{"http://localhost:5173"}, "http://localhost:5173/")
	assert.Equal(t, []string{"http://localhost:5173"}, out)
}
