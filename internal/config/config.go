package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/franra18/ReViews/internal/util"

	"github.com/joho/godotenv"
)

// User cache type constants
const (
	UserCacheTypeMemory     = "memory"
	UserCacheTypeRedis      = "redis"
	UserCacheTypeRedisAside = "redis-aside"
)

// Database driver constants
const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
)

// DefaultCORSOrigins are the development frontends allowed to call the API.
var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
	"http://localhost:5173",
	"http://localhost:5174",
}

type Config struct {
	// Server settings
	ServerAddr   string
	BaseURL      string
	IsProduction bool
	CORSOrigins  []string

	// Token signing settings (required)
	JWTSecret                string
	JWTAlgorithm             string
	AccessTokenExpireMinutes int
	JWTExpiration            time.Duration

	// Session settings (only used to bind the OAuth state nonce to the browser)
	SessionSecret string
	SessionMaxAge int // seconds

	// Google OAuth (client id/secret required)
	GoogleClientID     string
	GoogleClientSecret string
	GoogleIssuer       string
	GoogleRedirectURL  string
	GoogleScopes       []string

	// Frontend that receives the token after the Google login (required)
	FrontendURL string

	// OAuth HTTP client and handshake settings
	OAuthTimeout            time.Duration
	OAuthInsecureSkipVerify bool
	OAuthStateTTL           time.Duration

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string
	DBInitTimeout  time.Duration

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string
	MetricsGaugeUpdateInterval time.Duration // 0 disables the gauge refresh job

	// User cache
	UserCacheType      string
	UserCacheTTL       time.Duration
	UserCacheClientTTL time.Duration

	// Redis (user cache only)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Timeouts
	CacheInitTimeout      time.Duration
	ServerShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	baseURL := strings.TrimRight(getEnv("BASE_URL", "http://localhost:8000"), "/")
	jwtSecret := getEnv("SECRET_KEY", "")
	expireMinutes := getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 0)
	frontendURL := getEnv("FRONTEND_URL", "")

	return &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8000"),
		BaseURL:      baseURL,
		IsProduction: getEnv("ENVIRONMENT", "development") == "production",
		CORSOrigins:  corsOrigins(getEnvSlice("CORS_ORIGINS", DefaultCORSOrigins), frontendURL),

		JWTSecret:                jwtSecret,
		JWTAlgorithm:             getEnv("ALGORITHM", ""),
		AccessTokenExpireMinutes: expireMinutes,
		JWTExpiration:            time.Duration(expireMinutes) * time.Minute,

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionMaxAge: getEnvInt("SESSION_MAX_AGE", 600),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleIssuer:       getEnv("GOOGLE_ISSUER", "https://accounts.google.com"),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", baseURL+"/auth/google/callback"),
		GoogleScopes:       getEnvSlice("GOOGLE_SCOPES", []string{"openid", "email", "profile"}),

		FrontendURL: frontendURL,

		OAuthTimeout:            getEnvDuration("OAUTH_TIMEOUT", 10*time.Second),
		OAuthInsecureSkipVerify: getEnvBool("OAUTH_INSECURE_SKIP_VERIFY", false),
		OAuthStateTTL:           getEnvDuration("OAUTH_STATE_TTL", 10*time.Minute),

		DatabaseDriver: getEnv("DATABASE_DRIVER", DatabaseDriverSQLite),
		DatabaseDSN:    getEnv("DATABASE_DSN", "reviews.db"),
		DBInitTimeout:  getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
		MetricsToken:   getEnv("METRICS_TOKEN", ""),
		MetricsGaugeUpdateInterval: getEnvDuration(
			"METRICS_GAUGE_UPDATE_INTERVAL",
			5*time.Minute,
		),

		UserCacheType:      getEnv("USER_CACHE_TYPE", UserCacheTypeMemory),
		UserCacheTTL:       getEnvDuration("USER_CACHE_TTL", 5*time.Minute),
		UserCacheClientTTL: getEnvDuration("USER_CACHE_CLIENT_TTL", 30*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CacheInitTimeout:      getEnvDuration("CACHE_INIT_TIMEOUT", 5*time.Second),
		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

// Validate reports every missing or invalid setting at once.
// The server must not start when it returns an error.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		key   string
		value string
	}{
		{"SECRET_KEY", c.JWTSecret},
		{"ALGORITHM", c.JWTAlgorithm},
		{"GOOGLE_CLIENT_ID", c.GoogleClientID},
		{"GOOGLE_CLIENT_SECRET", c.GoogleClientSecret},
		{"FRONTEND_URL", c.FrontendURL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.key))
		}
	}

	if c.AccessTokenExpireMinutes <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer"))
	}

	switch c.JWTAlgorithm {
	case "", "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf(
			"invalid ALGORITHM value: %q (must be one of: HS256, HS384, HS512)",
			c.JWTAlgorithm,
		))
	}

	switch c.DatabaseDriver {
	case DatabaseDriverSQLite, DatabaseDriverPostgres:
	default:
		errs = append(errs, fmt.Errorf(
			"invalid DATABASE_DRIVER value: %q (must be %q or %q)",
			c.DatabaseDriver, DatabaseDriverSQLite, DatabaseDriverPostgres,
		))
	}

	switch c.UserCacheType {
	case UserCacheTypeMemory:
	case UserCacheTypeRedis, UserCacheTypeRedisAside:
		if c.RedisAddr == "" {
			errs = append(errs, fmt.Errorf("USER_CACHE_TYPE=%q requires REDIS_ADDR", c.UserCacheType))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"invalid USER_CACHE_TYPE value: %q (must be one of: memory, redis, redis-aside)",
			c.UserCacheType,
		))
	}
	if c.UserCacheTTL <= 0 {
		errs = append(errs, errors.New("USER_CACHE_TTL must be a positive duration"))
	}
	if c.UserCacheType == UserCacheTypeRedisAside && c.UserCacheClientTTL <= 0 {
		errs = append(errs, errors.New("USER_CACHE_CLIENT_TTL must be a positive duration"))
	}

	if c.OAuthTimeout <= 0 {
		errs = append(errs, errors.New("OAUTH_TIMEOUT must be a positive duration"))
	}
	if c.OAuthStateTTL <= 0 {
		errs = append(errs, errors.New("OAUTH_STATE_TTL must be a positive duration"))
	}

	return errors.Join(errs...)
}

// StateSecret returns the key used to sign OAuth state tokens.
// It falls back to a value derived from the token signing secret so
// access tokens and state tokens never share a key.
func (c *Config) StateSecret() string {
	if c.SessionSecret != "" {
		return c.SessionSecret
	}
	return util.DeriveKey(c.JWTSecret, "oauth-state")
}

// corsOrigins appends the frontend address to the allow-list when missing.
func corsOrigins(origins []string, frontendURL string) []string {
	frontendURL = strings.TrimRight(frontendURL, "/")
	out := append([]string(nil), origins...)
	if frontendURL == "" {
		return out
	}
	for _, o := range out {
		if o == frontendURL {
			return out
		}
	}
	return append(out, frontendURL)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		if parts := splitAndTrim(value, ","); len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
