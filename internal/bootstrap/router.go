package bootstrap

import (
	"log"
	"net/http"
	"time"

	"github.com/franra18/ReViews/internal/config"
	"github.com/franra18/ReViews/internal/core"
	"github.com/franra18/ReViews/internal/handlers"
	"github.com/franra18/ReViews/internal/metrics"
	"github.com/franra18/ReViews/internal/middleware"
	"github.com/franra18/ReViews/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionCookieName = "reviews_session"

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	h handlerSet,
	s serviceSet,
	prometheusMetrics core.Recorder,
) *gin.Engine {
	setupGinMode(cfg)
	r := gin.New()

	r.Use(metrics.HTTPMetricsMiddleware(prometheusMetrics))
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))
	setupSessionMiddleware(r, cfg)

	r.GET("/", handlers.Root)
	r.GET("/health", handlers.Health(db))
	setupMetricsEndpoint(r, cfg)
	setupAllRoutes(r, h, middleware.RequireBearer(s.authenticator))

	logServerStartup(cfg)
	return r
}

// corsConfig allows the configured frontends to call the API with credentials
func corsConfig(cfg *config.Config) cors.Config {
	return cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// setupSessionMiddleware configures the cookie session that binds the
// Google login to the browser that started it
func setupSessionMiddleware(r *gin.Engine, cfg *config.Config) {
	sessionStore := cookie.NewStore([]byte(cfg.StateSecret()))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionCookieName, sessionStore))
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAllRoutes configures all application routes
func setupAllRoutes(r *gin.Engine, h handlerSet, gate gin.HandlerFunc) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.auth.Register)
		authGroup.POST("/token", h.auth.Token)
		authGroup.GET("/login/google", h.oauth.Login)
		authGroup.GET("/google/callback", h.oauth.Callback)
	}

	r.GET("/users/me", gate, handlers.Me)

	reviews := r.Group("/reviews", gate)
	{
		reviews.GET("", h.review.List)
		reviews.GET("/:id", h.review.Get)
		reviews.POST("", h.review.Create)
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	mode := ginModeMap[cfg.IsProduction]
	gin.SetMode(mode)
	log.Printf("Gin mode: %s", ginModeLogMessage[cfg.IsProduction])
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

var ginModeLogMessage = map[bool]string{
	true:  "Release (production)",
	false: "Debug (development)",
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	log.Printf("Reviews API starting on %s", cfg.ServerAddr)
	log.Printf("Google login: %s/auth/login/google", cfg.BaseURL)
	log.Printf("Frontend callback: %s/auth-callback", cfg.FrontendURL)
	log.Printf("CORS origins: %v", cfg.CORSOrigins)
}
