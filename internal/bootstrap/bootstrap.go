package bootstrap

import (
	"context"
	"net/http"

	"github.com/franra18/ReViews/internal/config"
	"github.com/franra18/ReViews/internal/core"
	"github.com/franra18/ReViews/internal/models"
	"github.com/franra18/ReViews/internal/store"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB                 *store.Store
	MetricsRecorder    core.Recorder
	MetricsCache       core.Cache[int64]
	MetricsCacheCloser func() error
	UserCache          core.Cache[models.User]
	UserCacheCloser    func() error

	// Business layer
	Services serviceSet

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(ctx context.Context, cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	validateAllConfiguration(cfg)

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		return err
	}

	// Phase 3: Initialize business layer
	if err := app.initializeBusinessLayer(ctx); err != nil {
		return err
	}

	// Phase 4: Initialize HTTP layer
	app.initializeHTTPLayer()

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up database, metrics and caches
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	app.DB, err = initializeDatabase(ctx, app.Config)
	if err != nil {
		return err
	}

	app.MetricsRecorder = initializeMetrics(app.Config)
	app.MetricsCache, app.MetricsCacheCloser, err = initializeMetricsCache(ctx, app.Config)
	if err != nil {
		return err
	}

	app.UserCache, app.UserCacheCloser, err = initializeUserCache(ctx, app.Config)
	if err != nil {
		return err
	}

	return nil
}

// initializeBusinessLayer builds the Google provider and the services
func (app *Application) initializeBusinessLayer(ctx context.Context) error {
	oauthHTTPClient := createOAuthHTTPClient(app.Config)
	google, err := initializeGoogleProvider(ctx, app.Config, oauthHTTPClient)
	if err != nil {
		return err
	}

	app.Services, err = initializeServices(
		app.Config,
		app.DB,
		app.UserCache,
		google,
		app.MetricsRecorder,
	)
	return err
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() {
	app.HandlerSet = initializeHandlers(app.Services)
	app.Router = setupRouter(app.Config, app.DB, app.HandlerSet, app.Services, app.MetricsRecorder)
	app.Server = createHTTPServer(app.Config, app.Router)
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Config, app.Server)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.MetricsRecorder, app.MetricsCache)
	addCacheCleanupJob(m, "metrics", app.MetricsCacheCloser)
	addCacheCleanupJob(m, "user", app.UserCacheCloser)
	addDatabaseShutdownJob(m, app.DB)

	<-m.Done()
}
