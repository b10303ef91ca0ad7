package bootstrap

import (
	"fmt"

	"github.com/franra18/ReViews/internal/auth"
	"github.com/franra18/ReViews/internal/config"
	"github.com/franra18/ReViews/internal/core"
	"github.com/franra18/ReViews/internal/models"
	"github.com/franra18/ReViews/internal/services"
	"github.com/franra18/ReViews/internal/store"
	"github.com/franra18/ReViews/internal/token"
)

// serviceSet holds the business services shared by handlers and middleware
type serviceSet struct {
	authenticator *services.Authenticator
	user          *services.UserService
	handshake     *services.HandshakeService
	review        *services.ReviewService
}

// initializeServices creates all business logic services
func initializeServices(
	cfg *config.Config,
	db *store.Store,
	userCache core.Cache[models.User],
	google services.IdentityProvider,
	prometheusMetrics core.Recorder,
) (serviceSet, error) {
	codec, err := token.NewCodec(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		return serviceSet{}, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	states, err := token.NewStateManager(cfg.StateSecret(), cfg.OAuthStateTTL)
	if err != nil {
		return serviceSet{}, fmt.Errorf("failed to initialize OAuth state manager: %w", err)
	}

	// Password checks read the uncached store: cached users lose their hash.
	localProvider := auth.NewLocalAuthProvider(db)
	users := services.NewCachedUserStore(db, userCache, cfg.UserCacheTTL)
	tokens := services.NewTokenService(codec, cfg.JWTExpiration, prometheusMetrics)

	return serviceSet{
		authenticator: services.NewAuthenticator(codec, users, prometheusMetrics),
		user: services.NewUserService(
			users,
			db,
			localProvider,
			tokens,
			prometheusMetrics,
		),
		handshake: services.NewHandshakeService(
			google,
			states,
			users,
			tokens,
			cfg.FrontendURL,
			cfg.OAuthTimeout,
			prometheusMetrics,
		),
		review: services.NewReviewService(db, prometheusMetrics),
	}, nil
}
