package bootstrap

import (
	"github.com/franra18/ReViews/internal/handlers"
)

// handlerSet holds all HTTP handlers
type handlerSet struct {
	auth   *handlers.AuthHandler
	oauth  *handlers.OAuthHandler
	review *handlers.ReviewHandler
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(s serviceSet) handlerSet {
	return handlerSet{
		auth:   handlers.NewAuthHandler(s.user),
		oauth:  handlers.NewOAuthHandler(s.handshake),
		review: handlers.NewReviewHandler(s.review),
	}
}
