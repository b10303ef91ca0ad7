package core

import (
	"context"

	"github.com/franra18/ReViews/internal/models"
)

// UserStore is the credential lookup surface the authentication core
// depends on. Lookups return store.ErrRecordNotFound when nothing matches.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpsertExternalUser returns the user owning email, creating it with
	// the candidate username when absent. Concurrent calls for the same
	// email converge on a single record.
	UpsertExternalUser(
		ctx context.Context,
		email, username, provider, fullName string,
	) (*models.User, error)
}
