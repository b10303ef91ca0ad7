package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/franra18/ReViews/internal/metrics"
	"github.com/franra18/ReViews/internal/models"
	"github.com/franra18/ReViews/internal/store"
	"github.com/franra18/ReViews/internal/token"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret-0123456789abcdef"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestCodec(t *testing.T, opts ...token.Option) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec(testSecret, "HS256", opts...)
	require.NoError(t, err)
	return codec
}

func newTestTokenService(t *testing.T, opts ...token.Option) *TokenService {
	t.Helper()
	return NewTokenService(newTestCodec(t, opts...), 30*time.Minute, metrics.NewNoopMetrics())
}

func createLocalUser(t *testing.T, s *store.Store, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Provider: models.ProviderLocal}
	if email != "" {
		user.Email = &email
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}
