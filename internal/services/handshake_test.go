package services

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/franra18/ReViews/internal/auth"
	"github.com/franra18/ReViews/internal/auth/fakeoidc"
	"github.com/franra18/ReViews/internal/metrics"
	"github.com/franra18/ReViews/internal/models"
	"github.com/franra18/ReViews/internal/store"
	"github.com/franra18/ReViews/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFrontendURL = "http://localhost:5173"

type handshakeFixture struct {
	service *HandshakeService
	store   *store.Store
	idp     *fakeoidc.Server
	codec   *token.Codec
}

func newHandshakeFixture(t *testing.T) *handshakeFixture {
	t.Helper()
	idp := fakeoidc.New(t, "reviews-client")
	provider, err := auth.NewGoogleProvider(context.Background(), auth.OAuthProviderConfig{
		ClientID:     "reviews-client",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8000/auth/google/callback",
		Issuer:       idp.URL,
	}, nil)
	require.NoError(t, err)

	states, err := token.NewStateManager("state-secret-0123456789", 10*time.Minute)
	require.NoError(t, err)

	s := newTestStore(t)
	codec := newTestCodec(t)
	tokens := NewTokenService(codec, 30*time.Minute, metrics.NewNoopMetrics())

	return &handshakeFixture{
		service: NewHandshakeService(
			provider, states, s, tokens, testFrontendURL, time.Second, metrics.NewNoopMetrics(),
		),
		store: s,
		idp:   idp,
		codec: codec,
	}
}

func (f *handshakeFixture) begin(t *testing.T) *LoginRedirect {
	t.Helper()
	redirect, err := f.service.Begin()
	require.NoError(t, err)
	return redirect
}

func TestHandshake_Begin(t *testing.T) {
	f := newHandshakeFixture(t)
	redirect := f.begin(t)

	u, err := url.Parse(redirect.URL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, redirect.State, q.Get("state"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "http://localhost:8000/auth/google/callback", q.Get("redirect_uri"))
	assert.NotEmpty(t, redirect.Nonce)

	other := f.begin(t)
	assert.NotEqual(t, redirect.Nonce, other.Nonce)
	assert.NotEqual(t, redirect.State, other.State)
}

func TestHandshake_CompleteCreatesAccount(t *testing.T) {
	f := newHandshakeFixture(t)
	redirect := f.begin(t)

	result, err := f.service.Complete(context.Background(), CallbackParams{
		Code:         fakeoidc.ValidCode,
		State:        redirect.State,
		SessionNonce: redirect.Nonce,
	})
	require.NoError(t, err)

	assert.Equal(t, "jane", result.User.Username)
	assert.Equal(t, "jane@example.com", result.User.EmailAddress())
	assert.Equal(t, models.ProviderGoogle, result.User.Provider)
	assert.False(t, result.User.Disabled)
	assert.False(t, result.User.HasPassword())

	stored, err := f.store.GetUserByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, stored.ID)

	claims, err := f.codec.Verify(result.Token.TokenString)
	require.NoError(t, err)
	assert.Equal(t, "jane", claims.Subject)
	assert.Equal(t, "jane@example.com", claims.Claims[ClaimEmail])
	assert.Equal(t, "Jane Doe", claims.Claims[ClaimName])

	u, err := url.Parse(result.RedirectURL)
	require.NoError(t, err)
	assert.Equal(t, testFrontendURL+"/auth-callback", u.Scheme+"://"+u.Host+u.Path)
	assert.Equal(t, result.Token.TokenString, u.Query().Get("token"))
}

func TestHandshake_RepeatLoginIsIdempotent(t *testing.T) {
	f := newHandshakeFixture(t)
	ctx := context.Background()

	var ids []string
	for range 2 {
		redirect := f.begin(t)
		result, err := f.service.Complete(ctx, CallbackParams{
			Code:         fakeoidc.ValidCode,
			State:        redirect.State,
			SessionNonce: redirect.Nonce,
		})
		require.NoError(t, err)
		ids = append(ids, result.User.ID)
	}
	assert.Equal(t, ids[0], ids[1])

	count, err := f.store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestHandshake_UsernameCollision(t *testing.T) {
	f := newHandshakeFixture(t)
	createLocalUser(t, f.store, "jane", "jane@other.example.com")
	redirect := f.begin(t)

	result, err := f.service.Complete(context.Background(), CallbackParams{
		Code:         fakeoidc.ValidCode,
		State:        redirect.State,
		SessionNonce: redirect.Nonce,
	})
	require.NoError(t, err)
	assert.Equal(t, "jane2", result.User.Username)
}

func TestHandshake_MixedCaseEmail(t *testing.T) {
	f := newHandshakeFixture(t)
	f.idp.SetIdentity(fakeoidc.Identity{
		Subject:       "google-sub-2",
		Email:         "Jane@Example.com",
		EmailVerified: true,
		Name:          "Jane Doe",
	})
	redirect := f.begin(t)

	result, err := f.service.Complete(context.Background(), CallbackParams{
		Code:         fakeoidc.ValidCode,
		State:        redirect.State,
		SessionNonce: redirect.Nonce,
	})
	require.NoError(t, err)
	assert.Equal(t, "jane", result.User.Username)
	assert.Equal(t, "jane@example.com", result.User.EmailAddress())
}

func TestHandshake_UserInfoFallback(t *testing.T) {
	f := newHandshakeFixture(t)
	f.idp.OmitIDToken(true)
	redirect := f.begin(t)

	result, err := f.service.Complete(context.Background(), CallbackParams{
		Code:         fakeoidc.ValidCode,
		State:        redirect.State,
		SessionNonce: redirect.Nonce,
	})
	require.NoError(t, err)
	assert.Equal(t, "jane", result.User.Username)
	assert.Equal(t, 1, f.idp.UserInfoCalls())
}

func TestHandshake_CompleteFailures(t *testing.T) {
	tests := []struct {
		name   string
		params func(r *LoginRedirect) CallbackParams
		setup  func(f *handshakeFixture)
		want   string
	}{
		{
			name: "provider error",
			params: func(r *LoginRedirect) CallbackParams {
				return CallbackParams{Error: "access_denied", State: r.State, SessionNonce: r.Nonce}
			},
			want: "access_denied",
		},
		{
			name: "missing code",
			params: func(r *LoginRedirect) CallbackParams {
				return CallbackParams{State: r.State, SessionNonce: r.Nonce}
			},
			want: "missing authorization code",
		},
		{
			name: "missing session",
			params: func(r *LoginRedirect) CallbackParams {
				return CallbackParams{Code: fakeoidc.ValidCode, State: r.State}
			},
			want: "login session not found",
		},
		{
			name: "nonce mismatch",
			params: func(r *LoginRedirect) CallbackParams {
				return CallbackParams{Code: fakeoidc.ValidCode, State: r.State, SessionNonce: "other"}
			},
			want: "invalid state",
		},
		{
			name: "tampered state",
			params: func(r *LoginRedirect) CallbackParams {
				return CallbackParams{Code: fakeoidc.ValidCode, State: r.State + "x", SessionNonce: r.Nonce}
			},
			want: "invalid state",
		},
		{
			name: "exchange rejected",
			params: func(r *LoginRedirect) CallbackParams {
				return CallbackParams{Code: "stolen-code", State: r.State, SessionNonce: r.Nonce}
			},
			want: "code exchange failed",
		},
		{
			name: "no email",
			params: func(r *LoginRedirect) CallbackParams {
				return CallbackParams{Code: fakeoidc.ValidCode, State: r.State, SessionNonce: r.Nonce}
			},
			setup: func(f *handshakeFixture) {
				f.idp.SetIdentity(fakeoidc.Identity{Subject: "no-mail", EmailVerified: true})
			},
			want: "could not fetch profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandshakeFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			redirect := f.begin(t)

			result, err := f.service.Complete(context.Background(), tt.params(redirect))
			assert.Nil(t, result)
			require.ErrorIs(t, err, ErrExternalAuth)
			assert.Contains(t, err.Error(), tt.want)

			count, err := f.store.CountUsers(context.Background())
			require.NoError(t, err)
			assert.Zero(t, count, "failed handshakes create no account")
		})
	}
}

func TestHandshake_ExpiredState(t *testing.T) {
	f := newHandshakeFixture(t)
	clock := newFakeClock()
	states, err := token.NewStateManager("state-secret-0123456789", 10*time.Minute, token.WithClock(clock.Now))
	require.NoError(t, err)
	f.service.states = states

	redirect := f.begin(t)
	clock.Advance(11 * time.Minute)

	_, err = f.service.Complete(context.Background(), CallbackParams{
		Code:         fakeoidc.ValidCode,
		State:        redirect.State,
		SessionNonce: redirect.Nonce,
	})
	require.ErrorIs(t, err, ErrExternalAuth)
	assert.Equal(t, 0, f.idp.TokenCalls(), "no exchange after a stale state")
}

func TestDeriveUsername(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane@example.com", "jane"},
		{"  jane.doe@example.com ", "jane.doe"},
		{"Jane@Example.com", "jane"},
		{"@example.com", "user"},
		{"", "user"},
		{"nodomain", "nodomain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveUsername(tt.email), tt.email)
	}
}
