package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStateManager(t *testing.T, clock *fakeClock) *StateManager {
	t.Helper()
	m, err := NewStateManager("state-secret", 10*time.Minute, WithClock(clock.Now))
	require.NoError(t, err)
	return m
}

func TestStateManager_GenerateVerify(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestStateManager(t, clock)

	state, nonce, err := m.Generate("google")
	require.NoError(t, err)
	assert.NotEmpty(t, state)
	assert.NotEmpty(t, nonce)

	got, err := m.Verify(state, "google", nonce)
	require.NoError(t, err)
	assert.Equal(t, nonce, got.Nonce)
	assert.Equal(t, "google", got.Provider)
	assert.True(t, got.ExpiresAt.Equal(clock.now.Add(10*time.Minute)))
}

func TestStateManager_NoncesAreUnique(t *testing.T) {
	m := newTestStateManager(t, &fakeClock{now: time.Now()})

	_, n1, err := m.Generate("google")
	require.NoError(t, err)
	_, n2, err := m.Generate("google")
	require.NoError(t, err)

	assert.NotEqual(t, n1, n2)
}

func TestStateManager_VerifyWithoutExpectedNonce(t *testing.T) {
	m := newTestStateManager(t, &fakeClock{now: time.Now()})

	state, nonce, err := m.Generate("google")
	require.NoError(t, err)

	got, err := m.Verify(state, "google", "")
	require.NoError(t, err)
	assert.Equal(t, nonce, got.Nonce)
}

func TestStateManager_VerifyRejects(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	m := newTestStateManager(t, clock)

	state, nonce, err := m.Generate("google")
	require.NoError(t, err)

	t.Run("missing state", func(t *testing.T) {
		_, err := m.Verify("", "google", nonce)
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("tampered state", func(t *testing.T) {
		_, err := m.Verify(state+"x", "google", nonce)
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("nonce mismatch", func(t *testing.T) {
		_, err := m.Verify(state, "google", "other-nonce")
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("different provider", func(t *testing.T) {
		_, err := m.Verify(state, "github", nonce)
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("signed with another key", func(t *testing.T) {
		other, err := NewStateManager("other-secret", 10*time.Minute, WithClock(clock.Now))
		require.NoError(t, err)
		foreign, foreignNonce, err := other.Generate("google")
		require.NoError(t, err)

		_, err = m.Verify(foreign, "google", foreignNonce)
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("access token is not a state", func(t *testing.T) {
		codec, err := NewCodec("state-secret", "HS256", WithClock(clock.Now))
		require.NoError(t, err)
		access, err := codec.Issue("google", map[string]any{"nonce": nonce}, time.Hour)
		require.NoError(t, err)

		_, err = m.Verify(access.TokenString, "google", nonce)
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("expired state", func(t *testing.T) {
		clock.Advance(11 * time.Minute)
		_, err := m.Verify(state, "google", nonce)
		require.ErrorIs(t, err, ErrInvalidState)
		require.ErrorIs(t, err, ErrExpiredToken)
	})
}
