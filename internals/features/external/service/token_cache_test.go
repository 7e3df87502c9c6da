package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portalpadres_backend/internals/features/external/model"
)

type memTokenStore struct {
	tokens []model.APIToken
}

func (m *memTokenStore) Latest(_ context.Context) (*model.APIToken, error) {
	if len(m.tokens) == 0 {
		return nil, ErrNoToken
	}
	latest := m.tokens[0]
	for _, t := range m.tokens[1:] {
		if t.FechaRegistro.After(latest.FechaRegistro) {
			latest = t
		}
	}
	return &latest, nil
}

func (m *memTokenStore) Save(_ context.Context, pair TokenPair) error {
	m.tokens = append(m.tokens, model.APIToken{
		Token:         pair.AccessToken,
		RefreshToken:  pair.RefreshToken,
		FechaRegistro: fixedNow,
	})
	return nil
}

type fakeAuth struct {
	authPair    TokenPair
	authErr     error
	authCalls   int
	refreshPair TokenPair
	refreshErr  error
	refreshed   int
}

func (f *fakeAuth) Authenticate(_ context.Context) (TokenPair, error) {
	f.authCalls++
	return f.authPair, f.authErr
}

func (f *fakeAuth) Refresh(_ context.Context, _ TokenPair) (TokenPair, error) {
	f.refreshed++
	return f.refreshPair, f.refreshErr
}

var fixedNow = time.Date(2025, time.April, 15, 10, 0, 0, 0, time.UTC)

func newTestCache(store TokenStore, auth Authenticator) *TokenCache {
	c := NewTokenCache(store, auth)
	c.Now = func() time.Time { return fixedNow }
	return c
}

func TestAccessTokenReusesFreshToken(t *testing.T) {
	store := &memTokenStore{tokens: []model.APIToken{{
		Token:         "fresh-token",
		RefreshToken:  "refresh",
		FechaRegistro: fixedNow.Add(-23 * time.Hour),
	}}}
	auth := &fakeAuth{}
	cache := newTestCache(store, auth)

	token, err := cache.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
	assert.Zero(t, auth.authCalls)
	assert.Zero(t, auth.refreshed)
}

func TestAccessTokenRefreshesExpiredToken(t *testing.T) {
	store := &memTokenStore{tokens: []model.APIToken{{
		Token:         "stale-token",
		RefreshToken:  "refresh",
		FechaRegistro: fixedNow.Add(-25 * time.Hour),
	}}}
	auth := &fakeAuth{refreshPair: TokenPair{AccessToken: "refreshed-token", RefreshToken: "refresh-2"}}
	cache := newTestCache(store, auth)

	token, err := cache.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed-token", token)
	assert.Equal(t, 1, auth.refreshed)
	assert.Zero(t, auth.authCalls)

	// refreshed pair was persisted
	latest, err := store.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed-token", latest.Token)
}

func TestAccessTokenReauthenticatesWhenRefreshFails(t *testing.T) {
	store := &memTokenStore{tokens: []model.APIToken{{
		Token:         "stale-token",
		RefreshToken:  "refresh",
		FechaRegistro: fixedNow.Add(-48 * time.Hour),
	}}}
	auth := &fakeAuth{
		refreshErr: errors.New("refresh rejected"),
		authPair:   TokenPair{AccessToken: "brand-new", RefreshToken: "refresh-3"},
	}
	cache := newTestCache(store, auth)

	token, err := cache.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "brand-new", token)
	assert.Equal(t, 1, auth.refreshed)
	assert.Equal(t, 1, auth.authCalls)
}

func TestAccessTokenAuthenticatesWithEmptyStore(t *testing.T) {
	store := &memTokenStore{}
	auth := &fakeAuth{authPair: TokenPair{AccessToken: "first-token", RefreshToken: "r"}}
	cache := newTestCache(store, auth)

	token, err := cache.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first-token", token)
	assert.Equal(t, 1, auth.authCalls)
	assert.Len(t, store.tokens, 1)
}

func TestAccessTokenPropagatesAuthFailure(t *testing.T) {
	auth := &fakeAuth{authErr: errors.New("auth down")}
	cache := newTestCache(&memTokenStore{}, auth)

	_, err := cache.AccessToken(context.Background())
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	t.Run("no token stored", func(t *testing.T) {
		cache := newTestCache(&memTokenStore{}, &fakeAuth{})

		status, err := cache.Status(context.Background())
		require.NoError(t, err)
		assert.False(t, status.Valid)
		assert.Equal(t, "No hay token almacenado", status.Message)
	})

	t.Run("valid token", func(t *testing.T) {
		store := &memTokenStore{tokens: []model.APIToken{{
			Token:         "short",
			FechaRegistro: fixedNow.Add(-time.Hour),
		}}}
		cache := newTestCache(store, &fakeAuth{})

		status, err := cache.Status(context.Background())
		require.NoError(t, err)
		assert.True(t, status.Valid)
		assert.Equal(t, "short", status.TokenPreview)
	})

	t.Run("expired token with preview", func(t *testing.T) {
		long := "eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9.payload.signature-goes-here"
		store := &memTokenStore{tokens: []model.APIToken{{
			Token:         long,
			FechaRegistro: fixedNow.Add(-30 * time.Hour),
		}}}
		cache := newTestCache(store, &fakeAuth{})

		status, err := cache.Status(context.Background())
		require.NoError(t, err)
		assert.False(t, status.Valid)
		assert.Equal(t, "Token expirado (más de 24 horas)", status.Message)
		assert.Equal(t, long[:30]+"..."+long[len(long)-10:], status.TokenPreview)
	})
}
