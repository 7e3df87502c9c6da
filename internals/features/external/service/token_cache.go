package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"portalpadres_backend/internals/features/external/model"
)

// ErrNoToken is returned when pp_token has no rows yet.
var ErrNoToken = errors.New("external: no stored token")

// tokenTTL is how long SIGA keeps an access token alive.
const tokenTTL = 24 * time.Hour

// TokenPair is one access/refresh token set from the SIGA auth API.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenStore persists token pairs (pp_token).
type TokenStore interface {
	// Latest returns the most recently registered token, or ErrNoToken.
	Latest(ctx context.Context) (*model.APIToken, error)
	Save(ctx context.Context, pair TokenPair) error
}

// Authenticator talks to the SIGA auth API.
type Authenticator interface {
	Authenticate(ctx context.Context) (TokenPair, error)
	Refresh(ctx context.Context, pair TokenPair) (TokenPair, error)
}

// TokenCache hands out a valid SIGA access token, reusing the stored one while
// it is younger than 24 hours, then refreshing, then re-authenticating.
type TokenCache struct {
	Store TokenStore
	Auth  Authenticator
	Now   func() time.Time
}

func NewTokenCache(store TokenStore, auth Authenticator) *TokenCache {
	return &TokenCache{Store: store, Auth: auth}
}

func (c *TokenCache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// AccessToken returns a usable access token.
func (c *TokenCache) AccessToken(ctx context.Context) (string, error) {
	stored, err := c.Store.Latest(ctx)
	if err != nil && !errors.Is(err, ErrNoToken) {
		return "", err
	}

	if stored != nil {
		if c.now().Sub(stored.FechaRegistro) < tokenTTL {
			return stored.Token, nil
		}

		// Expired. Refresh keeps the session; a failed refresh falls through
		// to a full re-auth.
		pair, refreshErr := c.Auth.Refresh(ctx, TokenPair{
			AccessToken:  stored.Token,
			RefreshToken: stored.RefreshToken,
		})
		if refreshErr == nil {
			if saveErr := c.Store.Save(ctx, pair); saveErr != nil {
				return "", saveErr
			}
			return pair.AccessToken, nil
		}
		log.Printf("[INFO] refresh de token SIGA falló, reautenticando: %v", refreshErr)
	}

	pair, err := c.Auth.Authenticate(ctx)
	if err != nil {
		return "", err
	}
	if err := c.Store.Save(ctx, pair); err != nil {
		return "", err
	}
	return pair.AccessToken, nil
}

// Status reports whether the stored token is still inside its 24 hour window.
type TokenStatus struct {
	Valid         bool
	TokenPreview  string
	FechaRegistro *time.Time
	Message       string
}

func (c *TokenCache) Status(ctx context.Context) (TokenStatus, error) {
	stored, err := c.Store.Latest(ctx)
	if errors.Is(err, ErrNoToken) {
		return TokenStatus{Valid: false, Message: "No hay token almacenado"}, nil
	}
	if err != nil {
		return TokenStatus{}, err
	}

	valid := c.now().Sub(stored.FechaRegistro) < tokenTTL
	msg := "Token válido"
	if !valid {
		msg = "Token expirado (más de 24 horas)"
	}
	fecha := stored.FechaRegistro
	return TokenStatus{
		Valid:         valid,
		TokenPreview:  previewToken(stored.Token),
		FechaRegistro: &fecha,
		Message:       msg,
	}, nil
}

// previewToken shows the first 30 and last 10 characters only.
func previewToken(token string) string {
	if len(token) <= 40 {
		return token
	}
	return token[:30] + "..." + token[len(token)-10:]
}

// GormTokenStore backs TokenStore with pp_token.
type GormTokenStore struct {
	DB *gorm.DB
}

func NewGormTokenStore(db *gorm.DB) *GormTokenStore {
	return &GormTokenStore{DB: db}
}

func (s *GormTokenStore) Latest(ctx context.Context) (*model.APIToken, error) {
	var token model.APIToken
	err := s.DB.WithContext(ctx).Order("fecha_registro DESC").First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *GormTokenStore) Save(ctx context.Context, pair TokenPair) error {
	return s.DB.WithContext(ctx).Create(&model.APIToken{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}).Error
}
