package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portalpadres_backend/internals/configs"
)

func TestIssueAccessToken(t *testing.T) {
	configs.JWTSecret = "test-secret"

	signed, err := IssueAccessToken(42, "madre@example.com")
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "madre@example.com", claims["email"])

	exp := int64(claims["exp"].(float64))
	iat := int64(claims["iat"].(float64))
	assert.Equal(t, int64((30 * time.Minute).Seconds()), exp-iat)
}

func TestIssueAccessTokenWithoutSecret(t *testing.T) {
	configs.JWTSecret = ""

	_, err := IssueAccessToken(1, "x@example.com")
	assert.Error(t, err)
}
