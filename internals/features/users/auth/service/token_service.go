package service

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"portalpadres_backend/internals/configs"
)

const accessTTLDefault = 30 * time.Minute

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET no está configurado")
	}
	return secret, nil
}

// IssueAccessToken signs an HS256 access token for u_id; the subject claim is
// what the auth middleware resolves back into c.Locals.
func IssueAccessToken(uid uint, email string) (string, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", err
	}

	now := nowUTC()
	claims := jwt.MapClaims{
		"sub":   uid,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(accessTTLDefault).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
