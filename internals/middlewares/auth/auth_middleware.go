// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"portalpadres_backend/internals/configs"
	userModel "portalpadres_backend/internals/features/users/user/model"
)

// AuthMiddleware validates the bearer token and resolves the guardian into
// c.Locals("user_id") / c.Locals("user_email").
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		secret := configs.JWTSecret
		if secret == "" {
			log.Println("[ERROR] JWT_SECRET empty")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		}); err != nil {
			log.Println("[ERROR] token parse:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		uid, err := extractUserID(claims)
		if err != nil {
			log.Println("[ERROR] user_id:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}

		user, err := findActiveUser(db, uid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
			}
			if errors.Is(err, errUserNotValidated) {
				return fiber.NewError(fiber.StatusForbidden, "Tu cuenta no está activada")
			}
			log.Println("[ERROR] findActiveUser:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}

		c.Locals("user_id", user.UID)
		c.Locals("user_email", user.Correo)

		return c.Next()
	}
}

var errUserNotValidated = errors.New("user not validated")

func extractBearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")), nil
	}
	// cookie fallback for the web frontend
	if tok := strings.TrimSpace(c.Cookies("access_token")); tok != "" {
		return tok, nil
	}
	return "", errors.New("Unauthorized - missing bearer token")
}

func extractUserID(claims jwt.MapClaims) (uint, error) {
	sub, ok := claims["sub"]
	if !ok {
		return 0, errors.New("missing sub claim")
	}
	// numeric claims decode as float64
	f, ok := sub.(float64)
	if !ok || f <= 0 {
		return 0, errors.New("invalid sub claim")
	}
	return uint(f), nil
}

func findActiveUser(db *gorm.DB, uid uint) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.First(&user, "u_id = ?", uid).Error; err != nil {
		return nil, err
	}
	if user.Estatus != userModel.UserStatusValidado {
		return nil, errUserNotValidated
	}
	return &user, nil
}
