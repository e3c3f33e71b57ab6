package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"

	"github.com/publicador/server/pkg/internal/models"
)

// authMiddleware binds the caller account from a bearer token when one is
// presented; route handlers decide whether authentication is required.
func authMiddleware(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return c.Next()
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(viper.GetString("security.jwt_secret")), nil
	})
	if err != nil || !token.Valid {
		return c.Next()
	}

	user := models.Account{}
	if uid, ok := claims["uid"].(float64); ok {
		user.ID = uint(uid)
	}
	if name, ok := claims["name"].(string); ok {
		user.Name = name
	}
	if user.ID > 0 {
		c.Locals("user", user)
	}

	return c.Next()
}
