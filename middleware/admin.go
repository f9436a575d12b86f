package middleware

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"moneyticket-demo/types"
)

// RequireAdmin guards the statistics endpoint with an HS256 bearer token
// signed with ADMIN_JWT_SECRET.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := os.Getenv("ADMIN_JWT_SECRET")
		if secret == "" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(types.ApiResponse{
				Status:  fiber.StatusServiceUnavailable,
				Message: "Admin access is not configured",
			})
		}

		authHeader := c.Get("Authorization")
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Missing or malformed authorization header",
			})
		}

		token, err := jwt.Parse(tokenParts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Invalid or expired token",
			})
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			c.Locals("admin", claims)
		}
		return c.Next()
	}
}
