package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminApp() *fiber.App {
	app := fiber.New()
	app.Get("/stats", RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func adminRequest(t *testing.T, app *fiber.App, authorization string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/stats", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func signAdminToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestRequireAdminUnconfigured(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")
	app := newAdminApp()

	assert.Equal(t, fiber.StatusServiceUnavailable, adminRequest(t, app, ""))
}

func TestRequireAdmin(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "test-secret")
	app := newAdminApp()

	assert.Equal(t, fiber.StatusUnauthorized, adminRequest(t, app, ""))
	assert.Equal(t, fiber.StatusUnauthorized, adminRequest(t, app, "not-a-bearer-header"))
	assert.Equal(t, fiber.StatusUnauthorized, adminRequest(t, app, "Bearer not.a.token"))

	wrong := signAdminToken(t, "other-secret")
	assert.Equal(t, fiber.StatusUnauthorized, adminRequest(t, app, "Bearer "+wrong))

	valid := signAdminToken(t, "test-secret")
	assert.Equal(t, fiber.StatusOK, adminRequest(t, app, "Bearer "+valid))
}
