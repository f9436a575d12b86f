package utils

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeOTP(t *testing.T) {
	assert.Equal(t, "123456", SanitizeOTP("123456"))
	assert.Equal(t, "123456", SanitizeOTP("12-34-56"))
	assert.Equal(t, "123456", SanitizeOTP("1234567890"))
	assert.Equal(t, "", SanitizeOTP("abcdef"))
	assert.Equal(t, "123", SanitizeOTP(" 1 2 3 "))
}

func TestSanitizeToken(t *testing.T) {
	assert.Equal(t, "deadbeef", SanitizeToken("deadbeef", 64))
	assert.Equal(t, "deadbeef", SanitizeToken("DEADBEEFdeadbeef"[8:], 64))
	assert.Equal(t, "dead", SanitizeToken("deadbeef", 4))
	assert.Equal(t, "abc123", SanitizeToken("abc-123!", 64))
	assert.Equal(t, "", SanitizeToken("XYZ", 64))
}

func TestSanitizeIP(t *testing.T) {
	assert.Equal(t, "192.168.1.1", SanitizeIP("192.168.1.1"))
	assert.Equal(t, "2001:0db8:0000:0000:0000:0000:0000:0001", SanitizeIP("2001:0db8:0000:0000:0000:0000:0000:0001"))
	assert.Equal(t, "unknown", SanitizeIP("not-an-ip"))
	assert.Equal(t, "unknown", SanitizeIP(""))
	assert.Equal(t, "unknown", SanitizeIP("192.168.1.1; DROP TABLE"))
}

func TestClientIP(t *testing.T) {
	app := fiber.New()
	app.Get("/ip", func(c *fiber.Ctx) error {
		return c.SendString(ClientIP(c))
	})

	requestIP := func(headers map[string]string) string {
		req := httptest.NewRequest("GET", "/ip", nil)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(body)
	}

	assert.Equal(t, "203.0.113.7", requestIP(map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}))
	assert.Equal(t, "198.51.100.2", requestIP(map[string]string{"X-Real-IP": "198.51.100.2"}))
	assert.Equal(t, "unknown", requestIP(nil))
}
