package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"moneyticket-demo/config"
	demoTypes "moneyticket-demo/types/demo"
)

// Security sets the response security headers on every demo route.
func Security() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	}
}

var botPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bot`),
	regexp.MustCompile(`(?i)crawler`),
	regexp.MustCompile(`(?i)spider`),
	regexp.MustCompile(`(?i)scraper`),
}

// IsValidOrigin checks the origin against the explicit allowlist and the
// trusted hosting-platform substring. Advisory heuristic, not a security
// boundary.
func IsValidOrigin(cfg config.DemoConfig, origin string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range cfg.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return cfg.TrustedHostSubstring != "" && strings.Contains(origin, cfg.TrustedHostSubstring)
}

// IsValidUserAgent rejects obviously automated clients.
func IsValidUserAgent(userAgent string) bool {
	for _, pattern := range botPatterns {
		if pattern.MatchString(userAgent) {
			return false
		}
	}
	return true
}

// ValidateEnvironment rejects requests from unknown origins or bot-like
// user agents. Both checks are advisory: headers are attacker-controlled,
// so this only filters casual misuse.
func ValidateEnvironment(cfg config.DemoConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if origin := c.Get("Origin"); origin != "" && !IsValidOrigin(cfg, origin) {
			return c.Status(fiber.StatusForbidden).JSON(demoTypes.ErrorResponse{
				Error: "このオリジンからのアクセスは許可されていません",
			})
		}
		if userAgent := c.Get("User-Agent"); userAgent != "" && !IsValidUserAgent(userAgent) {
			return c.Status(fiber.StatusForbidden).JSON(demoTypes.ErrorResponse{
				Error: "このクライアントからのアクセスは許可されていません",
			})
		}
		return c.Next()
	}
}
