package utils

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	ipv4Pattern = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)
	ipv6Pattern = regexp.MustCompile(`(?i)^([0-9a-f]{1,4}:){7}[0-9a-f]{1,4}$`)
)

// SanitizeOTP keeps digits only, capped at 6 characters.
func SanitizeOTP(otp string) string {
	digits := NormalizePhone(otp)
	if len(digits) > 6 {
		return digits[:6]
	}
	return digits
}

// SanitizeToken keeps lowercase-hex characters only, capped at maxLen.
func SanitizeToken(token string, maxLen int) string {
	var b strings.Builder
	for _, r := range token {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}

// SanitizeIP returns the address if it looks like a plain IPv4 or IPv6
// address, otherwise "unknown".
func SanitizeIP(ip string) string {
	if ipv4Pattern.MatchString(ip) || ipv6Pattern.MatchString(ip) {
		return ip
	}
	return "unknown"
}

// ClientIP derives the caller address from the forwarding headers: the first
// X-Forwarded-For entry, then X-Real-IP, else "unknown".
func ClientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	if real := c.Get("X-Real-IP"); real != "" {
		return real
	}
	return "unknown"
}
