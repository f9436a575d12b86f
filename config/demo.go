package config

import "time"

// DemoConfig holds every tunable of the demo verification flow. Values are
// fixed at construction and never mutated at runtime; components receive the
// struct by value.
type DemoConfig struct {
	// PhoneNumbers is the fixed allowlist of demo phone numbers (normalized,
	// digits only).
	PhoneNumbers []string

	// OTPCode is the fixed demo verification code. The demo deliberately
	// skips per-request randomness so the flow is reproducible.
	OTPCode string

	// Session settings
	SessionTimeout        time.Duration
	MaxConcurrentSessions int
	MaxSessionsPerIP      int
	CleanupInterval       time.Duration

	// Rate limit settings. SMSPerHour is declared for parity with the demo
	// parameter sheet but is not enforced by the send handler.
	SMSPerMinute      int
	SMSPerHour        int
	VerifyMaxAttempts int

	// OTPTimeout is how long an issued code stays valid.
	OTPTimeout time.Duration

	// TokenBytes is the number of random bytes in a demo token. The token is
	// rendered as lowercase hex, so the string is twice this length.
	TokenBytes int

	// AllowedOrigins is the explicit CORS allowlist. Origins containing
	// TrustedHostSubstring are also accepted.
	AllowedOrigins       []string
	TrustedHostSubstring string
}

// Default returns the canonical demo configuration.
func Default() DemoConfig {
	return DemoConfig{
		PhoneNumbers: []string{
			"09000000001", "09000000002", "09000000003", "09000000004", "09000000005",
			"09000000006", "09000000007", "09000000008", "09000000009", "09000000010",
		},
		OTPCode: "123456",

		SessionTimeout:        30 * time.Minute,
		MaxConcurrentSessions: 50,
		MaxSessionsPerIP:      3,
		CleanupInterval:       time.Hour,

		SMSPerMinute:      3,
		SMSPerHour:        10,
		VerifyMaxAttempts: 5,

		OTPTimeout: 5 * time.Minute,

		TokenBytes: 32,

		AllowedOrigins: []string{
			"https://moneyticket.vercel.app",
			"https://moneyticket-git-main-sakkayuta.vercel.app",
			"https://moneyticket-git-main-seai0520s-projects.vercel.app",
			"http://localhost:5173",
			"http://localhost:3000",
		},
		TrustedHostSubstring: "vercel.app",
	}
}

// IsDemoPhoneNumber reports whether the normalized phone number is part of
// the demo allowlist.
func (c DemoConfig) IsDemoPhoneNumber(normalized string) bool {
	for _, p := range c.PhoneNumbers {
		if p == normalized {
			return true
		}
	}
	return false
}

// ExamplePhoneNumbers returns the first n allowlisted numbers for use in
// user-facing guidance.
func (c DemoConfig) ExamplePhoneNumbers(n int) []string {
	if n > len(c.PhoneNumbers) {
		n = len(c.PhoneNumbers)
	}
	out := make([]string, n)
	copy(out, c.PhoneNumbers[:n])
	return out
}
