package otp

import (
	"errors"
	"fmt"
)

// Errors the verification flow can surface. The controller maps each one to
// its HTTP status and user-facing message.
var (
	// ErrInvalidToken covers a missing, unknown, inactive or expired demo token.
	ErrInvalidToken = errors.New("demo token is invalid or expired")

	// ErrSMSRateLimited means the per-minute send cap for the (phone, token)
	// pair was hit.
	ErrSMSRateLimited = errors.New("demo SMS rate limit reached")

	// ErrNoPendingCode means no unverified OTP record exists for the pair.
	ErrNoPendingCode = errors.New("no pending verification code")

	// ErrCodeExpired means the pending code is past its validity window.
	ErrCodeExpired = errors.New("verification code expired")

	// ErrAttemptsExhausted means the pending record burned all attempts and
	// is inert until a new code is issued.
	ErrAttemptsExhausted = errors.New("verification attempts exhausted")
)

// PhoneNotAllowedError rejects a number outside the demo allowlist. It
// carries a few valid examples for the error response.
type PhoneNotAllowedError struct {
	ValidNumbers []string
}

func (e *PhoneNotAllowedError) Error() string {
	return "phone number is not a demo number"
}

// MismatchError reports a wrong code. The attempt was already counted;
// Remaining tells how many are left. CorrectCode is exposed on purpose: demo
// transparency.
type MismatchError struct {
	Remaining   int
	CorrectCode string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("verification code mismatch, %d attempts remaining", e.Remaining)
}
