package utils

// Stateless rate-limit arithmetic. Observed counts come from the store; these
// helpers only compare them to the configured thresholds.

// WithinSMSRate reports whether another SMS may be sent given the number of
// sends already observed in the window.
func WithinSMSRate(observed int64, limit int) bool {
	return observed < int64(limit)
}

// WithinVerifyAttempts reports whether another verification attempt is
// allowed.
func WithinVerifyAttempts(attempts, max int) bool {
	return attempts < max
}

// RemainingAttempts returns how many verification attempts are left, never
// below zero.
func RemainingAttempts(attempts, max int) int {
	remaining := max - attempts
	if remaining < 0 {
		return 0
	}
	return remaining
}
