package utils

import (
	"strings"
)

// NormalizePhone strips every non-digit character from a phone number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone renders an 11-digit number as XXX-XXXX-XXXX. Anything else is
// returned unchanged.
func FormatPhone(phone string) string {
	normalized := NormalizePhone(phone)
	if len(normalized) != 11 {
		return phone
	}
	return normalized[:3] + "-" + normalized[3:7] + "-" + normalized[7:]
}

// FormatPhones formats a list of numbers for user-facing guidance.
func FormatPhones(phones []string) []string {
	out := make([]string, len(phones))
	for i, p := range phones {
		out[i] = FormatPhone(p)
	}
	return out
}
