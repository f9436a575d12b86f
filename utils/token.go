package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateDemoToken produces a cryptographically random token of nBytes
// random bytes, rendered as a lowercase hex string. Tokens gate demo
// sessions, so a general-purpose PRNG is not acceptable here.
func GenerateDemoToken(nBytes int) (string, error) {
	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate demo token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
