package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RandomHex returns 2n lowercase hex characters drawn from crypto/rand.
// The output is URL- and slug-safe.
func RandomHex(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("crypto: byte count must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("crypto: read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
