package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashUserAgent returns the SHA-256 hex digest of a user agent string.
// Raw user agents are never persisted; an empty input yields "".
func HashUserAgent(userAgent string) string {
	if userAgent == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(userAgent))
	return hex.EncodeToString(sum[:])
}

// SecureCompare compares two strings in constant time.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
