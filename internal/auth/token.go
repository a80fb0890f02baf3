package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// NewSecureToken returns a 64-character hex token for email verification and
// password reset links.
func NewSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b)
}
