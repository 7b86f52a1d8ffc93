package pkg

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateSessionID - generates a new unique session identifier.
func GenerateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "error-generating-session-id"
	}

	return base64.RawURLEncoding.EncodeToString(b)
}
