package utils

import (
	"crypto/rand"
	"encoding/base64"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateUserID returns an opaque identifier used to correlate a browser
// session with its broker-side connection.
func GenerateUserID(length int) (string, error) {
	return gonanoid.Generate(idAlphabet, length)
}

// GenerateRandomString generates a cryptographically secure random string
func GenerateRandomString(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to nanoid if crypto/rand fails
		id, _ := gonanoid.Generate(idAlphabet, length)
		return id
	}
	return base64.RawURLEncoding.EncodeToString(bytes)[:length]
}
