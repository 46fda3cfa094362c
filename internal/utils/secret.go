package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// RefreshSecretBytes is the entropy of a refresh secret (256 bits).
const RefreshSecretBytes = 32

// DigestLength is the length of every value returned by DigestSecret.
const DigestLength = sha256.Size * 2

// NewRefreshSecret returns a random URL-safe refresh secret.
func NewRefreshSecret() (string, error) {
	b := make([]byte, RefreshSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DigestSecret hashes a refresh secret so the raw value is never stored.
func DigestSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// EqualDigests compares two digests in constant time. Inputs that are not
// exactly DigestLength long never match, so the only length branch is on
// malformed values and reveals nothing about content.
func EqualDigests(a, b string) bool {
	if len(a) != DigestLength || len(b) != DigestLength {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
