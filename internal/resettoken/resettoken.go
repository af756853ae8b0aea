// Package resettoken generates the one-time secrets used for password
// recovery. Only the sha256 of a secret is ever stored; the plaintext goes
// out by email and is never logged.
package resettoken

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// TTL is how long a reset secret stays valid.
const TTL = 10 * time.Minute

// NewSecret returns a fresh 256-bit secret as hex together with the hash to
// store.
func NewSecret() (secret string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	secret = hex.EncodeToString(buf)
	return secret, HashSecret(secret), nil
}

// HashSecret returns the hex sha256 of a plaintext secret.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
