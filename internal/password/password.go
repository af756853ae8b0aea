// Package password wraps bcrypt hashing for stored credentials.
package password

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt work factor used for every stored credential.
const DefaultCost = 12

// Hash returns a salted bcrypt digest of the plaintext. bcrypt generates a
// fresh random salt per call and embeds it in the digest.
func Hash(plaintext string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Compare reports whether the plaintext matches the stored digest.
func Compare(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
