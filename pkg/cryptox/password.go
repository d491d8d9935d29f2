// Package cryptox provides password hashing for credential storage.
package cryptox

import (
	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor. 12 keeps a single hash in the low
// hundreds of milliseconds on current hardware; tests use MinCost.
const HashCost = 12

// HashPassword returns a bcrypt hash of password with an embedded random
// salt, so hashing the same password twice yields different strings.
// Neither the password nor the hash is ever logged by this package.
func HashPassword(password string) (string, error) {
	return HashPasswordCost(password, HashCost)
}

// HashPasswordCost is HashPassword with an explicit cost, for tests that
// would otherwise spend most of their time inside bcrypt.
func HashPasswordCost(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
// Malformed or truncated hashes simply report false, never an error, so a
// corrupt row degrades to a failed login rather than a 500.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
