package jwtx

import (
	"crypto/rand"
	"encoding/base64"
)

// newJTI returns a URL-safe random identifier for the "jti" claim so two
// tokens minted in the same second for the same subject still differ.
func newJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
