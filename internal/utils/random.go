package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomString returns a URL-safe string built from n bytes of entropy.
// It mints the dev gateway's bearer and refresh tokens.
func RandomString(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand is documented never to fail
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
