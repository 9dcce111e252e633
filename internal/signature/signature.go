// Package signature verifies webhook deliveries signed with a shared secret.
//
// The transcription service sends the hex HMAC-SHA256 of the raw request
// body in the x-hub-signature header, optionally prefixed with "sha256=".
package signature

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// Header is the request header carrying the signature.
const Header = "x-hub-signature"

const prefix = "sha256="

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether header is a valid signature of body under secret.
// An empty header or one of the wrong length never verifies.
func Verify(secret string, body []byte, header string) bool {
	got := strings.TrimPrefix(strings.TrimSpace(header), prefix)
	if got == "" {
		return false
	}
	want := Sign(secret, body)
	if len(got) != len(want) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(got)), []byte(want)) == 1
}

// GenerateSecret returns 32 random bytes encoded as unpadded base64url,
// suitable for configuring the webhook on both ends.
func GenerateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
