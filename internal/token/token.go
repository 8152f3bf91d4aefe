// Package token generates the opaque check-in credentials embedded in
// attendee QR codes. Tokens must be unguessable: possession of the string is
// the only thing gating check-in and undo.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Prefix identifies check-in tokens in logs and QR payloads.
const Prefix = "tok_"

// rawLen is the number of random bytes per token (192 bits of entropy).
const rawLen = 24

// New returns a fresh check-in token: "tok_" followed by 32 characters of
// unpadded URL-safe base64.
func New() (string, error) {
	buf := make([]byte, rawLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return Prefix + base64.RawURLEncoding.EncodeToString(buf), nil
}
