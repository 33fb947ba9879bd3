// Package cryptox holds the client-side password handling.
package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestLength is the length of a PasswordDigest result.
const DigestLength = 2 * sha256.Size

// PasswordDigest is the form in which a password leaves the client: the
// hex-encoded SHA-256 of the raw input. The server never sees the raw
// password and only accepts strings of DigestLength.
func PasswordDigest(password []byte) string {
	sum := sha256.Sum256(password)
	return hex.EncodeToString(sum[:])
}

// Wipe zeroes b in place.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
