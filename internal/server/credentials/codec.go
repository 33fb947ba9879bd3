// Package credentials implements the one-way password hashing and the
// time-based one-time code checks used by registration and login.
//
// The server never sees a raw password: clients send a fixed-length digest
// of it (64 hex characters), which is then hashed again with bcrypt.
package credentials

import (
	"encoding/base32"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/anniv/internal/common"
	"github.com/dmitrijs2005/anniv/internal/cryptox"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

const (
	// PasswordDigestLength is the length of the client-side password digest.
	PasswordDigestLength = cryptox.DigestLength
	// MinSecretLength is the shortest accepted second-factor secret.
	MinSecretLength = 16
	// DefaultWindow is how many 30s steps either side of now a code may be from.
	DefaultWindow = 1
	totpPeriod    = 30
)

// Codec hashes and verifies credentials.
type Codec struct {
	cost   int
	window uint
	now    func() time.Time
}

type Option func(*Codec)

// WithTOTPWindow sets the number of steps either side of now that Window
// reports.
func WithTOTPWindow(steps uint) Option {
	return func(c *Codec) { c.window = steps }
}

// NewCodec returns a Codec hashing with the given bcrypt cost. Its TOTP
// window is DefaultWindow unless overridden.
func NewCodec(cost int, opts ...Option) *Codec {
	c := &Codec{cost: cost, window: DefaultWindow, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Window is the configured TOTP tolerance in steps.
func (c *Codec) Window() uint {
	return c.window
}

// HashPassword checks that candidate has the digest format and hashes it.
// A wrong format yields ErrInvalidPasswordFormat; a hashing backend failure
// yields ErrFatal.
func (c *Codec) HashPassword(candidate string) (string, error) {
	if len(candidate) != PasswordDigestLength {
		return "", common.ErrInvalidPasswordFormat
	}

	h, err := bcrypt.GenerateFromPassword([]byte(candidate), c.cost)
	if err != nil {
		return "", common.Wrap(common.ErrFatal, err)
	}
	return string(h), nil
}

// VerifyPassword reports whether candidate matches storedHash. A mismatch is
// (false, nil); an error means the stored hash itself is unusable.
func (c *Codec) VerifyPassword(candidate, storedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, common.Wrap(common.ErrFatal, err)
	}
}

// ValidSecret reports whether secret is a base32 TOTP secret of at least
// MinSecretLength characters. Lowercase and missing padding are accepted,
// as they are when codes are verified.
func ValidSecret(secret string) bool {
	if len(secret) < MinSecretLength {
		return false
	}
	s := strings.ToUpper(strings.TrimSpace(secret))
	if n := len(s) % 8; n != 0 {
		s += strings.Repeat("=", 8-n)
	}
	_, err := base32.StdEncoding.DecodeString(s)
	return err == nil
}

// VerifyTOTP reports whether code is valid for the base32 secret within
// window steps either side of now. Empty codes and malformed secrets never
// verify.
func (c *Codec) VerifyTOTP(secret, code string, window uint) bool {
	if code == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, c.now().UTC(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      window,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
