package credentials

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/anniv/internal/common"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// secret is a 16-char base32 string, the shortest accepted enrollment.
const secret = "JBSWY3DPEHPK3PXP"

var digest = strings.Repeat("ab", 32)

func newTestCodec(now time.Time) *Codec {
	c := NewCodec(bcrypt.MinCost)
	c.now = func() time.Time { return now }
	return c
}

func codeAt(t *testing.T, at time.Time) string {
	t.Helper()
	code, err := totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)
	return code
}

func TestHashPassword_RejectsWrongLength(t *testing.T) {
	c := NewCodec(bcrypt.MinCost)

	for _, candidate := range []string{"", "short", digest + "x", digest[:63]} {
		_, err := c.HashPassword(candidate)
		assert.ErrorIs(t, err, common.ErrInvalidPasswordFormat, "len=%d", len(candidate))
	}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	c := NewCodec(bcrypt.MinCost)

	h, err := c.HashPassword(digest)
	require.NoError(t, err)
	assert.NotEqual(t, digest, h)

	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	ok, err := c.VerifyPassword(digest, h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.VerifyPassword(strings.Repeat("cd", 32), h)
	require.NoError(t, err)
	assert.False(t, ok, "mismatch is a plain false")
}

func TestHashPassword_BadCostIsFatal(t *testing.T) {
	c := NewCodec(bcrypt.MaxCost + 1)

	_, err := c.HashPassword(digest)
	assert.ErrorIs(t, err, common.ErrFatal)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	c := NewCodec(bcrypt.MinCost)

	ok, err := c.VerifyPassword(digest, "not-a-bcrypt-hash")
	assert.False(t, ok)
	assert.ErrorIs(t, err, common.ErrFatal)
}

func TestVerifyTOTP_Window(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 15, 0, time.UTC)
	c := newTestCodec(now)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"current step", now, true},
		{"one step behind", now.Add(-30 * time.Second), true},
		{"one step ahead", now.Add(30 * time.Second), true},
		{"two steps behind", now.Add(-60 * time.Second), false},
		{"two steps ahead", now.Add(60 * time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.VerifyTOTP(secret, codeAt(t, tt.at), c.Window()))
		})
	}
}

func TestVerifyTOTP_RejectsMissingAndMalformed(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(now)

	assert.False(t, c.VerifyTOTP(secret, "", DefaultWindow))
	assert.False(t, c.VerifyTOTP(secret, "12345", DefaultWindow))
	assert.False(t, c.VerifyTOTP(secret, "abcdef", DefaultWindow))
	assert.False(t, c.VerifyTOTP("not base32 !!", codeAt(t, now), DefaultWindow))
}

func TestVerifyTOTP_LowercaseSecret(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(now)

	assert.True(t, c.VerifyTOTP(strings.ToLower(secret), codeAt(t, now), DefaultWindow))
}

func TestVerifyTOTP_CustomWindow(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 15, 0, time.UTC)
	c := NewCodec(bcrypt.MinCost, WithTOTPWindow(2))
	c.now = func() time.Time { return now }

	assert.Equal(t, uint(2), c.Window())
	assert.True(t, c.VerifyTOTP(secret, codeAt(t, now.Add(-60*time.Second)), c.Window()))
	assert.False(t, c.VerifyTOTP(secret, codeAt(t, now.Add(-90*time.Second)), c.Window()))
	// window 0 accepts only the current step
	assert.True(t, c.VerifyTOTP(secret, codeAt(t, now), 0))
	assert.False(t, c.VerifyTOTP(secret, codeAt(t, now.Add(-30*time.Second)), 0))
}

func TestValidSecret(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{secret, true},
		{strings.ToLower(secret), true},
		{"JBSWY3DPEHPK3PXPJBSWY3DP", true},
		{"JBSWY3DPEHPK3PXPJB", true},
		{"JBSWY3DPEHPK3PX", false},
		{"!!!!!!!!!!!!!!!!", false},
		{"JBSWY3DPEHPK3PX1", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidSecret(tt.secret), tt.secret)
	}
}
