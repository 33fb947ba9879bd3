package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTBackend keeps nothing server-side: the cookie is an HS256 token whose
// subject is the account id.
type JWTBackend struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTBackend(secret []byte, ttl time.Duration) *JWTBackend {
	return &JWTBackend{secret: secret, ttl: ttl, now: time.Now}
}

func (b *JWTBackend) Issue(_ context.Context, accountID string) (string, error) {
	now := b.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(b.ttl)),
	})
	return token.SignedString(b.secret)
}

func (b *JWTBackend) Resolve(_ context.Context, tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return b.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(b.now))
	if err != nil {
		return "", errors.Join(ErrNoSession, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrNoSession
	}
	return claims.Subject, nil
}

// Revoke is a no-op: a signed cookie cannot be recalled, only expired on
// the client.
func (b *JWTBackend) Revoke(context.Context, string) error {
	return nil
}
