package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gbianchi/implant-passport-api/internal/apperr"
)

// TokenService issues and verifies signed, time-bound identity tokens.
// Tokens are stateless: there is no server-side session store, a token is
// valid iff its signature verifies and it has not expired.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{secret: secret, ttl: ttl}
}

// Issue creates a token whose subject is the identity id, valid for the
// configured TTL from now.
func (s *TokenService) Issue(identityID string) (string, error) {
	if len(s.secret) == 0 {
		return "", apperr.ErrMissingSecret
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   identityID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token and returns the identity id it was
// issued for. Failures are exactly ErrTokenExpired (past its time bound) or
// ErrTokenMalformed (bad signature, unparsable payload, wrong algorithm).
func (s *TokenService) Verify(tokenStr string) (string, error) {
	if len(s.secret) == 0 {
		return "", apperr.ErrMissingSecret
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperr.ErrTokenExpired
		}
		return "", apperr.ErrTokenMalformed
	}
	if !token.Valid || claims.Subject == "" {
		return "", apperr.ErrTokenMalformed
	}
	return claims.Subject, nil
}
