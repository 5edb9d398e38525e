package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

// CookieName is the browser cookie holding the signed session id.
const CookieName = "gamehub_session"

var ErrInvalidCookie = errors.New("invalid session cookie")

// Signer signs and verifies the session cookie. The cookie is an HS256 JWT
// whose jti is the session id; the key is derived from the app secret so
// the raw secret never signs anything directly.
type Signer struct {
	key []byte
	ttl time.Duration
}

func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("session: empty secret")
	}
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("gamehub session cookie v1"))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive cookie key: %w", err)
	}
	return &Signer{key: key, ttl: ttl}, nil
}

func (s *Signer) TTL() time.Duration { return s.ttl }

func (s *Signer) Sign(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Issuer:    "gamehub",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Parse returns the session id carried by a cookie value.
func (s *Signer) Parse(value string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(value, &claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer("gamehub"))
	if err != nil || !token.Valid || claims.ID == "" {
		return "", ErrInvalidCookie
	}
	return claims.ID, nil
}
