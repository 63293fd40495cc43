package devapi

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "folio-devapi"

// Tokens issues and verifies the HS256 tokens handed out by /auth/login.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token manager signing with secret.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issue signs a token for username.
func (t *Tokens) Issue(username string) (string, error) {
	now := t.now().UTC()
	c := claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

// Parse verifies raw and returns the username it was issued to.
func (t *Tokens) Parse(raw string) (string, error) {
	var c claims
	tkn, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", err
	}
	if !tkn.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	return c.Username, nil
}
