// Package auth issues, verifies and revokes the service's own HS256 tokens.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openshelf/openshelf/internal/accounts"
	"github.com/openshelf/openshelf/pkg/middleware"
)

var ErrInvalidToken = errors.New("auth: invalid token")

// Issuer signs access and refresh tokens for authenticated users.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// AccessToken carries the user identity and role names; handlers read both
// from the claims map the middleware stores.
func (i *Issuer) AccessToken(u *accounts.User, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.ID.Hex(),
		"name":  u.Name,
		"email": u.Email,
		"roles": roles,
		"typ":   "access",
		"iat":   now.Unix(),
		"exp":   now.Add(i.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// RefreshToken is a longer-lived token carrying only the subject.
func (i *Issuer) RefreshToken(u *accounts.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": u.ID.Hex(),
		"typ": "refresh",
		"iat": now.Unix(),
		"exp": now.Add(i.refreshTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// AccessTTL is exposed so handlers can report expires_in.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// parse validates the signature and expiry and returns the claims.
func (i *Issuer) parse(raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseRefresh validates a refresh token and returns its subject.
func (i *Issuer) ParseRefresh(raw string) (string, error) {
	claims, err := i.parse(raw)
	if err != nil {
		return "", err
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// token adapts parsed claims to the middleware's Token interface.
type token struct {
	claims jwt.MapClaims
}

func (t token) Claims(v interface{}) error {
	m, ok := v.(*map[string]interface{})
	if !ok {
		return ErrInvalidToken
	}
	*m = map[string]interface{}(t.claims)
	return nil
}

// Verify implements middleware.Verifier; only access tokens pass.
func (i *Issuer) Verify(_ context.Context, raw string) (middleware.Token, error) {
	claims, err := i.parse(raw)
	if err != nil {
		return nil, err
	}
	if typ, _ := claims["typ"].(string); typ != "access" {
		return nil, ErrInvalidToken
	}
	return token{claims: claims}, nil
}
