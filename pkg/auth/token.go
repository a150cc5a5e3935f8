// Package auth inspects the bearer tokens the storefront backend issues.
//
// The client never holds the signing key, so tokens are decoded without
// verification. The result is advisory: it lets the CLI and the local
// server warn about a session whose token has already expired, while the
// backend remains the authority.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when the token carries no exp claim.
var ErrNoExpiry = errors.New("auth: token has no expiry")

// Claims is the subset of the backend's token payload the client reads.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

// Inspect decodes token without checking its signature.
func Inspect(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Expiry returns the token's exp claim.
func Expiry(token string) (time.Time, error) {
	c, err := Inspect(token)
	if err != nil {
		return time.Time{}, err
	}
	if c.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return c.ExpiresAt.Time, nil
}

// Expired reports whether token is known to have expired at now. Tokens
// that cannot be decoded or carry no expiry are not reported as expired.
func Expired(token string, now time.Time) bool {
	exp, err := Expiry(token)
	if err != nil {
		return false
	}
	return !now.Before(exp)
}
