package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/auth"
)

func sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-only"))
	require.NoError(t, err)
	return tok
}

func TestInspectReadsClaimsWithoutKey(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	tok := sign(t, auth.Claims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	})

	c, err := auth.Inspect(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)

	got, err := auth.Expiry(tok)
	require.NoError(t, err)
	assert.True(t, exp.Equal(got))
}

func TestExpired(t *testing.T) {
	now := time.Now()
	past := sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour))})
	future := sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))})
	none := sign(t, jwt.RegisteredClaims{Subject: "x"})

	assert.True(t, auth.Expired(past, now))
	assert.False(t, auth.Expired(future, now))
	assert.False(t, auth.Expired(none, now))
	assert.False(t, auth.Expired("not-a-jwt", now))

	_, err := auth.Expiry(none)
	assert.ErrorIs(t, err, auth.ErrNoExpiry)
}
