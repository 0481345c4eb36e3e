package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func TestIsLoggedIn(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	valid := New(signed(t, jwt.RegisteredClaims{
		Subject:   "jdoe",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}))
	valid.now = func() time.Time { return now }
	assert.True(t, valid.IsLoggedIn())
	assert.Equal(t, "jdoe", valid.Subject())

	expired := New(signed(t, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
	}))
	expired.now = func() time.Time { return now }
	assert.False(t, expired.IsLoggedIn())

	assert.True(t, New("opaque-token").IsLoggedIn())
	assert.False(t, New("").IsLoggedIn())

	var missing *Session
	assert.False(t, missing.IsLoggedIn())
}

func TestExpiresAt(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}))
	got, ok := s.ExpiresAt()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = New("opaque").ExpiresAt()
	assert.False(t, ok)
}
