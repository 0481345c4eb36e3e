package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Session is the login state the view is gated on. The bearer token is
// issued by the identity provider; only its expiry and subject are read
// here, the signature is checked by the API.
type Session struct {
	token  string
	claims *jwt.RegisteredClaims
	now    func() time.Time
}

func New(token string) *Session {
	s := &Session{token: token, now: time.Now}
	if token == "" {
		return s
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		s.claims = claims
	}
	return s
}

func (s *Session) Token() string {
	return s.token
}

// IsLoggedIn reports whether a token is present and, when it carries an
// expiry, not expired. Opaque tokens count as logged in.
func (s *Session) IsLoggedIn() bool {
	if s == nil || s.token == "" {
		return false
	}
	if s.claims == nil || s.claims.ExpiresAt == nil {
		return true
	}
	return s.now().Before(s.claims.ExpiresAt.Time)
}

// Subject is the token's sub claim, empty for opaque tokens.
func (s *Session) Subject() string {
	if s == nil || s.claims == nil {
		return ""
	}
	return s.claims.Subject
}

func (s *Session) ExpiresAt() (time.Time, bool) {
	if s == nil || s.claims == nil || s.claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return s.claims.ExpiresAt.Time, true
}
