package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrOpaqueCredential = errors.New("credential is not a readable token")

type SessionClaims struct {
	jwt.RegisteredClaims
	UserID      any      `json:"user_id,omitempty"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

func (c SessionClaims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

func (c SessionClaims) UserLabel() string {
	if c.UserID != nil {
		return fmt.Sprint(c.UserID)
	}
	return c.Subject
}

// Claims decodes the current credential's payload for display only. The signature
// is not checked; the backend remains the authority on validity.
func (s *SessionStore) Claims() (SessionClaims, error) {
	credential, ok := s.Credential()
	if !ok {
		return SessionClaims{}, errors.New("not signed in")
	}

	return ParseSessionClaims(credential)
}

func ParseSessionClaims(credential string) (SessionClaims, error) {
	var claims SessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(credential, &claims); err != nil {
		return SessionClaims{}, fmt.Errorf("%w: %v", ErrOpaqueCredential, err)
	}

	return claims, nil
}
