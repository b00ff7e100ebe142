package application

import (
	"errors"
	"time"
)

type SessionStatus struct {
	SignedIn bool
	SavedAt  time.Time
	// Opaque is set when the credential is not a decodable token.
	Opaque    bool
	User      string
	Role      string
	Issuer    string
	Scopes    []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carried an expiry that has passed at now.
func (s SessionStatus) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Status summarizes the current session for display.
func (s *SessionStore) Status() SessionStatus {
	session := s.Session()
	if !session.HasCredential() {
		return SessionStatus{}
	}

	status := SessionStatus{SignedIn: true, SavedAt: session.SavedAt}
	claims, err := ParseSessionClaims(session.Credential)
	if errors.Is(err, ErrOpaqueCredential) {
		status.Opaque = true
		return status
	}

	status.User = claims.UserLabel()
	status.Role = claims.Role
	status.Issuer = claims.Issuer
	status.Scopes = claims.Permissions
	status.ExpiresAt = claims.Expiry()
	if claims.IssuedAt != nil {
		status.IssuedAt = claims.IssuedAt.Time
	}
	return status
}
