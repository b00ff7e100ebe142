package domain

import (
	"strings"
	"time"
)

type Session struct {
	// Credential is an opaque bearer token; empty means signed out.
	Credential string
	SavedAt    time.Time
}

func (s Session) HasCredential() bool {
	return strings.TrimSpace(s.Credential) != ""
}
