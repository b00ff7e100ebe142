package domain

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyCredential = errors.New("credential is empty")
	ErrUnknownRoute    = errors.New("unknown route")
)
