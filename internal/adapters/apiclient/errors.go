package apiclient

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindTimeout   ErrorKind = "timeout"
	KindTransport ErrorKind = "transport"
	KindStatus    ErrorKind = "status"
	KindDecode    ErrorKind = "decode"
)

var ErrTimeout = errors.New("request timed out")

// Error is returned for every failed backend call.
type Error struct {
	Kind       ErrorKind
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	target := strings.TrimSpace(e.Method + " " + e.Path)
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("%s: request timed out", target)
	case KindStatus:
		message := strings.TrimSpace(e.Message)
		if message != "" {
			return fmt.Sprintf("%s: http %d: %s", target, e.StatusCode, message)
		}
		return fmt.Sprintf("%s: http %d", target, e.StatusCode)
	case KindDecode:
		return fmt.Sprintf("%s: decode response: %v", target, e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", target, e.Err)
		}
		return fmt.Sprintf("%s: transport error", target)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *Error) Is(target error) bool {
	return e != nil && target == ErrTimeout && e.Kind == KindTimeout
}
