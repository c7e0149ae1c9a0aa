package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired is returned for every 403 response, whatever the
// endpoint and whatever the body. The bearer token must be considered dead.
var ErrSessionExpired = errors.New("session expired")

// RequestFailedError is a non-2xx, non-403 response.
type RequestFailedError struct {
	StatusCode int
	// Message is the body's "message" field, or a generic status text.
	Message string
	// Body is the raw response text when it was read (uploads, downloads).
	Body string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("request failed: HTTP %d: %s", e.StatusCode, e.Message)
}

// MalformedResponseError means the server answered with a body that could not
// be parsed as the expected JSON.
type MalformedResponseError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *MalformedResponseError) Error() string {
	msg := "could not parse server response"
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// NetworkError is a transport-level failure: no HTTP response was obtained,
// or the body could not be read.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsSessionExpired is shorthand for errors.Is(err, ErrSessionExpired).
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

func statusText(code int) string {
	if t := http.StatusText(code); t != "" {
		return t
	}
	return fmt.Sprintf("status %d", code)
}
