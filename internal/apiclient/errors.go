package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies a failed round trip.
type Kind string

const (
	KindNone           Kind = ""
	KindTimeout        Kind = "TIMEOUT"
	KindNetwork        Kind = "NETWORK"
	KindAuthentication Kind = "AUTHENTICATION"
	KindSessionExpired Kind = "SESSION_EXPIRED"
	KindForbidden      Kind = "FORBIDDEN"
	KindNotFound       Kind = "NOT_FOUND"
	KindBadRequest     Kind = "BAD_REQUEST"
	KindConflict       Kind = "CONFLICT"
	KindServer         Kind = "SERVER"
	KindDecode         Kind = "DECODE"
)

// Error is returned by every Client call that did not succeed.
type Error struct {
	Kind   Kind
	Status int
	Method string
	Path   string
	// Message is the text the API returned, if any.
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (%d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or KindNone if err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNone
}

// MessageOf returns the API-provided message carried by err, if any.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// kindForStatus maps a non-2xx status. authenticated tells whether the
// request carried a bearer token.
func kindForStatus(status int, authenticated bool) Kind {
	switch {
	case status == http.StatusUnauthorized && authenticated:
		return KindSessionExpired
	case status == http.StatusUnauthorized:
		return KindAuthentication
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= 500:
		return KindServer
	default:
		return KindBadRequest
	}
}

func kindForTransport(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}
