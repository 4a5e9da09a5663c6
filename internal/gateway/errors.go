package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned for HTTP 401: the credential was missing or rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNetworkUnavailable is matched by every failure where no response arrived.
	ErrNetworkUnavailable = errors.New("network unavailable")
)

// RequestFailedError is an application-level failure reported by the API.
// A 401 is also a RequestFailedError so the server's message survives; its Err is
// ErrUnauthorized and errors.Is still sees the Unauthorized kind.
type RequestFailedError struct {
	Status  int
	Message string
	// Err is ErrUnauthorized for 401, or the local cause when the response could not be used.
	Err error
}

func (e *RequestFailedError) Error() string {
	if e.Status == 0 {
		return "request failed: " + e.Message
	}
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}

func (e *RequestFailedError) Unwrap() error { return e.Err }

// NetworkError carries the transport cause of an ErrNetworkUnavailable failure.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrNetworkUnavailable, e.Err)
}

// Unwrap exposes both the kind and the cause, so errors.Is works for
// ErrNetworkUnavailable as well as context.DeadlineExceeded and friends.
func (e *NetworkError) Unwrap() []error { return []error{ErrNetworkUnavailable, e.Err} }

// IsUnauthorized reports whether err is an ErrUnauthorized.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// IsNetwork reports whether err is an ErrNetworkUnavailable.
func IsNetwork(err error) bool { return errors.Is(err, ErrNetworkUnavailable) }

// AsRequestFailed extracts a *RequestFailedError from err.
func AsRequestFailed(err error) (*RequestFailedError, bool) {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf, true
	}
	return nil, false
}

// StatusOf returns the HTTP status behind err: 401 for Unauthorized, the response
// status for RequestFailed, and 0 when no response was received.
func StatusOf(err error) int {
	if IsUnauthorized(err) {
		return http.StatusUnauthorized
	}
	if rf, ok := AsRequestFailed(err); ok {
		return rf.Status
	}
	return 0
}
