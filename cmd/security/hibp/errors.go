package hibp

import (
	"errors"
	"fmt"
)

// Public, stable errors for callers.
var (
	// ErrInsufficientPadding means a range response carried fewer candidates
	// than the documented padding floor. Treat it as a protocol or trust
	// failure, not a transient fault; it is never retried here.
	ErrInsufficientPadding = errors.New("range response below padding floor")

	// ErrBadDigestLength means a digest hex string did not have the length
	// required by the selected mode.
	ErrBadDigestLength = errors.New("digest hex has wrong length")
)

// NetworkError wraps a transport-level failure from the range fetch:
// connection refused, DNS failure, timeout, cancellation.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "range fetch: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError means the range endpoint answered with a non-success status.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("range endpoint returned status %d", e.StatusCode)
}

// DecodeError means a range response line did not parse as SUFFIX:COUNT.
// It carries the line number only; candidate payloads never ride on errors.
type DecodeError struct {
	Line int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed range response at line %d", e.Line)
}
