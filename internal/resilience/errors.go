// Package resilience classifies failures of outbound provider calls so they
// can be logged and counted. A failed call is never retried within a run.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// Kind names a failure class in log output.
type Kind string

const (
	KindNone           Kind = ""
	KindTimeout        Kind = "timeout"
	KindTransport      Kind = "transport"
	KindHTTPStatus     Kind = "http_status"
	KindDecode         Kind = "decode"
	KindProviderStatus Kind = "provider_status"
	KindCanceled       Kind = "canceled"
	KindUnknown        Kind = "unknown"
)

// StatusError is returned when a provider answers with a non-200 status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
}

// NewStatusError wraps a non-200 HTTP status code.
func NewStatusError(statusCode int) *StatusError {
	return &StatusError{StatusCode: statusCode}
}

// DecodeError wraps a response body that could not be parsed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError wraps a body parsing failure.
func NewDecodeError(err error) *DecodeError {
	return &DecodeError{Err: err}
}

// Classify maps an error returned by a provider call to a Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	var se *StatusError
	if errors.As(err, &se) {
		return KindHTTPStatus
	}

	var de *DecodeError
	if errors.As(err, &de) {
		return KindDecode
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	if isTransportError(err) {
		return KindTransport
	}

	return KindUnknown
}

// IsTransient returns true if the error (or any error in its chain) is a
// non-200 status that is usually temporary, or matches common transient
// network patterns (timeouts, connection resets, DNS failures).
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return IsTransientHTTPStatus(se.StatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return isTransportError(err)
}

func isTransportError(err error) bool {
	// Connection reset / refused / DNS.
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	// String-based heuristics for wrapped errors from HTTP clients.
	msg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection reset by peer",
		"connection refused",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
		"transport connection broken",
	}
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

// IsTransientHTTPStatus returns true if the HTTP status code indicates a
// transient server-side issue. The pipeline does not retry these, but they are
// reported so an operator can decide to reset and rerun.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, // Request Timeout
		429, // Too Many Requests
		500, // Internal Server Error
		502, // Bad Gateway
		503, // Service Unavailable
		504: // Gateway Timeout
		return true
	default:
		return false
	}
}
