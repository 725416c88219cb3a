package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorType represents the category of error that occurred during a fetch operation
type ErrorType string

const (
	// ErrorTypeNetwork indicates a network-level error (connection refused, DNS, etc.)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeRateLimit indicates the request was rejected due to rate limiting (HTTP 429)
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeServer indicates a server error (HTTP 5xx)
	ErrorTypeServer ErrorType = "server"
	// ErrorTypeClient indicates a client error (HTTP 4xx except 429)
	ErrorTypeClient ErrorType = "client"
	// ErrorTypeTimeout indicates the request timed out
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeUnknown indicates an error of unknown type
	ErrorTypeUnknown ErrorType = "unknown"
)

// FetchError represents a failed fetch of a single locator
type FetchError struct {
	Type       ErrorType
	Locator    string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: %s error (status %d): %s", e.Locator, e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch %s: %s error: %s", e.Locator, e.Type, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a network error
func NewNetworkError(locator string, cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeNetwork,
		Locator: locator,
		Message: "network request failed",
		Cause:   cause,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(locator string, cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeTimeout,
		Locator: locator,
		Message: "request timed out",
		Cause:   cause,
	}
}

// ClassifyHTTPError classifies a non-success HTTP status code into a FetchError
func ClassifyHTTPError(locator string, statusCode int) *FetchError {
	e := &FetchError{Locator: locator, StatusCode: statusCode}
	switch {
	case statusCode == 429:
		e.Type = ErrorTypeRateLimit
		e.Message = "rate limit exceeded"
	case statusCode >= 500:
		e.Type = ErrorTypeServer
		e.Message = "server returned an error"
	case statusCode >= 400:
		e.Type = ErrorTypeClient
		e.Message = fmt.Sprintf("client error: HTTP %d", statusCode)
	default:
		e.Type = ErrorTypeUnknown
		e.Message = fmt.Sprintf("unexpected status code: %d", statusCode)
	}
	return e
}

// ClassifyTransportError turns an error returned before any response arrived
// into a FetchError.
func ClassifyTransportError(locator string, err error) *FetchError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewTimeoutError(locator, err)
	}
	return NewNetworkError(locator, err)
}
