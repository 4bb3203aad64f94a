// Package errors provides custom error types for the mcpchat client.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrConnectivity     = errors.New("MCP server unreachable")
	ErrEmptyInput       = errors.New("empty input")
	ErrInputDisabled    = errors.New("input disabled while a request is pending")
	ErrInvalidResponse  = errors.New("invalid response format")
	ErrNoContent        = errors.New("no content in response")
	ErrAlreadyPolling   = errors.New("connection monitor already polling")
	ErrInvalidInterval  = errors.New("poll interval must be positive")
	ErrProviderPanicked = errors.New("response provider panicked")
)

// ConnectivityError represents a probe or send failure against the MCP server
type ConnectivityError struct {
	Endpoint string
	Err      error
}

func (e *ConnectivityError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("MCP server unreachable at %s", e.Endpoint)
	}
	return fmt.Sprintf("MCP server unreachable at %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *ConnectivityError) Is(target error) bool {
	if target == ErrConnectivity {
		return true
	}
	_, ok := target.(*ConnectivityError)
	return ok
}

// NewConnectivityError creates a new ConnectivityError
func NewConnectivityError(endpoint string, err error) *ConnectivityError {
	return &ConnectivityError{Endpoint: endpoint, Err: err}
}

// EmptyInputError is returned when a submission is blank after trimming.
// It is never shown to the user.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string {
	return ErrEmptyInput.Error()
}

// Is allows comparison with sentinel errors
func (e *EmptyInputError) Is(target error) bool {
	if target == ErrEmptyInput {
		return true
	}
	_, ok := target.(*EmptyInputError)
	return ok
}

// NewEmptyInputError creates a new EmptyInputError
func NewEmptyInputError() *EmptyInputError {
	return &EmptyInputError{}
}

// APIError represents a non-success HTTP status from the MCP server
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// Is treats every APIError as a connectivity failure so callers can
// check a single category.
func (e *APIError) Is(target error) bool {
	if target == ErrConnectivity {
		return true
	}
	_, ok := target.(*APIError)
	return ok
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// WithBody attaches a (truncated) response body to the error
func (e *APIError) WithBody(body string) *APIError {
	const maxBody = 512
	if len(body) > maxBody {
		body = body[:maxBody] + "..."
	}
	e.Body = body
	return e
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// Is allows comparison with context.DeadlineExceeded
func (e *TimeoutError) Is(target error) bool {
	if target == context.DeadlineExceeded {
		return true
	}
	_, ok := target.(*TimeoutError)
	return ok
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error at %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// IsConnectivityError reports whether err is a probe/send failure
func IsConnectivityError(err error) bool {
	return errors.Is(err, ErrConnectivity)
}

// IsTimeoutError reports whether err is a timeout
func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te) || errors.Is(err, context.DeadlineExceeded)
}

// IsEmptyInput reports whether err marks a blank submission
func IsEmptyInput(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or ""
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var connErr *ConnectivityError
	if errors.As(err, &connErr) {
		return connErr.Endpoint
	}
	return ""
}

// GetResponseBody returns the response body carried by err, or ""
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}
