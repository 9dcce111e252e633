package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode identifies a relay failure kind.
type ErrorCode string

const (
	ErrSignatureInvalid    ErrorCode = "SIGNATURE_INVALID"     // 401
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"       // 400
	ErrNotFound            ErrorCode = "NOT_FOUND"             // 404
	ErrUpstreamFetchFailed ErrorCode = "UPSTREAM_FETCH_FAILED" // 500
	ErrPublishRejected     ErrorCode = "PUBLISH_REJECTED"      // 500
	ErrMalformedRequest    ErrorCode = "MALFORMED_REQUEST"     // 500
	ErrInternal            ErrorCode = "INTERNAL"              // 500
	ErrAgentUnreachable    ErrorCode = "AGENT_UNREACHABLE"     // 503
)

// RelayError is a structured error with code, HTTP status, and details.
type RelayError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *RelayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *RelayError) Unwrap() error {
	return e.Err
}

// NewSignatureInvalid creates a 401 error for a webhook whose signature does
// not match the shared secret.
func NewSignatureInvalid() *RelayError {
	return &RelayError{
		Code:    ErrSignatureInvalid,
		Status:  401,
		Message: "Invalid signature",
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *RelayError {
	return &RelayError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing upstream resource.
func NewNotFound(what, identifier string) *RelayError {
	return &RelayError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", what, identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewUpstreamFetchFailed creates a 500 error for a failed transcript fetch
// or agent call.
func NewUpstreamFetchFailed(service string, err error) *RelayError {
	msg := service + " request failed"
	if err != nil {
		msg = err.Error()
	}
	return &RelayError{
		Code:    ErrUpstreamFetchFailed,
		Status:  500,
		Message: msg,
		Details: map[string]any{"service": service},
		Err:     err,
	}
}

// NewAgentUnreachable creates a 503 error when the agent endpoint refuses
// connections or cannot be resolved.
func NewAgentUnreachable(url string, err error) *RelayError {
	return &RelayError{
		Code:    ErrAgentUnreachable,
		Status:  503,
		Message: fmt.Sprintf("agent service is not reachable at %s; make sure it is running", url),
		Details: map[string]any{"url": url},
		Err:     err,
	}
}

// NewPublishRejected creates a 500 error for a page the workspace refused.
// sinkStatus is the workspace API's own status code.
func NewPublishRejected(sinkStatus int, msg string, err error) *RelayError {
	return &RelayError{
		Code:    ErrPublishRejected,
		Status:  500,
		Message: msg,
		Details: map[string]any{"sink_status": sinkStatus},
		Err:     err,
	}
}

// NewMalformedRequest creates a 500 error for a request missing a field the
// workspace requires.
func NewMalformedRequest(msg string) *RelayError {
	return &RelayError{
		Code:    ErrMalformedRequest,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *RelayError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &RelayError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Err:     err,
	}
}

// As returns the RelayError in err's chain, if any.
func As(err error) (*RelayError, bool) {
	var rErr *RelayError
	if stderrors.As(err, &rErr) {
		return rErr, true
	}
	return nil, false
}

// Is checks if an error is a RelayError with the given code.
func Is(err error, code ErrorCode) bool {
	if rErr, ok := As(err); ok {
		return rErr.Code == code
	}
	return false
}
