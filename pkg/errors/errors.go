package errors

import (
	"fmt"
)

// ErrorCategory is a coarse classification used for logging and metrics.
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryProtocol   ErrorCategory = "protocol"
	CategoryNetwork    ErrorCategory = "network_error"
)

// MissingParameterError indicates a required request parameter was absent.
// It is raised before any network I/O takes place.
type MissingParameterError struct {
	Param string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter: %s", e.Param)
}

func (e *MissingParameterError) Category() ErrorCategory { return CategoryValidation }

// NewMissingParameter creates a MissingParameterError for the given field.
func NewMissingParameter(param string) *MissingParameterError {
	return &MissingParameterError{Param: param}
}

// MalformedAuthorizationError indicates an authorization reference that
// could not be split into its transaction-reference and order-id halves.
type MalformedAuthorizationError struct {
	Authorization string
}

func (e *MalformedAuthorizationError) Error() string {
	return fmt.Sprintf("malformed authorization %q: expected \"<txRefNum>;<orderId>\"", e.Authorization)
}

func (e *MalformedAuthorizationError) Category() ErrorCategory { return CategoryValidation }

// XMLParseError indicates the processor response body was not parseable XML.
type XMLParseError struct {
	Cause error
}

func (e *XMLParseError) Error() string {
	return fmt.Sprintf("failed to parse response XML: %v", e.Cause)
}

func (e *XMLParseError) Unwrap() error { return e.Cause }

func (e *XMLParseError) Category() ErrorCategory { return CategoryProtocol }

// ConnectionExhaustedError indicates the transport gave up after the
// configured number of connection attempts against both endpoints.
type ConnectionExhaustedError struct {
	Attempts int
	Cause    error
}

func (e *ConnectionExhaustedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection failed after %d attempts: %v", e.Attempts, e.Cause)
	}
	return fmt.Sprintf("connection failed after %d attempts", e.Attempts)
}

func (e *ConnectionExhaustedError) Unwrap() error { return e.Cause }

func (e *ConnectionExhaustedError) Category() ErrorCategory { return CategoryNetwork }
