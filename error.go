package jobharvest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Error codes classify failures across the pipeline. Codes marked retryable
// describe transient conditions where a repeated attempt may succeed.
const (
	ECONNECTION     = "connection"      // transport-level failure (retryable)
	ETIMEOUT        = "timeout"         // operation exceeded deadline (retryable)
	ENETWORK        = "network"         // lower-level network failure (retryable)
	ESERVER         = "server"          // upstream 5xx/internal failure (retryable)
	ERATELIMIT      = "rate_limit"      // upstream throttling signal (retryable)
	EAUTH           = "auth"            // credential/authorization failure
	ENOTFOUND       = "not_found"       // referenced resource absent
	ECONFLICT       = "conflict"        // uniqueness/identity conflict
	EINVALID        = "invalid"         // malformed input/constraint violation
	EUNAVAILABLE    = "unavailable"     // circuit breaker open, fast-fail
	EINTERNAL       = "internal"        // unexpected internal failure
	ERETRYEXHAUSTED = "retry_exhausted" // terminal wrapper after exhausting retries
)

// Error represents an application error with a machine-readable code and a
// human-readable message. The code drives retry classification and the
// branch taken at stage boundaries.
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf constructs an Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapErr constructs an Error with the given code and message that wraps err.
func WrapErr(err error, code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// ErrorCode returns the code of the error, or an empty string if err is nil.
// Errors without a domain code report EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	}
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the error, or an empty string if err
// is nil. Errors without a domain code report a generic message.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	}
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// retryableCodes is the allow-list of transient error codes.
var retryableCodes = map[string]bool{
	ECONNECTION: true,
	ETIMEOUT:    true,
	ENETWORK:    true,
	ESERVER:     true,
	ERATELIMIT:  true,
}

// Retryable reports whether a repeated attempt of the operation that
// produced err may succeed. Classified domain errors follow the code
// allow-list. Transport-level transients (timeouts, connection resets) are
// retryable regardless of classification. Errors with no domain code are
// retryable by default: at a task boundary it is safer to retry an unknown
// failure than to silently drop data.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	var e *Error
	if errors.As(err, &e) {
		return retryableCodes[e.Code]
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	// Unclassified errors default to retryable at the task boundary.
	return true
}
