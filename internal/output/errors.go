package output

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/pocketlist/pocketlist/internal/gateway"
)

// Error is a structured error with code, message, and optional hint.
type Error struct {
	Code      string
	Message   string
	Hint      string
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Hint)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	return ExitCodeFor(e.Code)
}

// Error constructors for common cases.

func ErrUsage(msg string) *Error {
	return &Error{Code: CodeUsage, Message: msg}
}

func ErrUsageHint(msg, hint string) *Error {
	return &Error{Code: CodeUsage, Message: msg, Hint: hint}
}

func ErrNotFound(resource, identifier string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
	}
}

func ErrAuth(msg string) *Error {
	return &Error{
		Code:    CodeAuth,
		Message: msg,
		Hint:    "Run: pocketlist auth login",
	}
}

func ErrForbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

func ErrNetwork(cause error) *Error {
	return &Error{
		Code:      CodeNetwork,
		Message:   "Network error",
		Hint:      cause.Error(),
		Retryable: true,
		Cause:     cause,
	}
}

func ErrAPI(msg string, cause error) *Error {
	return &Error{Code: CodeAPI, Message: msg, Cause: cause}
}

// AsError attempts to convert an error to an *Error.
// Gateway sentinels and network failures map to their own codes.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var netErr net.Error
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: err.Error(), Cause: err}
	case errors.Is(err, gateway.ErrUnsupportedAccessLevel):
		return &Error{Code: CodeForbidden, Message: err.Error(), Cause: err}
	case errors.Is(err, gateway.ErrInvalidKey):
		return &Error{Code: CodeUsage, Message: err.Error(), Cause: err}
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr):
		return ErrNetwork(err)
	}

	return &Error{
		Code:    CodeAPI,
		Message: err.Error(),
		Cause:   err,
	}
}
