package command

import "fmt"

// Code classifies a command failure. The gateway maps codes to HTTP status.
type Code string

const (
	// CodeValidation is a parameter outside its allowed range.
	CodeValidation Code = "validation"
	// CodeParse is a malformed request body.
	CodeParse Code = "parse"
	// CodeNotFound is an unknown route.
	CodeNotFound Code = "not_found"
	// CodeActuator is an unexpected fault calling the robot.
	CodeActuator Code = "actuator"
	// CodeInternal is any other uncaught fault.
	CodeInternal Code = "internal"
)

// Error is a structured command failure with a short reason and an
// optional expanded description.
type Error struct {
	Code    Code
	Message string
	Details string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// Invalid creates a validation error.
func Invalid(message, details string) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

// ParseFailure creates a parse error describing the expected body shape.
func ParseFailure(details string) *Error {
	return &Error{Code: CodeParse, Message: "Invalid request body", Details: details}
}

// NotFound creates a route-not-found error listing valid endpoints.
func NotFound(details string) *Error {
	return &Error{Code: CodeNotFound, Message: "Not found", Details: details}
}

// ActuatorFailure wraps an error from the robot.
func ActuatorFailure(err error) *Error {
	return &Error{Code: CodeActuator, Message: "Robot command failed", Details: err.Error()}
}

// Internal wraps any other uncaught fault.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "Internal server error", Details: err.Error()}
}

// Result is the outcome of dispatching one command: either a success with a
// message and echoed data, or a failure carrying a coded error. The gateway
// consumes it for serialization only.
type Result struct {
	OK      bool
	Message string
	Data    any
	Err     *Error
}

// Success creates a successful result.
func Success(message string, data any) Result {
	return Result{OK: true, Message: message, Data: data}
}

// Failure creates a failed result.
func Failure(err *Error) Result {
	return Result{Err: err}
}
