// Package errors provides the structured error type used across
// certumctl. Every error that may terminate the process carries the exit
// code the process must terminate with; everything else is absorbed by
// the main loop and surfaced as an operator-facing message.
package errors

import (
	"errors"
	"fmt"

	"github.com/Atrate/certumctl/internal/config"
)

// ErrorCode classifies failures per the tool's error taxonomy.
type ErrorCode int

const (
	CodeUnknown ErrorCode = iota
	CodeFatalSetup
	CodeDeclinedRemediation
	CodeRemediationFailure
	CodeTransientDevice
	CodeOperationFailure
	CodeUserInput
)

// CtlError is a structured error with operation context, classification
// and the exit code to use if it reaches main.
type CtlError struct {
	Op       string    // operation that failed, e.g. "probe_os", "ensure_service"
	Code     ErrorCode // taxonomy classification
	Err      error     // underlying error
	Context  string    // additional context (optional)
	ExitCode int       // process exit code when the error is terminal
}

func (e *CtlError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Context, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *CtlError) Unwrap() error {
	return e.Err
}

// Terminal reports whether this error must terminate the process.
// Transient device conditions and per-operation failures never do.
func (e *CtlError) Terminal() bool {
	switch e.Code {
	case CodeFatalSetup, CodeDeclinedRemediation, CodeRemediationFailure:
		return true
	}
	return false
}

// ExitCode extracts the process exit code for err. Unclassified errors
// map to the generic runtime error code.
func ExitCode(err error) int {
	if err == nil {
		return config.ExitOK
	}
	var ce *CtlError
	if errors.As(err, &ce) && ce.ExitCode != 0 {
		return ce.ExitCode
	}
	return config.ExitRuntimeError
}

// NewFatalSetup creates a fatal setup error (unreadable OS identity,
// missing library artifact, no usable terminal). Exit code 2.
func NewFatalSetup(op string, err error, context string) *CtlError {
	return &CtlError{
		Op:       op,
		Code:     CodeFatalSetup,
		Err:      err,
		Context:  context,
		ExitCode: config.ExitConfigError,
	}
}

// NewDeclined creates a declined-remediation error: the operator refused
// to install or start required middleware. Exit code 3.
func NewDeclined(op string, context string) *CtlError {
	return &CtlError{
		Op:       op,
		Code:     CodeDeclinedRemediation,
		Err:      errors.New("operator declined remediation"),
		Context:  context,
		ExitCode: config.ExitRequirements,
	}
}

// NewRemediationFailure creates a remediation-failure error: the
// remediation ran but its post-check failed. Exit code 1.
func NewRemediationFailure(op string, err error, context string) *CtlError {
	return &CtlError{
		Op:       op,
		Code:     CodeRemediationFailure,
		Err:      err,
		Context:  context,
		ExitCode: config.ExitRuntimeError,
	}
}

// NewTransientDevice creates a transient device error (no reader, no
// card). Never terminal; the session guard loops on it.
func NewTransientDevice(op string, err error) *CtlError {
	return &CtlError{
		Op:   op,
		Code: CodeTransientDevice,
		Err:  err,
	}
}

// NewOperationFailure creates a card-operation failure recovered locally
// inside its handler.
func NewOperationFailure(op string, err error, context string) *CtlError {
	return &CtlError{
		Op:      op,
		Code:    CodeOperationFailure,
		Err:     err,
		Context: context,
	}
}

// CodeString converts error codes to readable strings for diagnostics.
func CodeString(code ErrorCode) string {
	switch code {
	case CodeFatalSetup:
		return "FATAL_SETUP"
	case CodeDeclinedRemediation:
		return "DECLINED_REMEDIATION"
	case CodeRemediationFailure:
		return "REMEDIATION_FAILURE"
	case CodeTransientDevice:
		return "TRANSIENT_DEVICE"
	case CodeOperationFailure:
		return "OPERATION_FAILURE"
	case CodeUserInput:
		return "USER_INPUT"
	default:
		return "UNKNOWN"
	}
}
