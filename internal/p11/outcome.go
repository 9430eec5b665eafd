package p11

import "strings"

// Outcome classifies the result of a card operation. Outcomes drive
// operator-facing messaging, never process termination.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// OutcomeDeviceFull is the well-known card-memory-exhausted
	// condition, reported distinctly from a generic failure.
	OutcomeDeviceFull
	// OutcomeNotFound is an expected absence (e.g. deleting a typed
	// object that does not exist under a label). Not an error.
	OutcomeNotFound
	// OutcomeFailure is any other tool failure.
	OutcomeFailure
)

// Classify maps a pkcs11-tool invocation result to an Outcome. The tool
// reports Cryptoki return codes in its error output.
func Classify(output string, err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	switch {
	case strings.Contains(output, "CKR_DEVICE_MEMORY"):
		return OutcomeDeviceFull
	case strings.Contains(output, "CKR_OBJECT_HANDLE_INVALID"),
		strings.Contains(output, "object not found"):
		return OutcomeNotFound
	default:
		return OutcomeFailure
	}
}
