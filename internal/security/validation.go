package security

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Atrate/certumctl/internal/config"
)

// Validation limits for operator-supplied values that end up in external
// tool invocations.
const (
	MaxLabelLength   = config.MaxLabelLength
	MaxKeyTypeLength = 32
	MinPINLength     = 4
	MaxPINLength     = 64
)

// labelChars restricts card object labels to characters that are safe to
// hand to external tools and sane to show in listings.
var labelChars = regexp.MustCompile(`^[a-zA-Z0-9 ._@-]+$`)

// keyTypeChars matches pkcs11-tool key-type strings such as "rsa:2048"
// and "EC:prime256v1".
var keyTypeChars = regexp.MustCompile(`^[a-zA-Z0-9:/-]+$`)

// ValidateLabel validates a card object label before it is passed to an
// external tool. Commands are invoked with structured argv, so this is
// defense against confusing tool output rather than shell injection,
// but the dangerous-character screen is kept anyway.
func ValidateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("label cannot be empty")
	}
	if len(label) > MaxLabelLength {
		return fmt.Errorf("label too long: %d characters (max %d)", len(label), MaxLabelLength)
	}
	if strings.ContainsAny(label, ";|&`$(){}[]<>\\\"'!*?") {
		return fmt.Errorf("label contains invalid characters")
	}
	if !labelChars.MatchString(label) {
		return fmt.Errorf("label contains unsupported characters")
	}
	return nil
}

// ValidateKeyType validates a key-type string such as "rsa:2048".
func ValidateKeyType(keyType string) error {
	if keyType == "" {
		return fmt.Errorf("key type cannot be empty")
	}
	if len(keyType) > MaxKeyTypeLength {
		return fmt.Errorf("key type too long: %d characters (max %d)", len(keyType), MaxKeyTypeLength)
	}
	if !keyTypeChars.MatchString(keyType) {
		return fmt.Errorf("key type contains unsupported characters")
	}
	return nil
}

// ValidatePIN performs a length sanity check only. PIN content is never
// inspected, logged or persisted.
func ValidatePIN(pin string) error {
	if len(pin) < MinPINLength {
		return fmt.Errorf("PIN too short (min %d characters)", MinPINLength)
	}
	if len(pin) > MaxPINLength {
		return fmt.Errorf("PIN too long (max %d characters)", MaxPINLength)
	}
	return nil
}
