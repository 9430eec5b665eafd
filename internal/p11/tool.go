// Package p11 drives the external pkcs11-tool utility. certumctl is not
// a PKCS#11 driver: every card interaction goes through one structured
// argv invocation of pkcs11-tool against the vendor module.
package p11

import (
	"log"
	"os/exec"
	"strings"
)

// ObjectType is a pkcs11-tool object-type classification.
type ObjectType string

const (
	TypeCertificate ObjectType = "cert"
	TypeData        ObjectType = "data"
	TypePrivateKey  ObjectType = "privkey"
	TypePublicKey   ObjectType = "pubkey"
	TypeSecretKey   ObjectType = "secrkey"
)

// AllObjectTypes lists every object-type classification the tool
// supports. Card object labels do not declare their own type, so
// exhaustive operations sweep all five.
var AllObjectTypes = []ObjectType{
	TypeCertificate,
	TypeData,
	TypePrivateKey,
	TypePublicKey,
	TypeSecretKey,
}

// CommandRunner executes pkcs11-tool and returns its combined output.
// Tests substitute a fake.
type CommandRunner func(name string, args ...string) ([]byte, error)

func defaultRunner(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Tool wraps pkcs11-tool invocations against a fixed vendor module.
type Tool struct {
	module string
	run    CommandRunner
	logger *log.Logger
}

// New creates a Tool using the vendor PKCS#11 module at modulePath.
func New(modulePath string, logger *log.Logger) *Tool {
	return &Tool{module: modulePath, run: defaultRunner, logger: logger}
}

// NewWithRunner creates a Tool with an injected command runner.
func NewWithRunner(modulePath string, logger *log.Logger, run CommandRunner) *Tool {
	return &Tool{module: modulePath, run: run, logger: logger}
}

func (t *Tool) invoke(args ...string) (string, error) {
	argv := append([]string{"--module", t.module}, args...)
	t.logger.Printf("pkcs11-tool %s", redactPIN(argv))
	out, err := t.run("pkcs11-tool", argv...)
	return string(out), err
}

// redactPIN renders an argv for diagnostics with the PIN value masked.
func redactPIN(argv []string) string {
	masked := make([]string, len(argv))
	copy(masked, argv)
	for i := 0; i < len(masked)-1; i++ {
		if masked[i] == "--pin" {
			masked[i+1] = "****"
		}
	}
	return strings.Join(masked, " ")
}

// ListSlots returns the raw slot listing. Reader and card presence are
// derived from this output by the session guard.
func (t *Tool) ListSlots() (string, error) {
	return t.invoke("--list-slots")
}

// ListMechanisms returns the raw mechanism listing for the token.
func (t *Tool) ListMechanisms() (string, error) {
	return t.invoke("--list-mechanisms")
}

// ListObjects returns the raw object listing under the given PIN.
func (t *Tool) ListObjects(pin string) (string, error) {
	return t.invoke("--login", "--pin", pin, "--list-objects")
}

// ReadPublicKey reads the public key stored under label and returns the
// raw tool output for display.
func (t *Tool) ReadPublicKey(label, pin string) (string, error) {
	return t.invoke("--login", "--pin", pin,
		"--read-object", "--type", string(TypePublicKey), "--label", label)
}

// GenerateKeyPair generates a keypair of keyType under label.
func (t *Tool) GenerateKeyPair(keyType, label, pin string) (string, error) {
	return t.invoke("--login", "--pin", pin,
		"--keypairgen", "--key-type", keyType, "--label", label)
}

// DeleteObject deletes the object of the given type stored under label.
// Deleting a typed object that does not exist is an expected absence,
// classified by Classify, not an error the caller should surface.
func (t *Tool) DeleteObject(label string, typ ObjectType, pin string) (string, error) {
	return t.invoke("--login", "--pin", pin,
		"--delete-object", "--type", string(typ), "--label", label)
}

// Unlock logs in and runs the tool's PIN unlock sub-operation against
// the token.
func (t *Tool) Unlock(pin string) (string, error) {
	return t.invoke("--login", "--pin", pin, "--unlock-pin")
}

// ReaderPresent reports whether the slot listing shows at least one
// reader slot.
func ReaderPresent(slotListing string) bool {
	for _, line := range strings.Split(slotListing, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "Slot ") {
			return true
		}
	}
	return false
}

// CardPresent reports whether any slot in the listing holds a token.
// pkcs11-tool prints "(empty)" under a slot without a card and a
// "token label" block when one is present.
func CardPresent(slotListing string) bool {
	return strings.Contains(slotListing, "token label")
}
