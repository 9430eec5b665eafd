package p11

import (
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
)

const slotListingWithCard = `Available slots:
Slot 0 (0x0): ACS ACR39U ICC Reader 00 00
  token label        : profilcert EV
  token manufacturer : Unizeto Technologies S.A.
  token model        : Certum v3
`

const slotListingEmpty = `Available slots:
Slot 0 (0x0): ACS ACR39U ICC Reader 00 00
  (empty)
`

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func recordingTool(calls *[][]string, output string, err error) *Tool {
	run := func(name string, args ...string) ([]byte, error) {
		*calls = append(*calls, append([]string{name}, args...))
		return []byte(output), err
	}
	return NewWithRunner("/opt/certum/libcryptoCertum3PKCS.so", testLogger(), run)
}

func TestInvocationsCarryModule(t *testing.T) {
	var calls [][]string
	tool := recordingTool(&calls, "", nil)

	if _, err := tool.ListSlots(); err != nil {
		t.Fatalf("ListSlots() error = %v", err)
	}
	argv := calls[0]
	if argv[0] != "pkcs11-tool" {
		t.Fatalf("invoked %s, want pkcs11-tool", argv[0])
	}
	if argv[1] != "--module" || argv[2] != "/opt/certum/libcryptoCertum3PKCS.so" {
		t.Errorf("argv must lead with --module <path>, got %v", argv[1:3])
	}
}

func TestOperationArgv(t *testing.T) {
	tests := []struct {
		name string
		call func(*Tool) (string, error)
		want string
	}{
		{
			name: "list slots",
			call: func(tool *Tool) (string, error) { return tool.ListSlots() },
			want: "--list-slots",
		},
		{
			name: "list mechanisms",
			call: func(tool *Tool) (string, error) { return tool.ListMechanisms() },
			want: "--list-mechanisms",
		},
		{
			name: "list objects",
			call: func(tool *Tool) (string, error) { return tool.ListObjects("1234") },
			want: "--login --pin 1234 --list-objects",
		},
		{
			name: "read public key",
			call: func(tool *Tool) (string, error) { return tool.ReadPublicKey("my-key", "1234") },
			want: "--login --pin 1234 --read-object --type pubkey --label my-key",
		},
		{
			name: "generate keypair",
			call: func(tool *Tool) (string, error) { return tool.GenerateKeyPair("rsa:2048", "my-key", "1234") },
			want: "--login --pin 1234 --keypairgen --key-type rsa:2048 --label my-key",
		},
		{
			name: "delete object",
			call: func(tool *Tool) (string, error) { return tool.DeleteObject("my-key", TypeCertificate, "1234") },
			want: "--login --pin 1234 --delete-object --type cert --label my-key",
		},
		{
			name: "unlock",
			call: func(tool *Tool) (string, error) { return tool.Unlock("1234") },
			want: "--login --pin 1234 --unlock-pin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls [][]string
			tool := recordingTool(&calls, "", nil)
			if _, err := tt.call(tool); err != nil {
				t.Fatalf("call error = %v", err)
			}
			got := strings.Join(calls[0][3:], " ")
			if got != tt.want {
				t.Errorf("argv = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRedactPIN(t *testing.T) {
	argv := []string{"--module", "x.so", "--login", "--pin", "123456", "--list-objects"}
	masked := redactPIN(argv)
	if strings.Contains(masked, "123456") {
		t.Errorf("PIN leaked into diagnostics: %q", masked)
	}
	if !strings.Contains(masked, "****") {
		t.Errorf("PIN not masked: %q", masked)
	}
	if argv[4] != "123456" {
		t.Error("redactPIN must not mutate the original argv")
	}
}

func TestReaderPresent(t *testing.T) {
	tests := []struct {
		name    string
		listing string
		want    bool
	}{
		{"reader with card", slotListingWithCard, true},
		{"reader without card", slotListingEmpty, true},
		{"no slots", "Available slots:\nNo slots.\n", false},
		{"empty output", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReaderPresent(tt.listing); got != tt.want {
				t.Errorf("ReaderPresent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCardPresent(t *testing.T) {
	tests := []struct {
		name    string
		listing string
		want    bool
	}{
		{"card inserted", slotListingWithCard, true},
		{"empty reader", slotListingEmpty, false},
		{"no slots", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CardPresent(tt.listing); got != tt.want {
				t.Errorf("CardPresent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	toolErr := fmt.Errorf("exit status 1")
	tests := []struct {
		name   string
		output string
		err    error
		want   Outcome
	}{
		{"success", "Key pair generated", nil, OutcomeSuccess},
		{"device full", "error: PKCS11 function C_GenerateKeyPair failed: rv = CKR_DEVICE_MEMORY (0x31)", toolErr, OutcomeDeviceFull},
		{"handle invalid", "error: rv = CKR_OBJECT_HANDLE_INVALID", toolErr, OutcomeNotFound},
		{"object not found", "error: object not found", toolErr, OutcomeNotFound},
		{"generic failure", "error: rv = CKR_PIN_INCORRECT (0xa0)", toolErr, OutcomeFailure},
		{"failure without output", "", toolErr, OutcomeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.output, tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllObjectTypesExhaustive(t *testing.T) {
	if len(AllObjectTypes) != 5 {
		t.Fatalf("AllObjectTypes has %d entries, want 5", len(AllObjectTypes))
	}
	seen := map[ObjectType]bool{}
	for _, typ := range AllObjectTypes {
		if seen[typ] {
			t.Errorf("duplicate object type %s", typ)
		}
		seen[typ] = true
	}
}
