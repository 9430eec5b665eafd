package main

import (
	"fmt"
	"strings"
	"testing"
)

const wipeListing = `Using slot 0 with a present token (0x0)
Private Key Object; RSA
  label:      alpha
Public Key Object; RSA 2048 bits
  label:      alpha
Data object 2162696
  label:      'beta'
`

// wipeRunner answers the object listing once and records every delete
// invocation.
func wipeRunner(listing string, deletes *[][]string) func(string, ...string) ([]byte, error) {
	return func(name string, args ...string) ([]byte, error) {
		argv := strings.Join(args, " ")
		switch {
		case strings.Contains(argv, "--list-objects"):
			return []byte(listing), nil
		case strings.Contains(argv, "--delete-object"):
			*deletes = append(*deletes, args)
			// Most typed deletes miss; that is the expected absence.
			return []byte("error: object not found"), fmt.Errorf("exit status 1")
		}
		return nil, fmt.Errorf("unexpected invocation: %s", argv)
	}
}

func TestWipeSweepsEveryTypePerLabel(t *testing.T) {
	var deletes [][]string
	p := &fakePrompter{
		confirms:  []bool{true},
		inputs:    []string{wipeConfirmationPhrase},
		passwords: []string{"123456"},
	}
	env := testEnv(p, wipeRunner(wipeListing, &deletes))

	handleWipeCard(env)

	// Two distinct labels, five object types each.
	if len(deletes) != 10 {
		t.Fatalf("delete invocations = %d, want 10", len(deletes))
	}
	perLabel := map[string]int{}
	for _, args := range deletes {
		for i, a := range args {
			if a == "--label" && i+1 < len(args) {
				perLabel[args[i+1]]++
			}
		}
	}
	// The data-object label is listed quoted; deletes must address the
	// bare label or the object survives the sweep.
	if perLabel["alpha"] != 5 || perLabel["beta"] != 5 {
		t.Errorf("per-label delete counts = %v, want 5 each for alpha and beta", perLabel)
	}
	if perLabel["'beta'"] != 0 {
		t.Error("delete must never target the quoted display form of a label")
	}

	// Progress runs from zero through each completed label.
	want := []string{"0/2", "1/2", "2/2"}
	if len(p.progress) != len(want) {
		t.Fatalf("progress updates = %v, want %d entries", p.progress, len(want))
	}
	for i, prefix := range want {
		if !strings.HasPrefix(p.progress[i], prefix) {
			t.Errorf("progress[%d] = %q, want prefix %q", i, p.progress[i], prefix)
		}
	}

	if !p.sawMessage(T("wipe_done", 2)) {
		t.Errorf("completion message missing from %v", p.messages)
	}
}

func TestWipeDeclinedConfirm(t *testing.T) {
	var deletes [][]string
	p := &fakePrompter{confirms: []bool{false}}
	env := testEnv(p, wipeRunner(wipeListing, &deletes))

	handleWipeCard(env)

	if len(deletes) != 0 {
		t.Error("declined confirmation must not delete anything")
	}
}

func TestWipeWrongPhrase(t *testing.T) {
	var deletes [][]string
	p := &fakePrompter{
		confirms: []bool{true},
		inputs:   []string{"erase"}, // phrase is case-sensitive
	}
	env := testEnv(p, wipeRunner(wipeListing, &deletes))

	handleWipeCard(env)

	if len(deletes) != 0 {
		t.Error("wrong phrase must not delete anything")
	}
	if !p.sawMessage(T("wipe_cancelled")) {
		t.Errorf("cancellation message missing from %v", p.messages)
	}
}

func TestWipeEmptyCard(t *testing.T) {
	var deletes [][]string
	p := &fakePrompter{
		confirms:  []bool{true},
		inputs:    []string{wipeConfirmationPhrase},
		passwords: []string{"123456"},
	}
	env := testEnv(p, wipeRunner("Using slot 0 with a present token (0x0)\n", &deletes))

	handleWipeCard(env)

	if len(deletes) != 0 {
		t.Error("empty card must not trigger deletes")
	}
	if !p.sawMessage(T("wipe_nothing")) {
		t.Errorf("nothing-to-delete message missing from %v", p.messages)
	}
}

func TestWipeParseMismatchRefuses(t *testing.T) {
	// Objects are counted but no label line parses: the orchestrator
	// must refuse rather than silently wipe nothing.
	listing := "Private Key Object; RSA\n  id: 01\n"
	var deletes [][]string
	p := &fakePrompter{
		confirms:  []bool{true},
		inputs:    []string{wipeConfirmationPhrase},
		passwords: []string{"123456"},
	}
	env := testEnv(p, wipeRunner(listing, &deletes))

	handleWipeCard(env)

	if len(deletes) != 0 {
		t.Error("parse mismatch must not trigger deletes")
	}
	if !p.sawMessage(T("wipe_parse_mismatch")) {
		t.Errorf("mismatch message missing from %v", p.messages)
	}
}
