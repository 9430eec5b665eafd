package main

import (
	"fmt"
	"strings"

	"github.com/Atrate/certumctl/internal/p11"
	"github.com/Atrate/certumctl/internal/security"
)

// Handlers catch their own tool-invocation failures and report through
// the prompt layer; nothing here terminates the loop. A PIN is captured
// per operation, lives only in the handler's scope and is passed to the
// minimum number of invocations.

// acquirePIN captures and sanity-checks an operator PIN. An empty
// return means the operator cancelled and the handler should return
// silently.
func acquirePIN(env *appEnv) string {
	pin, err := env.prompter.Password(T("pin_prompt"))
	if err != nil || pin == "" {
		return ""
	}
	if err := security.ValidatePIN(pin); err != nil {
		env.prompter.Message(errorStyle.Render(T("pin_invalid", err)))
		return ""
	}
	return pin
}

func handleListSlots(env *appEnv) {
	out, err := env.tool.ListSlots()
	if err != nil {
		env.prompter.Message(errorStyle.Render(T("op_failed", err)))
		return
	}
	env.prompter.Message(headerStyle.Render(T("slots_header")))
	env.prompter.Message(strings.TrimRight(out, "\n"))
}

func handleListMechanisms(env *appEnv) {
	out, err := env.tool.ListMechanisms()
	if err != nil {
		env.prompter.Message(errorStyle.Render(T("op_failed", err)))
		return
	}
	env.prompter.Message(headerStyle.Render(T("mechanisms_header")))
	env.prompter.Message(strings.TrimRight(out, "\n"))
}

func handleListObjects(env *appEnv) {
	pin := acquirePIN(env)
	if pin == "" {
		return
	}
	out, err := env.tool.ListObjects(pin)
	if err != nil {
		env.prompter.Message(errorStyle.Render(T("op_failed", err)))
		return
	}
	env.prompter.Message(headerStyle.Render(T("objects_header")))
	env.prompter.Message(strings.TrimRight(out, "\n"))
}

func handleReadPublicKey(env *appEnv) {
	label, err := env.prompter.Input(T("label_prompt"), T("label_placeholder"))
	if err != nil || label == "" {
		return
	}
	if err := security.ValidateLabel(label); err != nil {
		env.prompter.Message(errorStyle.Render(T("label_invalid", err)))
		return
	}
	pin := acquirePIN(env)
	if pin == "" {
		return
	}

	out, err := env.tool.ReadPublicKey(label, pin)
	switch p11.Classify(out, err) {
	case p11.OutcomeSuccess:
		env.prompter.Message(strings.TrimRight(out, "\n"))
	case p11.OutcomeNotFound:
		env.prompter.Message(warningStyle.Render(T("object_not_found", label)))
	default:
		env.prompter.Message(errorStyle.Render(T("op_failed", err)))
	}
}

func handleGenerateKeyPair(env *appEnv) {
	keyType, err := env.prompter.Input(T("keytype_prompt"), "rsa:2048")
	if err != nil || keyType == "" {
		return
	}
	if err := security.ValidateKeyType(keyType); err != nil {
		env.prompter.Message(errorStyle.Render(T("keytype_invalid", err)))
		return
	}
	label, err := env.prompter.Input(T("label_prompt"), T("label_placeholder"))
	if err != nil || label == "" {
		return
	}
	if err := security.ValidateLabel(label); err != nil {
		env.prompter.Message(errorStyle.Render(T("label_invalid", err)))
		return
	}
	pin := acquirePIN(env)
	if pin == "" {
		return
	}

	out, err := env.tool.GenerateKeyPair(keyType, label, pin)
	switch p11.Classify(out, err) {
	case p11.OutcomeSuccess:
		security.LogEvent("generate_keypair", fmt.Sprintf("label=%s type=%s", label, keyType), true)
		env.prompter.Message(successStyle.Render(T("keygen_success", label)))
	case p11.OutcomeDeviceFull:
		// The card's storage being exhausted is a well-known condition
		// and gets its own message rather than the generic failure.
		security.LogEvent("generate_keypair", "device memory full", false)
		env.prompter.Message(errorStyle.Render(T("keygen_device_full")))
	default:
		security.LogEvent("generate_keypair", fmt.Sprintf("failed: %v", err), false)
		env.prompter.Message(errorStyle.Render(T("keygen_failed", err)))
	}
}

func handleUnlock(env *appEnv) {
	pin := acquirePIN(env)
	if pin == "" {
		return
	}
	if _, err := env.tool.Unlock(pin); err != nil {
		env.prompter.Message(errorStyle.Render(T("unlock_failed", err)))
		return
	}
	env.prompter.Message(successStyle.Render(T("unlock_success")))
}
