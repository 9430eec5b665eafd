package main

import (
	"errors"

	"github.com/Atrate/certumctl/internal/p11"
	"github.com/Atrate/certumctl/internal/security"
)

// Menu operation identifiers.
const (
	opListSlots      = "list-slots"
	opListMechanisms = "list-mechanisms"
	opListObjects    = "list-objects"
	opReadPublicKey  = "read-public-key"
	opGenerateKey    = "generate-keypair"
	opUnlock         = "unlock"
	opWipe           = "wipe"
	opExit           = "exit"
)

// runMenuLoop is the main operation loop: the Device Session Guard runs
// before every menu display, one handler runs per iteration, and the
// guard re-runs unconditionally afterwards — a card can be removed
// mid-use, so there is no sticky session assumption.
//
// A nil return is a clean, operator-initiated exit (code 0).
func runMenuLoop(env *appEnv) error {
	for {
		proceed, err := guardDeviceSession(env)
		if err != nil {
			return err
		}
		if !proceed {
			return nil
		}

		choice, err := env.prompter.Select(T("menu_title"), []PromptOption{
			{Label: T("menu_list_slots"), Value: opListSlots},
			{Label: T("menu_list_mechanisms"), Value: opListMechanisms},
			{Label: T("menu_list_objects"), Value: opListObjects},
			{Label: T("menu_read_public_key"), Value: opReadPublicKey},
			{Label: T("menu_generate_keypair"), Value: opGenerateKey},
			{Label: T("menu_unlock"), Value: opUnlock},
			{Label: T("menu_wipe"), Value: opWipe},
			{Label: T("menu_exit"), Value: opExit},
		})
		if err != nil {
			if errors.Is(err, ErrPromptAborted) {
				return nil
			}
			return err
		}

		// Handlers own their failures: they report through the prompt
		// layer and return control to the loop regardless of outcome.
		switch choice {
		case opListSlots:
			handleListSlots(env)
		case opListMechanisms:
			handleListMechanisms(env)
		case opListObjects:
			handleListObjects(env)
		case opReadPublicKey:
			handleReadPublicKey(env)
		case opGenerateKey:
			handleGenerateKeyPair(env)
		case opUnlock:
			handleUnlock(env)
		case opWipe:
			handleWipeCard(env)
		default:
			// Unrecognized selection exits cleanly.
			return nil
		}
	}
}

// guardDeviceSession evaluates the two presence gates in order: reader
// first, card only when a reader was found. Each failed gate offers the
// operator Retry/Abort; Abort is not an error — the device not being
// ready is an expected condition, so it exits with a success code.
//
// Returns (true, nil) only when both gates passed in the same
// iteration.
func guardDeviceSession(env *appEnv) (bool, error) {
	for {
		listing, err := env.tool.ListSlots()
		readerPresent := err == nil && p11.ReaderPresent(listing)
		if !readerPresent {
			security.LogEvent("guard_reader", "no reader detected", false)
			retry, perr := env.prompter.Confirm(
				T("no_reader_question"), T("choice_retry"), T("choice_abort"), true)
			if perr != nil || !retry {
				return false, nil
			}
			continue
		}

		if !p11.CardPresent(listing) {
			security.LogEvent("guard_card", "reader present, no card", false)
			retry, perr := env.prompter.Confirm(
				T("no_card_question"), T("choice_retry"), T("choice_abort"), true)
			if perr != nil || !retry {
				return false, nil
			}
			continue
		}

		return true, nil
	}
}
