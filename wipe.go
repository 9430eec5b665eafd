package main

import (
	"fmt"

	"github.com/Atrate/certumctl/internal/p11"
	"github.com/Atrate/certumctl/internal/security"
)

// wipeConfirmationPhrase must be typed verbatim to arm the wipe. The
// default confirm button alone never triggers deletion.
const wipeConfirmationPhrase = "ERASE"

// handleWipeCard deletes every object on the card. Object labels are
// not guaranteed unique per type on this device family, so each label
// is deleted under every object-type classification: the five-type
// sweep trades efficiency for completeness and idempotence, since
// deleting a non-existent typed object is a no-op.
//
// The orchestrator is best-effort per type: it has no concept of
// overall failure, and reports completion after all labels were
// processed regardless of how many typed deletions actually matched.
func handleWipeCard(env *appEnv) {
	// Irreversible operation: a non-default confirm plus a typed phrase.
	armed, err := env.prompter.Confirm(
		T("wipe_question"), T("wipe_affirmative"), T("choice_abort"), false)
	if err != nil || !armed {
		return
	}
	phrase, err := env.prompter.Input(
		T("wipe_phrase_prompt", wipeConfirmationPhrase), wipeConfirmationPhrase)
	if err != nil || phrase != wipeConfirmationPhrase {
		env.prompter.Message(infoStyle.Render(T("wipe_cancelled")))
		return
	}

	pin := acquirePIN(env)
	if pin == "" {
		return
	}

	listing, err := env.tool.ListObjects(pin)
	if err != nil {
		env.prompter.Message(errorStyle.Render(T("op_failed", err)))
		return
	}

	labels := p11.ParseLabels(listing)
	objects := p11.CountObjects(listing)

	// The label parser assumes one "label:" line per object block. If
	// the tool's output format drifted we would silently wipe nothing,
	// so cross-check against the independent object count.
	if len(labels) == 0 {
		if objects > 0 {
			security.LogEvent("wipe", fmt.Sprintf("parsed 0 labels from %d objects", objects), false)
			env.prompter.Message(errorStyle.Render(T("wipe_parse_mismatch")))
			return
		}
		env.prompter.Message(infoStyle.Render(T("wipe_nothing")))
		return
	}

	env.prompter.Progress(0, len(labels), T("wipe_starting"))
	for i, label := range labels {
		// Per-type "not found" is expected: the label may exist under
		// any subset of the five types. Everything else is tolerated
		// too — the sweep continues to the next type and label.
		for _, typ := range p11.AllObjectTypes {
			out, derr := env.tool.DeleteObject(label, typ, pin)
			if outcome := p11.Classify(out, derr); outcome == p11.OutcomeFailure {
				env.logger.Printf("wipe: delete %s (%s) failed: %v", label, typ, derr)
			}
		}
		env.prompter.Progress(i+1, len(labels), label)
	}

	security.LogEvent("wipe", fmt.Sprintf("processed %d labels", len(labels)), true)
	env.prompter.Message(successStyle.Render(T("wipe_done", len(labels))))
}
