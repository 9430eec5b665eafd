package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	ctlerr "github.com/Atrate/certumctl/internal/errors"
	"github.com/Atrate/certumctl/internal/platform"
	"github.com/Atrate/certumctl/internal/security"
)

func main() {
	// Harden the process before any credential can be handled.
	platform.HardenProcess()

	if err := security.InitDiagLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize diagnostics logging: %v\n", err)
	}
	defer security.CloseDiagLogger()

	if err := ExecuteWithFang(context.Background()); err != nil {
		// Operator-initiated cancellation is a clean exit, not an error.
		if errors.Is(err, ErrPromptAborted) {
			security.CloseDiagLogger()
			os.Exit(0)
		}
		security.CloseDiagLogger()
		os.Exit(ctlerr.ExitCode(err))
	}
}
