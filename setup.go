package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Atrate/certumctl/internal/config"
	ctlerr "github.com/Atrate/certumctl/internal/errors"
	"github.com/Atrate/certumctl/internal/osprobe"
	"github.com/Atrate/certumctl/internal/p11"
	"github.com/Atrate/certumctl/internal/readiness"
	"github.com/Atrate/certumctl/internal/security"
	"github.com/Atrate/certumctl/internal/sysmgr"
)

// appEnv holds the resolved, immutable per-run configuration threaded
// through the components. It replaces the original tool's ambient
// global profile state.
type appEnv struct {
	profile    osprobe.Profile
	checker    *readiness.Checker
	tool       *p11.Tool
	prompter   Prompter
	logger     *log.Logger
	modulePath string
}

// prepareEnvironment runs the startup sequence: System Probe, Readiness
// Checker and, where the operator consents, the Remediation Controller.
// On return the environment is ready for card operations.
func prepareEnvironment(prompter Prompter, logger *log.Logger) (*appEnv, error) {
	profile, err := resolveProfile(prompter, logger)
	if err != nil {
		return nil, err
	}

	mgr := sysmgr.New(logger)
	checker := readiness.NewChecker(profile, mgr, logger)

	// Required external tools. Any missing tool is an immediate
	// configuration failure; there is no partial degradation. The
	// prompt renderer itself is in-process here, so the historical
	// offer-to-install-the-renderer branch reduces to the terminal
	// fallback in newPrompter.
	if missing := checker.VerifyTools(requiredTools(profile)); len(missing) > 0 {
		return nil, ctlerr.NewFatalSetup("verify_tools",
			fmt.Errorf("required tools missing: %v", missing),
			T("tools_missing_context"))
	}

	// Vendor library artifacts must sit beside the executable. Their
	// absence is always fatal: the PKCS#11 module path is passed to
	// every card operation.
	modulePath, err := verifyVendorLibraries(prompter, checker)
	if err != nil {
		return nil, err
	}

	// Middleware packages: check, ask, install in one batch, smoke-check
	// the OpenSSL engine registration. At most one attempt per run.
	if err := checker.EnsureInstalled(
		T("install_packages_question"),
		T("choice_install"), T("choice_abort"),
		confirmFunc(prompter)); err != nil {
		return nil, err
	}

	// Smartcard service: same check-ask-do shape.
	if err := checker.EnsureRunning(
		T("start_service_question", profile.Service),
		T("choice_start"), T("choice_abort"),
		confirmFunc(prompter)); err != nil {
		return nil, err
	}

	return &appEnv{
		profile:    profile,
		checker:    checker,
		tool:       p11.New(modulePath, logger),
		prompter:   prompter,
		logger:     logger,
		modulePath: modulePath,
	}, nil
}

// resolveProfile reads the OS identity and resolves it against the
// supported profile table. Unmatched identities fall back to an
// operator-selected profile to impersonate; the choose step loops until
// a substitute resolves or the operator aborts. A default is never
// picked silently.
func resolveProfile(prompter Prompter, logger *log.Logger) (osprobe.Profile, error) {
	ident, err := osprobe.ReadIdentity(config.OSReleasePath)
	if err != nil {
		return osprobe.Profile{}, err
	}
	security.LogEvent("probe_os", fmt.Sprintf("id=%s version=%s", ident.ID, ident.VersionID), true)
	logger.Printf("OS identity: id=%s version=%s", ident.ID, ident.VersionID)

	if profile, ok := osprobe.Resolve(ident); ok {
		logger.Printf("resolved profile: %s", profile.Name)
		return profile, nil
	}

	prompter.Message(warningStyle.Render(
		T("unsupported_os_warning", ident.ID, ident.VersionID)))

	for {
		proceed, err := prompter.Confirm(
			T("unsupported_os_question"), T("choice_yes"), T("choice_no"), false)
		if err != nil || !proceed {
			return osprobe.Profile{}, ctlerr.NewFatalSetup("probe_os",
				fmt.Errorf("unsupported OS %s %s", ident.ID, ident.VersionID),
				T("unsupported_os_context"))
		}

		supported := osprobe.Profiles()
		options := make([]PromptOption, len(supported))
		for i, p := range supported {
			options[i] = PromptOption{Label: p.Name, Value: strconv.Itoa(i)}
		}
		choice, err := prompter.Select(T("impersonate_title"), options)
		if err != nil {
			return osprobe.Profile{}, ctlerr.NewFatalSetup("probe_os",
				fmt.Errorf("no substitute profile selected"),
				T("unsupported_os_context"))
		}

		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 0 || idx >= len(supported) {
			// Substitute choice failed resolution; re-run the whole
			// ask-then-choose sequence.
			prompter.Message(warningStyle.Render(T("impersonate_retry")))
			continue
		}

		chosen := supported[idx]
		security.LogEvent("impersonate_profile", chosen.Name, true)
		logger.Printf("impersonating profile: %s", chosen.Name)
		return chosen, nil
	}
}

// requiredTools lists the external commands the run depends on: the
// PKCS#11 utility, the service manager, the engine smoke-check binary
// and the profile's package-manager commands.
func requiredTools(profile osprobe.Profile) []string {
	tools := []string{config.Pkcs11Tool, config.ServiceManager, config.OpenSSLTool}
	if len(profile.ListArgv) > 0 {
		tools = append(tools, profile.ListArgv[0])
	}
	if len(profile.InstallArgv) > 0 {
		tools = append(tools, profile.InstallArgv[0])
	}
	return tools
}

// vendorLibraryPaths resolves the two vendor shared libraries relative
// to the executable. The first returned path is the PKCS#11 module.
func vendorLibraryPaths() (dir string, paths []string, err error) {
	exe, err := os.Executable()
	if err != nil {
		return "", nil, ctlerr.NewFatalSetup("verify_libraries", err, T("libs_exe_context"))
	}
	dir = filepath.Dir(exe)
	return dir, []string{
		filepath.Join(dir, config.VendorModuleLib),
		filepath.Join(dir, config.VendorCompanionLib),
	}, nil
}

// verifyVendorLibraries checks the two vendor shared libraries beside
// the executable and returns the PKCS#11 module path. Missing artifacts
// are fatal with remediation guidance shown to the operator.
func verifyVendorLibraries(prompter Prompter, checker *readiness.Checker) (string, error) {
	dir, paths, err := vendorLibraryPaths()
	if err != nil {
		return "", err
	}
	modulePath := paths[0]

	if missing := checker.VerifyLibraries(paths); len(missing) > 0 {
		prompter.Message(errorStyle.Render(T("libs_missing_guidance", dir)))
		return "", ctlerr.NewFatalSetup("verify_libraries",
			fmt.Errorf("library artifacts missing: %v", missing),
			T("libs_missing_context"))
	}
	return modulePath, nil
}

// confirmFunc adapts the Prompter to the readiness package's
// ConfirmFunc. A cancelled prompt counts as a decline.
func confirmFunc(prompter Prompter) readiness.ConfirmFunc {
	return func(question, affirmative, negative string) (bool, error) {
		return prompter.Confirm(question, affirmative, negative, false)
	}
}
