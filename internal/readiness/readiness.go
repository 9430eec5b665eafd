// Package readiness verifies the environment preconditions for card
// operations (external tools, middleware packages, vendor libraries,
// smartcard service) and drives the operator-confirmed remediation of
// any precondition found unsatisfied.
package readiness

import (
	"fmt"
	"log"
	"strings"

	"github.com/Atrate/certumctl/internal/osprobe"
	"github.com/Atrate/certumctl/internal/security"
	"github.com/Atrate/certumctl/internal/sysmgr"
)

// Checker recomputes readiness state on demand. No check result is
// cached across remediation; every verification call hits the system
// again.
type Checker struct {
	profile osprobe.Profile
	mgr     *sysmgr.Manager
	logger  *log.Logger
}

// NewChecker creates a Checker bound to the active profile.
func NewChecker(profile osprobe.Profile, mgr *sysmgr.Manager, logger *log.Logger) *Checker {
	return &Checker{profile: profile, mgr: mgr, logger: logger}
}

// VerifyTools returns the required external commands missing from PATH.
func (c *Checker) VerifyTools(tools []string) []string {
	var missing []string
	for _, tool := range tools {
		if !sysmgr.ToolPresent(tool) {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		security.LogEvent("verify_tools", fmt.Sprintf("missing: %s", strings.Join(missing, ", ")), false)
	} else {
		security.LogEvent("verify_tools", "all required tools present", true)
	}
	return missing
}

// VerifyPackages returns the required packages absent from the
// installed-package listing. Presence is a substring match against the
// listing: a deliberate, historically loose heuristic that can
// false-positive on packages whose name contains a required name
// (e.g. "opensc-pkcs11" satisfying "opensc"). Do not tighten it
// silently; provisioning scripts depend on the lenient behavior.
func (c *Checker) VerifyPackages() ([]string, error) {
	listing, err := c.mgr.InstalledPackages(c.profile.ListArgv)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, pkg := range c.profile.Packages {
		if !strings.Contains(listing, pkg) {
			missing = append(missing, pkg)
		}
	}
	if len(missing) > 0 {
		security.LogEvent("verify_packages", fmt.Sprintf("missing: %s", strings.Join(missing, ", ")), false)
	} else {
		security.LogEvent("verify_packages", "all required packages present", true)
	}
	return missing, nil
}

// VerifyLibraries returns the shared-library artifacts that are missing
// or unreadable. A non-empty result is always fatal to setup: the
// PKCS#11 module path is passed to every card operation, so nothing can
// work without these files.
func (c *Checker) VerifyLibraries(paths []string) []string {
	var missing []string
	for _, path := range paths {
		if !sysmgr.LibraryReadable(path) {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		security.LogEvent("verify_libraries", fmt.Sprintf("missing: %s", strings.Join(missing, ", ")), false)
	} else {
		security.LogEvent("verify_libraries", "all library artifacts readable", true)
	}
	return missing
}

// VerifyService reports whether the smartcard service is running. A
// failed status query means stopped; this check never raises.
func (c *Checker) VerifyService() bool {
	running := c.mgr.ServiceRunning(c.profile.Service)
	security.LogEvent("verify_service",
		fmt.Sprintf("%s running=%v", c.profile.Service, running), running)
	return running
}

// Profile returns the profile this checker is bound to.
func (c *Checker) Profile() osprobe.Profile {
	return c.profile
}
