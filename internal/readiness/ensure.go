package readiness

import (
	"fmt"

	"github.com/Atrate/certumctl/internal/config"
	ctlerr "github.com/Atrate/certumctl/internal/errors"
	"github.com/Atrate/certumctl/internal/security"
)

// ConfirmFunc asks the operator a binary install/start-vs-abort
// question. It is satisfied by the interactive prompt layer.
type ConfirmFunc func(question, affirmative, negative string) (bool, error)

// Concern is one verify → prompt → remediate → re-verify unit. The same
// primitive serves packages and the service so the check-ask-do shape is
// written once, parameterized rather than duplicated per concern.
type Concern struct {
	// Name identifies the concern in errors and diagnostics.
	Name string
	// Verify returns nil when the concern is satisfied. It is called
	// once before the prompt and once after a remediation attempt.
	Verify func() error
	// Question, Affirmative and Negative are the pre-rendered prompt
	// strings shown to the operator.
	Question    string
	Affirmative string
	Negative    string
	// Remediate performs the fix (batch install, service start). It runs
	// at most once per run; a failed attempt is never retried.
	Remediate func() error
}

// Ensure runs the check-ask-do flow for one concern.
//
// Returns nil when the concern is satisfied (possibly after
// remediation); a declined-remediation error (exit 3) when the operator
// refuses; a remediation-failure error (exit 1) when the remediation or
// its post-check fails. The two terminal codes are produced by disjoint
// branches.
func Ensure(c Concern, confirm ConfirmFunc) error {
	if err := c.Verify(); err == nil {
		return nil
	}

	ok, err := confirm(c.Question, c.Affirmative, c.Negative)
	if err != nil || !ok {
		security.LogEvent("ensure_"+c.Name, "operator declined remediation", false)
		return ctlerr.NewDeclined("ensure_"+c.Name, c.Name)
	}

	if err := c.Remediate(); err != nil {
		security.LogEvent("ensure_"+c.Name, fmt.Sprintf("remediation failed: %v", err), false)
		return ctlerr.NewRemediationFailure("ensure_"+c.Name, err, c.Name)
	}
	if err := c.Verify(); err != nil {
		security.LogEvent("ensure_"+c.Name, fmt.Sprintf("post-remediation check failed: %v", err), false)
		return ctlerr.NewRemediationFailure("ensure_"+c.Name, err, c.Name)
	}
	security.LogEvent("ensure_"+c.Name, "remediation succeeded", true)
	return nil
}

// EnsureInstalled verifies the profile's middleware packages and, on
// operator consent, installs the full required set in one batch followed
// by the OpenSSL engine smoke check.
func (c *Checker) EnsureInstalled(question, affirmative, negative string, confirm ConfirmFunc) error {
	return Ensure(Concern{
		Name: "packages",
		Verify: func() error {
			missing, err := c.VerifyPackages()
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				return fmt.Errorf("packages not installed: %v", missing)
			}
			return nil
		},
		Question:    question,
		Affirmative: affirmative,
		Negative:    negative,
		Remediate: func() error {
			if err := c.mgr.InstallPackages(c.profile.InstallArgv, c.profile.Packages); err != nil {
				return err
			}
			// Post-install smoke check: middleware must have registered
			// the PKCS#11 engine with OpenSSL.
			return c.mgr.EngineRegistered(config.CryptoEngine)
		},
	}, confirm)
}

// EnsureRunning verifies the smartcard service and, on operator consent,
// starts it and re-queries its status.
func (c *Checker) EnsureRunning(question, affirmative, negative string, confirm ConfirmFunc) error {
	return Ensure(Concern{
		Name: "service",
		Verify: func() error {
			if !c.VerifyService() {
				return fmt.Errorf("service %s is not running", c.profile.Service)
			}
			return nil
		},
		Question:    question,
		Affirmative: affirmative,
		Negative:    negative,
		Remediate: func() error {
			return c.mgr.StartService(c.profile.Service)
		},
	}, confirm)
}
