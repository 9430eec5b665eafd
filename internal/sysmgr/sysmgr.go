// Package sysmgr wraps the OS service manager and package manager
// behind structured argv invocations. No command line is ever built by
// string concatenation.
package sysmgr

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner executes an external command and returns its combined
// output. Tests substitute a fake.
type CommandRunner func(name string, args ...string) ([]byte, error)

func defaultRunner(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Manager invokes systemctl and the profile's package manager.
type Manager struct {
	run    CommandRunner
	logger *log.Logger
}

// New creates a Manager. logger receives verbose diagnostics only.
func New(logger *log.Logger) *Manager {
	return &Manager{run: defaultRunner, logger: logger}
}

// NewWithRunner creates a Manager with an injected command runner.
func NewWithRunner(logger *log.Logger, run CommandRunner) *Manager {
	return &Manager{run: run, logger: logger}
}

// ServiceRunning queries the service manager for the unit's status.
// A non-zero or failed status means stopped; the query itself never
// raises.
func (m *Manager) ServiceRunning(name string) bool {
	out, err := m.run("systemctl", "is-active", "--quiet", name)
	if err != nil {
		m.logger.Printf("service %s not active: %v (%s)", name, err, strings.TrimSpace(string(out)))
		return false
	}
	return true
}

// StartService starts the named service.
func (m *Manager) StartService(name string) error {
	out, err := m.run("systemctl", "start", name)
	if err != nil {
		return fmt.Errorf("starting %s: %w (%s)", name, err, strings.TrimSpace(string(out)))
	}
	m.logger.Printf("service %s started", name)
	return nil
}

// InstalledPackages returns the raw installed-package listing produced
// by the profile's list command.
func (m *Manager) InstalledPackages(listArgv []string) (string, error) {
	if len(listArgv) == 0 {
		return "", fmt.Errorf("empty package listing command")
	}
	out, err := m.run(listArgv[0], listArgv[1:]...)
	if err != nil {
		return "", fmt.Errorf("listing installed packages: %w", err)
	}
	return string(out), nil
}

// InstallPackages installs the full required set in one batch using the
// profile's install command template.
func (m *Manager) InstallPackages(installArgv, packages []string) error {
	if len(installArgv) == 0 {
		return fmt.Errorf("empty package install command")
	}
	args := append(append([]string{}, installArgv[1:]...), packages...)
	m.logger.Printf("installing packages: %s %s", installArgv[0], strings.Join(args, " "))
	out, err := m.run(installArgv[0], args...)
	if err != nil {
		return fmt.Errorf("package install failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// EngineRegistered is the post-install smoke check: the OpenSSL PKCS#11
// engine must be registered once the middleware packages are in place.
func (m *Manager) EngineRegistered(engine string) error {
	out, err := m.run("openssl", "engine", engine)
	if err != nil {
		return fmt.Errorf("engine %s not registered: %w (%s)", engine, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ToolPresent reports whether an external command is available on PATH.
func ToolPresent(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// LibraryReadable reports whether the shared library at path exists and
// is readable.
func LibraryReadable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
