// Package platform applies process-level hardening before any PIN is
// handled.
package platform

import "os"

// HardenProcess masks the process title and scrubs environment
// variables that could leak into child processes. Called once at
// startup, before any credential is read.
func HardenProcess() {
	maskProcessTitle("certumctl [card session]")
	scrubEnvironment()
}

// scrubEnvironment clears environment variables that child processes
// (package manager, pkcs11-tool) have no business inheriting.
func scrubEnvironment() {
	sensitiveVars := []string{
		"SSH_AUTH_SOCK",
		"SSH_AGENT_PID",
		"PKCS11_PIN", // some vendor tools honor this; never inherit it
	}
	for _, name := range sensitiveVars {
		os.Unsetenv(name)
	}
}
