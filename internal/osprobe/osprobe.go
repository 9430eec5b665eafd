// Package osprobe discovers the host OS identity and maps it to the
// tool profile (package names, service name, package-manager command
// templates) appropriate for that distribution.
package osprobe

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Atrate/certumctl/internal/config"
	ctlerr "github.com/Atrate/certumctl/internal/errors"
)

// Identity holds the two fields read from the OS identity file.
type Identity struct {
	ID        string
	VersionID string
}

// Profile is the resolved, immutable per-distribution configuration.
// Exactly one profile is active per run; it is threaded through
// component constructors rather than stored as ambient global state.
type Profile struct {
	Name      string // human-readable, shown in the impersonation picker
	ID        string
	VersionID string

	// Packages required for card operations. Presence is checked with a
	// loose substring match against the installed-package listing.
	Packages []string

	// Service is the smartcard daemon to keep running.
	Service string

	// InstallArgv is the package-manager install command; package names
	// are appended as separate argv entries, never concatenated into a
	// shell string.
	InstallArgv []string

	// ListArgv prints the installed-package listing to stdout.
	ListArgv []string
}

var debianPackages = []string{"opensc", "pcscd", "libccid", "libengine-pkcs11-openssl"}
var fedoraPackages = []string{"opensc", "pcsc-lite", "pcsc-lite-ccid", "openssl-pkcs11"}

func aptProfile(name, id, version string) Profile {
	return Profile{
		Name:        name,
		ID:          id,
		VersionID:   version,
		Packages:    debianPackages,
		Service:     config.SmartcardService,
		InstallArgv: []string{"apt-get", "install", "-y"},
		ListArgv:    []string{"dpkg-query", "-W", "-f", "${Package}\n"},
	}
}

func dnfProfile(name, id, version string) Profile {
	return Profile{
		Name:        name,
		ID:          id,
		VersionID:   version,
		Packages:    fedoraPackages,
		Service:     config.SmartcardService,
		InstallArgv: []string{"dnf", "install", "-y"},
		ListArgv:    []string{"rpm", "-qa", "--qf", "%{NAME}\n"},
	}
}

// profiles is the fixed table of supported configurations. Lookups are
// case-sensitive and version-exact; there is no semantic-version
// matching.
var profiles = []Profile{
	aptProfile("Debian 11 (bullseye)", "debian", "11"),
	aptProfile("Debian 12 (bookworm)", "debian", "12"),
	aptProfile("Ubuntu 20.04 LTS", "ubuntu", "20.04"),
	aptProfile("Ubuntu 22.04 LTS", "ubuntu", "22.04"),
	aptProfile("Ubuntu 24.04 LTS", "ubuntu", "24.04"),
	aptProfile("Linux Mint 21.3", "linuxmint", "21.3"),
	dnfProfile("Fedora 40", "fedora", "40"),
}

// Profiles returns the fixed list of supported profiles the operator may
// impersonate when the host identity does not resolve.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// ReadIdentity reads ID= and VERSION_ID= from the OS identity file.
// An unreadable file is a fatal setup error. Absent fields yield the
// "unsupported" sentinel so undefined values never reach the profile
// table comparison.
func ReadIdentity(path string) (Identity, error) {
	f, err := os.Open(path)
	if err != nil {
		return Identity{}, ctlerr.NewFatalSetup("probe_os", err,
			fmt.Sprintf("cannot read OS identity file %s", path))
	}
	defer f.Close()

	ident := Identity{
		ID:        config.UnsupportedIdentity,
		VersionID: config.UnsupportedIdentity,
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "ID="):
			ident.ID = unquote(strings.TrimPrefix(line, "ID="))
		case strings.HasPrefix(line, "VERSION_ID="):
			ident.VersionID = unquote(strings.TrimPrefix(line, "VERSION_ID="))
		}
	}
	if err := scanner.Err(); err != nil {
		return Identity{}, ctlerr.NewFatalSetup("probe_os", err,
			fmt.Sprintf("error while reading %s", path))
	}
	if ident.ID == "" {
		ident.ID = config.UnsupportedIdentity
	}
	if ident.VersionID == "" {
		ident.VersionID = config.UnsupportedIdentity
	}
	return ident, nil
}

// Resolve maps an identity to its profile by exact match. The second
// return value is false when the identity is not in the supported table;
// the caller then runs the operator-selected fallback path, never a
// silent default.
func Resolve(ident Identity) (Profile, bool) {
	for _, p := range profiles {
		if p.ID == ident.ID && p.VersionID == ident.VersionID {
			return p, true
		}
	}
	return Profile{}, false
}

// unquote strips a single level of surrounding double quotes, the way
// os-release values are commonly written (VERSION_ID="12").
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
