package config

// Exit codes. These are part of the tool's contract with provisioning
// scripts and must not be renumbered.
const (
	ExitOK           = 0 // success, or operator chose to abort
	ExitRuntimeError = 1 // unspecified runtime error (failed remediation included)
	ExitConfigError  = 2 // environment/argument configuration error
	ExitRequirements = 3 // operator declined a required remediation
)

// External tool names the core shells out to.
const (
	Pkcs11Tool     = "pkcs11-tool"
	ServiceManager = "systemctl"
	OpenSSLTool    = "openssl"
)

// Smartcard middleware constants
const (
	// SmartcardService is the PC/SC daemon every supported distro ships.
	SmartcardService = "pcscd"

	// Vendor PKCS#11 module and its companion library. Both must sit
	// next to the certumctl executable.
	VendorModuleLib    = "libcryptoCertum3PKCS.so"
	VendorCompanionLib = "libcrypto3PKCS.so"

	// OpenSSL engine expected to be registered after middleware install.
	CryptoEngine = "pkcs11"
)

// OS identity source
const (
	OSReleasePath = "/etc/os-release"

	// Sentinel used when an identity field is absent. Comparisons against
	// the profile table must never see an empty string.
	UnsupportedIdentity = "unsupported"
)

// Environment variables
const (
	EnvDebug    = "CERTUMCTL_DEBUG"
	EnvDebugLog = "CERTUMCTL_DEBUG_LOG"
	EnvLang     = "CERTUMCTL_LANG"
)

// Application constants
const (
	ClientName = "certumctl"

	// MaxLabelLength bounds card object labels before they are handed to
	// external tools.
	MaxLabelLength = 64
)

// Version and build information (set by the build process)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
