//go:build !linux

package platform

// maskProcessTitle is a no-op on platforms without a supported title
// masking mechanism. The structured-argv invocation style still keeps
// credentials out of our own command line.
func maskProcessTitle(title string) {}
