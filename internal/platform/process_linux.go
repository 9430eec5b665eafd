//go:build linux

package platform

import (
	"syscall"
	"unsafe"
)

// maskProcessTitle uses prctl PR_SET_NAME to hide the invocation from
// process lists. Linux process names are limited to 15 chars + null.
func maskProcessTitle(title string) {
	titleBytes := []byte(title + "\x00")
	if len(titleBytes) > 16 {
		titleBytes = titleBytes[:16]
		titleBytes[15] = 0
	}

	// PR_SET_NAME = 15
	syscall.Syscall(syscall.SYS_PRCTL, 15, uintptr(unsafe.Pointer(&titleBytes[0])), 0)
}
