//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package device

import "runtime"

// systemInfo falls back to the Go runtime on platforms without uname(2).
func systemInfo() (sysname, release, machine string) {
	return runtime.GOOS, "", runtime.GOARCH
}
