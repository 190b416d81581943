// Package platform maps the host OS and architecture onto the platform
// identifiers used as keys in package manifests (e.g. "linux_x86_64").
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	// LinuxX8664 is the primary packaging target; the vendor installer
	// and debug server binaries are Linux x86_64 only.
	LinuxX8664 = "linux_x86_64"
	// LinuxX86 identifies 32-bit Linux hosts.
	LinuxX86 = "linux_x86"
	// LinuxARM64 identifies 64-bit ARM Linux hosts.
	LinuxARM64 = "linux_aarch64"
	// DarwinX8664 identifies Intel macOS hosts.
	DarwinX8664 = "darwin_x86_64"
	// DarwinARM64 identifies Apple silicon hosts.
	DarwinARM64 = "darwin_arm64"
	// WindowsAMD64 identifies 64-bit Windows hosts.
	WindowsAMD64 = "windows_amd64"
)

// Current returns the manifest platform identifier for the running host.
func Current() string {
	return ID(runtime.GOOS, runtime.GOARCH)
}

// ID builds a manifest platform identifier from a GOOS/GOARCH pair.
func ID(goos, goarch string) string {
	arch := goarch
	switch strings.ToLower(goarch) {
	case "amd64", "x86_64", "x64":
		// Windows manifests keep the vendor's "amd64" spelling.
		if strings.ToLower(goos) == "windows" {
			arch = "amd64"
		} else {
			arch = "x86_64"
		}
	case "386", "i386", "i686", "x86":
		arch = "x86"
	case "arm64", "aarch64":
		if strings.ToLower(goos) == "darwin" {
			arch = "arm64"
		} else {
			arch = "aarch64"
		}
	}
	return fmt.Sprintf("%s_%s", strings.ToLower(goos), arch)
}

// Known returns the platform identifiers recognized in manifests.
func Known() []string {
	return []string{
		LinuxX8664,
		LinuxX86,
		LinuxARM64,
		DarwinX8664,
		DarwinARM64,
		WindowsAMD64,
	}
}

// IsKnown reports whether id is a recognized platform identifier.
func IsKnown(id string) bool {
	for _, known := range Known() {
		if id == known {
			return true
		}
	}
	return false
}
