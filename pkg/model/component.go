// Package model provides the data structures shared between the packaging
// pipeline (inspect, extract, pack, manifest) and the build-time resolver.
package model

import (
	"github.com/hashicorp/go-version"
)

// ComponentKind identifies one of the packageable installer components.
type ComponentKind string

const (
	// KindToolchain is the GCC PowerPC EABI VLE cross-compiler.
	KindToolchain ComponentKind = "toolchain"
	// KindDebugTool is the P&E Micro GDB server console binary plus its
	// device-definition payload.
	KindDebugTool ComponentKind = "debug-tool"
	// KindRuntimeLibrary is the EWL runtime library tree with per-core
	// variant subdirectories.
	KindRuntimeLibrary ComponentKind = "runtime-library"
	// KindRTOSSource is the FreeRTOS kernel source with the PowerPC ports.
	KindRTOSSource ComponentKind = "rtos-source"
)

// AllKinds lists every component kind in pipeline order.
func AllKinds() []ComponentKind {
	return []ComponentKind{KindToolchain, KindDebugTool, KindRuntimeLibrary, KindRTOSSource}
}

// ParseKind validates a kind string from CLI input.
func ParseKind(s string) (ComponentKind, bool) {
	for _, k := range AllKinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Required reports whether a missing component of this kind fails a
// build-all run. The debug server and RTOS sources are optional: a
// compile-only setup does not need them.
func (k ComponentKind) Required() bool {
	return k == KindToolchain || k == KindRuntimeLibrary
}

// InstallerComponent describes one component located inside an extracted
// vendor installer tree. Instances are produced by the installer inspector
// and are read-only afterwards.
type InstallerComponent struct {
	Kind          ComponentKind `json:"kind"`
	Path          string        `json:"path"`
	Version       string        `json:"version,omitempty"`
	Description   string        `json:"description,omitempty"`
	RequiredPaths []string      `json:"required_paths,omitempty"`
	FileCount     int           `json:"file_count"`
	TotalSize     int64         `json:"total_size"`
}

// GetVersion returns the parsed component version, or nil if the version
// string is absent or not parseable.
func (c *InstallerComponent) GetVersion() *version.Version {
	if c.Version == "" {
		return nil
	}
	v, err := version.NewVersion(c.Version)
	if err != nil {
		return nil
	}
	return v
}

// PackageArtifact is the distributable result of extracting and archiving one
// component. The archive and its hash are immutable once computed; a content
// change always produces a new artifact.
type PackageArtifact struct {
	Kind        ComponentKind `json:"kind"`
	Name        string        `json:"name"`
	Version     string        `json:"version"`
	InputDir    string        `json:"input_dir"`
	ArchivePath string        `json:"archive_path"`
	SHA256      string        `json:"sha256"`
	Size        int64         `json:"size"`
}
