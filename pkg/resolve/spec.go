package resolve

import (
	"path/filepath"

	"github.com/dapperfu/s32pack/pkg/model"
)

// SearchSpec is the ordered list of candidate locations for one resolution
// request. It is built fresh per request and never persisted; resolution
// state lives in the returned result, not in the SearchSpec.
//
// Candidates are tried strictly in field order: OverridePath, PackageDir,
// PackageDir's first-level subdirectories, SystemPaths, then a glob over
// GlobRoots. The first candidate that validates wins.
type SearchSpec struct {
	// OverridePath is an explicit user-supplied location, either a plain
	// path or a file:// URL. When set and invalid, resolution fails hard
	// instead of falling through: an explicit override signals intent.
	OverridePath string

	// PackageDir is the installed package directory.
	PackageDir string

	// SystemPaths are well-known system install locations.
	SystemPaths []string

	// GlobRoots and GlobPattern describe a last-resort search for raw
	// distributable archives (files, not installed trees).
	GlobRoots   []string
	GlobPattern string
}

// Package directory names under the platform packages root. These mirror the
// names the packaging side publishes under.
const (
	toolchainPackageDir      = "toolchain-powerpc-eabivle"
	debugToolPackageDir      = "tool-pegdbserver-power"
	runtimeLibraryPackageDir = "library-ewl-powerpc-eabivle"
	rtosSourcePackageDir     = "framework-freertos-nxp-mpc57xx"
)

// DefaultSearchSpec builds the standard candidate list for a kind, rooted at
// the package manager's packages directory. The toolchain additionally gets
// the conventional system install locations and a vendor archive glob.
func DefaultSearchSpec(kind model.ComponentKind, packagesRoot string) SearchSpec {
	spec := SearchSpec{}
	switch kind {
	case model.KindToolchain:
		spec.PackageDir = filepath.Join(packagesRoot, toolchainPackageDir)
		spec.SystemPaths = []string{
			"/opt/powerpc-eabivle",
			"/usr/local/powerpc-eabivle",
		}
		spec.GlobRoots = []string{packagesRoot}
		spec.GlobPattern = "*S32DS*.zip"
	case model.KindDebugTool:
		spec.PackageDir = filepath.Join(packagesRoot, debugToolPackageDir)
	case model.KindRuntimeLibrary:
		spec.PackageDir = filepath.Join(packagesRoot, runtimeLibraryPackageDir)
	case model.KindRTOSSource:
		spec.PackageDir = filepath.Join(packagesRoot, rtosSourcePackageDir)
	}
	return spec
}
