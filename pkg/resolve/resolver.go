// Package resolve locates installed build artifacts at project-build time.
// It walks an ordered list of candidate locations per artifact kind and
// returns the first candidate that carries the kind's marker file. The
// result is an explicit value handed to the caller; nothing is cached
// between resolutions.
package resolve

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dapperfu/s32pack/internal/logger"
	"github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/fsutil"
	"github.com/dapperfu/s32pack/pkg/model"
)

// CompilerPrefix is the target triplet prefix of the cross tools, so the
// compiler binary is CompilerPrefix + "gcc".
const CompilerPrefix = "powerpc-eabivle-"

// DebugServerRelPath is where the debug server lives inside an installed
// debug-tool package.
const DebugServerRelPath = "tools/pegdbserver/bin/pegdbserver_power_console"

// marker is the kind-specific proof that a directory holds a valid artifact.
// Directory existence alone is never enough.
type marker struct {
	rel  string
	dir  bool
	exec bool
}

func markerFor(kind model.ComponentKind) (marker, bool) {
	switch kind {
	case model.KindToolchain:
		return marker{rel: "bin/" + CompilerPrefix + "gcc", exec: true}, true
	case model.KindDebugTool:
		return marker{rel: DebugServerRelPath, exec: true}, true
	case model.KindRuntimeLibrary:
		return marker{rel: "e200_ewl2/lib", dir: true}, true
	case model.KindRTOSSource:
		return marker{rel: "Source/tasks.c"}, true
	default:
		return marker{}, false
	}
}

// Locate walks the SearchSpec candidates in priority order and returns the
// first location holding a valid artifact of the kind.
//
// The nested-subdirectory step exists for archives that unpack with one
// extra vendor-versioned directory level. When several subdirectories
// validate, the lexicographically last one wins; that reads the highest
// version-like name but is a heuristic, not a semantic guarantee, and an
// advisory warning is logged.
func Locate(kind model.ComponentKind, spec SearchSpec) (string, error) {
	m, ok := markerFor(kind)
	if !ok {
		return "", errors.Wrapf(errors.ErrComponentNotFound, "no resolution marker for kind %q", kind)
	}

	var tried []string

	if spec.OverridePath != "" {
		override := strings.TrimPrefix(spec.OverridePath, "file://")
		if validate(override, m) {
			return override, nil
		}
		return "", errors.Wrapf(errors.ErrOverrideInvalid, "%s override %s", kind, override)
	}

	if spec.PackageDir != "" {
		if validate(spec.PackageDir, m) {
			return spec.PackageDir, nil
		}
		tried = append(tried, spec.PackageDir)

		if nested, ok := locateNested(kind, spec.PackageDir, m, &tried); ok {
			return nested, nil
		}
	}

	for _, p := range spec.SystemPaths {
		if validate(p, m) {
			return p, nil
		}
		tried = append(tried, p)
	}

	if archive, ok := locateGlob(spec, &tried); ok {
		return archive, nil
	}

	return "", NewNotFoundError(kind, tried)
}

// locateNested checks the first-level subdirectories of dir for the marker.
func locateNested(kind model.ComponentKind, dir string, m marker, tried *[]string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var matches []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(dir, entry.Name())
		if validate(candidate, m) {
			matches = append(matches, candidate)
		} else {
			*tried = append(*tried, candidate)
		}
	}
	if len(matches) == 0 {
		return "", false
	}

	sort.Strings(matches)
	chosen := matches[len(matches)-1]
	if len(matches) > 1 {
		logger.Warn("multiple nested candidates, choosing lexicographically last", logger.Fields{
			"kind":       string(kind),
			"candidates": strings.Join(matches, ", "),
			"chosen":     chosen,
		})
	}
	return chosen, true
}

// locateGlob searches the glob roots for raw distributable archives. Matches
// are regular files; the lexicographically last match per the combined
// sorted list wins, consistent with the nested tie-break.
func locateGlob(spec SearchSpec, tried *[]string) (string, bool) {
	if spec.GlobPattern == "" {
		return "", false
	}

	var matches []string
	for _, root := range spec.GlobRoots {
		pattern := filepath.Join(root, spec.GlobPattern)
		*tried = append(*tried, pattern)
		found, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, f := range found {
			if info, err := os.Stat(f); err == nil && info.Mode().IsRegular() {
				matches = append(matches, f)
			}
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return matches[len(matches)-1], true
}

func validate(root string, m marker) bool {
	target := filepath.Join(root, filepath.FromSlash(m.rel))
	info, err := os.Stat(target)
	if err != nil {
		return false
	}
	if m.dir {
		return info.IsDir()
	}
	if !info.Mode().IsRegular() {
		return false
	}
	if m.exec {
		return fsutil.IsExecutable(target)
	}
	return true
}
