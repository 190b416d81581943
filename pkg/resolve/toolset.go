package resolve

import (
	"path/filepath"

	"github.com/dapperfu/s32pack/internal/logger"
	"github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/fsutil"
	"github.com/dapperfu/s32pack/pkg/model"
)

// Toolset performs one complete build-time resolution against a packages
// root. Optional per-kind overrides take precedence over every other
// candidate.
type Toolset struct {
	PackagesRoot string
	Overrides    map[model.ComponentKind]string
}

// Resolve produces the single ResolvedToolset for a board. The toolchain and
// runtime library are required; a missing debug tool only degrades the
// result, since not every build session attaches a debugger.
func (t *Toolset) Resolve(board *model.BoardDescriptor) (*model.ResolvedToolset, error) {
	if !model.ValidCore(board.Core) {
		return nil, errors.Wrapf(errors.ErrUnknownCoreVariant, "%q", board.Core)
	}

	toolchainDir, err := Locate(model.KindToolchain, t.specFor(model.KindToolchain))
	if err != nil {
		return nil, err
	}

	libraryRoot, err := Locate(model.KindRuntimeLibrary, t.specFor(model.KindRuntimeLibrary))
	if err != nil {
		return nil, err
	}
	libraryPaths, err := libraryDirs(filepath.Join(libraryRoot, "e200_ewl2", "lib"), board.Core)
	if err != nil {
		return nil, err
	}

	result := &model.ResolvedToolset{
		ToolchainDir:   toolchainDir,
		CompilerPrefix: CompilerPrefix,
		LibraryPaths:   libraryPaths,
	}

	debugDir, err := Locate(model.KindDebugTool, t.specFor(model.KindDebugTool))
	if err == nil {
		result.DebugServerPath = filepath.Join(debugDir, filepath.FromSlash(DebugServerRelPath))
	} else {
		logger.Debug("debug tool not resolved, continuing without debug server", logger.Fields{
			"board": board.Name,
		})
	}

	return result, nil
}

func (t *Toolset) specFor(kind model.ComponentKind) SearchSpec {
	spec := DefaultSearchSpec(kind, t.PackagesRoot)
	if override, ok := t.Overrides[kind]; ok && override != "" {
		spec.OverridePath = override
	}
	return spec
}

// libraryDirs selects the runtime-library subdirectory for a core. The
// mapping is a closed lookup, not a search: the exact variant directory
// first, then the variant's spe build, then the e200z6 build as the fallback
// of last resort since it is the most complete library the vendor ships.
func libraryDirs(libRoot string, core model.CoreVariant) ([]string, error) {
	candidates := []string{
		filepath.Join(libRoot, string(core)),
		filepath.Join(libRoot, string(core), "spe"),
		filepath.Join(libRoot, string(model.CoreZ6)),
	}
	for _, c := range candidates {
		if fsutil.DirExists(c) {
			return []string{c}, nil
		}
	}
	return nil, NewNotFoundError(model.KindRuntimeLibrary, candidates)
}
