// Package inspect scans an extracted vendor installer tree and enumerates the
// packageable components it contains. The scan is read-only: component kinds
// are detected by fixed relative-path patterns and validated by kind-specific
// marker files, never by directory presence alone.
package inspect

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/fsutil"
	"github.com/dapperfu/s32pack/pkg/model"
)

// Fixed relative paths inside the extracted installer. The Layout directory
// name (including the vendor's spelling) comes from the installer itself.
const (
	layoutDir = "C_/MakingInstalers/Layout"

	toolchainDir      = "Cross_Tools_zg_ia_sf/powerpc-eabivle-4_9"
	debugPluginsDir   = "eclipse_zg_ia_sf/plugins"
	debugPluginPrefix = "com.pemicro.debug.gdbjtag.ppc_"
	runtimeLibDir     = "S32DS_zg_ia_sf/e200_ewl2"
	rtosParentDir     = "S32DS_zg_ia_sf"
	rtosDirPrefix     = "FreeRTOS"

	// CompilerPrefix is the cross-compiler executable name prefix shared by
	// the whole binutils/gcc tool family.
	CompilerPrefix = "powerpc-eabivle-"

	// DebugServerExecutable is the console GDB server binary name.
	DebugServerExecutable = "pegdbserver_power_console"

	// defaultToolchainVersion is used when the GCC version cannot be read
	// from the installer tree. 4.9.4 is the only release the vendor ever
	// shipped in this installer series.
	defaultToolchainVersion = "4.9.4"
)

// Inspector scans one installer root. Construct with NewInspector; the
// returned value is safe for repeated Find calls.
type Inspector struct {
	installerRoot string
	layoutRoot    string
}

// NewInspector validates the installer root and locates its Layout directory.
func NewInspector(installerRoot string) (*Inspector, error) {
	if !fsutil.DirExists(installerRoot) {
		return nil, errors.Wrapf(errors.ErrInvalidPath, "installer directory not found: %s", installerRoot)
	}
	layoutRoot := filepath.Join(installerRoot, filepath.FromSlash(layoutDir))
	if !fsutil.DirExists(layoutRoot) {
		return nil, errors.Wrapf(errors.ErrInvalidPath, "installer layout directory not found: %s", layoutRoot)
	}
	return &Inspector{installerRoot: installerRoot, layoutRoot: layoutRoot}, nil
}

// Find locates a single component kind, or fails with ErrComponentNotFound.
func (in *Inspector) Find(kind model.ComponentKind) (*model.InstallerComponent, error) {
	switch kind {
	case model.KindToolchain:
		return in.findToolchain()
	case model.KindDebugTool:
		return in.findDebugTool()
	case model.KindRuntimeLibrary:
		return in.findRuntimeLibrary()
	case model.KindRTOSSource:
		return in.findRTOSSource()
	default:
		return nil, errors.Wrapf(errors.ErrComponentNotFound, "unknown component kind %q", kind)
	}
}

// Inspect evaluates every component kind independently. Missing kinds are
// simply absent from the result; they never fail the inspection of the others.
func (in *Inspector) Inspect() map[model.ComponentKind]*model.InstallerComponent {
	components := make(map[model.ComponentKind]*model.InstallerComponent)
	for _, kind := range model.AllKinds() {
		component, err := in.Find(kind)
		if err != nil {
			continue
		}
		components[kind] = component
	}
	return components
}

func (in *Inspector) findToolchain() (*model.InstallerComponent, error) {
	root := filepath.Join(in.layoutRoot, filepath.FromSlash(toolchainDir))
	gcc := filepath.Join(root, "bin", CompilerPrefix+"gcc")
	if !fsutil.FileExists(gcc) {
		return nil, errors.Wrapf(errors.ErrComponentNotFound, "toolchain: no %s under %s", CompilerPrefix+"gcc", root)
	}

	count, size := countFilesAndSize(root)
	return &model.InstallerComponent{
		Kind:        model.KindToolchain,
		Path:        root,
		Version:     defaultToolchainVersion,
		Description: "GCC PowerPC EABI VLE cross-compiler",
		RequiredPaths: []string{
			"bin",
			"lib",
			"powerpc-eabivle",
		},
		FileCount: count,
		TotalSize: size,
	}, nil
}

func (in *Inspector) findDebugTool() (*model.InstallerComponent, error) {
	pluginsRoot := filepath.Join(in.layoutRoot, filepath.FromSlash(debugPluginsDir))
	entries, err := os.ReadDir(pluginsRoot)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrComponentNotFound, "debug-tool: cannot read plugins directory %s", pluginsRoot)
	}

	var plugins []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), debugPluginPrefix) {
			plugins = append(plugins, entry.Name())
		}
	}
	if len(plugins) == 0 {
		return nil, errors.Wrapf(errors.ErrComponentNotFound, "debug-tool: no %s* plugin under %s", debugPluginPrefix, pluginsRoot)
	}

	// Multiple plugin versions may coexist; the highest-sorting name wins.
	sort.Strings(plugins)
	plugin := plugins[len(plugins)-1]

	root := filepath.Join(pluginsRoot, plugin, "lin")
	server := filepath.Join(root, DebugServerExecutable)
	if !fsutil.FileExists(server) {
		return nil, errors.Wrapf(errors.ErrComponentNotFound, "debug-tool: no %s under %s", DebugServerExecutable, root)
	}

	count, size := countFilesAndSize(root)
	return &model.InstallerComponent{
		Kind:        model.KindDebugTool,
		Path:        root,
		Version:     pluginVersion(plugin),
		Description: "P&E Micro GDB server for Power Architecture",
		RequiredPaths: []string{
			DebugServerExecutable,
			"gdi",
		},
		FileCount: count,
		TotalSize: size,
	}, nil
}

func (in *Inspector) findRuntimeLibrary() (*model.InstallerComponent, error) {
	root := filepath.Join(in.layoutRoot, filepath.FromSlash(runtimeLibDir))
	libRoot := filepath.Join(root, "lib")
	if !fsutil.DirExists(libRoot) {
		return nil, errors.Wrapf(errors.ErrComponentNotFound, "runtime-library: no lib directory under %s", root)
	}

	// The library tree must carry at least one per-core build to be usable.
	found := false
	for _, core := range model.KnownCores() {
		if fsutil.DirExists(filepath.Join(libRoot, string(core))) {
			found = true
			break
		}
	}
	if !found {
		return nil, errors.Wrapf(errors.ErrComponentNotFound, "runtime-library: no core variant directories under %s", libRoot)
	}

	count, size := countFilesAndSize(root)
	return &model.InstallerComponent{
		Kind:          model.KindRuntimeLibrary,
		Path:          root,
		Version:       "2.0.0",
		Description:   "EWL runtime libraries for e200 cores",
		RequiredPaths: []string{"lib"},
		FileCount:     count,
		TotalSize:     size,
	}, nil
}

func (in *Inspector) findRTOSSource() (*model.InstallerComponent, error) {
	parent := filepath.Join(in.layoutRoot, filepath.FromSlash(rtosParentDir))
	entries, err := os.ReadDir(parent)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrComponentNotFound, "rtos-source: cannot read %s", parent)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), rtosDirPrefix) {
			candidates = append(candidates, entry.Name())
		}
	}
	if len(candidates) == 0 {
		return nil, errors.Wrapf(errors.ErrComponentNotFound, "rtos-source: no %s* directory under %s", rtosDirPrefix, parent)
	}
	sort.Strings(candidates)
	root := filepath.Join(parent, candidates[len(candidates)-1])

	srcDir, err := kernelSourceDir(root)
	if err != nil {
		return nil, err
	}

	count, size := countFilesAndSize(root)
	return &model.InstallerComponent{
		Kind:        model.KindRTOSSource,
		Path:        root,
		Version:     rtosVersion(filepath.Base(root)),
		Description: "FreeRTOS kernel with PowerPC ports",
		RequiredPaths: []string{
			relOrSelf(root, srcDir),
		},
		FileCount: count,
		TotalSize: size,
	}, nil
}

// kernelSourceDir locates the kernel source inside an RTOS distribution,
// which ships either as the full distribution (FreeRTOS/Source), a
// kernel-only tree (Source), or flat.
func kernelSourceDir(root string) (string, error) {
	for _, candidate := range []string{
		filepath.Join(root, "FreeRTOS", "Source"),
		filepath.Join(root, "Source"),
		root,
	} {
		if fsutil.FileExists(filepath.Join(candidate, "tasks.c")) {
			return candidate, nil
		}
	}
	return "", errors.Wrapf(errors.ErrComponentNotFound, "rtos-source: no kernel sources (tasks.c) under %s", root)
}

// pluginVersion extracts "1.7.2.201709281658" from
// "com.pemicro.debug.gdbjtag.ppc_1.7.2.201709281658".
func pluginVersion(pluginName string) string {
	idx := strings.LastIndex(pluginName, "_")
	if idx < 0 || idx == len(pluginName)-1 {
		return ""
	}
	return pluginName[idx+1:]
}

// rtosVersion extracts "9.0.0" from names like "FreeRTOS_9.0.0" or
// "FreeRTOS-9.0.0"; an unadorned directory name yields an empty version.
func rtosVersion(dirName string) string {
	rest := strings.TrimPrefix(dirName, rtosDirPrefix)
	rest = strings.TrimLeft(rest, "_-")
	return rest
}

func relOrSelf(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return "."
	}
	return rel
}

func countFilesAndSize(root string) (int, int64) {
	var count int
	var size int64
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable subtrees are skipped, not fatal
		}
		if d.Type().IsRegular() {
			count++
			if info, err := d.Info(); err == nil {
				size += info.Size()
			}
		}
		return nil
	})
	return count, size
}
