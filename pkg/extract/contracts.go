package extract

import (
	"path"

	"github.com/dapperfu/s32pack/pkg/inspect"
	"github.com/dapperfu/s32pack/pkg/model"
)

// Package names the extracted components are distributed under.
const (
	ToolchainPackageName      = "toolchain-powerpc-eabivle"
	DebugToolPackageName      = "tool-pegdbserver-power"
	RuntimeLibraryPackageName = "library-ewl-powerpc-eabivle"
	RTOSSourcePackageName     = "framework-freertos-nxp-mpc57xx"
)

// copyRule maps one path inside the installer component onto its place in
// the canonical package layout. Paths are slash-separated and relative.
type copyRule struct {
	src string
	dst string
}

// contract is the packaging contract for one component kind: which files are
// copied (explicit allow-list, never a wildcard copy of the component root),
// which of them are optional, and which results must stay executable. The
// dst layout here is the binding interface with the build-time resolver and
// must move in lockstep with it.
type contract struct {
	packageName string
	required    []copyRule
	optional    []copyRule
	executables []string
}

// contractFor returns the packaging contract for a component. The toolchain
// keeps the vendor-versioned top directory, which is exactly the nested
// layout the resolver's subdirectory step handles.
func contractFor(component *model.InstallerComponent) (contract, bool) {
	switch component.Kind {
	case model.KindToolchain:
		root := "powerpc-eabivle-4_9"
		return contract{
			packageName: ToolchainPackageName,
			required: []copyRule{
				{src: "bin", dst: path.Join(root, "bin")},
				{src: "lib", dst: path.Join(root, "lib")},
				{src: "powerpc-eabivle", dst: path.Join(root, "powerpc-eabivle")},
			},
			optional: []copyRule{
				{src: "libexec", dst: path.Join(root, "libexec")},
				{src: "include", dst: path.Join(root, "include")},
			},
			executables: []string{
				path.Join(root, "bin", inspect.CompilerPrefix+"gcc"),
				path.Join(root, "bin", inspect.CompilerPrefix+"ld"),
			},
		}, true
	case model.KindDebugTool:
		root := "tools/pegdbserver"
		return contract{
			packageName: DebugToolPackageName,
			required: []copyRule{
				{src: inspect.DebugServerExecutable, dst: path.Join(root, "bin", inspect.DebugServerExecutable)},
				{src: "gdi", dst: path.Join(root, "gdi")},
			},
			optional: []copyRule{
				{src: "build_version.txt", dst: path.Join(root, "build_version.txt")},
			},
			executables: []string{
				path.Join(root, "bin", inspect.DebugServerExecutable),
			},
		}, true
	case model.KindRuntimeLibrary:
		return contract{
			packageName: RuntimeLibraryPackageName,
			required: []copyRule{
				{src: "lib", dst: "e200_ewl2/lib"},
			},
			optional: []copyRule{
				{src: "EWL_C", dst: "e200_ewl2/EWL_C"},
			},
		}, true
	case model.KindRTOSSource:
		kernel := "Source"
		if len(component.RequiredPaths) > 0 {
			kernel = component.RequiredPaths[0]
		}
		return contract{
			packageName: RTOSSourcePackageName,
			required: []copyRule{
				{src: kernel, dst: "Source"},
			},
		}, true
	default:
		return contract{}, false
	}
}
