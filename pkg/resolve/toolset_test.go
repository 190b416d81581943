package resolve

import (
	"path/filepath"
	"testing"

	"github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/model"
	"github.com/dapperfu/s32pack/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePackagesRoot(t *testing.T, cores ...string) string {
	t.Helper()

	root := t.TempDir()
	testutil.WriteToolchainPackage(t, filepath.Join(root, toolchainPackageDir, "powerpc-eabivle-4_9"))
	testutil.WriteRuntimeLibraryPackage(t, filepath.Join(root, runtimeLibraryPackageDir), cores...)
	return root
}

func mpc5744pBoard() *model.BoardDescriptor {
	return &model.BoardDescriptor{
		Name: "devkit-mpc5744p",
		MCU:  "mpc5744p",
		Core: model.CoreZ4,
		VLE:  true,
	}
}

func TestResolve_CompleteToolset(t *testing.T) {
	root := writePackagesRoot(t, "e200z4", "e200z6")

	ts := &Toolset{PackagesRoot: root}
	got, err := ts.Resolve(mpc5744pBoard())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, toolchainPackageDir, "powerpc-eabivle-4_9"), got.ToolchainDir)
	assert.Equal(t, CompilerPrefix, got.CompilerPrefix)
	require.Len(t, got.LibraryPaths, 1)
	assert.Equal(t, filepath.Join(root, runtimeLibraryPackageDir, "e200_ewl2", "lib", "e200z4"), got.LibraryPaths[0])
	assert.Empty(t, got.DebugServerPath)
}

func TestResolve_LibraryFallsBackToZ6(t *testing.T) {
	root := writePackagesRoot(t, "e200z6")

	board := mpc5744pBoard()
	board.Core = model.CoreZ2

	got, err := (&Toolset{PackagesRoot: root}).Resolve(board)
	require.NoError(t, err)
	require.Len(t, got.LibraryPaths, 1)
	assert.Equal(t, filepath.Join(root, runtimeLibraryPackageDir, "e200_ewl2", "lib", "e200z6"), got.LibraryPaths[0])
}

func TestResolve_UnknownCore(t *testing.T) {
	root := writePackagesRoot(t, "e200z4")

	board := mpc5744pBoard()
	board.Core = "e200z9"

	_, err := (&Toolset{PackagesRoot: root}).Resolve(board)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownCoreVariant)
}

func TestResolve_ToolchainOverride(t *testing.T) {
	root := writePackagesRoot(t, "e200z4")
	override := t.TempDir()
	testutil.WriteToolchainPackage(t, override)

	ts := &Toolset{
		PackagesRoot: root,
		Overrides:    map[model.ComponentKind]string{model.KindToolchain: override},
	}
	got, err := ts.Resolve(mpc5744pBoard())
	require.NoError(t, err)
	assert.Equal(t, override, got.ToolchainDir)
}

func TestResolve_MissingLibraryIsFatal(t *testing.T) {
	root := t.TempDir()
	testutil.WriteToolchainPackage(t, filepath.Join(root, toolchainPackageDir))

	_, err := (&Toolset{PackagesRoot: root}).Resolve(mpc5744pBoard())
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, model.KindRuntimeLibrary, notFound.Kind)
}
