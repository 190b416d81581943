package inspect

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/model"
	"github.com/dapperfu/s32pack/test/testutil"
)

func TestNewInspector_MissingRoot(t *testing.T) {
	_, err := NewInspector(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidPath))
}

func TestNewInspector_MissingLayout(t *testing.T) {
	// Root exists but has no Layout directory inside.
	_, err := NewInspector(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidPath))
}

func TestFind_AllKinds(t *testing.T) {
	root := t.TempDir()
	testutil.WriteInstaller(t, root, testutil.AllComponents())

	in, err := NewInspector(root)
	require.NoError(t, err)

	tests := []struct {
		kind        model.ComponentKind
		wantVersion string
		wantPathEnd string
	}{
		{model.KindToolchain, "4.9.4", "powerpc-eabivle-4_9"},
		{model.KindDebugTool, "1.7.2.201709281658", "lin"},
		{model.KindRuntimeLibrary, "2.0.0", "e200_ewl2"},
		{model.KindRTOSSource, "9.0.0", "FreeRTOS_9.0.0"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			component, err := in.Find(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, component.Kind)
			assert.Equal(t, tt.wantVersion, component.Version)
			assert.True(t, strings.HasSuffix(component.Path, tt.wantPathEnd),
				"path %s should end with %s", component.Path, tt.wantPathEnd)
			assert.Positive(t, component.FileCount)
			assert.Positive(t, component.TotalSize)
		})
	}
}

func TestFind_ComponentNotFound(t *testing.T) {
	root := t.TempDir()
	testutil.WriteInstaller(t, root, testutil.InstallerOptions{Toolchain: true})

	in, err := NewInspector(root)
	require.NoError(t, err)

	for _, kind := range []model.ComponentKind{model.KindDebugTool, model.KindRuntimeLibrary, model.KindRTOSSource} {
		_, err := in.Find(kind)
		require.Error(t, err)
		assert.True(t, errors.Is(err, pkgerrors.ErrComponentNotFound), "kind %s", kind)
	}
}

func TestInspect_KindsAreIndependent(t *testing.T) {
	root := t.TempDir()
	testutil.WriteInstaller(t, root, testutil.InstallerOptions{Toolchain: true, RuntimeLibrary: true})

	in, err := NewInspector(root)
	require.NoError(t, err)

	components := in.Inspect()
	assert.Len(t, components, 2)
	assert.Contains(t, components, model.KindToolchain)
	assert.Contains(t, components, model.KindRuntimeLibrary)
	assert.NotContains(t, components, model.KindDebugTool)
}

func TestReport(t *testing.T) {
	root := t.TempDir()
	testutil.WriteInstaller(t, root, testutil.InstallerOptions{Toolchain: true})

	in, err := NewInspector(root)
	require.NoError(t, err)

	report := in.Report()
	out := report.String()
	assert.Contains(t, out, "toolchain")
	assert.Contains(t, out, "debug-tool: not found")

	data, err := report.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"installer_root\"")
}

func TestPluginVersion(t *testing.T) {
	assert.Equal(t, "1.7.2.201709281658", pluginVersion("com.pemicro.debug.gdbjtag.ppc_1.7.2.201709281658"))
	assert.Equal(t, "", pluginVersion("noversion"))
}
