package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dapperfu/s32pack/internal/logger"
	"github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/model"
	"github.com/dapperfu/s32pack/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolchainArtifact(t *testing.T) *model.PackageArtifact {
	t.Helper()

	archive := filepath.Join(t.TempDir(), "toolchain-powerpc-eabivle-4.9.4.tar.gz")
	require.NoError(t, os.WriteFile(archive, []byte("archive"), 0o644))
	return &model.PackageArtifact{
		Kind:        model.KindToolchain,
		Name:        "toolchain-powerpc-eabivle",
		Version:     "4.9.4",
		ArchivePath: archive,
		SHA256:      strings.Repeat("ab", 32),
		Size:        7,
	}
}

func TestUpdate_CreatesManifest(t *testing.T) {
	artifact := toolchainArtifact(t)
	path := filepath.Join(t.TempDir(), FileName)

	require.NoError(t, Update(path, artifact, platform.LinuxX8664, ""))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "toolchain-powerpc-eabivle", doc.Name())
	assert.Equal(t, "4.9.4", doc.Version())
	assert.Equal(t, artifact.SHA256, doc.SHA256(platform.LinuxX8664))
	assert.True(t, strings.HasPrefix(doc.URL(platform.LinuxX8664), "file://"))
	assert.True(t, strings.HasSuffix(doc.URL(platform.LinuxX8664), ".tar.gz"))
}

func TestUpdate_MergePreservesUnknownFieldsAndOtherPlatforms(t *testing.T) {
	artifact := toolchainArtifact(t)
	path := filepath.Join(t.TempDir(), FileName)
	existing := `{
  "name": "toolchain-powerpc-eabivle",
  "description": "GCC for PowerPC VLE",
  "homepage": "https://example.com/toolchain",
  "system": ["linux_x86_64"],
  "urls": {"darwin_x86_64": "https://example.com/mac.tar.gz"},
  "sha256": {"darwin_x86_64": "` + strings.Repeat("cd", 32) + `"}
}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	require.NoError(t, Update(path, artifact, platform.LinuxX8664, "https://example.com/linux.tar.gz"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.JSONEq(t, `"GCC for PowerPC VLE"`, string(raw["description"]))
	assert.JSONEq(t, `"https://example.com/toolchain"`, string(raw["homepage"]))
	assert.JSONEq(t, `["linux_x86_64"]`, string(raw["system"]))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/mac.tar.gz", doc.URL("darwin_x86_64"))
	assert.Equal(t, strings.Repeat("cd", 32), doc.SHA256("darwin_x86_64"))
	assert.Equal(t, "https://example.com/linux.tar.gz", doc.URL(platform.LinuxX8664))
	assert.Equal(t, artifact.SHA256, doc.SHA256(platform.LinuxX8664))
}

func TestUpdate_MalformedManifestIsNeverRewritten(t *testing.T) {
	artifact := toolchainArtifact(t)
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	err := Update(path, artifact, platform.LinuxX8664, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrManifestMalformed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestUpdate_DowngradeIsWarnedButApplied(t *testing.T) {
	artifact := toolchainArtifact(t)
	artifact.Version = "4.9.3"
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "toolchain-powerpc-eabivle", "version": "4.9.4"}`), 0o644))

	var log bytes.Buffer
	logger.SetTestOutput(&log)
	logger.InitLogger("warn")
	defer func() {
		logger.UnsetTestOutput()
		logger.InitLogger("info")
	}()

	require.NoError(t, Update(path, artifact, platform.LinuxX8664, ""))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "4.9.3", doc.Version())
	assert.Contains(t, log.String(), "downgrade")
}

func TestUpdate_RepeatedUpdateIsIdempotent(t *testing.T) {
	artifact := toolchainArtifact(t)
	path := filepath.Join(t.TempDir(), FileName)

	require.NoError(t, Update(path, artifact, platform.LinuxX8664, "https://example.com/a.tar.gz"))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, Update(path, artifact, platform.LinuxX8664, "https://example.com/a.tar.gz"))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}
