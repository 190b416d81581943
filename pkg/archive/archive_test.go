package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSampleTree(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib", "e200z4"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "powerpc-eabivle-gcc"), []byte("elf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib", "e200z4", "libc.a"), []byte("ar"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.txt"), []byte("hello"), 0o644))
}

func TestCreateAndExtractRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "src")
	writeSampleTree(t, src)

	archivePath := filepath.Join(tempDir, "pkg.tar.gz")
	am := NewManager()
	require.NoError(t, am.Create(context.Background(), src, archivePath))

	dest := filepath.Join(tempDir, "out")
	require.NoError(t, am.ExtractAll(context.Background(), archivePath, dest))

	data, err := os.ReadFile(filepath.Join(dest, "readme.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	info, err := os.Stat(filepath.Join(dest, "bin", "powerpc-eabivle-gcc"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o111, "executable bit should survive the round trip")
}

func TestCreate_Reproducible(t *testing.T) {
	tempDir := t.TempDir()

	// Two trees with identical contents but different mtimes.
	srcA := filepath.Join(tempDir, "a")
	srcB := filepath.Join(tempDir, "b")
	writeSampleTree(t, srcA)
	writeSampleTree(t, srcB)

	past := filepath.Join(srcB, "readme.txt")
	info, err := os.Stat(past)
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(past, info.ModTime().AddDate(-1, 0, 0), info.ModTime().AddDate(-1, 0, 0)))

	am := NewManager()
	archiveA := filepath.Join(tempDir, "a.tar.gz")
	archiveB := filepath.Join(tempDir, "b.tar.gz")
	require.NoError(t, am.Create(context.Background(), srcA, archiveA))
	require.NoError(t, am.Create(context.Background(), srcB, archiveB))

	hashA, err := Sha256File(archiveA)
	require.NoError(t, err)
	hashB, err := Sha256File(archiveB)
	require.NoError(t, err)
	assert.Equal(t, hashA, hashB, "identical content should hash identically regardless of mtimes")
}

func TestCreate_MissingSource(t *testing.T) {
	tempDir := t.TempDir()
	am := NewManager()
	err := am.Create(context.Background(), filepath.Join(tempDir, "nope"), filepath.Join(tempDir, "out.tar.gz"))
	assert.Error(t, err)
}

func TestSha256File(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "file")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	sum, err := Sha256File(path)
	require.NoError(t, err)
	// Well-known digest of "abc".
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)

	_, err = Sha256File(filepath.Join(tempDir, "missing"))
	assert.Error(t, err)
}
