package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile_PreservesExecutableBits(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "bin", "tool")
	dst := filepath.Join(tempDir, "out", "bin", "tool")

	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\n"), 0o755))

	require.NoError(t, CopyFile(src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	assert.True(t, IsExecutable(dst))
}

func TestCopyFile_MissingSource(t *testing.T) {
	tempDir := t.TempDir()
	err := CopyFile(filepath.Join(tempDir, "nope"), filepath.Join(tempDir, "dst"))
	assert.Error(t, err)
}

func TestCopyTree(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "src")
	dst := filepath.Join(tempDir, "dst")

	require.NoError(t, os.MkdirAll(filepath.Join(src, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "bin", "gcc"), []byte("elf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "readme.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.Symlink("bin/gcc", filepath.Join(src, "cc")))

	require.NoError(t, CopyTree(src, dst))

	assert.True(t, IsExecutable(filepath.Join(dst, "bin", "gcc")))
	assert.True(t, FileExists(filepath.Join(dst, "readme.txt")))

	link, err := os.Readlink(filepath.Join(dst, "cc"))
	require.NoError(t, err)
	assert.Equal(t, "bin/gcc", link)
}

func TestDirExists(t *testing.T) {
	tempDir := t.TempDir()
	assert.True(t, DirExists(tempDir))
	assert.False(t, DirExists(filepath.Join(tempDir, "missing")))

	file := filepath.Join(tempDir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.False(t, DirExists(file))
	assert.True(t, FileExists(file))
}
