package fsutil

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CreateFilePerm creates a new file with the specified permissions.
func CreateFilePerm(name string, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, perm)
}

// CopyFile copies a single file from src to dst, creating parent directories
// as needed. The source file's permission bits are applied to the destination,
// so executable bits on tool binaries survive the copy.
func CopyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source file %s: %w", src, err)
	}

	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", dst, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := CreateFilePerm(dst, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	// The file may have existed already; O_CREATE perm only applies on create.
	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set permissions for %s: %w", dst, err)
	}
	return nil
}

// CopyTree recursively copies the directory tree rooted at src into dst,
// preserving permission bits on every file. Symlinks are re-created with
// their original (relative) targets.
func CopyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("error getting relative path of %s: %w", path, err)
		}
		target := filepath.Join(dst, relPath)

		switch d.Type() & os.ModeType {
		case os.ModeDir:
			return os.MkdirAll(target, DirModeDefault)
		case os.ModeSymlink:
			linkTarget, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("error reading symlink %s: %w", path, err)
			}
			_ = os.Remove(target)
			return os.Symlink(linkTarget, target)
		default:
			return CopyFile(path, target)
		}
	})
}

// IsExecutable reports whether path is a regular file with at least one
// execute permission bit set.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&ExecAnyMask != 0
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
