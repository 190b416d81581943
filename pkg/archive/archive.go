// Package archive creates and extracts package archives. Archives are
// written reproducibly: identical input trees always produce byte-identical
// archives, so content hashes are stable across rebuilds.
package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/fsutil"
	"github.com/mholt/archives"
)

// Manager handles archive extraction and creation operations.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// Create archives the source directory into a tar.gz at archivePath.
// Entries are sorted by archive name and file timestamps are zeroed so the
// output bytes depend only on the input contents, not on directory listing
// order or mtimes.
func (am *Manager) Create(ctx context.Context, sourceDir, archivePath string) error {
	absolutePath, err := filepath.Abs(sourceDir)
	if err != nil {
		return errors.Wrap(err, "failed to get absolute path for source directory")
	}

	srcRoot := filepath.ToSlash(absolutePath)
	if !strings.HasSuffix(srcRoot, "/") {
		srcRoot += "/"
	}
	archiveFiles, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		srcRoot: "",
	})
	if err != nil {
		return errors.Wrapf(errors.ErrArchive, "failed to read files from disk: %v", err)
	}

	normalizeFiles(archiveFiles)

	file, err := os.Create(archivePath)
	if err != nil {
		return errors.Wrapf(errors.ErrArchive, "failed to create output file %s: %v", archivePath, err)
	}
	defer func() {
		_ = file.Sync()
		_ = file.Close()
	}()

	format := archives.CompressedArchive{
		Compression: archives.Gz{},
		Archival:    archives.Tar{},
	}

	if err := format.Archive(ctx, file, archiveFiles); err != nil {
		return errors.Wrapf(errors.ErrArchive, "failed to create archive: %v", err)
	}

	return nil
}

// ExtractAll extracts all files from an archive to the specified destination directory.
func (am *Manager) ExtractAll(ctx context.Context, archivePath, destDir string) error {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return errors.Wrapf(errors.ErrArchive, "failed to open archive file: %v", err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	if err := fsutil.EnsureDir(destDir); err != nil {
		return errors.Wrap(err, "failed to create destination directory")
	}

	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return am.extractEntry(fsys, path, destDir, d)
	})
}

// Sha256File returns the hex-encoded SHA-256 digest of the file at path.
func Sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open %s for hashing", path)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrapf(err, "failed to hash %s", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// normalizeFiles sorts entries and zeroes timestamps and ownership so the
// resulting archive bytes are reproducible.
func normalizeFiles(files []archives.FileInfo) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].NameInArchive < files[j].NameInArchive
	})
	for i := range files {
		files[i].FileInfo = normalizedInfo{FileInfo: files[i].FileInfo}
	}
}

// normalizedInfo hides the mtime and owner of the underlying file.
type normalizedInfo struct {
	fs.FileInfo
}

func (n normalizedInfo) ModTime() time.Time { return time.Unix(0, 0).UTC() }
func (n normalizedInfo) Sys() interface{}   { return nil }

// extractEntry processes a single archive entry and writes it to destDir.
func (am *Manager) extractEntry(fsys fs.FS, path, destDir string, d fs.DirEntry) error {
	if path == "." {
		return nil
	}

	targetPath := filepath.Join(destDir, path)

	if d.IsDir() {
		return os.MkdirAll(targetPath, fsutil.DirModeDefault)
	}

	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("failed to get file info for %s: %w", path, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		return am.writeSymlink(fsys, path, targetPath)
	}

	return am.writeRegularFile(fsys, path, targetPath, info)
}

// writeSymlink creates a symlink at targetPath with contents from the archive entry at path.
func (am *Manager) writeSymlink(fsys fs.FS, path, targetPath string) error {
	linkTarget, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read symlink %s: %w", path, err)
	}
	defer func() { _ = linkTarget.Close() }()

	targetBytes, err := io.ReadAll(linkTarget)
	if err != nil {
		return fmt.Errorf("failed to read symlink target %s: %w", path, err)
	}

	if err := fsutil.EnsureDir(filepath.Dir(targetPath)); err != nil {
		return fmt.Errorf("failed to create parent directory for symlink %s: %w", path, err)
	}

	_ = os.Remove(targetPath)

	return os.Symlink(string(targetBytes), targetPath)
}

// writeRegularFile writes a regular file from the archive entry to targetPath
// and restores its permission bits, keeping executables executable.
func (am *Manager) writeRegularFile(fsys fs.FS, path, targetPath string, info fs.FileInfo) error {
	srcFile, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", path, err)
	}
	defer func() { _ = srcFile.Close() }()

	if err := fsutil.EnsureDir(filepath.Dir(targetPath)); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", path, err)
	}

	dstFile, err := fsutil.CreateFilePerm(targetPath, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", targetPath, err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file %s: %w", path, err)
	}

	if err := os.Chmod(targetPath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set permissions for %s: %w", targetPath, err)
	}
	return nil
}
