// Package pack turns an extracted canonical tree into a distributable
// package artifact: a reproducible tar.gz, its SHA-256 content hash, and a
// metadata sidecar. Artifacts are immutable once built; a content change
// always means building a new artifact.
package pack

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dapperfu/s32pack/internal/logger"
	"github.com/dapperfu/s32pack/pkg/archive"
	"github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/extract"
	"github.com/dapperfu/s32pack/pkg/model"
	"github.com/mholt/archives"
)

// ArchiveSuffix is the file extension for built package archives.
const ArchiveSuffix = ".tar.gz"

// Builder archives extracted components into the output directory.
type Builder struct {
	archiver  *archive.Manager
	outputDir string
}

// NewBuilder creates a Builder writing archives and metadata to outputDir.
func NewBuilder(outputDir string) *Builder {
	return &Builder{
		archiver:  archive.NewManager(),
		outputDir: outputDir,
	}
}

// Build archives the staged tree, hashes the final archive bytes, writes the
// metadata sidecar, and verifies the produced archive before returning. The
// hash covers exactly the bytes that will be distributed.
func (b *Builder) Build(ctx context.Context, staged *extract.Result) (*model.PackageArtifact, error) {
	if _, err := os.Stat(staged.Root); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidPath, "staged tree %s does not exist", staged.Root)
	}
	if err := os.MkdirAll(b.outputDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	archivePath := b.archivePath(staged)
	if err := b.archiver.Create(ctx, staged.Root, archivePath); err != nil {
		return nil, err
	}

	sum, err := archive.Sha256File(archivePath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(archivePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrArchive, "failed to stat archive %s: %v", archivePath, err)
	}

	artifact := &model.PackageArtifact{
		Kind:        staged.Kind,
		Name:        staged.PackageName,
		Version:     staged.Version,
		InputDir:    staged.Root,
		ArchivePath: archivePath,
		SHA256:      sum,
		Size:        info.Size(),
	}

	if err := b.verify(ctx, artifact); err != nil {
		return nil, err
	}

	if err := writeMetadata(artifact); err != nil {
		return nil, err
	}

	logger.Info("package built", logger.Fields{
		"name":    artifact.Name,
		"archive": artifact.ArchivePath,
		"sha256":  artifact.SHA256,
		"size":    artifact.Size,
	})

	return artifact, nil
}

// verify re-opens the finished archive and checks that the kind's canonical
// layout marker is present, so a malformed archive never reaches a manifest.
func (b *Builder) verify(ctx context.Context, artifact *model.PackageArtifact) error {
	marker, ok := archiveMarker(artifact.Kind)
	if !ok {
		return nil
	}

	fsys, err := archives.FileSystem(ctx, artifact.ArchivePath, nil)
	if err != nil {
		return errors.Wrapf(errors.ErrArchive, "failed to reopen archive %s: %v", artifact.ArchivePath, err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	if _, err := fs.Stat(fsys, marker); err != nil {
		return errors.Wrapf(errors.ErrArchive, "archive %s is missing layout marker %s", artifact.ArchivePath, marker)
	}
	return nil
}

// archiveMarker returns the slash-separated archive path that proves the
// canonical layout for a kind. This mirrors what the resolver validates on
// the installed tree.
func archiveMarker(kind model.ComponentKind) (string, bool) {
	switch kind {
	case model.KindToolchain:
		return "powerpc-eabivle-4_9/bin/powerpc-eabivle-gcc", true
	case model.KindDebugTool:
		return "tools/pegdbserver/bin/pegdbserver_power_console", true
	case model.KindRuntimeLibrary:
		return "e200_ewl2/lib", true
	case model.KindRTOSSource:
		return "Source/tasks.c", true
	default:
		return "", false
	}
}

func (b *Builder) archivePath(staged *extract.Result) string {
	name := staged.PackageName
	if staged.Version != "" {
		name = fmt.Sprintf("%s-%s", staged.PackageName, staged.Version)
	}
	return filepath.Join(b.outputDir, name+ArchiveSuffix)
}
