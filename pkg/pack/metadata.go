package pack

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/model"
)

// MetadataSuffix is appended to the archive path for the sidecar file.
const MetadataSuffix = ".metadata.json"

// Metadata is the sidecar written next to each built archive. It records
// everything a manifest update needs without re-reading the archive.
type Metadata struct {
	Name    string    `json:"name"`
	Kind    string    `json:"kind"`
	Version string    `json:"version,omitempty"`
	SHA256  string    `json:"sha256"`
	Size    int64     `json:"size"`
	Created time.Time `json:"created"`
}

func writeMetadata(artifact *model.PackageArtifact) error {
	meta := Metadata{
		Name:    artifact.Name,
		Kind:    string(artifact.Kind),
		Version: artifact.Version,
		SHA256:  artifact.SHA256,
		Size:    artifact.Size,
		Created: time.Now().UTC(),
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal package metadata")
	}
	data = append(data, '\n')
	if err := os.WriteFile(artifact.ArchivePath+MetadataSuffix, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write package metadata")
	}
	return nil
}

// ReadMetadata loads the sidecar for an archive path.
func ReadMetadata(archivePath string) (*Metadata, error) {
	data, err := os.ReadFile(archivePath + MetadataSuffix)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read package metadata")
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrap(err, "failed to parse package metadata")
	}
	return &meta, nil
}
