// Package manifest updates the per-package distribution manifest
// (package.json) after a build. Updates are a merge, not a rewrite: fields
// the updater does not know about pass through untouched, so hand-edited
// manifests survive a rebuild.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dapperfu/s32pack/internal/logger"
	"github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/model"
	"github.com/hashicorp/go-version"
)

// FileName is the manifest file written next to each package.
const FileName = "package.json"

// Document is a loaded manifest. Known fields are edited through methods;
// everything else is kept as raw JSON and written back verbatim.
type Document struct {
	fields map[string]json.RawMessage
}

// NewDocument creates an empty manifest for a package name.
func NewDocument(name string) *Document {
	d := &Document{fields: map[string]json.RawMessage{}}
	d.setString("name", name)
	return d
}

// Load reads a manifest file. A malformed file is reported and never
// rewritten; a fresh manifest has to be an explicit choice of the caller.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.Wrapf(errors.ErrManifestMalformed, "%s: %v", path, err)
	}
	return &Document{fields: fields}, nil
}

// Name returns the manifest's package name, if set.
func (d *Document) Name() string { return d.getString("name") }

// Version returns the manifest's version, if set.
func (d *Document) Version() string { return d.getString("version") }

// SetVersion replaces the manifest version.
func (d *Document) SetVersion(version string) { d.setString("version", version) }

// SetArtifact records a built archive for one platform: its download URL in
// the urls map and its content hash in the sha256 map. Entries for other
// platforms stay as they are.
func (d *Document) SetArtifact(platformID, url, sha256 string) error {
	if err := d.setMapEntry("urls", platformID, url); err != nil {
		return err
	}
	return d.setMapEntry("sha256", platformID, sha256)
}

// URL returns the download URL recorded for a platform, if any.
func (d *Document) URL(platformID string) string { return d.mapEntry("urls", platformID) }

// SHA256 returns the content hash recorded for a platform, if any.
func (d *Document) SHA256(platformID string) string { return d.mapEntry("sha256", platformID) }

// Save writes the manifest atomically next to its final location.
func (d *Document) Save(path string) error {
	data, err := json.MarshalIndent(d.fields, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal manifest")
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create manifest directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-")
	if err != nil {
		return errors.Wrap(err, "failed to create manifest temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "failed to write manifest")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "failed to write manifest")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "failed to write manifest")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "failed to commit manifest %s", path)
	}
	return nil
}

// Update merges a built artifact into the manifest at path, creating the
// manifest when it does not exist yet. An empty urlOverride records a
// file:// URL pointing at the archive itself.
func Update(path string, artifact *model.PackageArtifact, platformID, urlOverride string) error {
	var doc *Document
	switch _, statErr := os.Stat(path); {
	case statErr == nil:
		loaded, err := Load(path)
		if err != nil {
			return err
		}
		doc = loaded
	case os.IsNotExist(statErr):
		doc = NewDocument(artifact.Name)
	default:
		return errors.Wrapf(statErr, "failed to stat manifest %s", path)
	}

	if artifact.Version != "" {
		warnOnDowngrade(artifact.Name, doc.Version(), artifact.Version)
		doc.SetVersion(artifact.Version)
	}

	url := urlOverride
	if url == "" {
		abs, err := filepath.Abs(artifact.ArchivePath)
		if err != nil {
			return errors.Wrap(err, "failed to resolve archive path")
		}
		url = "file://" + abs
	}

	if err := doc.SetArtifact(platformID, url, artifact.SHA256); err != nil {
		return err
	}
	return doc.Save(path)
}

func (d *Document) getString(key string) string {
	raw, ok := d.fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (d *Document) setString(key, value string) {
	raw, _ := json.Marshal(value)
	d.fields[key] = raw
}

func (d *Document) setMapEntry(key, entryKey, value string) error {
	m := map[string]string{}
	if raw, ok := d.fields[key]; ok {
		if err := json.Unmarshal(raw, &m); err != nil {
			return errors.Wrapf(errors.ErrManifestMalformed, "field %q is not a string map: %v", key, err)
		}
	}
	m[entryKey] = value
	raw, err := json.Marshal(m)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal field %q", key)
	}
	d.fields[key] = raw
	return nil
}

func (d *Document) mapEntry(key, entryKey string) string {
	raw, ok := d.fields[key]
	if !ok {
		return ""
	}
	m := map[string]string{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}
	return m[entryKey]
}

// warnOnDowngrade logs when an update lowers the recorded version. The merge
// still happens; rebuilding an older installer on purpose is legitimate.
func warnOnDowngrade(name, previous, next string) {
	if previous == "" {
		return
	}
	prevV, err := version.NewVersion(previous)
	if err != nil {
		return
	}
	nextV, err := version.NewVersion(next)
	if err != nil {
		return
	}
	if nextV.LessThan(prevV) {
		logger.Warn("manifest version downgrade", logger.Fields{
			"package":  name,
			"previous": previous,
			"next":     next,
		})
	}
}

// String implements fmt.Stringer for log output.
func (d *Document) String() string {
	return fmt.Sprintf("manifest(%s %s)", d.Name(), d.Version())
}
