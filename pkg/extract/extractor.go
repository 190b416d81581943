// Package extract copies installer components into the canonical package
// layout the build-time resolver expects. Extraction is all-or-nothing: the
// destination appears only after every required path has been copied and the
// executables have been verified, otherwise it is rolled back.
package extract

import (
	"os"
	"path/filepath"

	"github.com/dapperfu/s32pack/internal/logger"
	"github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/fsutil"
	"github.com/dapperfu/s32pack/pkg/model"
)

// Result describes an extracted, staged component: the canonical tree the
// package builder archives.
type Result struct {
	Kind        model.ComponentKind
	PackageName string
	Version     string
	Root        string
}

// Extract copies the component's allow-listed files into
// destDir/<package-name>. An existing destination is replaced only on
// success; a failed extraction leaves no destination behind.
func Extract(component *model.InstallerComponent, destDir string) (*Result, error) {
	c, ok := contractFor(component)
	if !ok {
		return nil, errors.Wrapf(errors.ErrComponentNotFound, "no packaging contract for kind %q", component.Kind)
	}

	if missing := missingRequired(component, c); len(missing) > 0 {
		return nil, NewIncompleteError(component.Kind, missing)
	}

	if err := fsutil.EnsureDir(destDir); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", destDir)
	}

	// Stage into a scratch directory next to the final location so the
	// commit is a single rename.
	staging, err := os.MkdirTemp(destDir, "."+c.packageName+"-")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create staging directory")
	}
	defer func() { _ = os.RemoveAll(staging) }()

	rules := append(append([]copyRule{}, c.required...), presentOptional(component, c)...)
	for _, rule := range rules {
		src := filepath.Join(component.Path, filepath.FromSlash(rule.src))
		dst := filepath.Join(staging, filepath.FromSlash(rule.dst))
		if err := copyPath(src, dst); err != nil {
			return nil, errors.Wrapf(err, "failed to extract %s of %s", rule.src, component.Kind)
		}
	}

	for _, exe := range c.executables {
		target := filepath.Join(staging, filepath.FromSlash(exe))
		if !fsutil.IsExecutable(target) {
			return nil, errors.Wrapf(errors.ErrPermissionLost, "%s in %s package", exe, component.Kind)
		}
	}

	// MkdirTemp creates the staging directory 0700; the committed package
	// root must be world readable like any other extracted tree.
	if err := os.Chmod(staging, fsutil.DirModeDefault); err != nil {
		return nil, errors.Wrap(err, "failed to set package root permissions")
	}

	finalRoot := filepath.Join(destDir, c.packageName)
	if err := os.RemoveAll(finalRoot); err != nil {
		return nil, errors.Wrapf(err, "failed to remove previous extraction %s", finalRoot)
	}
	if err := os.Rename(staging, finalRoot); err != nil {
		return nil, errors.Wrapf(err, "failed to commit extraction to %s", finalRoot)
	}

	logger.Debug("component extracted", logger.Fields{
		"kind": string(component.Kind),
		"root": finalRoot,
	})

	return &Result{
		Kind:        component.Kind,
		PackageName: c.packageName,
		Version:     component.Version,
		Root:        finalRoot,
	}, nil
}

// missingRequired returns the required source paths absent from the
// component, in contract order.
func missingRequired(component *model.InstallerComponent, c contract) []string {
	var missing []string
	for _, rule := range c.required {
		src := filepath.Join(component.Path, filepath.FromSlash(rule.src))
		if _, err := os.Stat(src); err != nil {
			missing = append(missing, rule.src)
		}
	}
	return missing
}

// presentOptional filters the optional rules down to those whose source exists.
func presentOptional(component *model.InstallerComponent, c contract) []copyRule {
	var rules []copyRule
	for _, rule := range c.optional {
		src := filepath.Join(component.Path, filepath.FromSlash(rule.src))
		if _, err := os.Stat(src); err == nil {
			rules = append(rules, rule)
		}
	}
	return rules
}

func copyPath(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fsutil.CopyTree(src, dst)
	}
	return fsutil.CopyFile(src, dst)
}
