// Package orchestrator ties the inspector, extractor, builder and manifest
// updater together into the packaging pipeline: one pass over a vendor
// installer that produces installable package archives plus updated
// manifests.
package orchestrator

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/dapperfu/s32pack/internal/logger"
	"github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/extract"
	"github.com/dapperfu/s32pack/pkg/manifest"
	"github.com/dapperfu/s32pack/pkg/model"
)

// Inspector locates components inside the vendor installer.
type Inspector interface {
	Find(kind model.ComponentKind) (*model.InstallerComponent, error)
}

// Extractor stages a component into its canonical package layout.
type Extractor interface {
	Extract(component *model.InstallerComponent, destDir string) (*extract.Result, error)
}

// ExtractorFunc adapts a plain function to the Extractor interface.
type ExtractorFunc func(component *model.InstallerComponent, destDir string) (*extract.Result, error)

func (f ExtractorFunc) Extract(component *model.InstallerComponent, destDir string) (*extract.Result, error) {
	return f(component, destDir)
}

// Builder archives a staged tree into a package artifact.
type Builder interface {
	Build(ctx context.Context, staged *extract.Result) (*model.PackageArtifact, error)
}

// ManifestUpdater merges a built artifact into a package manifest.
type ManifestUpdater interface {
	Update(path string, artifact *model.PackageArtifact, platformID, urlOverride string) error
}

// ManifestUpdaterFunc adapts a plain function to the ManifestUpdater interface.
type ManifestUpdaterFunc func(path string, artifact *model.PackageArtifact, platformID, urlOverride string) error

func (f ManifestUpdaterFunc) Update(path string, artifact *model.PackageArtifact, platformID, urlOverride string) error {
	return f(path, artifact, platformID, urlOverride)
}

// Orchestrator runs the packaging pipeline.
type Orchestrator struct {
	Inspector Inspector
	Extractor Extractor
	Builder   Builder
	Manifests ManifestUpdater
	Hooks     Hooks

	emitMu sync.Mutex
}

// Event is a simple progress notification.
type Event struct {
	Phase string // inspecting|extracting|building|manifest|skipped|error|done
	Kind  model.ComponentKind
	Msg   string
}

// Hooks carries callbacks for progress events. OnEvent is never invoked from
// more than one goroutine at a time, so callbacks may update their own state
// without locking.
type Hooks struct {
	OnEvent func(Event)
}

// Options control one BuildAll run.
type Options struct {
	// OutputDir receives archives, metadata sidecars and manifests.
	OutputDir string

	// StagingDir holds the extracted canonical trees. Empty means a
	// "staging" directory under OutputDir.
	StagingDir string

	// PlatformID keys the urls/sha256 manifest maps.
	PlatformID string

	// Kinds restricts the run. Empty means all kinds.
	Kinds []model.ComponentKind

	// URLOverrides maps package names to remote manifest URLs.
	URLOverrides map[string]string

	// Concurrency bounds the build worker pool.
	Concurrency int
}

// Summary is the outcome of one BuildAll run.
type Summary struct {
	Artifacts []*model.PackageArtifact
	Skipped   []model.ComponentKind
	Failed    []Failure
}

// Failure records an optional component whose build did not complete.
type Failure struct {
	Kind model.ComponentKind
	Err  error
}

// BuildAll packages every requested component of the installer. A missing or
// failing optional component is reported in the Summary without aborting the
// batch; only required components fail the run. Builds run concurrently; a
// manifest is only touched after its archive has been built and verified.
func (o *Orchestrator) BuildAll(ctx context.Context, opts Options) (*Summary, error) {
	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = model.AllKinds()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 2
	}
	stagingDir := opts.StagingDir
	if stagingDir == "" {
		stagingDir = filepath.Join(opts.OutputDir, "staging")
	}

	summary := &Summary{}
	var components []*model.InstallerComponent

	for _, kind := range kinds {
		o.emit(Event{Phase: "inspecting", Kind: kind})
		component, err := o.Inspector.Find(kind)
		if err != nil {
			if kind.Required() {
				o.emit(Event{Phase: "error", Kind: kind, Msg: err.Error()})
				return nil, errors.Wrapf(err, "required component %s", kind)
			}
			o.emit(Event{Phase: "skipped", Kind: kind, Msg: err.Error()})
			logger.Warn("optional component not found, skipping", logger.Fields{
				"kind": string(kind),
			})
			summary.Skipped = append(summary.Skipped, kind)
			continue
		}
		components = append(components, component)
	}

	artifacts, failed, err := o.runBuildWorkers(ctx, components, stagingDir, opts)
	if err != nil {
		return nil, err
	}
	summary.Artifacts = artifacts
	summary.Failed = failed

	o.emit(Event{Phase: "done"})
	return summary, nil
}

// runBuildWorkers builds the components on a bounded pool. A failing
// required component fails the whole run; a failing optional component is
// recorded and the batch keeps going.
func (o *Orchestrator) runBuildWorkers(ctx context.Context, components []*model.InstallerComponent, stagingDir string, opts Options) ([]*model.PackageArtifact, []Failure, error) {
	results := make([]*model.PackageArtifact, len(components))
	var failed []Failure
	var firstErr error
	var mu sync.Mutex

	tasks := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range tasks {
				if ctx.Err() != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = ctx.Err()
					}
					mu.Unlock()
					continue
				}
				artifact, err := o.buildOne(ctx, components[idx], stagingDir, opts)
				mu.Lock()
				switch {
				case err == nil:
					results[idx] = artifact
				case components[idx].Kind.Required():
					if firstErr == nil {
						firstErr = err
					}
				default:
					failed = append(failed, Failure{Kind: components[idx].Kind, Err: err})
				}
				mu.Unlock()
			}
		}()
	}

	for idx := range components {
		tasks <- idx
	}
	close(tasks)
	wg.Wait()

	if firstErr != nil {
		return nil, nil, firstErr
	}

	artifacts := make([]*model.PackageArtifact, 0, len(results))
	for _, artifact := range results {
		if artifact != nil {
			artifacts = append(artifacts, artifact)
		}
	}
	return artifacts, failed, nil
}

func (o *Orchestrator) buildOne(ctx context.Context, component *model.InstallerComponent, stagingDir string, opts Options) (*model.PackageArtifact, error) {
	o.emit(Event{Phase: "extracting", Kind: component.Kind})
	staged, err := o.Extractor.Extract(component, stagingDir)
	if err != nil {
		o.emit(Event{Phase: "error", Kind: component.Kind, Msg: err.Error()})
		return nil, err
	}

	o.emit(Event{Phase: "building", Kind: component.Kind, Msg: staged.PackageName})
	artifact, err := o.Builder.Build(ctx, staged)
	if err != nil {
		o.emit(Event{Phase: "error", Kind: component.Kind, Msg: err.Error()})
		return nil, err
	}

	o.emit(Event{Phase: "manifest", Kind: component.Kind, Msg: artifact.Name})
	manifestPath := filepath.Join(opts.OutputDir, artifact.Name, manifest.FileName)
	if err := o.Manifests.Update(manifestPath, artifact, opts.PlatformID, opts.URLOverrides[artifact.Name]); err != nil {
		o.emit(Event{Phase: "error", Kind: component.Kind, Msg: err.Error()})
		return nil, err
	}

	return artifact, nil
}

// emit serializes hook callbacks so workers never run OnEvent concurrently.
func (o *Orchestrator) emit(e Event) {
	if o.Hooks.OnEvent == nil {
		return
	}
	o.emitMu.Lock()
	defer o.emitMu.Unlock()
	o.Hooks.OnEvent(e)
}
