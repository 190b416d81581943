package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/extract"
	"github.com/dapperfu/s32pack/pkg/model"
	"github.com/dapperfu/s32pack/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInspector struct {
	components map[model.ComponentKind]*model.InstallerComponent
}

func (f *fakeInspector) Find(kind model.ComponentKind) (*model.InstallerComponent, error) {
	component, ok := f.components[kind]
	if !ok {
		return nil, errors.Wrapf(errors.ErrComponentNotFound, "%s", kind)
	}
	return component, nil
}

type fakeBuilder struct {
	mu      sync.Mutex
	built   []string
	failFor model.ComponentKind
}

func (f *fakeBuilder) Build(_ context.Context, staged *extract.Result) (*model.PackageArtifact, error) {
	if staged.Kind == f.failFor {
		return nil, fmt.Errorf("build exploded for %s", staged.Kind)
	}
	f.mu.Lock()
	f.built = append(f.built, staged.PackageName)
	f.mu.Unlock()
	return &model.PackageArtifact{
		Kind:        staged.Kind,
		Name:        staged.PackageName,
		Version:     staged.Version,
		ArchivePath: staged.Root + ".tar.gz",
		SHA256:      "deadbeef",
	}, nil
}

type manifestCall struct {
	path        string
	urlOverride string
}

type fakeManifests struct {
	mu    sync.Mutex
	calls []manifestCall
}

func (f *fakeManifests) Update(path string, _ *model.PackageArtifact, _ string, urlOverride string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, manifestCall{path: path, urlOverride: urlOverride})
	return nil
}

func fakeExtract(component *model.InstallerComponent, destDir string) (*extract.Result, error) {
	return &extract.Result{
		Kind:        component.Kind,
		PackageName: "pkg-" + string(component.Kind),
		Version:     component.Version,
		Root:        filepath.Join(destDir, "pkg-"+string(component.Kind)),
	}, nil
}

func allComponents() map[model.ComponentKind]*model.InstallerComponent {
	components := make(map[model.ComponentKind]*model.InstallerComponent)
	for _, kind := range model.AllKinds() {
		components[kind] = &model.InstallerComponent{Kind: kind, Path: "/installer/" + string(kind), Version: "1.0.0"}
	}
	return components
}

func newOrchestrator(inspector *fakeInspector, builder *fakeBuilder, manifests *fakeManifests, hooks Hooks) *Orchestrator {
	return &Orchestrator{
		Inspector: inspector,
		Extractor: ExtractorFunc(fakeExtract),
		Builder:   builder,
		Manifests: ManifestUpdaterFunc(manifests.Update),
		Hooks:     hooks,
	}
}

func TestBuildAll_AllComponents(t *testing.T) {
	builder := &fakeBuilder{}
	manifests := &fakeManifests{}
	o := newOrchestrator(&fakeInspector{components: allComponents()}, builder, manifests, Hooks{})

	summary, err := o.BuildAll(context.Background(), Options{
		OutputDir:  t.TempDir(),
		PlatformID: platform.LinuxX8664,
	})
	require.NoError(t, err)

	assert.Len(t, summary.Artifacts, len(model.AllKinds()))
	assert.Empty(t, summary.Skipped)
	assert.Len(t, builder.built, len(model.AllKinds()))
	assert.Len(t, manifests.calls, len(model.AllKinds()))
}

func TestBuildAll_MissingOptionalIsSkipped(t *testing.T) {
	components := allComponents()
	delete(components, model.KindDebugTool)

	var eventsMu sync.Mutex
	var events []Event
	o := newOrchestrator(&fakeInspector{components: components}, &fakeBuilder{}, &fakeManifests{}, Hooks{
		OnEvent: func(e Event) {
			eventsMu.Lock()
			defer eventsMu.Unlock()
			events = append(events, e)
		},
	})

	summary, err := o.BuildAll(context.Background(), Options{OutputDir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, []model.ComponentKind{model.KindDebugTool}, summary.Skipped)
	assert.Len(t, summary.Artifacts, len(model.AllKinds())-1)

	var skipped []model.ComponentKind
	for _, e := range events {
		if e.Phase == "skipped" {
			skipped = append(skipped, e.Kind)
		}
	}
	assert.Equal(t, []model.ComponentKind{model.KindDebugTool}, skipped)
}

func TestBuildAll_MissingRequiredFails(t *testing.T) {
	components := allComponents()
	delete(components, model.KindToolchain)

	o := newOrchestrator(&fakeInspector{components: components}, &fakeBuilder{}, &fakeManifests{}, Hooks{})

	_, err := o.BuildAll(context.Background(), Options{OutputDir: t.TempDir()})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrComponentNotFound)
}

func TestBuildAll_OptionalBuildFailureContinuesBatch(t *testing.T) {
	builder := &fakeBuilder{failFor: model.KindDebugTool}
	manifests := &fakeManifests{}
	o := newOrchestrator(&fakeInspector{components: allComponents()}, builder, manifests, Hooks{})

	summary, err := o.BuildAll(context.Background(), Options{OutputDir: t.TempDir()})
	require.NoError(t, err)

	assert.Len(t, summary.Artifacts, len(model.AllKinds())-1)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, model.KindDebugTool, summary.Failed[0].Kind)
	assert.ErrorContains(t, summary.Failed[0].Err, "build exploded")

	for _, call := range manifests.calls {
		assert.NotContains(t, call.path, "pkg-"+string(model.KindDebugTool))
	}
}

func TestBuildAll_BuildFailureSkipsManifest(t *testing.T) {
	builder := &fakeBuilder{failFor: model.KindToolchain}
	manifests := &fakeManifests{}
	o := newOrchestrator(&fakeInspector{components: allComponents()}, builder, manifests, Hooks{})

	_, err := o.BuildAll(context.Background(), Options{
		OutputDir:   t.TempDir(),
		Concurrency: 1,
	})
	require.Error(t, err)

	for _, call := range manifests.calls {
		assert.NotContains(t, call.path, string(model.KindToolchain))
	}
}

func TestBuildAll_KindRestrictionAndURLOverride(t *testing.T) {
	manifests := &fakeManifests{}
	o := newOrchestrator(&fakeInspector{components: allComponents()}, &fakeBuilder{}, manifests, Hooks{})

	summary, err := o.BuildAll(context.Background(), Options{
		OutputDir: t.TempDir(),
		Kinds:     []model.ComponentKind{model.KindToolchain},
		URLOverrides: map[string]string{
			"pkg-toolchain": "https://example.com/toolchain.tar.gz",
		},
	})
	require.NoError(t, err)

	require.Len(t, summary.Artifacts, 1)
	require.Len(t, manifests.calls, 1)
	assert.Equal(t, "https://example.com/toolchain.tar.gz", manifests.calls[0].urlOverride)
}

func TestBuildAll_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newOrchestrator(&fakeInspector{components: allComponents()}, &fakeBuilder{}, &fakeManifests{}, Hooks{})

	_, err := o.BuildAll(ctx, Options{OutputDir: t.TempDir()})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
