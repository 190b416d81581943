package cli

import (
	"fmt"

	"github.com/dapperfu/s32pack/pkg/extract"
	"github.com/dapperfu/s32pack/pkg/inspect"
	"github.com/dapperfu/s32pack/pkg/manifest"
	"github.com/dapperfu/s32pack/pkg/model"
	"github.com/dapperfu/s32pack/pkg/orchestrator"
	"github.com/dapperfu/s32pack/pkg/pack"
	"github.com/dapperfu/s32pack/pkg/platform"
	"github.com/spf13/cobra"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	var (
		output      string
		kinds       []string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "build INSTALLER_ROOT",
		Short: "Package every component of an installer tree",
		Long: `Run the full packaging pipeline over an extracted vendor installer tree:
extract each component into its canonical layout, build a reproducible
archive per component, and update each package manifest. Missing optional
components are reported and skipped; missing required components fail the
run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args[0], output, kinds, concurrency)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (defaults to config)")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "Restrict to component kinds (repeatable)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Number of parallel builds (0=config)")

	return cmd
}

func runBuild(cmd *cobra.Command, root, output string, kindArgs []string, concurrency int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if output == "" {
		output = cfg.Packaging.OutputDir
	}
	if concurrency <= 0 {
		concurrency = cfg.Settings.MaxConcurrent
	}

	kinds := cfg.PackagingKinds()
	if len(kindArgs) > 0 {
		kinds = kinds[:0]
		for _, arg := range kindArgs {
			kind, ok := model.ParseKind(arg)
			if !ok {
				return fmt.Errorf("unknown component kind %q (want one of %v)", arg, model.AllKinds())
			}
			kinds = append(kinds, kind)
		}
	}

	inspector, err := inspect.NewInspector(root)
	if err != nil {
		return err
	}

	o := &orchestrator.Orchestrator{
		Inspector: inspector,
		Extractor: orchestrator.ExtractorFunc(extract.Extract),
		Builder:   pack.NewBuilder(output),
		Manifests: orchestrator.ManifestUpdaterFunc(manifest.Update),
		Hooks: orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
			if e.Msg != "" {
				fmt.Printf("%s: %s (%s)\n", e.Phase, e.Kind, e.Msg)
			} else if e.Kind != "" {
				fmt.Printf("%s: %s\n", e.Phase, e.Kind)
			} else {
				fmt.Println(e.Phase)
			}
		}},
	}

	summary, err := o.BuildAll(cmd.Context(), orchestrator.Options{
		OutputDir:    output,
		PlatformID:   platform.Current(),
		Kinds:        kinds,
		URLOverrides: cfg.Packaging.URLOverrides,
		Concurrency:  concurrency,
	})
	if err != nil {
		return err
	}

	for _, artifact := range summary.Artifacts {
		fmt.Printf("built %s (%s, %d bytes)\n", artifact.ArchivePath, artifact.SHA256[:12], artifact.Size)
	}
	for _, kind := range summary.Skipped {
		fmt.Printf("skipped %s: not present in installer\n", kind)
	}
	for _, failure := range summary.Failed {
		fmt.Printf("failed %s: %v\n", failure.Kind, failure.Err)
	}
	return nil
}
