package cli

import (
	"fmt"

	"github.com/dapperfu/s32pack/pkg/extract"
	"github.com/dapperfu/s32pack/pkg/inspect"
	"github.com/dapperfu/s32pack/pkg/model"
	"github.com/spf13/cobra"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "extract INSTALLER_ROOT KIND",
		Short: "Extract one component into its canonical package layout",
		Long: `Copy a single component out of an extracted vendor installer tree into
the canonical layout its package archive will carry. KIND is one of:
toolchain, debug-tool, runtime-library, rtos-source.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runExtract(args[0], args[1], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", ".", "Directory receiving the extracted layout")

	return cmd
}

func runExtract(root, kindArg, output string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	kind, ok := model.ParseKind(kindArg)
	if !ok {
		return fmt.Errorf("unknown component kind %q (want one of %v)", kindArg, model.AllKinds())
	}

	inspector, err := inspect.NewInspector(root)
	if err != nil {
		return err
	}
	component, err := inspector.Find(kind)
	if err != nil {
		return err
	}

	staged, err := extract.Extract(component, output)
	if err != nil {
		return err
	}
	fmt.Printf("extracted %s to %s\n", staged.PackageName, staged.Root)
	return nil
}
