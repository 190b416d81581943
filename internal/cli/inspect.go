package cli

import (
	"fmt"

	"github.com/dapperfu/s32pack/pkg/inspect"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect INSTALLER_ROOT",
		Short: "Report which packageable components an installer tree contains",
		Long: `Scan an extracted vendor installer tree and report which components
(toolchain, debug tool, runtime library, RTOS sources) it contains,
with their versions and sizes. The tree is never modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runInspect(args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func runInspect(root string, asJSON bool) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	inspector, err := inspect.NewInspector(root)
	if err != nil {
		return err
	}
	report := inspector.Report()

	if asJSON {
		data, err := report.ToJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Print(report.String())
	return nil
}
