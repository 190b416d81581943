package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dapperfu/s32pack/pkg/board"
	"github.com/dapperfu/s32pack/pkg/resolve"
	"github.com/spf13/cobra"
)

// NewResolveCmd creates the resolve command.
func NewResolveCmd() *cobra.Command {
	var (
		packagesRoot string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "resolve BOARD_FILE",
		Short: "Resolve the toolset for a board",
		Long: `Resolve the complete build toolset for a board descriptor: toolchain
root, compiler prefix, runtime-library search paths for the board's CPU
core, and the debug server if one is installed. Candidate locations are
tried in a fixed priority order and the first valid one wins.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runResolve(args[0], packagesRoot, asJSON)
		},
	}

	cmd.Flags().StringVar(&packagesRoot, "packages-root", "", "Installed packages directory (defaults to config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the resolved toolset as JSON")

	return cmd
}

func runResolve(boardPath, packagesRoot string, asJSON bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if packagesRoot == "" {
		packagesRoot = cfg.Resolution.PackagesRoot
	}

	descriptor, err := board.Load(boardPath)
	if err != nil {
		return err
	}

	toolset := &resolve.Toolset{
		PackagesRoot: packagesRoot,
		Overrides:    cfg.KindOverrides(),
	}
	resolved, err := toolset.Resolve(descriptor)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(resolved, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("board:           %s (%s, %s)\n", descriptor.Name, descriptor.MCU, descriptor.Core)
	fmt.Printf("toolchain:       %s\n", resolved.ToolchainDir)
	fmt.Printf("compiler prefix: %s\n", resolved.CompilerPrefix)
	for _, p := range resolved.LibraryPaths {
		fmt.Printf("library path:    %s\n", p)
	}
	if resolved.DebugServerPath != "" {
		fmt.Printf("debug server:    %s\n", resolved.DebugServerPath)
	} else {
		fmt.Println("debug server:    not installed")
	}
	return nil
}
