package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dapperfu/s32pack/internal/cli"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "s32pack",
		Short: "Package and resolve PowerPC VLE build artifacts",
		Long: `s32pack turns an extracted S32 Design Studio installer into installable
build-artifact packages and resolves them again at project-build time:
- Packaging: inspect, extract, build archives, update manifests
- Resolution: locate the toolchain, runtime libraries and debug server
  for a board`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	cli.ConfigPath = &configPath
	cli.Verbose = &verbose

	cmd.AddCommand(
		cli.NewInspectCmd(),
		cli.NewExtractCmd(),
		cli.NewBuildCmd(),
		cli.NewResolveCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
