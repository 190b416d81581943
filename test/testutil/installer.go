// Package testutil provides filesystem scaffolding shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// InstallerOptions selects which components the fake installer tree contains.
type InstallerOptions struct {
	Toolchain      bool
	DebugTool      bool
	RuntimeLibrary bool
	RTOSSource     bool
}

// AllComponents returns options with every component present.
func AllComponents() InstallerOptions {
	return InstallerOptions{Toolchain: true, DebugTool: true, RuntimeLibrary: true, RTOSSource: true}
}

// WriteInstaller creates a minimal extracted vendor installer tree under root
// with the selected components, mirroring the real installer's layout.
func WriteInstaller(t *testing.T, root string, opts InstallerOptions) {
	t.Helper()

	layout := filepath.Join(root, "C_", "MakingInstalers", "Layout")
	require.NoError(t, os.MkdirAll(layout, 0o755))

	if opts.Toolchain {
		tc := filepath.Join(layout, "Cross_Tools_zg_ia_sf", "powerpc-eabivle-4_9")
		writeExec(t, filepath.Join(tc, "bin", "powerpc-eabivle-gcc"))
		writeExec(t, filepath.Join(tc, "bin", "powerpc-eabivle-ld"))
		writeExec(t, filepath.Join(tc, "bin", "powerpc-eabivle-objcopy"))
		writeFile(t, filepath.Join(tc, "lib", "gcc", "specs"), "specs")
		writeFile(t, filepath.Join(tc, "powerpc-eabivle", "include", "stdio.h"), "// libc header")
	}

	if opts.DebugTool {
		plugin := filepath.Join(layout, "eclipse_zg_ia_sf", "plugins",
			"com.pemicro.debug.gdbjtag.ppc_1.7.2.201709281658", "lin")
		writeExec(t, filepath.Join(plugin, "pegdbserver_power_console"))
		writeFile(t, filepath.Join(plugin, "gdi", "unit_ngs_ppcnexus.gdi"), "gdi")
		writeFile(t, filepath.Join(plugin, "build_version.txt"), "1.7.2\n")
	}

	if opts.RuntimeLibrary {
		ewl := filepath.Join(layout, "S32DS_zg_ia_sf", "e200_ewl2")
		writeFile(t, filepath.Join(ewl, "lib", "e200z4", "libc.a"), "ar-z4")
		writeFile(t, filepath.Join(ewl, "lib", "e200z4", "spe", "libc.a"), "ar-z4-spe")
		writeFile(t, filepath.Join(ewl, "lib", "e200z6", "libc.a"), "ar-z6")
		writeFile(t, filepath.Join(ewl, "EWL_C", "include", "cstdio"), "// header")
	}

	if opts.RTOSSource {
		rtos := filepath.Join(layout, "S32DS_zg_ia_sf", "FreeRTOS_9.0.0", "Source")
		writeFile(t, filepath.Join(rtos, "tasks.c"), "// tasks")
		writeFile(t, filepath.Join(rtos, "list.c"), "// list")
		writeFile(t, filepath.Join(rtos, "queue.c"), "// queue")
		writeFile(t, filepath.Join(rtos, "include", "FreeRTOS.h"), "// header")
		writeFile(t, filepath.Join(rtos, "portable", "GCC", "PowerPC_Z4", "port.c"), "// port")
		writeFile(t, filepath.Join(rtos, "portable", "GCC", "PowerPC_Z4", "portasm.s"), "; portasm")
	}
}

// WriteToolchainPackage creates an installed toolchain package layout under
// root (bin/powerpc-eabivle-gcc and friends), as the resolver expects it.
func WriteToolchainPackage(t *testing.T, root string) {
	t.Helper()
	writeExec(t, filepath.Join(root, "bin", "powerpc-eabivle-gcc"))
	writeExec(t, filepath.Join(root, "bin", "powerpc-eabivle-ld"))
}

// WriteRuntimeLibraryPackage creates an installed runtime-library package
// layout under root with the given core variant subdirectories.
func WriteRuntimeLibraryPackage(t *testing.T, root string, cores ...string) {
	t.Helper()
	for _, core := range cores {
		writeFile(t, filepath.Join(root, "e200_ewl2", "lib", core, "libc.a"), "ar")
	}
}

func writeExec(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
