package model

// CoreVariant is a specific e200 CPU core implementation. Different variants
// need different compiled runtime-library binaries.
type CoreVariant string

const (
	// CoreZ0 is the entry-level e200z0 core.
	CoreZ0 CoreVariant = "e200z0"
	// CoreZ2 is the e200z2 core.
	CoreZ2 CoreVariant = "e200z2"
	// CoreZ4 is the mid-range e200z4 core, the default for MPC57xx boards.
	CoreZ4 CoreVariant = "e200z4"
	// CoreZ6 is the full-featured e200z6 core. Its library build is the
	// fallback of last resort when no exact variant directory exists.
	CoreZ6 CoreVariant = "e200z6"
	// CoreZ7 is the e200z7 core.
	CoreZ7 CoreVariant = "e200z7"
)

// KnownCores enumerates the supported core variants. The set is closed: the
// runtime-library layout only ships builds for these cores.
func KnownCores() []CoreVariant {
	return []CoreVariant{CoreZ0, CoreZ2, CoreZ4, CoreZ6, CoreZ7}
}

// ValidCore reports whether v names a supported core variant.
func ValidCore(v CoreVariant) bool {
	for _, c := range KnownCores() {
		if c == v {
			return true
		}
	}
	return false
}

// BoardDescriptor is the externally supplied, read-only description of a
// target board. All optional fields are resolved to concrete values when the
// descriptor is constructed; consumers never see an "auto" placeholder.
type BoardDescriptor struct {
	Name            string      `json:"name"`
	MCU             string      `json:"mcu"`
	Core            CoreVariant `json:"core"`
	VLE             bool        `json:"vle"`
	LinkerScript    string      `json:"linker_script"`
	StartupTemplate string      `json:"startup_template"`
}

// ResolvedToolset is the single, complete result of one build-time
// resolution: everything the external compile step needs to locate on disk.
type ResolvedToolset struct {
	ToolchainDir    string   `json:"toolchain_dir"`
	CompilerPrefix  string   `json:"compiler_prefix"`
	LibraryPaths    []string `json:"library_paths"`
	DebugServerPath string   `json:"debug_server_path,omitempty"`
}
