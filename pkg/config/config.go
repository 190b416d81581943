// Package config loads the packaging tool's configuration: where the
// extracted installer lives, where built packages go, and how manifests are
// published. YAML files with sensible defaults; a missing config file is
// fine and yields the defaults.
package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/fsutil"
	"github.com/dapperfu/s32pack/pkg/model"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	// Packaging drives the inspect/extract/build pipeline.
	Packaging Packaging `yaml:"packaging"`

	// Resolution drives build-time artifact lookup.
	Resolution Resolution `yaml:"resolution"`

	Settings Settings `yaml:"settings"`
}

// Packaging configures the packaging pipeline.
type Packaging struct {
	// InstallerRoot is the extracted vendor installer tree.
	InstallerRoot string `yaml:"installer_root,omitempty"`

	// OutputDir receives built archives, metadata, and manifests.
	OutputDir string `yaml:"output_dir"`

	// URLOverrides maps a package name to the remote URL recorded in its
	// manifest instead of the default file:// URL.
	URLOverrides map[string]string `yaml:"url_overrides,omitempty"`

	// Kinds restricts the pipeline to the named component kinds. Empty
	// means all kinds.
	Kinds []string `yaml:"kinds,omitempty"`
}

// Resolution configures build-time artifact lookup.
type Resolution struct {
	// PackagesRoot is the package manager's install directory.
	PackagesRoot string `yaml:"packages_root"`

	// Overrides maps a component kind to an explicit artifact location.
	// An override that does not hold a valid artifact fails resolution.
	Overrides map[string]string `yaml:"overrides,omitempty"`
}

// Settings are general application settings.
type Settings struct {
	LogLevel string `yaml:"log_level"`

	// MaxConcurrent bounds the packaging worker pool.
	MaxConcurrent int `yaml:"max_concurrent"`
}

// DefaultMaxConcurrent bounds the packaging worker pool when the config does
// not say otherwise. Component trees are large, so the pool stays small.
const DefaultMaxConcurrent = 2

// YAMLIndent is the indentation used when writing config files.
const YAMLIndent = 2

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Packaging: Packaging{
			OutputDir: "dist",
		},
		Resolution: Resolution{
			PackagesRoot: defaultPackagesRoot(),
		},
		Settings: Settings{
			LogLevel:      "info",
			MaxConcurrent: DefaultMaxConcurrent,
		},
	}
}

func defaultPackagesRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "packages"
	}
	return filepath.Join(home, ".s32pack", "packages")
}

// Load reads a config file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.Wrap(errors.ErrConfigValidation, "empty config path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadFromReader(file)
}

// LoadFromReader loads configuration from an io.Reader.
func LoadFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the configuration atomically.
func (c *Config) Save(path string) error {
	if path == "" {
		return errors.Wrap(errors.ErrConfigValidation, "empty config path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidPath, err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(err, "failed to create config file")
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "failed to encode config")
	}
	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "failed to replace config file")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Packaging.OutputDir == "" {
		c.Packaging.OutputDir = "dist"
	}
	if c.Resolution.PackagesRoot == "" {
		c.Resolution.PackagesRoot = defaultPackagesRoot()
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = "info"
	}
	if c.Settings.MaxConcurrent <= 0 {
		c.Settings.MaxConcurrent = DefaultMaxConcurrent
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	for _, kind := range c.Packaging.Kinds {
		if _, ok := model.ParseKind(kind); !ok {
			return errors.Wrapf(errors.ErrConfigValidation, "unknown component kind %q", kind)
		}
	}
	for kind := range c.Resolution.Overrides {
		if _, ok := model.ParseKind(kind); !ok {
			return errors.Wrapf(errors.ErrConfigValidation, "override for unknown component kind %q", kind)
		}
	}
	return nil
}

// KindOverrides converts the string-keyed override map to component kinds.
// Call only after Validate.
func (c *Config) KindOverrides() map[model.ComponentKind]string {
	overrides := make(map[model.ComponentKind]string, len(c.Resolution.Overrides))
	for kind, path := range c.Resolution.Overrides {
		parsed, ok := model.ParseKind(kind)
		if !ok {
			continue
		}
		overrides[parsed] = path
	}
	return overrides
}

// PackagingKinds returns the configured kind restriction, or all kinds when
// the config names none.
func (c *Config) PackagingKinds() []model.ComponentKind {
	if len(c.Packaging.Kinds) == 0 {
		return model.AllKinds()
	}
	kinds := make([]model.ComponentKind, 0, len(c.Packaging.Kinds))
	for _, kind := range c.Packaging.Kinds {
		parsed, ok := model.ParseKind(kind)
		if !ok {
			continue
		}
		kinds = append(kinds, parsed)
	}
	return kinds
}
