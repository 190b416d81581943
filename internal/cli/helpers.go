package cli

import (
	"fmt"

	"github.com/dapperfu/s32pack/internal/logger"
	"github.com/dapperfu/s32pack/pkg/config"
)

// These variables are set by the main package.
var (
	ConfigPath *string
	Verbose    *bool
)

// loadConfig loads the configuration and applies CLI flag overrides.
func loadConfig() (*config.Config, error) {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg = config.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	logger.InitLogger(cfg.Settings.LogLevel)

	return cfg, nil
}
