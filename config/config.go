// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package config loads tscat's configuration from a YAML or TOML file,
// a .env file and environment variables, and sets up logging.
package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"codeberg.org/tscat/tscat/catalog"
)

// ConfigFileEnv names the environment variable holding the config file path.
const ConfigFileEnv = "TSCAT_CONFIGFILE"

// defaultConfigPaths are tried in order when no path is given.
var defaultConfigPaths = []string{"./tscat.yaml", "./tscat.yml", "./tscat.toml"}

// Config holds the application configuration.
type Config struct {
	Build buildInfo `toml:"-" yaml:"-"`

	Catalog struct {
		// Dirs are scanned for <locale>.ts and <locale>.ts.zst files.
		Dirs               []string                `env:"TSCAT_CATALOG_DIRS,overwrite"     toml:"dirs"            yaml:"dirs"`
		DefaultLocale      string                  `env:"TSCAT_DEFAULT_LOCALE,overwrite"   toml:"defaultLocale"   yaml:"defaultLocale"`
		RawDuplicatePolicy string                  `env:"TSCAT_DUPLICATE_POLICY,overwrite" toml:"duplicatePolicy" yaml:"duplicatePolicy"`
		DuplicatePolicy    catalog.DuplicatePolicy `toml:"-"                               yaml:"-"`
	} `toml:"catalog" yaml:"catalog"`

	Resolver struct {
		BestEffort         bool `env:"TSCAT_BEST_EFFORT,overwrite"         toml:"bestEffort"         yaml:"bestEffort"`
		StrictPlaceholders bool `env:"TSCAT_STRICT_PLACEHOLDERS,overwrite" toml:"strictPlaceholders" yaml:"strictPlaceholders"`
		LogMissing         bool `env:"TSCAT_LOG_MISSING,overwrite"         toml:"logMissing"         yaml:"logMissing"`
	} `toml:"resolver" yaml:"resolver"`

	Log struct {
		Level   string   `env:"TSCAT_LOG_LEVEL,overwrite"   toml:"level"   yaml:"level"`
		Outputs []string `env:"TSCAT_LOG_OUTPUTS,overwrite" toml:"outputs" yaml:"outputs"`
		Format  string   `env:"TSCAT_LOG_FORMAT,overwrite"  toml:"format"  yaml:"format"`
	} `toml:"log" yaml:"log"`
}

// LoadConfig loads the configuration from its sources, lowest precedence
// first: defaults, the config file, then environment variables (including
// those from a .env file). It then validates the result and installs the
// configured logger.
//
// The config file is flagPath when set, else $TSCAT_CONFIGFILE, else the
// first of ./tscat.yaml, ./tscat.yml and ./tscat.toml that exists.
func (cfg *Config) LoadConfig(flagPath string) error {
	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readFile(configFilePath(flagPath)); err != nil {
		return fmt.Errorf("error loading config file: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupLogging()
	cfg.print()

	return nil
}

// configFilePath applies the config file precedence rules.
func configFilePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}

	if envVar := os.Getenv(ConfigFileEnv); envVar != "" {
		return envVar
	}

	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	log.Debug().Msg("No configuration file found, using defaults")

	return ""
}
