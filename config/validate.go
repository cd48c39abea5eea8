// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"slices"

	"codeberg.org/tscat/tscat/catalog"
	"codeberg.org/tscat/tscat/store"
)

// validation errors.
var (
	errInvalidDuplicatePolicy = errors.New("invalid Catalog.DuplicatePolicy")
	errInvalidDefaultLocale   = errors.New("invalid Catalog.DefaultLocale")
	errInvalidLogLevel        = errors.New("invalid Log.Level")
	errInvalidLogFormat       = errors.New("invalid Log.Format")
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}
)

// validateAndSet validates the configuration and populates derived fields.
func (cfg *Config) validateAndSet() error {
	policy, err := catalog.ParseDuplicatePolicy(cfg.Catalog.RawDuplicatePolicy)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidDuplicatePolicy, err)
	}

	cfg.Catalog.DuplicatePolicy = policy
	cfg.Catalog.RawDuplicatePolicy = policy.String()

	if cfg.Catalog.DefaultLocale != "" {
		tag, err := store.ParseLocale(cfg.Catalog.DefaultLocale)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDefaultLocale, err)
		}

		cfg.Catalog.DefaultLocale = tag.String()
	}

	if !slices.Contains(logLevels, cfg.Log.Level) {
		return fmt.Errorf("%w %q, want one of %v", errInvalidLogLevel, cfg.Log.Level, logLevels)
	}

	if !slices.Contains(logFormats, cfg.Log.Format) {
		return fmt.Errorf("%w %q, want one of %v", errInvalidLogFormat, cfg.Log.Format, logFormats)
	}

	return nil
}
