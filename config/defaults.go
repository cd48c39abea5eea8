// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "codeberg.org/tscat/tscat/catalog"

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Catalog.Dirs = []string{"./i18n"}
	cfg.Catalog.DefaultLocale = "en"
	cfg.Catalog.RawDuplicatePolicy = catalog.Reject.String()
	cfg.Catalog.DuplicatePolicy = catalog.Reject

	cfg.Resolver.BestEffort = false
	cfg.Resolver.StrictPlaceholders = false
	cfg.Resolver.LogMissing = true

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
