// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "flag"

// AddFlags registers the -config flag on fs and returns its value.
func AddFlags(fs *flag.FlagSet) *string {
	return fs.String("config", "", "Path to a tscat configuration file in YAML or TOML format.")
}
