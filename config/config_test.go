// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

//nolint:paralleltest // These tests modify the process environment and working directory.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/tscat/tscat/catalog"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()

	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	unsetEnv(t, ConfigFileEnv)

	cfg := &Config{}
	require.NoError(t, cfg.LoadConfig(""))

	assert.Equal(t, []string{"./i18n"}, cfg.Catalog.Dirs)
	assert.Equal(t, "en", cfg.Catalog.DefaultLocale)
	assert.Equal(t, catalog.Reject, cfg.Catalog.DuplicatePolicy)
	assert.True(t, cfg.Resolver.LogMissing)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_Files(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "YAML",
			file: "custom.yaml",
			content: `catalog:
  dirs: [translations, extra]
  defaultLocale: pt_BR
  duplicatePolicy: keep-first
resolver:
  bestEffort: true
log:
  level: warn
  format: json
`,
		},
		{
			name: "TOML",
			file: "custom.toml",
			content: `[catalog]
dirs = ["translations", "extra"]
defaultLocale = "pt_BR"
duplicatePolicy = "keep-first"

[resolver]
bestEffort = true

[log]
level = "warn"
format = "json"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)

			path := writeFile(t, dir, tt.file, tt.content)

			cfg := &Config{}
			require.NoError(t, cfg.LoadConfig(path))

			assert.Equal(t, []string{"translations", "extra"}, cfg.Catalog.Dirs)
			assert.Equal(t, "pt-BR", cfg.Catalog.DefaultLocale)
			assert.Equal(t, catalog.KeepFirst, cfg.Catalog.DuplicatePolicy)
			assert.Equal(t, "keep-first", cfg.Catalog.RawDuplicatePolicy)
			assert.True(t, cfg.Resolver.BestEffort)
			assert.True(t, cfg.Resolver.LogMissing)
			assert.Equal(t, "warn", cfg.Log.Level)
			assert.Equal(t, "json", cfg.Log.Format)
		})
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := writeFile(t, dir, "tscat.yaml", "catalog:\n  duplicatePolicy: keep-first\n")

	t.Setenv("TSCAT_DUPLICATE_POLICY", "Overwrite")
	t.Setenv("TSCAT_CATALOG_DIRS", " a, b ,, c")
	t.Setenv("TSCAT_LOG_MISSING", "false")

	cfg := &Config{}
	require.NoError(t, cfg.LoadConfig(path))

	assert.Equal(t, catalog.Overwrite, cfg.Catalog.DuplicatePolicy)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Catalog.Dirs)
	assert.False(t, cfg.Resolver.LogMissing)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	unsetEnv(t, ConfigFileEnv)
	unsetEnv(t, "TSCAT_STRICT_PLACEHOLDERS")
	t.Setenv("TSCAT_DEFAULT_LOCALE", "fr")

	writeFile(t, dir, ".env", "TSCAT_STRICT_PLACEHOLDERS=true\nTSCAT_DEFAULT_LOCALE=de\n")

	cfg := &Config{}
	require.NoError(t, cfg.LoadConfig(""))

	assert.True(t, cfg.Resolver.StrictPlaceholders)
	// Variables already set win over .env.
	assert.Equal(t, "fr", cfg.Catalog.DefaultLocale)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want error
	}{
		{name: "DuplicatePolicy", env: map[string]string{"TSCAT_DUPLICATE_POLICY": "sometimes"}, want: errInvalidDuplicatePolicy},
		{name: "DefaultLocale", env: map[string]string{"TSCAT_DEFAULT_LOCALE": "not a locale"}, want: errInvalidDefaultLocale},
		{name: "LogLevel", env: map[string]string{"TSCAT_LOG_LEVEL": "loud"}, want: errInvalidLogLevel},
		{name: "LogFormat", env: map[string]string{"TSCAT_LOG_FORMAT": "xml"}, want: errInvalidLogFormat},
		{name: "Bool", env: map[string]string{"TSCAT_BEST_EFFORT": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			unsetEnv(t, ConfigFileEnv)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := &Config{}
			err := cfg.LoadConfig("")
			require.Error(t, err)

			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestConfigFilePath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	unsetEnv(t, ConfigFileEnv)
	assert.Empty(t, configFilePath(""))

	writeFile(t, dir, "tscat.toml", "")
	assert.Equal(t, "./tscat.toml", configFilePath(""))

	writeFile(t, dir, "tscat.yml", "")
	assert.Equal(t, "./tscat.yml", configFilePath(""))

	t.Setenv(ConfigFileEnv, "/etc/tscat.yaml")
	assert.Equal(t, "/etc/tscat.yaml", configFilePath(""))
	assert.Equal(t, "flag.yaml", configFilePath("flag.yaml"))
}

func TestReadEnv_RejectsNonPointer(t *testing.T) {
	require.ErrorIs(t, readEnv(Config{}), errExpectedPointerToStruct)

	n := 3
	require.ErrorIs(t, readEnv(&n), errExpectedPointerToStruct)
}

func TestBuildInfo_Revision(t *testing.T) {
	assert.Equal(t, "unknown", (&buildInfo{}).Revision())

	b := buildInfo{VcsRevision: "0123456789abcdef", VcsTime: "2025-03-01T10:00:00Z", VcsModified: true}
	assert.Equal(t, "2025-03-01-01234567+dirty", b.Revision())
}

func TestConfig_YAML(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "duplicatePolicy: reject")
	assert.Contains(t, string(out), "logMissing: true")
	assert.NotContains(t, string(out), "VcsRevision")
}
