// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

//nolint:paralleltest // These tests change the working directory and the default i18n store.
package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/leonelquinteros/gotext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/tscat/tscat/catalog"
	"codeberg.org/tscat/tscat/config"
	"codeberg.org/tscat/tscat/tsfile"
)

const deDocument = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1" language="de_DE">
<context>
    <name>AddOperatorAction</name>
    <message>
        <source>Add operator</source>
        <translation>Operator hinzufügen</translation>
    </message>
    <message>
        <source>Add %1 operator</source>
        <translation>%1-Operator hinzufügen</translation>
    </message>
</context>
<context>
    <name>QObject</name>
    <message>
        <source>hidden</source>
        <translation>versteckt</translation>
    </message>
    <message numerus="yes">
        <source>%n file(s)</source>
        <translation>
            <numerusform>%n Datei</numerusform>
            <numerusform>%n Dateien</numerusform>
        </translation>
    </message>
    <message>
        <source>Old</source>
        <translation type="obsolete">Alt</translation>
    </message>
</context>
</TS>
`

const deExtra = `<TS version="2.1">
<context>
    <name>QObject</name>
    <message>
        <source>visible</source>
        <translation>sichtbar</translation>
    </message>
    <message>
        <source>hidden</source>
        <translation>verborgen</translation>
    </message>
</context>
</TS>
`

const warnDocument = `<TS><context><name>A</name>
<message><source>x</source><translation type="reviewed">y</translation></message>
</context></TS>`

// setupWorkdir moves the test into an empty directory holding the given
// files and clears configuration coming from the environment.
func setupWorkdir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	for _, key := range []string{
		config.ConfigFileEnv,
		"TSCAT_CATALOG_DIRS",
		"TSCAT_DEFAULT_LOCALE",
		"TSCAT_DUPLICATE_POLICY",
		"TSCAT_STRICT_PLACEHOLDERS",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	t.Setenv("TSCAT_LOG_LEVEL", "error")

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return dir
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	err := run(args, &stdout, &stderr)

	return stdout.String(), stderr.String(), err
}

func TestRun_NoCommand(t *testing.T) {
	setupWorkdir(t, nil)

	_, stderr, err := runCLI(t)
	require.ErrorIs(t, err, errNoCommand)
	assert.Contains(t, stderr, "Usage: tscat")
	assert.Contains(t, stderr, "version  print version information")
}

func TestRun_UnknownCommand(t *testing.T) {
	setupWorkdir(t, nil)

	_, _, err := runCLI(t, "frobnicate")
	require.ErrorIs(t, err, errUnknownCommand)
	assert.ErrorContains(t, err, "check, export, merge, prune, tr, version")
}

func TestRun_Help(t *testing.T) {
	setupWorkdir(t, nil)

	_, _, err := runCLI(t, "-h")
	require.ErrorIs(t, err, flag.ErrHelp)
}

func TestRun_InvalidConfig(t *testing.T) {
	setupWorkdir(t, map[string]string{
		"tscat.yaml": "catalog:\n  duplicatePolicy: sometimes\n",
	})

	_, _, err := runCLI(t, "version")
	require.ErrorContains(t, err, "failed to load configuration")
}

func TestRun_Version(t *testing.T) {
	setupWorkdir(t, nil)

	stdout, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "tscat "+config.BuildVersion)
}

func TestRun_Check(t *testing.T) {
	setupWorkdir(t, map[string]string{
		"de.ts":   deDocument,
		"bad.ts":  "<TS><context>",
		"warn.ts": warnDocument,
	})

	stdout, _, err := runCLI(t, "check", "de.ts", "warn.ts")
	require.NoError(t, err)
	assert.Contains(t, stdout, "de.ts: 2 contexts, 5 messages (4 finished, 0 unfinished, 1 obsolete), 0 warnings")
	assert.Contains(t, stdout, "warn.ts: warning: line 2")
	assert.Contains(t, stdout, "warn.ts: 1 contexts, 1 messages (0 finished, 1 unfinished, 0 obsolete), 1 warnings")

	stdout, _, err = runCLI(t, "check", "de.ts", "bad.ts")
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, stdout, "bad.ts: error:")

	_, _, err = runCLI(t, "check")
	require.ErrorIs(t, err, errMissingArguments)

	_, _, err = runCLI(t, "check", "missing.ts")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_Export(t *testing.T) {
	setupWorkdir(t, map[string]string{"de.ts": deDocument})

	t.Run("TS", func(t *testing.T) {
		stdout, _, err := runCLI(t, "export", "de.ts")
		require.NoError(t, err)
		assert.Equal(t, deDocument, stdout)
	})

	t.Run("Zstd", func(t *testing.T) {
		_, _, err := runCLI(t, "export", "-zstd", "-o", "de.ts.zst", "de.ts")
		require.NoError(t, err)

		data, err := os.ReadFile("de.ts.zst")
		require.NoError(t, err)
		assert.True(t, tsfile.IsCompressed(data))

		cat, _, err := tsfile.Parse(data)
		require.NoError(t, err)

		m, ok := cat.Find("QObject", "hidden", "")
		require.True(t, ok)
		assert.Equal(t, "versteckt", m.Translation)
	})

	t.Run("PO", func(t *testing.T) {
		stdout, _, err := runCLI(t, "export", "-po", "de.ts")
		require.NoError(t, err)

		po := gotext.NewPo()
		po.Parse([]byte(stdout))
		assert.Equal(t, "versteckt", po.GetC("hidden", "QObject"))
		assert.Equal(t, "%n Dateien", po.GetNC("%n file(s)", "%n file(s)", 3, "QObject"))
	})

	t.Run("ConflictingFlags", func(t *testing.T) {
		_, _, err := runCLI(t, "export", "-po", "-zstd", "de.ts")
		require.ErrorIs(t, err, errConflictingFlags)
	})

	t.Run("UnknownPolicy", func(t *testing.T) {
		_, _, err := runCLI(t, "export", "-policy", "sometimes", "de.ts")
		require.ErrorIs(t, err, catalog.ErrUnknownPolicy)
	})
}

func TestRun_Merge(t *testing.T) {
	setupWorkdir(t, map[string]string{"de.ts": deDocument, "extra.ts": deExtra})

	_, _, err := runCLI(t, "merge", "de.ts", "extra.ts")
	require.ErrorIs(t, err, catalog.ErrDuplicateMessage)

	_, _, err = runCLI(t, "merge", "-policy", "overwrite", "-o", "out.ts", "de.ts", "extra.ts")
	require.NoError(t, err)

	data, err := os.ReadFile("out.ts")
	require.NoError(t, err)

	cat, _, err := tsfile.Parse(data)
	require.NoError(t, err)

	m, ok := cat.Find("QObject", "hidden", "")
	require.True(t, ok)
	assert.Equal(t, "verborgen", m.Translation)

	_, ok = cat.Find("QObject", "visible", "")
	assert.True(t, ok)

	_, ok = cat.Find("AddOperatorAction", "Add operator", "")
	assert.True(t, ok)

	_, stderr, err := runCLI(t, "merge", "de.ts")
	require.ErrorIs(t, err, errMissingArguments)
	assert.Contains(t, stderr, "-policy overwrite")
}

func TestRun_Prune(t *testing.T) {
	setupWorkdir(t, map[string]string{"de.ts": deDocument})

	stdout, _, err := runCLI(t, "prune", "de.ts")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Old")
	assert.Contains(t, stdout, "versteckt")

	// In place.
	_, _, err = runCLI(t, "prune", "-o", "de.ts", "de.ts")
	require.NoError(t, err)

	data, err := os.ReadFile("de.ts")
	require.NoError(t, err)
	assert.Equal(t, stdout, string(data))
}

const frDocument = `<TS version="2.1" language="fr">
<context>
    <name>QObject</name>
    <message numerus="yes">
        <source>%n file(s)</source>
        <translation>
            <numerusform>%n fichier</numerusform>
            <numerusform>%n fichiers</numerusform>
        </translation>
    </message>
    <message numerus="yes">
        <source>%n file(s)</source>
        <comment>selected</comment>
        <translation>
            <numerusform>%n fichier sélectionné</numerusform>
            <numerusform>%n fichiers sélectionnés</numerusform>
        </translation>
    </message>
</context>
</TS>
`

func TestRun_Tr(t *testing.T) {
	setupWorkdir(t, map[string]string{"i18n/de.ts": deDocument, "i18n/fr.ts": frDocument})

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "Translated",
			args: []string{"tr", "-locale", "de", "-context", "QObject", "hidden"},
			want: "versteckt\n",
		},
		{
			name: "Arguments",
			args: []string{"tr", "-locale", "de_DE", "-context", "AddOperatorAction", "Add %1 operator", "Box"},
			want: "Box-Operator hinzufügen\n",
		},
		{
			name: "Form",
			args: []string{"tr", "-locale", "de", "-context", "QObject", "-form", "1", "%n file(s)"},
			want: "%n Dateien\n",
		},
		{
			name: "FormWithComment",
			args: []string{"tr", "-locale", "fr", "-context", "QObject", "-comment", "selected", "-form", "1", "%n file(s)"},
			want: "%n fichiers sélectionnés\n",
		},
		{
			name: "FormWithoutComment",
			args: []string{"tr", "-locale", "fr", "-context", "QObject", "-form", "1", "%n file(s)"},
			want: "%n fichiers\n",
		},
		{
			name: "MissingFallsBackToSource",
			args: []string{"tr", "-locale", "de", "-context", "QObject", "Nowhere %1", "x"},
			want: "Nowhere x\n",
		},
		{
			name: "DefaultLocaleHasNoCatalog",
			args: []string{"tr", "-context", "QObject", "hidden"},
			want: "hidden\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}

	t.Run("StrictPlaceholders", func(t *testing.T) {
		t.Setenv("TSCAT_STRICT_PLACEHOLDERS", "true")

		_, _, err := runCLI(t, "tr", "-locale", "de", "-context", "AddOperatorAction", "Add %1 operator")
		require.Error(t, err)
	})

	t.Run("InvalidLocale", func(t *testing.T) {
		_, _, err := runCLI(t, "tr", "-locale", "not a locale!", "hidden")
		require.Error(t, err)
	})
}
