// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

//nolint:paralleltest // These tests replace the package-level Default store.
package i18n

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"codeberg.org/tscat/tscat/config"
)

const deCatalog = `<TS version="2.1" language="de">
<context>
    <name></name>
    <message>
        <source>Quit</source>
        <translation>Beenden</translation>
    </message>
</context>
<context>
    <name>QObject</name>
    <message>
        <source>hidden</source>
        <translation>versteckt</translation>
    </message>
    <message>
        <source>hidden</source>
        <comment>QvisPlotListBoxItem</comment>
        <translation>verborgen</translation>
    </message>
    <message>
        <source>Add %1 operator</source>
        <translation>%1-Operator hinzufügen</translation>
    </message>
    <message numerus="yes">
        <source>%1 file(s)</source>
        <translation>
            <numerusform>%1 Datei</numerusform>
            <numerusform>%1 Dateien</numerusform>
        </translation>
    </message>
    <message numerus="yes">
        <source>%1 file(s)</source>
        <comment>selected</comment>
        <translation>
            <numerusform>%1 Datei ausgewählt</numerusform>
            <numerusform>%1 Dateien ausgewählt</numerusform>
        </translation>
    </message>
</context>
</TS>
`

func setupTestConfig(t *testing.T, files map[string]string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.Catalog.Dirs = []string{dir, filepath.Join(dir, "missing")}
	cfg.Catalog.DefaultLocale = "de"

	return cfg
}

func TestSetupAndTranslate(t *testing.T) {
	cfg := setupTestConfig(t, map[string]string{"de_DE.ts": deCatalog})
	require.NoError(t, Setup(cfg))

	langs := Languages()
	require.Len(t, langs, 1)
	assert.Equal(t, "de-DE", langs[0].String())
	assert.Equal(t, "de", TagFrom(context.Background()).String())

	// The active locale "de" has no catalog of its own.
	assert.Equal(t, "Quit", Tr(context.Background(), "Quit"))

	ctx := WithTag(context.Background(), language.MustParse("de-DE"))

	assert.Equal(t, "Beenden", Tr(ctx, "Quit"))
	assert.Equal(t, "versteckt", TrC(ctx, "QObject", "hidden"))
	assert.Equal(t, "verborgen", TrD(ctx, "QObject", "hidden", "QvisPlotListBoxItem"))
	assert.Equal(t, "Box-Operator hinzufügen", TrC(ctx, "QObject", "Add %1 operator", "Box"))
	assert.Equal(t, "2 Dateien", TrF(ctx, "QObject", "%1 file(s)", 1, 2))
	assert.Equal(t, "2 Dateien ausgewählt", TrFD(ctx, "QObject", "%1 file(s)", "selected", 1, 2))
	assert.Equal(t, "1 Datei ausgewählt", TrFD(ctx, "QObject", "%1 file(s)", "selected", 0, 1))
	assert.Equal(t, "Missing %1", TrC(ctx, "QObject", "Missing %1"))
}

func TestSetup_FailureKeepsDefault(t *testing.T) {
	cfg := setupTestConfig(t, map[string]string{"de.ts": deCatalog})
	require.NoError(t, Setup(cfg))

	before := Default

	bad := setupTestConfig(t, map[string]string{"fr.ts": "<TS><context>"})
	require.Error(t, Setup(bad))
	assert.Same(t, before, Default)
}

func TestTagFrom(t *testing.T) {
	Default = NewStore(setupTestConfig(t, nil))

	assert.Equal(t, "de", TagFrom(nil).String()) //nolint:staticcheck // nil context is documented
	assert.Equal(t, "fr", TagFrom(WithTag(context.Background(), language.French)).String())
	assert.Equal(t, "de", TagFrom(WithTag(context.Background(), language.Tag{})).String())
}
