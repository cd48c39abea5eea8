// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pofile

import (
	"bytes"
	"testing"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/tscat/tscat/catalog"
)

func TestMarshal(t *testing.T) {
	t.Parallel()

	cat := catalog.New()
	cat.Language = "de"

	add := func(ctx string, m catalog.Message) {
		_, err := cat.AddMessage(ctx, m)
		require.NoError(t, err)
	}

	add("AddOperatorAction", catalog.Message{Source: "Add operator", Translation: "Operator hinzufügen", State: catalog.Finished})
	add("QObject", catalog.Message{Source: "hidden", Translation: "versteckt", State: catalog.Finished})
	add("QObject", catalog.Message{Source: "hidden", Comment: "QvisPlotListBoxItem", Translation: "verborgen", State: catalog.Finished})
	add("QObject", catalog.Message{Source: "Draft", Translation: "Entwurf", State: catalog.Unfinished})
	add("QObject", catalog.Message{Source: "Gone", Translation: "Weg", State: catalog.Obsolete})
	add("QObject", catalog.Message{
		Source:       "%n file(s)",
		Numerus:      true,
		NumerusForms: []string{"%n Datei", "%n Dateien"},
		State:        catalog.Finished,
	})
	add("", catalog.Message{Source: "Global", Translation: "Global!", State: catalog.Finished})

	out, err := Marshal(cat)
	require.NoError(t, err)
	assert.Contains(t, string(out), `msgctxt "QObject|QvisPlotListBoxItem"`)
	assert.NotContains(t, string(out), "Weg")

	po := gotext.NewPo()
	po.Parse(out)

	assert.Equal(t, "Operator hinzufügen", po.GetC("Add operator", "AddOperatorAction"))
	assert.Equal(t, "versteckt", po.GetC("hidden", "QObject"))
	assert.Equal(t, "verborgen", po.GetC("hidden", "QObject|QvisPlotListBoxItem"))
	assert.False(t, po.IsTranslatedC("Draft", "QObject"))
	assert.False(t, po.IsTranslatedC("Gone", "QObject"))
	assert.Equal(t, "%n Datei", po.GetNC("%n file(s)", "%n file(s)", 1, "QObject"))
	assert.Equal(t, "%n Dateien", po.GetNC("%n file(s)", "%n file(s)", 5, "QObject"))
	assert.Equal(t, "Global!", po.Get("Global"))
	assert.Contains(t, string(out), "Language: de")
}

func TestMsgCtxt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ctx", MsgCtxt("Ctx", &catalog.Message{Source: "a"}))
	assert.Equal(t, "Ctx|note", MsgCtxt("Ctx", &catalog.Message{Source: "a", Comment: "note"}))
}

func TestMarshal_MsgCtxtCollision(t *testing.T) {
	t.Parallel()

	cat := catalog.New()

	_, err := cat.AddMessage("A|b", catalog.Message{Source: "x", Translation: "first", State: catalog.Finished})
	require.NoError(t, err)
	_, err = cat.AddMessage("A", catalog.Message{Source: "x", Comment: "b", Translation: "second", State: catalog.Finished})
	require.NoError(t, err)
	_, err = cat.AddMessage("A", catalog.Message{Source: "x", Translation: "plain", State: catalog.Finished})
	require.NoError(t, err)

	var logs bytes.Buffer

	out, err := Marshal(cat, WithLogger(zerolog.New(&logs)))
	require.NoError(t, err)

	po := gotext.NewPo()
	po.Parse(out)

	assert.Equal(t, "first", po.GetC("x", "A|b"))
	assert.Equal(t, "plain", po.GetC("x", "A"))
	assert.NotContains(t, string(out), "second")

	assert.Contains(t, logs.String(), "Skipping message with colliding msgctxt")
	assert.Contains(t, logs.String(), `"kept_context":"A|b"`)
	assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("\n")))
}
