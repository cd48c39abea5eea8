// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n wires a process-wide [store.Store] into an application.

# Quick start

Call [Setup] once with the loaded configuration. It loads every catalog
found in the configured directories into [Default] and selects the
configured default locale.

Use the original source text as the key; do not invent keys:

	i18n.Tr(ctx, "Are you sure you want to quit?")
	i18n.TrC(ctx, "FileMenu", "Open")
	i18n.TrD(ctx, "QObject", "hidden", "QvisPlotListBoxItem")
	i18n.TrC(ctx, "AddOperatorAction", "Add %1 operator", name)

The locale comes from ctx when one was installed with [WithTag], otherwise
from the store's active locale.

# Missing translations

Missing translations return the source text with %N placeholders
substituted. When Resolver.LogMissing is enabled, each missing key is
logged once per locale.

Libraries and tests that need their own registry should create one with
[store.New] instead of using [Default].
*/
package i18n
