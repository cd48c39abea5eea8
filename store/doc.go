// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package store keeps loaded catalogs per locale and resolves lookups against
the active locale.

A [Store] is an ordinary value; create as many as needed:

	s := store.New(store.WithActiveLocale("de"))
	if _, err := s.Load("de", data); err != nil {
		// the previously loaded "de" catalog, if any, is still in use
	}
	label := s.Translate("AddOperatorAction", "Add %1 operator", "", "Box")

Locale names are BCP 47 tags; "de_DE" and "de-DE" name the same locale.
When a locale has no catalog its parent locales are consulted, so a store
holding only "pt" also answers lookups for "pt-BR".
*/
package store
