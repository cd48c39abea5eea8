// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
)

// Tr returns the translation of source in the global context (the empty
// context name), substituting args into %1..%9.
//
// If a translation is not found, Tr returns source with args substituted.
func Tr(ctx context.Context, source string, args ...any) string {
	return translate(ctx, "", source, "", args)
}

// TrC translates source within a named context.
func TrC(ctx context.Context, contextName, source string, args ...any) string {
	return translate(ctx, contextName, source, "", args)
}

// TrD is TrC with a disambiguation comment, for identical source texts
// that need different translations within one context.
func TrD(ctx context.Context, contextName, source, comment string, args ...any) string {
	return translate(ctx, contextName, source, comment, args)
}

// TrF translates a numerus message, selecting plural form n as decided by
// the caller's plural rule.
func TrF(ctx context.Context, contextName, source string, form int, args ...any) string {
	return TrFD(ctx, contextName, source, "", form, args...)
}

// TrFD is TrF with a disambiguation comment.
func TrFD(ctx context.Context, contextName, source, comment string, form int, args ...any) string {
	return Default.Resolver(TagFrom(ctx).String()).TranslateForm(contextName, source, comment, form, args...)
}

func translate(ctx context.Context, contextName, source, comment string, args []any) string {
	return Default.TranslateIn(TagFrom(ctx).String(), contextName, source, comment, args...)
}
