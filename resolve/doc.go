// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package resolve turns a lookup key into a displayable string.

A [Resolver] reads one immutable catalog. For a key (context, source,
comment) it applies the fallback policy:

  - a finished message yields its translation;
  - an unfinished message with text yields that text only in best-effort
    mode ([WithBestEffort]);
  - anything else, including obsolete messages, yields the source text.

The result then goes through positional placeholder substitution:

	r.Translate("AddOperatorAction", "Add %1 operator", "", "Box")
	// "Edd Box ooperetur"

%1 through %9 are replaced by the matching argument and %% becomes a
single %. Placeholders without an argument are left as they are.

# Diagnostics

Fallbacks and placeholder mismatches are sent to a [Reporter]. The default
reporter logs each distinct problem once per locale and key through
zerolog. Translate never returns an error; use [Resolver.TranslateE] with
[WithStrictPlaceholders] to turn placeholder mismatches into errors.
*/
package resolve
