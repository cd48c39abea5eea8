// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package catalog holds the in-memory model of a translation catalog for one
locale: an ordered set of named contexts, each owning an ordered sequence of
messages keyed by (source, comment).

# Keys

A message is identified within its context by [Key]. Two messages may share
the same source text as long as their disambiguation comments differ:

	cat.AddMessage("QObject", catalog.Message{Source: "hidden", Translation: "hodden", State: catalog.Finished})
	cat.AddMessage("QObject", catalog.Message{Source: "hidden", Comment: "QvisPlotListBoxItem", Translation: "heedden", State: catalog.Finished})

# Duplicates

What happens when a message is added under a key that already exists is
governed by [DuplicatePolicy]. The default, [Reject], returns a
[*DuplicateError] and leaves the existing entry untouched. Tools that must
match a specific existing behaviour can choose [Overwrite] or [KeepFirst].

# States

Every message carries a [State]. New messages default to [Unfinished].
A [Finished] message always has a translation: adding a finished message
without one demotes it to [Unfinished], and [Message.SetState] refuses the
transition with [ErrEmptyFinished]. [Obsolete] messages are kept in the
model so that re-saving preserves history; they are only removed by
[Catalog.Remove] or [Catalog.PruneObsolete].

A Catalog is not safe for concurrent mutation. Once handed to readers
(see package store) it must be treated as immutable; use [Catalog.Clone]
to derive a modified copy.
*/
package catalog
