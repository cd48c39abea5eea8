// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"fmt"
	"iter"
	"slices"
)

// Option configures a Catalog.
type Option func(*Catalog)

// WithDuplicatePolicy sets how duplicate message keys are handled.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(c *Catalog) { c.policy = p }
}

// WithMergeMode makes AddContext return the existing context instead of
// failing with ErrDuplicateContext.
func WithMergeMode(on bool) Option {
	return func(c *Catalog) { c.merge = on }
}

// Catalog is the set of contexts and messages for one locale.
// Instances must be constructed with [New].
type Catalog struct {
	// Version is the format version token of the document root.
	Version string
	// Language and SourceLanguage are the locale attributes of the document
	// root, kept verbatim.
	Language       string
	SourceLanguage string

	contexts []*Context
	byName   map[string]*Context
	policy   DuplicatePolicy
	merge    bool
}

// New returns an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{byName: make(map[string]*Context)}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Policy returns the duplicate policy of c.
func (c *Catalog) Policy() DuplicatePolicy { return c.policy }

// SetPolicy changes the duplicate policy of c.
func (c *Catalog) SetPolicy(p DuplicatePolicy) { c.policy = p }

// MergeMode reports whether AddContext reuses existing contexts.
func (c *Catalog) MergeMode() bool { return c.merge }

// SetMergeMode changes the behaviour of AddContext for existing names.
func (c *Catalog) SetMergeMode(on bool) { c.merge = on }

// AddContext appends a new context named name.
//
// If the name exists, AddContext returns the existing context in merge mode
// and ErrDuplicateContext otherwise.
func (c *Catalog) AddContext(name string) (*Context, error) {
	if ctx, ok := c.byName[name]; ok {
		if c.merge {
			return ctx, nil
		}

		return ctx, fmt.Errorf("%w: %q", ErrDuplicateContext, name)
	}

	ctx := &Context{
		Name:    name,
		index:   make(map[Key]int),
		catalog: c,
	}

	c.contexts = append(c.contexts, ctx)
	c.byName[name] = ctx

	return ctx, nil
}

// Context returns the context named name.
func (c *Catalog) Context(name string) (*Context, bool) {
	ctx, ok := c.byName[name]

	return ctx, ok
}

// AddMessage adds m to the context named name, creating the context on first
// use. Duplicates are handled according to the catalog's policy.
func (c *Catalog) AddMessage(name string, m Message) (*Message, error) {
	ctx, ok := c.byName[name]
	if !ok {
		ctx, _ = c.AddContext(name)
	}

	return ctx.Add(m)
}

// Find returns the message stored under (context, source, comment).
// Matching is exact.
func (c *Catalog) Find(context, source, comment string) (*Message, bool) {
	ctx, ok := c.byName[context]
	if !ok {
		return nil, false
	}

	return ctx.Find(Key{Source: source, Comment: comment})
}

// Contexts yields the contexts of c in insertion order.
func (c *Catalog) Contexts() iter.Seq[*Context] {
	return func(yield func(*Context) bool) {
		for _, ctx := range c.contexts {
			if !yield(ctx) {
				return
			}
		}
	}
}

// Iterate yields the messages of the context named name in insertion order.
// It yields nothing for an unknown context.
func (c *Catalog) Iterate(name string) iter.Seq[*Message] {
	ctx, ok := c.byName[name]
	if !ok {
		return func(func(*Message) bool) {}
	}

	return ctx.Messages()
}

// Len returns the number of contexts in c.
func (c *Catalog) Len() int { return len(c.contexts) }

// Remove deletes the message stored under key from the named context.
// It reports whether a message was removed. Contexts are kept even when
// they become empty.
func (c *Catalog) Remove(context string, key Key) bool {
	ctx, ok := c.byName[context]
	if !ok {
		return false
	}

	return ctx.Remove(key)
}

// PruneObsolete removes every obsolete message and returns how many were
// removed.
func (c *Catalog) PruneObsolete() int {
	removed := 0

	for _, ctx := range c.contexts {
		kept := ctx.messages[:0]

		for _, m := range ctx.messages {
			if m.State == Obsolete {
				removed++
				continue
			}

			kept = append(kept, m)
		}

		clear(ctx.messages[len(kept):])
		ctx.messages = kept
		ctx.reindex()
	}

	return removed
}

// Clone returns a deep copy of c. The copy shares no mutable state with c.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{
		Version:        c.Version,
		Language:       c.Language,
		SourceLanguage: c.SourceLanguage,
		contexts:       make([]*Context, 0, len(c.contexts)),
		byName:         make(map[string]*Context, len(c.byName)),
		policy:         c.policy,
		merge:          c.merge,
	}

	for _, ctx := range c.contexts {
		cc := &Context{
			Name:     ctx.Name,
			messages: make([]*Message, len(ctx.messages)),
			index:    make(map[Key]int, len(ctx.index)),
			catalog:  out,
		}

		for i, m := range ctx.messages {
			cc.messages[i] = m.clone()
		}

		for k, v := range ctx.index {
			cc.index[k] = v
		}

		out.contexts = append(out.contexts, cc)
		out.byName[cc.Name] = cc
	}

	return out
}

// Stats counts the messages of c by state.
type Stats struct {
	Contexts   int
	Messages   int
	Finished   int
	Unfinished int
	Obsolete   int
}

// Stats returns message counts for c.
func (c *Catalog) Stats() Stats {
	s := Stats{Contexts: len(c.contexts)}

	for _, ctx := range c.contexts {
		for _, m := range ctx.messages {
			s.Messages++

			switch m.State {
			case Finished:
				s.Finished++
			case Unfinished:
				s.Unfinished++
			case Obsolete:
				s.Obsolete++
			}
		}
	}

	return s
}

// Context is a named group of messages within a catalog.
type Context struct {
	Name string

	messages []*Message
	index    map[Key]int
	catalog  *Catalog
}

// Add appends m to ctx, applying the owning catalog's duplicate policy.
//
// The returned message is the one stored in ctx: the new entry, the
// overwritten entry, or the kept entry under KeepFirst. Under Reject the
// existing entry is returned together with a *DuplicateError.
func (ctx *Context) Add(m Message) (*Message, error) {
	msg := m.clone()
	msg.normalize()

	key := msg.Key()

	if i, ok := ctx.index[key]; ok {
		existing := ctx.messages[i]

		switch ctx.catalog.policy {
		case Overwrite:
			ctx.messages[i] = msg

			return msg, nil
		case KeepFirst:
			return existing, nil
		default:
			return existing, &DuplicateError{Context: ctx.Name, Key: key}
		}
	}

	ctx.index[key] = len(ctx.messages)
	ctx.messages = append(ctx.messages, msg)

	return msg, nil
}

// Find returns the message stored under key.
func (ctx *Context) Find(key Key) (*Message, bool) {
	i, ok := ctx.index[key]
	if !ok {
		return nil, false
	}

	return ctx.messages[i], true
}

// Has reports whether a message is stored under key.
func (ctx *Context) Has(key Key) bool {
	_, ok := ctx.index[key]

	return ok
}

// Messages yields the messages of ctx in insertion order.
func (ctx *Context) Messages() iter.Seq[*Message] {
	return func(yield func(*Message) bool) {
		for _, m := range ctx.messages {
			if !yield(m) {
				return
			}
		}
	}
}

// Len returns the number of messages in ctx.
func (ctx *Context) Len() int { return len(ctx.messages) }

// Remove deletes the message stored under key and reports whether it existed.
func (ctx *Context) Remove(key Key) bool {
	i, ok := ctx.index[key]
	if !ok {
		return false
	}

	ctx.messages = slices.Delete(ctx.messages, i, i+1)
	ctx.reindex()

	return true
}

func (ctx *Context) reindex() {
	clear(ctx.index)

	for i, m := range ctx.messages {
		ctx.index[m.Key()] = i
	}
}
