// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package resolve

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"codeberg.org/tscat/tscat/catalog"
)

// Outcome is the final state of a single lookup.
type Outcome int

const (
	// Missing means no usable message exists and the source text is used.
	Missing Outcome = iota
	// Found means a finished translation was used.
	Found
	// FoundUnfinished means an unfinished translation was used in
	// best-effort mode.
	FoundUnfinished
)

func (o Outcome) String() string {
	switch o {
	case Missing:
		return "missing"
	case Found:
		return "found"
	case FoundUnfinished:
		return "found-unfinished"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the outcome of [Resolver.Lookup].
type Result struct {
	// Text is the translation, or the source text when Outcome is Missing.
	Text    string
	Outcome Outcome
	// Message is the matched message, if any. It may be set for a Missing
	// result when the match was obsolete or empty.
	Message *catalog.Message
}

type options struct {
	bestEffort bool
	strict     bool
	logMissing bool
	locale     string
	reporter   Reporter
}

// Option configures a [Resolver].
type Option func(*options)

// WithBestEffort makes unfinished translations with text visible to lookups.
func WithBestEffort(on bool) Option {
	return func(o *options) { o.bestEffort = on }
}

// WithStrictPlaceholders makes [Resolver.TranslateE] fail on placeholder
// mismatches.
func WithStrictPlaceholders(on bool) Option {
	return func(o *options) { o.strict = on }
}

// WithLogMissing controls whether the default reporter logs missing
// translations. It has no effect together with [WithReporter].
func WithLogMissing(on bool) Option {
	return func(o *options) { o.logMissing = on }
}

// WithLocale sets the locale name attached to diagnostics.
func WithLocale(locale string) Option {
	return func(o *options) { o.locale = locale }
}

// WithReporter replaces the default logging reporter.
func WithReporter(r Reporter) Option {
	return func(o *options) { o.reporter = r }
}

// Resolver resolves keys against one catalog. The catalog must not be
// modified while the Resolver is in use. A Resolver is safe for concurrent
// use.
type Resolver struct {
	cat  *catalog.Catalog
	opts options
}

// New returns a Resolver for cat. A nil cat resolves every key as Missing.
func New(cat *catalog.Catalog, opts ...Option) *Resolver {
	o := options{logMissing: true}
	for _, opt := range opts {
		opt(&o)
	}

	if o.reporter == nil {
		o.reporter = NewLogReporter(log.With().Str("sys", "resolve").Logger(), o.logMissing)
	}

	return &Resolver{cat: cat, opts: o}
}

// Catalog returns the catalog r reads from. It may be nil.
func (r *Resolver) Catalog() *catalog.Catalog { return r.cat }

// Locale returns the locale name used in diagnostics.
func (r *Resolver) Locale() string { return r.opts.locale }

// BestEffort reports whether unfinished translations are used.
func (r *Resolver) BestEffort() bool { return r.opts.bestEffort }

// Lookup applies the fallback policy to a key without placeholder
// substitution and without reporting diagnostics.
func (r *Resolver) Lookup(context, source, comment string) Result {
	return r.lookup(context, source, comment, 0)
}

func (r *Resolver) lookup(context, source, comment string, form int) Result {
	res := Result{Text: source, Outcome: Missing}

	if r == nil || r.cat == nil {
		return res
	}

	m, ok := r.cat.Find(context, source, comment)
	if !ok {
		return res
	}

	res.Message = m

	text := m.Translation
	if len(m.NumerusForms) > 0 {
		if form < 0 || form >= len(m.NumerusForms) {
			form = 0
		}

		text = m.NumerusForms[form]
	}

	switch {
	case text == "":
	case m.State == catalog.Finished:
		res.Text, res.Outcome = text, Found
	case m.State == catalog.Unfinished && r.opts.bestEffort:
		res.Text, res.Outcome = text, FoundUnfinished
	}

	return res
}

// Translate resolves a key and substitutes args into %1..%9. It always
// returns a displayable string: when no usable translation exists the
// source text is used.
func (r *Resolver) Translate(context, source, comment string, args ...any) string {
	text, _ := r.translate(context, source, comment, 0, args)

	return text
}

// TranslateE is like Translate but, in strict mode, also returns an error
// wrapping [ErrPlaceholderCountMismatch]. The returned text is the same as
// Translate's in every case.
func (r *Resolver) TranslateE(context, source, comment string, args ...any) (string, error) {
	return r.translate(context, source, comment, 0, args)
}

// TranslateForm is like Translate for numerus messages. form selects the
// plural form chosen by the caller's plural rule; an out-of-range form
// selects form 0.
func (r *Resolver) TranslateForm(context, source, comment string, form int, args ...any) string {
	text, _ := r.translate(context, source, comment, form, args)

	return text
}

func (r *Resolver) translate(context, source, comment string, form int, args []any) (string, error) {
	res := r.lookup(context, source, comment, form)

	d := Diagnostic{
		Locale:  r.locale(),
		Context: context,
		Source:  source,
		Comment: comment,
		Outcome: res.Outcome,
	}

	if res.Outcome == Missing {
		d.Kind = MissingTranslation
		r.report(d)
	}

	sub := substitute(res.Text, args)
	if !sub.mismatch() {
		return sub.text, nil
	}

	d.Kind = PlaceholderCountMismatch
	d.Unmatched, d.Unused = sub.unmatched, sub.unused
	r.report(d)

	if r != nil && r.opts.strict {
		return sub.text, fmt.Errorf("%w: %s", ErrPlaceholderCountMismatch, d.Error())
	}

	return sub.text, nil
}

func (r *Resolver) locale() string {
	if r == nil {
		return ""
	}

	return r.opts.locale
}

func (r *Resolver) report(d Diagnostic) {
	if r == nil || r.opts.reporter == nil {
		return
	}

	r.opts.reporter.Report(d)
}
