// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package resolve

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog"
)

// ErrPlaceholderCountMismatch is returned by [Resolver.TranslateE] in strict
// mode when placeholders and arguments do not line up.
var ErrPlaceholderCountMismatch = errors.New("placeholder count mismatch")

// Kind classifies a [Diagnostic].
type Kind int

const (
	// MissingTranslation means the source text was returned.
	MissingTranslation Kind = iota
	// PlaceholderCountMismatch means a %N had no argument or an argument
	// was never referenced.
	PlaceholderCountMismatch
)

func (k Kind) String() string {
	switch k {
	case MissingTranslation:
		return "missing translation"
	case PlaceholderCountMismatch:
		return "placeholder count mismatch"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Diagnostic describes a non-fatal problem met while translating.
type Diagnostic struct {
	Kind    Kind
	Locale  string
	Context string
	Source  string
	Comment string

	// Outcome is the lookup outcome the text came from.
	Outcome Outcome
	// Unmatched and Unused are set for PlaceholderCountMismatch.
	Unmatched int
	Unused    int
}

// key composes a gettext-style "context<EOT>source" identifier, extended
// with the comment when present.
func (d Diagnostic) key() string {
	id := d.Source
	if d.Context != "" {
		id = d.Context + gotext.EotSeparator + id
	}

	if d.Comment != "" {
		id += gotext.EotSeparator + d.Comment
	}

	return id
}

func (d Diagnostic) Error() string {
	if d.Kind == PlaceholderCountMismatch {
		return fmt.Sprintf("%s: context %q, source %q: %d placeholders without argument, %d unused arguments",
			d.Kind, d.Context, d.Source, d.Unmatched, d.Unused)
	}

	return fmt.Sprintf("%s: context %q, source %q", d.Kind, d.Context, d.Source)
}

// Reporter receives diagnostics. Implementations must be safe for
// concurrent use.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to [Reporter].
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Reporter = ReporterFunc(func(Diagnostic) {})

// LogReporter logs each distinct diagnostic once per (kind, locale, key).
type LogReporter struct {
	logger zerolog.Logger

	// logMissing gates MissingTranslation diagnostics.
	logMissing bool

	seen sync.Map
}

// NewLogReporter returns a reporter writing to logger. Missing translations
// are logged only when logMissing is set; placeholder mismatches always are.
func NewLogReporter(logger zerolog.Logger, logMissing bool) *LogReporter {
	return &LogReporter{logger: logger, logMissing: logMissing}
}

func (r *LogReporter) Report(d Diagnostic) {
	if d.Kind == MissingTranslation && !r.logMissing {
		return
	}

	id := fmt.Sprintf("%d\x00%s\x00%s", d.Kind, d.Locale, d.key())
	if _, loaded := r.seen.LoadOrStore(id, struct{}{}); loaded {
		return
	}

	switch d.Kind {
	case MissingTranslation:
		r.logger.Warn().
			Str("locale", d.Locale).
			Str("key", d.key()).
			Msg("Missing translation")
	case PlaceholderCountMismatch:
		r.logger.Warn().
			Str("locale", d.Locale).
			Str("key", d.key()).
			Int("unmatched", d.Unmatched).
			Int("unused", d.Unused).
			Msg("Placeholder count mismatch")
	}
}

// Reset forgets which diagnostics were already logged.
func (r *LogReporter) Reset() {
	r.seen.Clear()
}
