// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package pofile exports catalogs as GNU gettext .po files.
//
// The TS context becomes msgctxt. A disambiguation comment is appended to
// the context as "context|comment" since gettext has no separate field for
// it. Only finished translations are exported with text; unfinished
// messages are written untranslated and obsolete messages are left out.
//
// A context name containing "|" can map to the same msgctxt as another
// context with a comment. Only the first such message is exported and the
// collision is logged as a warning.
package pofile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/tscat/tscat/catalog"
)

// CommentSeparator joins a context and a disambiguation comment in msgctxt.
const CommentSeparator = "|"

// MsgCtxt returns the msgctxt used for a message in context.
func MsgCtxt(context string, m *catalog.Message) string {
	if m.Comment == "" {
		return context
	}

	return context + CommentSeparator + m.Comment
}

// Option configures Marshal.
type Option func(*options)

type options struct {
	logger zerolog.Logger
}

// WithLogger sets the logger used to report msgctxt collisions.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Marshal renders cat as a .po document.
func Marshal(cat *catalog.Catalog, opts ...Option) ([]byte, error) {
	o := options{logger: log.With().Str("sys", "pofile").Logger()}
	for _, opt := range opts {
		opt(&o)
	}

	po := gotext.NewPo()
	po.Parse(header(cat))

	dom := po.GetDomain()

	// msgctxt + EOT + msgid of every exported entry, mapped to its context.
	exported := map[string]string{}

	for ctx := range cat.Contexts() {
		for m := range ctx.Messages() {
			if m.State == catalog.Obsolete {
				continue
			}

			msgctxt := MsgCtxt(ctx.Name, m)

			key := msgctxt + gotext.EotSeparator + m.Source
			if prev, ok := exported[key]; ok {
				o.logger.Warn().
					Str("msgctxt", msgctxt).
					Str("source", m.Source).
					Str("context", ctx.Name).
					Str("comment", m.Comment).
					Str("kept_context", prev).
					Msg("Skipping message with colliding msgctxt")

				continue
			}

			exported[key] = ctx.Name

			if len(m.NumerusForms) > 0 || m.Numerus {
				forms := exportedForms(m)
				for i, form := range forms {
					if msgctxt == "" {
						dom.SetN(m.Source, m.Source, i, form)
					} else {
						dom.SetNC(m.Source, m.Source, msgctxt, i, form)
					}
				}

				continue
			}

			text := ""
			if m.State == catalog.Finished {
				text = m.Translation
			}

			if msgctxt == "" {
				dom.Set(m.Source, text)
			} else {
				dom.SetC(m.Source, msgctxt, text)
			}
		}
	}

	out, err := po.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to render po file: %w", err)
	}

	return out, nil
}

func exportedForms(m *catalog.Message) []string {
	if m.State != catalog.Finished {
		return []string{"", ""}
	}

	if len(m.NumerusForms) == 0 {
		return []string{m.Translation}
	}

	return m.NumerusForms
}

// header builds the PO header entry from the catalog's header fields.
func header(cat *catalog.Catalog) []byte {
	var b strings.Builder

	b.WriteString("msgid \"\"\nmsgstr \"\"\n")
	b.WriteString(strconv.Quote("Content-Type: text/plain; charset=UTF-8\n"))
	b.WriteByte('\n')

	if cat.Language != "" {
		b.WriteString(strconv.Quote("Language: " + cat.Language + "\n"))
		b.WriteByte('\n')
	}

	if cat.SourceLanguage != "" {
		b.WriteString(strconv.Quote("X-Source-Language: " + cat.SourceLanguage + "\n"))
		b.WriteByte('\n')
	}

	b.WriteString(strconv.Quote("X-Generator: tscat\n"))
	b.WriteByte('\n')

	return []byte(b.String())
}
