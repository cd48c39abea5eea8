// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package tsfile

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"codeberg.org/tscat/tscat/catalog"
)

// Parse parses a TS document into a new catalog built with opts.
//
// The returned warnings describe recovered problems, such as unknown
// translation type attributes. Any error is fatal to the parse and no
// catalog is returned.
func Parse(data []byte, opts ...catalog.Option) (*catalog.Catalog, []error, error) {
	cat := catalog.New(opts...)

	warnings, err := Decode(cat, data)
	if err != nil {
		return nil, warnings, err
	}

	return cat, warnings, nil
}

// Decode parses a TS document into cat, following cat's duplicate policy and
// merge mode. Header fields of cat are only filled when empty.
//
// On error cat may hold part of the document; callers that need all-or-nothing
// semantics should decode into a [catalog.Catalog.Clone].
func Decode(cat *catalog.Catalog, data []byte) ([]error, error) {
	data, err := decompress(data)
	if err != nil {
		return nil, err
	}

	p := &parser{
		dec: xml.NewDecoder(bytes.NewReader(data)),
		cat: cat,
	}

	err = p.document()

	return p.warnings, err
}

type parser struct {
	dec      *xml.Decoder
	cat      *catalog.Catalog
	warnings []error
}

// pendingMessage is a parsed message waiting for its context name, which may
// follow the messages in the document.
type pendingMessage struct {
	msg  catalog.Message
	line int
	typ  string
}

func (p *parser) line() int {
	line, _ := p.dec.InputPos()

	return line
}

// next returns the next token. Reaching the end of input is an error since
// next is only used inside the root element.
func (p *parser) next() (xml.Token, error) {
	tok, err := p.dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, malformed(p.line(), "unexpected end of document")
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return tok, nil
}

func (p *parser) skip() error {
	if err := p.dec.Skip(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return nil
}

func (p *parser) document() error {
	sawRoot := false

	for {
		tok, err := p.dec.Token()
		if errors.Is(err, io.EOF) {
			if !sawRoot {
				return malformed(p.line(), "missing <TS> root element")
			}

			return nil
		}

		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if sawRoot {
				return malformed(p.line(), "unexpected element <%s> after root", t.Name.Local)
			}

			if t.Name.Local != "TS" {
				return malformed(p.line(), "root element is <%s>, want <TS>", t.Name.Local)
			}

			sawRoot = true

			if err := p.root(t); err != nil {
				return err
			}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return malformed(p.line(), "text outside the root element")
			}
		}
	}
}

func (p *parser) root(start xml.StartElement) error {
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "version":
			if p.cat.Version == "" {
				p.cat.Version = a.Value
			}
		case "language":
			if p.cat.Language == "" {
				p.cat.Language = a.Value
			}
		case "sourcelanguage":
			if p.cat.SourceLanguage == "" {
				p.cat.SourceLanguage = a.Value
			}
		}
	}

	for {
		tok, err := p.next()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "context" {
				if err := p.context(); err != nil {
					return err
				}

				continue
			}

			if err := p.skip(); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (p *parser) context() error {
	line := p.line()

	var (
		name     string
		haveName bool
		pending  []pendingMessage
	)

loop:
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				if haveName {
					return malformed(p.line(), "context with more than one <name>")
				}

				if name, err = p.text(); err != nil {
					return err
				}

				haveName = true
			case "message":
				pm, err := p.message(t)
				if err != nil {
					return err
				}

				pending = append(pending, pm)
			default:
				if err := p.skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			break loop
		}
	}

	if !haveName {
		return malformed(line, "context without <name>")
	}

	ctx, err := p.cat.AddContext(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", line, err)
	}

	for _, pm := range pending {
		if err := p.add(ctx, pm); err != nil {
			return err
		}
	}

	return nil
}

func (p *parser) message(start xml.StartElement) (pendingMessage, error) {
	pm := pendingMessage{line: p.line()}

	for _, a := range start.Attr {
		if a.Name.Local == "numerus" {
			pm.msg.Numerus = a.Value == "yes"
		}
	}

	var haveSource, haveTranslation bool

	for {
		tok, err := p.next()
		if err != nil {
			return pm, err
		}

		var end bool

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "source":
				if haveSource {
					return pm, malformed(p.line(), "message with more than one <source>")
				}

				pm.msg.Source, err = p.text()
				haveSource = true
			case "comment":
				pm.msg.Comment, err = p.text()
			case "extracomment":
				pm.msg.ExtraComment, err = p.text()
			case "translatorcomment":
				pm.msg.TranslatorComment, err = p.text()
			case "location":
				pm.msg.Locations = append(pm.msg.Locations, location(t))
				err = p.skip()
			case "translation":
				if haveTranslation {
					return pm, malformed(p.line(), "message with more than one <translation>")
				}

				for _, a := range t.Attr {
					if a.Name.Local == "type" {
						pm.typ = a.Value
					}
				}

				err = p.translation(&pm.msg)
				haveTranslation = true
			default:
				err = p.skip()
			}
		case xml.EndElement:
			end = true
		}

		if err != nil {
			return pm, err
		}

		if end {
			break
		}
	}

	if !haveSource {
		return pm, malformed(pm.line, "message without <source>")
	}

	if !haveTranslation {
		return pm, malformed(pm.line, "message without <translation>")
	}

	return pm, nil
}

func location(start xml.StartElement) catalog.Location {
	var loc catalog.Location

	for _, a := range start.Attr {
		switch a.Name.Local {
		case "filename":
			loc.Filename = a.Value
		case "line":
			loc.Line = a.Value
		}
	}

	return loc
}

// translation reads the content of a <translation> element: either text or
// a sequence of <numerusform> elements.
func (p *parser) translation(m *catalog.Message) error {
	var (
		text  strings.Builder
		forms []string
	)

	for {
		tok, err := p.next()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			switch t.Name.Local {
			case "byte":
				r, err := p.byteValue(t)
				if err != nil {
					return err
				}

				text.WriteRune(r)
			case "numerusform":
				form, err := p.text()
				if err != nil {
					return err
				}

				forms = append(forms, form)
			default:
				if err := p.skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if forms != nil {
				m.NumerusForms = forms
				m.Translation = forms[0]
			} else {
				m.Translation = text.String()
			}

			return nil
		}
	}
}

// text reads character data up to the end of the current element, decoding
// <byte> elements.
func (p *parser) text() (string, error) {
	var b strings.Builder

	for {
		tok, err := p.next()
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if t.Name.Local != "byte" {
				return "", malformed(p.line(), "unexpected element <%s> in text", t.Name.Local)
			}

			r, err := p.byteValue(t)
			if err != nil {
				return "", err
			}

			b.WriteRune(r)
		case xml.EndElement:
			return b.String(), nil
		}
	}
}

// byteValue decodes <byte value="x1b"/>, used for control characters that
// XML cannot carry. The value is hexadecimal with an "x" prefix, or decimal.
func (p *parser) byteValue(start xml.StartElement) (rune, error) {
	var raw string

	for _, a := range start.Attr {
		if a.Name.Local == "value" {
			raw = a.Value
		}
	}

	var (
		v   uint64
		err error
	)

	if hex, ok := strings.CutPrefix(raw, "x"); ok {
		v, err = strconv.ParseUint(hex, 16, 8)
	} else {
		v, err = strconv.ParseUint(raw, 10, 8)
	}

	if err != nil {
		return 0, malformed(p.line(), "invalid <byte> value %q", raw)
	}

	if err := p.skip(); err != nil {
		return 0, err
	}

	return rune(v), nil
}

func (p *parser) add(ctx *catalog.Context, pm pendingMessage) error {
	state, known := catalog.ParseState(pm.typ)
	if !known {
		p.warn(pm, ctx.Name, ErrUnknownStateAttribute, fmt.Sprintf("type=%q", pm.typ))
	}

	pm.msg.State = state

	if state == catalog.Finished && !pm.msg.HasTranslation() {
		p.warn(pm, ctx.Name, catalog.ErrEmptyFinished, "loaded as unfinished")
	}

	key := pm.msg.Key()

	if ctx.Has(key) && p.cat.Policy() != catalog.Reject {
		p.warn(pm, ctx.Name, &catalog.DuplicateError{Context: ctx.Name, Key: key}, "policy "+p.cat.Policy().String())
	}

	if _, err := ctx.Add(pm.msg); err != nil {
		return fmt.Errorf("line %d: %w", pm.line, err)
	}

	return nil
}

func (p *parser) warn(pm pendingMessage, context string, err error, detail string) {
	p.warnings = append(p.warnings, &Warning{
		Line:    pm.line,
		Context: context,
		Source:  pm.msg.Source,
		Detail:  detail,
		Err:     err,
	})
}
