// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package tsfile

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"codeberg.org/tscat/tscat/catalog"
)

// DefaultVersion is written when a catalog has no format version.
const DefaultVersion = "2.1"

const (
	indentMessage = "    "
	indentField   = "        "
	indentForm    = "            "
)

// Marshal serializes cat as a TS document.
//
// Contexts and messages are written in insertion order. Obsolete messages
// are written with type="obsolete". A catalog without a version is written
// with [DefaultVersion].
//
// Marshal fails with an error wrapping [ErrUnencodable] when a value holds
// invalid UTF-8 or a character XML cannot represent. Control characters in
// element content are written as <byte> elements; in attribute values only
// tab, newline and carriage return are allowed.
func Marshal(cat *catalog.Catalog) ([]byte, error) {
	if err := checkCatalog(cat); err != nil {
		return nil, err
	}

	var b bytes.Buffer

	version := cat.Version
	if version == "" {
		version = DefaultVersion
	}

	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<!DOCTYPE TS>\n<TS version=\"")
	b.WriteString(escapeAttr(version))
	b.WriteByte('"')

	if cat.Language != "" {
		fmt.Fprintf(&b, " language=\"%s\"", escapeAttr(cat.Language))
	}

	if cat.SourceLanguage != "" {
		fmt.Fprintf(&b, " sourcelanguage=\"%s\"", escapeAttr(cat.SourceLanguage))
	}

	b.WriteString(">\n")

	for ctx := range cat.Contexts() {
		b.WriteString("<context>\n")
		writeElement(&b, indentMessage, "name", ctx.Name)

		for m := range ctx.Messages() {
			writeMessage(&b, m)
		}

		b.WriteString("</context>\n")
	}

	b.WriteString("</TS>\n")

	return b.Bytes(), nil
}

func writeMessage(b *bytes.Buffer, m *catalog.Message) {
	b.WriteString(indentMessage)

	if m.Numerus {
		b.WriteString("<message numerus=\"yes\">\n")
	} else {
		b.WriteString("<message>\n")
	}

	for _, loc := range m.Locations {
		fmt.Fprintf(b, "%s<location filename=\"%s\"", indentField, escapeAttr(loc.Filename))

		if loc.Line != "" {
			fmt.Fprintf(b, " line=\"%s\"", escapeAttr(loc.Line))
		}

		b.WriteString("/>\n")
	}

	writeElement(b, indentField, "source", m.Source)

	if m.Comment != "" {
		writeElement(b, indentField, "comment", m.Comment)
	}

	if m.ExtraComment != "" {
		writeElement(b, indentField, "extracomment", m.ExtraComment)
	}

	if m.TranslatorComment != "" {
		writeElement(b, indentField, "translatorcomment", m.TranslatorComment)
	}

	b.WriteString(indentField)
	b.WriteString("<translation")

	if attr := m.State.Attr(); attr != "" {
		fmt.Fprintf(b, " type=\"%s\"", attr)
	}

	b.WriteByte('>')

	if len(m.NumerusForms) > 0 {
		b.WriteByte('\n')

		for _, form := range m.NumerusForms {
			writeElement(b, indentForm, "numerusform", form)
		}

		b.WriteString(indentField)
	} else {
		b.WriteString(escapeText(m.Translation))
	}

	b.WriteString("</translation>\n")
	b.WriteString(indentMessage)
	b.WriteString("</message>\n")
}

func writeElement(b *bytes.Buffer, indent, name, text string) {
	b.WriteString(indent)
	b.WriteByte('<')
	b.WriteString(name)
	b.WriteByte('>')
	b.WriteString(escapeText(text))
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">\n")
}

// escapeText escapes s for use as element content. Newlines and tabs are
// kept verbatim; other control characters become <byte> elements.
func escapeText(s string) string {
	if !strings.ContainsFunc(s, needsTextEscape) {
		return s
	}

	var b strings.Builder

	b.Grow(len(s) + len(s)/8)

	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '\'':
			b.WriteString("&apos;")
		case '"':
			b.WriteString("&quot;")
		case '\n', '\t':
			b.WriteRune(r)
		default:
			if r < ' ' {
				fmt.Fprintf(&b, "<byte value=\"x%x\"/>", r)
			} else {
				b.WriteRune(r)
			}
		}
	}

	return b.String()
}

func needsTextEscape(r rune) bool {
	switch r {
	case '&', '<', '>', '\'', '"':
		return true
	case '\n', '\t':
		return false
	default:
		return r < ' '
	}
}

// escapeAttr escapes s for use inside a double-quoted attribute value.
// Whitespace characters are written as character references so that
// attribute value normalization does not turn them into spaces.
func escapeAttr(s string) string {
	var b strings.Builder

	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '\'':
			b.WriteString("&apos;")
		case '"':
			b.WriteString("&quot;")
		case '\n', '\t', '\r':
			fmt.Fprintf(&b, "&#x%X;", r)
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// isInCharacterRange reports whether r is a legal XML 1.0 character.
func isInCharacterRange(r rune) bool {
	return r == 0x09 ||
		r == 0x0A ||
		r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

func checkValue(s string, allowed func(rune) bool) error {
	if !utf8.ValidString(s) {
		return errInvalidUTF8
	}

	if i := strings.IndexFunc(s, func(r rune) bool { return !allowed(r) }); i >= 0 {
		r, _ := utf8.DecodeRuneInString(s[i:])

		return fmt.Errorf("illegal character %U at byte %d", r, i)
	}

	return nil
}

// textAllowed accepts everything escapeText can write.
func textAllowed(r rune) bool {
	return r < ' ' || isInCharacterRange(r)
}

func checkText(field, s string) error {
	if err := checkValue(s, textAllowed); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnencodable, field, err)
	}

	return nil
}

func checkAttr(field, s string) error {
	if err := checkValue(s, isInCharacterRange); err != nil {
		return fmt.Errorf("%w: %s attribute: %w", ErrUnencodable, field, err)
	}

	return nil
}

type field struct {
	name, value string
}

func checkCatalog(cat *catalog.Catalog) error {
	header := []field{
		{"version", cat.Version},
		{"language", cat.Language},
		{"sourcelanguage", cat.SourceLanguage},
	}

	for _, f := range header {
		if err := checkAttr(f.name, f.value); err != nil {
			return err
		}
	}

	for ctx := range cat.Contexts() {
		if err := checkText("context name", ctx.Name); err != nil {
			return err
		}

		for m := range ctx.Messages() {
			if err := checkMessage(m); err != nil {
				return fmt.Errorf("context %q, source %q: %w", ctx.Name, m.Source, err)
			}
		}
	}

	return nil
}

func checkMessage(m *catalog.Message) error {
	for _, loc := range m.Locations {
		if err := checkAttr("location filename", loc.Filename); err != nil {
			return err
		}

		if err := checkAttr("location line", loc.Line); err != nil {
			return err
		}
	}

	fields := []field{
		{"source", m.Source},
		{"comment", m.Comment},
		{"extracomment", m.ExtraComment},
		{"translatorcomment", m.TranslatorComment},
		{"translation", m.Translation},
	}

	for _, f := range fields {
		if err := checkText(f.name, f.value); err != nil {
			return err
		}
	}

	for _, form := range m.NumerusForms {
		if err := checkText("numerusform", form); err != nil {
			return err
		}
	}

	return nil
}
