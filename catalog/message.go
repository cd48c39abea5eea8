// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import "slices"

// Key identifies a message within its context.
// An empty Comment means the message has no disambiguation comment.
type Key struct {
	Source  string
	Comment string
}

// Location is a source code reference recorded by the extraction tooling.
// Line is kept as written; it may be relative, such as "+3".
type Location struct {
	Filename string
	Line     string
}

// Message is a single translatable string and its translation.
type Message struct {
	Source  string
	Comment string

	// Translation is the localized text. For numerus messages it mirrors
	// the first entry of NumerusForms.
	Translation string
	State       State

	// Numerus marks messages that need plural-form variants. Selecting a
	// form is left to the caller.
	Numerus      bool
	NumerusForms []string

	Locations         []Location
	ExtraComment      string
	TranslatorComment string
}

// Key returns the lookup key of m.
func (m *Message) Key() Key {
	return Key{Source: m.Source, Comment: m.Comment}
}

// HasTranslation reports whether m carries any non-empty translated text.
func (m *Message) HasTranslation() bool {
	if m.Translation != "" {
		return true
	}

	for _, form := range m.NumerusForms {
		if form != "" {
			return true
		}
	}

	return false
}

// Form returns numerus form i, or the plain translation when m has no
// such form.
func (m *Message) Form(i int) string {
	if i >= 0 && i < len(m.NumerusForms) {
		return m.NumerusForms[i]
	}

	return m.Translation
}

// SetTranslation replaces the translated text. Clearing the text of a
// finished message demotes it to Unfinished.
func (m *Message) SetTranslation(text string) {
	m.Translation = text

	switch {
	case len(m.NumerusForms) > 0:
		m.NumerusForms[0] = text
	case m.Numerus:
		m.NumerusForms = []string{text}
	}

	m.normalize()
}

// SetState moves m to state s.
// It returns ErrEmptyFinished when s is Finished and m has no translation.
func (m *Message) SetState(s State) error {
	if s == Finished && !m.HasTranslation() {
		return ErrEmptyFinished
	}

	m.State = s

	return nil
}

// normalize enforces the finished-implies-translated invariant and keeps
// Translation in step with the first numerus form.
func (m *Message) normalize() {
	if len(m.NumerusForms) > 0 {
		m.Translation = m.NumerusForms[0]
	}

	if m.State == Finished && !m.HasTranslation() {
		m.State = Unfinished
	}
}

func (m *Message) clone() *Message {
	c := *m
	c.NumerusForms = slices.Clone(m.NumerusForms)
	c.Locations = slices.Clone(m.Locations)

	return &c
}
