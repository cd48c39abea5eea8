// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package tsfile

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned for structurally invalid documents.
	ErrMalformed = errors.New("malformed TS document")

	// ErrUnknownStateAttribute is wrapped by warnings for translation type
	// attributes that are not understood.
	ErrUnknownStateAttribute = errors.New("unknown translation type attribute")

	// ErrUnencodable is returned by Marshal for values that cannot be
	// written as XML.
	ErrUnencodable = errors.New("value cannot be encoded as XML")

	errInvalidUTF8 = errors.New("invalid UTF-8")
)

// Warning is a recoverable problem found while parsing. The affected message
// has been loaded with a safe default.
type Warning struct {
	Line    int
	Context string
	Source  string
	Detail  string
	Err     error
}

func (w *Warning) Error() string {
	msg := fmt.Sprintf("line %d: context %q, source %q: %v", w.Line, w.Context, w.Source, w.Err)
	if w.Detail != "" {
		msg += " (" + w.Detail + ")"
	}

	return msg
}

func (w *Warning) Unwrap() error {
	return w.Err
}

func malformed(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, line, fmt.Sprintf(format, args...))
}
